package mipiraw

import "fmt"

// phase locates one sample inside a repeating group of packed bytes.
type phase struct {
	msb    int // MIPI only: byte holding the high 8 bits
	offset int // first byte of the (low) bit run
	shift  int // bit position of the run inside that byte
	span   int // bytes covering the run
}

// unpackTable is built once per descriptor. Samples repeat their byte and bit
// layout every len(phases) pixels, groupBytes bytes apart.
type unpackTable struct {
	depth      BitDepth
	packing    Packing
	groupBytes int
	phases     []phase
	runBits    int // bits read from the run: depth, or depth-8 for MIPI
	mask       uint32
}

func newUnpackTable(depth BitDepth, packing Packing) (*unpackTable, error) {
	if !depth.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, int(depth))
	}
	if !packing.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPacking, packing)
	}

	d := int(depth)
	t := &unpackTable{depth: depth, packing: packing}

	if packing == PackingMIPI && mipiGroup(depth) > 1 {
		g := mipiGroup(depth)
		low := d - 8
		t.groupBytes = g * d / 8
		t.runBits = low
		t.phases = make([]phase, g)
		for k := range t.phases {
			bit := k * low
			t.phases[k] = phase{
				msb:    k,
				offset: g + bit/8,
				shift:  bit % 8,
				span:   (bit%8 + low + 7) / 8,
			}
		}
	} else {
		// 8 samples of d bits always end on a byte boundary
		t.groupBytes = d
		t.runBits = d
		t.phases = make([]phase, 8)
		for k := range t.phases {
			bit := k * d
			t.phases[k] = phase{
				offset: bit / 8,
				shift:  bit % 8,
				span:   (bit%8 + d + 7) / 8,
			}
		}
	}
	t.mask = uint32(1)<<uint(t.runBits) - 1
	return t, nil
}

func (t *unpackTable) mipi() bool {
	return t.runBits != int(t.depth)
}

// rowBytes is the number of bytes needed to hold n samples.
func (t *unpackTable) rowBytes(n int) int {
	return RowBytes(n, t.depth, t.packing)
}

func (t *unpackTable) unpack(row []byte, dst []uint16) error {
	if need := t.rowBytes(len(dst)); len(row) < need {
		return fmt.Errorf("%w: %d samples of %d bits need %d bytes, have %d",
			ErrMalformedBuffer, len(dst), int(t.depth), need, len(row))
	}

	n := len(t.phases)
	mipi := t.mipi()
	for i := range dst {
		ph := &t.phases[i%n]
		base := (i / n) * t.groupBytes
		at := base + ph.offset

		v := uint32(row[at])
		if ph.span > 1 {
			v |= uint32(row[at+1]) << 8
			if ph.span > 2 {
				v |= uint32(row[at+2]) << 16
			}
		}
		v = v >> uint(ph.shift) & t.mask

		if mipi {
			v |= uint32(row[base+ph.msb]) << uint(t.runBits)
		}
		dst[i] = uint16(v)
	}
	return nil
}

func (t *unpackTable) pack(samples []uint16, dst []byte) error {
	need := t.rowBytes(len(samples))
	if len(dst) < need {
		return fmt.Errorf("%w: %d samples of %d bits need %d bytes, have %d",
			ErrMalformedBuffer, len(samples), int(t.depth), need, len(dst))
	}
	for i := range dst[:need] {
		dst[i] = 0
	}

	limit := t.depth.MaxValue()
	n := len(t.phases)
	mipi := t.mipi()
	for i, s := range samples {
		v := uint32(s)
		if v > limit {
			return fmt.Errorf("%w: sample %d value %d exceeds %d bits", ErrMalformedBuffer, i, v, int(t.depth))
		}
		ph := &t.phases[i%n]
		base := (i / n) * t.groupBytes
		at := base + ph.offset

		if mipi {
			dst[base+ph.msb] = byte(v >> uint(t.runBits))
		}
		run := (v & t.mask) << uint(ph.shift)
		for j := 0; j < ph.span; j++ {
			dst[at+j] |= byte(run >> uint(8*j))
		}
	}
	return nil
}

// Unpack extracts len(dst) samples of the given depth from one packed row.
// Bytes past the samples are ignored. It fails with ErrMalformedBuffer when
// row is too short to hold every sample.
func Unpack(row []byte, depth BitDepth, packing Packing, dst []uint16) error {
	t, err := newUnpackTable(depth, packing)
	if err != nil {
		return err
	}
	return t.unpack(row, dst)
}

// Pack is the inverse of Unpack. Unused bits of the last byte are zero.
func Pack(samples []uint16, depth BitDepth, packing Packing, dst []byte) error {
	t, err := newUnpackTable(depth, packing)
	if err != nil {
		return err
	}
	return t.pack(samples, dst)
}
