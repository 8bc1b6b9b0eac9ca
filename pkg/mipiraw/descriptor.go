package mipiraw

import (
	"fmt"
	"strings"
)

// BitDepth is the number of significant bits per packed sample.
type BitDepth int

const (
	Depth8  BitDepth = 8
	Depth10 BitDepth = 10
	Depth12 BitDepth = 12
	Depth14 BitDepth = 14
	Depth16 BitDepth = 16
)

// BitDepths lists the supported depths in ascending order.
var BitDepths = []BitDepth{Depth8, Depth10, Depth12, Depth14, Depth16}

func (d BitDepth) Valid() bool {
	switch d {
	case Depth8, Depth10, Depth12, Depth14, Depth16:
		return true
	}
	return false
}

// MaxValue is the largest sample representable at this depth.
func (d BitDepth) MaxValue() uint32 {
	return uint32(1)<<uint(d) - 1
}

// BayerOrder names the colours of the top-left 2x2 tile of the mosaic, read
// left to right, top to bottom.
type BayerOrder int

const (
	RGGB BayerOrder = iota
	BGGR
	GRBG
	GBRG
)

const (
	chR = iota
	chG
	chB
)

var bayerNames = [...]string{RGGB: "RGGB", BGGR: "BGGR", GRBG: "GRBG", GBRG: "GBRG"}

// tile positions (0,0) (1,0) (0,1) (1,1) indexed by (y&1)<<1 | x&1
var bayerTiles = [...][4]int{
	RGGB: {chR, chG, chG, chB},
	BGGR: {chB, chG, chG, chR},
	GRBG: {chG, chR, chB, chG},
	GBRG: {chG, chB, chR, chG},
}

func (o BayerOrder) Valid() bool {
	return o >= RGGB && o <= GBRG
}

func (o BayerOrder) String() string {
	if !o.Valid() {
		return fmt.Sprintf("BayerOrder(%d)", int(o))
	}
	return bayerNames[o]
}

// ParseBayerOrder accepts the four pattern names in any letter case.
func ParseBayerOrder(s string) (BayerOrder, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for o, n := range bayerNames {
		if n == name {
			return BayerOrder(o), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedBayerOrder, s)
}

// Packing selects how sub-byte samples are laid out in a row.
type Packing int

const (
	// PackingLinear treats a row as a little-endian bit stream: sample i
	// occupies stream bits [i*depth, (i+1)*depth) with its least significant
	// bit first, and stream bit k is bit k%8 of byte k/8.
	PackingLinear Packing = iota
	// PackingMIPI is the MIPI CSI-2 RAW10/12/14 layout: each group of pixels
	// stores the 8 high bits of every pixel in consecutive bytes, followed by
	// the remaining low bits of every pixel as a little-endian bit stream.
	PackingMIPI
)

var packingNames = [...]string{PackingLinear: "linear", PackingMIPI: "mipi"}

func (p Packing) Valid() bool {
	return p == PackingLinear || p == PackingMIPI
}

func (p Packing) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Packing(%d)", int(p))
	}
	return packingNames[p]
}

// ParsePacking accepts "linear" or "mipi" (also "csi2"), case-insensitive.
func ParsePacking(s string) (Packing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return PackingLinear, nil
	case "mipi", "csi2", "csi-2":
		return PackingMIPI, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedPacking, s)
}

// mipiGroup returns the pixels per CSI-2 group for depth, 1 for byte aligned
// depths.
func mipiGroup(depth BitDepth) int {
	switch depth {
	case Depth10, Depth14:
		return 4
	case Depth12:
		return 2
	}
	return 1
}

// RowBytes is the number of bytes that carry pixel data for width samples,
// excluding any stride padding.
func RowBytes(width int, depth BitDepth, packing Packing) int {
	if packing == PackingMIPI {
		g := mipiGroup(depth)
		groups := (width + g - 1) / g
		return groups * g * int(depth) / 8
	}
	return (width*int(depth) + 7) / 8
}

const (
	maxDimension = 1 << 20
	maxRowStride = 1 << 26
)

// Descriptor is the geometry and format of one raw frame.
type Descriptor struct {
	Width     int
	Height    int
	BitDepth  BitDepth
	RowStride int // bytes from the start of one row to the next
	Order     BayerOrder
	Packing   Packing
}

// RowBytes is the pixel-carrying prefix of every stride.
func (d Descriptor) RowBytes() int {
	return RowBytes(d.Width, d.BitDepth, d.Packing)
}

// FrameBytes is the exact buffer length the descriptor expects.
func (d Descriptor) FrameBytes() int64 {
	return int64(d.RowStride) * int64(d.Height)
}

// Validate checks the descriptor on its own, without a buffer.
func (d Descriptor) Validate() error {
	if !d.BitDepth.Valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, int(d.BitDepth))
	}
	if !d.Order.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedBayerOrder, d.Order)
	}
	if !d.Packing.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedPacking, d.Packing)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidGeometry, d.Width, d.Height)
	}
	if d.Width > maxDimension || d.Height > maxDimension {
		return fmt.Errorf("%w: dimensions %dx%d exceed %d", ErrInvalidGeometry, d.Width, d.Height, maxDimension)
	}
	if d.RowStride <= 0 || d.RowStride > maxRowStride {
		return fmt.Errorf("%w: row stride %d out of range", ErrInvalidGeometry, d.RowStride)
	}
	if d.Packing == PackingMIPI {
		if g := mipiGroup(d.BitDepth); d.Width%g != 0 {
			return fmt.Errorf("%w: width %d is not a multiple of the %d-pixel RAW%d group", ErrInvalidGeometry, d.Width, g, int(d.BitDepth))
		}
	}
	if need := d.RowBytes(); d.RowStride < need {
		return fmt.Errorf("%w: row stride %d is shorter than %d bytes of %d-bit pixels", ErrInvalidGeometry, d.RowStride, need, int(d.BitDepth))
	}
	return nil
}

// Check validates the descriptor against a buffer of bufLen bytes. The length
// must match RowStride*Height exactly.
func (d Descriptor) Check(bufLen int) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if want := d.FrameBytes(); int64(bufLen) != want {
		return fmt.Errorf("%w: buffer is %d bytes, expected %d (stride %d x height %d)",
			ErrInvalidGeometry, bufLen, want, d.RowStride, d.Height)
	}
	return nil
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%dx%d %d-bit %s stride=%d packing=%s",
		d.Width, d.Height, int(d.BitDepth), d.Order, d.RowStride, d.Packing)
}
