package mipiraw

import (
	"bytes"
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 4x4 10-bit GRBG, linear packing, no padding. Samples:
//
//	   0 1023  512  256
//	 100  900  300  700
//	1023    0   64  800
//	 400  600 1000   32
var grbg10Fixture = []byte{
	0x00, 0xfc, 0x0f, 0x20, 0x40,
	0x64, 0x10, 0xce, 0x12, 0xaf,
	0xff, 0x03, 0x00, 0x04, 0xc8,
	0x90, 0x61, 0x89, 0x3e, 0x08,
}

var grbg10Expected = [4][4][3]uint8{
	{{255, 0, 25}, {255, 144, 50}, {160, 128, 75}, {64, 151, 75}},
	{{128, 176, 25}, {128, 224, 50}, {130, 136, 75}, {132, 174, 75}},
	{{0, 255, 63}, {0, 161, 112}, {100, 16, 162}, {199, 54, 162}},
	{{0, 203, 100}, {0, 150, 175}, {100, 48, 249}, {199, 8, 249}},
}

func grbg10Descriptor() Descriptor {
	return Descriptor{Width: 4, Height: 4, BitDepth: Depth10, RowStride: 5, Order: GRBG}
}

func TestDecodeFixture(t *testing.T) {
	out, err := Decode(grbg10Fixture, grbg10Descriptor())
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := out.RGBAAt(x, y)
			assert.Equal(t, grbg10Expected[y][x], [3]uint8{c.R, c.G, c.B}, "(%d,%d)", x, y)
		}
	}
}

func TestSamplesFixture(t *testing.T) {
	var p Pipeline
	g, err := p.Samples(grbg10Fixture, grbg10Descriptor())
	require.NoError(t, err)
	assert.Equal(t, []uint16{
		0, 1023, 512, 256,
		100, 900, 300, 700,
		1023, 0, 64, 800,
		400, 600, 1000, 32,
	}, g.Pix)

	m, err := p.Mosaic(grbg10Fixture, grbg10Descriptor())
	require.NoError(t, err)
	assert.Equal(t, []uint8{
		0, 255, 128, 64,
		25, 224, 75, 174,
		255, 0, 16, 199,
		100, 150, 249, 8,
	}, m.Pix)
}

func TestDecodeIgnoresPadding(t *testing.T) {
	d := grbg10Descriptor()
	d.RowStride = 8
	padded := make([]byte, 0, 32)
	for y := 0; y < 4; y++ {
		padded = append(padded, grbg10Fixture[y*5:y*5+5]...)
		padded = append(padded, 0xde, 0xad, 0xbf)
	}

	want, err := Decode(grbg10Fixture, grbg10Descriptor())
	require.NoError(t, err)
	got, err := Decode(padded, d)
	require.NoError(t, err)
	assert.Equal(t, want.Pix, got.Pix)
}

func TestDecodeDoesNotWriteInput(t *testing.T) {
	buf := append([]byte(nil), grbg10Fixture...)
	_, _, err := DecodeWithPreview(buf, grbg10Descriptor(), 0.5)
	require.NoError(t, err)
	assert.Equal(t, grbg10Fixture, buf)
}

func TestDecodeWorkerCountIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, depth := range BitDepths {
		d := Descriptor{Width: 37, Height: 23, BitDepth: depth, Order: BGGR}
		d.RowStride = d.RowBytes() + 3
		buf := make([]byte, d.FrameBytes())
		r.Read(buf)

		single := Pipeline{Workers: 1}
		many := Pipeline{Workers: 7}
		a, ap, err := single.DecodeWithPreview(buf, d, 0.3)
		require.NoError(t, err)
		b, bp, err := many.DecodeWithPreview(buf, d, 0.3)
		require.NoError(t, err)
		assert.Equal(t, a.Pix, b.Pix, "%d-bit", depth)
		assert.Equal(t, ap.Pix, bp.Pix, "%d-bit preview", depth)
	}
}

func TestDecodeFlatFrameAllDepths(t *testing.T) {
	for _, packing := range []Packing{PackingLinear, PackingMIPI} {
		for _, depth := range BitDepths {
			d := Descriptor{Width: 8, Height: 6, BitDepth: depth, Order: RGGB, Packing: packing}
			d.RowStride = d.RowBytes()

			// red at full scale, green at zero, blue at full scale
			limit := uint16(depth.MaxValue())
			row0 := []uint16{limit, 0, limit, 0, limit, 0, limit, 0}
			row1 := []uint16{0, limit, 0, limit, 0, limit, 0, limit}
			var buf bytes.Buffer
			line := make([]byte, d.RowStride)
			for y := 0; y < d.Height; y++ {
				src := row0
				if y%2 == 1 {
					src = row1
				}
				require.NoError(t, Pack(src, depth, packing, line))
				buf.Write(line)
			}

			out, err := Decode(buf.Bytes(), d)
			require.NoError(t, err)
			for i := 0; i < len(out.Pix); i += 3 {
				require.Equal(t, []uint8{255, 0, 255}, out.Pix[i:i+3], "%s %d-bit", packing, depth)
			}
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	d := grbg10Descriptor()

	_, err := Decode(grbg10Fixture[:19], d)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = Decode(append(append([]byte(nil), grbg10Fixture...), 0), d)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	bad := d
	bad.BitDepth = 11
	_, err = Decode(grbg10Fixture, bad)
	assert.ErrorIs(t, err, ErrUnsupportedBitDepth)

	bad = d
	bad.Order = BayerOrder(-1)
	_, err = Decode(grbg10Fixture, bad)
	assert.ErrorIs(t, err, ErrUnsupportedBayerOrder)

	full, preview, err := DecodeWithPreview(grbg10Fixture, d, 0)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	assert.Nil(t, full)
	assert.Nil(t, preview)
}

func TestDecodeProductionFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size frame")
	}

	d := Descriptor{Width: 4096, Height: 3072, BitDepth: Depth10, RowStride: 5120, Order: GRBG}
	buf := make([]byte, 5120*3072)
	r := rand.New(rand.NewSource(8))
	r.Read(buf)

	full, preview, err := DecodeWithPreview(buf, d, 0.2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4096, 3072), full.Bounds())
	assert.Len(t, full.Pix, 4096*3072*3)
	assert.Equal(t, image.Rect(0, 0, 819, 614), preview.Bounds())
	assert.Len(t, preview.Pix, 819*614*3)
}
