package mipiraw

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatMosaic(w, h int, order BayerOrder, rgb [3]uint8) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	tile := bayerTiles[order]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Pix[y*m.Stride+x] = rgb[tile[(y&1)<<1|x&1]]
		}
	}
	return m
}

func TestDemosaicFlatColor(t *testing.T) {
	rgb := [3]uint8{200, 90, 17}
	sizes := []image.Point{{2, 2}, {4, 4}, {5, 3}, {3, 5}, {7, 6}, {16, 9}}
	for _, order := range []BayerOrder{RGGB, BGGR, GRBG, GBRG} {
		for _, size := range sizes {
			out, err := Demosaic(flatMosaic(size.X, size.Y, order, rgb), order)
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, size.X, size.Y), out.Bounds())
			for y := 0; y < size.Y; y++ {
				for x := 0; x < size.X; x++ {
					c := out.RGBAAt(x, y)
					require.Equal(t, rgb, [3]uint8{c.R, c.G, c.B}, "%s %v at (%d,%d)", order, size, x, y)
				}
			}
		}
	}
}

func TestDemosaicKeepsNativeSample(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	m := image.NewGray(image.Rect(0, 0, 9, 7))
	r.Read(m.Pix)

	for _, order := range []BayerOrder{RGGB, BGGR, GRBG, GBRG} {
		out, err := Demosaic(m, order)
		require.NoError(t, err)
		tile := bayerTiles[order]
		for y := 0; y < 7; y++ {
			for x := 0; x < 9; x++ {
				ch := tile[(y&1)<<1|x&1]
				assert.Equal(t, m.GrayAt(x, y).Y, out.Pix[out.PixOffset(x, y)+ch])
			}
		}
	}
}

func TestDemosaicOrderOnlyMovesPhase(t *testing.T) {
	// an RGGB frame with its first column dropped reads as GRBG
	r := rand.New(rand.NewSource(4))
	m := image.NewGray(image.Rect(0, 0, 10, 6))
	r.Read(m.Pix)

	shifted := image.NewGray(image.Rect(0, 0, 9, 6))
	for y := 0; y < 6; y++ {
		copy(shifted.Pix[y*shifted.Stride:], m.Pix[y*m.Stride+1:y*m.Stride+10])
	}

	a, err := Demosaic(m, RGGB)
	require.NoError(t, err)
	b, err := Demosaic(shifted, GRBG)
	require.NoError(t, err)

	// interior pixels see identical neighbourhoods
	for y := 0; y < 6; y++ {
		for x := 2; x < 8; x++ {
			assert.Equal(t, a.RGBAAt(x+1, y), b.RGBAAt(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestDemosaicSinglePixel(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 1, 1))
	m.Pix[0] = 77
	out, err := Demosaic(m, RGGB)
	require.NoError(t, err)
	assert.Equal(t, []uint8{77, 77, 77}, out.Pix)
}

func TestDemosaicErrors(t *testing.T) {
	_, err := Demosaic(image.NewGray(image.Rect(0, 0, 2, 2)), BayerOrder(9))
	assert.ErrorIs(t, err, ErrUnsupportedBayerOrder)

	_, err = Demosaic(image.NewGray(image.Rect(0, 0, 0, 0)), RGGB)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestMirror(t *testing.T) {
	assert.Equal(t, 1, mirror(-1, 4))
	assert.Equal(t, 2, mirror(4, 4))
	assert.Equal(t, 0, mirror(2, 2))
	assert.Equal(t, 0, mirror(-1, 1))
	assert.Equal(t, 0, mirror(1, 1))
	assert.Equal(t, 3, mirror(3, 4))
}
