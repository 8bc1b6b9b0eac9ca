package mipiraw

import (
	"fmt"
	"image"
)

// NormalizeSample rescales s from [0, 2^depth-1] to [0, 255], rounding to
// nearest. The range max is odd, so there are no ties to break.
func NormalizeSample(s uint16, depth BitDepth) uint8 {
	limit := depth.MaxValue()
	v := uint32(s)
	if v > limit {
		v = limit
	}
	return uint8((v*255 + limit/2) / limit)
}

// normalizeTable maps every representable sample of depth to 8 bits.
func normalizeTable(depth BitDepth) []uint8 {
	lut := make([]uint8, depth.MaxValue()+1)
	for s := range lut {
		lut[s] = NormalizeSample(uint16(s), depth)
	}
	return lut
}

func normalizeRow(lut []uint8, src []uint16, dst []uint8) {
	top := uint16(len(lut) - 1)
	for i, s := range src {
		if s > top {
			s = top
		}
		dst[i] = lut[s]
	}
}

// Normalize converts a sample grid into an 8-bit mosaic.
func Normalize(g *SampleGrid) (*image.Gray, error) {
	if err := g.check(); err != nil {
		return nil, err
	}
	lut := normalizeTable(g.Depth)
	m := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		normalizeRow(lut, g.Row(y), m.Pix[y*m.Stride:y*m.Stride+g.Width])
	}
	return m, nil
}

func (g *SampleGrid) check() error {
	if g == nil {
		return fmt.Errorf("%w: nil sample grid", ErrInvalidGeometry)
	}
	if !g.Depth.Valid() {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, int(g.Depth))
	}
	if g.Width <= 0 || g.Height <= 0 || len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: sample grid %dx%d holds %d samples", ErrInvalidGeometry, g.Width, g.Height, len(g.Pix))
	}
	return nil
}
