/*
Package mipiraw decodes raw Bayer sensor frames packed at 8, 10, 12, 14 or 16
bits per pixel into 8-bit RGB images.

A decode runs four stages in order: the frame buffer is split into rows on
its stride, each row is unpacked into integer samples, the samples are
rescaled to 8 bits and the resulting mosaic is demosaiced. A reduced preview
can be produced from the result by area averaging. The package performs no
I/O and keeps no state between calls; the caller's buffer is only read.
*/
package mipiraw

import (
	"image"
)

// Pipeline runs decodes. The zero value is ready to use.
type Pipeline struct {
	// Workers bounds the goroutines used inside one decode. Zero or less
	// means runtime.GOMAXPROCS(0). Output does not depend on it.
	Workers int
}

var defaultPipeline Pipeline

// Decode decodes buf as described by d using a default Pipeline.
func Decode(buf []byte, d Descriptor) (*RGB, error) {
	return defaultPipeline.Decode(buf, d)
}

// DecodeWithPreview decodes buf and also returns a preview reduced by scale.
func DecodeWithPreview(buf []byte, d Descriptor, scale float64) (*RGB, *RGB, error) {
	return defaultPipeline.DecodeWithPreview(buf, d, scale)
}

// Samples unpacks buf into a grid of native-depth samples.
func (p *Pipeline) Samples(buf []byte, d Descriptor) (*SampleGrid, error) {
	rows, t, err := prepare(buf, d)
	if err != nil {
		return nil, err
	}

	g := NewSampleGrid(d.Width, d.Height, d.BitDepth)
	err = forRows(d.Height, p.Workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			if err := t.unpack(rows[y], g.Row(y)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Mosaic unpacks and normalizes buf into an 8-bit mosaic without
// demosaicing it. This is the input an alternative demosaic backend needs.
func (p *Pipeline) Mosaic(buf []byte, d Descriptor) (*image.Gray, error) {
	rows, t, err := prepare(buf, d)
	if err != nil {
		return nil, err
	}

	lut := normalizeTable(d.BitDepth)
	m := image.NewGray(image.Rect(0, 0, d.Width, d.Height))
	err = forRows(d.Height, p.Workers, func(y0, y1 int) error {
		scratch := make([]uint16, d.Width)
		for y := y0; y < y1; y++ {
			if err := t.unpack(rows[y], scratch); err != nil {
				return err
			}
			normalizeRow(lut, scratch, m.Pix[y*m.Stride:y*m.Stride+d.Width])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Decode runs the full pipeline. On error no image is returned.
func (p *Pipeline) Decode(buf []byte, d Descriptor) (*RGB, error) {
	m, err := p.Mosaic(buf, d)
	if err != nil {
		return nil, err
	}
	return demosaic(m, d.Order, p.Workers)
}

// DecodeWithPreview runs Decode and scales the result by scale, which must
// lie in (0, 1]. The two images share no memory.
func (p *Pipeline) DecodeWithPreview(buf []byte, d Descriptor, scale float64) (*RGB, *RGB, error) {
	if err := CheckScale(scale); err != nil {
		return nil, nil, err
	}
	full, err := p.Decode(buf, d)
	if err != nil {
		return nil, nil, err
	}
	preview, err := scaleRGB(full, scale, p.Workers)
	if err != nil {
		return nil, nil, err
	}
	return full, preview, nil
}

// prepare validates everything up front so that no output is allocated for
// a frame that cannot decode.
func prepare(buf []byte, d Descriptor) ([][]byte, *unpackTable, error) {
	t, err := newUnpackTable(d.BitDepth, d.Packing)
	if err != nil {
		return nil, nil, err
	}
	rows, err := Reshape(buf, d)
	if err != nil {
		return nil, nil, err
	}
	return rows, t, nil
}
