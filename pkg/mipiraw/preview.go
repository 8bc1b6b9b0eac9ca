package mipiraw

import (
	"fmt"
	"image"
	"math"
)

// PreviewSize returns the dimensions Scale produces for a w x h source:
// each side multiplied by scale, rounded half away from zero, at least 1.
func PreviewSize(w, h int, scale float64) (int, int) {
	pw := int(math.Round(float64(w) * scale))
	ph := int(math.Round(float64(h) * scale))
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	return pw, ph
}

// CheckScale returns ErrInvalidGeometry unless scale lies in (0, 1].
func CheckScale(scale float64) error {
	if math.IsNaN(scale) || scale <= 0 || scale > 1 {
		return fmt.Errorf("%w: preview scale %v outside (0, 1]", ErrInvalidGeometry, scale)
	}
	return nil
}

// Scale returns a reduced copy of src using area averaging: every output
// pixel is the coverage-weighted mean of the source pixels under its
// footprint. A scale of 1 yields an exact copy. src is not modified.
func Scale(src *RGB, scale float64) (*RGB, error) {
	return scaleRGB(src, scale, 1)
}

// contrib is the run of source pixels feeding one output pixel.
type contrib struct {
	first   int
	weights []float32
}

// areaWeights maps n source pixels onto m output pixels. Output pixel o
// covers the source interval [o*n/m, (o+1)*n/m).
func areaWeights(n, m int) []contrib {
	ratio := float64(n) / float64(m)
	out := make([]contrib, m)
	for o := range out {
		lo := float64(o) * ratio
		hi := float64(o+1) * ratio
		if o == m-1 {
			hi = float64(n)
		}
		first := int(math.Floor(lo))
		last := int(math.Ceil(hi))
		if last > n {
			last = n
		}
		ws := make([]float32, 0, last-first)
		for i := first; i < last; i++ {
			w := math.Min(hi, float64(i+1)) - math.Max(lo, float64(i))
			ws = append(ws, float32(w/ratio))
		}
		out[o] = contrib{first: first, weights: ws}
	}
	return out
}

func scaleRGB(src *RGB, scale float64, workers int) (*RGB, error) {
	if err := CheckScale(scale); err != nil {
		return nil, err
	}
	if src == nil || src.Rect.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidGeometry)
	}

	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	dw, dh := PreviewSize(sw, sh, scale)
	dst := NewRGB(image.Rect(0, 0, dw, dh))

	if dw == sw && dh == sh {
		for y := 0; y < sh; y++ {
			copy(dst.Row(y), src.Row(src.Rect.Min.Y+y))
		}
		return dst, nil
	}

	xs := areaWeights(sw, dw)
	ys := areaWeights(sh, dh)

	// horizontal pass: sh rows of dw pixels
	tmp := make([]float32, sh*dw*3)
	err := forRows(sh, workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			in := src.Row(src.Rect.Min.Y + y)
			acc := tmp[y*dw*3 : (y+1)*dw*3]
			for o, c := range xs {
				var r, g, b float32
				for k, w := range c.weights {
					i := 3 * (c.first + k)
					r += w * float32(in[i])
					g += w * float32(in[i+1])
					b += w * float32(in[i+2])
				}
				acc[3*o], acc[3*o+1], acc[3*o+2] = r, g, b
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// vertical pass
	err = forRows(dh, workers, func(y0, y1 int) error {
		var sum [3]float32
		for o := y0; o < y1; o++ {
			c := ys[o]
			out := dst.Row(o)
			for x := 0; x < dw*3; x += 3 {
				sum = [3]float32{}
				for k, w := range c.weights {
					row := tmp[(c.first+k)*dw*3:]
					sum[0] += w * row[x]
					sum[1] += w * row[x+1]
					sum[2] += w * row[x+2]
				}
				out[x] = clamp8(sum[0])
				out[x+1] = clamp8(sum[1])
				out[x+2] = clamp8(sum[2])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

func clamp8(v float32) uint8 {
	v = float32(math.Round(float64(v)))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
