package mipiraw

import (
	"fmt"
	"image"
)

// Demosaic performs bilinear interpolation on an 8-bit Bayer mosaic and
// returns a full RGB image of the same size.
//
// Every pixel keeps its own sampled channel unchanged. Of the two missing
// channels:
//
//	green site:     one colour from the left/right pair, the other from up/down
//	red/blue site:  green from the 4 edge neighbours, the opposite colour from
//	                the 4 diagonal neighbours
//
// Averages are rounded to nearest. Neighbours outside the image are mirrored
// about the edge pixel (index -1 reads 1, index w reads w-2), which keeps
// every lookup on the correct colour phase.
func Demosaic(m *image.Gray, order BayerOrder) (*RGB, error) {
	return demosaic(m, order, 1)
}

func demosaic(m *image.Gray, order BayerOrder, workers int) (*RGB, error) {
	if !order.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBayerOrder, order)
	}
	if m == nil || m.Rect.Empty() {
		return nil, fmt.Errorf("%w: empty mosaic", ErrInvalidGeometry)
	}

	width, height := m.Rect.Dx(), m.Rect.Dy()
	tile := bayerTiles[order]
	out := NewRGB(image.Rect(0, 0, width, height))

	px := func(x, y int) int {
		x = mirror(x, width)
		y = mirror(y, height)
		return int(m.Pix[y*m.Stride+x])
	}

	err := forRows(height, workers, func(y0, y1 int) error {
		var rgb [3]int
		for y := y0; y < y1; y++ {
			row := out.Pix[y*out.Stride : y*out.Stride+3*width]
			for x := 0; x < width; x++ {
				own := tile[(y&1)<<1|x&1]
				rgb[own] = px(x, y)

				switch own {
				case chG:
					horiz := tile[(y&1)<<1|(x+1)&1]
					vert := tile[((y+1)&1)<<1|x&1]
					rgb[horiz] = avg2(px(x-1, y), px(x+1, y))
					rgb[vert] = avg2(px(x, y-1), px(x, y+1))

				default:
					other := chR + chB - own
					rgb[chG] = avg4(px(x-1, y), px(x+1, y), px(x, y-1), px(x, y+1))
					rgb[other] = avg4(px(x-1, y-1), px(x+1, y-1), px(x-1, y+1), px(x+1, y+1))
				}

				row[3*x+0] = uint8(rgb[chR])
				row[3*x+1] = uint8(rgb[chG])
				row[3*x+2] = uint8(rgb[chB])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// mirror reflects i into [0, n) without repeating the edge sample. A single
// row or column has nothing to reflect onto and is clamped.
func mirror(i, n int) int {
	if i < 0 {
		i = -i
	}
	if i >= n {
		i = 2*(n-1) - i
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func avg2(a, b int) int {
	return (a + b + 1) >> 1
}

func avg4(a, b, c, d int) int {
	return (a + b + c + d + 2) >> 2
}
