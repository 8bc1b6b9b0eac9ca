package mipiraw

import (
	"image"
	"image/color"
)

// SampleGrid holds one unpacked sample per pixel, row-major, each within
// [0, Depth.MaxValue()].
type SampleGrid struct {
	Width  int
	Height int
	Depth  BitDepth
	Pix    []uint16
}

// NewSampleGrid allocates a zeroed grid.
func NewSampleGrid(width, height int, depth BitDepth) *SampleGrid {
	return &SampleGrid{
		Width:  width,
		Height: height,
		Depth:  depth,
		Pix:    make([]uint16, width*height),
	}
}

func (g *SampleGrid) Row(y int) []uint16 {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

func (g *SampleGrid) At(x, y int) uint16 {
	return g.Pix[y*g.Width+x]
}

// RGB is an in-memory image of interleaved 8-bit red, green, blue samples.
// It reports color.RGBAModel with opaque alpha so standard encoders accept it.
type RGB struct {
	// Pix holds the image's pixels in R, G, B order. The pixel at (x, y)
	// starts at Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*3].
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewRGB returns a new RGB image with the given bounds.
func NewRGB(r image.Rectangle) *RGB {
	w, h := r.Dx(), r.Dy()
	return &RGB{
		Pix:    make([]uint8, 3*w*h),
		Stride: 3 * w,
		Rect:   r,
	}
}

func (p *RGB) ColorModel() color.Model { return color.RGBAModel }

func (p *RGB) Bounds() image.Rectangle { return p.Rect }

func (p *RGB) At(x, y int) color.Color {
	return p.RGBAAt(x, y)
}

func (p *RGB) RGBAAt(x, y int) color.RGBA {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	return color.RGBA{s[0], s[1], s[2], 0xff}
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *RGB) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*3
}

func (p *RGB) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	c1 := color.RGBAModel.Convert(c).(color.RGBA)
	p.SetRGB(x, y, c1.R, c1.G, c1.B)
}

func (p *RGB) SetRGB(x, y int, r, g, b uint8) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	s[0], s[1], s[2] = r, g, b
}

// Opaque reports true: RGB has no alpha channel.
func (p *RGB) Opaque() bool { return true }

// Row returns the 3*width bytes of row y.
func (p *RGB) Row(y int) []uint8 {
	i := p.PixOffset(p.Rect.Min.X, y)
	return p.Pix[i : i+3*p.Rect.Dx()]
}
