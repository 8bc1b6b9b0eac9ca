package rawio

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"mipiraw/pkg/mipiraw"
)

// Caption is the text block drawn under an annotated preview.
type Caption struct {
	Title string
	Lines []string
	// Order, when set, adds a 2x2 swatch showing the colour filter layout.
	Order *mipiraw.BayerOrder
}

const (
	lineHeight   = 16
	captionPad   = 8
	swatchCell   = 14
	minAnnotateW = 160
)

var (
	captionBackground = color.RGBA{0, 0, 0, 255}
	titleColor        = color.RGBA{255, 255, 255, 255}
	lineColor         = color.RGBA{220, 220, 220, 255}
	swatchColors      = map[byte]color.RGBA{
		'R': {200, 40, 40, 255},
		'G': {40, 170, 60, 255},
		'B': {40, 70, 210, 255},
	}
)

// Annotate returns a copy of m with a caption strip appended below it. The
// copy is widened if the caption would not fit.
func Annotate(m image.Image, c Caption) *image.RGBA {
	b := m.Bounds()
	face := basicfont.Face7x13

	lines := len(c.Lines)
	if c.Title != "" {
		lines++
	}
	textW := 0
	for _, s := range append([]string{c.Title}, c.Lines...) {
		if w := font.MeasureString(face, s).Ceil(); w > textW {
			textW = w
		}
	}
	swatchW := 0
	if c.Order != nil {
		swatchW = 2*swatchCell + captionPad
	}

	imgW := b.Dx()
	if need := textW + swatchW + 2*captionPad; need > imgW {
		imgW = need
	}
	if imgW < minAnnotateW {
		imgW = minAnnotateW
	}
	stripH := lines*lineHeight + 2*captionPad
	if c.Order != nil && stripH < 2*swatchCell+2*captionPad {
		stripH = 2*swatchCell + 2*captionPad
	}

	img := image.NewRGBA(image.Rect(0, 0, imgW, b.Dy()+stripH))
	draw.Draw(img, img.Rect, image.NewUniform(captionBackground), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, b.Dx(), b.Dy()), m, b.Min, draw.Src)

	x := captionPad
	if c.Order != nil {
		drawBayerSwatch(img, face, *c.Order, x, b.Dy()+captionPad)
		x += swatchW
	}

	y := b.Dy() + captionPad + 12
	if c.Title != "" {
		drawText(img, face, c.Title, x, y, titleColor)
		y += lineHeight
	}
	for _, s := range c.Lines {
		drawText(img, face, s, x, y, lineColor)
		y += lineHeight
	}
	return img
}

// drawBayerSwatch draws the 2x2 filter tile at (x, y) with each cell filled
// in its colour and labelled.
func drawBayerSwatch(img *image.RGBA, face font.Face, order mipiraw.BayerOrder, x, y int) {
	name := order.String()
	if len(name) != 4 {
		return
	}
	for i := 0; i < 4; i++ {
		cx := x + (i&1)*swatchCell
		cy := y + (i>>1)*swatchCell
		cell := image.Rect(cx, cy, cx+swatchCell-1, cy+swatchCell-1)
		draw.Draw(img, cell, image.NewUniform(swatchColors[name[i]]), image.Point{}, draw.Src)
		drawCenteredText(img, face, name[i:i+1], cx+swatchCell/2, cy+swatchCell-3, titleColor)
	}
}

// drawText draws a string at (x, y) using the given font face.
func drawText(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// drawCenteredText draws a string centered at (cx, cy).
func drawCenteredText(img *image.RGBA, face font.Face, s string, cx, cy int, c color.RGBA) {
	advance := font.MeasureString(face, s)
	x := cx - advance.Round()/2
	drawText(img, face, s, x, cy, c)
}
