//go:build !purego && !js

package main

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"mipiraw/pkg/mipiraw"
	"mipiraw/pkg/rawio"
)

func newEngine(name string, workers int) (engine, error) {
	switch name {
	case "", "go":
		return &goEngine{p: mipiraw.Pipeline{Workers: workers}}, nil
	case "opencv", "cv":
		return &cvEngine{p: mipiraw.Pipeline{Workers: workers}}, nil
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}

// cvEngine unpacks in Go and hands the 8-bit mosaic to OpenCV for
// demosaicing and resizing.
type cvEngine struct {
	p mipiraw.Pipeline
}

func (e *cvEngine) Name() string { return "opencv" }

// OpenCV names Bayer codes after the second row of the tile, so the code for
// a frame starting with R G is BayerBG.
var cvBayerCodes = map[mipiraw.BayerOrder]gocv.ColorConversionCode{
	mipiraw.RGGB: gocv.ColorBayerBGToBGR,
	mipiraw.BGGR: gocv.ColorBayerRGToBGR,
	mipiraw.GRBG: gocv.ColorBayerGBToBGR,
	mipiraw.GBRG: gocv.ColorBayerGRToBGR,
}

func (e *cvEngine) Decode(buf []byte, d mipiraw.Descriptor, scale float64) (*decodeResult, error) {
	code, ok := cvBayerCodes[d.Order]
	if !ok {
		return nil, fmt.Errorf("%w: %s", mipiraw.ErrUnsupportedBayerOrder, d.Order)
	}
	if scale > 0 {
		if err := mipiraw.CheckScale(scale); err != nil {
			return nil, err
		}
	}

	mosaic, err := e.p.Mosaic(buf, d)
	if err != nil {
		return nil, err
	}

	src, err := gocv.NewMatFromBytes(d.Height, d.Width, gocv.MatTypeCV8UC1, mosaic.Pix)
	if err != nil {
		return nil, fmt.Errorf("wrapping mosaic: %w", err)
	}
	defer src.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(src, &bgr, code)

	full, err := bgr.ToImage()
	if err != nil {
		return nil, fmt.Errorf("converting demosaiced frame: %w", err)
	}
	res := &decodeResult{Full: full}
	if scale <= 0 {
		return res, nil
	}

	pw, ph := mipiraw.PreviewSize(d.Width, d.Height, scale)
	small := gocv.NewMat()
	defer small.Close()
	gocv.Resize(bgr, &small, image.Pt(pw, ph), 0, 0, gocv.InterpolationArea)

	res.Preview, err = small.ToImage()
	if err != nil {
		return nil, fmt.Errorf("converting preview: %w", err)
	}
	return res, nil
}

// Write saves through OpenCV for the formats imwrite handles and falls back
// to the Go encoders for the rest.
func (e *cvEngine) Write(path string, m image.Image, o *rawio.Options) error {
	f, err := rawio.FormatFromPath(path)
	if err != nil {
		return err
	}
	var params []int
	switch f {
	case rawio.JPEG:
		q := 90
		if o != nil && o.Quality >= 1 && o.Quality <= 100 {
			q = o.Quality
		}
		params = []int{int(gocv.IMWriteJpegQuality), q}
	case rawio.PNG, rawio.TIFF, rawio.BMP, rawio.PPM:
	default:
		return rawio.WriteFile(path, m, o)
	}

	mat, err := gocv.ImageToMatRGB(m)
	if err != nil {
		return fmt.Errorf("converting %s for imwrite: %w", path, err)
	}
	defer mat.Close()

	if !gocv.IMWriteWithParams(path, mat, params) {
		return fmt.Errorf("imwrite failed: %s", path)
	}
	return nil
}
