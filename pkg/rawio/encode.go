package rawio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/lmittmann/ppm"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output container.
type Format int

const (
	PNG Format = iota
	JPEG
	TIFF
	BMP
	PPM
	GIF
)

var formatNames = [...]string{PNG: "png", JPEG: "jpeg", TIFF: "tiff", BMP: "bmp", PPM: "ppm", GIF: "gif"}

func (f Format) String() string {
	if f < PNG || f > GIF {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Ext is the canonical file extension, including the dot.
func (f Format) Ext() string {
	switch f {
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tif"
	}
	return "." + f.String()
}

// ErrUnknownFormat is returned for an extension no encoder handles.
var ErrUnknownFormat = errors.New("rawio: unknown image format")

var extFormats = map[string]Format{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".tif":  TIFF,
	".tiff": TIFF,
	".bmp":  BMP,
	".ppm":  PPM,
	".gif":  GIF,
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// ParseFormat accepts a format name or an extension with or without the dot.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, ".") {
		s = "." + s
	}
	return FormatFromPath(s)
}

// Options tune lossy and palette encoders. The zero value picks defaults.
type Options struct {
	// Quality is the JPEG quality, 1 to 100.
	Quality int
	// Colors is the GIF palette size, 2 to 256.
	Colors int
}

const (
	defaultQuality = 90
	defaultColors  = 256
)

// Encode writes m to w in format f.
func Encode(w io.Writer, m image.Image, f Format, o *Options) error {
	var opts Options
	if o != nil {
		opts = *o
	}

	switch f {
	case PNG:
		return png.Encode(w, m)
	case JPEG:
		q := opts.Quality
		if q < 1 || q > 100 {
			q = defaultQuality
		}
		return jpeg.Encode(w, m, &jpeg.Options{Quality: q})
	case TIFF:
		return tiff.Encode(w, toRGBA(m), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case BMP:
		return bmp.Encode(w, toRGBA(m))
	case PPM:
		return ppm.Encode(w, toRGBA(m))
	case GIF:
		return gif.Encode(w, quantizeImage(m, opts.Colors), nil)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
}

// WriteFile encodes m into a new file at path, with the format taken from the
// extension.
func WriteFile(path string, m image.Image, o *Options) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if err := Encode(out, m, f, o); err != nil {
		return fmt.Errorf("encoding %s: %w", f, err)
	}
	return nil
}

func toRGBA(m image.Image) *image.RGBA {
	if rgba, ok := m.(*image.RGBA); ok {
		return rgba
	}
	b := m.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, m, b.Min, draw.Src)
	return rgba
}

// quantizeImage reduces m to a median-cut palette and dithers it.
func quantizeImage(m image.Image, colors int) *image.Paletted {
	if colors < 2 || colors > 256 {
		colors = defaultColors
	}
	rgba := toRGBA(m)
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, colors), rgba)
	pm := image.NewPaletted(rgba.Rect, p)
	draw.FloydSteinberg.Draw(pm, pm.Rect, rgba, rgba.Rect.Min)
	return pm
}
