package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"mipiraw/internal/settings"
	"mipiraw/pkg/mipiraw"
	"mipiraw/pkg/rawio"
)

const (
	defaultBitDepth = 10
	defaultBayer    = "GRBG"
	defaultPacking  = "linear"
)

func frameFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "width",
			Usage: "frame width in pixels",
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "frame height in pixels",
		},
		&cli.IntFlag{
			Name:  "bit-depth",
			Value: defaultBitDepth,
			Usage: "bits per sample: 8, 10, 12, 14 or 16",
		},
		&cli.IntFlag{
			Name:  "stride",
			Usage: "bytes per row including padding, 0 to compute from width and --align",
		},
		&cli.IntFlag{
			Name:  "align",
			Usage: "round a computed stride up to a multiple of this many bytes",
		},
		&cli.StringFlag{
			Name:  "bayer",
			Value: defaultBayer,
			Usage: "colour filter order: RGGB, BGGR, GRBG or GBRG",
		},
		&cli.StringFlag{
			Name:  "packing",
			Value: defaultPacking,
			Usage: "sample packing: linear or mipi",
		},
	}
}

// frameOptions is the frame geometry as given on the command line, before
// it is parsed into a descriptor.
type frameOptions struct {
	Width    int
	Height   int
	BitDepth int
	Stride   int
	Align    int
	Bayer    string
	Packing  string
}

func frameOptionsFrom(c *cli.Context, s *settings.Settings) frameOptions {
	o := frameOptions{
		Width:    c.Int("width"),
		Height:   c.Int("height"),
		BitDepth: c.Int("bit-depth"),
		Stride:   c.Int("stride"),
		Align:    c.Int("align"),
		Bayer:    c.String("bayer"),
		Packing:  c.String("packing"),
	}
	o.merge(s, c.IsSet)
	return o
}

// merge fills every option the user did not set explicitly from the saved
// settings. Explicit flags always win.
func (o *frameOptions) merge(s *settings.Settings, isSet func(string) bool) {
	if s == nil {
		return
	}
	if !isSet("width") && s.Width > 0 {
		o.Width = s.Width
	}
	if !isSet("height") && s.Height > 0 {
		o.Height = s.Height
	}
	if !isSet("bit-depth") && s.BitDepth > 0 {
		o.BitDepth = s.BitDepth
	}
	if !isSet("stride") && !isSet("align") && s.RowStride > 0 {
		o.Stride = s.RowStride
	}
	if !isSet("bayer") && s.BayerPattern != "" {
		o.Bayer = s.BayerPattern
	}
	if !isSet("packing") && s.Packing != "" {
		o.Packing = s.Packing
	}
}

func (o frameOptions) descriptor() (mipiraw.Descriptor, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return mipiraw.Descriptor{}, fmt.Errorf("--width and --height are required (got %dx%d)", o.Width, o.Height)
	}
	order, err := mipiraw.ParseBayerOrder(o.Bayer)
	if err != nil {
		return mipiraw.Descriptor{}, err
	}
	packing, err := mipiraw.ParsePacking(o.Packing)
	if err != nil {
		return mipiraw.Descriptor{}, err
	}

	d := mipiraw.Descriptor{
		Width:     o.Width,
		Height:    o.Height,
		BitDepth:  mipiraw.BitDepth(o.BitDepth),
		RowStride: o.Stride,
		Order:     order,
		Packing:   packing,
	}
	if d.RowStride <= 0 {
		d.RowStride = rawio.AlignedStride(d.Width, d.BitDepth, d.Packing, o.Align)
	}
	return d, d.Validate()
}

// remember records d as the geometry for the next run.
func remember(s *settings.Settings, d mipiraw.Descriptor, file string) {
	s.Width = d.Width
	s.Height = d.Height
	s.BitDepth = int(d.BitDepth)
	s.BayerPattern = d.Order.String()
	s.RowStride = d.RowStride
	s.Packing = d.Packing.String()
	s.LastFile = file
}
