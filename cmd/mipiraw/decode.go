package main

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"mipiraw/internal/settings"
	"mipiraw/pkg/mipiraw"
	"mipiraw/pkg/rawio"
)

const defaultPreviewScale = 0.2

func decodeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "preview-scale",
			Value: defaultPreviewScale,
			Usage: "preview size relative to the full image, in (0, 1]",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "full-resolution output path, default FILE with a .png extension",
		},
		&cli.StringFlag{
			Name:  "preview",
			Usage: "preview output path, default FILE_preview.jpg",
		},
		&cli.BoolFlag{
			Name:  "no-preview",
			Usage: "skip the preview",
		},
		&cli.IntFlag{
			Name:  "quality",
			Value: 90,
			Usage: "JPEG quality",
		},
		&cli.BoolFlag{
			Name:  "annotate",
			Usage: "add a caption with the frame geometry under the preview",
		},
		&cli.StringFlag{
			Name:  "engine",
			Value: "go",
			Usage: "demosaic backend: go or opencv",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "goroutines per decode, 0 for one per CPU",
		},
	}
}

// decodeResult holds what an engine produced for one frame. Preview is nil
// when no preview was asked for.
type decodeResult struct {
	Full    image.Image
	Preview image.Image
}

// engine turns a raw frame into RGB images and writes them out.
type engine interface {
	Name() string
	Decode(buf []byte, d mipiraw.Descriptor, scale float64) (*decodeResult, error)
	Write(path string, m image.Image, o *rawio.Options) error
}

// goEngine runs the pure Go pipeline.
type goEngine struct {
	p mipiraw.Pipeline
}

func (e *goEngine) Name() string { return "go" }

func (e *goEngine) Write(path string, m image.Image, o *rawio.Options) error {
	return rawio.WriteFile(path, m, o)
}

func (e *goEngine) Decode(buf []byte, d mipiraw.Descriptor, scale float64) (*decodeResult, error) {
	if scale <= 0 {
		full, err := e.p.Decode(buf, d)
		if err != nil {
			return nil, err
		}
		return &decodeResult{Full: full}, nil
	}
	full, preview, err := e.p.DecodeWithPreview(buf, d, scale)
	if err != nil {
		return nil, err
	}
	return &decodeResult{Full: full, Preview: preview}, nil
}

// decodeContext runs e in its own goroutine so that an interrupt does not
// have to wait for a large frame to finish.
func decodeContext(ctx context.Context, e engine, buf []byte, d mipiraw.Descriptor, scale float64) (*decodeResult, error) {
	type outcome struct {
		res *decodeResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := e.Decode(buf, d, scale)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case o := <-done:
		return o.res, o.err
	}
}

func decodeAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	logger := newLogger(c)
	input := c.Args().First()

	settingsPath := c.String("settings")
	saved, err := settings.Load(settingsPath)
	if err != nil {
		logger.Printf("ignoring settings: %v", err)
		saved = &settings.Settings{}
	}

	d, err := frameOptionsFrom(c, saved).descriptor()
	if err != nil {
		return cli.Exit(err, 1)
	}

	scale := c.Float64("preview-scale")
	if c.Bool("no-preview") {
		scale = 0
	}

	e, err := newEngine(c.String("engine"), c.Int("workers"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Printf("Loading: %s\n", input)
	buf, err := rawio.ReadFile(input)
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("read %d bytes, frame %s", len(buf), d)

	start := time.Now()
	res, err := decodeContext(c.Context, e, buf, d, scale)
	if err != nil {
		return cli.Exit(fmt.Errorf("decoding %s: %w", input, err), 1)
	}
	elapsed := time.Since(start)
	logger.Printf("%s engine decoded in %s", e.Name(), elapsed)

	opts := &rawio.Options{Quality: c.Int("quality")}

	output := c.String("output")
	if output == "" {
		output = rawio.OutputPath(input, "", ".png")
	}
	if err := e.Write(output, res.Full, opts); err != nil {
		return cli.Exit(err, 1)
	}

	var previewPath string
	if res.Preview != nil {
		previewPath = c.String("preview")
		if previewPath == "" {
			previewPath = rawio.OutputPath(input, "_preview", ".jpg")
		}
		preview := res.Preview
		if c.Bool("annotate") {
			preview = rawio.Annotate(preview, caption(input, d, res))
		}
		if err := e.Write(previewPath, preview, opts); err != nil {
			return cli.Exit(err, 1)
		}
	}

	remember(saved, d, input)
	if err := saved.Save(settingsPath); err != nil {
		logger.Printf("could not save settings: %v", err)
	}

	fb := res.Full.Bounds()
	fmt.Println()
	fmt.Printf("=== Decode Results (%.2fs, %s engine) ===\n", elapsed.Seconds(), e.Name())
	fmt.Printf("  Frame:       %s\n", d)
	fmt.Printf("  Image size:  %d x %d\n", fb.Dx(), fb.Dy())
	fmt.Printf("  Output:      %s\n", output)
	if res.Preview != nil {
		pb := res.Preview.Bounds()
		fmt.Printf("  Preview:     %d x %d -> %s\n", pb.Dx(), pb.Dy(), previewPath)
	}
	fmt.Println("==============================")

	return nil
}

func caption(input string, d mipiraw.Descriptor, res *decodeResult) rawio.Caption {
	order := d.Order
	fb := res.Full.Bounds()
	return rawio.Caption{
		Title: filepath.Base(input),
		Lines: []string{
			fmt.Sprintf("%dx%d %d-bit %s", fb.Dx(), fb.Dy(), int(d.BitDepth), d.Packing),
			fmt.Sprintf("stride %d bytes", d.RowStride),
		},
		Order: &order,
	}
}
