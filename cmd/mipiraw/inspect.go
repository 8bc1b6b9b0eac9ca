package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"mipiraw/internal/settings"
	"mipiraw/pkg/mipiraw"
	"mipiraw/pkg/rawio"
)

func inspectAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	logger := newLogger(c)
	input := c.Args().First()

	saved, err := settings.Load(c.String("settings"))
	if err != nil {
		logger.Printf("ignoring settings: %v", err)
		saved = nil
	}
	o := frameOptionsFrom(c, saved)

	buf, err := rawio.ReadFile(input)
	if err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Printf("=== %s ===\n", input)
	fmt.Printf("  File size:     %d bytes\n", len(buf))

	d, err := o.descriptor()
	if err != nil {
		fmt.Printf("  Geometry:      %v\n", err)
		return cli.Exit(err, 1)
	}
	fmt.Printf("  Geometry:      %s\n", d)
	fmt.Printf("  Row bytes:     %d (+%d padding)\n", d.RowBytes(), d.RowStride-d.RowBytes())
	fmt.Printf("  Expected size: %d bytes\n", d.FrameBytes())
	if s, ok := rawio.DeriveStride(len(buf), d.Height); ok {
		fmt.Printf("  Derived stride: %d\n", s)
	} else {
		fmt.Printf("  Derived stride: none, size is not a multiple of height %d\n", d.Height)
	}

	if err := d.Check(len(buf)); err != nil {
		fmt.Printf("  Result:        %v\n", err)
		return cli.Exit(err, 1)
	}
	fmt.Println("  Result:        ok")

	p := mipiraw.Pipeline{}
	g, err := p.Samples(buf, d)
	if err != nil {
		return cli.Exit(err, 1)
	}
	stats, err := g.Stats(d.Order)
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Println()
	for _, s := range stats {
		if s.Count == 0 {
			continue
		}
		fmt.Printf("  %c (%d,%d)  min=%-5d max=%-5d median=%-5d mean=%.2f  stddev=%.2f\n",
			s.Channel, s.X, s.Y, s.Min, s.Max, s.Median, s.Mean, s.StdDev)
	}
	fmt.Println("==============================")
	return nil
}
