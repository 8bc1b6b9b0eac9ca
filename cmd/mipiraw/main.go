package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"mipiraw/internal/settings"
)

func main() {
	app := cli.NewApp()

	app.Name = "mipiraw"
	app.Usage = "Decode MIPI packed Bayer raw frames to RGB images"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "settings",
			EnvVars: []string{"MIPIRAW_SETTINGS"},
			Value:   settings.DefaultPath(),
			Usage:   "path to the settings file remembering the last frame geometry",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "decode",
			Usage:     "Decode a raw frame and write the full image and a preview",
			ArgsUsage: "FILE",
			Flags:     append(frameFlags(), decodeFlags()...),
			Action:    decodeAction,
		},
		{
			Name:      "inspect",
			Usage:     "Check a raw file against a frame geometry and print sample statistics",
			ArgsUsage: "FILE",
			Flags:     frameFlags(),
			Action:    inspectAction,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}
