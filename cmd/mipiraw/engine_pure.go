//go:build purego || js

package main

import (
	"errors"
	"fmt"

	"mipiraw/pkg/mipiraw"
)

var errNoOpenCV = errors.New("opencv engine is not available in this build")

func newEngine(name string, workers int) (engine, error) {
	switch name {
	case "", "go":
		return &goEngine{p: mipiraw.Pipeline{Workers: workers}}, nil
	case "opencv", "cv":
		return nil, errNoOpenCV
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}
