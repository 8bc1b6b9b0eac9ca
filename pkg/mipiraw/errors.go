package mipiraw

import "errors"

// Error kinds returned by the decode pipeline. Every error returned by this
// package wraps exactly one of these; test with errors.Is.
var (
	ErrInvalidGeometry       = errors.New("mipiraw: invalid geometry")
	ErrMalformedBuffer       = errors.New("mipiraw: malformed buffer")
	ErrUnsupportedBitDepth   = errors.New("mipiraw: unsupported bit depth")
	ErrUnsupportedBayerOrder = errors.New("mipiraw: unsupported bayer order")
	ErrUnsupportedPacking    = errors.New("mipiraw: unsupported packing")
)
