package main

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mipiraw/pkg/mipiraw"
	"mipiraw/pkg/rawio"
)

// 4x2 8-bit RGGB frame, no padding
var flatFrame = []byte{
	200, 100, 200, 100,
	100, 50, 100, 50,
}

func flatDescriptor() mipiraw.Descriptor {
	return mipiraw.Descriptor{Width: 4, Height: 2, BitDepth: mipiraw.Depth8, RowStride: 4, Order: mipiraw.RGGB}
}

func TestGoEngine(t *testing.T) {
	e, err := newEngine("go", 2)
	require.NoError(t, err)
	assert.Equal(t, "go", e.Name())

	res, err := e.Decode(flatFrame, flatDescriptor(), 0.5)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), res.Full.Bounds())
	require.NotNil(t, res.Preview)
	assert.Equal(t, image.Rect(0, 0, 2, 1), res.Preview.Bounds())

	res, err = e.Decode(flatFrame, flatDescriptor(), 0)
	require.NoError(t, err)
	assert.Nil(t, res.Preview)

	_, err = e.Decode(flatFrame[:7], flatDescriptor(), 0)
	assert.ErrorIs(t, err, mipiraw.ErrInvalidGeometry)
}

func TestUnknownEngine(t *testing.T) {
	_, err := newEngine("cuda", 0)
	assert.Error(t, err)
}

type blockingEngine struct {
	release chan struct{}
}

func (e *blockingEngine) Name() string { return "blocking" }

func (e *blockingEngine) Write(string, image.Image, *rawio.Options) error { return nil }

func (e *blockingEngine) Decode([]byte, mipiraw.Descriptor, float64) (*decodeResult, error) {
	<-e.release
	return &decodeResult{}, nil
}

func TestDecodeContextCancel(t *testing.T) {
	e := &blockingEngine{release: make(chan struct{})}
	defer close(e.release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := decodeContext(ctx, e, nil, mipiraw.Descriptor{}, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDecodeContextResult(t *testing.T) {
	e, err := newEngine("", 1)
	require.NoError(t, err)
	res, err := decodeContext(context.Background(), e, flatFrame, flatDescriptor(), 1)
	require.NoError(t, err)
	assert.Equal(t, res.Full.Bounds(), res.Preview.Bounds())
}

func TestCaption(t *testing.T) {
	d := flatDescriptor()
	res := &decodeResult{Full: mipiraw.NewRGB(image.Rect(0, 0, 4, 2))}
	c := caption("/data/frame.raw", d, res)
	assert.Equal(t, "frame.raw", c.Title)
	assert.Equal(t, []string{"4x2 8-bit linear", "stride 4 bytes"}, c.Lines)
	require.NotNil(t, c.Order)
	assert.Equal(t, mipiraw.RGGB, *c.Order)
}

func TestGoEngineWrite(t *testing.T) {
	e, err := newEngine("go", 1)
	require.NoError(t, err)
	res, err := e.Decode(flatFrame, flatDescriptor(), 0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, e.Write(path, res.Full, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	m, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), m.Bounds())

	assert.ErrorIs(t, e.Write(filepath.Join(t.TempDir(), "frame.xyz"), res.Full, nil), rawio.ErrUnknownFormat)
}
