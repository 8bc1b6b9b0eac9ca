//go:build js && wasm

package main

import (
	"bytes"
	"image"
	"syscall/js"

	"mipiraw/pkg/mipiraw"
	"mipiraw/pkg/rawio"
)

var (
	lastFull    *mipiraw.RGB
	lastPreview *mipiraw.RGB
	lastFrame   mipiraw.Descriptor
)

func main() {
	js.Global().Set("decodeRaw", js.FuncOf(decodeRaw))
	js.Global().Set("inspectRaw", js.FuncOf(inspectRaw))
	js.Global().Set("renderImage", js.FuncOf(renderImage))
	select {} // block forever
}

// decodeRaw(fileBytes, {width, height, bitDepth, stride, bayer, packing, scale})
func decodeRaw(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("usage: decodeRaw(fileBytes, options)")
	}

	buf, err := readBytes(args[0])
	if err != nil {
		return errorResult("read error: " + err.Error())
	}
	d, err := descriptorFromJS(args[1], len(buf))
	if err != nil {
		return errorResult(err.Error())
	}

	scale := 0.2
	if v := args[1].Get("scale"); v.Type() == js.TypeNumber {
		scale = v.Float()
	}

	full, preview, err := mipiraw.DecodeWithPreview(buf, d, scale)
	if err != nil {
		return errorResult("decode error: " + err.Error())
	}
	lastFull, lastPreview, lastFrame = full, preview, d

	png, err := encode(preview, rawio.PNG, false)
	if err != nil {
		return errorResult("encode error: " + err.Error())
	}

	return js.ValueOf(map[string]interface{}{
		"width":         full.Rect.Dx(),
		"height":        full.Rect.Dy(),
		"previewWidth":  preview.Rect.Dx(),
		"previewHeight": preview.Rect.Dy(),
		"rowStride":     d.RowStride,
		"png":           toUint8Array(png),
	})
}

// inspectRaw(fileBytes, options) reports per-phase sample statistics.
func inspectRaw(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("usage: inspectRaw(fileBytes, options)")
	}

	buf, err := readBytes(args[0])
	if err != nil {
		return errorResult("read error: " + err.Error())
	}
	d, err := descriptorFromJS(args[1], len(buf))
	if err != nil {
		return errorResult(err.Error())
	}

	var p mipiraw.Pipeline
	g, err := p.Samples(buf, d)
	if err != nil {
		return errorResult("decode error: " + err.Error())
	}
	stats, err := g.Stats(d.Order)
	if err != nil {
		return errorResult(err.Error())
	}

	phases := make([]interface{}, 0, len(stats))
	for _, s := range stats {
		phases = append(phases, map[string]interface{}{
			"channel": string(s.Channel),
			"x":       s.X,
			"y":       s.Y,
			"count":   s.Count,
			"min":     int(s.Min),
			"max":     int(s.Max),
			"median":  int(s.Median),
			"mean":    s.Mean,
			"stddev":  s.StdDev,
		})
	}
	return js.ValueOf(map[string]interface{}{
		"size":     len(buf),
		"expected": int(d.FrameBytes()),
		"frame":    d.String(),
		"phases":   phases,
	})
}

// renderImage("full" | "preview", format, annotate) re-encodes the last
// decode result.
func renderImage(this js.Value, args []js.Value) interface{} {
	if lastFull == nil {
		return js.Null()
	}

	var m image.Image = lastPreview
	if len(args) >= 1 && args[0].String() == "full" {
		m = lastFull
	}
	format := rawio.JPEG
	if len(args) >= 2 && args[1].Type() == js.TypeString {
		f, err := rawio.ParseFormat(args[1].String())
		if err != nil {
			return js.Null()
		}
		format = f
	}
	annotate := len(args) >= 3 && args[2].Truthy()

	b, err := encode(m, format, annotate)
	if err != nil {
		return js.Null()
	}
	return toUint8Array(b)
}

func descriptorFromJS(o js.Value, size int) (mipiraw.Descriptor, error) {
	order, err := mipiraw.ParseBayerOrder(stringOr(o.Get("bayer"), "GRBG"))
	if err != nil {
		return mipiraw.Descriptor{}, err
	}
	packing, err := mipiraw.ParsePacking(stringOr(o.Get("packing"), "linear"))
	if err != nil {
		return mipiraw.Descriptor{}, err
	}

	d := mipiraw.Descriptor{
		Width:     intOr(o.Get("width"), 0),
		Height:    intOr(o.Get("height"), 0),
		BitDepth:  mipiraw.BitDepth(intOr(o.Get("bitDepth"), 10)),
		RowStride: intOr(o.Get("stride"), 0),
		Order:     order,
		Packing:   packing,
	}
	if d.RowStride <= 0 {
		// no stride given: take it from the file size, else pack tightly
		if s, ok := rawio.DeriveStride(size, d.Height); ok {
			d.RowStride = s
		} else {
			d.RowStride = d.RowBytes()
		}
	}
	return d, d.Validate()
}

func encode(m image.Image, f rawio.Format, annotate bool) ([]byte, error) {
	if annotate {
		order := lastFrame.Order
		m = rawio.Annotate(m, rawio.Caption{
			Title: lastFrame.String(),
			Order: &order,
		})
	}
	var buf bytes.Buffer
	if err := rawio.Encode(&buf, m, f, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readBytes(v js.Value) ([]byte, error) {
	b := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(b, v)
	return rawio.Read(bytes.NewReader(b))
}

func toUint8Array(b []byte) js.Value {
	a := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(a, b)
	return a
}

func intOr(v js.Value, def int) int {
	if v.Type() == js.TypeNumber {
		return v.Int()
	}
	return def
}

func stringOr(v js.Value, def string) string {
	if v.Type() == js.TypeString {
		return v.String()
	}
	return def
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": msg,
	})
}
