package mipiraw

import (
	"fmt"
	"math"
)

// PhaseStats summarises the samples at one position of the 2x2 filter tile.
type PhaseStats struct {
	// Channel is the filter colour at this position: 'R', 'G' or 'B'.
	Channel byte
	X, Y    int
	Count   int
	Min     uint16
	Max     uint16
	Median  uint16
	Mean    float64
	StdDev  float64
}

func (s PhaseStats) String() string {
	return fmt.Sprintf("%c(%d,%d) n=%d min=%d max=%d median=%d mean=%.2f stddev=%.2f",
		s.Channel, s.X, s.Y, s.Count, s.Min, s.Max, s.Median, s.Mean, s.StdDev)
}

var channelLetters = [...]byte{chR: 'R', chG: 'G', chB: 'B'}

// Stats computes per-phase statistics of g, in tile order (0,0) (1,0) (0,1)
// (1,1). Phases with no samples, as in a one-pixel-wide frame, have a zero
// Count.
func (g *SampleGrid) Stats(order BayerOrder) ([4]PhaseStats, error) {
	var out [4]PhaseStats
	if !order.Valid() {
		return out, fmt.Errorf("%w: %s", ErrUnsupportedBayerOrder, order)
	}
	if err := g.check(); err != nil {
		return out, err
	}

	hist := make([][]uint32, 4)
	for p := range hist {
		hist[p] = make([]uint32, int(g.Depth.MaxValue())+1)
	}
	limit := uint16(g.Depth.MaxValue())
	for y := 0; y < g.Height; y++ {
		for x, v := range g.Row(y) {
			if v > limit {
				return out, fmt.Errorf("%w: sample %d at (%d,%d) exceeds %d-bit range", ErrMalformedBuffer, v, x, y, g.Depth)
			}
			hist[(y&1)<<1|x&1][v]++
		}
	}

	for p := range out {
		s := &out[p]
		s.Channel = channelLetters[bayerTiles[order][p]]
		s.X, s.Y = p&1, p>>1
		histogramStats(hist[p], s)
	}
	return out, nil
}

func histogramStats(h []uint32, s *PhaseStats) {
	var n int
	var total float64
	first := -1
	last := -1
	for v, c := range h {
		if c == 0 {
			continue
		}
		if first < 0 {
			first = v
		}
		last = v
		n += int(c)
		total += float64(c) * float64(v)
	}
	if n == 0 {
		return
	}
	s.Count = n
	s.Min, s.Max = uint16(first), uint16(last)
	s.Mean = total / float64(n)

	var sse float64
	seen := 0
	median := -1
	for v, c := range h {
		if c == 0 {
			continue
		}
		seen += int(c)
		if median < 0 && 2*seen >= n {
			median = v
		}
		d := float64(v) - s.Mean
		sse += float64(c) * d * d
	}
	s.Median = uint16(median)
	s.StdDev = math.Sqrt(sse / float64(n))
}
