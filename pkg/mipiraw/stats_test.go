package mipiraw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFixture(t *testing.T) {
	var p Pipeline
	g, err := p.Samples(grbg10Fixture, grbg10Descriptor())
	require.NoError(t, err)

	st, err := g.Stats(GRBG)
	require.NoError(t, err)

	// (0,0) green: 0 512 1023 64
	assert.Equal(t, byte('G'), st[0].Channel)
	assert.Equal(t, 4, st[0].Count)
	assert.Equal(t, uint16(0), st[0].Min)
	assert.Equal(t, uint16(1023), st[0].Max)
	assert.Equal(t, uint16(64), st[0].Median)
	assert.InDelta(t, 399.75, st[0].Mean, 1e-9)

	// (1,0) red: 1023 256 0 800
	assert.Equal(t, byte('R'), st[1].Channel)
	assert.Equal(t, 1, st[1].X)
	assert.Equal(t, uint16(0), st[1].Min)
	assert.Equal(t, uint16(1023), st[1].Max)
	assert.InDelta(t, 519.75, st[1].Mean, 1e-9)

	// (0,1) blue: 100 300 400 1000
	assert.Equal(t, byte('B'), st[2].Channel)
	assert.Equal(t, 1, st[2].Y)
	assert.Equal(t, uint16(300), st[2].Median)
	assert.InDelta(t, 450, st[2].Mean, 1e-9)

	// (1,1) green: 900 700 600 32
	assert.Equal(t, byte('G'), st[3].Channel)
	assert.Equal(t, uint16(32), st[3].Min)
	assert.Equal(t, uint16(900), st[3].Max)
}

func TestStatsFlat(t *testing.T) {
	g := NewSampleGrid(6, 4, Depth12)
	for i := range g.Pix {
		g.Pix[i] = 2000
	}
	st, err := g.Stats(RGGB)
	require.NoError(t, err)
	for _, s := range st {
		assert.Equal(t, 6, s.Count)
		assert.Equal(t, uint16(2000), s.Median)
		assert.Equal(t, 2000.0, s.Mean)
		assert.Equal(t, 0.0, s.StdDev)
	}
	assert.Equal(t, "RGGB", string([]byte{st[0].Channel, st[1].Channel, st[2].Channel, st[3].Channel}))
}

func TestStatsSingleColumn(t *testing.T) {
	g := NewSampleGrid(1, 3, Depth8)
	st, err := g.Stats(BGGR)
	require.NoError(t, err)
	assert.Equal(t, 2, st[0].Count)
	assert.Equal(t, 0, st[1].Count)
	assert.Equal(t, 1, st[2].Count)
	assert.Equal(t, 0, st[3].Count)
}

func TestStatsErrors(t *testing.T) {
	g := NewSampleGrid(2, 2, Depth10)
	_, err := g.Stats(BayerOrder(9))
	assert.ErrorIs(t, err, ErrUnsupportedBayerOrder)

	g.Pix[3] = 1024
	_, err = g.Stats(RGGB)
	assert.ErrorIs(t, err, ErrMalformedBuffer)

	_, err = (&SampleGrid{Width: 2, Height: 2, Depth: Depth10}).Stats(RGGB)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
