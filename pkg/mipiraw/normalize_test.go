package mipiraw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSampleEndpoints(t *testing.T) {
	for _, depth := range BitDepths {
		assert.Equal(t, uint8(0), NormalizeSample(0, depth), "%d-bit", depth)
		assert.Equal(t, uint8(255), NormalizeSample(uint16(depth.MaxValue()), depth), "%d-bit", depth)
	}
}

func TestNormalizeSampleMonotonic(t *testing.T) {
	for _, depth := range BitDepths {
		prev := uint8(0)
		for s := uint32(0); s <= depth.MaxValue(); s++ {
			v := NormalizeSample(uint16(s), depth)
			require.GreaterOrEqual(t, v, prev, "%d-bit sample %d", depth, s)
			prev = v
		}
	}
}

func TestNormalizeSampleRounding(t *testing.T) {
	assert.Equal(t, uint8(128), NormalizeSample(512, Depth10)) // 127.62
	assert.Equal(t, uint8(64), NormalizeSample(256, Depth10))  // 63.81
	assert.Equal(t, uint8(25), NormalizeSample(100, Depth10))  // 24.93
	assert.Equal(t, uint8(128), NormalizeSample(32896, Depth16))
	assert.Equal(t, uint8(200), NormalizeSample(200, Depth8))
	// out of range input clamps
	assert.Equal(t, uint8(255), NormalizeSample(4000, Depth10))
}

func TestNormalizeGrid(t *testing.T) {
	g := NewSampleGrid(2, 2, Depth12)
	copy(g.Pix, []uint16{0, 4095, 2048, 16})

	m, err := Normalize(g)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255, 128, 1}, m.Pix)

	_, err = Normalize(&SampleGrid{Width: 2, Height: 2, Depth: Depth12, Pix: make([]uint16, 3)})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
