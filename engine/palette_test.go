package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateColors_Length(t *testing.T) {
	for _, n := range []int{0, 1, 5, 12, 13, 24, 25, 50} {
		assert.Len(t, GenerateColors(n), n, "count=%d", n)
	}
}

func TestGenerateColors_NegativeIsEmpty(t *testing.T) {
	colors := GenerateColors(-3)
	require.NotNil(t, colors)
	assert.Empty(t, colors)
}

func TestGenerateColors_StablePrefix(t *testing.T) {
	longest := GenerateColors(40)
	for n := 0; n <= 40; n++ {
		assert.Equal(t, longest[:n], GenerateColors(n), "count=%d", n)
	}
}

func TestGenerateColors_BaseThenVariants(t *testing.T) {
	colors := GenerateColors(14)
	assert.Equal(t, "#8884d8", colors[0])
	assert.Equal(t, "#8dd1e1", colors[11])
	assert.Equal(t, "#8884d899", colors[12])
	assert.Equal(t, "#82ca9d99", colors[13])
}

func TestGenerateColors_PassesDiffer(t *testing.T) {
	colors := GenerateColors(36)
	assert.Equal(t, "#8884d866", colors[24])
	for i := 0; i < 12; i++ {
		assert.NotEqual(t, colors[i], colors[i+12])
		assert.NotEqual(t, colors[i+12], colors[i+24])
	}
}

func TestColorAt_WrapsAndHandlesEmpty(t *testing.T) {
	p := []string{"#a", "#b"}
	assert.Equal(t, "#a", colorAt(p, 2))
	assert.Equal(t, "#b", colorAt(p, 3))
	assert.Equal(t, baseColors[0], colorAt(nil, 7))
}

func TestPalette_UsesConfiguredBase(t *testing.T) {
	assert.Equal(t, GenerateColors(5), Palette(5))
	assert.Equal(t, []string{"#111111", "#222222", "#11111199"}, Palette(3, WithBasePalette("#111111", "#222222")))
	assert.Empty(t, Palette(-1, WithBasePalette("#111111")))
}
