package engine

// ============================================================================
// PALETTE
// ============================================================================

// baseColors is the fixed base palette. Order is part of the contract: pie
// wedges and grouped series pick colors by index.
var baseColors = []string{
	"#8884d8", "#82ca9d", "#ffc658", "#ff8042", "#0088FE", "#00C49F",
	"#FFBB28", "#FF8042", "#a4de6c", "#d0ed57", "#83a6ed", "#8dd1e1",
}

// variantAlphas are appended to the base colors on passes after the first.
var variantAlphas = []string{"99", "66", "33"}

// BaseColors returns a copy of the default base palette.
func BaseColors() []string {
	out := make([]string, len(baseColors))
	copy(out, baseColors)
	return out
}

// GenerateColors returns count colors from the default base palette.
func GenerateColors(count int) []string {
	return generateFrom(baseColors, count)
}

// Palette returns count colors from the base palette in effect for opts.
func Palette(count int, opts ...Option) []string {
	return generateFrom(applyOptions(opts).BasePalette, count)
}

// generateFrom yields the first count entries of base, then further passes over
// base with a reduced-opacity alpha suffix. The result for n is always a prefix
// of the result for n+1.
func generateFrom(base []string, count int) []string {
	if count <= 0 || len(base) == 0 {
		return []string{}
	}
	colors := make([]string, 0, count)
	for pass := 0; len(colors) < count; pass++ {
		suffix := ""
		if pass > 0 {
			suffix = variantAlphas[(pass-1)%len(variantAlphas)]
		}
		for _, c := range base {
			if len(colors) == count {
				break
			}
			colors = append(colors, c+suffix)
		}
	}
	return colors
}

// colorAt picks palette[i mod len], falling back to the first base color.
func colorAt(palette []string, i int) string {
	if len(palette) == 0 {
		return baseColors[0]
	}
	return palette[i%len(palette)]
}
