package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatNumber renders v with thousands grouping and at most two decimals:
// 1200 → "1,200", 1234.5678 → "1,234.57".
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return humanize.Commaf(RoundTo2(v))
}

// FormatTick is FormatNumber for axis ticks; whole numbers only above 1000.
func FormatTick(v float64) string {
	if math.Abs(v) >= 1000 {
		return humanize.Comma(int64(math.Round(v)))
	}
	return FormatNumber(v)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForField returns the display label for a field, preferring label.
func LabelForField(label, field string) string {
	if strings.TrimSpace(label) != "" {
		return label
	}
	return field
}

func formatRaw(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
