package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/vizchat/engine"
)

// ============================================================================
// IMAGE RENDERER: ChartConfig → PNG / SVG via go-chart
// ============================================================================
// Missing points are skipped; go-chart has no notion of gaps.
// ============================================================================

// Image renders cfg as PNG or SVG.
func Image(cfg *engine.ChartConfig, f Format, opts Options) ([]byte, error) {
	if cfg == nil {
		return nil, ErrNoChart
	}
	provider := chart.PNG
	switch f {
	case FormatPNG:
	case FormatSVG:
		provider = chart.SVG
	default:
		return nil, fmt.Errorf("image format %q not supported", f)
	}
	opts = opts.withDefaults()

	var buf bytes.Buffer
	var err error
	switch cfg.ChartType {
	case "bar":
		err = barChart(cfg, opts, singleSeriesBars(cfg)).Render(provider, &buf)
	case "grouped_bar":
		err = barChart(cfg, opts, groupedBars(cfg)).Render(provider, &buf)
	case "pie":
		var pie *chart.PieChart
		pie, err = pieChart(cfg, opts)
		if err == nil {
			err = pie.Render(provider, &buf)
		}
	case "line":
		err = lineChart(cfg, opts).Render(provider, &buf)
	case "scatter":
		err = scatterChart(cfg, opts).Render(provider, &buf)
	default:
		return nil, fmt.Errorf("no image renderer for chart type %q", cfg.ChartType)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", cfg.ChartType, err)
	}
	return buf.Bytes(), nil
}

// ============================================================================
// BAR CHARTS
// ============================================================================

func singleSeriesBars(cfg *engine.ChartConfig) []chart.Value {
	if len(cfg.Series) == 0 {
		return nil
	}
	s := cfg.Series[0]
	color := parseHex(s.Color)
	bars := make([]chart.Value, 0, len(s.Data))
	for _, p := range s.Data {
		if p.Missing {
			continue
		}
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}
	return bars
}

// groupedBars interleaves one bar per series for each category, separated by
// a transparent spacer bar. Only the first bar of a group carries the label.
func groupedBars(cfg *engine.ChartConfig) []chart.Value {
	if len(cfg.Series) == 0 {
		return nil
	}
	n := len(cfg.Series[0].Data)
	bars := make([]chart.Value, 0, n*(len(cfg.Series)+1))
	for i := 0; i < n; i++ {
		if i > 0 {
			bars = append(bars, chart.Value{
				Style: chart.Style{FillColor: drawing.ColorTransparent, StrokeColor: drawing.ColorTransparent},
			})
		}
		for si, s := range cfg.Series {
			if i >= len(s.Data) {
				continue
			}
			label := ""
			if si == 0 {
				label = s.Data[i].Label
			}
			color := parseHex(s.Color)
			if s.Data[i].Missing {
				color = drawing.ColorTransparent
			}
			bars = append(bars, chart.Value{
				Label: label,
				Value: s.Data[i].Value,
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
		}
	}
	return bars
}

func barChart(cfg *engine.ChartConfig, opts Options, bars []chart.Value) *chart.BarChart {
	values := make([]float64, 0, len(bars))
	for _, b := range bars {
		values = append(values, b.Value)
	}
	barWidth := 8
	if len(bars) > 0 {
		barWidth = max(4, int(float64(opts.Width-160)/(float64(len(bars))*1.4)))
	}
	return &chart.BarChart{
		Title:      cfg.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: max(2, barWidth/4),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 80}},
		XAxis:      chart.Style{TextRotationDegrees: float64(-cfg.LabelAngle)},
		YAxis: chart.YAxis{
			Name:           cfg.YAxis,
			Range:          valueRange(values, true),
			ValueFormatter: thousandsFormatter,
		},
		Bars: bars,
	}
}

// ============================================================================
// PIE
// ============================================================================

func pieChart(cfg *engine.ChartConfig, opts Options) (*chart.PieChart, error) {
	if len(cfg.Series) == 0 {
		return nil, ErrNoChart
	}
	values := make([]chart.Value, 0, len(cfg.Series[0].Data))
	for _, p := range cfg.Series[0].Data {
		if p.Missing || p.Value <= 0 {
			continue
		}
		color := parseHex(p.Color)
		values = append(values, chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite},
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("pie has no positive values")
	}
	return &chart.PieChart{
		Title:  cfg.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}, nil
}

// ============================================================================
// LINE / SCATTER
// ============================================================================

func lineChart(cfg *engine.ChartConfig, opts Options) *chart.Chart {
	var xs, ys []float64
	var ticks []chart.Tick
	if len(cfg.Series) > 0 {
		for i, p := range cfg.Series[0].Data {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: p.Label})
			if p.Missing {
				continue
			}
			xs = append(xs, float64(i))
			ys = append(ys, p.Value)
		}
	}
	color, name := drawing.ColorBlue, ""
	if len(cfg.Series) > 0 {
		color, name = parseHex(cfg.Series[0].Color), cfg.Series[0].Name
	}

	ch := &chart.Chart{
		Title:      cfg.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 60}},
		XAxis: chart.XAxis{
			Name:  cfg.XAxis,
			Style: chart.Style{TextRotationDegrees: float64(-cfg.LabelAngle)},
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(ticks)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           cfg.YAxis,
			Range:          valueRange(ys, false),
			ValueFormatter: thousandsFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    name,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: color, StrokeWidth: 2, DotColor: color, DotWidth: 3},
			},
		},
	}
	return ch
}

func scatterChart(cfg *engine.ChartConfig, opts Options) *chart.Chart {
	var xs, ys []float64
	if len(cfg.Series) > 0 {
		for _, p := range cfg.Series[0].Data {
			if p.Missing {
				continue
			}
			xs = append(xs, p.X)
			ys = append(ys, p.Value)
		}
	}
	color := parseHex(cfg.PointColor)

	ch := &chart.Chart{
		Title:      cfg.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           cfg.XAxis,
			Range:          valueRange(xs, false),
			ValueFormatter: thousandsFormatter,
		},
		YAxis: chart.YAxis{
			Name:           cfg.YAxis,
			Range:          valueRange(ys, false),
			ValueFormatter: thousandsFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Data Points",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: drawing.ColorTransparent, DotWidth: 5, DotColor: color},
			},
		},
	}
	return ch
}

// ============================================================================
// HELPERS
// ============================================================================

// valueRange pads degenerate ranges so go-chart never sees min == max.
func valueRange(values []float64, fromZero bool) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if len(values) == 0 {
		lo, hi = 0, 1
	}
	if fromZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	if fromZero && lo == 0 {
		return &chart.ContinuousRange{Min: 0, Max: hi + pad}
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func thousandsFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return engine.FormatTick(f)
	}
	return fmt.Sprintf("%v", v)
}

var fallbackColor = drawing.Color{R: 128, G: 128, B: 128, A: 255}

// parseHex reads #rgb, #rrggbb and #rrggbbaa. Anything else is gray.
// drawing.ColorFromHex ignores an alpha pair, so the palette's later passes
// get theirs applied here.
func parseHex(s string) drawing.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if strings.Trim(s, "0123456789abcdefABCDEF") != "" {
		return fallbackColor
	}
	switch len(s) {
	case 3, 6:
		return drawing.ColorFromHex(s)
	case 8:
		a, err := strconv.ParseUint(s[6:], 16, 8)
		if err != nil {
			return fallbackColor
		}
		return drawing.ColorFromHex(s[:6]).WithAlpha(uint8(a))
	}
	return fallbackColor
}
