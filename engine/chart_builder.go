package engine

// ============================================================================
// CHART BUILDER: dispatches a ResolvedChartSpec to a ChartConfig
// ============================================================================
// Pure selection over five kinds. Anything else is an UnsupportedKindError;
// the dispatcher never panics on input it does not recognize.
// ============================================================================

const (
	tiltedLabelAngle = -45
	tickThousands    = "thousands"
)

// Dispatch builds the renderable chart for kind. rawTag is reported in the
// error when kind is unsupported; pass "" to report the kind itself.
func Dispatch(kind ChartKind, spec *ResolvedChartSpec, rawTag string) (*ChartConfig, error) {
	switch kind {
	case KindCategoryBar, KindLine:
		return buildCategoryChart(kind, spec), nil
	case KindPie:
		return buildPie(spec), nil
	case KindScatter:
		return buildScatter(spec), nil
	case KindGroupedBar:
		return buildGrouped(spec), nil
	}
	if rawTag == "" {
		rawTag = string(kind)
	}
	return nil, &UnsupportedKindError{Kind: rawTag}
}

func baseConfig(kind ChartKind, spec *ResolvedChartSpec) *ChartConfig {
	return &ChartConfig{
		ChartType:  kind.WireTag(),
		Title:      spec.Title,
		XAxis:      spec.CategoryLabel,
		YAxis:      spec.ValueLabel,
		XKey:       spec.Keys.Category,
		YKey:       spec.Keys.Value,
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildCategoryChart(kind ChartKind, spec *ResolvedChartSpec) *ChartConfig {
	cfg := baseConfig(kind, spec)
	cfg.LabelAngle = tiltedLabelAngle
	cfg.TickFormat = tickThousands
	cfg.ShowLegend = false

	color := colorAt(spec.Palette, 0)
	cfg.Series = []ChartSeries{buildSeries(spec, spec.ValueLabel, spec.Keys.Value, color)}
	cfg.Colors = []string{color}
	return cfg
}

func buildPie(spec *ResolvedChartSpec) *ChartConfig {
	cfg := baseConfig(KindPie, spec)
	cfg.ShowGrid = false

	series := buildSeries(spec, spec.ValueLabel, spec.Keys.Value, "")
	cfg.Colors = make([]string, len(series.Data))
	for i := range series.Data {
		series.Data[i].Color = colorAt(spec.Palette, i)
		cfg.Colors[i] = series.Data[i].Color
	}
	cfg.Series = []ChartSeries{series}
	return cfg
}

func buildScatter(spec *ResolvedChartSpec) *ChartConfig {
	cfg := baseConfig(KindScatter, spec)
	cfg.XKey = spec.Keys.Value
	cfg.YKey = spec.Keys.SecondaryValue
	cfg.PointColor = colorAt(spec.Palette, 0)
	cfg.ShowLegend = false

	xi := spec.Column(spec.Keys.Value)
	yi := spec.Column(spec.Keys.SecondaryValue)
	ci := spec.Column(spec.Keys.Category)

	points := make([]ChartPoint, 0, len(spec.Rows))
	for _, row := range spec.Rows {
		x, xok := cellAt(row, xi).Float()
		y, yok := cellAt(row, yi).Float()
		points = append(points, ChartPoint{
			Label:   cellAt(row, ci).Text,
			X:       x,
			Value:   y,
			Display: FormatNumber(y),
			Missing: !xok || !yok,
		})
	}
	cfg.Series = []ChartSeries{{
		Name:  "Data Points",
		Key:   spec.Keys.SecondaryValue,
		Data:  points,
		Color: cfg.PointColor,
	}}
	cfg.Colors = []string{cfg.PointColor}
	return cfg
}

func buildGrouped(spec *ResolvedChartSpec) *ChartConfig {
	cfg := baseConfig(KindGroupedBar, spec)
	cfg.TickFormat = tickThousands

	cfg.Series = make([]ChartSeries, 0, len(spec.Keys.Series))
	cfg.Colors = make([]string, 0, len(spec.Keys.Series))
	for i, key := range spec.Keys.Series {
		color := colorAt(spec.Palette, i)
		cfg.Series = append(cfg.Series, buildSeries(spec, key, key, color))
		cfg.Colors = append(cfg.Colors, color)
	}
	return cfg
}

// buildSeries reads key against the category axis, one point per row.
func buildSeries(spec *ResolvedChartSpec, name, key, color string) ChartSeries {
	if name == "" {
		name = key
	}
	ci := spec.Column(spec.Keys.Category)
	vi := spec.Column(key)

	points := make([]ChartPoint, 0, len(spec.Rows))
	for _, row := range spec.Rows {
		v, ok := cellAt(row, vi).Float()
		p := ChartPoint{
			Label:   cellAt(row, ci).Text,
			Value:   RoundTo2(v),
			Missing: !ok,
		}
		if ok {
			p.Display = FormatNumber(v)
		}
		points = append(points, p)
	}
	return ChartSeries{Name: name, Key: key, Data: points, Color: color}
}

func cellAt(row Row, i int) Cell {
	if i < 0 || i >= len(row) {
		return Cell{}
	}
	return row[i]
}
