package engine

import (
	"errors"

	"go.uber.org/zap"
)

// ============================================================================
// EXECUTOR: the resolution pipeline
// ============================================================================
// Entry points: Resolve(desc, opts...) and Execute(desc, opts...)
//
// Pipeline:
//   1. Normalize shapes (grouped explosion, tuple rename)
//   2. Classify fields from the first record
//   3. Resolve category / value / series keys
//   4. Tag every row with classified cells
//   5. Dispatch to a chart builder (Execute only)
//
// Pure: no I/O and no shared state, so concurrent calls are safe.
// ============================================================================

// Resolve runs steps 1-4 and returns the ResolvedChartSpec a renderer consumes.
//
// Options:
//   - WithCategoryFallbacks / WithValueFallbacks: well-known field names
//   - WithBasePalette: replace the base colors
//   - WithSampleSize: majority-vote classification (behavior change)
//   - WithLogger: zap logger for shape warnings
func Resolve(desc *Descriptor, opts ...Option) (*ResolvedChartSpec, error) {
	cfg := applyOptions(opts)
	log := cfg.Logger

	data, err := Normalize(desc)
	if err != nil {
		return nil, err
	}
	for _, w := range data.Warnings {
		log.Warn("record shape differs from first record", zap.Error(w))
	}

	class := classifySample(data.Records, data.Fields, cfg.SampleSize)

	keys, err := resolveKeys(class, data, desc, cfg)
	if err != nil {
		return nil, err
	}

	log.Debug("resolved chart keys",
		zap.String("kind", string(data.Kind)),
		zap.Int("records", len(data.Records)),
		zap.String("category", keys.Category),
		zap.String("value", keys.Value),
		zap.String("secondary", keys.SecondaryValue),
		zap.Strings("series", keys.Series),
	)

	warnings := data.Warnings
	missing := missingKeys(data.Records, append([]string{keys.Category, keys.Value, keys.SecondaryValue}, keys.Series...)...)
	if len(missing) > 0 {
		log.Warn("records missing resolved keys",
			zap.Int("count", len(missing)),
			zap.Error(missing[0]),
		)
		warnings = append(warnings, missing...)
	}

	spec := &ResolvedChartSpec{
		Kind:           data.Kind,
		Title:          desc.Title,
		Keys:           keys,
		Fields:         append([]string(nil), data.Fields...),
		Rows:           tagRows(data.Records, data.Fields, class),
		Classification: class,
		Warnings:       warnings,
	}

	switch data.Kind {
	case KindScatter:
		spec.CategoryLabel = LabelForField(desc.CategoryLabel, keys.Value)
		spec.ValueLabel = LabelForField(desc.ValueLabel, keys.SecondaryValue)
	case KindGroupedBar:
		spec.CategoryLabel = LabelForField(desc.CategoryLabel, keys.Category)
		spec.ValueLabel = desc.ValueLabel
	default:
		spec.CategoryLabel = LabelForField(desc.CategoryLabel, keys.Category)
		spec.ValueLabel = LabelForField(desc.ValueLabel, keys.Value)
	}

	spec.Palette = generateFrom(cfg.BasePalette, paletteSize(spec))
	return spec, nil
}

// Execute resolves and dispatches desc. It always returns a Result: failures
// become a placeholder or notice scoped to this one chart, with the cause in
// Result.Err. A nil descriptor means the message carries no chart.
func Execute(desc *Descriptor, opts ...Option) *Result {
	if desc == nil {
		return &Result{Success: true, Type: "none"}
	}
	cfg := applyOptions(opts)

	spec, err := Resolve(desc, opts...)
	if err != nil {
		cfg.Logger.Info("chart not rendered", zap.String("type", desc.Tag), zap.Error(err))
		return noticeResult(desc, err)
	}

	chart, err := Dispatch(spec.Kind, spec, desc.Tag)
	if err != nil {
		cfg.Logger.Info("chart not rendered", zap.String("type", desc.Tag), zap.Error(err))
		return noticeResult(desc, err)
	}

	result := &Result{
		Success:     true,
		Type:        "chart",
		Title:       desc.Title,
		ChartConfig: chart,
		Spec:        spec,
	}
	for _, w := range spec.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}
	return result
}

func noticeResult(desc *Descriptor, err error) *Result {
	return &Result{
		Success: false,
		Type:    "notice",
		Title:   desc.Title,
		Notice:  NoticeFor(err),
		Err:     err,
	}
}

// tagRows converts every record into a Row aligned with fields. Fields a
// record lacks become missing cells; fields outside the first record's set
// are dropped.
func tagRows(records []Record, fields []string, class Classification) []Row {
	roles := make([]Role, len(fields))
	for i, f := range fields {
		roles[i] = class.Role(f)
	}
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := make(Row, len(fields))
		for i, f := range fields {
			if v, ok := r.Get(f); ok {
				row[i] = toCell(v, roles[i])
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// paletteSize is the number of distinct colors the chart kind needs.
func paletteSize(spec *ResolvedChartSpec) int {
	switch spec.Kind {
	case KindPie:
		return len(spec.Rows)
	case KindGroupedBar:
		return len(spec.Keys.Series)
	default:
		return 1
	}
}

// IsPlaceholder reports whether err should render the "no data" placeholder
// rather than a notice.
func IsPlaceholder(err error) bool {
	return errors.Is(err, ErrMalformedDescriptor) ||
		errors.Is(err, ErrMissingGroupValue) ||
		errors.Is(err, ErrUnresolvableKeys)
}
