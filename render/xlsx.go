package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/vizchat/engine"
)

// ============================================================================
// SPREADSHEET EXPORT: rows + native chart via excelize
// ============================================================================
// Layout: header in row 1, one row per plotted record, chart anchored to the
// right of the data. Pie and scatter drop rows without numeric values so the
// chart never references blank cells.
// ============================================================================

const dataSheet = "Sheet1"

// Spreadsheet writes spec's rows and an Excel chart matching cfg.
func Spreadsheet(spec *engine.ResolvedChartSpec, cfg *engine.ChartConfig) ([]byte, error) {
	if spec == nil || cfg == nil {
		return nil, ErrNoChart
	}

	f := excelize.NewFile()
	defer f.Close()

	view := engine.NewSpecView(spec)
	switch spec.Kind {
	case engine.KindPie:
		view = engine.PlottableRows(view, spec.Keys.Value)
	case engine.KindScatter:
		view = engine.PlottableRows(view, spec.Keys.Value, spec.Keys.SecondaryValue)
	}

	if err := writeRows(f, spec.Fields, view); err != nil {
		return nil, err
	}

	if view.Len() > 0 {
		ch, err := excelChart(spec, cfg, view.Len())
		if err != nil {
			return nil, err
		}
		anchor, err := excelize.CoordinatesToCellName(len(spec.Fields)+2, 2)
		if err != nil {
			return nil, err
		}
		if err := f.AddChart(dataSheet, anchor, ch); err != nil {
			return nil, fmt.Errorf("add chart: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, fields []string, view engine.RecordView) error {
	header := make([]interface{}, len(fields))
	for i, name := range fields {
		header[i] = name
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(fields), 1)
		_ = f.SetCellStyle(dataSheet, "A1", last, bold)
	}

	for i := 0; i < view.Len(); i++ {
		row := make([]interface{}, len(fields))
		for j, name := range fields {
			c := view.Cell(i, name)
			switch c.Kind {
			case engine.CellNumeric:
				row[j] = c.Num
			case engine.CellCategorical:
				row[j] = c.Text
			default:
				row[j] = nil
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(dataSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}

func excelChart(spec *engine.ResolvedChartSpec, cfg *engine.ChartConfig, rows int) (*excelize.Chart, error) {
	ref := func(field string, header bool) (string, error) {
		col := spec.Column(field)
		if col < 0 {
			return "", fmt.Errorf("field %q not in sheet", field)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return "", err
		}
		if header {
			return fmt.Sprintf("%s!$%s$1", dataSheet, name), nil
		}
		return fmt.Sprintf("%s!$%s$2:$%s$%d", dataSheet, name, name, rows+1), nil
	}

	ch := &excelize.Chart{
		Title:     []excelize.RichTextRun{{Text: chartTitle(cfg)}},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: cfg.XAxis}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: cfg.YAxis}}},
	}

	var keys []string
	categoryKey := spec.Keys.Category
	switch spec.Kind {
	case engine.KindCategoryBar:
		ch.Type = excelize.Col
		keys = []string{spec.Keys.Value}
	case engine.KindGroupedBar:
		ch.Type = excelize.Col
		keys = spec.Keys.Series
	case engine.KindLine:
		ch.Type = excelize.Line
		keys = []string{spec.Keys.Value}
	case engine.KindPie:
		ch.Type = excelize.Pie
		keys = []string{spec.Keys.Value}
		ch.XAxis, ch.YAxis = excelize.ChartAxis{}, excelize.ChartAxis{}
	case engine.KindScatter:
		ch.Type = excelize.Scatter
		categoryKey = spec.Keys.Value
		keys = []string{spec.Keys.SecondaryValue}
	default:
		return nil, &engine.UnsupportedKindError{Kind: string(spec.Kind)}
	}

	categories, err := ref(categoryKey, false)
	if err != nil {
		return nil, err
	}
	for i, key := range keys {
		name, err := ref(key, true)
		if err != nil {
			return nil, err
		}
		values, err := ref(key, false)
		if err != nil {
			return nil, err
		}
		series := excelize.ChartSeries{Name: name, Categories: categories, Values: values}
		if spec.Kind != engine.KindPie {
			series.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{excelColor(seriesColor(cfg, i))}}
		}
		ch.Series = append(ch.Series, series)
	}
	return ch, nil
}

func chartTitle(cfg *engine.ChartConfig) string {
	if cfg.Title != "" {
		return cfg.Title
	}
	return engine.Caption(&engine.Result{Type: "chart", ChartConfig: cfg})
}

func seriesColor(cfg *engine.ChartConfig, i int) string {
	if cfg.PointColor != "" {
		return cfg.PointColor
	}
	if i < len(cfg.Series) {
		return cfg.Series[i].Color
	}
	return ""
}

// excelColor strips the leading # and any alpha suffix: Excel fills take RRGGBB.
func excelColor(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) > 6 {
		hex = hex[:6]
	}
	return strings.ToUpper(hex)
}
