package engine

// ============================================================================
// TABLE BUILDER: produces TableData from a ResolvedChartSpec
// ============================================================================
// Columns follow the record's field order. Numeric fields are right-aligned
// and thousands-grouped, with a total row when the chart has a value axis.
// ============================================================================

// BuildTable produces the data table behind a resolved chart.
func BuildTable(spec *ResolvedChartSpec) *TableData {
	if spec == nil {
		return &TableData{Columns: []Column{}, Rows: [][]string{}}
	}
	view := NewSpecView(spec)

	columns := make([]Column, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		col := Column{Key: f, Label: f, Type: "text", Align: "left"}
		if spec.Classification.Role(f) == RoleNumeric {
			col.Type = "number"
			col.Align = "right"
		}
		columns = append(columns, col)
	}

	rows := make([][]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = cellText(view.Cell(i, col.Key))
		}
		rows = append(rows, row)
	}

	table := &TableData{
		Title:   spec.Title,
		Columns: columns,
		Rows:    rows,
	}

	if spec.Kind == KindScatter || view.Len() < 2 {
		return table
	}
	summary := &Summary{Label: "Total", Values: map[string]string{}}
	for _, key := range totalKeys(spec) {
		if spec.Classification.Role(key) != RoleNumeric {
			continue
		}
		summary.Values[key] = FormatNumber(SumColumn(view, key))
	}
	if len(summary.Values) > 0 {
		table.Summary = summary
	}
	return table
}

func totalKeys(spec *ResolvedChartSpec) []string {
	if len(spec.Keys.Series) > 0 {
		return spec.Keys.Series
	}
	return []string{spec.Keys.Value}
}

// SumColumn adds up the numeric cells under field.
func SumColumn(view RecordView, field string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Cell(i, field).Float(); ok {
			total += v
		}
	}
	return total
}

func cellText(c Cell) string {
	switch c.Kind {
	case CellNumeric:
		return FormatNumber(c.Num)
	case CellCategorical:
		return c.Text
	default:
		return ""
	}
}
