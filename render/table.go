package render

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/spektr-org/vizchat/engine"
)

// Table renders data as a terminal table (StyleLight) or as Markdown.
func Table(data *engine.TableData, markdown bool) string {
	w := table.NewWriter()
	if !markdown {
		w.SetStyle(table.StyleLight)
	}
	if data.Title != "" && !markdown {
		w.SetTitle(data.Title)
	}

	header := make(table.Row, len(data.Columns))
	configs := make([]table.ColumnConfig, len(data.Columns))
	for i, col := range data.Columns {
		header[i] = col.Label
		configs[i] = table.ColumnConfig{Number: i + 1, Align: toTextAlign(col.Align), WidthMax: 40}
	}
	w.AppendHeader(header)
	w.SetColumnConfigs(configs)

	for _, r := range data.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		w.AppendRow(row)
	}

	if data.Summary != nil {
		footer := make(table.Row, len(data.Columns))
		for i, col := range data.Columns {
			if i == 0 {
				footer[i] = data.Summary.Label
				continue
			}
			footer[i] = data.Summary.Values[col.Key]
		}
		w.AppendFooter(footer)
	}

	if markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}

func toTextAlign(a string) text.Align {
	switch a {
	case "left":
		return text.AlignLeft
	case "right":
		return text.AlignRight
	case "center":
		return text.AlignCenter
	default:
		return text.AlignDefault
	}
}

// CSV writes data with a header row and, when present, a total row.
func CSV(data *engine.TableData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(data.Columns))
	for i, col := range data.Columns {
		header[i] = col.Label
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range data.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	if data.Summary != nil && len(data.Columns) > 0 {
		total := make([]string, len(data.Columns))
		total[0] = data.Summary.Label
		for i, col := range data.Columns[1:] {
			total[i+1] = data.Summary.Values[col.Key]
		}
		if err := w.Write(total); err != nil {
			return nil, fmt.Errorf("write csv total: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
