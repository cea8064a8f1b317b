// Package render turns engine results into files: PNG and SVG images,
// spreadsheets with a native chart, CSV, JSON, and text tables.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spektr-org/vizchat/engine"
)

// Format is an output format.
type Format string

const (
	FormatPNG      Format = "png"
	FormatSVG      Format = "svg"
	FormatXLSX     Format = "xlsx"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
)

// ErrNoChart is returned when a result has nothing to draw.
var ErrNoChart = errors.New("result has no chart")

// Options controls image size.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions is 900x500.
func DefaultOptions() Options {
	return Options{Width: 900, Height: 500}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatPNG, FormatSVG, FormatXLSX, FormatCSV, FormatJSON, FormatTable, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (use png, svg, xlsx, csv, json, table, markdown)", s)
}

// Extension is the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatTable:
		return "txt"
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// ContentType is the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render writes result in format f. JSON accepts any result, including notices;
// every other format needs a chart.
func Render(result *engine.Result, f Format, opts Options) ([]byte, error) {
	if f == FormatJSON {
		return json.MarshalIndent(result, "", "  ")
	}
	if result == nil || result.Type != "chart" || result.ChartConfig == nil {
		return nil, ErrNoChart
	}

	switch f {
	case FormatPNG, FormatSVG:
		return Image(result.ChartConfig, f, opts)
	case FormatXLSX:
		return Spreadsheet(result.Spec, result.ChartConfig)
	case FormatCSV:
		return CSV(engine.BuildTable(result.Spec))
	case FormatTable:
		return []byte(Table(engine.BuildTable(result.Spec), false)), nil
	case FormatMarkdown:
		return []byte(Table(engine.BuildTable(result.Spec), true)), nil
	}
	return nil, fmt.Errorf("unsupported format %q", f)
}
