package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/vizchat/engine"
)

// ============================================================================
// CSV HELPER: parses CSV data into []engine.Record
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, stdin).
// Values stay strings; the engine classifies numeric-looking text itself.
// Short rows simply lack the trailing fields.
// ============================================================================

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("csv has no header row")

// ParseCSV parses CSV bytes into Records, one per data row, keeping the
// header's column order. Blank cells become nulls.
func ParseCSV(data []byte) ([]engine.Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var records []engine.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		rec := engine.NewRecord()
		for i, val := range row {
			if i >= len(headers) {
				break
			}
			val = strings.TrimSpace(val)
			if val == "" {
				rec.Set(headers[i], engine.Null())
				continue
			}
			rec.Set(headers[i], engine.String(val))
		}
		records = append(records, rec)
	}
	return records, nil
}

// DescriptorFromCSV wraps parsed CSV rows in a Descriptor. chartType is a wire
// tag ("bar", "pie", ...); x and y are optional axis hints.
func DescriptorFromCSV(data []byte, chartType, title, x, y string) (*engine.Descriptor, error) {
	records, err := ParseCSV(data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, engine.NewMalformedError("csv has a header but no rows")
	}
	tag := strings.TrimSpace(chartType)
	if tag == "" {
		tag = "bar"
	}
	return &engine.Descriptor{
		Kind:          engine.ParseKind(tag),
		Tag:           tag,
		Title:         title,
		Records:       records,
		CategoryField: x,
		ValueField:    y,
	}, nil
}
