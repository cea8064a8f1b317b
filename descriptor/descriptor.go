// Package descriptor decodes the visualization descriptors and chat messages
// sent by the chat backend into engine types.
package descriptor

import (
	"bytes"
	"encoding/json"

	"github.com/spektr-org/vizchat/engine"
)

// Wire is the visualization object as the backend sends it. Both the
// snake_case and the legacy camelCase axis keys are accepted.
type Wire struct {
	Type        string          `json:"type"`
	Title       string          `json:"title,omitempty"`
	Data        json.RawMessage `json:"data"`
	XAxis       string          `json:"x_axis,omitempty"`
	YAxis       string          `json:"y_axis,omitempty"`
	XAxisLegacy string          `json:"xAxis,omitempty"`
	YAxisLegacy string          `json:"yAxis,omitempty"`
	XLabel      string          `json:"x_label,omitempty"`
	YLabel      string          `json:"y_label,omitempty"`
	GroupBy     string          `json:"group_by,omitempty"`
}

// IsEmpty reports whether raw carries no visualization: empty, null or {}.
func IsEmpty(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return true
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err == nil && len(probe) == 0 {
		return true
	}
	return false
}

// Parse decodes a visualization object. It returns (nil, nil) when raw is
// empty, meaning the message has no chart.
func Parse(raw []byte) (*engine.Descriptor, error) {
	if IsEmpty(raw) {
		return nil, nil
	}
	var w Wire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, engine.NewMalformedError("visualization is not an object: %v", err)
	}
	return w.Descriptor()
}

// Descriptor converts the wire form into an engine descriptor.
func (w Wire) Descriptor() (*engine.Descriptor, error) {
	records, err := decodeRecords(w.Data)
	if err != nil {
		return nil, err
	}
	return &engine.Descriptor{
		Kind:          engine.ParseKind(w.Type),
		Tag:           w.Type,
		Title:         w.Title,
		Records:       records,
		CategoryField: firstNonEmpty(w.XAxis, w.XAxisLegacy),
		ValueField:    firstNonEmpty(w.YAxis, w.YAxisLegacy),
		CategoryLabel: w.XLabel,
		ValueLabel:    w.YLabel,
		GroupField:    w.GroupBy,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
