package descriptor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/vizchat/engine"
)

func TestParse_EmptyMeansNoChart(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "{}", " { } "} {
		desc, err := Parse([]byte(raw))
		assert.NoError(t, err, "raw=%q", raw)
		assert.Nil(t, desc, "raw=%q", raw)
	}
}

func TestParse_KeepsFieldOrder(t *testing.T) {
	raw := `{"type":"bar","data":[{"Total":10,"Region":"North","Zeta":"z","Alpha":"a"}]}`
	desc, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Len(t, desc.Records, 1)
	assert.Equal(t, []string{"Total", "Region", "Zeta", "Alpha"}, desc.Records[0].Fields())
}

func TestParse_AxisKeysAndLegacy(t *testing.T) {
	raw := `{"type":"line","xAxis":"Month","y_axis":"Sales","yAxis":"Ignored","x_label":"Month of year","y_label":"Sales ($)","data":[{"Month":"Jan","Sales":1}]}`
	desc, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, engine.KindLine, desc.Kind)
	assert.Equal(t, "Month", desc.CategoryField)
	assert.Equal(t, "Sales", desc.ValueField)
	assert.Equal(t, "Month of year", desc.CategoryLabel)
	assert.Equal(t, "Sales ($)", desc.ValueLabel)
}

func TestParse_ScalarKinds(t *testing.T) {
	raw := `{"type":"pie","data":[{"s":"x","n":1200.50,"b":true,"z":null,"o":{"k":1}}]}`
	desc, err := Parse([]byte(raw))
	require.NoError(t, err)

	r := desc.Records[0]
	n, _ := r.Get("n")
	assert.Equal(t, engine.ValueNumber, n.Kind)
	assert.Equal(t, 1200.5, n.Num)
	assert.Equal(t, "1200.50", n.Text)

	b, _ := r.Get("b")
	assert.Equal(t, engine.ValueBool, b.Kind)
	z, _ := r.Get("z")
	assert.Equal(t, engine.ValueNull, z.Kind)
	o, _ := r.Get("o")
	assert.Equal(t, engine.ValueComposite, o.Kind)
}

func TestParse_GroupedRecords(t *testing.T) {
	raw := `{"type":"bar","group_by":"segment","x_axis":"Quarter","data":[
		{"x":"Q1","groups":[{"group":"A","y":10},{"group":"B","value":5}]},
		{"x":"Q2","groups":[{"group":"A","y":7},{"group":"B","y":3}]}]}`
	desc, err := Parse([]byte(raw))
	require.NoError(t, err)

	groups, ok := desc.Records[0].Get("groups")
	require.True(t, ok)
	require.Equal(t, engine.ValueGroups, groups.Kind)
	require.Len(t, groups.Groups, 2)
	assert.Equal(t, "B", groups.Groups[1].Group)
	assert.Equal(t, 5.0, groups.Groups[1].Value.Num)

	result := engine.Execute(desc)
	require.Equal(t, "chart", result.Type)
	assert.Equal(t, "grouped_bar", result.ChartConfig.ChartType)
	assert.Equal(t, "Quarter", result.ChartConfig.XKey)
	assert.Equal(t, []string{"A", "B"}, result.Spec.Keys.Series)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing data", `{"type":"bar"}`},
		{"data not a list", `{"type":"bar","data":{"a":1}}`},
		{"empty list", `{"type":"bar","data":[]}`},
		{"first record scalar", `{"type":"bar","data":[1,2]}`},
		{"not an object", `[1,2,3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.ErrorIs(t, err, engine.ErrMalformedDescriptor)
		})
	}
}

func TestParse_LaterNonObjectBecomesEmptyRecord(t *testing.T) {
	desc, err := Parse([]byte(`{"type":"bar","data":[{"a":"x","b":1},"oops"]}`))
	require.NoError(t, err)
	require.Len(t, desc.Records, 2)
	assert.Equal(t, 0, desc.Records[1].Len())
}

func TestMessage_Resolve(t *testing.T) {
	m := Message{
		Text:          "Here you go",
		Sender:        ParseSender("bot"),
		Visualization: json.RawMessage(`{"type":"radar","data":[{"a":"x","b":1}]}`),
	}
	require.True(t, m.HasVisualization())

	result := m.Resolve()
	assert.Equal(t, "notice", result.Type)
	assert.Equal(t, "unknown chart type: radar", result.Notice)

	user := Message{Text: "hi", Sender: SenderUser, Visualization: json.RawMessage(`{"type":"bar","data":[{"a":1}]}`)}
	assert.False(t, user.HasVisualization())
	assert.Equal(t, "none", user.Resolve().Type)
}

func TestParseSender(t *testing.T) {
	assert.Equal(t, SenderAssistant, ParseSender("assistant"))
	assert.Equal(t, SenderAssistant, ParseSender("Bot"))
	assert.Equal(t, SenderUser, ParseSender("user"))
	assert.Equal(t, SenderUser, ParseSender(""))
}

func TestParseTimestamp(t *testing.T) {
	ts := ParseTimestamp("2025-03-01T10:20:30.123456")
	assert.Equal(t, time.Date(2025, 3, 1, 10, 20, 30, 123456000, time.UTC), ts)
	assert.True(t, ParseTimestamp("yesterday").IsZero())
}

func TestParse_GroupWithoutValueIsMissing(t *testing.T) {
	for _, entry := range []string{`{"group":"B"}`, `{"group":"B","y":null}`} {
		raw := `{"type":"bar","group_by":"segment","data":[
			{"x":"Q1","groups":[{"group":"A","y":1},{"group":"B","y":2}]},
			{"x":"Q2","groups":[{"group":"A","y":3},` + entry + `]}]}`
		desc, err := Parse([]byte(raw))
		require.NoError(t, err, entry)

		result := engine.Execute(desc)
		assert.Equal(t, "notice", result.Type, entry)
		assert.ErrorIs(t, result.Err, engine.ErrMissingGroupValue, entry)
		assert.Nil(t, result.ChartConfig, entry)
	}
}

func TestParse_GroupNullYFallsBackToValue(t *testing.T) {
	raw := `{"type":"bar","group_by":"segment","data":[
		{"x":"Q1","groups":[{"group":"A","y":null,"value":4}]}]}`
	desc, err := Parse([]byte(raw))
	require.NoError(t, err)

	groups, _ := desc.Records[0].Get("groups")
	require.Len(t, groups.Groups, 1)
	assert.Equal(t, 4.0, groups.Groups[0].Value.Num)
}
