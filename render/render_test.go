package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/vizchat/engine"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func claimsResult(t *testing.T, kind engine.ChartKind) *engine.Result {
	t.Helper()
	desc := &engine.Descriptor{
		Kind:  kind,
		Tag:   kind.WireTag(),
		Title: "Claims",
		Records: []engine.Record{
			engine.NewRecord("Size", "Small", "Claim", 1200, "Income", 40000),
			engine.NewRecord("Size", "Mid", "Claim", 3400.5, "Income", 52000),
			engine.NewRecord("Size", "Large", "Claim", 800, "Income", 61000),
		},
	}
	result := engine.Execute(desc)
	require.Equal(t, "chart", result.Type, result.Notice)
	return result
}

func groupedResult(t *testing.T) *engine.Result {
	t.Helper()
	groups := func(a, b float64) []engine.GroupEntry {
		return []engine.GroupEntry{
			{Group: "A", Value: engine.Number(a)},
			{Group: "B", Value: engine.Number(b)},
		}
	}
	desc := &engine.Descriptor{
		Kind:       engine.KindCategoryBar,
		Tag:        "bar",
		GroupField: "segment",
		Records: []engine.Record{
			engine.NewRecord("x", "Q1", "groups", groups(10, 5)),
			engine.NewRecord("x", "Q2", "groups", groups(7, 3)),
		},
	}
	result := engine.Execute(desc)
	require.Equal(t, "chart", result.Type, result.Notice)
	return result
}

func TestRender_PNGForEveryKind(t *testing.T) {
	for _, kind := range []engine.ChartKind{engine.KindCategoryBar, engine.KindLine, engine.KindPie, engine.KindScatter} {
		t.Run(string(kind), func(t *testing.T) {
			out, err := Render(claimsResult(t, kind), FormatPNG, Options{Width: 400, Height: 300})
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, pngMagic))
		})
	}
	t.Run("grouped", func(t *testing.T) {
		out, err := Render(groupedResult(t), FormatPNG, DefaultOptions())
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, pngMagic))
	})
}

func TestRender_SVG(t *testing.T) {
	out, err := Render(claimsResult(t, engine.KindCategoryBar), FormatSVG, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<svg")
}

func TestRender_NoticeOnlyAsJSON(t *testing.T) {
	notice := engine.Execute(&engine.Descriptor{Kind: engine.KindUnknown, Tag: "radar", Records: []engine.Record{engine.NewRecord("a", 1)}})

	_, err := Render(notice, FormatPNG, Options{})
	assert.ErrorIs(t, err, ErrNoChart)

	out, err := Render(notice, FormatJSON, Options{})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "unknown chart type: radar", decoded["notice"])
}

func TestRender_CSV(t *testing.T) {
	out, err := Render(claimsResult(t, engine.KindCategoryBar), FormatCSV, Options{})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Size,Claim,Income", lines[0])
	assert.Equal(t, `Mid,"3,400.5","52,000"`, lines[2])
	assert.Equal(t, `Total,"5,400.5",`, lines[4])
}

func TestRender_Tables(t *testing.T) {
	result := claimsResult(t, engine.KindCategoryBar)

	ascii, err := Render(result, FormatTable, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(ascii), "Large")
	assert.Contains(t, string(ascii), "┌")

	md, err := Render(result, FormatMarkdown, Options{})
	require.NoError(t, err)
	assert.Contains(t, string(md), "| Size |")
}

func TestRender_XLSX(t *testing.T) {
	for name, result := range map[string]*engine.Result{
		"bar":     claimsResult(t, engine.KindCategoryBar),
		"pie":     claimsResult(t, engine.KindPie),
		"scatter": claimsResult(t, engine.KindScatter),
		"grouped": groupedResult(t),
	} {
		t.Run(name, func(t *testing.T) {
			out, err := Render(result, FormatXLSX, Options{})
			require.NoError(t, err)

			f, err := excelize.OpenReader(bytes.NewReader(out))
			require.NoError(t, err)
			defer f.Close()

			header, err := f.GetCellValue(dataSheet, "A1")
			require.NoError(t, err)
			assert.Equal(t, result.Spec.Fields[0], header)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" PNG ")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, "md", f.Extension())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestParseHex(t *testing.T) {
	c := parseHex("#8884d8")
	assert.Equal(t, uint8(0x88), c.R)
	assert.Equal(t, uint8(0xd8), c.B)
	assert.Equal(t, uint8(0xff), c.A)

	assert.Equal(t, uint8(0x99), parseHex("#8884d899").A)
	assert.Equal(t, fallbackColor, parseHex("nope"))
	assert.Equal(t, fallbackColor, parseHex("#12345"))
	assert.Equal(t, fallbackColor, parseHex(""))
	assert.Equal(t, uint8(0xaa), parseHex("#ABC").R)
	assert.Equal(t, "8884D8", excelColor("#8884d899"))
}
