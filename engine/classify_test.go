package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestIsNumericLike(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"native int", Number(1200), true},
		{"native float", Number(-3.5), true},
		{"decimal string", String("1200.50"), true},
		{"signed string", String("-42"), true},
		{"exponent", String("1e3"), true},
		{"leading dot", String(".5"), true},
		{"padded", String(" 12 "), true},
		{"trailing junk", String("12abc"), false},
		{"grouped thousands", String("1,200"), false},
		{"currency", String("$5"), false},
		{"empty", String(""), false},
		{"nan", String("NaN"), false},
		{"inf", String("Inf"), false},
		{"text", String("Mid"), false},
		{"null", Null(), false},
		{"bool", Bool(true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNumericLike(tt.v))
		})
	}
}

func TestClassify_PartitionKeepsOrder(t *testing.T) {
	r := NewRecord("Size", "Mid", "Claim", 1200, "Region", "North", "Rate", "0.5", "Note", nil)

	got := Classify(r)

	want := Classification{
		Categorical: []string{"Size", "Region", "Note"},
		Numeric:     []string{"Claim", "Rate"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_EveryFieldExactlyOnce(t *testing.T) {
	r := NewRecord("a", "x", "b", 2, "c", "", "d", "3", "e", false)
	c := Classify(r)

	seen := map[string]int{}
	for _, f := range c.Categorical {
		seen[f]++
	}
	for _, f := range c.Numeric {
		seen[f]++
	}
	assert.Len(t, seen, r.Len())
	for f, n := range seen {
		assert.Equal(t, 1, n, "field %s", f)
	}
}

func TestClassify_EmptyRecord(t *testing.T) {
	c := Classify(Record{})
	assert.Empty(t, c.Categorical)
	assert.Empty(t, c.Numeric)
}

func TestClassifySample_MajorityVote(t *testing.T) {
	records := []Record{
		NewRecord("k", "n/a", "v", "x"),
		NewRecord("k", "10", "v", "y"),
		NewRecord("k", "20", "v", "5"),
	}
	fields := []string{"k", "v"}

	single := classifySample(records, fields, 1)
	assert.Equal(t, []string{"k", "v"}, single.Categorical)

	voted := classifySample(records, fields, 3)
	assert.Equal(t, []string{"k"}, voted.Numeric)
	assert.Equal(t, []string{"v"}, voted.Categorical)
}

func TestToCell(t *testing.T) {
	assert.Equal(t, Cell{Kind: CellNumeric, Text: "1200", Num: 1200}, toCell(Number(1200), RoleNumeric))
	assert.Equal(t, Cell{Kind: CellNumeric, Text: "7.5", Num: 7.5}, toCell(String(" 7.5"), RoleNumeric))
	assert.Equal(t, Cell{Kind: CellCategorical, Text: "oops"}, toCell(String("oops"), RoleNumeric))
	assert.Equal(t, Cell{Kind: CellCategorical, Text: "42"}, toCell(String("42"), RoleCategorical))
	assert.Equal(t, Cell{Kind: CellCategorical, Text: ""}, toCell(Null(), RoleCategorical))
}
