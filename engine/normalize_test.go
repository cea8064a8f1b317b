package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupedRecord(x string, entries ...any) Record {
	var groups []GroupEntry
	for i := 0; i+1 < len(entries); i += 2 {
		groups = append(groups, GroupEntry{Group: entries[i].(string), Value: toValue(entries[i+1])})
	}
	return NewRecord("x", x, GroupListField, groups)
}

func TestNormalize_RejectsEmpty(t *testing.T) {
	_, err := Normalize(&Descriptor{Kind: KindCategoryBar})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDescriptor))

	_, err = Normalize(nil)
	assert.ErrorIs(t, err, ErrMalformedDescriptor)
}

func TestNormalize_RejectsNonScalarFirstRecord(t *testing.T) {
	desc := &Descriptor{Kind: KindPie, Records: []Record{NewRecord("a", Composite(`{"b":1}`))}}
	_, err := Normalize(desc)

	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, `"a"`)
}

func TestNormalize_GroupedExplosion(t *testing.T) {
	desc := &Descriptor{
		Kind:       KindCategoryBar,
		GroupField: "segment",
		Records: []Record{
			groupedRecord("Q1", "A", 10, "B", 5),
			groupedRecord("Q2", "A", 7, "B", 3),
		},
	}

	got, err := Normalize(desc)
	require.NoError(t, err)

	assert.Equal(t, KindGroupedBar, got.Kind)
	assert.Equal(t, []string{"A", "B"}, got.SeriesKeys)
	require.Len(t, got.Records, 2)
	assert.Equal(t, []string{"x", "A", "B"}, got.Records[0].Fields())

	q1 := got.Records[0]
	x, _ := q1.Get("x")
	a, _ := q1.Get("A")
	b, _ := q1.Get("B")
	assert.Equal(t, "Q1", x.Text)
	assert.Equal(t, 10.0, a.Num)
	assert.Equal(t, 5.0, b.Num)

	q2 := got.Records[1]
	a, _ = q2.Get("A")
	b, _ = q2.Get("B")
	assert.Equal(t, 7.0, a.Num)
	assert.Equal(t, 3.0, b.Num)
	assert.Empty(t, got.Warnings)
}

func TestNormalize_GroupedSeriesFirstSeenOrder(t *testing.T) {
	desc := &Descriptor{
		Kind:          KindGroupedBar,
		GroupField:    "segment",
		CategoryField: "Quarter",
		Records: []Record{
			groupedRecord("Q1", "B", 1, "A", 2),
			groupedRecord("Q2", "A", 3, "C", 4, "B", 5),
		},
	}
	_, err := Normalize(desc)
	// Q1 has no value for C
	var gerr *GroupValueError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Q1", gerr.Category)
	assert.Equal(t, "C", gerr.Group)

	desc.Records[0] = groupedRecord("Q1", "B", 1, "A", 2, "C", 0)
	got, err := Normalize(desc)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, got.SeriesKeys)
	assert.Equal(t, []string{"Quarter", "B", "A", "C"}, got.Fields)
}

func TestNormalize_GroupedLaterRecordWithoutGroups(t *testing.T) {
	desc := &Descriptor{
		Kind:       KindCategoryBar,
		GroupField: "segment",
		Records: []Record{
			groupedRecord("Q1", "A", 1),
			NewRecord("x", "Q2"),
		},
	}
	_, err := Normalize(desc)
	assert.ErrorIs(t, err, ErrMissingGroupValue)
}

func TestNormalize_GroupedNullValueIsMissing(t *testing.T) {
	desc := &Descriptor{
		Kind:       KindCategoryBar,
		GroupField: "segment",
		Records: []Record{
			groupedRecord("Q1", "A", 1, "B", 2),
			groupedRecord("Q2", "A", 3, "B", nil),
		},
	}
	_, err := Normalize(desc)

	var gerr *GroupValueError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 1, gerr.Index)
	assert.Equal(t, "Q2", gerr.Category)
	assert.Equal(t, "B", gerr.Group)
}

func TestNormalize_GroupNamedLikeCategory(t *testing.T) {
	desc := &Descriptor{
		Kind:          KindCategoryBar,
		GroupField:    "segment",
		CategoryField: "Region",
		Records: []Record{
			NewRecord("Region", "East", GroupListField, []GroupEntry{
				{Group: "Region", Value: Number(3)},
				{Group: "B", Value: Number(4)},
			}),
		},
	}
	_, err := Normalize(desc)

	var malformed *MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, `"Region"`)

	desc.CategoryField = ""
	desc.Records = []Record{groupedRecord("Q1", "x", 1, "B", 2)}
	_, err = Normalize(desc)
	assert.ErrorIs(t, err, ErrMalformedDescriptor)
}

func TestNormalize_TupleRename(t *testing.T) {
	desc := &Descriptor{
		Kind:          KindLine,
		CategoryField: "Month",
		ValueField:    "Sales",
		Records: []Record{
			NewRecord("x", "Jan", "y", 5),
			NewRecord("x", "Feb", "y", 8),
		},
	}

	got, err := Normalize(desc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Month", "Sales"}, got.Fields)
	for _, r := range got.Records {
		assert.False(t, r.Has("x"))
		assert.False(t, r.Has("y"))
	}
	v, _ := got.Records[1].Get("Sales")
	assert.Equal(t, 8.0, v.Num)

	// input left untouched
	assert.True(t, desc.Records[0].Has("x"))
}

func TestNormalize_TuplePartialRename(t *testing.T) {
	desc := &Descriptor{
		Kind:       KindCategoryBar,
		ValueField: "Count",
		Records:    []Record{NewRecord("x", "a", "y", 1)},
	}
	got, err := Normalize(desc)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "Count"}, got.Fields)
}

func TestNormalize_TupleWithoutNamesPassesThrough(t *testing.T) {
	records := []Record{NewRecord("x", 1, "y", 2)}
	got, err := Normalize(&Descriptor{Kind: KindScatter, Records: records})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got.Fields)
}

func TestNormalize_InconsistentShapeIsWarning(t *testing.T) {
	desc := &Descriptor{
		Kind: KindCategoryBar,
		Records: []Record{
			NewRecord("Region", "North", "Total", 10),
			NewRecord("Region", "South", "Sum", 20),
		},
	}
	got, err := Normalize(desc)
	require.NoError(t, err)
	require.Len(t, got.Warnings, 1)
	assert.ErrorIs(t, got.Warnings[0], ErrInconsistentRecordShape)
	assert.Equal(t, []string{"Region", "Total"}, got.Fields)
}
