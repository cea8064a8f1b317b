package engine

import (
	"slices"
)

// ============================================================================
// SHAPE NORMALIZER
// ============================================================================
// Rules, first match wins:
//   1. grouped records  → one flat record per category, one field per group
//   2. {x, y} tuples    → coordinates renamed to the caller's field names
//   3. anything else    → passed through
//
// The input descriptor is never modified; rules 1 and 2 build new records.
// ============================================================================

const (
	// GroupListField holds the nested [{group, y}] list of a grouped record.
	GroupListField = "groups"

	tupleCategoryField = "x"
	tupleValueField    = "y"
)

// Normalize converts the descriptor's records into a uniform flat shape.
func Normalize(desc *Descriptor) (*NormalizedData, error) {
	if desc == nil || len(desc.Records) == 0 {
		return nil, NewMalformedError("no records")
	}
	first := desc.Records[0]
	if first.Len() == 0 {
		return nil, NewMalformedError("first record has no fields")
	}

	out := &NormalizedData{Kind: desc.Kind}

	switch {
	case isGrouped(desc):
		records, series, err := explodeGroups(desc)
		if err != nil {
			return nil, err
		}
		out.Records = records
		out.SeriesKeys = series
		if out.Kind == KindCategoryBar {
			out.Kind = KindGroupedBar
		}

	default:
		for _, f := range first.Fields() {
			if v, _ := first.Get(f); !v.IsScalar() {
				return nil, NewMalformedError("field %q of the first record is not a scalar", f)
			}
		}
		if isTuple(first) {
			out.Records = renameTuples(desc)
		} else {
			out.Records = desc.Records
		}
	}

	out.Fields = out.Records[0].Fields()
	if len(out.Records) > 1 && !sameFieldSet(out.Records[0], out.Records[1]) {
		out.Warnings = append(out.Warnings, &ShapeError{
			Index: 1,
			Want:  out.Records[0].Fields(),
			Got:   out.Records[1].Fields(),
		})
	}
	return out, nil
}

// ============================================================================
// GROUPED RECORDS
// ============================================================================

func isGrouped(desc *Descriptor) bool {
	if desc.GroupField == "" {
		return false
	}
	v, ok := desc.Records[0].Get(GroupListField)
	return ok && v.Kind == ValueGroups
}

// categoryCoordinate is the source field holding a grouped record's category.
func categoryCoordinate(desc *Descriptor, r Record) string {
	if desc.CategoryField != "" && r.Has(desc.CategoryField) {
		return desc.CategoryField
	}
	return tupleCategoryField
}

func explodeGroups(desc *Descriptor) ([]Record, []string, error) {
	// Series keys: union of group names in first-seen order.
	var series []string
	seen := make(map[string]bool)
	for _, r := range desc.Records {
		v, _ := r.Get(GroupListField)
		for _, g := range v.Groups {
			if !seen[g.Group] {
				seen[g.Group] = true
				series = append(series, g.Group)
			}
		}
	}

	outField := desc.CategoryField
	if outField == "" {
		outField = tupleCategoryField
	}
	if seen[outField] {
		return nil, nil, NewMalformedError("group %q collides with the category field", outField)
	}

	records := make([]Record, 0, len(desc.Records))
	for i, r := range desc.Records {
		category, _ := r.Get(categoryCoordinate(desc, r))
		v, _ := r.Get(GroupListField)

		values := make(map[string]Value, len(v.Groups))
		for _, g := range v.Groups {
			if _, dup := values[g.Group]; !dup {
				values[g.Group] = g.Value
			}
		}

		var flat Record
		flat.Set(outField, category)
		for _, s := range series {
			gv, ok := values[s]
			if !ok || gv.Kind == ValueNull {
				return nil, nil, &GroupValueError{Index: i, Category: category.String(), Group: s}
			}
			flat.Set(s, gv)
		}
		records = append(records, flat)
	}
	return records, series, nil
}

// ============================================================================
// TUPLES
// ============================================================================

func isTuple(r Record) bool {
	return r.Len() == 2 && r.Has(tupleCategoryField) && r.Has(tupleValueField)
}

func renameTuples(desc *Descriptor) []Record {
	catName, valName := tupleCategoryField, tupleValueField
	if desc.CategoryField != "" {
		catName = desc.CategoryField
	}
	if desc.ValueField != "" && desc.ValueField != catName {
		valName = desc.ValueField
	}
	if catName == tupleCategoryField && valName == tupleValueField {
		return desc.Records
	}

	out := make([]Record, 0, len(desc.Records))
	for _, r := range desc.Records {
		var renamed Record
		for _, f := range r.Fields() {
			v, _ := r.Get(f)
			switch f {
			case tupleCategoryField:
				renamed.Set(catName, v)
			case tupleValueField:
				renamed.Set(valName, v)
			default:
				renamed.Set(f, v)
			}
		}
		out = append(out, renamed)
	}
	return out
}

func sameFieldSet(a, b Record) bool {
	if a.Len() != b.Len() {
		return false
	}
	return !slices.ContainsFunc(a.Fields(), func(f string) bool { return !b.Has(f) })
}
