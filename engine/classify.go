package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// ============================================================================
// FIELD CLASSIFIER
// ============================================================================
// Probes the first normalized record. A field is numeric when its value is a
// native number or a string that is entirely a decimal literal. Everything
// else (text, "", null, bool) is categorical.
// ============================================================================

// Role is a field's classified role.
type Role int

const (
	RoleCategorical Role = iota
	RoleNumeric
)

func (r Role) String() string {
	if r == RoleNumeric {
		return "numeric"
	}
	return "categorical"
}

// Classification partitions field names. Both lists keep record order and
// every field appears in exactly one of them.
type Classification struct {
	Categorical []string `json:"categorical"`
	Numeric     []string `json:"numeric"`
}

// Role returns the role of field. Unknown fields are categorical.
func (c Classification) Role(field string) Role {
	for _, f := range c.Numeric {
		if f == field {
			return RoleNumeric
		}
	}
	return RoleCategorical
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// IsNumericLike reports whether v classifies as numeric.
func IsNumericLike(v Value) bool {
	switch v.Kind {
	case ValueNumber:
		return true
	case ValueString:
		return decimalPattern.MatchString(strings.TrimSpace(v.Text))
	default:
		return false
	}
}

// Classify partitions the fields of first into categorical and numeric.
func Classify(first Record) Classification {
	c := Classification{Categorical: []string{}, Numeric: []string{}}
	for _, f := range first.Fields() {
		v, _ := first.Get(f)
		if IsNumericLike(v) {
			c.Numeric = append(c.Numeric, f)
		} else {
			c.Categorical = append(c.Categorical, f)
		}
	}
	return c
}

// classifySample votes over the first n records: a field is numeric when a
// strict majority of the records that carry it hold a numeric-like value.
func classifySample(records []Record, fields []string, n int) Classification {
	if n <= 1 || len(records) <= 1 {
		return Classify(records[0])
	}
	if n > len(records) {
		n = len(records)
	}
	c := Classification{Categorical: []string{}, Numeric: []string{}}
	for _, f := range fields {
		numeric, present := 0, 0
		for _, r := range records[:n] {
			v, ok := r.Get(f)
			if !ok {
				continue
			}
			present++
			if IsNumericLike(v) {
				numeric++
			}
		}
		if present > 0 && numeric*2 > present {
			c.Numeric = append(c.Numeric, f)
		} else {
			c.Categorical = append(c.Categorical, f)
		}
	}
	return c
}

// toCell converts a raw value under the field's role. A numeric-role field
// holding a non-numeric value keeps its text as a categorical cell; fields are
// never reclassified per record.
func toCell(v Value, role Role) Cell {
	if role == RoleNumeric && IsNumericLike(v) {
		if v.Kind == ValueNumber {
			return Cell{Kind: CellNumeric, Text: v.Text, Num: v.Num}
		}
		text := strings.TrimSpace(v.Text)
		f, err := strconv.ParseFloat(text, 64)
		if err == nil {
			return Cell{Kind: CellNumeric, Text: text, Num: f}
		}
	}
	return Cell{Kind: CellCategorical, Text: v.String()}
}
