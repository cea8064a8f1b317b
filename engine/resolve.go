package engine

import "slices"

// ============================================================================
// KEY RESOLVER
// ============================================================================
// Category: hint → fallback names → first categorical → first field
// Value:    hint → fallback names → first numeric → next field → category
// Every value step skips the chosen category key, so the two only coincide
// when the record has a single field. Scatter replaces Value with its x axis,
// which on an all-numeric record is the same first field Category lands on.
// ============================================================================

// ResolveKeys picks the category, value, scatter and series keys for data.
func ResolveKeys(class Classification, data *NormalizedData, desc *Descriptor, opts ...Option) (Keys, error) {
	return resolveKeys(class, data, desc, applyOptions(opts))
}

func resolveKeys(class Classification, data *NormalizedData, desc *Descriptor, cfg *config) (Keys, error) {
	fields := data.Fields
	if len(fields) == 0 {
		return Keys{}, ErrUnresolvableKeys
	}
	has := func(f string) bool { return f != "" && slices.Contains(fields, f) }

	var keys Keys
	keys.Category = firstOf(
		hint(desc.CategoryField, has),
		firstPresent(cfg.CategoryFallbacks, has, ""),
		first(class.Categorical, ""),
		fields[0],
	)
	keys.Value = firstOf(
		excluding(hint(desc.ValueField, has), keys.Category),
		firstPresent(cfg.ValueFallbacks, has, keys.Category),
		first(class.Numeric, keys.Category),
		first(fields, keys.Category),
		keys.Category,
	)

	switch data.Kind {
	case KindScatter:
		keys.Value, keys.SecondaryValue = scatterAxes(class, fields, desc, has)

	case KindGroupedBar:
		if len(data.SeriesKeys) > 0 {
			keys.Series = append([]string(nil), data.SeriesKeys...)
		} else {
			// wide format: every numeric column besides the category is a series
			for _, f := range class.Numeric {
				if f != keys.Category {
					keys.Series = append(keys.Series, f)
				}
			}
			if len(keys.Series) == 0 {
				keys.Series = []string{keys.Value}
			}
		}
		keys.Value = keys.Series[0]
	}
	return keys, nil
}

// scatterAxes draws both axes from the numeric fields. With one numeric field
// both axes resolve to it.
func scatterAxes(class Classification, fields []string, desc *Descriptor, has func(string) bool) (x, y string) {
	x = firstOf(
		hint(desc.CategoryField, has),
		first(class.Numeric, ""),
		fields[0],
	)
	y = firstOf(
		hint(desc.ValueField, has),
		first(class.Numeric, x),
		first(class.Numeric, ""),
		first(fields, x),
		x,
	)
	return x, y
}

// ============================================================================
// HELPERS
// ============================================================================

func firstOf(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

func hint(name string, has func(string) bool) string {
	if has(name) {
		return name
	}
	return ""
}

func excluding(name, skip string) string {
	if name == skip {
		return ""
	}
	return name
}

// first returns the first entry of list that is not skip.
func first(list []string, skip string) string {
	for _, f := range list {
		if f != skip {
			return f
		}
	}
	return ""
}

func firstPresent(names []string, has func(string) bool, skip string) string {
	for _, n := range names {
		if n != skip && has(n) {
			return n
		}
	}
	return ""
}
