package engine

// ============================================================================
// FILTERS: row selection over a RecordView
// ============================================================================
// Single pass, returns a SubView (index list into parent).
// ============================================================================

// PlottableRows returns the rows whose cells under every key are numeric.
// Renderers that cannot draw gaps (pie wedges, scatter points) use it to drop
// rows with missing or non-numeric values.
func PlottableRows(view RecordView, keys ...string) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, k := range keys {
			if _, ok := view.Cell(i, k).Float(); !ok {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}
	if len(indices) == n {
		return view
	}
	return newSubView(view, indices)
}

// missingKeys reports every record lacking one of keys.
func missingKeys(records []Record, keys ...string) []error {
	var errs []error
	for i, r := range records {
		for _, k := range keys {
			if k != "" && !r.Has(k) {
				errs = append(errs, &RecordKeyError{Index: i, Key: k})
			}
		}
	}
	return errs
}
