package engine

// ============================================================================
// RECORD VIEW: indexed access to resolved rows
// ============================================================================
// Renderers read rows through this interface instead of touching Row slices.
//
// Implementations:
//   SpecView  wraps a ResolvedChartSpec
//   SubView   filtered subset (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed access to classified rows.
type RecordView interface {
	Len() int
	Fields() []string
	Cell(index int, field string) Cell
}

// ============================================================================
// SPEC VIEW
// ============================================================================

// SpecView exposes a ResolvedChartSpec as a RecordView.
type SpecView struct {
	spec    *ResolvedChartSpec
	columns map[string]int
}

// NewSpecView creates a RecordView over spec's rows.
func NewSpecView(spec *ResolvedChartSpec) RecordView {
	v := &SpecView{spec: spec, columns: make(map[string]int, len(spec.Fields))}
	for i, f := range spec.Fields {
		v.columns[f] = i
	}
	return v
}

func (v *SpecView) Len() int         { return len(v.spec.Rows) }
func (v *SpecView) Fields() []string { return v.spec.Fields }

func (v *SpecView) Cell(i int, field string) Cell {
	if i < 0 || i >= len(v.spec.Rows) {
		return Cell{}
	}
	col, ok := v.columns[field]
	if !ok {
		return Cell{}
	}
	return cellAt(v.spec.Rows[i], col)
}

// ============================================================================
// SUB VIEW: filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent, no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int         { return len(v.indices) }
func (v *SubView) Fields() []string { return v.parent.Fields() }

func (v *SubView) Cell(i int, field string) Cell {
	if i < 0 || i >= len(v.indices) {
		return Cell{}
	}
	return v.parent.Cell(v.indices[i], field)
}
