package engine

// ============================================================================
// VIZCHAT ENGINE TYPES
// ============================================================================
// Descriptor (backend input) → NormalizedData → ResolvedChartSpec → ChartConfig
//
// Dependency: engine performs no I/O. Everything here is built once per
// assistant reply and discarded after rendering.
// ============================================================================

// ============================================================================
// CHART KIND
// ============================================================================

// ChartKind is the resolved chart family.
type ChartKind string

const (
	KindCategoryBar ChartKind = "category-bar"
	KindPie         ChartKind = "pie"
	KindLine        ChartKind = "line"
	KindScatter     ChartKind = "scatter"
	KindGroupedBar  ChartKind = "grouped-bar"
	KindUnknown     ChartKind = "unknown"
)

// ParseKind maps a wire tag onto a ChartKind. Unrecognized tags yield KindUnknown;
// callers keep the raw tag for the user-facing notice.
func ParseKind(tag string) ChartKind {
	switch tag {
	case "bar", "category-bar", "category_bar":
		return KindCategoryBar
	case "pie":
		return KindPie
	case "line":
		return KindLine
	case "scatter":
		return KindScatter
	case "grouped_bar", "grouped-bar", "groupedBar":
		return KindGroupedBar
	default:
		return KindUnknown
	}
}

// WireTag is the tag renderers and exports use for the kind.
func (k ChartKind) WireTag() string {
	switch k {
	case KindCategoryBar:
		return "bar"
	case KindGroupedBar:
		return "grouped_bar"
	default:
		return string(k)
	}
}

// ============================================================================
// VALUE: Raw scalar as delivered on the wire
// ============================================================================

// ValueKind tags the JSON type a raw value arrived as.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueGroups    // nested group list, only meaningful under GroupField
	ValueComposite // any other object or array
)

// Value is one raw cell of a source record.
// Text holds the literal for strings and numbers so display stays faithful
// to what the backend sent ("1200.50" stays "1200.50").
type Value struct {
	Kind   ValueKind
	Text   string
	Num    float64
	Bool   bool
	Groups []GroupEntry
}

// GroupEntry is one {group, y} element of a grouped record.
type GroupEntry struct {
	Group string
	Value Value
}

func Null() Value { return Value{Kind: ValueNull} }
func String(s string) Value { return Value{Kind: ValueString, Text: s} }
func Bool(b bool) Value { return Value{Kind: ValueBool, Bool: b} }
func Groups(g []GroupEntry) Value { return Value{Kind: ValueGroups, Groups: g} }
func Composite(raw string) Value { return Value{Kind: ValueComposite, Text: raw} }
func Number(f float64) Value { return Value{Kind: ValueNumber, Num: f, Text: formatRaw(f)} }
func NumberText(f float64, lit string) Value {
	return Value{Kind: ValueNumber, Num: f, Text: lit}
}

// IsScalar reports whether v is a string, number, bool or null.
func (v Value) IsScalar() bool {
	return v.Kind != ValueGroups && v.Kind != ValueComposite
}

// String renders v for labels and table cells.
func (v Value) String() string {
	switch v.Kind {
	case ValueNull:
		return ""
	case ValueBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValueGroups:
		return "[groups]"
	default:
		return v.Text
	}
}

// ============================================================================
// RECORD: Ordered field → value mapping
// ============================================================================

// Record is a single source row. Field order is significant: resolution falls
// back to "first field in record order", so records keep insertion order.
// The zero Record is an empty record.
type Record struct {
	fields []string
	values map[string]Value
}

// NewRecord builds a record from alternating field/value pairs in order.
func NewRecord(pairs ...any) Record {
	var r Record
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		r.Set(name, toValue(pairs[i+1]))
	}
	return r
}

// Set stores v under field. A new field is appended to the order; an existing
// field keeps its position.
func (r *Record) Set(field string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[field]; !ok {
		r.fields = append(r.fields, field)
	}
	r.values[field] = v
}

// Get returns the value under field.
func (r Record) Get(field string) (Value, bool) {
	v, ok := r.values[field]
	return v, ok
}

// Fields returns field names in record order. Callers must not modify it.
func (r Record) Fields() []string { return r.fields }

// Len is the number of fields.
func (r Record) Len() int { return len(r.fields) }

// Has reports whether the record carries field.
func (r Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

func toValue(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case float64:
		return Number(t)
	case []GroupEntry:
		return Groups(t)
	default:
		return Composite("")
	}
}

// ============================================================================
// DESCRIPTOR: Backend input
// ============================================================================

// Descriptor is the visualization description attached to an assistant reply.
// Resolution never mutates it.
type Descriptor struct {
	Kind          ChartKind
	Tag           string // raw wire tag, kept for the unsupported-kind notice
	Title         string
	Records       []Record
	CategoryField string
	ValueField    string
	CategoryLabel string
	ValueLabel    string
	GroupField    string
}

// ============================================================================
// CELL: Classified value carried through the pipeline
// ============================================================================

// CellKind tags a classified cell. The zero value marks a missing cell.
type CellKind int

const (
	CellMissing CellKind = iota
	CellCategorical
	CellNumeric
)

// Cell is a value after classification. It is produced once, so later stages
// never re-parse source text.
type Cell struct {
	Kind CellKind `json:"kind"`
	Text string   `json:"text"`
	Num  float64  `json:"num,omitempty"`
}

// Float returns the numeric payload and whether the cell is numeric.
func (c Cell) Float() (float64, bool) {
	return c.Num, c.Kind == CellNumeric
}

// Row is one normalized record, aligned with ResolvedChartSpec.Fields.
type Row []Cell

// ============================================================================
// RESOLVED SPEC
// ============================================================================

// NormalizedData is the Shape Normalizer output.
type NormalizedData struct {
	Kind       ChartKind // may differ from the descriptor when bar data is grouped
	Records    []Record
	Fields     []string // field set of the first record, in order
	SeriesKeys []string // group names introduced by explosion, first-seen order
	Warnings   []error
}

// Keys are the resolved field roles.
type Keys struct {
	Category       string   `json:"category"`
	Value          string   `json:"value"`
	SecondaryValue string   `json:"secondaryValue,omitempty"` // scatter y axis
	Series         []string `json:"series,omitempty"`         // grouped-bar
}

// ResolvedChartSpec is everything a renderer needs.
type ResolvedChartSpec struct {
	Kind           ChartKind      `json:"kind"`
	Title          string         `json:"title,omitempty"`
	Keys           Keys           `json:"keys"`
	Fields         []string       `json:"fields"`
	Rows           []Row          `json:"rows"`
	Classification Classification `json:"classification"`
	Palette        []string       `json:"palette"`
	CategoryLabel  string         `json:"categoryLabel"`
	ValueLabel     string         `json:"valueLabel"`
	Warnings       []error        `json:"-"`
}

// Column returns the index of field in Fields, or -1.
func (s *ResolvedChartSpec) Column(field string) int {
	for i, f := range s.Fields {
		if f == field {
			return i
		}
	}
	return -1
}

// ============================================================================
// RESULT
// ============================================================================

// Result is the engine's render-ready output for one message.
type Result struct {
	Success bool   `json:"success"`
	Type    string `json:"type"` // "chart", "notice", "none"
	Title   string `json:"title,omitempty"`
	Notice  string `json:"notice,omitempty"`

	ChartConfig *ChartConfig       `json:"chartConfig,omitempty"`
	Spec        *ResolvedChartSpec `json:"spec,omitempty"`

	Err      error    `json:"-"`
	Warnings []string `json:"warnings,omitempty"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	XKey       string        `json:"xKey"`
	YKey       string        `json:"yKey"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	PointColor string        `json:"pointColor,omitempty"` // scatter
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
	LabelAngle int           `json:"labelAngle,omitempty"`
	TickFormat string        `json:"tickFormat,omitempty"` // "thousands"
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Key   string       `json:"key"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point. X is only set for scatter.
type ChartPoint struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	X       float64 `json:"x,omitempty"`
	Display string  `json:"display,omitempty"`
	Color   string  `json:"color,omitempty"` // pie wedge
	Missing bool    `json:"missing,omitempty"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}
