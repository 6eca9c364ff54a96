package types

// Distinct carries the DISTINCT clause. An empty On renders plain DISTINCT;
// a non-empty On renders DISTINCT ON (...).
type Distinct struct {
	On []any
}

// CTE is one entry of a WITH clause.
type CTE struct {
	Name    string
	Columns []string
	Query   *Options
}

// NamedWindow is one entry of a WINDOW clause.
type NamedWindow struct {
	Name   string
	Window Window
}

// Compound is one UNION / INTERSECT / EXCEPT member.
type Compound struct {
	Type  CompoundType
	Query *Options
	All   bool
}

// Lock is a row-locking request. Raw, when set, is emitted verbatim.
type Lock struct {
	Mode LockMode
	Raw  string
}

// Options is the immutable description of one query. A nil field means the
// clause is omitted. Options are never modified after construction; builders
// call Clone and replace whole fields.
//
//nolint:govet // fieldalignment: clause order is preferred over memory layout
type Options struct {
	// SQL overrides clause assembly entirely. It holds a string,
	// LiteralString or PlaceholderLiteral.
	SQL any

	With      []CTE
	Distinct  *Distinct
	Select    []any
	From      []any
	Join      []Expr
	Where     any
	Group     []any
	Having    any
	Window    []NamedWindow
	Compounds []Compound
	Order     []any
	Limit     any
	Offset    any
	Lock      *Lock

	// INSERT / UPDATE payloads.
	Columns   []any
	Values    any
	Defaults  Hash
	Overrides Hash
}

// Clone returns a shallow copy. Slices are shared; callers replace rather
// than append in place.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	c := *o
	return &c
}

// Joined reports whether the query reads from more than one source.
func (o *Options) Joined() bool {
	return len(o.From) > 1 || len(o.Join) > 0
}

// Grouped reports whether a GROUP BY is present.
func (o *Options) Grouped() bool {
	return o.Group != nil
}

// FirstSource returns the first FROM source, or nil.
func (o *Options) FirstSource() any {
	if len(o.From) == 0 {
		return nil
	}
	return o.From[0]
}

// Options returns o so that *Options satisfies the sub-query interface
// shared with higher-level dataset types.
func (o *Options) Options() *Options {
	return o
}

// Appended returns a new slice holding src followed by items, never sharing
// the backing array of src.
func Appended[T any](src []T, items ...T) []T {
	out := make([]T, 0, len(src)+len(items))
	out = append(out, src...)
	return append(out, items...)
}
