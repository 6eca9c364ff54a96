package types

// Expr is implemented by every expression node. Nodes are immutable trees;
// operands are either other nodes or plain values handled by the literal
// encoder.
type Expr interface {
	IsExpr()
}

// Symbol is a compact symbolic column or table reference. The double
// underscore separates a qualifier from a name and the triple underscore
// introduces an alias: "items__price___p".
type Symbol string

// LiteralString is trusted SQL text that is emitted verbatim.
type LiteralString string

// Blob marks a byte slice as binary data.
type Blob []byte

// Identifier is an unqualified column or table name.
type Identifier struct {
	Name string
}

// QualifiedIdentifier is a column qualified by a table. Table may be a
// string, Symbol, Identifier or another QualifiedIdentifier (schema.table).
type QualifiedIdentifier struct {
	Table  any
	Column string
}

// AliasedExpression renders Expr AS Alias.
type AliasedExpression struct {
	Expr  any
	Alias string
}

// ValueList is an array that is always rendered as a plain parenthesized
// list, never as a condition specifier.
type ValueList []any

// ComplexExpression applies an operator to its operands.
type ComplexExpression struct {
	Op   Operator
	Args []any
}

// BooleanConstant wraps nil, true or false so it renders with the dialect's
// boolean literal and participates in IS comparisons.
type BooleanConstant struct {
	Value any
}

// NegativeBooleanConstant is the negated form of a BooleanConstant.
type NegativeBooleanConstant struct {
	Value any
}

// Constant is an SQL constant keyword such as CURRENT_DATE.
type Constant string

const (
	CurrentDate      Constant = "CURRENT_DATE"
	CurrentTime      Constant = "CURRENT_TIME"
	CurrentTimestamp Constant = "CURRENT_TIMESTAMP"
)

// When is one WHEN ... THEN pair of a CASE expression.
type When struct {
	Cond   any
	Result any
}

// CaseExpression is a CASE expression. Subject is optional; Else is required.
type CaseExpression struct {
	Subject any
	Whens   []When
	Else    any
}

// Cast renders CAST(Expr AS type). Type is a CastType or a raw type name.
type Cast struct {
	Expr any
	Type any
}

// Function is a function call.
type Function struct {
	Name string
	Args []any
}

// Subscript renders Expr[i, ...].
type Subscript struct {
	Expr    any
	Indices []any
}

// Window is a window specification. Base names a window defined in the
// WINDOW clause; Frame is FrameAll, FrameRows, a string, or nil.
type Window struct {
	Base        string
	PartitionBy []any
	OrderBy     []any
	Frame       any
}

// WindowFunction is Function OVER Window.
type WindowFunction struct {
	Function Function
	Window   Window
}

// OrderedExpression is an ORDER BY item.
type OrderedExpression struct {
	Expr       any
	Descending bool
	Nulls      NullsPlacement
}

// PlaceholderLiteral is an SQL template with either positional (?) or
// named (:name) placeholders.
type PlaceholderLiteral struct {
	Template string
	Args     []any
	Named    map[string]any
	Parens   bool
}

// BindVar is a named argument resolved when a prepared dataset is called.
type BindVar struct {
	Name string
}

// JoinClause is a join without a condition.
type JoinClause struct {
	Type  JoinType
	Table any
	Alias string
}

// JoinOnClause is a join with an ON condition.
type JoinOnClause struct {
	JoinClause
	On any
}

// JoinUsingClause is a join with a USING column list.
type JoinUsingClause struct {
	JoinClause
	Using []any
}

func (Identifier) IsExpr()              {}
func (QualifiedIdentifier) IsExpr()     {}
func (AliasedExpression) IsExpr()       {}
func (ValueList) IsExpr()               {}
func (ComplexExpression) IsExpr()       {}
func (BooleanConstant) IsExpr()         {}
func (NegativeBooleanConstant) IsExpr() {}
func (Constant) IsExpr()                {}
func (CaseExpression) IsExpr()          {}
func (Cast) IsExpr()                    {}
func (Function) IsExpr()                {}
func (Subscript) IsExpr()               {}
func (Window) IsExpr()                  {}
func (WindowFunction) IsExpr()          {}
func (OrderedExpression) IsExpr()       {}
func (PlaceholderLiteral) IsExpr()      {}
func (BindVar) IsExpr()                 {}
func (JoinClause) IsExpr()              {}
func (JoinOnClause) IsExpr()            {}
func (JoinUsingClause) IsExpr()         {}

// Pair is one key/value entry of a Hash.
type Pair struct {
	Key   any
	Value any
}

// Hash is an ordered column/value mapping. String keys are symbolic column
// references.
type Hash []Pair

// Get returns the value stored under key. String and Symbol keys naming
// the same column are equal.
func (h Hash) Get(key any) (any, bool) {
	key = ColumnRef(key)
	for _, p := range h {
		if ColumnRef(p.Key) == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Merge returns a new Hash with the entries of other laid over h. Keys
// already present keep their position.
func (h Hash) Merge(other Hash) Hash {
	out := make(Hash, len(h), len(h)+len(other))
	copy(out, h)
	for _, p := range other {
		key := ColumnRef(p.Key)
		replaced := false
		for i := range out {
			if ColumnRef(out[i].Key) == key {
				out[i].Value = p.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}

// Range is an inclusive (or high-exclusive) value range used in conditions.
type Range struct {
	Low       any
	High      any
	Exclusive bool
}

// NewIdentifier returns an identifier for a column name.
func NewIdentifier(name string) Identifier {
	return Identifier{Name: name}
}

// NewExpression builds a ComplexExpression.
func NewExpression(op Operator, args ...any) ComplexExpression {
	return ComplexExpression{Op: op, Args: args}
}
