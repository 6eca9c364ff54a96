package dataset

import "github.com/zoobzio/dataset/internal/types"

// S returns a symbolic reference. "t__c___a" is column c of table t aliased a.
func S(sym string) Symbol {
	return Symbol(sym)
}

// I returns an unqualified identifier. Unlike a Symbol it is never split.
func I(name string) Identifier {
	return types.NewIdentifier(name)
}

// Q returns a column qualified by a table. The table may be a string,
// Symbol, Identifier or QualifiedIdentifier (schema.table).
func Q(table any, column string) QualifiedIdentifier {
	return QualifiedIdentifier{Table: table, Column: column}
}

// As aliases an expression. String expressions are column references.
func As(expr any, alias string) AliasedExpression {
	return AliasedExpression{Expr: types.ColumnRef(expr), Alias: alias}
}

// Lit marks sql as trusted literal SQL.
func Lit(sql string) LiteralString {
	return LiteralString(sql)
}

// Placeholder returns an SQL template whose ? markers are replaced by args.
func Placeholder(template string, args ...any) PlaceholderLiteral {
	return PlaceholderLiteral{Template: template, Args: args}
}

// NamedPlaceholder returns an SQL template whose :name markers are replaced
// by the matching entries of args.
func NamedPlaceholder(template string, args map[string]any) PlaceholderLiteral {
	return PlaceholderLiteral{Template: template, Named: args}
}

// Bind returns a bind variable resolved when a prepared dataset is called.
func Bind(name string) types.BindVar {
	return types.BindVar{Name: name}
}

// Values returns a list that always renders as (v1, v2, ...).
func Values(vals ...any) ValueList {
	return ValueList(vals)
}

// Between returns the inclusive range low..high.
func Between(low, high any) Range {
	return Range{Low: low, High: high}
}

// Func returns a function call. String arguments are column references.
func Func(name string, args ...any) Function {
	return Function{Name: name, Args: columnRefs(args)}
}

// CountAll returns count(*).
func CountAll() Function {
	return Function{Name: "count", Args: []any{LiteralString("*")}}
}

// Over evaluates a function over a window.
func Over(fn Function, w Window) WindowFunction {
	return WindowFunction{Function: fn, Window: w}
}

// Cast returns CAST(expr AS t). t is a CastType or a raw type name.
func Cast(expr any, t any) types.Cast {
	return types.Cast{Expr: types.ColumnRef(expr), Type: t}
}

// When returns one WHEN ... THEN branch of a CASE expression.
func When(cond, result any) types.When {
	return types.When{Cond: cond, Result: result}
}

// Case returns CASE WHEN ... ELSE els END.
func Case(els any, whens ...types.When) CaseExpression {
	return CaseExpression{Whens: whens, Else: els}
}

// CaseOf returns CASE subject WHEN ... ELSE els END.
func CaseOf(subject, els any, whens ...types.When) CaseExpression {
	return CaseExpression{Subject: types.ColumnRef(subject), Whens: whens, Else: els}
}

// Sub returns expr[indices...].
func Sub(expr any, indices ...any) types.Subscript {
	return types.Subscript{Expr: types.ColumnRef(expr), Indices: indices}
}

// Asc orders by expr ascending.
func Asc(expr any, nulls ...NullsPlacement) OrderedExpression {
	return ordered(expr, false, nulls)
}

// Desc orders by expr descending.
func Desc(expr any, nulls ...NullsPlacement) OrderedExpression {
	return ordered(expr, true, nulls)
}

func ordered(expr any, desc bool, nulls []NullsPlacement) OrderedExpression {
	o := OrderedExpression{Expr: types.ColumnRef(expr), Descending: desc}
	if len(nulls) > 0 {
		o.Nulls = nulls[0]
	}
	return o
}

// Expression applies op to args as-is.
func Expression(op Operator, args ...any) ComplexExpression {
	return types.NewExpression(op, args...)
}

// Arithmetic. String operands are column references.

// Add returns (a + b + ...).
func Add(args ...any) ComplexExpression {
	return types.NewExpression(types.Add, columnRefs(args)...)
}

// Subtract returns (a - b - ...).
func Subtract(args ...any) ComplexExpression {
	return types.NewExpression(types.Sub, columnRefs(args)...)
}

// Multiply returns (a * b * ...).
func Multiply(args ...any) ComplexExpression {
	return types.NewExpression(types.Mul, columnRefs(args)...)
}

// Concat returns (a || b || ...).
func Concat(args ...any) ComplexExpression {
	return types.NewExpression(types.Concat, columnRefs(args)...)
}

func columnRefs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = types.ColumnRef(a)
	}
	return out
}
