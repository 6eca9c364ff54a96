package render

import (
	"strings"

	"github.com/zoobzio/dataset/internal/types"
)

// isLiterals are the only right operands accepted by direct IS rendering.
var isLiterals = map[any]string{
	nil:   "NULL",
	true:  "TRUE",
	false: "FALSE",
}

// exprAppend dispatches over expression nodes.
func (r *Renderer) exprAppend(sql *strings.Builder, e types.Expr) error {
	switch x := e.(type) {
	case types.Identifier:
		r.quoteNameAppend(sql, x.Name)
	case types.QualifiedIdentifier:
		return r.qualifiedAppend(sql, x)
	case types.AliasedExpression:
		if err := r.literalAppend(sql, x.Expr); err != nil {
			return err
		}
		r.aliasAppend(sql, x.Alias)
	case types.ValueList:
		return r.arrayAppend(sql, x)
	case types.ComplexExpression:
		return r.complexAppend(sql, x.Op, x.Args)
	case types.BooleanConstant:
		return r.literalAppend(sql, x.Value)
	case types.NegativeBooleanConstant:
		sql.WriteString("NOT ")
		return r.literalAppend(sql, x.Value)
	case types.Constant:
		sql.WriteString(string(x))
	case types.CaseExpression:
		return r.caseAppend(sql, x)
	case types.Cast:
		sql.WriteString("CAST(")
		if err := r.literalAppend(sql, x.Expr); err != nil {
			return err
		}
		sql.WriteString(" AS ")
		sql.WriteString(r.dialect.CastTypeLiteral(x.Type))
		sql.WriteByte(')')
	case types.Function:
		return r.functionAppend(sql, x)
	case types.Subscript:
		if err := r.literalAppend(sql, x.Expr); err != nil {
			return err
		}
		sql.WriteByte('[')
		if err := r.listAppend(sql, x.Indices); err != nil {
			return err
		}
		sql.WriteByte(']')
	case types.Window:
		return r.windowAppend(sql, x)
	case types.WindowFunction:
		if err := r.functionAppend(sql, x.Function); err != nil {
			return err
		}
		sql.WriteString(" OVER ")
		return r.windowAppend(sql, x.Window)
	case types.OrderedExpression:
		return r.orderedAppend(sql, x)
	case types.PlaceholderLiteral:
		return r.placeholderAppend(sql, x)
	case types.BindVar:
		v, ok := r.binds[x.Name]
		if !ok {
			return UnsupportedLiteralError{Value: x}
		}
		return r.literalAppend(sql, v)
	case types.JoinClause:
		return r.joinAppend(sql, x)
	case types.JoinOnClause:
		if err := r.joinAppend(sql, x.JoinClause); err != nil {
			return err
		}
		sql.WriteString(" ON ")
		return r.literalAppend(sql, x.On)
	case types.JoinUsingClause:
		if err := r.joinAppend(sql, x.JoinClause); err != nil {
			return err
		}
		sql.WriteString(" USING (")
		if err := r.listAppend(sql, x.Using); err != nil {
			return err
		}
		sql.WriteByte(')')
	default:
		return UnsupportedLiteralError{Value: e}
	}
	return nil
}

// complexAppend renders an operator applied to its operands.
func (r *Renderer) complexAppend(sql *strings.Builder, op types.Operator, args []any) error {
	switch op.Class() {
	case types.ClassIs:
		return r.isAppend(sql, op, args)
	case types.ClassIn:
		return r.inAppend(sql, op, args)
	case types.ClassTwoArity:
		if len(args) != 2 {
			return newInvalidOperatorError(op, "requires exactly two operands")
		}
		sql.WriteByte('(')
		if err := r.literalAppend(sql, args[0]); err != nil {
			return err
		}
		sql.WriteString(" " + string(op) + " ")
		if err := r.literalAppend(sql, args[1]); err != nil {
			return err
		}
		sql.WriteByte(')')
	case types.ClassNArity:
		if len(args) == 0 {
			return newInvalidOperatorError(op, "requires at least one operand")
		}
		sql.WriteByte('(')
		for i, a := range args {
			if i > 0 {
				sql.WriteString(" " + string(op) + " ")
			}
			if err := r.literalAppend(sql, a); err != nil {
				return err
			}
		}
		sql.WriteByte(')')
	case types.ClassOneArity:
		if len(args) != 1 {
			return newInvalidOperatorError(op, "requires exactly one operand")
		}
		switch op {
		case types.NOT:
			sql.WriteString("NOT ")
		case types.BitComplement:
			sql.WriteByte('~')
		}
		return r.literalAppend(sql, args[0])
	default:
		return newInvalidOperatorError(op, "")
	}
	return nil
}

// isAppend renders IS / IS NOT. With a constant operand on a dialect with
// boolean IS support the comparison is direct; otherwise IS becomes equality
// and IS NOT becomes a NULL-safe inequality.
func (r *Renderer) isAppend(sql *strings.Builder, op types.Operator, args []any) error {
	if len(args) != 2 {
		return newInvalidOperatorError(op, "requires exactly two operands")
	}
	right := args[1]
	switch c := right.(type) {
	case types.BooleanConstant:
		right = c.Value
	case types.NegativeBooleanConstant:
		right = c.Value
		op, _ = op.Inverse()
	}

	if right == nil || r.caps.IsTrue {
		lit, ok := isConstant(right)
		if !ok {
			return newInvalidOperatorError(op, "right operand must be NULL, TRUE or FALSE")
		}
		sql.WriteByte('(')
		if err := r.literalAppend(sql, args[0]); err != nil {
			return err
		}
		sql.WriteString(" " + string(op) + " " + lit + ")")
		return nil
	}
	if op == types.IS {
		return r.complexAppend(sql, types.EQ, []any{args[0], right})
	}
	return r.complexAppend(sql, types.OR, []any{
		types.NewExpression(types.NE, args[0], right),
		types.NewExpression(types.IS, args[0], nil),
	})
}

func isConstant(v any) (string, bool) {
	switch v.(type) {
	case nil, bool:
		lit, ok := isLiterals[v]
		return lit, ok
	}
	return "", false
}

// inAppend renders IN / NOT IN for single and multiple columns against
// literal lists and sub-queries.
func (r *Renderer) inAppend(sql *strings.Builder, op types.Operator, args []any) error {
	if len(args) != 2 {
		return newInvalidOperatorError(op, "requires exactly two operands")
	}
	cols, vals := args[0], args[1]
	colList, colArray := asList(cols)
	valList, valArray := asList(vals)

	if valArray && len(valList) == 0 {
		return r.literalAppend(sql, emptyArrayValue(op, cols, colList, colArray))
	}

	if !colArray {
		if _, ok := types.SliceValues(vals); ok {
			vals = types.ValueList(valList)
		}
		sql.WriteByte('(')
		if err := r.literalAppend(sql, cols); err != nil {
			return err
		}
		sql.WriteString(" " + string(op) + " ")
		if err := r.literalAppend(sql, vals); err != nil {
			return err
		}
		sql.WriteByte(')')
		return nil
	}

	if !r.caps.MultiColumnIn {
		if !valArray {
			rows, err := r.materialize(vals)
			if err != nil {
				return err
			}
			return r.inAppend(sql, op, []any{cols, rows})
		}
		ors := make([]any, 0, len(valList))
		for _, row := range valList {
			tuple, ok := asList(row)
			if !ok || len(tuple) != len(colList) {
				return InvalidExpressionError{Expression: "IN", Reason: "value tuple does not match column count"}
			}
			pairs := make(types.Hash, len(colList))
			for i, c := range colList {
				pairs[i] = types.Pair{Key: c, Value: tuple[i]}
			}
			ors = append(ors, types.FromValuePairs(pairs, types.AND, false))
		}
		var expr any = types.NewExpression(types.OR, ors...)
		if len(ors) == 1 {
			expr = ors[0]
		}
		if op == types.NotIn {
			expr = types.Invert(expr)
		}
		return r.literalAppend(sql, expr)
	}

	sql.WriteByte('(')
	if err := r.arrayAppend(sql, colList); err != nil {
		return err
	}
	sql.WriteString(" " + string(op) + " ")
	if valArray {
		if err := r.arrayAppend(sql, valList); err != nil {
			return err
		}
	} else if err := r.literalAppend(sql, vals); err != nil {
		return err
	}
	sql.WriteByte(')')
	return nil
}

// emptyArrayValue is the always-false (IN) or always-true (NOT IN) condition
// over the compared columns.
func emptyArrayValue(op types.Operator, cols any, colList []any, colArray bool) any {
	if !colArray {
		colList = []any{cols}
	}
	pairs := make(types.Hash, len(colList))
	for i, c := range colList {
		c = types.ColumnRef(c)
		pairs[i] = types.Pair{Key: c, Value: c}
	}
	return types.FromValuePairs(pairs, types.AND, op == types.IN)
}

func (r *Renderer) materialize(vals any) ([]any, error) {
	q, ok := vals.(types.Queryable)
	if !ok {
		return nil, InvalidExpressionError{Expression: "IN", Reason: "multi-column IN requires a value list or sub-query"}
	}
	if r.materializer == nil {
		return nil, r.unsupported("multi-column IN with a sub-query", "execute through a database to expand the sub-query")
	}
	query, err := r.SelectSQL(q.Options())
	if err != nil {
		return nil, err
	}
	rows, err := r.materializer.Materialize(query)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return out, nil
}

// asList returns the elements of a value list. Unnamed typed slices such
// as []int are lists too.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case types.ValueList:
		return l, true
	}
	return types.SliceValues(v)
}

func (r *Renderer) caseAppend(sql *strings.Builder, c types.CaseExpression) error {
	if len(c.Whens) == 0 {
		return InvalidExpressionError{Expression: "CASE", Reason: "at least one WHEN condition is required"}
	}
	sql.WriteString("(CASE")
	if c.Subject != nil {
		sql.WriteByte(' ')
		if err := r.literalAppend(sql, c.Subject); err != nil {
			return err
		}
	}
	for _, w := range c.Whens {
		sql.WriteString(" WHEN ")
		if err := r.literalAppend(sql, w.Cond); err != nil {
			return err
		}
		sql.WriteString(" THEN ")
		if err := r.literalAppend(sql, w.Result); err != nil {
			return err
		}
	}
	sql.WriteString(" ELSE ")
	if err := r.literalAppend(sql, c.Else); err != nil {
		return err
	}
	sql.WriteString(" END)")
	return nil
}

func (r *Renderer) functionAppend(sql *strings.Builder, f types.Function) error {
	sql.WriteString(f.Name)
	sql.WriteByte('(')
	if err := r.listAppend(sql, f.Args); err != nil {
		return err
	}
	sql.WriteByte(')')
	return nil
}

// windowAppend renders a parenthesized window specification.
func (r *Renderer) windowAppend(sql *strings.Builder, w types.Window) error {
	if !r.caps.WindowFunctions {
		return r.unsupported("window functions")
	}
	sql.WriteByte('(')
	if err := r.windowSpecAppend(sql, w); err != nil {
		return err
	}
	sql.WriteByte(')')
	return nil
}

func (r *Renderer) windowSpecAppend(sql *strings.Builder, w types.Window) error {
	space := false
	sep := func() {
		if space {
			sql.WriteByte(' ')
		}
		space = true
	}
	if w.Base != "" {
		sep()
		r.quoteNameAppend(sql, w.Base)
	}
	if len(w.PartitionBy) > 0 {
		sep()
		sql.WriteString("PARTITION BY ")
		if err := r.listAppend(sql, w.PartitionBy); err != nil {
			return err
		}
	}
	if len(w.OrderBy) > 0 {
		sep()
		sql.WriteString("ORDER BY ")
		if err := r.listAppend(sql, w.OrderBy); err != nil {
			return err
		}
	}
	switch f := w.Frame.(type) {
	case nil:
	case types.WindowFrame:
		switch f {
		case types.FrameAll:
			sep()
			sql.WriteString("ROWS BETWEEN UNBOUNDED PRECEDING AND UNBOUNDED FOLLOWING")
		case types.FrameRows:
			sep()
			sql.WriteString("ROWS UNBOUNDED PRECEDING")
		default:
			return InvalidExpressionError{Expression: "window frame", Reason: "should be all, rows, a string, or nil"}
		}
	case string:
		sep()
		sql.WriteString(f)
	default:
		return InvalidExpressionError{Expression: "window frame", Reason: "should be all, rows, a string, or nil"}
	}
	return nil
}

func (r *Renderer) orderedAppend(sql *strings.Builder, o types.OrderedExpression) error {
	if err := r.literalAppend(sql, o.Expr); err != nil {
		return err
	}
	if o.Descending {
		sql.WriteString(" DESC")
	} else {
		sql.WriteString(" ASC")
	}
	if o.Nulls != types.NullsDefault {
		sql.WriteByte(' ')
		sql.WriteString(string(o.Nulls))
	}
	return nil
}

func (r *Renderer) joinAppend(sql *strings.Builder, j types.JoinClause) error {
	sql.WriteByte(' ')
	sql.WriteString(string(j.Type))
	sql.WriteByte(' ')
	if err := r.sourceAppend(sql, j.Table); err != nil {
		return err
	}
	if j.Alias != "" {
		r.aliasAppend(sql, j.Alias)
	}
	return nil
}
