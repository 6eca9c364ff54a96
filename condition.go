package dataset

import (
	"fmt"

	"github.com/zoobzio/dataset/internal/types"
)

// Comparison constructors. The left operand is a column reference when it
// is a plain string; the right operand is always a value.

// Eq creates an equality condition. nil and booleans compare with IS,
// slices and datasets with IN and a Range with a bounded comparison.
func Eq(col, value any) any {
	return types.FromValuePair(col, value)
}

// Neq creates the negation of Eq.
func Neq(col, value any) any {
	return types.Invert(types.FromValuePair(col, value))
}

// Gt creates a greater-than condition.
func Gt(col, value any) ComplexExpression {
	return compare(types.GT, col, value)
}

// Ge creates a greater-than-or-equal condition.
func Ge(col, value any) ComplexExpression {
	return compare(types.GE, col, value)
}

// Lt creates a less-than condition.
func Lt(col, value any) ComplexExpression {
	return compare(types.LT, col, value)
}

// Le creates a less-than-or-equal condition.
func Le(col, value any) ComplexExpression {
	return compare(types.LE, col, value)
}

// In creates an IN condition against a list ([]any or a typed slice such
// as []int) or a dataset.
func In(col, values any) ComplexExpression {
	return compare(types.IN, col, values)
}

// NotIn creates a NOT IN condition against a list or a dataset.
func NotIn(col, values any) ComplexExpression {
	return compare(types.NotIn, col, values)
}

// Is creates an IS condition against nil, true or false.
func Is(col, value any) ComplexExpression {
	return compare(types.IS, col, value)
}

// IsNot creates an IS NOT condition against nil, true or false.
func IsNot(col, value any) ComplexExpression {
	return compare(types.IsNot, col, value)
}

// Like creates a LIKE condition.
func Like(col any, pattern string) ComplexExpression {
	return compare(types.LIKE, col, pattern)
}

// ILike creates a case-insensitive LIKE condition.
func ILike(col any, pattern string) ComplexExpression {
	return compare(types.ILIKE, col, pattern)
}

func compare(op types.Operator, col, value any) ComplexExpression {
	if cols, ok := col.([]any); ok {
		col = columnRefs(cols)
	} else if cols, ok := types.SliceValues(col); ok {
		col = columnRefs(cols)
	}
	return types.NewExpression(op, types.ColumnRef(col), value)
}

// TryAnd joins conditions with AND, returning an error if any is invalid.
// Each condition may be anything accepted by Dataset.Where without
// placeholder arguments.
func TryAnd(conditions ...any) (any, error) {
	return combine(types.AND, conditions)
}

// And joins conditions with AND.
func And(conditions ...any) any {
	c, err := TryAnd(conditions...)
	if err != nil {
		panic(err)
	}
	return c
}

// TryOr joins conditions with OR, returning an error if any is invalid.
func TryOr(conditions ...any) (any, error) {
	return combine(types.OR, conditions)
}

// Or joins conditions with OR.
func Or(conditions ...any) any {
	c, err := TryOr(conditions...)
	if err != nil {
		panic(err)
	}
	return c
}

// TryNot negates a condition, returning an error if it is invalid.
// Comparisons are inverted in place and negation is pushed through AND/OR.
func TryNot(condition any) (any, error) {
	c, err := types.FilterExpr(condition)
	if err != nil {
		return nil, err
	}
	return types.Invert(c), nil
}

// Not negates a condition.
func Not(condition any) any {
	c, err := TryNot(condition)
	if err != nil {
		panic(err)
	}
	return c
}

func combine(op types.Operator, conditions []any) (any, error) {
	if len(conditions) == 0 {
		return nil, fmt.Errorf("%s requires at least one condition", op)
	}
	exprs := make([]any, len(conditions))
	for i, c := range conditions {
		e, err := types.FilterExpr(c)
		if err != nil {
			return nil, fmt.Errorf("%s condition %d: %w", op, i, err)
		}
		exprs[i] = e
	}
	if len(exprs) == 1 {
		return exprs[0], nil
	}
	return types.NewExpression(op, exprs...), nil
}
