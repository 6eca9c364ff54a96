package types

import (
	"fmt"
	"reflect"
	"sort"
)

// Queryable is implemented by anything that can be used as a sub-query.
type Queryable interface {
	Options() *Options
}

// IsConditionSpecifier reports whether v is a non-empty []any whose every
// element is a two-element []any. Such arrays are read as AND-chained
// equality conditions rather than value lists.
func IsConditionSpecifier(v any) bool {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return false
	}
	for _, item := range arr {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return false
		}
	}
	return true
}

// ConditionPairs converts a condition specifier ([]any of pairs, Hash or
// map[string]any) into ordered pairs. Map keys are sorted.
func ConditionPairs(v any) (Hash, bool) {
	switch c := v.(type) {
	case Hash:
		return c, true
	case map[string]any:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Hash, 0, len(keys))
		for _, k := range keys {
			out = append(out, Pair{Key: k, Value: c[k]})
		}
		return out, true
	case []any:
		if !IsConditionSpecifier(c) {
			return nil, false
		}
		out := make(Hash, 0, len(c))
		for _, item := range c {
			pair := item.([]any)
			out = append(out, Pair{Key: pair[0], Value: pair[1]})
		}
		return out, true
	}
	return nil, false
}

// ColumnRef normalizes a condition key. Plain strings are symbolic column
// references.
func ColumnRef(key any) any {
	if s, ok := key.(string); ok {
		return Symbol(s)
	}
	return key
}

// FromValuePair builds the condition implied by comparing l to r.
func FromValuePair(l, r any) any {
	l = ColumnRef(l)
	switch v := r.(type) {
	case Range:
		lowOp, highOp := GE, LE
		if v.Exclusive {
			highOp = LT
		}
		return NewExpression(AND, NewExpression(lowOp, l, v.Low), NewExpression(highOp, l, v.High))
	case []any, ValueList, Queryable:
		return NewExpression(IN, l, r)
	case NegativeBooleanConstant:
		return NewExpression(IsNot, l, v.Value)
	case BooleanConstant:
		return NewExpression(IS, l, v.Value)
	case nil, bool:
		return NewExpression(IS, l, r)
	}
	if list, ok := SliceValues(r); ok {
		return NewExpression(IN, l, ValueList(list))
	}
	return NewExpression(EQ, l, r)
}

// SliceValues copies the elements of an unnamed typed slice such as []int
// or []string. Named slice types (Hash, Blob) and byte slices are values,
// not lists.
func SliceValues(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Name() != "" || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// FromValuePairs joins the conditions of all pairs with op (AND or OR).
// A single pair yields its condition without a wrapping expression.
func FromValuePairs(pairs Hash, op Operator, negate bool) any {
	conds := make([]any, 0, len(pairs))
	for _, p := range pairs {
		conds = append(conds, FromValuePair(p.Key, p.Value))
	}
	var out any
	if len(conds) == 1 {
		out = conds[0]
	} else {
		out = NewExpression(op, conds...)
	}
	if negate {
		return Invert(out)
	}
	return out
}

// Invert returns the logical negation of a condition, pushing the negation
// into comparisons and through AND/OR where possible.
func Invert(cond any) any {
	switch c := cond.(type) {
	case ComplexExpression:
		switch c.Op {
		case NOT:
			if len(c.Args) == 1 {
				return c.Args[0]
			}
		case AND, OR:
			inv, _ := c.Op.Inverse()
			args := make([]any, len(c.Args))
			for i, a := range c.Args {
				args[i] = Invert(a)
			}
			return NewExpression(inv, args...)
		}
		if inv, ok := c.Op.Inverse(); ok {
			return ComplexExpression{Op: inv, Args: c.Args}
		}
	case BooleanConstant:
		return NegativeBooleanConstant(c)
	case NegativeBooleanConstant:
		return BooleanConstant(c)
	}
	return NewExpression(NOT, cond)
}

// FilterExpr converts a filter argument into a condition expression. A
// string is trusted literal SQL; with args it is a template whose positional
// placeholders are filled from args.
func FilterExpr(cond any, args ...any) (any, error) {
	if s, ok := cond.(string); ok {
		if len(args) == 0 {
			return LiteralString("(" + s + ")"), nil
		}
		return PlaceholderLiteral{Template: s, Args: args, Parens: true}, nil
	}
	if len(args) > 0 {
		return nil, fmt.Errorf("placeholder arguments require a string template, got %T", cond)
	}
	switch c := cond.(type) {
	case nil:
		return nil, fmt.Errorf("filter condition cannot be nil")
	case LiteralString:
		return LiteralString("(" + string(c) + ")"), nil
	case bool:
		return BooleanConstant{Value: c}, nil
	case Hash:
		if len(c) == 0 {
			return nil, fmt.Errorf("filter hash cannot be empty")
		}
		return FromValuePairs(c, AND, false), nil
	case map[string]any:
		if len(c) == 0 {
			return nil, fmt.Errorf("filter map cannot be empty")
		}
		pairs, _ := ConditionPairs(c)
		return FromValuePairs(pairs, AND, false), nil
	case []any:
		pairs, ok := ConditionPairs(c)
		if !ok {
			return nil, fmt.Errorf("filter array must be a list of [column, value] pairs")
		}
		return FromValuePairs(pairs, AND, false), nil
	case Symbol, Identifier, QualifiedIdentifier:
		return c, nil
	case Expr:
		return c, nil
	}
	return nil, fmt.Errorf("unsupported filter condition type %T", cond)
}

// CombineConditions joins an existing condition with a new one. A nil
// existing condition yields the new one unchanged.
func CombineConditions(op Operator, existing, cond any) any {
	if existing == nil {
		return cond
	}
	return NewExpression(op, existing, cond)
}
