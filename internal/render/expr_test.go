package render

import (
	"testing"

	"github.com/zoobzio/dataset/internal/types"
)

var (
	colA = types.Symbol("a")
	colB = types.Symbol("b")
	colX = types.Symbol("x")
)

// =============================================================================
// Operator Class Tests
// =============================================================================

func TestExpr_Operators(t *testing.T) {
	r := plain()
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"two arity", types.NewExpression(types.GE, colX, 100), "(x >= 100)"},
		{"like", types.NewExpression(types.LIKE, colX, "a%"), "(x LIKE 'a%')"},
		{"n arity", types.NewExpression(types.Add, colA, colB, 1), "(a + b + 1)"},
		{"and chain", types.NewExpression(types.AND, types.NewExpression(types.EQ, colA, 1), types.NewExpression(types.EQ, colB, 2)), "((a = 1) AND (b = 2))"},
		{"concat", types.NewExpression(types.Concat, colA, "-", colB), "(a || '-' || b)"},
		{"not", types.NewExpression(types.NOT, types.NewExpression(types.EQ, colA, 1)), "NOT (a = 1)"},
		{"complement", types.NewExpression(types.BitComplement, colA), "~a"},
		{"noop", types.NewExpression(types.NOOP, colA), "a"},
		{"boolean constant", types.BooleanConstant{Value: true}, "'t'"},
		{"negative boolean constant", types.NegativeBooleanConstant{Value: nil}, "NOT NULL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertLiteral(t, r, tt.v, tt.want)
		})
	}
}

func TestExpr_InvalidOperator(t *testing.T) {
	_, err := plain().Literal(types.NewExpression(types.Operator("<=>"), colA, 1))
	assertErrorAs[InvalidOperatorError](t, err)

	_, err = plain().Literal(types.NewExpression(types.EQ, colA))
	assertErrorAs[InvalidOperatorError](t, err)
}

// =============================================================================
// IS Tests
// =============================================================================

func TestExpr_Is(t *testing.T) {
	t.Run("direct with boolean IS support", func(t *testing.T) {
		r := plain()
		assertLiteral(t, r, types.NewExpression(types.IS, colA, nil), "(a IS NULL)")
		assertLiteral(t, r, types.NewExpression(types.IS, colA, true), "(a IS TRUE)")
		assertLiteral(t, r, types.NewExpression(types.IsNot, colA, false), "(a IS NOT FALSE)")
		assertLiteral(t, r, types.NewExpression(types.IS, colA, types.BooleanConstant{Value: true}), "(a IS TRUE)")
		assertLiteral(t, r, types.NewExpression(types.IS, colA, types.NegativeBooleanConstant{Value: true}), "(a IS NOT TRUE)")
		assertLiteral(t, r, types.NewExpression(types.IsNot, colA, types.NegativeBooleanConstant{Value: nil}), "(a IS NULL)")
	})

	t.Run("null is always direct", func(t *testing.T) {
		assertLiteral(t, strict(), types.NewExpression(types.IsNot, colA, nil), "(a IS NOT NULL)")
	})

	t.Run("IS degenerates to equality", func(t *testing.T) {
		assertLiteral(t, strict(), types.NewExpression(types.IS, colA, true), "(a = 't')")
	})

	t.Run("IS NOT becomes null-safe inequality", func(t *testing.T) {
		assertLiteral(t, strict(), types.NewExpression(types.IsNot, colA, true), "((a != 't') OR (a IS NULL))")
	})

	t.Run("non-constant operand rejected", func(t *testing.T) {
		_, err := plain().Literal(types.NewExpression(types.IS, colA, 5))
		assertErrorAs[InvalidOperatorError](t, err)
	})
}

// =============================================================================
// IN Tests
// =============================================================================

func TestExpr_In(t *testing.T) {
	tests := []struct {
		name string
		r    *Renderer
		v    any
		want string
	}{
		{"single", plain(), types.NewExpression(types.IN, colX, []any{1, 2}), "(x IN (1, 2))"},
		{"single not in", plain(), types.NewExpression(types.NotIn, colX, []any{1}), "(x NOT IN (1))"},
		{"typed slice", plain(), types.NewExpression(types.IN, colX, []int{1, 2}), "(x IN (1, 2))"},
		{"typed string slice", plain(), types.NewExpression(types.NotIn, colX, []string{"a"}), "(x NOT IN ('a'))"},
		{"empty typed slice", plain(), types.NewExpression(types.IN, colX, []int64{}), "(x != x)"},
		{"empty in", plain(), types.NewExpression(types.IN, colX, []any{}), "(x != x)"},
		{"empty not in", plain(), types.NewExpression(types.NotIn, colX, []any{}), "(x = x)"},
		{"multi empty in", plain(), types.NewExpression(types.IN, []any{colA, colB}, []any{}), "((a != a) OR (b != b))"},
		{"multi empty not in", plain(), types.NewExpression(types.NotIn, []any{colA, colB}, []any{}), "((a = a) AND (b = b))"},
		{
			"multi native",
			plain(),
			types.NewExpression(types.IN, []any{colA, colB}, []any{[]any{1, 2}, []any{3, 4}}),
			"((a, b) IN ((1, 2), (3, 4)))",
		},
		{
			"multi expanded",
			strict(),
			types.NewExpression(types.IN, []any{colA, colB}, []any{[]any{1, 2}, []any{3, 4}}),
			"(((a = 1) AND (b = 2)) OR ((a = 3) AND (b = 4)))",
		},
		{
			"multi expanded not in",
			strict(),
			types.NewExpression(types.NotIn, []any{colA, colB}, []any{[]any{1, 2}}),
			"((a != 1) OR (b != 2))",
		},
		{
			"single sub-query",
			plain(),
			types.NewExpression(types.IN, colX, &types.Options{From: []any{types.Symbol("t")}, Select: []any{colX}}),
			"(x IN (SELECT x FROM t))",
		},
		{
			"multi native sub-query",
			plain(),
			types.NewExpression(types.IN, []any{colA, colB}, &types.Options{From: []any{types.Symbol("t")}, Select: []any{colA, colB}}),
			"((a, b) IN (SELECT a, b FROM t))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertLiteral(t, tt.r, tt.v, tt.want)
		})
	}
}

type fakeMaterializer struct {
	sql  string
	rows [][]any
}

func (m *fakeMaterializer) Materialize(sql string) ([][]any, error) {
	m.sql = sql
	return m.rows, nil
}

func TestExpr_InMaterializedSubquery(t *testing.T) {
	sub := &types.Options{From: []any{types.Symbol("t")}, Select: []any{colA, colB}}
	expr := types.NewExpression(types.IN, []any{colA, colB}, sub)

	t.Run("without materializer", func(t *testing.T) {
		_, err := strict().Literal(expr)
		assertErrorAs[UnsupportedDialectFeatureError](t, err)
	})

	t.Run("with materializer", func(t *testing.T) {
		m := &fakeMaterializer{rows: [][]any{{1, 2}}}
		assertLiteral(t, strict().WithMaterializer(m), expr, "((a = 1) AND (b = 2))")
		if m.sql != "SELECT a, b FROM t" {
			t.Errorf("materialized SQL = %q", m.sql)
		}
	})

	t.Run("empty result", func(t *testing.T) {
		m := &fakeMaterializer{}
		assertLiteral(t, strict().WithMaterializer(m), expr, "((a != a) OR (b != b))")
	})
}

// =============================================================================
// Node Tests
// =============================================================================

func TestExpr_Nodes(t *testing.T) {
	r := plain()
	tests := []struct {
		name string
		v    any
		want string
	}{
		{
			"case with subject",
			types.CaseExpression{Subject: colA, Whens: []types.When{{Cond: 1, Result: "one"}, {Cond: 2, Result: "two"}}, Else: "many"},
			"(CASE a WHEN 1 THEN 'one' WHEN 2 THEN 'two' ELSE 'many' END)",
		},
		{
			"case without subject",
			types.CaseExpression{Whens: []types.When{{Cond: types.NewExpression(types.GT, colA, 0), Result: 1}}, Else: 0},
			"(CASE WHEN (a > 0) THEN 1 ELSE 0 END)",
		},
		{"cast", types.Cast{Expr: colA, Type: types.CastInteger}, "CAST(a AS integer)"},
		{"cast raw type", types.Cast{Expr: colA, Type: "text"}, "CAST(a AS text)"},
		{"function", types.Function{Name: "lower", Args: []any{colA}}, "lower(a)"},
		{"function no args", types.Function{Name: "now"}, "now()"},
		{"count star", types.Function{Name: "count", Args: []any{types.LiteralString("*")}}, "count(*)"},
		{"subscript", types.Subscript{Expr: colA, Indices: []any{1, 2}}, "a[1, 2]"},
		{"aliased", types.AliasedExpression{Expr: colA, Alias: "b"}, "a AS b"},
		{"identifier", types.Identifier{Name: "a__b"}, "a__b"},
		{"qualified", types.QualifiedIdentifier{Table: "t", Column: "c"}, "t.c"},
		{"qualified star", types.QualifiedIdentifier{Table: types.Symbol("t"), Column: "*"}, "t.*"},
		{"ordered asc", types.OrderedExpression{Expr: colA}, "a ASC"},
		{"ordered desc nulls", types.OrderedExpression{Expr: colA, Descending: true, Nulls: types.NullsLast}, "a DESC NULLS LAST"},
		{
			"join on",
			types.JoinOnClause{JoinClause: types.JoinClause{Type: types.InnerJoin, Table: types.Symbol("t")}, On: types.NewExpression(types.EQ, colA, colB)},
			" INNER JOIN t ON (a = b)",
		},
		{
			"join using aliased",
			types.JoinUsingClause{JoinClause: types.JoinClause{Type: types.LeftJoin, Table: "t", Alias: "u"}, Using: []any{colA}},
			" LEFT OUTER JOIN t AS u USING (a)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertLiteral(t, r, tt.v, tt.want)
		})
	}
}

func TestExpr_CaseRequiresWhen(t *testing.T) {
	_, err := plain().Literal(types.CaseExpression{Else: 1})
	assertErrorAs[InvalidExpressionError](t, err)
}

// =============================================================================
// Window Tests
// =============================================================================

func windowed() *Renderer {
	d := NewBase()
	d.Caps.QuoteIdentifiers = false
	d.Caps.WindowFunctions = true
	return New(d)
}

func TestExpr_Window(t *testing.T) {
	r := windowed()
	fn := types.Function{Name: "row_number"}
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"empty", types.WindowFunction{Function: fn}, "row_number() OVER ()"},
		{
			"partition and order",
			types.WindowFunction{Function: fn, Window: types.Window{PartitionBy: []any{colA}, OrderBy: []any{colB}}},
			"row_number() OVER (PARTITION BY a ORDER BY b)",
		},
		{
			"frame all",
			types.Window{OrderBy: []any{colB}, Frame: types.FrameAll},
			"(ORDER BY b ROWS BETWEEN UNBOUNDED PRECEDING AND UNBOUNDED FOLLOWING)",
		},
		{"frame rows", types.Window{Frame: types.FrameRows}, "(ROWS UNBOUNDED PRECEDING)"},
		{"frame string", types.Window{Base: "w", Frame: "RANGE CURRENT ROW"}, "(w RANGE CURRENT ROW)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertLiteral(t, r, tt.v, tt.want)
		})
	}
}

func TestExpr_WindowErrors(t *testing.T) {
	_, err := plain().Literal(types.Window{})
	assertErrorAs[UnsupportedDialectFeatureError](t, err)

	_, err = windowed().Literal(types.Window{Frame: 3})
	assertErrorAs[InvalidExpressionError](t, err)

	_, err = windowed().Literal(types.Window{Frame: types.WindowFrame("groups")})
	assertErrorAs[InvalidExpressionError](t, err)
}

// =============================================================================
// Placeholder Tests
// =============================================================================

func TestExpr_Placeholders(t *testing.T) {
	r := plain()
	tests := []struct {
		name string
		v    types.PlaceholderLiteral
		want string
	}{
		{"positional", types.PlaceholderLiteral{Template: "a = ? AND b = ?", Args: []any{1, "x"}}, "a = 1 AND b = 'x'"},
		{"missing args", types.PlaceholderLiteral{Template: "a = ?"}, "a = NULL"},
		{"parens", types.PlaceholderLiteral{Template: "a > ?", Args: []any{2}, Parens: true}, "(a > 2)"},
		{
			"named prefix safe",
			types.PlaceholderLiteral{Template: "a = :id AND b = :id2", Named: map[string]any{"id": 1, "id2": 2}},
			"a = 1 AND b = 2",
		},
		{
			"named unknown left alone",
			types.PlaceholderLiteral{Template: "a = :id AND b = :other", Named: map[string]any{"id": 1}},
			"a = 1 AND b = :other",
		},
		{
			"named word boundary",
			types.PlaceholderLiteral{Template: "a = :idx", Named: map[string]any{"id": 1}},
			"a = :idx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertLiteral(t, r, tt.v, tt.want)
		})
	}
}
