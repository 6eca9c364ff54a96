package render

import (
	"reflect"
	"testing"

	"github.com/zoobzio/dataset/internal/types"
)

func TestSplitSymbol(t *testing.T) {
	tests := []struct {
		sym  types.Symbol
		want SymbolParts
	}{
		{"table__column___alias", SymbolParts{Table: "table", Column: "column", Alias: "alias"}},
		{"col___alias", SymbolParts{Column: "col", Alias: "alias"}},
		{"table__col", SymbolParts{Table: "table", Column: "col"}},
		{"col", SymbolParts{Column: "col"}},
		{"t___c___a", SymbolParts{Table: "t", Column: "_c", Alias: "a"}},
		{"__col", SymbolParts{Column: "__col"}},
		{"col___", SymbolParts{Table: "col", Column: "_"}},
		{"t__", SymbolParts{Column: "t__"}},
		{"a_b__c_d", SymbolParts{Table: "a_b", Column: "c_d"}},
		{"t__c___", SymbolParts{Table: "t", Column: "c___"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sym), func(t *testing.T) {
			// Twice, to cover the cached path.
			for i := 0; i < 2; i++ {
				if got := SplitSymbol(tt.sym); got != tt.want {
					t.Errorf("SplitSymbol(%q) = %+v, want %+v", tt.sym, got, tt.want)
				}
			}
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	r := New(NewBase())
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"plain", "name", `"name"`},
		{"embedded quote", `a"b`, `"a""b"`},
		{"star", "*", "*"},
		{"literal passthrough", types.LiteralString("raw name"), "raw name"},
		{"qualified", types.QualifiedIdentifier{Table: "s", Column: "c"}, `"s"."c"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.QuoteIdentifier(tt.in)
			if err != nil {
				t.Fatalf("QuoteIdentifier() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("QuoteIdentifier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuoteIdentifier_Casing(t *testing.T) {
	d := NewBase()
	d.Caps.IdentifierInput = CasingUpper
	r := New(d)

	assertLiteral(t, r, types.Symbol("items__price___p"), `"ITEMS"."PRICE" AS "P"`)

	d.Caps.QuoteIdentifiers = false
	assertLiteral(t, New(d), types.Identifier{Name: "mixed"}, "MIXED")
}

func TestApplyCasing(t *testing.T) {
	if got := ApplyCasing(CasingLower, "MiXeD"); got != "mixed" {
		t.Errorf("ApplyCasing(lower) = %q", got)
	}
	if got := ApplyCasing(CasingNone, "MiXeD"); got != "MiXeD" {
		t.Errorf("ApplyCasing(none) = %q", got)
	}
}

func TestQualify(t *testing.T) {
	table := types.Symbol("items")
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"bare symbol", types.Symbol("price"), types.QualifiedIdentifier{Table: table, Column: "price"}},
		{"qualified symbol untouched", types.Symbol("other__price"), types.Symbol("other__price")},
		{
			"aliased symbol",
			types.Symbol("price___p"),
			types.AliasedExpression{Expr: types.QualifiedIdentifier{Table: table, Column: "price"}, Alias: "p"},
		},
		{"string value untouched", "price", "price"},
		{
			"expression",
			types.NewExpression(types.GT, types.Symbol("price"), 10),
			types.NewExpression(types.GT, types.QualifiedIdentifier{Table: table, Column: "price"}, 10),
		},
		{
			"function",
			types.Function{Name: "sum", Args: []any{types.Identifier{Name: "qty"}}},
			types.Function{Name: "sum", Args: []any{types.QualifiedIdentifier{Table: table, Column: "qty"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Qualify(tt.in, table); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Qualify() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSymbol_Rendering(t *testing.T) {
	assertLiteral(t, New(NewBase()), types.Symbol("items__price___p"), `"items"."price" AS "p"`)
	assertLiteral(t, plain(), types.Symbol("price"), "price")
}
