package mssql

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/dataset/internal/render"
	"github.com/zoobzio/dataset/internal/types"
)

func TestNew(t *testing.T) {
	r := New()
	if r == nil {
		t.Fatal("New() returned nil")
	}
}

func TestLiterals(t *testing.T) {
	r := render.New(New())
	tests := []struct {
		name string
		v    any
		want string
	}{
		// SQL Server uses square brackets for quoting
		{"identifier", types.Symbol("a]b"), "[a]]b]"},
		{"unicode string", "naïve 'x'", "N'naïve ''x'''"},
		{"blob", []byte{0xca, 0xfe}, "0xCAFE"},
		{"bool", true, "1"},
		{"timestamp milliseconds", time.Date(2024, 1, 2, 3, 4, 5, 678900000, time.UTC), "'2024-01-02 03:04:05.678'"},
		{"cast", types.Cast{Expr: types.Symbol("n"), Type: types.CastBoolean}, "CAST([n] AS bit)"},
		{"is not rewrite", types.NewExpression(types.IsNot, types.Symbol("ok"), true), "(([ok] != 1) OR ([ok] IS NULL))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Literal(tt.v)
			if err != nil {
				t.Fatalf("Literal() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Literal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_OffsetFetch(t *testing.T) {
	o := &types.Options{
		From:   []any{types.Symbol("users")},
		Order:  []any{types.Symbol("id")},
		Limit:  10,
		Offset: 20,
	}
	got, err := render.New(New()).SelectSQL(o)
	if err != nil {
		t.Fatalf("SelectSQL() error = %v", err)
	}
	want := "SELECT * FROM [users] ORDER BY [id] OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY"
	if got != want {
		t.Errorf("SQL = %q, want %q", got, want)
	}

	o.Offset = nil
	got, _ = render.New(New()).SelectSQL(o)
	if !strings.HasSuffix(got, "OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY") {
		t.Errorf("SQL = %q, want OFFSET 0", got)
	}
}

func TestRender_LimitRequiresOrder(t *testing.T) {
	o := &types.Options{From: []any{types.Symbol("users")}, Limit: 10}
	_, err := render.New(New()).SelectSQL(o)
	var ufErr render.UnsupportedDialectFeatureError
	if !errors.As(err, &ufErr) {
		t.Fatalf("expected UnsupportedDialectFeatureError, got %v", err)
	}
	if ufErr.Hint == "" {
		t.Error("expected a hint")
	}
}
