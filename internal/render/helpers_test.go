package render

import (
	"errors"
	"testing"

	"github.com/zoobzio/dataset/internal/types"
)

// plain renders identifiers unquoted so expectations stay readable.
func plain() *Renderer {
	d := NewBase()
	d.Caps.QuoteIdentifiers = false
	return New(d)
}

// strict lacks boolean IS, row-value IN and window functions.
func strict() *Renderer {
	d := NewBase()
	d.DialectName = "strict"
	d.Caps.QuoteIdentifiers = false
	d.Caps.IsTrue = false
	d.Caps.MultiColumnIn = false
	return New(d)
}

func assertLiteral(t *testing.T, r *Renderer, v any, want string) {
	t.Helper()
	got, err := r.Literal(v)
	if err != nil {
		t.Fatalf("Literal(%#v) error = %v", v, err)
	}
	if got != want {
		t.Errorf("Literal(%#v) = %q, want %q", v, got, want)
	}
}

func assertErrorAs[E error](t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var target E
	if !errors.As(err, &target) {
		t.Fatalf("error = %v (%T), want %T", err, err, target)
	}
}

func items() *types.Options {
	return &types.Options{From: []any{types.Symbol("items")}}
}
