// Package render turns query options into dialect-specific SQL.
package render

import (
	"fmt"
	"strings"
)

// MaxSubqueryDepth bounds nesting of sub-queries within one statement.
const MaxSubqueryDepth = 16

// Renderer renders expressions and statements for one dialect. A Renderer
// holds no mutable state; the With* methods return modified copies.
type Renderer struct {
	dialect      Dialect
	caps         Capabilities
	materializer Materializer
	binds        map[string]any
	depth        int
}

// New creates a renderer for the dialect.
func New(d Dialect) *Renderer {
	return &Renderer{dialect: d, caps: d.Capabilities()}
}

// WithMaterializer returns a renderer that expands multi-column IN
// sub-queries through m.
func (r *Renderer) WithMaterializer(m Materializer) *Renderer {
	c := *r
	c.materializer = m
	return &c
}

// WithBinds returns a renderer that resolves BindVar nodes from binds.
func (r *Renderer) WithBinds(binds map[string]any) *Renderer {
	c := *r
	c.binds = binds
	return &c
}

// Dialect returns the dialect being rendered.
func (r *Renderer) Dialect() Dialect {
	return r.dialect
}

// Capabilities returns the dialect's feature flags.
func (r *Renderer) Capabilities() Capabilities {
	return r.caps
}

// Literal renders any supported value as an SQL fragment.
func (r *Renderer) Literal(v any) (string, error) {
	var sql strings.Builder
	if err := r.literalAppend(&sql, v); err != nil {
		return "", err
	}
	return sql.String(), nil
}

// QuoteIdentifier renders a column or table name with the dialect's casing
// and quoting rules.
func (r *Renderer) QuoteIdentifier(name any) (string, error) {
	var sql strings.Builder
	if err := r.quoteIdentifierAppend(&sql, name); err != nil {
		return "", err
	}
	return sql.String(), nil
}

// subquery returns a child renderer one nesting level deeper.
func (r *Renderer) subquery() (*Renderer, error) {
	if r.depth >= MaxSubqueryDepth {
		return nil, fmt.Errorf("maximum subquery depth (%d) exceeded", MaxSubqueryDepth)
	}
	c := *r
	c.depth++
	return &c, nil
}

func (r *Renderer) unsupported(feature string, hint ...string) error {
	return NewUnsupportedDialectFeatureError(r.dialect.Name(), feature, hint...)
}

// listAppend renders items separated by ", ".
func (r *Renderer) listAppend(sql *strings.Builder, items []any) error {
	for i, item := range items {
		if i > 0 {
			sql.WriteString(", ")
		}
		if err := r.literalAppend(sql, item); err != nil {
			return err
		}
	}
	return nil
}
