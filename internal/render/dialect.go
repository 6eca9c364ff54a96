package render

import (
	"fmt"
	"strings"

	"github.com/zoobzio/dataset/internal/types"
)

// Dialect is the contract a backend satisfies to plug into the renderer.
type Dialect interface {
	Name() string
	Capabilities() Capabilities
	QuoteIdentifier(name string) string
	LiteralString(s string) string
	LiteralBlob(b []byte) string
	LiteralBool(v bool) string
	CastTypeLiteral(t any) string
	LimitClause(limit, offset string, ordered bool) (string, error)
}

// Literalizer is handed to values that render themselves.
type Literalizer interface {
	Literal(v any) (string, error)
	QuoteIdentifier(name any) (string, error)
	Dialect() Dialect
}

// SQLLiteraler is implemented by values outside the built-in kind set that
// know how to render themselves.
type SQLLiteraler interface {
	SQLLiteral(l Literalizer) (string, error)
}

// Materializer executes a SELECT and returns its rows positionally. It is
// used to expand multi-column IN sub-queries on dialects without row-value
// IN support.
type Materializer interface {
	Materialize(sql string) ([][]any, error)
}

// Base is the generic SQL dialect. Concrete dialects embed it and override
// what differs.
type Base struct {
	DialectName string
	Caps        Capabilities
}

// NewBase returns the generic dialect with default capabilities.
func NewBase() Base {
	return Base{DialectName: "generic", Caps: DefaultCapabilities()}
}

// Name returns the dialect name used in error messages.
func (d Base) Name() string {
	if d.DialectName == "" {
		return "generic"
	}
	return d.DialectName
}

// Capabilities returns the dialect's feature flags.
func (d Base) Capabilities() Capabilities {
	return d.Caps
}

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
func (Base) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// LiteralString doubles backslashes and single quotes.
func (Base) LiteralString(s string) string {
	return EscapeString(s, true)
}

// LiteralBlob renders binary data through the string path.
func (Base) LiteralBlob(b []byte) string {
	return EscapeString(string(b), true)
}

// LiteralBool renders 't' or 'f'.
func (Base) LiteralBool(v bool) string {
	if v {
		return "'t'"
	}
	return "'f'"
}

// CastTypeLiteral maps a CastType to a generic SQL type name. Strings pass
// through unchanged.
func (Base) CastTypeLiteral(t any) string {
	switch v := t.(type) {
	case types.CastType:
		switch v {
		case types.CastString:
			return "varchar(255)"
		case types.CastInteger:
			return "integer"
		case types.CastFloat:
			return "double precision"
		case types.CastDecimal:
			return "numeric"
		case types.CastDate:
			return "date"
		case types.CastTimestamp:
			return "timestamp"
		case types.CastTime:
			return "time"
		case types.CastBoolean:
			return "boolean"
		case types.CastBlob:
			return "blob"
		}
		return string(v)
	case string:
		return v
	}
	return fmt.Sprint(t)
}

// LimitClause renders LIMIT n OFFSET m.
func (Base) LimitClause(limit, offset string, _ bool) (string, error) {
	var sql strings.Builder
	if limit != "" {
		sql.WriteString(" LIMIT ")
		sql.WriteString(limit)
	}
	if offset != "" {
		sql.WriteString(" OFFSET ")
		sql.WriteString(offset)
	}
	return sql.String(), nil
}

// EscapeString wraps s in single quotes, doubling embedded quotes and, when
// backslashes is set, embedded backslashes.
func EscapeString(s string, backslashes bool) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			b.WriteString("''")
		case c == '\\' && backslashes:
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
