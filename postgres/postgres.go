// Package postgres provides the PostgreSQL dialect for dataset.
package postgres

import (
	"github.com/zoobzio/dataset/internal/render"
	"github.com/zoobzio/dataset/internal/types"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DriverName is the database/sql driver used for PostgreSQL connections.
const DriverName = "pgx"

// Dialect implements the PostgreSQL dialect.
type Dialect struct {
	render.Base
}

// New creates a new PostgreSQL dialect.
func New() *Dialect {
	caps := render.DefaultCapabilities()
	caps.WindowFunctions = true
	caps.TimestampTimezones = true
	caps.DistinctOn = true
	caps.RowLocking = render.RowLockingFull
	return &Dialect{Base: render.Base{DialectName: "postgres", Caps: caps}}
}

// LiteralString quotes s. With standard_conforming_strings backslashes are
// literal.
func (*Dialect) LiteralString(s string) string {
	return render.EscapeString(s, false)
}

// LiteralBlob renders a bytea hex literal, '\x...'.
func (*Dialect) LiteralBlob(b []byte) string {
	return render.HexBlob(`'\x`, b, "'")
}

// LiteralBool renders true or false.
func (*Dialect) LiteralBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// CastTypeLiteral maps cast types to PostgreSQL types.
func (*Dialect) CastTypeLiteral(t any) string {
	ct, ok := t.(types.CastType)
	if !ok {
		return render.Base{}.CastTypeLiteral(t)
	}
	switch ct {
	case types.CastString:
		return "text"
	case types.CastBlob:
		return "bytea"
	case types.CastTimestamp:
		return "timestamptz"
	}
	return render.Base{}.CastTypeLiteral(t)
}
