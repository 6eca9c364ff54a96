// Package sqlite provides the SQLite dialect for dataset.
package sqlite

import (
	"github.com/zoobzio/dataset/internal/render"
	"github.com/zoobzio/dataset/internal/types"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver used for SQLite connections.
const DriverName = "sqlite"

// Dialect implements the SQLite dialect.
type Dialect struct {
	render.Base
}

// New creates a new SQLite dialect.
func New() *Dialect {
	caps := render.DefaultCapabilities()
	caps.MultiColumnIn = false
	caps.IsTrue = false
	caps.WindowFunctions = true
	caps.IntersectExceptAll = false
	caps.Truncate = false
	caps.RowLocking = render.RowLockingNone
	return &Dialect{Base: render.Base{DialectName: "sqlite", Caps: caps}}
}

// LiteralString quotes s. SQLite does not treat backslash as an escape.
func (*Dialect) LiteralString(s string) string {
	return render.EscapeString(s, false)
}

// LiteralBlob renders a hex blob literal, X'...'.
func (*Dialect) LiteralBlob(b []byte) string {
	return render.HexBlob("X'", b, "'")
}

// LiteralBool renders 1 or 0; SQLite has no boolean type.
func (*Dialect) LiteralBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// CastTypeLiteral maps cast types to SQLite storage classes.
func (*Dialect) CastTypeLiteral(t any) string {
	ct, ok := t.(types.CastType)
	if !ok {
		return render.Base{}.CastTypeLiteral(t)
	}
	switch ct {
	case types.CastString, types.CastDate, types.CastTimestamp, types.CastTime:
		return "TEXT"
	case types.CastInteger, types.CastBoolean:
		return "INTEGER" // SQLite uses 0/1 for boolean
	case types.CastFloat, types.CastDecimal:
		return "REAL"
	case types.CastBlob:
		return "BLOB"
	default:
		// For unsupported types, use TEXT as fallback
		return "TEXT"
	}
}

// LimitClause renders LIMIT/OFFSET. SQLite requires a LIMIT before OFFSET, so
// an offset alone uses LIMIT -1.
func (*Dialect) LimitClause(limit, offset string, _ bool) (string, error) {
	if limit == "" && offset != "" {
		limit = "-1"
	}
	return render.Base{}.LimitClause(limit, offset, false)
}
