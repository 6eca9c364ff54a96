// Package mysql provides the MySQL and MariaDB dialects for dataset.
package mysql

import (
	"strings"

	"github.com/zoobzio/dataset/internal/render"
	"github.com/zoobzio/dataset/internal/types"

	// Registers the "mysql" database/sql driver.
	_ "github.com/go-sql-driver/mysql"
)

// DriverName is the database/sql driver used for MySQL and MariaDB.
const DriverName = "mysql"

// maxLimit stands in for "no limit" when only an offset is given.
const maxLimit = "18446744073709551615"

// Dialect implements the MySQL dialect.
type Dialect struct {
	render.Base
}

// New creates a new MySQL (8.0+) dialect.
func New() *Dialect {
	caps := render.DefaultCapabilities()
	caps.WindowFunctions = true
	caps.ModifyingJoins = true
	caps.DefaultValues = false
	caps.IntersectExcept = false
	caps.IntersectExceptAll = false
	return &Dialect{Base: render.Base{DialectName: "mysql", Caps: caps}}
}

// NewMariaDB creates a MariaDB (10.5+) dialect, which adds INTERSECT and
// EXCEPT to the MySQL feature set.
func NewMariaDB() *Dialect {
	d := New()
	d.DialectName = "mariadb"
	d.Caps.IntersectExcept = true
	d.Caps.IntersectExceptAll = true
	return d
}

// QuoteIdentifier quotes a MySQL identifier with backticks.
func (*Dialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// LiteralBlob renders a hex literal, 0x....
func (d *Dialect) LiteralBlob(b []byte) string {
	if len(b) == 0 {
		return d.LiteralString("")
	}
	return render.HexBlob("0x", b, "")
}

// LiteralBool renders 1 or 0.
func (*Dialect) LiteralBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// CastTypeLiteral maps cast types to MySQL CAST targets.
func (*Dialect) CastTypeLiteral(t any) string {
	ct, ok := t.(types.CastType)
	if !ok {
		return render.Base{}.CastTypeLiteral(t)
	}
	switch ct {
	case types.CastString:
		return "char(255)"
	case types.CastInteger, types.CastBoolean:
		return "signed"
	case types.CastFloat:
		return "double"
	case types.CastDecimal:
		return "decimal(65,30)"
	case types.CastTimestamp:
		return "datetime"
	case types.CastBlob:
		return "binary"
	}
	return render.Base{}.CastTypeLiteral(t)
}

// LimitClause renders LIMIT/OFFSET. MySQL requires a LIMIT before OFFSET.
func (*Dialect) LimitClause(limit, offset string, _ bool) (string, error) {
	if limit == "" && offset != "" {
		limit = maxLimit
	}
	return render.Base{}.LimitClause(limit, offset, false)
}
