// Package mssql provides the SQL Server dialect for dataset.
package mssql

import (
	"strings"

	"github.com/zoobzio/dataset/internal/render"
	"github.com/zoobzio/dataset/internal/types"

	// Registers the "sqlserver" database/sql driver.
	_ "github.com/microsoft/go-mssqldb"
)

// DriverName is the database/sql driver used for SQL Server connections.
const DriverName = "sqlserver"

// Dialect implements the SQL Server dialect.
type Dialect struct {
	render.Base
}

// New creates a new SQL Server dialect.
func New() *Dialect {
	caps := render.DefaultCapabilities()
	caps.MultiColumnIn = false
	caps.IsTrue = false
	caps.WindowFunctions = true
	caps.TimestampPrecision = 3
	caps.IntersectExceptAll = false
	caps.RowLocking = render.RowLockingNone
	return &Dialect{Base: render.Base{DialectName: "mssql", Caps: caps}}
}

// QuoteIdentifier quotes a SQL Server identifier with square brackets.
func (*Dialect) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// LiteralString renders a Unicode string literal, N'...'.
func (*Dialect) LiteralString(s string) string {
	return "N" + render.EscapeString(s, false)
}

// LiteralBlob renders a hex literal, 0x....
func (*Dialect) LiteralBlob(b []byte) string {
	return render.HexBlob("0x", b, "")
}

// LiteralBool renders 1 or 0 for BIT columns.
func (*Dialect) LiteralBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// CastTypeLiteral maps cast types to SQL Server types.
func (*Dialect) CastTypeLiteral(t any) string {
	ct, ok := t.(types.CastType)
	if !ok {
		return render.Base{}.CastTypeLiteral(t)
	}
	switch ct {
	case types.CastString:
		return "nvarchar(max)"
	case types.CastInteger:
		return "bigint"
	case types.CastFloat:
		return "float"
	case types.CastTimestamp:
		return "datetime2"
	case types.CastBoolean:
		return "bit"
	case types.CastBlob:
		return "varbinary(max)"
	}
	return render.Base{}.CastTypeLiteral(t)
}

// LimitClause renders OFFSET/FETCH. SQL Server requires ORDER BY for both.
func (d *Dialect) LimitClause(limit, offset string, ordered bool) (string, error) {
	if !ordered {
		return "", render.NewUnsupportedDialectFeatureError(d.Name(), "LIMIT/OFFSET without ORDER BY",
			"add ORDER BY clause when using LIMIT or OFFSET")
	}
	if offset == "" {
		offset = "0"
	}
	var sql strings.Builder
	sql.WriteString(" OFFSET ")
	sql.WriteString(offset)
	sql.WriteString(" ROWS")
	if limit != "" {
		sql.WriteString(" FETCH NEXT ")
		sql.WriteString(limit)
		sql.WriteString(" ROWS ONLY")
	}
	return sql.String(), nil
}
