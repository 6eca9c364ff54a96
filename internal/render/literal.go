package render

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/golang-sql/civil"
	"github.com/google/uuid"
	"github.com/zoobzio/dataset/internal/types"
)

// literalAppend is the value-kind dispatch of the literal encoder.
func (r *Renderer) literalAppend(sql *strings.Builder, v any) error {
	switch x := v.(type) {
	case nil:
		sql.WriteString("NULL")
	case types.LiteralString:
		sql.WriteString(string(x))
	case string:
		sql.WriteString(r.dialect.LiteralString(x))
	case types.Symbol:
		return r.symbolAppend(sql, x)
	case types.Blob:
		sql.WriteString(r.dialect.LiteralBlob(x))
	case []byte:
		sql.WriteString(r.dialect.LiteralBlob(x))
	case bool:
		sql.WriteString(r.dialect.LiteralBool(x))
	case int:
		sql.WriteString(strconv.FormatInt(int64(x), 10))
	case int8:
		sql.WriteString(strconv.FormatInt(int64(x), 10))
	case int16:
		sql.WriteString(strconv.FormatInt(int64(x), 10))
	case int32:
		sql.WriteString(strconv.FormatInt(int64(x), 10))
	case int64:
		sql.WriteString(strconv.FormatInt(x, 10))
	case uint:
		sql.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint8:
		sql.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint16:
		sql.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint32:
		sql.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint64:
		sql.WriteString(strconv.FormatUint(x, 10))
	case float32:
		sql.WriteString(r.floatLiteral(float64(x), 32))
	case float64:
		sql.WriteString(r.floatLiteral(x, 64))
	case apd.Decimal:
		sql.WriteString(r.decimalLiteral(&x))
	case *apd.Decimal:
		if x == nil {
			sql.WriteString("NULL")
			return nil
		}
		sql.WriteString(r.decimalLiteral(x))
	case time.Time:
		sql.WriteString(r.timestampLiteral(x, r.caps.TimestampTimezones))
	case civil.Date:
		sql.WriteString(r.dateLiteral(x))
	case civil.DateTime:
		sql.WriteString(r.timestampLiteral(x.In(time.UTC), false))
	case civil.Time:
		sql.WriteString(r.timeLiteral(x))
	case uuid.UUID:
		sql.WriteString(r.dialect.LiteralString(x.String()))
	case types.Hash:
		return r.conditionAppend(sql, x)
	case map[string]any:
		pairs, _ := types.ConditionPairs(x)
		return r.conditionAppend(sql, pairs)
	case []any:
		if types.IsConditionSpecifier(x) {
			pairs, _ := types.ConditionPairs(x)
			return r.conditionAppend(sql, pairs)
		}
		return r.arrayAppend(sql, x)
	case types.ValueList:
		return r.arrayAppend(sql, x)
	case types.Expr:
		return r.exprAppend(sql, x)
	case types.Queryable:
		return r.subselectAppend(sql, x.Options())
	case SQLLiteraler:
		s, err := x.SQLLiteral(r)
		if err != nil {
			return err
		}
		sql.WriteString(s)
	default:
		return UnsupportedLiteralError{Value: v}
	}
	return nil
}

// arrayAppend renders a plain parenthesized list; an empty list is (NULL).
func (r *Renderer) arrayAppend(sql *strings.Builder, items []any) error {
	if len(items) == 0 {
		sql.WriteString("(NULL)")
		return nil
	}
	sql.WriteByte('(')
	if err := r.listAppend(sql, items); err != nil {
		return err
	}
	sql.WriteByte(')')
	return nil
}

// conditionAppend renders column/value pairs as an AND-chain of conditions.
func (r *Renderer) conditionAppend(sql *strings.Builder, pairs types.Hash) error {
	if len(pairs) == 0 {
		return InvalidExpressionError{Expression: "condition", Reason: "no column/value pairs given"}
	}
	return r.literalAppend(sql, types.FromValuePairs(pairs, types.AND, false))
}

func (r *Renderer) subselectAppend(sql *strings.Builder, o *types.Options) error {
	child, err := r.subquery()
	if err != nil {
		return err
	}
	sql.WriteByte('(')
	if err := child.selectAppend(sql, o); err != nil {
		return err
	}
	sql.WriteByte(')')
	return nil
}

func (r *Renderer) floatLiteral(v float64, bits int) string {
	switch {
	case math.IsNaN(v):
		return r.dialect.LiteralString("NaN")
	case math.IsInf(v, 1):
		return r.dialect.LiteralString("Infinity")
	case math.IsInf(v, -1):
		return r.dialect.LiteralString("-Infinity")
	}
	return strconv.FormatFloat(v, 'g', -1, bits)
}

func (r *Renderer) decimalLiteral(d *apd.Decimal) string {
	if d.Form != apd.Finite {
		return r.dialect.LiteralString(d.String())
	}
	return d.Text('f')
}

// timestampLiteral renders 'YYYY-MM-DD HH:MM:SS[.ffffff][+HHMM]'.
func (r *Renderer) timestampLiteral(t time.Time, zone bool) string {
	var b strings.Builder
	if r.caps.StandardDatetimes {
		b.WriteString("TIMESTAMP ")
	}
	b.WriteByte('\'')
	b.WriteString(t.Format("2006-01-02 15:04:05"))
	if r.caps.TimestampUsecs {
		writeFraction(&b, t.Nanosecond(), r.caps.precision())
	}
	if zone {
		_, offset := t.Zone()
		sign := byte('+')
		if offset < 0 {
			sign = '-'
			offset = -offset
		}
		b.WriteByte(sign)
		fmt.Fprintf(&b, "%02d%02d", offset/3600, (offset%3600)/60)
	}
	b.WriteByte('\'')
	return b.String()
}

func (r *Renderer) dateLiteral(d civil.Date) string {
	s := "'" + d.String() + "'"
	if r.caps.StandardDatetimes {
		return "DATE " + s
	}
	return s
}

func (r *Renderer) timeLiteral(t civil.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "'%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if r.caps.TimestampUsecs {
		writeFraction(&b, t.Nanosecond, r.caps.precision())
	}
	b.WriteByte('\'')
	return b.String()
}

func writeFraction(b *strings.Builder, nanos, digits int) {
	for i := digits; i < 9; i++ {
		nanos /= 10
	}
	fmt.Fprintf(b, ".%0*d", digits, nanos)
}

// HexBlob renders b as prefix followed by upper-case hex digits and suffix.
func HexBlob(prefix string, b []byte, suffix string) string {
	return prefix + strings.ToUpper(hex.EncodeToString(b)) + suffix
}
