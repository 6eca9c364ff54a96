package render

import (
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zoobzio/dataset/internal/types"
)

const symbolCacheSize = 1024

var symbolCache *lru.Cache

func init() {
	c, err := lru.New(symbolCacheSize)
	if err != nil {
		panic(err)
	}
	symbolCache = c
}

// SymbolParts is the (qualifier, name, alias) split of a symbolic reference.
type SymbolParts struct {
	Table  string
	Column string
	Alias  string
}

// SplitSymbol splits "table__column___alias" into its parts. Patterns are
// tried in order: table+column+alias, column+alias, table+column. A symbol
// matching none of them is a bare column name.
func SplitSymbol(sym types.Symbol) SymbolParts {
	s := string(sym)
	if v, ok := symbolCache.Get(s); ok {
		return v.(SymbolParts)
	}
	parts := splitSymbol(s)
	symbolCache.Add(s, parts)
	return parts
}

func splitSymbol(s string) SymbolParts {
	// table__column___alias
	if t := strings.Index(s, "__"); t > 0 {
		rest := s[t+2:]
		if c := strings.Index(rest, "___"); c > 0 && c+3 < len(rest) {
			return SymbolParts{Table: s[:t], Column: rest[:c], Alias: rest[c+3:]}
		}
	}
	// column___alias
	if c := strings.Index(s, "___"); c > 0 && c+3 < len(s) {
		return SymbolParts{Column: s[:c], Alias: s[c+3:]}
	}
	// table__column
	if t := strings.Index(s, "__"); t > 0 && t+2 < len(s) {
		return SymbolParts{Table: s[:t], Column: s[t+2:]}
	}
	return SymbolParts{Column: s}
}

// ApplyCasing transforms s with the given casing.
func ApplyCasing(c Casing, s string) string {
	switch c {
	case CasingLower:
		return cases.Lower(language.Und).String(s)
	case CasingUpper:
		return cases.Upper(language.Und).String(s)
	}
	return s
}

// quoteIdentifierAppend renders a name. Literal strings pass through; "*" is
// never quoted.
func (r *Renderer) quoteIdentifierAppend(sql *strings.Builder, name any) error {
	switch n := name.(type) {
	case types.LiteralString:
		sql.WriteString(string(n))
	case string:
		r.quoteNameAppend(sql, n)
	case types.Symbol:
		r.quoteNameAppend(sql, string(n))
	case types.Identifier:
		r.quoteNameAppend(sql, n.Name)
	case types.QualifiedIdentifier:
		return r.qualifiedAppend(sql, n)
	default:
		return UnsupportedLiteralError{Value: name}
	}
	return nil
}

func (r *Renderer) quoteNameAppend(sql *strings.Builder, name string) {
	if name == "*" {
		sql.WriteString(name)
		return
	}
	name = ApplyCasing(r.caps.IdentifierInput, name)
	if r.caps.QuoteIdentifiers {
		sql.WriteString(r.dialect.QuoteIdentifier(name))
		return
	}
	sql.WriteString(name)
}

// symbolAppend renders a symbolic reference as [table.]column[ AS alias].
func (r *Renderer) symbolAppend(sql *strings.Builder, sym types.Symbol) error {
	parts := SplitSymbol(sym)
	if parts.Table != "" {
		r.quoteNameAppend(sql, parts.Table)
		sql.WriteByte('.')
	}
	r.quoteNameAppend(sql, parts.Column)
	if parts.Alias != "" {
		r.aliasAppend(sql, parts.Alias)
	}
	return nil
}

func (r *Renderer) aliasAppend(sql *strings.Builder, alias string) {
	sql.WriteString(" AS ")
	r.quoteNameAppend(sql, alias)
}

func (r *Renderer) qualifiedAppend(sql *strings.Builder, q types.QualifiedIdentifier) error {
	switch t := q.Table.(type) {
	case types.Symbol:
		// A symbolic table may itself be schema-qualified.
		parts := SplitSymbol(t)
		if parts.Table != "" {
			r.quoteNameAppend(sql, parts.Table)
			sql.WriteByte('.')
		}
		r.quoteNameAppend(sql, parts.Column)
	default:
		if err := r.quoteIdentifierAppend(sql, q.Table); err != nil {
			return err
		}
	}
	sql.WriteByte('.')
	r.quoteNameAppend(sql, q.Column)
	return nil
}

// Qualify returns expr with every unqualified column reference qualified by
// table. String operands are values and are left alone.
func Qualify(expr any, table any) any {
	switch e := expr.(type) {
	case types.Symbol:
		parts := SplitSymbol(e)
		if parts.Table != "" {
			return e
		}
		q := types.QualifiedIdentifier{Table: table, Column: parts.Column}
		if parts.Alias != "" {
			return types.AliasedExpression{Expr: q, Alias: parts.Alias}
		}
		return q
	case types.Identifier:
		return types.QualifiedIdentifier{Table: table, Column: e.Name}
	case types.AliasedExpression:
		return types.AliasedExpression{Expr: Qualify(e.Expr, table), Alias: e.Alias}
	case types.ComplexExpression:
		return types.ComplexExpression{Op: e.Op, Args: qualifyAll(e.Args, table)}
	case types.OrderedExpression:
		e.Expr = Qualify(e.Expr, table)
		return e
	case types.Function:
		return types.Function{Name: e.Name, Args: qualifyAll(e.Args, table)}
	case types.Cast:
		return types.Cast{Expr: Qualify(e.Expr, table), Type: e.Type}
	case types.Subscript:
		return types.Subscript{Expr: Qualify(e.Expr, table), Indices: e.Indices}
	case types.CaseExpression:
		whens := make([]types.When, len(e.Whens))
		for i, w := range e.Whens {
			whens[i] = types.When{Cond: Qualify(w.Cond, table), Result: Qualify(w.Result, table)}
		}
		return types.CaseExpression{Subject: Qualify(e.Subject, table), Whens: whens, Else: Qualify(e.Else, table)}
	case types.BooleanConstant, types.NegativeBooleanConstant:
		return e
	case types.Hash:
		out := make(types.Hash, len(e))
		for i, p := range e {
			out[i] = types.Pair{Key: Qualify(types.ColumnRef(p.Key), table), Value: Qualify(p.Value, table)}
		}
		return out
	case types.ValueList:
		return types.ValueList(qualifyAll(e, table))
	case []any:
		return qualifyAll(e, table)
	}
	return expr
}

func qualifyAll(items []any, table any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = Qualify(item, table)
	}
	return out
}
