package render

import (
	"strconv"
	"strings"

	"github.com/zoobzio/dataset/internal/types"
)

// step is one clause builder. A step appends its fragment or does nothing
// when its option is absent.
type step func(r *Renderer, sql *strings.Builder, o *types.Options) error

// Step lists are assigned in init because the SELECT steps recurse into
// sub-selects.
var selectSteps, updateSteps, deleteSteps, insertSteps []step

func init() {
	selectSteps = []step{
		(*Renderer).selectKeywordAppend,
		(*Renderer).distinctAppend,
		(*Renderer).columnsAppend,
		(*Renderer).fromAppend,
		(*Renderer).joinsAppend,
		(*Renderer).whereAppend,
		(*Renderer).groupAppend,
		(*Renderer).havingAppend,
		(*Renderer).namedWindowsAppend,
		(*Renderer).compoundsAppend,
		(*Renderer).orderAppend,
		(*Renderer).limitAppend,
		(*Renderer).lockAppend,
	}
	updateSteps = []step{
		(*Renderer).updateTableAppend,
		(*Renderer).updateSetAppend,
		(*Renderer).whereAppend,
	}
	deleteSteps = []step{
		(*Renderer).deleteFromAppend,
		(*Renderer).whereAppend,
	}
	insertSteps = []step{
		(*Renderer).insertIntoAppend,
		(*Renderer).insertColumnsAppend,
		(*Renderer).insertValuesAppend,
	}
}

func (r *Renderer) run(steps []step, o *types.Options) (string, error) {
	var sql strings.Builder
	for _, s := range steps {
		if err := s(r, &sql, o); err != nil {
			return "", err
		}
	}
	return sql.String(), nil
}

// =============================================================================
// SELECT
// =============================================================================

// SelectSQL renders the SELECT statement described by o.
func (r *Renderer) SelectSQL(o *types.Options) (string, error) {
	var sql strings.Builder
	if err := r.selectAppend(&sql, o); err != nil {
		return "", err
	}
	return sql.String(), nil
}

func (r *Renderer) selectAppend(sql *strings.Builder, o *types.Options) error {
	if o.SQL != nil {
		return r.staticAppend(sql, o.SQL)
	}
	body, err := r.run(selectSteps, o)
	if err != nil {
		return err
	}
	// WITH is prepended once the body is known.
	if err := r.withAppend(sql, o); err != nil {
		return err
	}
	sql.WriteString(body)
	return nil
}

func (r *Renderer) withAppend(sql *strings.Builder, o *types.Options) error {
	if len(o.With) == 0 {
		return nil
	}
	if !r.caps.CTE {
		return r.unsupported("WITH")
	}
	sql.WriteString("WITH ")
	for i, cte := range o.With {
		if i > 0 {
			sql.WriteString(", ")
		}
		r.quoteNameAppend(sql, cte.Name)
		if len(cte.Columns) > 0 {
			sql.WriteByte('(')
			for j, c := range cte.Columns {
				if j > 0 {
					sql.WriteString(", ")
				}
				r.quoteNameAppend(sql, c)
			}
			sql.WriteByte(')')
		}
		sql.WriteString(" AS ")
		if err := r.subselectAppend(sql, cte.Query); err != nil {
			return err
		}
	}
	sql.WriteByte(' ')
	return nil
}

func (r *Renderer) selectKeywordAppend(sql *strings.Builder, _ *types.Options) error {
	sql.WriteString("SELECT")
	return nil
}

func (r *Renderer) distinctAppend(sql *strings.Builder, o *types.Options) error {
	if o.Distinct == nil {
		return nil
	}
	sql.WriteString(" DISTINCT")
	if len(o.Distinct.On) == 0 {
		return nil
	}
	if !r.caps.DistinctOn {
		return r.unsupported("DISTINCT ON", "use GROUP BY or window functions instead")
	}
	sql.WriteString(" ON (")
	if err := r.listAppend(sql, o.Distinct.On); err != nil {
		return err
	}
	sql.WriteByte(')')
	return nil
}

func (r *Renderer) columnsAppend(sql *strings.Builder, o *types.Options) error {
	if len(o.Select) == 0 {
		sql.WriteString(" *")
		return nil
	}
	sql.WriteByte(' ')
	return r.listAppend(sql, o.Select)
}

func (r *Renderer) fromAppend(sql *strings.Builder, o *types.Options) error {
	if len(o.From) == 0 {
		return nil
	}
	sql.WriteString(" FROM ")
	return r.sourceListAppend(sql, o.From)
}

func (r *Renderer) joinsAppend(sql *strings.Builder, o *types.Options) error {
	for _, j := range o.Join {
		if err := r.exprAppend(sql, j); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) whereAppend(sql *strings.Builder, o *types.Options) error {
	if o.Where == nil {
		return nil
	}
	sql.WriteString(" WHERE ")
	return r.literalAppend(sql, o.Where)
}

func (r *Renderer) groupAppend(sql *strings.Builder, o *types.Options) error {
	if len(o.Group) == 0 {
		return nil
	}
	sql.WriteString(" GROUP BY ")
	return r.listAppend(sql, o.Group)
}

func (r *Renderer) havingAppend(sql *strings.Builder, o *types.Options) error {
	if o.Having == nil {
		return nil
	}
	sql.WriteString(" HAVING ")
	return r.literalAppend(sql, o.Having)
}

func (r *Renderer) namedWindowsAppend(sql *strings.Builder, o *types.Options) error {
	if len(o.Window) == 0 {
		return nil
	}
	if !r.caps.WindowFunctions {
		return r.unsupported("window functions")
	}
	sql.WriteString(" WINDOW ")
	for i, w := range o.Window {
		if i > 0 {
			sql.WriteString(", ")
		}
		r.quoteNameAppend(sql, w.Name)
		sql.WriteString(" AS ")
		if err := r.windowAppend(sql, w.Window); err != nil {
			return err
		}
	}
	return nil
}

// compoundsAppend renders each member as a sub-select so that members with
// their own ORDER BY or LIMIT stay valid on every dialect.
func (r *Renderer) compoundsAppend(sql *strings.Builder, o *types.Options) error {
	for _, c := range o.Compounds {
		if c.Type != types.Union {
			if !r.caps.IntersectExcept {
				return r.unsupported(string(c.Type))
			}
			if c.All && !r.caps.IntersectExceptAll {
				return r.unsupported(string(c.Type) + " ALL")
			}
		}
		sql.WriteByte(' ')
		sql.WriteString(string(c.Type))
		if c.All {
			sql.WriteString(" ALL")
		}
		sql.WriteString(" SELECT * FROM ")
		if err := r.subselectAppend(sql, c.Query); err != nil {
			return err
		}
		r.aliasAppend(sql, "t1")
	}
	return nil
}

func (r *Renderer) orderAppend(sql *strings.Builder, o *types.Options) error {
	if len(o.Order) == 0 {
		return nil
	}
	sql.WriteString(" ORDER BY ")
	return r.listAppend(sql, o.Order)
}

func (r *Renderer) limitAppend(sql *strings.Builder, o *types.Options) error {
	if o.Limit == nil && o.Offset == nil {
		return nil
	}
	var limit, offset string
	var err error
	if o.Limit != nil {
		if limit, err = r.Literal(o.Limit); err != nil {
			return err
		}
	}
	if o.Offset != nil {
		if offset, err = r.Literal(o.Offset); err != nil {
			return err
		}
	}
	clause, err := r.dialect.LimitClause(limit, offset, len(o.Order) > 0)
	if err != nil {
		return err
	}
	sql.WriteString(clause)
	return nil
}

func (r *Renderer) lockAppend(sql *strings.Builder, o *types.Options) error {
	if o.Lock == nil {
		return nil
	}
	if o.Lock.Raw != "" {
		sql.WriteByte(' ')
		sql.WriteString(o.Lock.Raw)
		return nil
	}
	required := RowLockingBasic
	if o.Lock.Mode == types.ForNoKeyUpdate || o.Lock.Mode == types.ForKeyShare {
		required = RowLockingFull
	}
	if r.caps.RowLocking < required {
		return r.unsupported(string(o.Lock.Mode))
	}
	sql.WriteByte(' ')
	sql.WriteString(string(o.Lock.Mode))
	return nil
}

// =============================================================================
// Sources
// =============================================================================

func (r *Renderer) sourceListAppend(sql *strings.Builder, sources []any) error {
	for i, src := range sources {
		if i > 0 {
			sql.WriteString(", ")
		}
		if err := r.sourceAppendN(sql, src, i+1); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) sourceAppend(sql *strings.Builder, src any) error {
	return r.sourceAppendN(sql, src, 1)
}

// sourceAppendN renders a table reference. Unaliased sub-queries are
// aliased tN.
func (r *Renderer) sourceAppendN(sql *strings.Builder, src any, n int) error {
	switch s := src.(type) {
	case string, types.Identifier, types.QualifiedIdentifier, types.LiteralString:
		return r.quoteIdentifierAppend(sql, s)
	case types.Symbol:
		return r.symbolAppend(sql, s)
	case types.AliasedExpression:
		if err := r.sourceTableAppend(sql, s.Expr); err != nil {
			return err
		}
		r.aliasAppend(sql, s.Alias)
		return nil
	case types.Queryable:
		if err := r.subselectAppend(sql, s.Options()); err != nil {
			return err
		}
		r.aliasAppend(sql, "t"+strconv.Itoa(n))
		return nil
	}
	return r.literalAppend(sql, src)
}

func (r *Renderer) sourceTableAppend(sql *strings.Builder, src any) error {
	if q, ok := src.(types.Queryable); ok {
		return r.subselectAppend(sql, q.Options())
	}
	switch src.(type) {
	case string, types.Symbol, types.Identifier, types.QualifiedIdentifier, types.LiteralString:
		return r.quoteIdentifierAppend(sql, src)
	}
	return r.literalAppend(sql, src)
}

func (r *Renderer) staticAppend(sql *strings.Builder, static any) error {
	if s, ok := static.(string); ok {
		sql.WriteString(s)
		return nil
	}
	return r.literalAppend(sql, static)
}

func (r *Renderer) requireSource(statement string, o *types.Options) error {
	if len(o.From) == 0 {
		return InvalidExpressionError{Expression: statement, Reason: "no source table given"}
	}
	return nil
}

// =============================================================================
// Modification checks
// =============================================================================

// CheckModificationAllowed rejects UPDATE and DELETE on grouped datasets and,
// unless the dialect supports modifying joins, on joined datasets.
func (r *Renderer) CheckModificationAllowed(statement string, o *types.Options) error {
	if o.Grouped() {
		return newModificationError(statement, "grouped datasets cannot be modified")
	}
	if !r.caps.ModifyingJoins && o.Joined() {
		return newModificationError(statement, "joined datasets cannot be modified")
	}
	return nil
}

func (r *Renderer) checkInsertAllowed(o *types.Options) error {
	if o.Grouped() {
		return newModificationError("INSERT", "grouped datasets cannot be modified")
	}
	if o.Joined() {
		return newModificationError("INSERT", "joined datasets cannot be modified")
	}
	return nil
}

// =============================================================================
// INSERT
// =============================================================================

// InsertSQL renders an INSERT. Accepted value shapes: nothing (an empty
// row), a Hash or map (defaults merged under, overrides over), a single
// sub-query, []any or LiteralString as the VALUES source, or a ([]any
// columns, values) pair whose lengths must match.
func (r *Renderer) InsertSQL(o *types.Options, values ...any) (string, error) {
	if o.SQL != nil {
		return r.staticSQL(o.SQL)
	}
	if err := r.checkInsertAllowed(o); err != nil {
		return "", err
	}
	if err := r.requireSource("INSERT", o); err != nil {
		return "", err
	}
	columns, vals, err := parseInsertArgs(o, values)
	if err != nil {
		return "", err
	}
	c := o.Clone()
	c.Columns = columns
	c.Values = vals
	return r.run(insertSteps, c)
}

func parseInsertArgs(o *types.Options, values []any) ([]any, any, error) {
	switch len(values) {
	case 0:
		return parseInsertArgs(o, []any{types.Hash{}})
	case 1:
		switch v := values[0].(type) {
		case types.Hash:
			cols, vals := splitHash(mergeDefaults(o, v))
			return cols, vals, nil
		case map[string]any:
			pairs, _ := types.ConditionPairs(v)
			cols, vals := splitHash(mergeDefaults(o, pairs))
			return cols, vals, nil
		case types.Queryable, types.LiteralString:
			return nil, v, nil
		case []any:
			return nil, v, nil
		case types.ValueList:
			return nil, []any(v), nil
		}
	case 2:
		if cols, ok := values[0].([]any); ok {
			switch v := values[1].(type) {
			case []any:
				if len(cols) != len(v) {
					return nil, nil, ColumnCountMismatchError{Columns: len(cols), Values: len(v)}
				}
				return cols, v, nil
			case types.Queryable, types.LiteralString:
				return cols, v, nil
			}
		}
	}
	return nil, values, nil
}

func mergeDefaults(o *types.Options, h types.Hash) types.Hash {
	if o.Defaults != nil {
		h = o.Defaults.Merge(h)
	}
	if o.Overrides != nil {
		h = h.Merge(o.Overrides)
	}
	return h
}

func splitHash(h types.Hash) ([]any, []any) {
	cols := make([]any, len(h))
	vals := make([]any, len(h))
	for i, p := range h {
		cols[i] = p.Key
		vals[i] = p.Value
	}
	return cols, vals
}

func (r *Renderer) insertIntoAppend(sql *strings.Builder, o *types.Options) error {
	sql.WriteString("INSERT INTO ")
	return r.sourceTableAppend(sql, unaliased(o.FirstSource()))
}

func (r *Renderer) insertColumnsAppend(sql *strings.Builder, o *types.Options) error {
	if len(o.Columns) == 0 {
		return nil
	}
	sql.WriteString(" (")
	for i, c := range o.Columns {
		if i > 0 {
			sql.WriteString(", ")
		}
		if err := r.literalAppend(sql, types.ColumnRef(c)); err != nil {
			return err
		}
	}
	sql.WriteByte(')')
	return nil
}

func (r *Renderer) insertValuesAppend(sql *strings.Builder, o *types.Options) error {
	switch v := o.Values.(type) {
	case []any:
		if len(v) == 0 {
			if r.caps.DefaultValues {
				sql.WriteString(" DEFAULT VALUES")
			} else {
				sql.WriteString(" () VALUES ()")
			}
			return nil
		}
		sql.WriteString(" VALUES ")
		return r.arrayAppend(sql, v)
	case types.LiteralString:
		sql.WriteByte(' ')
		sql.WriteString(string(v))
		return nil
	case types.Queryable:
		sql.WriteByte(' ')
		child, err := r.subquery()
		if err != nil {
			return err
		}
		return child.selectAppend(sql, v.Options())
	}
	return InvalidExpressionError{Expression: "INSERT values", Reason: "should be a list, sub-query or literal SQL"}
}

func unaliased(src any) any {
	if a, ok := src.(types.AliasedExpression); ok {
		return a.Expr
	}
	if s, ok := src.(types.Symbol); ok {
		parts := SplitSymbol(s)
		if parts.Alias != "" {
			if parts.Table != "" {
				return types.Symbol(parts.Table + "__" + parts.Column)
			}
			return types.Symbol(parts.Column)
		}
	}
	return src
}

// =============================================================================
// UPDATE
// =============================================================================

// UpdateSQL renders an UPDATE setting values, a Hash, map or LiteralString.
func (r *Renderer) UpdateSQL(o *types.Options, values any) (string, error) {
	if o.SQL != nil {
		return r.staticSQL(o.SQL)
	}
	if err := r.CheckModificationAllowed("UPDATE", o); err != nil {
		return "", err
	}
	if err := r.requireSource("UPDATE", o); err != nil {
		return "", err
	}
	c := o.Clone()
	switch v := values.(type) {
	case types.Hash:
		c.Values = mergeDefaults(o, v)
	case map[string]any:
		pairs, _ := types.ConditionPairs(v)
		c.Values = mergeDefaults(o, pairs)
	case types.LiteralString:
		c.Values = v
	default:
		return "", InvalidExpressionError{Expression: "UPDATE values", Reason: "should be a hash, map or literal SQL"}
	}
	return r.run(updateSteps, c)
}

func (r *Renderer) updateTableAppend(sql *strings.Builder, o *types.Options) error {
	sql.WriteString("UPDATE ")
	if err := r.sourceListAppend(sql, o.From); err != nil {
		return err
	}
	if r.caps.ModifyingJoins {
		return r.joinsAppend(sql, o)
	}
	return nil
}

func (r *Renderer) updateSetAppend(sql *strings.Builder, o *types.Options) error {
	sql.WriteString(" SET ")
	switch v := o.Values.(type) {
	case types.LiteralString:
		sql.WriteString(string(v))
		return nil
	case types.Hash:
		if len(v) == 0 {
			return InvalidExpressionError{Expression: "UPDATE values", Reason: "no columns to set"}
		}
		for i, p := range v {
			if i > 0 {
				sql.WriteString(", ")
			}
			if err := r.literalAppend(sql, types.ColumnRef(p.Key)); err != nil {
				return err
			}
			sql.WriteString(" = ")
			if err := r.literalAppend(sql, p.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// DELETE
// =============================================================================

// DeleteSQL renders a DELETE.
func (r *Renderer) DeleteSQL(o *types.Options) (string, error) {
	if o.SQL != nil {
		return r.staticSQL(o.SQL)
	}
	if err := r.CheckModificationAllowed("DELETE", o); err != nil {
		return "", err
	}
	if err := r.requireSource("DELETE", o); err != nil {
		return "", err
	}
	return r.run(deleteSteps, o)
}

func (r *Renderer) deleteFromAppend(sql *strings.Builder, o *types.Options) error {
	sql.WriteString("DELETE")
	if r.caps.ModifyingJoins && o.Joined() {
		sql.WriteByte(' ')
		if err := r.sourceTableAppend(sql, deleteTarget(o.FirstSource())); err != nil {
			return err
		}
		sql.WriteString(" FROM ")
		if err := r.sourceListAppend(sql, o.From); err != nil {
			return err
		}
		return r.joinsAppend(sql, o)
	}
	sql.WriteString(" FROM ")
	return r.sourceListAppend(sql, o.From)
}

// deleteTarget names the table a joined DELETE removes rows from: the alias
// of an aliased source, the table itself otherwise.
func deleteTarget(src any) any {
	switch s := src.(type) {
	case types.AliasedExpression:
		return types.NewIdentifier(s.Alias)
	case types.Symbol:
		if alias := SplitSymbol(s).Alias; alias != "" {
			return types.NewIdentifier(alias)
		}
	}
	return src
}

// =============================================================================
// TRUNCATE
// =============================================================================

// TruncateSQL renders a TRUNCATE, or an unfiltered DELETE on dialects
// without TRUNCATE.
func (r *Renderer) TruncateSQL(o *types.Options) (string, error) {
	if o.SQL != nil {
		return r.staticSQL(o.SQL)
	}
	if o.Grouped() {
		return "", newModificationError("TRUNCATE", "grouped datasets cannot be truncated")
	}
	if len(o.Join) > 0 {
		return "", newModificationError("TRUNCATE", "joined datasets cannot be truncated")
	}
	if o.Where != nil || o.Having != nil {
		return "", newModificationError("TRUNCATE", "filtered datasets cannot be truncated")
	}
	if err := r.requireSource("TRUNCATE", o); err != nil {
		return "", err
	}
	var sql strings.Builder
	if r.caps.Truncate {
		sql.WriteString("TRUNCATE TABLE ")
	} else {
		sql.WriteString("DELETE FROM ")
	}
	if err := r.sourceListAppend(&sql, o.From); err != nil {
		return "", err
	}
	return sql.String(), nil
}

func (r *Renderer) staticSQL(static any) (string, error) {
	var sql strings.Builder
	if err := r.staticAppend(&sql, static); err != nil {
		return "", err
	}
	return sql.String(), nil
}
