package dataset

import (
	"context"
	"fmt"

	"github.com/zoobzio/dataset/internal/render"
	"github.com/zoobzio/dataset/internal/types"
)

// Dataset is an immutable query description bound to a dialect and,
// optionally, a Database. Builder methods return a new Dataset. The first
// error encountered while building is kept and returned by every render
// and execution method.
type Dataset struct {
	db      *Database
	dialect Dialect
	opts    *types.Options
	err     error
}

// New creates an empty dataset for the dialect. It can render SQL but not
// execute it; use Database.From for an executable dataset.
func New(d Dialect) *Dataset {
	return &Dataset{dialect: d, opts: &types.Options{}}
}

// Options returns the dataset's query options. A *Dataset can therefore be
// used anywhere a sub-query is accepted.
func (ds *Dataset) Options() *Options {
	return ds.opts
}

// Err returns the first error recorded while building the dataset.
func (ds *Dataset) Err() error {
	return ds.err
}

// Dialect returns the dataset's dialect.
func (ds *Dataset) Dialect() Dialect {
	return ds.dialect
}

// Database returns the database the dataset executes on, or nil.
func (ds *Dataset) Database() *Database {
	return ds.db
}

// clone copies the dataset and applies fn to the copy's options.
func (ds *Dataset) clone(fn func(o *types.Options) error) *Dataset {
	if ds.err != nil {
		return ds
	}
	c := &Dataset{db: ds.db, dialect: ds.dialect, opts: ds.opts.Clone()}
	if err := fn(c.opts); err != nil {
		c.err = err
	}
	return c
}

// nestedErr returns the first build error carried by a nested dataset.
func nestedErr(values ...any) error {
	for _, v := range values {
		switch x := v.(type) {
		case *Dataset:
			if x != nil && x.err != nil {
				return x.err
			}
		case AliasedExpression:
			if err := nestedErr(x.Expr); err != nil {
				return err
			}
		case ComplexExpression:
			if err := nestedErr(x.Args...); err != nil {
				return err
			}
		case Hash:
			for _, p := range x {
				if err := nestedErr(p.Value); err != nil {
					return err
				}
			}
		case map[string]any:
			for _, val := range x {
				if err := nestedErr(val); err != nil {
					return err
				}
			}
		case []any:
			if err := nestedErr(x...); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// Sources
// =============================================================================

// From replaces the dataset's sources. Strings are symbolic table
// references ("schema__table___alias"); datasets become sub-queries.
// Calling From with no sources removes the FROM clause.
func (ds *Dataset) From(sources ...any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if err := nestedErr(sources...); err != nil {
			return err
		}
		if len(sources) == 0 {
			o.From = nil
			return nil
		}
		o.From = columnRefs(sources)
		return nil
	})
}

// FromSelf wraps the dataset as a sub-query source of a new dataset.
func (ds *Dataset) FromSelf(alias ...string) *Dataset {
	if ds.err != nil {
		return ds
	}
	var src any = ds
	if len(alias) > 0 {
		src = AliasedExpression{Expr: ds, Alias: alias[0]}
	}
	return &Dataset{db: ds.db, dialect: ds.dialect, opts: &types.Options{From: []any{src}}}
}

// WithSQL replaces clause assembly with static SQL. Positional ? markers
// take args in order; a single map argument fills :name markers.
func (ds *Dataset) WithSQL(sql string, args ...any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		switch {
		case len(args) == 0:
			o.SQL = sql
		case len(args) == 1:
			if named, ok := args[0].(map[string]any); ok {
				o.SQL = PlaceholderLiteral{Template: sql, Named: named}
				return nil
			}
			o.SQL = PlaceholderLiteral{Template: sql, Args: args}
		default:
			o.SQL = PlaceholderLiteral{Template: sql, Args: args}
		}
		return nil
	})
}

// =============================================================================
// Columns
// =============================================================================

// Select replaces the selected columns. No columns selects *.
func (ds *Dataset) Select(columns ...any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if err := nestedErr(columns...); err != nil {
			return err
		}
		if len(columns) == 0 {
			o.Select = nil
			return nil
		}
		o.Select = columnRefs(columns)
		return nil
	})
}

// SelectAll removes any column selection.
func (ds *Dataset) SelectAll() *Dataset {
	return ds.Select()
}

// SelectAppend adds columns to the selection, keeping * when nothing was
// selected before.
func (ds *Dataset) SelectAppend(columns ...any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if err := nestedErr(columns...); err != nil {
			return err
		}
		current := o.Select
		if len(current) == 0 {
			current = []any{Symbol("*")}
		}
		o.Select = types.Appended(current, columnRefs(columns)...)
		return nil
	})
}

// Distinct adds DISTINCT, or DISTINCT ON (columns) when columns are given.
func (ds *Dataset) Distinct(on ...any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		o.Distinct = &types.Distinct{On: columnRefs(on)}
		return nil
	})
}

// =============================================================================
// Filters
// =============================================================================

// Where adds a condition, ANDed with any existing one. cond may be a Hash,
// map[string]any, []any of [column, value] pairs, an expression, a bool,
// a LiteralString, or a string template whose ? markers take args.
func (ds *Dataset) Where(cond any, args ...any) *Dataset {
	return ds.filter(func(o *types.Options, e any) {
		o.Where = types.CombineConditions(types.AND, o.Where, e)
	}, cond, args)
}

// Exclude adds the negation of a condition, ANDed with any existing one.
func (ds *Dataset) Exclude(cond any, args ...any) *Dataset {
	return ds.filter(func(o *types.Options, e any) {
		o.Where = types.CombineConditions(types.AND, o.Where, types.Invert(e))
	}, cond, args)
}

// Or ORs a condition with the existing WHERE condition. Without an existing
// condition the dataset is returned unchanged.
func (ds *Dataset) Or(cond any, args ...any) *Dataset {
	if ds.err == nil && ds.opts.Where == nil {
		return ds
	}
	return ds.filter(func(o *types.Options, e any) {
		o.Where = types.NewExpression(types.OR, o.Where, e)
	}, cond, args)
}

// Having adds a HAVING condition, ANDed with any existing one.
func (ds *Dataset) Having(cond any, args ...any) *Dataset {
	return ds.filter(func(o *types.Options, e any) {
		o.Having = types.CombineConditions(types.AND, o.Having, e)
	}, cond, args)
}

// ExcludeHaving adds the negation of a HAVING condition.
func (ds *Dataset) ExcludeHaving(cond any, args ...any) *Dataset {
	return ds.filter(func(o *types.Options, e any) {
		o.Having = types.CombineConditions(types.AND, o.Having, types.Invert(e))
	}, cond, args)
}

// Unfiltered removes the WHERE and HAVING conditions.
func (ds *Dataset) Unfiltered() *Dataset {
	return ds.clone(func(o *types.Options) error {
		o.Where = nil
		o.Having = nil
		return nil
	})
}

func (ds *Dataset) filter(apply func(o *types.Options, e any), cond any, args []any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if err := nestedErr(append([]any{cond}, args...)...); err != nil {
			return err
		}
		e, err := types.FilterExpr(cond, args...)
		if err != nil {
			return render.InvalidExpressionError{Expression: "filter", Reason: err.Error()}
		}
		apply(o, e)
		return nil
	})
}

// =============================================================================
// Joins
// =============================================================================

// Join adds a join of the given type. on may be nil (no condition), a Hash
// or map whose keys are columns of the joined table and whose values are
// columns of the previously joined table, or any filter condition.
func (ds *Dataset) Join(jt JoinType, table any, on any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if err := nestedErr(table); err != nil {
			return err
		}
		table = types.ColumnRef(table)
		if sub, ok := table.(*Dataset); ok {
			table = AliasedExpression{Expr: sub, Alias: fmt.Sprintf("t%d", len(o.Join)+1)}
		}
		clause := types.JoinClause{Type: jt, Table: table}
		if on == nil {
			o.Join = types.Appended(o.Join, types.Expr(clause))
			return nil
		}
		cond, err := joinCondition(on, qualifier(clause), lastQualifier(o))
		if err != nil {
			return err
		}
		o.Join = types.Appended(o.Join, types.Expr(types.JoinOnClause{JoinClause: clause, On: cond}))
		return nil
	})
}

// InnerJoin adds an INNER JOIN.
func (ds *Dataset) InnerJoin(table, on any) *Dataset {
	return ds.Join(types.InnerJoin, table, on)
}

// LeftJoin adds a LEFT OUTER JOIN.
func (ds *Dataset) LeftJoin(table, on any) *Dataset {
	return ds.Join(types.LeftJoin, table, on)
}

// RightJoin adds a RIGHT OUTER JOIN.
func (ds *Dataset) RightJoin(table, on any) *Dataset {
	return ds.Join(types.RightJoin, table, on)
}

// FullJoin adds a FULL OUTER JOIN.
func (ds *Dataset) FullJoin(table, on any) *Dataset {
	return ds.Join(types.FullJoin, table, on)
}

// CrossJoin adds a CROSS JOIN.
func (ds *Dataset) CrossJoin(table any) *Dataset {
	return ds.Join(types.CrossJoin, table, nil)
}

// NaturalJoin adds a NATURAL JOIN.
func (ds *Dataset) NaturalJoin(table any) *Dataset {
	return ds.Join(types.NaturalJoin, table, nil)
}

// JoinUsing adds a join with a USING column list.
func (ds *Dataset) JoinUsing(jt JoinType, table any, columns ...string) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if len(columns) == 0 {
			return render.InvalidExpressionError{Expression: "JOIN USING", Reason: "no columns given"}
		}
		using := make([]any, len(columns))
		for i, c := range columns {
			using[i] = types.NewIdentifier(c)
		}
		clause := types.JoinUsingClause{
			JoinClause: types.JoinClause{Type: jt, Table: types.ColumnRef(table)},
			Using:      using,
		}
		o.Join = types.Appended(o.Join, types.Expr(clause))
		return nil
	})
}

// joinCondition qualifies hash join conditions: keys by the joined table,
// column values by the last table. Other values compare as literals.
func joinCondition(on, joined, last any) (any, error) {
	pairs, ok := types.ConditionPairs(on)
	if !ok {
		cond, err := types.FilterExpr(on)
		if err != nil {
			return nil, render.InvalidExpressionError{Expression: "join condition", Reason: err.Error()}
		}
		return cond, nil
	}
	if len(pairs) == 0 {
		return nil, render.InvalidExpressionError{Expression: "join condition", Reason: "no columns given"}
	}
	conds := make([]any, len(pairs))
	for i, p := range pairs {
		left := render.Qualify(types.ColumnRef(p.Key), joined)
		switch v := p.Value.(type) {
		case string, types.Symbol, types.Identifier:
			right := types.ColumnRef(v)
			if last != nil {
				right = render.Qualify(right, last)
			}
			conds[i] = types.NewExpression(types.EQ, left, right)
		default:
			conds[i] = types.FromValuePair(left, v)
		}
	}
	if len(conds) == 1 {
		return conds[0], nil
	}
	return types.NewExpression(types.AND, conds...), nil
}

// qualifier returns the name a source is referenced by in column
// qualifications: its alias when it has one, the table otherwise.
func qualifier(src any) any {
	switch s := src.(type) {
	case types.JoinClause:
		if s.Alias != "" {
			return types.NewIdentifier(s.Alias)
		}
		return qualifier(s.Table)
	case types.Symbol:
		parts := render.SplitSymbol(s)
		if parts.Alias != "" {
			return types.NewIdentifier(parts.Alias)
		}
		if parts.Table != "" {
			return types.Symbol(parts.Table + "__" + parts.Column)
		}
		return types.NewIdentifier(parts.Column)
	case types.AliasedExpression:
		return types.NewIdentifier(s.Alias)
	case types.Identifier, types.QualifiedIdentifier:
		return s
	case *Dataset, *types.Options:
		return types.NewIdentifier("t1")
	}
	return nil
}

// lastQualifier returns the qualifier of the most recently joined table,
// or of the first source.
func lastQualifier(o *types.Options) any {
	for i := len(o.Join) - 1; i >= 0; i-- {
		switch j := o.Join[i].(type) {
		case types.JoinClause:
			return qualifier(j)
		case types.JoinOnClause:
			return qualifier(j.JoinClause)
		case types.JoinUsingClause:
			return qualifier(j.JoinClause)
		}
	}
	return qualifier(o.FirstSource())
}

// =============================================================================
// Grouping, ordering and limits
// =============================================================================

// Group replaces the GROUP BY columns. No columns removes grouping.
func (ds *Dataset) Group(columns ...any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if len(columns) == 0 {
			o.Group = nil
			return nil
		}
		o.Group = columnRefs(columns)
		return nil
	})
}

// Ungrouped removes the GROUP BY and HAVING clauses.
func (ds *Dataset) Ungrouped() *Dataset {
	return ds.clone(func(o *types.Options) error {
		o.Group = nil
		o.Having = nil
		return nil
	})
}

// Window adds a named window to the WINDOW clause.
func (ds *Dataset) Window(name string, w Window) *Dataset {
	return ds.clone(func(o *types.Options) error {
		w.PartitionBy = columnRefs(w.PartitionBy)
		w.OrderBy = columnRefs(w.OrderBy)
		o.Window = types.Appended(o.Window, types.NamedWindow{Name: name, Window: w})
		return nil
	})
}

// Order replaces the ORDER BY items. Plain columns sort ascending without
// an explicit direction; use Asc and Desc to be explicit.
func (ds *Dataset) Order(items ...any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if len(items) == 0 {
			o.Order = nil
			return nil
		}
		o.Order = columnRefs(items)
		return nil
	})
}

// OrderAppend adds ORDER BY items after the existing ones.
func (ds *Dataset) OrderAppend(items ...any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		o.Order = types.Appended(o.Order, columnRefs(items)...)
		return nil
	})
}

// Reverse flips the direction of every ORDER BY item.
func (ds *Dataset) Reverse() *Dataset {
	return ds.clone(func(o *types.Options) error {
		order := make([]any, len(o.Order))
		for i, item := range o.Order {
			if oe, ok := item.(types.OrderedExpression); ok {
				oe.Descending = !oe.Descending
				order[i] = oe
				continue
			}
			order[i] = types.OrderedExpression{Expr: item, Descending: true}
		}
		o.Order = order
		return nil
	})
}

// Unordered removes the ORDER BY clause.
func (ds *Dataset) Unordered() *Dataset {
	return ds.Order()
}

// Limit sets the row limit and, optionally, the offset. Integer limits
// must be positive.
func (ds *Dataset) Limit(limit any, offset ...any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if err := checkCount("limit", limit, 1); err != nil {
			return err
		}
		o.Limit = limit
		if len(offset) > 0 {
			if err := checkCount("offset", offset[0], 0); err != nil {
				return err
			}
			o.Offset = offset[0]
		}
		return nil
	})
}

// Offset sets the number of rows to skip. Integer offsets must not be
// negative.
func (ds *Dataset) Offset(offset any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if err := checkCount("offset", offset, 0); err != nil {
			return err
		}
		o.Offset = offset
		return nil
	})
}

// Unlimited removes the LIMIT and OFFSET clauses.
func (ds *Dataset) Unlimited() *Dataset {
	return ds.clone(func(o *types.Options) error {
		o.Limit = nil
		o.Offset = nil
		return nil
	})
}

func checkCount(name string, v any, minimum int64) error {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	default:
		return nil
	}
	if n < minimum {
		return render.InvalidExpressionError{
			Expression: name,
			Reason:     fmt.Sprintf("must be at least %d, got %d", minimum, n),
		}
	}
	return nil
}

// =============================================================================
// Locking
// =============================================================================

// Lock adds a row-locking clause.
func (ds *Dataset) Lock(mode LockMode) *Dataset {
	return ds.clone(func(o *types.Options) error {
		o.Lock = &types.Lock{Mode: mode}
		return nil
	})
}

// ForUpdate adds FOR UPDATE.
func (ds *Dataset) ForUpdate() *Dataset {
	return ds.Lock(types.ForUpdate)
}

// LockRaw adds a locking clause emitted verbatim.
func (ds *Dataset) LockRaw(clause string) *Dataset {
	return ds.clone(func(o *types.Options) error {
		o.Lock = &types.Lock{Raw: clause}
		return nil
	})
}

// =============================================================================
// Common table expressions and compounds
// =============================================================================

// With adds a common table expression.
func (ds *Dataset) With(name string, query *Dataset, columns ...string) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if query == nil {
			return render.InvalidExpressionError{Expression: "WITH " + name, Reason: "query cannot be nil"}
		}
		if err := nestedErr(query); err != nil {
			return err
		}
		o.With = types.Appended(o.With, types.CTE{Name: name, Columns: columns, Query: query.Options()})
		return nil
	})
}

// Union adds a UNION member.
func (ds *Dataset) Union(other *Dataset) *Dataset {
	return ds.compound(types.Union, other, false)
}

// UnionAll adds a UNION ALL member.
func (ds *Dataset) UnionAll(other *Dataset) *Dataset {
	return ds.compound(types.Union, other, true)
}

// Intersect adds an INTERSECT member.
func (ds *Dataset) Intersect(other *Dataset) *Dataset {
	return ds.compound(types.Intersect, other, false)
}

// IntersectAll adds an INTERSECT ALL member.
func (ds *Dataset) IntersectAll(other *Dataset) *Dataset {
	return ds.compound(types.Intersect, other, true)
}

// Except adds an EXCEPT member.
func (ds *Dataset) Except(other *Dataset) *Dataset {
	return ds.compound(types.Except, other, false)
}

// ExceptAll adds an EXCEPT ALL member.
func (ds *Dataset) ExceptAll(other *Dataset) *Dataset {
	return ds.compound(types.Except, other, true)
}

func (ds *Dataset) compound(ct types.CompoundType, other *Dataset, all bool) *Dataset {
	return ds.clone(func(o *types.Options) error {
		if other == nil {
			return render.InvalidExpressionError{Expression: string(ct), Reason: "query cannot be nil"}
		}
		if err := nestedErr(other); err != nil {
			return err
		}
		o.Compounds = types.Appended(o.Compounds, types.Compound{Type: ct, Query: other.Options(), All: all})
		return nil
	})
}

// =============================================================================
// INSERT / UPDATE payload defaults
// =============================================================================

// SetDefaults sets values used by INSERT and UPDATE unless the statement
// provides its own. Later defaults replace earlier ones.
func (ds *Dataset) SetDefaults(values any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		h, err := toHash("defaults", values)
		if err != nil {
			return err
		}
		o.Defaults = o.Defaults.Merge(h)
		return nil
	})
}

// SetOverrides sets values that replace the statement's own in INSERT and
// UPDATE. Earlier overrides take precedence over later ones.
func (ds *Dataset) SetOverrides(values any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		h, err := toHash("overrides", values)
		if err != nil {
			return err
		}
		o.Overrides = h.Merge(o.Overrides)
		return nil
	})
}

func toHash(name string, values any) (types.Hash, error) {
	switch v := values.(type) {
	case types.Hash:
		return v, nil
	case map[string]any:
		h, _ := types.ConditionPairs(v)
		return h, nil
	}
	return nil, render.InvalidExpressionError{Expression: name, Reason: "should be a hash or map"}
}

// =============================================================================
// Qualification
// =============================================================================

// Qualify qualifies every unqualified column in the selection, filters,
// grouping and ordering by table, or by the first source when no table is
// given. An empty selection becomes table.*.
func (ds *Dataset) Qualify(table ...any) *Dataset {
	return ds.clone(func(o *types.Options) error {
		var t any
		if len(table) > 0 {
			t = qualifier(types.ColumnRef(table[0]))
		} else {
			t = qualifier(o.FirstSource())
		}
		if t == nil {
			return render.InvalidExpressionError{Expression: "qualify", Reason: "no source table given"}
		}
		if len(o.Select) == 0 {
			o.Select = []any{types.QualifiedIdentifier{Table: t, Column: "*"}}
		} else {
			o.Select = qualifyAll(o.Select, t)
		}
		if o.Where != nil {
			o.Where = render.Qualify(o.Where, t)
		}
		if o.Having != nil {
			o.Having = render.Qualify(o.Having, t)
		}
		o.Group = qualifyAll(o.Group, t)
		o.Order = qualifyAll(o.Order, t)
		return nil
	})
}

func qualifyAll(items []any, table any) []any {
	if items == nil {
		return nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = render.Qualify(item, table)
	}
	return out
}

// =============================================================================
// Rendering
// =============================================================================

// renderer returns a renderer for the dataset's dialect. Bound datasets
// expand multi-column IN sub-queries through the database.
func (ds *Dataset) renderer(ctx context.Context) *render.Renderer {
	r := render.New(ds.dialect)
	if ds.db != nil {
		r = r.WithMaterializer(ds.db.MaterializerContext(ctx))
	}
	return r
}

// SelectSQL renders the SELECT statement.
func (ds *Dataset) SelectSQL() (string, error) {
	return ds.selectSQL(context.Background())
}

func (ds *Dataset) selectSQL(ctx context.Context) (string, error) {
	if ds.err != nil {
		return "", ds.err
	}
	return ds.renderer(ctx).SelectSQL(ds.opts)
}

// InsertSQL renders an INSERT. values may be empty (a row of defaults), a
// Hash or map, a []any of values, a dataset, a LiteralString, or a column
// list followed by values.
func (ds *Dataset) InsertSQL(values ...any) (string, error) {
	if ds.err != nil {
		return "", ds.err
	}
	if err := nestedErr(values...); err != nil {
		return "", err
	}
	return ds.renderer(context.Background()).InsertSQL(ds.opts, values...)
}

// UpdateSQL renders an UPDATE setting values, a Hash, map or LiteralString.
func (ds *Dataset) UpdateSQL(values any) (string, error) {
	if ds.err != nil {
		return "", ds.err
	}
	if err := nestedErr(values); err != nil {
		return "", err
	}
	return ds.renderer(context.Background()).UpdateSQL(ds.opts, values)
}

// DeleteSQL renders a DELETE.
func (ds *Dataset) DeleteSQL() (string, error) {
	if ds.err != nil {
		return "", ds.err
	}
	return ds.renderer(context.Background()).DeleteSQL(ds.opts)
}

// TruncateSQL renders a TRUNCATE.
func (ds *Dataset) TruncateSQL() (string, error) {
	if ds.err != nil {
		return "", ds.err
	}
	return ds.renderer(context.Background()).TruncateSQL(ds.opts)
}

// Literal renders a value as an SQL fragment in the dataset's dialect.
func (ds *Dataset) Literal(v any) (string, error) {
	return ds.renderer(context.Background()).Literal(v)
}

// QuoteIdentifier renders a column or table name in the dataset's dialect.
func (ds *Dataset) QuoteIdentifier(name any) (string, error) {
	return render.New(ds.dialect).QuoteIdentifier(name)
}
