package dataset

import (
	"fmt"
	"sort"

	"github.com/zoobzio/dbml"

	"github.com/zoobzio/dataset/internal/render"
	"github.com/zoobzio/dataset/internal/types"
)

// Catalog validates table and column references against a DBML schema.
type Catalog struct {
	project *dbml.Project
	// table -> column -> definition
	tables  map[string]*dbml.Table
	columns map[string]map[string]*dbml.Column
}

// NewCatalog creates a catalog from a DBML project.
func NewCatalog(project *dbml.Project) (*Catalog, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}

	c := &Catalog{
		project: project,
		tables:  make(map[string]*dbml.Table),
		columns: make(map[string]map[string]*dbml.Column),
	}
	for _, table := range project.Tables {
		c.tables[table.Name] = table
		c.columns[table.Name] = make(map[string]*dbml.Column)
		for _, col := range table.Columns {
			c.columns[table.Name][col.Name] = col
		}
	}
	return c, nil
}

// Project returns the underlying DBML project.
func (c *Catalog) Project() *dbml.Project {
	return c.project
}

// Tables returns the table names, sorted.
func (c *Catalog) Tables() []string {
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Columns returns the column names of a table, sorted.
func (c *Catalog) Columns(table string) []string {
	cols := c.columns[table]
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TryT returns a validated table reference, optionally aliased.
func (c *Catalog) TryT(name string, alias ...string) (Symbol, error) {
	if _, ok := c.tables[name]; !ok {
		return "", fmt.Errorf("invalid table: table '%s' not found in schema", name)
	}
	if len(alias) == 0 {
		return Symbol(name), nil
	}
	if len(alias) > 1 {
		return "", fmt.Errorf("only one alias allowed")
	}
	if !isValidSQLIdentifier(alias[0]) {
		return "", fmt.Errorf("invalid alias '%s'", alias[0])
	}
	return Symbol(name + "___" + alias[0]), nil
}

// T returns a validated table reference. It panics if the table is not in
// the schema.
func (c *Catalog) T(name string, alias ...string) Symbol {
	t, err := c.TryT(name, alias...)
	if err != nil {
		panic(err)
	}
	return t
}

// TryC returns a validated column qualified by its table.
func (c *Catalog) TryC(table, column string) (QualifiedIdentifier, error) {
	if err := c.validateColumn(table, column); err != nil {
		return QualifiedIdentifier{}, err
	}
	return QualifiedIdentifier{Table: types.NewIdentifier(table), Column: column}, nil
}

// C returns a validated qualified column. It panics if the column is not in
// the schema.
func (c *Catalog) C(table, column string) QualifiedIdentifier {
	q, err := c.TryC(table, column)
	if err != nil {
		panic(err)
	}
	return q
}

func (c *Catalog) validateColumn(table, column string) error {
	cols, ok := c.columns[table]
	if !ok {
		return fmt.Errorf("invalid column: table '%s' not found in schema", table)
	}
	if _, ok := cols[column]; !ok {
		return fmt.Errorf("invalid column: column '%s' not found in table '%s'", column, table)
	}
	return nil
}

// Validate checks every table and column the dataset references, including
// those of its sub-queries. Columns of sub-query sources are not checked.
func (c *Catalog) Validate(ds *Dataset) error {
	if ds.err != nil {
		return ds.err
	}
	return c.validateOptions(ds.opts, 0)
}

// scope maps every name a column may be qualified by to its table. An empty
// table marks a source whose columns are unknown.
type scope struct {
	sources map[string]string
	aliases map[string]bool
	opaque  bool
}

func (c *Catalog) validateOptions(o *types.Options, depth int) error {
	if depth > render.MaxSubqueryDepth {
		return fmt.Errorf("maximum subquery depth (%d) exceeded", render.MaxSubqueryDepth)
	}
	if o.SQL != nil {
		return nil
	}
	s := &scope{sources: make(map[string]string), aliases: make(map[string]bool)}
	for _, cte := range o.With {
		if err := c.validateOptions(cte.Query, depth+1); err != nil {
			return err
		}
		s.sources[cte.Name] = ""
	}
	for _, src := range o.From {
		if err := c.addSource(s, src, depth); err != nil {
			return err
		}
	}
	for _, j := range o.Join {
		var clause types.JoinClause
		switch x := j.(type) {
		case types.JoinClause:
			clause = x
		case types.JoinOnClause:
			clause = x.JoinClause
		case types.JoinUsingClause:
			clause = x.JoinClause
		}
		src := clause.Table
		if clause.Alias != "" {
			src = types.AliasedExpression{Expr: clause.Table, Alias: clause.Alias}
		}
		if err := c.addSource(s, src, depth); err != nil {
			return err
		}
	}

	for _, item := range o.Select {
		if a, ok := item.(types.AliasedExpression); ok {
			s.aliases[a.Alias] = true
		}
		if sym, ok := item.(types.Symbol); ok {
			if alias := render.SplitSymbol(sym).Alias; alias != "" {
				s.aliases[alias] = true
			}
		}
	}

	check := func(items ...any) error {
		for _, item := range items {
			if err := c.walk(s, item, depth); err != nil {
				return err
			}
		}
		return nil
	}
	for _, j := range o.Join {
		if on, ok := j.(types.JoinOnClause); ok {
			if err := check(on.On); err != nil {
				return err
			}
		}
	}
	if err := check(o.Select...); err != nil {
		return err
	}
	if err := check(o.Where, o.Having); err != nil {
		return err
	}
	if err := check(o.Group...); err != nil {
		return err
	}
	if err := check(o.Order...); err != nil {
		return err
	}
	for _, cmp := range o.Compounds {
		if err := c.validateOptions(cmp.Query, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// addSource registers a FROM or JOIN source in the scope.
func (c *Catalog) addSource(s *scope, src any, depth int) error {
	switch x := src.(type) {
	case types.Symbol:
		parts := render.SplitSymbol(x)
		if _, ok := c.tables[parts.Column]; !ok {
			if _, cte := s.sources[parts.Column]; !cte {
				return fmt.Errorf("invalid table: table '%s' not found in schema", parts.Column)
			}
		}
		table := s.sources[parts.Column]
		if _, ok := c.tables[parts.Column]; ok {
			table = parts.Column
		}
		name := parts.Column
		if parts.Alias != "" {
			name = parts.Alias
		}
		s.sources[name] = table
		if table == "" {
			s.opaque = true
		}
	case string:
		return c.addSource(s, types.Symbol(x), depth)
	case types.Identifier:
		return c.addSource(s, types.Symbol(x.Name), depth)
	case types.AliasedExpression:
		if q, ok := x.Expr.(types.Queryable); ok {
			if err := c.validateOptions(q.Options(), depth+1); err != nil {
				return err
			}
			s.sources[x.Alias] = ""
			s.opaque = true
			return nil
		}
		if err := c.addSource(s, x.Expr, depth); err != nil {
			return err
		}
		if name, ok := sourceName(x.Expr); ok {
			s.sources[x.Alias] = s.sources[name]
		}
	case types.Queryable:
		if err := c.validateOptions(x.Options(), depth+1); err != nil {
			return err
		}
		s.opaque = true
	default:
		s.opaque = true
	}
	return nil
}

func sourceName(src any) (string, bool) {
	switch x := src.(type) {
	case types.Symbol:
		return render.SplitSymbol(x).Column, true
	case string:
		return render.SplitSymbol(types.Symbol(x)).Column, true
	case types.Identifier:
		return x.Name, true
	}
	return "", false
}

// walk validates the column references within an expression.
func (c *Catalog) walk(s *scope, e any, depth int) error {
	switch x := e.(type) {
	case nil:
		return nil
	case types.Symbol:
		parts := render.SplitSymbol(x)
		return c.checkColumn(s, parts.Table, parts.Column)
	case types.Identifier:
		return c.checkColumn(s, "", x.Name)
	case types.QualifiedIdentifier:
		table, _ := sourceName(x.Table)
		if q, ok := x.Table.(types.Symbol); ok {
			if parts := render.SplitSymbol(q); parts.Alias == "" {
				table = parts.Column
			}
		}
		return c.checkColumn(s, table, x.Column)
	case types.AliasedExpression:
		return c.walk(s, x.Expr, depth)
	case types.ComplexExpression:
		return c.walkAll(s, x.Args, depth)
	case types.Function:
		return c.walkAll(s, x.Args, depth)
	case types.WindowFunction:
		if err := c.walkAll(s, x.Function.Args, depth); err != nil {
			return err
		}
		return c.walk(s, x.Window, depth)
	case types.Window:
		if err := c.walkAll(s, x.PartitionBy, depth); err != nil {
			return err
		}
		return c.walkAll(s, x.OrderBy, depth)
	case types.Cast:
		return c.walk(s, x.Expr, depth)
	case types.Subscript:
		return c.walk(s, x.Expr, depth)
	case types.OrderedExpression:
		return c.walk(s, x.Expr, depth)
	case types.CaseExpression:
		if err := c.walk(s, x.Subject, depth); err != nil {
			return err
		}
		for _, w := range x.Whens {
			if err := c.walk(s, w.Cond, depth); err != nil {
				return err
			}
		}
		return nil
	case types.Hash:
		for _, p := range x {
			if err := c.walk(s, types.ColumnRef(p.Key), depth); err != nil {
				return err
			}
		}
		return nil
	case types.Queryable:
		return c.validateOptions(x.Options(), depth+1)
	case []any:
		if types.IsConditionSpecifier(x) {
			pairs, _ := types.ConditionPairs(x)
			return c.walk(s, pairs, depth)
		}
		return c.walkAll(s, x, depth)
	}
	return nil
}

func (c *Catalog) walkAll(s *scope, items []any, depth int) error {
	for _, item := range items {
		if err := c.walk(s, item, depth); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) checkColumn(s *scope, qualifier, column string) error {
	if column == "*" {
		if qualifier == "" {
			return nil
		}
		if _, ok := s.sources[qualifier]; !ok {
			return fmt.Errorf("invalid column: table '%s' is not a source of the query", qualifier)
		}
		return nil
	}
	if qualifier != "" {
		table, ok := s.sources[qualifier]
		if !ok {
			return fmt.Errorf("invalid column: table '%s' is not a source of the query", qualifier)
		}
		if table == "" {
			return nil
		}
		return c.validateColumn(table, column)
	}
	if s.opaque || s.aliases[column] {
		return nil
	}
	for _, table := range s.sources {
		if _, ok := c.columns[table][column]; ok {
			return nil
		}
	}
	return fmt.Errorf("invalid column: column '%s' not found in any source table", column)
}

// isValidSQLIdentifier reports whether s is a plain identifier: a letter or
// underscore followed by letters, digits or underscores.
func isValidSQLIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first := s[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z') || first == '_') {
		return false
	}
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '_') {
			return false
		}
	}
	return true
}
