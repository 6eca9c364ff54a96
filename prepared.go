package dataset

import (
	"context"
	"fmt"

	"github.com/zoobzio/dataset/internal/render"
)

// StatementKind selects the statement a prepared dataset renders.
type StatementKind int

const (
	SelectStatement StatementKind = iota
	InsertStatement
	UpdateStatement
	DeleteStatement
)

func (k StatementKind) String() string {
	switch k {
	case SelectStatement:
		return "SELECT"
	case InsertStatement:
		return "INSERT"
	case UpdateStatement:
		return "UPDATE"
	case DeleteStatement:
		return "DELETE"
	}
	return fmt.Sprintf("StatementKind(%d)", int(k))
}

// Prepared is a dataset statement with bind variables (see Bind) that are
// filled in on every call.
type Prepared struct {
	ds     *Dataset
	kind   StatementKind
	values []any
}

// Result is the outcome of calling a prepared statement. Rows is set for
// SELECT, LastInsertID for INSERT and RowsAffected for UPDATE and DELETE.
type Result struct {
	Rows         []Row
	LastInsertID int64
	RowsAffected int64
}

// Prepare returns a prepared statement of the given kind. values are the
// INSERT values or the UPDATE hash and may contain bind variables.
func (ds *Dataset) Prepare(kind StatementKind, values ...any) *Prepared {
	return &Prepared{ds: ds, kind: kind, values: values}
}

// SQL renders the statement with binds substituted for bind variables.
func (p *Prepared) SQL(binds map[string]any) (string, error) {
	return p.render(context.Background(), binds)
}

func (p *Prepared) render(ctx context.Context, binds map[string]any) (string, error) {
	ds := p.ds
	if ds.err != nil {
		return "", ds.err
	}
	if err := nestedErr(p.values...); err != nil {
		return "", err
	}
	r := ds.renderer(ctx).WithBinds(binds)
	switch p.kind {
	case SelectStatement:
		return r.SelectSQL(ds.opts)
	case InsertStatement:
		return r.InsertSQL(ds.opts, p.values...)
	case UpdateStatement:
		if len(p.values) != 1 {
			return "", render.InvalidExpressionError{Expression: "UPDATE values", Reason: "exactly one hash is required"}
		}
		return r.UpdateSQL(ds.opts, p.values[0])
	case DeleteStatement:
		return r.DeleteSQL(ds.opts)
	}
	return "", render.InvalidExpressionError{Expression: "prepared statement", Reason: "unknown kind " + p.kind.String()}
}

// Call renders the statement with binds and executes it.
func (p *Prepared) Call(ctx context.Context, binds map[string]any) (Result, error) {
	db, err := p.ds.database()
	if err != nil {
		return Result{}, err
	}
	query, err := p.render(ctx, binds)
	if err != nil {
		return Result{}, err
	}

	var res Result
	switch p.kind {
	case SelectStatement:
		err = db.ExecuteSelect(ctx, query, func(row Row) error {
			res.Rows = append(res.Rows, row)
			return nil
		})
	case InsertStatement:
		res.LastInsertID, err = db.ExecuteInsert(ctx, query)
	default:
		res.RowsAffected, err = db.Execute(ctx, query)
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
