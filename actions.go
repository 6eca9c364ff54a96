package dataset

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/zoobzio/dataset/internal/types"
)

// ErrNoDatabase is returned when executing a dataset created with New.
var ErrNoDatabase = errors.New("dataset is not bound to a database")

func (ds *Dataset) database() (*Database, error) {
	if ds.err != nil {
		return nil, ds.err
	}
	if ds.db == nil {
		return nil, ErrNoDatabase
	}
	return ds.db, nil
}

// Each runs the SELECT and calls fn for every row.
func (ds *Dataset) Each(ctx context.Context, fn func(Row) error) error {
	db, err := ds.database()
	if err != nil {
		return err
	}
	query, err := ds.selectSQL(ctx)
	if err != nil {
		return err
	}
	return db.ExecuteSelect(ctx, query, fn)
}

// All runs the SELECT and returns every row.
func (ds *Dataset) All(ctx context.Context) ([]Row, error) {
	var rows []Row
	err := ds.Each(ctx, func(row Row) error {
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// First returns the first row, or nil when the dataset is empty.
func (ds *Dataset) First(ctx context.Context) (Row, error) {
	rows, err := ds.Limit(1).All(ctx)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// Get returns the value of one column of the first row, or nil when the
// dataset is empty.
func (ds *Dataset) Get(ctx context.Context, column any) (any, error) {
	return ds.Select(column).Limit(1).single(ctx)
}

// Count returns the number of rows the dataset selects. Datasets whose row
// count depends on their own shape (DISTINCT, GROUP BY, LIMIT, compounds or
// static SQL) are counted as a sub-query.
func (ds *Dataset) Count(ctx context.Context) (int64, error) {
	if ds.err != nil {
		return 0, ds.err
	}
	count := As(CountAll(), "count")
	var agg *Dataset
	o := ds.opts
	if o.SQL != nil || o.Distinct != nil || o.Grouped() || o.Limit != nil || o.Offset != nil || len(o.Compounds) > 0 {
		agg = ds.FromSelf().Select(count)
	} else {
		agg = ds.Unordered().Select(count)
	}
	v, err := agg.single(ctx)
	if err != nil {
		return 0, err
	}
	return toInt64(v)
}

func (ds *Dataset) single(ctx context.Context) (any, error) {
	db, err := ds.database()
	if err != nil {
		return nil, err
	}
	query, err := ds.selectSQL(ctx)
	if err != nil {
		return nil, err
	}
	return db.SingleValue(ctx, query)
}

// Insert runs an INSERT built from values (see InsertSQL) and returns the
// last inserted id.
func (ds *Dataset) Insert(ctx context.Context, values ...any) (int64, error) {
	db, err := ds.database()
	if err != nil {
		return 0, err
	}
	query, err := ds.InsertSQL(values...)
	if err != nil {
		return 0, err
	}
	return db.ExecuteInsert(ctx, query)
}

// Update runs an UPDATE and returns the number of affected rows.
func (ds *Dataset) Update(ctx context.Context, values any) (int64, error) {
	db, err := ds.database()
	if err != nil {
		return 0, err
	}
	query, err := ds.UpdateSQL(values)
	if err != nil {
		return 0, err
	}
	return db.Execute(ctx, query)
}

// Delete runs a DELETE and returns the number of affected rows.
func (ds *Dataset) Delete(ctx context.Context) (int64, error) {
	db, err := ds.database()
	if err != nil {
		return 0, err
	}
	query, err := ds.DeleteSQL()
	if err != nil {
		return 0, err
	}
	return db.Execute(ctx, query)
}

// Truncate removes every row of the dataset's table.
func (ds *Dataset) Truncate(ctx context.Context) error {
	db, err := ds.database()
	if err != nil {
		return err
	}
	query, err := ds.TruncateSQL()
	if err != nil {
		return err
	}
	_, err = db.Execute(ctx, query)
	return err
}

// toInt64 converts a driver value holding an integer.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("unexpected count value of type %T", v)
}

var _ types.Queryable = (*Dataset)(nil)
