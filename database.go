package dataset

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/zoobzio/dataset/internal/render"
)

// Row is one result row keyed by column name. Keys pass through the
// dialect's output identifier casing.
type Row map[string]any

// Database executes rendered SQL on a *sql.DB for one dialect.
type Database struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger statements are logged to.
func WithLogger(logger *zap.Logger) Option {
	return func(db *Database) {
		if logger != nil {
			db.logger = logger
		}
	}
}

// NewDatabase wraps an open *sql.DB. The caller keeps ownership of
// connection pooling settings.
func NewDatabase(db *sql.DB, d Dialect, opts ...Option) *Database {
	database := &Database{db: db, dialect: d, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(database)
	}
	return database
}

// DB returns the underlying *sql.DB.
func (db *Database) DB() *sql.DB {
	return db.db
}

// Dialect returns the database's dialect.
func (db *Database) Dialect() Dialect {
	return db.dialect
}

// Close closes the underlying *sql.DB.
func (db *Database) Close() error {
	return db.db.Close()
}

// Ping verifies the connection.
func (db *Database) Ping(ctx context.Context) error {
	if err := db.db.PingContext(ctx); err != nil {
		return render.NewInvalidStatementError("", err)
	}
	return nil
}

// Dataset returns an empty dataset bound to the database.
func (db *Database) Dataset() *Dataset {
	ds := New(db.dialect)
	ds.db = db
	return ds
}

// From returns a dataset bound to the database selecting from sources.
func (db *Database) From(sources ...any) *Dataset {
	return db.Dataset().From(sources...)
}

// Execute runs a statement and returns the number of affected rows.
// Args may be ordered values or sql.Named values.
func (db *Database) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := db.exec(ctx, query, args)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, db.fail(query, err)
	}
	return n, nil
}

// ExecuteInsert runs an INSERT and returns the last inserted id. Drivers
// without LastInsertId support return 0.
func (db *Database) ExecuteInsert(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := db.exec(ctx, query, args)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		db.logger.Debug("last insert id unavailable", zap.String("dialect", db.dialect.Name()), zap.Error(err))
		return 0, nil
	}
	return id, nil
}

// ExecuteSelect runs a query and calls fn for every row. Iteration stops at
// the first error returned by fn.
func (db *Database) ExecuteSelect(ctx context.Context, query string, fn func(Row) error, args ...any) error {
	return db.query(ctx, query, args, func(columns []string, values []any) error {
		row := make(Row, len(columns))
		for i, c := range columns {
			row[c] = values[i]
		}
		return fn(row)
	})
}

// SingleValue runs a query and returns the first column of the first row,
// or nil when there are no rows.
func (db *Database) SingleValue(ctx context.Context, query string, args ...any) (any, error) {
	var value any
	found := false
	err := db.query(ctx, query, args, func(_ []string, values []any) error {
		if !found && len(values) > 0 {
			value = values[0]
			found = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Materialize runs a query and returns its rows positionally.
func (db *Database) Materialize(query string) ([][]any, error) {
	return db.MaterializerContext(context.Background()).Materialize(query)
}

// MaterializerContext returns a Materializer that runs queries under ctx.
func (db *Database) MaterializerContext(ctx context.Context) Materializer {
	return materializer{ctx: ctx, db: db}
}

type materializer struct {
	ctx context.Context
	db  *Database
}

func (m materializer) Materialize(query string) ([][]any, error) {
	var rows [][]any
	err := m.db.query(m.ctx, query, nil, func(_ []string, values []any) error {
		rows = append(rows, values)
		return nil
	})
	return rows, err
}

func (db *Database) exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	start := time.Now()
	res, err := db.db.ExecContext(ctx, query, args...)
	db.logStatement(query, start, err)
	if err != nil {
		return nil, db.fail(query, err)
	}
	return res, nil
}

// query runs a SELECT and hands each row to fn with column names already
// cased for output. Byte slices are copied out of the driver's buffers.
func (db *Database) query(ctx context.Context, query string, args []any, fn func([]string, []any) error) error {
	start := time.Now()
	rows, err := db.db.QueryContext(ctx, query, args...)
	db.logStatement(query, start, err)
	if err != nil {
		return db.fail(query, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return db.fail(query, err)
	}
	casing := db.dialect.Capabilities().IdentifierOutput
	columns := make([]string, len(names))
	for i, n := range names {
		columns[i] = render.ApplyCasing(casing, n)
	}

	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return db.fail(query, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = append([]byte(nil), b...)
			}
		}
		if err := fn(columns, values); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return db.fail(query, err)
	}
	return nil
}

func (db *Database) logStatement(query string, start time.Time, err error) {
	if err != nil {
		return
	}
	db.logger.Debug("executed statement",
		zap.String("dialect", db.dialect.Name()),
		zap.String("sql", query),
		zap.Duration("duration", time.Since(start)),
	)
}

// fail logs an engine error and wraps it as an InvalidStatementError.
// Context cancellation is wrapped too; errors.Is still reaches it.
func (db *Database) fail(query string, err error) error {
	var stmtErr InvalidStatementError
	if errors.As(err, &stmtErr) {
		return err
	}
	db.logger.Error("statement failed",
		zap.String("dialect", db.dialect.Name()),
		zap.String("sql", query),
		zap.Error(err),
	)
	return render.NewInvalidStatementError(query, err)
}
