package dataset_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zoobzio/dataset"
	"github.com/zoobzio/dataset/internal/render"
	"github.com/zoobzio/dataset/sqlite"
	dstesting "github.com/zoobzio/dataset/testing"
)

// newMockDatabase returns a generic-dialect database backed by sqlmock with
// exact SQL matching, and the observed debug logs.
func newMockDatabase(t *testing.T, d dataset.Dialect) (*dataset.Database, sqlmock.Sqlmock, *observer.ObservedLogs) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	core, logs := observer.New(zapcore.DebugLevel)
	if d == nil {
		d = dataset.NewGeneric()
	}
	return dataset.NewDatabase(sqlDB, d, dataset.WithLogger(zap.New(core))), mock, logs
}

func TestDatabase_All(t *testing.T) {
	db, mock, logs := newMockDatabase(t, nil)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT "id", "name" FROM "users" WHERE ("active" IS TRUE) ORDER BY "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "alice").AddRow(int64(2), "bob"))

	rows, err := db.From("users").
		Select("id", "name").
		Where(dataset.Hash{{Key: "active", Value: true}}).
		Order("id").
		All(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, dataset.Row{"id": int64(1), "name": "alice"}, rows[0])
	assert.Equal(t, "bob", rows[1]["name"])
	require.NoError(t, mock.ExpectationsWereMet())

	entries := logs.FilterMessage("executed statement").All()
	require.Len(t, entries, 1)
	assert.Equal(t, `SELECT "id", "name" FROM "users" WHERE ("active" IS TRUE) ORDER BY "id"`, entries[0].ContextMap()["sql"])
	assert.Equal(t, "generic", entries[0].ContextMap()["dialect"])
}

func TestDatabase_FirstAndGet(t *testing.T) {
	db, mock, _ := newMockDatabase(t, nil)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT * FROM "users" LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	row, err := db.From("users").First(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), row["id"])

	mock.ExpectQuery(`SELECT * FROM "users" LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	row, err = db.From("users").First(ctx)
	require.NoError(t, err)
	assert.Nil(t, row)

	mock.ExpectQuery(`SELECT "name" FROM "users" WHERE ("id" = 7) LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("carol"))
	v, err := db.From("users").Where(dataset.Hash{{Key: "id", Value: 7}}).Get(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, "carol", v)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Each_StopsOnError(t *testing.T) {
	db, mock, _ := newMockDatabase(t, nil)
	stop := errors.New("stop")

	mock.ExpectQuery(`SELECT * FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)))

	seen := 0
	err := db.From("users").Each(context.Background(), func(dataset.Row) error {
		seen++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, seen)
}

func TestDatabase_Count(t *testing.T) {
	db, mock, _ := newMockDatabase(t, nil)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT count(*) AS "count" FROM "users" WHERE ("age" > 18)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))
	n, err := db.From("users").Where(dataset.Gt("age", 18)).Order("id").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	mock.ExpectQuery(`SELECT count(*) AS "count" FROM (SELECT * FROM "users" LIMIT 5) AS "t1"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow("5"))
	n, err = db.From("users").Limit(5).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	mock.ExpectQuery(`SELECT count(*) AS "count" FROM (SELECT DISTINCT "age" FROM "users") AS "t1"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	n, err = db.From("users").Select("age").Distinct().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Modifications(t *testing.T) {
	db, mock, _ := newMockDatabase(t, nil)
	ctx := context.Background()
	users := db.From("users")

	mock.ExpectExec(`INSERT INTO "users" ("name") VALUES ('dave')`).
		WillReturnResult(sqlmock.NewResult(12, 1))
	id, err := users.Insert(ctx, dataset.Hash{{Key: "name", Value: "dave"}})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	mock.ExpectExec(`UPDATE "users" SET "name" = 'eve' WHERE ("id" = 12)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	n, err := users.Where(dataset.Hash{{Key: "id", Value: 12}}).Update(ctx, dataset.Hash{{Key: "name", Value: "eve"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mock.ExpectExec(`DELETE FROM "users" WHERE ("id" IN (1, 2))`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	n, err = users.Where(dataset.Hash{{Key: "id", Value: []any{1, 2}}}).Delete(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	mock.ExpectExec(`TRUNCATE TABLE "users"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, users.Truncate(ctx))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_InsertWithoutLastInsertID(t *testing.T) {
	db, mock, logs := newMockDatabase(t, nil)

	mock.ExpectExec(`INSERT INTO "users" DEFAULT VALUES`).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("LastInsertId is not supported by this driver")))
	id, err := db.From("users").Insert(context.Background())
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Equal(t, 1, logs.FilterMessage("last insert id unavailable").Len())
}

func TestDatabase_EngineErrors(t *testing.T) {
	db, mock, logs := newMockDatabase(t, nil)
	boom := errors.New("relation \"missing\" does not exist")

	mock.ExpectQuery(`SELECT * FROM "missing"`).WillReturnError(boom)
	_, err := db.From("missing").All(context.Background())

	var stmtErr dataset.InvalidStatementError
	require.ErrorAs(t, err, &stmtErr)
	assert.Equal(t, `SELECT * FROM "missing"`, stmtErr.SQL)
	assert.ErrorIs(t, err, boom)

	failures := logs.FilterMessage("statement failed")
	require.Equal(t, 1, failures.Len())
	assert.Equal(t, zapcore.ErrorLevel, failures.All()[0].Level)

	mock.ExpectExec(`DELETE FROM "missing"`).WillReturnError(boom)
	_, err = db.Execute(context.Background(), `DELETE FROM "missing"`)
	require.ErrorAs(t, err, &stmtErr)
}

func TestDatabase_RenderErrorsSkipEngine(t *testing.T) {
	db, mock, _ := newMockDatabase(t, nil)

	_, err := db.From("users").Limit(0).All(context.Background())
	var exprErr dataset.InvalidExpressionError
	require.ErrorAs(t, err, &exprErr)

	_, err = db.From("users").Distinct("age").All(context.Background())
	var featErr dataset.UnsupportedDialectFeatureError
	require.ErrorAs(t, err, &featErr)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_OutputCasing(t *testing.T) {
	d := render.NewBase()
	d.Caps.IdentifierOutput = render.CasingLower
	db, mock, _ := newMockDatabase(t, &d)

	mock.ExpectQuery(`SELECT * FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"ID", "Name"}).AddRow(int64(1), []byte("alice")))
	rows, err := db.From("users").All(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["id"])
	assert.Equal(t, []byte("alice"), rows[0]["name"])
}

func TestDatabase_MaterializedSubquery(t *testing.T) {
	db, mock, _ := newMockDatabase(t, sqlite.New())

	mock.ExpectQuery(`SELECT "a", "b" FROM "pairs"`).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b"}).AddRow(int64(1), int64(2)))
	mock.ExpectQuery(`SELECT * FROM "users" WHERE (("a" = 1) AND ("b" = 2))`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	pairs := db.From("pairs").Select("a", "b")
	rows, err := db.From("users").Where(dataset.In([]any{"a", "b"}, pairs)).All(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	require.NoError(t, mock.ExpectationsWereMet())

	// Without a database the sub-query cannot be expanded.
	_, err = dataset.New(sqlite.New()).From("users").Where(dataset.In([]any{"a", "b"}, pairs)).SelectSQL()
	var featErr dataset.UnsupportedDialectFeatureError
	require.ErrorAs(t, err, &featErr)
}

func TestDatabase_SingleValue(t *testing.T) {
	db, mock, _ := newMockDatabase(t, nil)

	mock.ExpectQuery(`SELECT max(id) FROM users WHERE age > $1`).
		WithArgs(30).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(9)))
	v, err := db.SingleValue(context.Background(), `SELECT max(id) FROM users WHERE age > $1`, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(9), v)

	mock.ExpectQuery(`SELECT 1 WHERE false`).WillReturnRows(sqlmock.NewRows([]string{"x"}))
	v, err = db.SingleValue(context.Background(), `SELECT 1 WHERE false`)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDatabase_Ping(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := dataset.NewDatabase(sqlDB, dataset.NewGeneric())

	require.NoError(t, db.Ping(context.Background()))
	assert.Same(t, sqlDB, db.DB())
	assert.Equal(t, "generic", db.Dialect().Name())

	mock.ExpectClose()
	require.NoError(t, db.Close())
	var stmtErr dataset.InvalidStatementError
	require.ErrorAs(t, db.Ping(context.Background()), &stmtErr)
}

func TestDataset_Unbound(t *testing.T) {
	ds := dataset.New(dataset.NewGeneric()).From("users")
	ctx := context.Background()

	_, err := ds.All(ctx)
	assert.ErrorIs(t, err, dataset.ErrNoDatabase)
	_, err = ds.Count(ctx)
	assert.ErrorIs(t, err, dataset.ErrNoDatabase)
	_, err = ds.Insert(ctx)
	assert.ErrorIs(t, err, dataset.ErrNoDatabase)
	assert.Nil(t, ds.Database())
}

func TestDatabase_LiteralRoundTrip(t *testing.T) {
	db := dstesting.OpenSQLite(t)
	ctx := context.Background()
	ds := db.Dataset()

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"int", 42, int64(42)},
		{"negative int", -7, int64(-7)},
		{"large int", int64(9007199254740993), int64(9007199254740993)},
		{"float", 1.5, 1.5},
		{"true", true, int64(1)},
		{"false", false, int64(0)},
		{"null", nil, nil},
		{"string", "plain", "plain"},
		{"embedded quote", "it's", "it's"},
		{"doubled quotes", "''", "''"},
		{"backslash", `a\b\`, `a\b\`},
		{"quote and backslash", `\'`, `\'`},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit, err := ds.Literal(tt.value)
			require.NoError(t, err)

			got, err := db.SingleValue(ctx, "SELECT "+lit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "literal %s", lit)
		})
	}
}
