//go:build integration

package integration

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zoobzio/dataset"
)

// schema holds the per-dialect DDL for the shared tables.
type schema struct {
	drop   []string
	create []string
}

// setup recreates the shared tables and seeds three users and two posts.
func setup(ctx context.Context, t *testing.T, db *dataset.Database, s schema) {
	t.Helper()
	for _, stmt := range s.drop {
		_, _ = db.Execute(ctx, stmt)
	}
	for _, stmt := range s.create {
		_, err := db.Execute(ctx, stmt)
		require.NoError(t, err, stmt)
	}

	users := db.From("users")
	for _, u := range []dataset.Hash{
		{{Key: "username", Value: "alice"}, {Key: "email", Value: "alice@example.com"}, {Key: "age", Value: 30}, {Key: "active", Value: true}},
		{{Key: "username", Value: "bob"}, {Key: "email", Value: "bob@example.com"}, {Key: "age", Value: 25}, {Key: "active", Value: false}},
		{{Key: "username", Value: "carol"}, {Key: "email", Value: nil}, {Key: "age", Value: nil}, {Key: "active", Value: true}},
	} {
		_, err := users.Insert(ctx, u)
		require.NoError(t, err)
	}

	aliceID := idOf(ctx, t, db, "alice")
	bobID := idOf(ctx, t, db, "bob")
	posts := db.From("posts")
	_, err := posts.Insert(ctx, []any{"user_id", "title", "views"}, []any{aliceID, "hello", 10})
	require.NoError(t, err)
	_, err = posts.Insert(ctx, []any{"user_id", "title", "views"}, []any{bobID, "world", 3})
	require.NoError(t, err)
}

func idOf(ctx context.Context, t *testing.T, db *dataset.Database, username string) int64 {
	t.Helper()
	v, err := db.From("users").Where(dataset.Hash{{Key: "username", Value: username}}).Order("id").Get(ctx, "id")
	require.NoError(t, err)
	return asInt(t, v)
}

// asInt normalizes the integer representations drivers return.
func asInt(t *testing.T, v any) int64 {
	t.Helper()
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		require.NoError(t, err)
		return i
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		require.NoError(t, err)
		return i
	}
	t.Fatalf("unexpected integer value %#v (%T)", v, v)
	return 0
}

func asString(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	s, _ := v.(string)
	return s
}

// runSuite exercises the dialect-independent behavior against db.
func runSuite(t *testing.T, db *dataset.Database, s schema) {
	ctx := context.Background()
	setup(ctx, t, db, s)
	users := db.From("users")

	t.Run("count", func(t *testing.T) {
		n, err := users.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(3), n)
	})

	t.Run("is null", func(t *testing.T) {
		n, err := users.Where(dataset.Hash{{Key: "age", Value: nil}}).Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
	})

	t.Run("is true", func(t *testing.T) {
		n, err := users.Where(dataset.Hash{{Key: "active", Value: true}}).Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(2), n)

		n, err = users.Exclude(dataset.Hash{{Key: "active", Value: true}}).Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
	})

	t.Run("empty in list", func(t *testing.T) {
		n, err := users.Where(dataset.Hash{{Key: "username", Value: []any{}}}).Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(0), n)

		n, err = users.Exclude(dataset.Hash{{Key: "username", Value: []any{}}}).Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(3), n)
	})

	t.Run("placeholders", func(t *testing.T) {
		n, err := users.Where("age > ? AND username <> ?", 20, "bob").Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
	})

	t.Run("order and limit", func(t *testing.T) {
		rows, err := users.Order(dataset.Desc("username")).Limit(2).All(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, "carol", asString(rows[0]["username"]))
		require.Equal(t, "bob", asString(rows[1]["username"]))

		rows, err = users.Order("username").Limit(2, 1).All(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, "bob", asString(rows[0]["username"]))
	})

	t.Run("sub-query in", func(t *testing.T) {
		active := users.Select("id").Where(dataset.Hash{{Key: "active", Value: true}})
		n, err := db.From("posts").Where(dataset.Hash{{Key: "user_id", Value: active}}).Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
	})

	t.Run("multi-column in", func(t *testing.T) {
		cond := dataset.In([]any{"username", "age"}, []any{[]any{"alice", 30}, []any{"bob", 99}})
		n, err := users.Where(cond).Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
	})

	t.Run("join", func(t *testing.T) {
		rows, err := db.From("posts").
			InnerJoin("users", dataset.Hash{{Key: "id", Value: "user_id"}}).
			Select("posts__title", "users__username").
			Order("posts__title").
			All(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, "alice", asString(rows[0]["username"]))
	})

	t.Run("union all", func(t *testing.T) {
		a := users.Select("username").Where(dataset.Hash{{Key: "active", Value: true}})
		b := users.Select("username").Where(dataset.Gt("age", 26))
		n, err := a.UnionAll(b).Count(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(3), n)
	})

	t.Run("prepared", func(t *testing.T) {
		p := users.Where(dataset.Hash{{Key: "username", Value: dataset.Bind("name")}}).Prepare(dataset.SelectStatement)
		res, err := p.Call(ctx, map[string]any{"name": "alice"})
		require.NoError(t, err)
		require.Len(t, res.Rows, 1)

		res, err = p.Call(ctx, map[string]any{"name": "nobody"})
		require.NoError(t, err)
		require.Empty(t, res.Rows)
	})

	t.Run("update", func(t *testing.T) {
		bob := users.Where(dataset.Hash{{Key: "username", Value: "bob"}})
		n, err := bob.Update(ctx, dataset.Hash{{Key: "age", Value: 26}})
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		v, err := bob.Order("id").Get(ctx, "age")
		require.NoError(t, err)
		require.Equal(t, int64(26), asInt(t, v))
	})

	t.Run("engine errors", func(t *testing.T) {
		_, err := db.From("missing_table").All(ctx)
		var stmtErr dataset.InvalidStatementError
		require.True(t, errors.As(err, &stmtErr), "got %v", err)
		require.NotEmpty(t, stmtErr.SQL)
	})

	t.Run("delete", func(t *testing.T) {
		n, err := users.Where(dataset.Hash{{Key: "username", Value: "carol"}}).Delete(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)
	})

	t.Run("truncate", func(t *testing.T) {
		require.NoError(t, db.From("posts").Truncate(ctx))
		n, err := db.From("posts").Count(ctx)
		require.NoError(t, err)
		require.Zero(t, n)
	})
}
