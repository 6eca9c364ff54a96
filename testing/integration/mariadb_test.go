//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zoobzio/dataset"
)

var mariadbSchema = schema{
	drop: []string{`DROP TABLE IF EXISTS posts`, `DROP TABLE IF EXISTS users`},
	create: []string{
		`CREATE TABLE users (id INT AUTO_INCREMENT PRIMARY KEY, username VARCHAR(64) NOT NULL, email VARCHAR(255), age INT, active BOOLEAN NOT NULL)`,
		`CREATE TABLE posts (id INT AUTO_INCREMENT PRIMARY KEY, user_id INT NOT NULL, title VARCHAR(255) NOT NULL, views INT NOT NULL)`,
	},
}

func TestMariaDBIntegration_Suite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	runSuite(t, getMariaDB(t), mariadbSchema)
}

func TestMariaDBIntegration_UpdateWithJoin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	db := getMariaDB(t)
	setup(ctx, t, db, mariadbSchema)

	ds := db.From("posts").
		InnerJoin("users", dataset.Hash{{Key: "id", Value: "user_id"}}).
		Where(dataset.Hash{{Key: "users__username", Value: "alice"}})
	n, err := ds.Update(ctx, dataset.Hash{{Key: "posts__views", Value: 0}})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	n, err = ds.Delete(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestMariaDBIntegration_InsertReturnsID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	db := getMariaDB(t)
	setup(ctx, t, db, mariadbSchema)

	id, err := db.From("users").Insert(ctx, map[string]any{"username": "dave", "active": true})
	require.NoError(t, err)
	require.Equal(t, int64(4), id)
}
