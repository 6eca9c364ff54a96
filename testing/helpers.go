// Package testing provides test utilities for dataset.
package testing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/dbml"

	"github.com/zoobzio/dataset"
)

// TestCatalog creates a catalog for the schema created by OpenSQLite.
// Includes users, posts, orders, and products tables.
func TestCatalog(t *testing.T) *dataset.Catalog {
	t.Helper()

	project := dbml.NewProject("test")

	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "integer"))
	users.AddColumn(dbml.NewColumn("username", "varchar"))
	users.AddColumn(dbml.NewColumn("email", "varchar"))
	users.AddColumn(dbml.NewColumn("age", "int"))
	users.AddColumn(dbml.NewColumn("active", "boolean"))
	project.AddTable(users)

	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "integer"))
	posts.AddColumn(dbml.NewColumn("user_id", "integer"))
	posts.AddColumn(dbml.NewColumn("title", "varchar"))
	posts.AddColumn(dbml.NewColumn("views", "int"))
	project.AddTable(posts)

	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "integer"))
	orders.AddColumn(dbml.NewColumn("user_id", "integer"))
	orders.AddColumn(dbml.NewColumn("total", "numeric"))
	orders.AddColumn(dbml.NewColumn("status", "varchar"))
	project.AddTable(orders)

	products := dbml.NewTable("products")
	products.AddColumn(dbml.NewColumn("id", "integer"))
	products.AddColumn(dbml.NewColumn("name", "varchar"))
	products.AddColumn(dbml.NewColumn("price", "numeric"))
	products.AddColumn(dbml.NewColumn("category", "varchar"))
	project.AddTable(products)

	catalog, err := dataset.NewCatalog(project)
	if err != nil {
		t.Fatalf("Failed to create test catalog: %v", err)
	}
	return catalog
}

// Schema is the SQLite DDL matching TestCatalog.
var Schema = []string{
	`CREATE TABLE users (id INTEGER PRIMARY KEY, username TEXT NOT NULL, email TEXT, age INTEGER, active INTEGER NOT NULL DEFAULT 1)`,
	`CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL, title TEXT NOT NULL, views INTEGER NOT NULL DEFAULT 0)`,
	`CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL, total NUMERIC, status TEXT)`,
	`CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT NOT NULL, price NUMERIC, category TEXT)`,
}

// OpenSQLite opens an in-memory SQLite database with Schema applied. The
// database is closed when the test ends.
func OpenSQLite(t *testing.T) *dataset.Database {
	t.Helper()

	// A single connection keeps every statement on the same in-memory database.
	cfg := &dataset.Config{Dialect: "sqlite", DSN: ":memory:", MaxOpenConns: 1}
	db, err := dataset.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range Schema {
		if _, err := db.Execute(context.Background(), stmt); err != nil {
			t.Fatalf("Failed to create schema: %v", err)
		}
	}
	return db
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertRendered checks a render result: no error and the expected SQL.
func AssertRendered(t *testing.T, expected, actual string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected render error: %v", err)
	}
	AssertSQL(t, expected, actual)
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertErrorAs checks that err matches the error type E and returns it.
func AssertErrorAs[E error](t *testing.T, err error) E {
	t.Helper()
	var target E
	if !errors.As(err, &target) {
		t.Fatalf("Expected error of type %T, got: %v", target, err)
	}
	return target
}

// AssertPanics verifies that a function panics.
func AssertPanics(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic but function completed normally")
		}
	}()
	fn()
}

// AssertPanicsWithMessage verifies that a function panics with a specific message.
func AssertPanicsWithMessage(t *testing.T, fn func(), substr string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("Expected panic containing %q but function completed normally", substr)
			return
		}
		var msg string
		switch v := r.(type) {
		case error:
			msg = v.Error()
		case string:
			msg = v
		default:
			t.Errorf("Panic value is not string or error: %T", r)
			return
		}
		if !strings.Contains(msg, substr) {
			t.Errorf("Expected panic containing %q, got: %s", substr, msg)
		}
	}()
	fn()
}
