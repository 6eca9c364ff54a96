// Package dataset provides immutable, composable SQL datasets rendered for
// multiple database dialects.
//
// A Dataset describes one query. Every builder method returns a new Dataset
// and leaves the receiver untouched, so partially built datasets can be
// shared and extended freely. Rendering is a pure function of the dataset
// and its dialect; execution goes through a Database.
//
// # Basic Usage
//
//	import "github.com/zoobzio/dataset/postgres"
//
//	ds := dataset.New(postgres.New()).
//		From("items").
//		Where(dataset.Hash{{Key: "category", Value: "toys"}}).
//		Order(dataset.Desc("price")).
//		Limit(10)
//
//	sql, err := ds.SelectSQL()
//	// SELECT * FROM "items" WHERE ("category" = 'toys') ORDER BY "price" DESC LIMIT 10
//
// # Symbols
//
// Plain strings passed where a column or table is expected are symbolic
// references. A double underscore separates a qualifier from the name and a
// triple underscore introduces an alias:
//
//	"items__price___p"  ->  "items"."price" AS "p"
//
// Values on the right-hand side of a condition are always literals.
//
// # Execution
//
// A Database wraps a *sql.DB for one dialect:
//
//	db, err := dataset.Connect(ctx, cfg)
//	rows, err := db.From("items").Where("price > ?", 10).All(ctx)
//
// # Dialects
//
// Available dialects: sqlite, postgres, mysql, mariadb, mssql and a generic
// ANSI dialect. Features a dialect cannot express fail with
// UnsupportedDialectFeatureError instead of producing invalid SQL.
package dataset

import (
	"github.com/zoobzio/dataset/internal/render"
	"github.com/zoobzio/dataset/internal/types"
)

// Options is the immutable description of one query.
type Options = types.Options

// Expr is implemented by every expression node.
type Expr = types.Expr

// Symbol is a compact column or table reference such as "items__price___p".
type Symbol = types.Symbol

// LiteralString is trusted SQL text that is emitted verbatim.
type LiteralString = types.LiteralString

// Blob marks a byte slice as binary data.
type Blob = types.Blob

// Hash is an ordered column/value mapping.
type Hash = types.Hash

// Pair is one entry of a Hash.
type Pair = types.Pair

// Range is a value range usable as a condition value.
type Range = types.Range

// ValueList is an array always rendered as a parenthesized list.
type ValueList = types.ValueList

// Identifier is an unqualified column or table name.
type Identifier = types.Identifier

// QualifiedIdentifier is a column qualified by a table.
type QualifiedIdentifier = types.QualifiedIdentifier

// AliasedExpression renders an expression with an alias.
type AliasedExpression = types.AliasedExpression

// ComplexExpression applies an operator to its operands.
type ComplexExpression = types.ComplexExpression

// Function is a function call.
type Function = types.Function

// Window is a window specification.
type Window = types.Window

// WindowFunction is a function evaluated over a window.
type WindowFunction = types.WindowFunction

// OrderedExpression is an ORDER BY item.
type OrderedExpression = types.OrderedExpression

// CaseExpression is a CASE expression.
type CaseExpression = types.CaseExpression

// PlaceholderLiteral is an SQL template with placeholders.
type PlaceholderLiteral = types.PlaceholderLiteral

// Constant is an SQL constant keyword.
type Constant = types.Constant

// Operator represents an SQL operator.
type Operator = types.Operator

// Re-export operator constants for public API.
const (
	EQ         = types.EQ
	NE         = types.NE
	GT         = types.GT
	GE         = types.GE
	LT         = types.LT
	LE         = types.LE
	LIKE       = types.LIKE
	NotLike    = types.NotLike
	ILIKE      = types.ILIKE
	NotILike   = types.NotILike
	RegexMatch = types.RegexMatch
	NotRegex   = types.NotRegex
	IN         = types.IN
	NotInOp    = types.NotIn
	IS         = types.IS
	IsNotOp    = types.IsNot
	AND        = types.AND
	OR         = types.OR
	NOT        = types.NOT
	Plus       = types.Add
	Minus      = types.Sub
	Times      = types.Mul
	Divide     = types.Div
	Modulo     = types.Mod
	ConcatOp   = types.Concat
	BitAnd     = types.BitAnd
	BitOr      = types.BitOr
	BitXor     = types.BitXor
	ShiftLeft  = types.ShiftLeft
	ShiftRight = types.ShiftRight
)

// Re-export SQL constants.
const (
	CurrentDate      = types.CurrentDate
	CurrentTime      = types.CurrentTime
	CurrentTimestamp = types.CurrentTimestamp
)

// JoinType represents the type of SQL join.
type JoinType = types.JoinType

// Re-export join type constants.
const (
	InnerJoin       = types.InnerJoin
	LeftJoin        = types.LeftJoin
	RightJoin       = types.RightJoin
	FullJoin        = types.FullJoin
	CrossJoin       = types.CrossJoin
	NaturalJoin     = types.NaturalJoin
	LeftNaturalJoin = types.LeftNaturalJoin
)

// LockMode represents a row-level locking clause.
type LockMode = types.LockMode

// Re-export lock mode constants.
const (
	ForUpdate      = types.ForUpdate
	ForShare       = types.ForShare
	ForNoKeyUpdate = types.ForNoKeyUpdate
	ForKeyShare    = types.ForKeyShare
)

// NullsPlacement controls NULLS FIRST / NULLS LAST.
type NullsPlacement = types.NullsPlacement

// Re-export nulls placement constants.
const (
	NullsFirst = types.NullsFirst
	NullsLast  = types.NullsLast
)

// WindowFrame is a recognized window frame keyword.
type WindowFrame = types.WindowFrame

// Re-export window frame constants.
const (
	FrameAll  = types.FrameAll
	FrameRows = types.FrameRows
)

// CastType is a dialect-independent cast target.
type CastType = types.CastType

// Re-export cast type constants.
const (
	CastString    = types.CastString
	CastInteger   = types.CastInteger
	CastFloat     = types.CastFloat
	CastDecimal   = types.CastDecimal
	CastDate      = types.CastDate
	CastTimestamp = types.CastTimestamp
	CastTime      = types.CastTime
	CastBoolean   = types.CastBoolean
	CastBlob      = types.CastBlob
)

// Dialect is the capability interface implemented by every dialect.
type Dialect = render.Dialect

// Capabilities describes what a dialect supports.
type Capabilities = render.Capabilities

// Literalizer renders values and identifiers for custom literal types.
type Literalizer = render.Literalizer

// SQLLiteraler is implemented by values that render themselves.
type SQLLiteraler = render.SQLLiteraler

// Materializer runs a query and returns its rows as positional values.
type Materializer = render.Materializer

// MaxSubqueryDepth bounds sub-query nesting within one statement.
const MaxSubqueryDepth = render.MaxSubqueryDepth

// NewGeneric returns the generic ANSI dialect.
func NewGeneric() Dialect {
	b := render.NewBase()
	return &b
}
