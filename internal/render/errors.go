package render

import "fmt"

// UnsupportedDialectFeatureError indicates a feature not supported by the dialect.
type UnsupportedDialectFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedDialectFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// NewUnsupportedDialectFeatureError creates a new unsupported feature error.
func NewUnsupportedDialectFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedDialectFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// UnsupportedLiteralError indicates a value that cannot be rendered as SQL.
type UnsupportedLiteralError struct {
	Value any
}

func (e UnsupportedLiteralError) Error() string {
	return fmt.Sprintf("cannot literalize value of type %T: %#v", e.Value, e.Value)
}

// InvalidOperatorError indicates an unknown operator, or an operand the
// operator cannot accept.
type InvalidOperatorError struct {
	Operator string
	Reason   string
}

func (e InvalidOperatorError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid operator %q: %s", e.Operator, e.Reason)
	}
	return fmt.Sprintf("invalid operator %q", e.Operator)
}

// InvalidExpressionError indicates a structurally malformed expression or
// clause payload.
type InvalidExpressionError struct {
	Expression string
	Reason     string
}

func (e InvalidExpressionError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Expression, e.Reason)
}

// ModificationNotAllowedError indicates an UPDATE, DELETE, INSERT or
// TRUNCATE on a dataset whose shape does not permit it.
type ModificationNotAllowedError struct {
	Statement string
	Reason    string
}

func (e ModificationNotAllowedError) Error() string {
	return fmt.Sprintf("%s not allowed: %s", e.Statement, e.Reason)
}

// ColumnCountMismatchError indicates an INSERT whose column and value lists
// differ in length.
type ColumnCountMismatchError struct {
	Columns int
	Values  int
}

func (e ColumnCountMismatchError) Error() string {
	return fmt.Sprintf("different number of values and columns given to insert: %d columns, %d values", e.Columns, e.Values)
}

// InvalidStatementError wraps a database engine failure together with the
// SQL that caused it.
type InvalidStatementError struct {
	SQL   string
	Cause error
}

func (e InvalidStatementError) Error() string {
	return fmt.Sprintf("%v: %s", e.Cause, e.SQL)
}

func (e InvalidStatementError) Unwrap() error {
	return e.Cause
}

// NewInvalidStatementError wraps cause with the failing statement.
func NewInvalidStatementError(sql string, cause error) error {
	return InvalidStatementError{SQL: sql, Cause: cause}
}

func newInvalidOperatorError(op any, reason string) error {
	return InvalidOperatorError{Operator: fmt.Sprint(op), Reason: reason}
}

func newModificationError(statement, reason string) error {
	return ModificationNotAllowedError{Statement: statement, Reason: reason}
}
