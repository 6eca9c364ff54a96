package dataset

import "github.com/zoobzio/dataset/internal/render"

// Error types are re-exported so callers can match them with errors.As
// without importing internal packages.
type (
	// UnsupportedDialectFeatureError indicates a feature the dialect cannot express.
	UnsupportedDialectFeatureError = render.UnsupportedDialectFeatureError

	// UnsupportedLiteralError indicates a value with no SQL literal form.
	UnsupportedLiteralError = render.UnsupportedLiteralError

	// InvalidOperatorError indicates an unknown operator or wrong operand count.
	InvalidOperatorError = render.InvalidOperatorError

	// InvalidExpressionError indicates a structurally invalid expression.
	InvalidExpressionError = render.InvalidExpressionError

	// ModificationNotAllowedError indicates a statement that cannot be
	// generated for the dataset's shape.
	ModificationNotAllowedError = render.ModificationNotAllowedError

	// ColumnCountMismatchError indicates an INSERT whose columns and values differ in length.
	ColumnCountMismatchError = render.ColumnCountMismatchError

	// InvalidStatementError wraps a failure reported by the database engine.
	InvalidStatementError = render.InvalidStatementError
)

// NewUnsupportedDialectFeatureError creates a new unsupported feature error.
func NewUnsupportedDialectFeatureError(dialect, feature string, hint ...string) error {
	return render.NewUnsupportedDialectFeatureError(dialect, feature, hint...)
}
