package render

// RowLockingLevel indicates the level of row-level locking support.
type RowLockingLevel int

const (
	RowLockingNone  RowLockingLevel = iota // No row locking
	RowLockingBasic                        // FOR UPDATE, FOR SHARE
	RowLockingFull                         // + FOR NO KEY UPDATE, FOR KEY SHARE
)

// Casing is an identifier case transform applied on input (before quoting)
// or on output (to column names read back from the database).
type Casing int

const (
	CasingNone Casing = iota
	CasingLower
	CasingUpper
)

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	MultiColumnIn      bool            // (a, b) IN ((1, 2), ...)
	IsTrue             bool            // x IS TRUE / x IS FALSE
	WindowFunctions    bool            // OVER (...), WINDOW clause
	ModifyingJoins     bool            // UPDATE/DELETE across joined tables
	TimestampUsecs     bool            // fractional seconds in timestamp literals
	TimestampTimezones bool            // numeric UTC offset in timestamp literals
	StandardDatetimes  bool            // TIMESTAMP '...' / DATE '...' literal prefixes
	QuoteIdentifiers   bool            // wrap identifiers with QuoteIdentifier
	IdentifierInput    Casing          // casing applied before quoting
	IdentifierOutput   Casing          // casing applied to result column names
	TimestampPrecision int             // fractional digits, 0 means 6
	DistinctOn         bool            // DISTINCT ON (field, ...)
	CTE                bool            // WITH name AS (...)
	IntersectExcept    bool            // INTERSECT, EXCEPT
	IntersectExceptAll bool            // INTERSECT ALL, EXCEPT ALL
	DefaultValues      bool            // INSERT INTO t DEFAULT VALUES
	Truncate           bool            // TRUNCATE TABLE (otherwise DELETE FROM)
	RowLocking         RowLockingLevel // FOR UPDATE/SHARE support
}

// DefaultCapabilities returns the flags of the generic SQL dialect.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		MultiColumnIn:      true,
		IsTrue:             true,
		TimestampUsecs:     true,
		QuoteIdentifiers:   true,
		TimestampPrecision: 6,
		CTE:                true,
		IntersectExcept:    true,
		IntersectExceptAll: true,
		DefaultValues:      true,
		Truncate:           true,
		RowLocking:         RowLockingBasic,
	}
}

// precision returns the effective fractional-second width.
func (c Capabilities) precision() int {
	if c.TimestampPrecision <= 0 || c.TimestampPrecision > 9 {
		return 6
	}
	return c.TimestampPrecision
}
