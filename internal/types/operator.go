package types

// Operator represents an SQL operator carried by a ComplexExpression.
type Operator string

const (
	// Comparison operators.
	EQ Operator = "="
	NE Operator = "!="
	GT Operator = ">"
	GE Operator = ">="
	LT Operator = "<"
	LE Operator = "<="

	// Pattern operators.
	LIKE       Operator = "LIKE"
	NotLike    Operator = "NOT LIKE"
	ILIKE      Operator = "ILIKE"
	NotILike   Operator = "NOT ILIKE"
	RegexMatch Operator = "~"
	NotRegex   Operator = "!~"

	// Inclusion and identity operators.
	IN    Operator = "IN"
	NotIn Operator = "NOT IN"
	IS    Operator = "IS"
	IsNot Operator = "IS NOT"

	// Boolean composition.
	AND Operator = "AND"
	OR  Operator = "OR"
	NOT Operator = "NOT"

	// Arithmetic and string concatenation.
	Add    Operator = "+"
	Sub    Operator = "-"
	Mul    Operator = "*"
	Div    Operator = "/"
	Mod    Operator = "%"
	Concat Operator = "||"

	// Bitwise operators.
	BitAnd        Operator = "&"
	BitOr         Operator = "|"
	BitXor        Operator = "^"
	ShiftLeft     Operator = "<<"
	ShiftRight    Operator = ">>"
	BitComplement Operator = "B~"

	// NOOP wraps a single operand without adding operator semantics.
	NOOP Operator = "NOOP"
)

// OperatorClass groups operators by how they render.
type OperatorClass int

const (
	ClassUnknown OperatorClass = iota
	ClassTwoArity
	ClassNArity
	ClassOneArity
	ClassIs
	ClassIn
)

var operatorClasses = map[Operator]OperatorClass{
	EQ: ClassTwoArity, NE: ClassTwoArity, GT: ClassTwoArity, GE: ClassTwoArity,
	LT: ClassTwoArity, LE: ClassTwoArity,
	LIKE: ClassTwoArity, NotLike: ClassTwoArity, ILIKE: ClassTwoArity, NotILike: ClassTwoArity,
	RegexMatch: ClassTwoArity, NotRegex: ClassTwoArity,
	Mod: ClassTwoArity, BitAnd: ClassTwoArity, BitOr: ClassTwoArity, BitXor: ClassTwoArity,
	ShiftLeft: ClassTwoArity, ShiftRight: ClassTwoArity,

	AND: ClassNArity, OR: ClassNArity, Concat: ClassNArity,
	Add: ClassNArity, Sub: ClassNArity, Mul: ClassNArity, Div: ClassNArity,

	NOT: ClassOneArity, BitComplement: ClassOneArity, NOOP: ClassOneArity,

	IS: ClassIs, IsNot: ClassIs,
	IN: ClassIn, NotIn: ClassIn,
}

// Class returns the rendering class of the operator, ClassUnknown for
// anything outside the recognized sets.
func (op Operator) Class() OperatorClass {
	return operatorClasses[op]
}

// Inverse returns the logical negation of a comparison operator, if one exists.
func (op Operator) Inverse() (Operator, bool) {
	inv, ok := operatorInverses[op]
	return inv, ok
}

var operatorInverses = map[Operator]Operator{
	EQ: NE, NE: EQ, GT: LE, LE: GT, LT: GE, GE: LT,
	LIKE: NotLike, NotLike: LIKE, ILIKE: NotILike, NotILike: ILIKE,
	RegexMatch: NotRegex, NotRegex: RegexMatch,
	IN: NotIn, NotIn: IN, IS: IsNot, IsNot: IS,
	AND: OR, OR: AND,
}

// Direction represents sort direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// NullsPlacement controls NULLS FIRST / NULLS LAST in an ORDER BY item.
type NullsPlacement string

const (
	NullsDefault NullsPlacement = ""
	NullsFirst   NullsPlacement = "NULLS FIRST"
	NullsLast    NullsPlacement = "NULLS LAST"
)

// JoinType represents the type of SQL join.
type JoinType string

const (
	InnerJoin       JoinType = "INNER JOIN"
	LeftJoin        JoinType = "LEFT OUTER JOIN"
	RightJoin       JoinType = "RIGHT OUTER JOIN"
	FullJoin        JoinType = "FULL OUTER JOIN"
	CrossJoin       JoinType = "CROSS JOIN"
	NaturalJoin     JoinType = "NATURAL JOIN"
	LeftNaturalJoin JoinType = "NATURAL LEFT JOIN"
)

// CompoundType represents a set operation between SELECT statements.
type CompoundType string

const (
	Union     CompoundType = "UNION"
	Intersect CompoundType = "INTERSECT"
	Except    CompoundType = "EXCEPT"
)

// LockMode represents a row-level locking clause.
type LockMode string

const (
	ForUpdate      LockMode = "FOR UPDATE"
	ForShare       LockMode = "FOR SHARE"
	ForNoKeyUpdate LockMode = "FOR NO KEY UPDATE"
	ForKeyShare    LockMode = "FOR KEY SHARE"
)

// WindowFrame is one of the recognized frame keywords; a plain string frame
// is rendered verbatim.
type WindowFrame string

const (
	FrameAll  WindowFrame = "all"
	FrameRows WindowFrame = "rows"
)

// CastType is a dialect-independent cast target. Dialects map it to their
// own type names; a plain string cast target passes through unchanged.
type CastType string

const (
	CastString    CastType = "string"
	CastInteger   CastType = "integer"
	CastFloat     CastType = "float"
	CastDecimal   CastType = "decimal"
	CastDate      CastType = "date"
	CastTimestamp CastType = "timestamp"
	CastTime      CastType = "time"
	CastBoolean   CastType = "boolean"
	CastBlob      CastType = "blob"
)
