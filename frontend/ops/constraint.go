package ops

import (
	"github.com/pkg/errors"
)

// BinaryConstraintOp is a comparison between two arguments of a rule
type BinaryConstraintOp int

const (
	EQ BinaryConstraintOp = iota
	NE
	LT
	LE
	GT
	GE

	FEQ
	FNE
	FLT
	FLE
	FGT
	FGE
	ULT
	ULE
	UGT
	UGE
	SLT
	SLE
	SGT
	SGE

	MATCH
	CONTAINS
	NOT_MATCH
	NOT_CONTAINS
)

var constraintOpSymbols = map[BinaryConstraintOp]string{
	EQ: "=", NE: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=",
	FEQ: "f=", FNE: "f!=", FLT: "f<", FLE: "f<=", FGT: "f>", FGE: "f>=",
	ULT: "u<", ULE: "u<=", UGT: "u>", UGE: "u>=",
	SLT: "s<", SLE: "s<=", SGT: "s>", SGE: "s>=",
	MATCH: "match", CONTAINS: "contains", NOT_MATCH: "not_match", NOT_CONTAINS: "not_contains",
}

func (op BinaryConstraintOp) String() string {
	if symbol, ok := constraintOpSymbols[op]; ok {
		return symbol
	}
	return "constraint(?)"
}

// ParseConstraintOp maps the surface syntax of a base comparison to its op
func ParseConstraintOp(symbol string) (BinaryConstraintOp, bool) {
	for op := EQ; op <= GE; op++ {
		if constraintOpSymbols[op] == symbol {
			return op, true
		}
	}
	for op := MATCH; op <= NOT_CONTAINS; op++ {
		if constraintOpSymbols[op] == symbol {
			return op, true
		}
	}
	return 0, false
}

// IsOverloadedConstraint reports whether op needs resolving to a concrete variant
func IsOverloadedConstraint(op BinaryConstraintOp) bool {
	return op >= EQ && op <= GE
}

// IsEqConstraint reports whether op is an equality, in any of its variants
func IsEqConstraint(op BinaryConstraintOp) bool {
	return op == EQ || op == FEQ
}

// IsSymbolicConstraint reports whether op only compares symbols
func IsSymbolicConstraint(op BinaryConstraintOp) bool {
	return op >= MATCH && op <= NOT_CONTAINS
}

// ConvertOverloadedConstraint picks the variant of op comparing values of kind.
// Equalities only have a distinct float variant.
func ConvertOverloadedConstraint(op BinaryConstraintOp, kind Kind) BinaryConstraintOp {
	if kind == Record || kind == ADT {
		panic(errors.Errorf("invalid binary constraint overload of %v for kind %v", op, kind))
	}
	switch op {
	case EQ, NE:
		if kind == Float {
			return op + (FEQ - EQ)
		}
		return op
	case LT, LE, GT, GE:
		switch kind {
		case Signed:
			return op
		case Float:
			return op + (FLT - LT)
		case Unsigned:
			return op + (ULT - LT)
		case Symbol:
			return op + (SLT - LT)
		}
	}
	panic(errors.Errorf("binary constraint operator %v is not overloaded", op))
}

// ConstraintKind is the kind of the operands a concrete comparison variant compares.
// It is false for the base operators, whose operand kind is yet to be resolved
func ConstraintKind(op BinaryConstraintOp) (Kind, bool) {
	switch {
	case op >= FEQ && op <= FGE:
		return Float, true
	case op >= ULT && op <= UGE:
		return Unsigned, true
	case op >= SLT && op <= SGE, IsSymbolicConstraint(op):
		return Symbol, true
	}
	return 0, false
}
