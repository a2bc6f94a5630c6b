// Package ops holds the closed, compiled-in vocabulary of built-in Datalog operations:
// the coarse type kinds, the overload table of intrinsic functors, aggregate operators
// and binary constraint operators.
package ops

import (
	"slices"

	"github.com/hashicorp/go-set/v3"
)

// Kind is the coarse classification of a type used for overload matching.
//
// The declaration order is significant: it is the fixed ordering used to rank
// overload candidates.
type Kind int

const (
	Symbol Kind = iota
	Signed
	Unsigned
	Float
	Record
	ADT
)

func (k Kind) String() string {
	switch k {
	case Symbol:
		return "Symbol"
	case Signed:
		return "Signed"
	case Unsigned:
		return "Unsigned"
	case Float:
		return "Float"
	case Record:
		return "Record"
	case ADT:
		return "ADT"
	default:
		return "Kind(?)"
	}
}

// Primitive reports whether values of k are stored as a single primitive value
func (k Kind) Primitive() bool {
	return k == Symbol || k == Signed || k == Unsigned || k == Float
}

// Numeric reports whether k is one of Signed, Unsigned or Float
func (k Kind) Numeric() bool {
	return k == Signed || k == Unsigned || k == Float
}

// PrimitiveKinds lists the kinds which have a constant type, in Kind order
var PrimitiveKinds = []Kind{Symbol, Signed, Unsigned, Float}

// NumericKinds lists the numeric kinds, in Kind order
var NumericKinds = []Kind{Signed, Unsigned, Float}

// KindSet is a set of kinds
type KindSet = set.Set[Kind]

func NewKindSet(kinds ...Kind) *KindSet {
	return set.From(kinds)
}

// UniversalKinds is the kind set of an expression that is not constrained at all
func UniversalKinds() *KindSet {
	return NewKindSet(Signed, Unsigned, Float, Symbol, Record)
}

// SortedKinds returns the members of s in Kind order
func SortedKinds(s *KindSet) []Kind {
	kinds := s.Slice()
	slices.Sort(kinds)
	return kinds
}
