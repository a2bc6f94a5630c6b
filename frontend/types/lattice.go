package types

import (
	"github.com/cottand/dltype/frontend/ops"
	"github.com/cottand/dltype/util"
	"github.com/pkg/errors"
)

// SkipAliases follows aliases until it reaches a type that is not one
func SkipAliases(t Type) Type {
	for {
		alias, ok := t.(*AliasType)
		if !ok {
			return t
		}
		t = alias.aliased
	}
}

// IsSubtypeOf reports whether every value of a is a value of b.
// Records and algebraic data types are only subtypes of themselves (and of unions containing them)
func IsSubtypeOf(a, b Type) bool {
	a, b = SkipAliases(a), SkipAliases(b)
	if a == b {
		return true
	}
	if union, ok := b.(*UnionType); ok {
		for _, e := range union.elements {
			if IsSubtypeOf(a, e) {
				return true
			}
		}
	}
	switch a := a.(type) {
	case *PrimitiveType:
		return IsSubtypeOf(a.constant, b)
	case *SubsetType:
		return IsSubtypeOf(a.base, b)
	case *UnionType:
		if len(a.elements) == 0 {
			return false
		}
		for _, e := range a.elements {
			if !IsSubtypeOf(e, b) {
				return false
			}
		}
		return true
	case *ConstantType, *RecordType, *AlgebraicDataType:
		return false
	default:
		panic(errors.Errorf("IsSubtypeOf: unsupported type %T", a))
	}
}

// HasSupertypeIn reports whether some type of candidates is a supertype of t
func HasSupertypeIn(t Type, candidates TypeSet) bool {
	if candidates.IsAll() {
		return true
	}
	return candidates.Any(func(c Type) bool { return IsSubtypeOf(t, c) })
}

// GreatestCommonSubtypes returns the largest types that are subtypes of both a and b
func GreatestCommonSubtypes(a, b Type) TypeSet {
	if IsSubtypeOf(a, b) {
		return NewTypeSet(a)
	}
	if IsSubtypeOf(b, a) {
		return NewTypeSet(b)
	}
	_, aIsUnion := SkipAliases(a).(*UnionType)
	_, bIsUnion := SkipAliases(b).(*UnionType)
	if !aIsUnion || !bIsUnion {
		return NewTypeSet()
	}
	var common []Type
	var collect func(t Type)
	collect = func(t Type) {
		if IsSubtypeOf(t, b) {
			common = append(common, t)
			return
		}
		if union, ok := SkipAliases(t).(*UnionType); ok {
			for _, e := range union.elements {
				collect(e)
			}
		}
	}
	collect(a)
	return NewTypeSet(common...)
}

// GreatestCommonSubtypesOf is GreatestCommonSubtypes lifted to sets, where the set of all types is the identity
func GreatestCommonSubtypesOf(a, b TypeSet) TypeSet {
	if a.IsAll() {
		return b
	}
	if b.IsAll() {
		return a
	}
	res := NewTypeSet()
	for x := range a.All() {
		for y := range b.All() {
			res = Union(res, GreatestCommonSubtypes(x, y))
		}
	}
	return res
}

// IsOfKind reports whether all values of t are of the given kind
func IsOfKind(t Type, kind ops.Kind) bool {
	switch t := t.(type) {
	case *ConstantType:
		return t.kind == kind
	case *PrimitiveType:
		return t.constant.kind == kind
	case *SubsetType:
		return IsOfKind(t.base, kind)
	case *AliasType:
		return IsOfKind(t.aliased, kind)
	case *UnionType:
		if len(t.elements) == 0 {
			return false
		}
		for _, e := range t.elements {
			if !IsOfKind(e, kind) {
				return false
			}
		}
		return true
	case *RecordType:
		return kind == ops.Record
	case *AlgebraicDataType:
		return kind == ops.ADT
	default:
		panic(errors.Errorf("IsOfKind: unsupported type %T", t))
	}
}

var allKinds = []ops.Kind{ops.Signed, ops.Unsigned, ops.Float, ops.Symbol, ops.Record, ops.ADT}

// KindOf returns the kind of t. Types of an Environment always have exactly one
func KindOf(t Type) ops.Kind {
	for _, k := range allKinds {
		if IsOfKind(t, k) {
			return k
		}
	}
	panic(errors.Errorf("type %v has no kind", t.Name()))
}

// HasKind reports whether some type of s is of the given kind
func HasKind(s TypeSet, kind ops.Kind) bool {
	return s.Any(func(t Type) bool { return IsOfKind(t, kind) })
}

// Kinds returns the kinds of the types of s, or every kind a value can have when s is all types
func Kinds(s TypeSet) *ops.KindSet {
	if s.IsAll() {
		return ops.UniversalKinds()
	}
	return util.SetFromSeq(util.MapIter(s.All(), KindOf), s.Len())
}

// BaseType returns the root of t's subset chain: the constant type of a primitive kind,
// or the type itself for records and algebraic data types.
// Unions have a base type only when all their elements share it
func BaseType(t Type) (Type, bool) {
	switch t := SkipAliases(t).(type) {
	case *ConstantType:
		return t, true
	case *PrimitiveType:
		return t.constant, true
	case *SubsetType:
		return BaseType(t.base)
	case *UnionType:
		var base Type
		for _, e := range t.elements {
			eBase, ok := BaseType(e)
			if !ok || (base != nil && eBase != base) {
				return nil, false
			}
			base = eBase
		}
		return base, base != nil
	case *RecordType, *AlgebraicDataType:
		return t, true
	default:
		panic(errors.Errorf("BaseType: unsupported type %T", t))
	}
}
