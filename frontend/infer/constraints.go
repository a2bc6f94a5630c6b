package infer

import (
	"fmt"
	"strings"

	"github.com/cottand/dltype/frontend/constraint"
	"github.com/cottand/dltype/frontend/ops"
	"github.com/cottand/dltype/frontend/types"
)

// typeVar is the type variable of an argument of a clause.
// All occurrences of a named variable share one typeVar
type typeVar struct {
	name     string
	position int
	// label renders the argument in traces
	label string
}

func (v typeVar) String() string {
	if v.name != "" {
		return v.name
	}
	return fmt.Sprintf("<%s>#%d", v.label, v.position)
}

type (
	assignment     = constraint.Assignment[typeVar, types.TypeSet]
	typeConstraint = constraint.Constraint[typeVar, types.TypeSet]
)

func typeConstraintFunc(description string, fn func(a *assignment) bool) typeConstraint {
	return constraint.Func[typeVar, types.TypeSet]{Description: description, Fn: fn}
}

// narrow sets v to next, and reports whether that changed anything
func narrow(a *assignment, v typeVar, next types.TypeSet) bool {
	if a.Get(v).Equal(next) {
		return false
	}
	a.Set(v, next)
	return true
}

// isSubtypeOfType requires the type of v to be a subtype of t
func isSubtypeOfType(v typeVar, t types.Type) typeConstraint {
	bound := types.NewTypeSet(t)
	return typeConstraintFunc(fmt.Sprintf("%v <: %v", v, t.Name()), func(a *assignment) bool {
		return narrow(a, v, types.GreatestCommonSubtypesOf(a.Get(v), bound))
	})
}

// isSubtypeOf requires the type of l to be a subtype of the type of r
func isSubtypeOf(l, r typeVar) typeConstraint {
	return typeConstraintFunc(fmt.Sprintf("%v <: %v", l, r), func(a *assignment) bool {
		return narrow(a, l, types.GreatestCommonSubtypesOf(a.Get(l), a.Get(r)))
	})
}

// hasSupertypeIn requires the type of v to be a subtype of one of candidates
func hasSupertypeIn(v typeVar, candidates types.TypeSet) typeConstraint {
	return typeConstraintFunc(fmt.Sprintf("%v <: one of %v", v, candidates), func(a *assignment) bool {
		current := a.Get(v)
		if current.IsAll() {
			return narrow(a, v, candidates)
		}
		return narrow(a, v, current.Filter(current, func(t types.Type) bool {
			return types.HasSupertypeIn(t, candidates)
		}))
	})
}

func baseTypes(s types.TypeSet) types.TypeSet {
	var bases []types.Type
	for t := range s.All() {
		if base, ok := types.BaseType(t); ok {
			bases = append(bases, base)
		}
	}
	return types.NewTypeSet(bases...)
}

// subtypesOfTheSameBaseType requires l and r to have a common base type, like
// both being numbers, while letting each keep its own subtype
func subtypesOfTheSameBaseType(l, r typeVar) typeConstraint {
	return typeConstraintFunc(fmt.Sprintf("%v ~ %v", l, r), func(a *assignment) bool {
		left, right := a.Get(l), a.Get(r)
		switch {
		case left.IsAll() && right.IsAll():
			return false
		case left.IsAll():
			return narrow(a, l, baseTypes(right))
		case right.IsAll():
			return narrow(a, r, baseTypes(left))
		}
		common := types.Intersection(baseTypes(left), baseTypes(right))
		underCommon := func(t types.Type) bool { return types.HasSupertypeIn(t, common) }
		changedLeft := narrow(a, l, left.Filter(left, underCommon))
		changedRight := narrow(a, r, right.Filter(right, underCommon))
		return changedLeft || changedRight
	})
}

// isSubtypeOfComponent requires element to be a subtype of field index of record,
// which is a record with arity fields
func isSubtypeOfComponent(element, record typeVar, index, arity int) typeConstraint {
	return typeConstraintFunc(fmt.Sprintf("%v <: %v.%d", element, record, index), func(a *assignment) bool {
		records := a.Get(record)
		if records.IsAll() {
			return false
		}
		var validRecords, fieldTypes []types.Type
		for t := range records.All() {
			asRecord, ok := types.SkipAliases(t).(*types.RecordType)
			if !ok || asRecord.Arity() != arity {
				continue
			}
			validRecords = append(validRecords, t)
			fieldTypes = append(fieldTypes, asRecord.Fields()[index].Type)
		}
		changedRecord := narrow(a, record, types.NewTypeSet(validRecords...))
		elementTypes := types.GreatestCommonSubtypesOf(a.Get(element), types.NewTypeSet(fieldTypes...))
		changedElement := narrow(a, element, elementTypes)
		return changedRecord || changedElement
	})
}

// satisfiesOverload requires the result and arguments of a functor call to match one of candidates.
// Once a single candidate remains, its kinds narrow the result and the arguments
func satisfiesOverload(env *types.Environment, candidates []*ops.IntrinsicFunctorInfo, result typeVar, args []typeVar) typeConstraint {
	argNames := make([]string, len(args))
	for i, arg := range args {
		argNames[i] = arg.String()
	}
	description := fmt.Sprintf("%v = overload(%s)", result, strings.Join(argNames, ", "))

	subtypesOf := func(s types.TypeSet, kind ops.Kind) types.TypeSet {
		return types.GreatestCommonSubtypesOf(s, types.NewTypeSet(env.ConstantType(kind)))
	}
	return typeConstraintFunc(description, func(a *assignment) bool {
		possible := func(kind ops.Kind, v typeVar) bool {
			current := a.Get(v)
			return current.IsAll() || current.Any(func(t types.Type) bool { return types.KindOf(t) == kind })
		}
		var surviving []*ops.IntrinsicFunctorInfo
	candidateLoop:
		for _, candidate := range candidates {
			if !candidate.AcceptsArity(len(args)) || !possible(candidate.Result, result) {
				continue
			}
			for i, arg := range args {
				if !possible(candidate.ParamKind(i), arg) {
					continue candidateLoop
				}
			}
			surviving = append(surviving, candidate)
		}

		switch len(surviving) {
		case 0:
			return narrow(a, result, types.NewTypeSet())
		case 1:
			overload := surviving[0]
			changed := false
			// ord accepts values of any kind, including records which have no constant type
			if overload.Op != ops.ORD {
				for i, arg := range args {
					changed = narrow(a, arg, subtypesOf(a.Get(arg), overload.ParamKind(i))) || changed
				}
			}
			return narrow(a, result, subtypesOf(a.Get(result), overload.Result)) || changed
		default:
			return false
		}
	})
}
