package infer

import (
	"slices"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ops"
	"github.com/cottand/dltype/frontend/types"
	"github.com/pkg/errors"
)

// refinementPass picks resolutions from the types of the current iteration,
// and reports whether any resolution changed
type refinementPass struct {
	name   string
	refine func(a *Analysis, res *Resolutions) bool
}

// refinementPasses run in this order on every iteration. All of them run,
// even when an earlier one already changed something
var refinementPasses = []refinementPass{
	{name: "functors", refine: resolveFunctors},
	{name: "numeric constants", refine: resolveNumericConstants},
	{name: "aggregators", refine: resolveAggregators},
	{name: "binary constraints", refine: resolveComparisons},
}

// ValidIntrinsicFunctorOverloads returns the overloads of f compatible with the
// kinds of its arguments and result, best first
func (a *Analysis) ValidIntrinsicFunctorOverloads(f *ast.IntrinsicFunctor) []*ops.IntrinsicFunctorInfo {
	var candidates []*ops.IntrinsicFunctorInfo
	if info, ok := a.resolvedFunctor(f); ok {
		candidates = ops.FunctorBuiltInOp(info.Op)
	} else {
		candidates = ops.FunctorBuiltIn(f.Symbol)
	}

	returnKinds := a.TypeAttributes(f)
	argKinds := make([]*ops.KindSet, len(f.Args))
	for i, arg := range f.Args {
		argKinds[i] = a.TypeAttributes(arg)
	}

	candidates = slices.DeleteFunc(candidates, func(candidate *ops.IntrinsicFunctorInfo) bool {
		if !candidate.AcceptsArity(len(f.Args)) || !returnKinds.Contains(candidate.Result) {
			return true
		}
		for i := range f.Args {
			if !argKinds[i].Contains(candidate.ParamKind(i)) {
				return true
			}
		}
		return false
	})
	slices.SortStableFunc(candidates, ops.CompareCandidates)
	return candidates
}

// operandHasKind reports whether some type of arg has kind. A numeric constant that is
// already resolved only has the kind it was resolved to, so that a comparison or aggregate
// over literals agrees with the literals themselves
func (a *Analysis) operandHasKind(arg ast.Argument, kind ops.Kind) bool {
	if nc, ok := arg.(*ast.NumericConstant); ok {
		if t, ok := a.resolvedConstant(nc); ok {
			return t.Kind() == kind
		}
	}
	return types.HasKind(a.Types(arg), kind)
}

func resolveFunctors(a *Analysis, res *Resolutions) bool {
	changed := false
	for f := range ast.All[*ast.IntrinsicFunctor](a.program) {
		candidates := a.ValidIntrinsicFunctorOverloads(f)
		key := a.keyOf(f)
		previous, had := res.functors[key]
		if len(candidates) == 0 {
			if had {
				delete(res.functors, key)
				changed = true
			}
			continue
		}
		if !had || previous != candidates[0] {
			a.logger.Debug("resolved functor", "functor", ast.Slog(f), "op", candidates[0].Op)
			res.functors[key] = candidates[0]
			changed = true
		}
	}
	return changed
}

func resolveNumericConstants(a *Analysis, res *Resolutions) bool {
	changed := false
	for nc := range ast.All[*ast.NumericConstant](a.program) {
		next, ok := nc.FixedType()
		if !ok {
			ts := a.Types(nc)
			ok = true
			switch {
			case types.HasKind(ts, ops.Signed):
				next = ast.Int
			case types.HasKind(ts, ops.Unsigned):
				next = ast.Uint
			case types.HasKind(ts, ops.Float):
				next = ast.Float
			default:
				ok = false
			}
		}

		key := a.keyOf(nc)
		previous, had := res.constants[key]
		if !ok {
			if had {
				delete(res.constants, key)
				changed = true
			}
			continue
		}
		if !had || previous != next {
			res.constants[key] = next
			changed = true
		}
	}
	return changed
}

func resolveAggregators(a *Analysis, res *Resolutions) bool {
	changed := false
	for agg := range ast.All[*ast.IntrinsicAggregator](a.program) {
		key := a.keyOf(agg)
		previous, had := res.aggregators[key]
		if !ops.IsOverloadedAggregator(agg.Op) {
			if had && previous != agg.Op {
				panic(errors.Errorf("aggregate %v at %v was resolved to %v, but it is not overloaded", agg, agg.Loc(), previous))
			}
			if !had {
				res.aggregators[key] = agg.Op
				changed = true
			}
			continue
		}

		kind := ops.Signed
		if agg.Target != nil {
			switch {
			case a.operandHasKind(agg.Target, ops.Float):
				kind = ops.Float
			case a.operandHasKind(agg.Target, ops.Unsigned):
				kind = ops.Unsigned
			}
		}
		next := ops.ConvertOverloadedAggregator(agg.Op, kind)
		if !had || previous != next {
			res.aggregators[key] = next
			changed = true
		}
	}
	return changed
}

func resolveComparisons(a *Analysis, res *Resolutions) bool {
	changed := false
	for bc := range ast.All[*ast.BinaryConstraint](a.program) {
		next := bc.Op
		if ops.IsOverloadedConstraint(bc.Op) {
			both := func(kind ops.Kind) bool { return a.operandHasKind(bc.LHS, kind) && a.operandHasKind(bc.RHS, kind) }
			kind := ops.Signed
			switch {
			case both(ops.Float):
				kind = ops.Float
			case both(ops.Unsigned):
				kind = ops.Unsigned
			case both(ops.Symbol):
				kind = ops.Symbol
			}
			next = ops.ConvertOverloadedConstraint(bc.Op, kind)
		}
		key := a.keyOf(bc)
		if previous, had := res.comparisons[key]; !had || previous != next {
			res.comparisons[key] = next
			changed = true
		}
	}
	return changed
}
