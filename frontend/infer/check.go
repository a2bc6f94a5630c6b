package infer

import (
	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ilerr"
	"github.com/cottand/dltype/util"
)

// Check reports the type errors of a program whose analysis has run.
// It never stops at the first error: all of them are accumulated
func Check(a *Analysis) *ilerr.Errors {
	var errs *ilerr.Errors
	for _, decl := range a.program.Functors {
		if missing, ok := unknownDeclarationType(a.env, decl); ok {
			errs = errs.With(ilerr.New(ilerr.NewInvalidFunctorDeclaration{Positioner: decl, Name: decl.Name, TypeName: missing}))
		}
	}
	for _, clause := range a.program.Clauses {
		errs = errs.Merge(a.checkClause(clause))
	}
	if errs.HasError() {
		a.logger.Debug("type errors found", "count", len(errs.Errors()))
	}
	return errs
}

func (a *Analysis) checkClause(clause *ast.Clause) *ilerr.Errors {
	var errs *ilerr.Errors
	reportedVars := util.NewEmptySet[string]()
	empty := func(arg ast.Argument) bool {
		ts, ok := a.argumentTypes[arg]
		return ok && ts.Empty()
	}
	unresolvable := func(arg ast.Argument) {
		errs = errs.With(ilerr.New(ilerr.NewUnresolvableType{Positioner: arg, Argument: arg.String()}))
	}

	ast.Walk(clause, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Clause, *ast.Negation, *ast.BinaryConstraint:
		case *ast.Atom:
			relation, ok := a.program.Relation(n.Name)
			if !ok {
				errs = errs.With(ilerr.New(ilerr.NewUndefinedRelation{Positioner: n, Name: n.Name}))
			} else if relation.Arity() != len(n.Args) {
				errs = errs.With(ilerr.New(ilerr.NewArityMismatch{Positioner: n, Name: n.Name, Expected: relation.Arity(), Got: len(n.Args)}))
			}

		case *ast.Variable:
			if empty(n) && !reportedVars.Contains(n.Name) {
				reportedVars.Add(n.Name)
				unresolvable(n)
			}
		case *ast.NumericConstant:
			if _, ok := a.resolvedConstant(n); !ok {
				errs = errs.With(ilerr.New(ilerr.NewUnresolvedConstant{Positioner: n, Value: n.Value}))
			} else if empty(n) {
				unresolvable(n)
			}
		case *ast.IntrinsicFunctor:
			if _, ok := a.resolvedFunctor(n); !ok {
				errs = errs.With(ilerr.New(ilerr.NewNoFunctorOverload{Positioner: n, Symbol: n.Symbol, Arity: len(n.Args)}))
			} else if empty(n) {
				unresolvable(n)
			}
		case *ast.UserDefinedFunctor:
			errs = errs.Merge(a.checkUserCall(n, n.Name, len(n.Args)))
			if empty(n) {
				unresolvable(n)
			}
		case *ast.UserDefinedAggregator:
			errs = errs.Merge(a.checkUserCall(n, n.Name, 2))
			if empty(n) {
				unresolvable(n)
			}
		case *ast.BranchInit:
			if _, ok := a.env.BranchType(n.Branch); !ok {
				errs = errs.With(ilerr.New(ilerr.NewUndefinedBranch{Positioner: n, Name: n.Branch}))
			} else if empty(n) {
				unresolvable(n)
			}
		case *ast.TypeCast:
			if !a.env.IsType(n.Type) {
				errs = errs.With(ilerr.New(ilerr.NewUndefinedType{Positioner: n, Name: n.Type, In: n.String()}))
			} else if empty(n) {
				unresolvable(n)
			}
		case *ast.UnnamedVariable, *ast.StringConstant, *ast.NilConstant, *ast.Counter, *ast.IterationCounter,
			*ast.RecordInit, *ast.IntrinsicAggregator:
			if arg := n.(ast.Argument); empty(arg) {
				unresolvable(arg)
			}
		default:
			panic(ast.Unsupported("type checking", n))
		}
		return true
	})
	return errs
}

// checkUserCall reports calls to user-defined functors or aggregates that were never declared,
// or that pass a different number of arguments than declared.
// Declarations with unknown types are reported once, by Check
func (a *Analysis) checkUserCall(call ast.Node, name string, arity int) *ilerr.Errors {
	decl, ok := a.program.FunctorDeclaration(name)
	if !ok {
		return (*ilerr.Errors)(nil).With(ilerr.New(ilerr.NewUndeclaredFunctor{Positioner: call, Name: name}))
	}
	if decl.Arity() != arity {
		return (*ilerr.Errors)(nil).With(ilerr.New(ilerr.NewArityMismatch{Positioner: call, Name: name, Expected: decl.Arity(), Got: arity}))
	}
	return nil
}
