// Package infer assigns types to the arguments of the clauses of a Datalog program,
// and resolves its polymorphic functors, constants, aggregates and comparisons.
//
// Type inference is a global fixpoint: the types of each clause are solved
// from the resolutions of the previous iteration, and new resolutions are
// picked from the types, until no resolution changes.
package infer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ops"
	"github.com/cottand/dltype/frontend/types"
	"github.com/pkg/errors"
)

// Analysis owns the state of the type inference of one program
type Analysis struct {
	program *ast.Program
	env     *types.Environment
	config  Config
	logger  *slog.Logger

	res           *Resolutions
	keys          map[ast.Node]NodeKey
	argumentTypes map[ast.Argument]types.TypeSet
	clauseTypes   []*ClauseTypes
	iterations    int

	// only kept when config.Debug is set
	annotatedClauses []*ast.Clause
	logs             strings.Builder
}

func New(program *ast.Program, env *types.Environment, config Config) *Analysis {
	config = config.withDefaults()
	keys := make(map[ast.Node]NodeKey)
	for c, clause := range program.Clauses {
		for position, n := range ast.IndexNodes(clause).All() {
			keys[n] = NodeKey{Clause: c, Position: position}
		}
	}
	return &Analysis{
		program:       program,
		env:           env,
		config:        config,
		logger:        ast.NodeLogger(config.Logger).With("section", "typeinference"),
		res:           NewResolutions(),
		keys:          keys,
		argumentTypes: make(map[ast.Argument]types.TypeSet),
	}
}

// keyOf returns the position of a node of one of the clauses of the program
func (a *Analysis) keyOf(n ast.Node) NodeKey {
	k, ok := a.keys[n]
	if !ok {
		panic(errors.Errorf("%v at %v is not part of the analysed program", n, n.Loc()))
	}
	return k
}

// resolvedIn looks n up in one of the resolution maps. Nodes outside the program are never resolved
func resolvedIn[V any](a *Analysis, resolutions map[NodeKey]V, n ast.Node) (V, bool) {
	k, ok := a.keys[n]
	if !ok {
		var zero V
		return zero, false
	}
	v, ok := resolutions[k]
	return v, ok
}

func (a *Analysis) resolvedFunctor(f *ast.IntrinsicFunctor) (*ops.IntrinsicFunctorInfo, bool) {
	return resolvedIn(a, a.res.functors, f)
}

func (a *Analysis) resolvedConstant(nc *ast.NumericConstant) (ast.NumericType, bool) {
	return resolvedIn(a, a.res.constants, nc)
}

func (a *Analysis) resolvedAggregator(agg *ast.IntrinsicAggregator) (ops.AggregateOp, bool) {
	return resolvedIn(a, a.res.aggregators, agg)
}

func (a *Analysis) resolvedComparison(bc *ast.BinaryConstraint) (ops.BinaryConstraintOp, bool) {
	return resolvedIn(a, a.res.comparisons, bc)
}

// Run iterates type inference and overload resolution until no resolution changes.
//
// It returns an error wrapping ErrNotConverged if that takes more than Config.MaxIterations.
// Type errors in the program do not make Run fail: see Check.
func (a *Analysis) Run() error {
	a.iterations = 0
	a.logs.Reset()
	for changed := true; changed; {
		if a.iterations >= a.config.MaxIterations {
			return errors.Wrapf(ErrNotConverged, "resolutions still changing after %d iterations", a.iterations)
		}
		a.iterations++
		a.analyseClauses()

		changed = false
		for _, pass := range refinementPasses {
			passChanged := pass.refine(a, a.res)
			if passChanged {
				a.logger.Debug("resolutions changed", "pass", pass.name, "iteration", a.iterations)
			}
			changed = changed || passChanged
		}
	}
	a.logger.Info("type analysis converged", "iterations", a.iterations, "clauses", len(a.program.Clauses))
	return nil
}

func (a *Analysis) analyseClauses() {
	clear(a.argumentTypes)
	a.clauseTypes = a.clauseTypes[:0]
	a.annotatedClauses = nil

	for c, clause := range a.program.Clauses {
		var trace io.Writer
		if a.config.Debug {
			trace = &a.logs
			fmt.Fprintf(&a.logs, "Clause: %v\n", clause)
		}
		ct := AnalyseClause(a.env, a.program, a.res, c, clause, trace)
		for i := range ct.Len() {
			arg, ts := ct.At(i)
			a.argumentTypes[arg] = ts
		}
		a.clauseTypes = append(a.clauseTypes, ct)
		if a.config.Debug {
			a.annotatedClauses = append(a.annotatedClauses, annotatedClause(clause, ct))
		}
	}
}

// Iterations is the number of iterations the last Run took
func (a *Analysis) Iterations() int { return a.iterations }

func (a *Analysis) Program() *ast.Program { return a.program }

func (a *Analysis) Environment() *types.Environment { return a.env }

// Resolutions returns the current resolutions. They must not be modified
func (a *Analysis) Resolutions() *Resolutions { return a.res }

// Types returns the TypeSet of an argument of one of the analysed clauses
func (a *Analysis) Types(arg ast.Argument) types.TypeSet {
	ts, ok := a.argumentTypes[arg]
	if !ok {
		panic(errors.Errorf("argument %v at %v was not analysed", arg, arg.Loc()))
	}
	return ts
}

// TypeAttributes returns the kinds arg may have: the return kind of a functor with
// valid type information, or else the kinds of its TypeSet
func (a *Analysis) TypeAttributes(arg ast.Argument) *ops.KindSet {
	switch arg.(type) {
	case *ast.IntrinsicFunctor, *ast.UserDefinedFunctor:
		if a.HasValidTypeInfo(arg) {
			return ops.NewKindSet(a.FunctorReturnKind(arg))
		}
	}
	return types.Kinds(a.Types(arg))
}

// HasValidTypeInfo reports whether the resolution or declaration that types arg is available.
// Calls to undeclared user-defined functors are not valid, rather than failures
func (a *Analysis) HasValidTypeInfo(arg ast.Argument) bool {
	switch arg := arg.(type) {
	case *ast.IntrinsicFunctor:
		_, ok := a.resolvedFunctor(arg)
		return ok
	case *ast.UserDefinedFunctor:
		_, ok := validDeclaration(a.env, a.program, arg.Name)
		return ok
	case *ast.UserDefinedAggregator:
		_, ok := validDeclaration(a.env, a.program, arg.Name)
		return ok
	case *ast.NumericConstant:
		_, ok := a.resolvedConstant(arg)
		return ok
	case *ast.IntrinsicAggregator:
		_, ok := a.resolvedAggregator(arg)
		return ok
	case *ast.Variable, *ast.UnnamedVariable, *ast.StringConstant, *ast.NilConstant, *ast.RecordInit,
		*ast.BranchInit, *ast.TypeCast, *ast.Counter, *ast.IterationCounter:
		return true
	default:
		panic(ast.Unsupported("HasValidTypeInfo", arg))
	}
}

// HasValidDeclTypeInfo reports whether every type in the signature of decl is defined
func (a *Analysis) HasValidDeclTypeInfo(decl *ast.FunctorDeclaration) bool {
	return declarationTypesKnown(a.env, decl)
}

func (a *Analysis) mustDeclaration(node ast.Node, name string) *ast.FunctorDeclaration {
	decl, ok := validDeclaration(a.env, a.program, name)
	if !ok {
		panic(errors.Errorf("%v at %v has no valid declaration", node, node.Loc()))
	}
	return decl
}

func (a *Analysis) mustFunctorInfo(f *ast.IntrinsicFunctor) *ops.IntrinsicFunctorInfo {
	info, ok := a.resolvedFunctor(f)
	if !ok {
		panic(errors.Errorf("functor %v at %v is not resolved", f, f.Loc()))
	}
	return info
}

// FunctorReturnKind returns the kind of the result of an intrinsic or user-defined functor
func (a *Analysis) FunctorReturnKind(f ast.Argument) ops.Kind {
	switch f := f.(type) {
	case *ast.IntrinsicFunctor:
		return a.mustFunctorInfo(f).Result
	case *ast.UserDefinedFunctor:
		return types.KindOf(a.FunctorReturnType(f))
	default:
		panic(errors.Errorf("%v is not a functor", f))
	}
}

// FunctorParamKind returns the kind the functor f expects for its argument i
func (a *Analysis) FunctorParamKind(f ast.Argument, i int) ops.Kind {
	switch f := f.(type) {
	case *ast.IntrinsicFunctor:
		return a.mustFunctorInfo(f).ParamKind(i)
	case *ast.UserDefinedFunctor:
		return types.KindOf(a.FunctorParamType(f, i))
	default:
		panic(errors.Errorf("%v is not a functor", f))
	}
}

func (a *Analysis) FunctorReturnType(f *ast.UserDefinedFunctor) types.Type {
	return a.env.MustLookupType(a.mustDeclaration(f, f.Name).Return.Type)
}

func (a *Analysis) FunctorParamType(f *ast.UserDefinedFunctor, i int) types.Type {
	return a.env.MustLookupType(a.mustDeclaration(f, f.Name).Params[i].Type)
}

func (a *Analysis) UserFunctorParamKinds(f *ast.UserDefinedFunctor) []ops.Kind {
	decl := a.mustDeclaration(f, f.Name)
	kinds := make([]ops.Kind, len(decl.Params))
	for i, param := range decl.Params {
		kinds[i] = types.KindOf(a.env.MustLookupType(param.Type))
	}
	return kinds
}

// IsStatefulFunctor reports whether f was declared stateful
func (a *Analysis) IsStatefulFunctor(f *ast.UserDefinedFunctor) bool {
	return a.mustDeclaration(f, f.Name).Stateful
}

// IsMultiResultFunctor reports whether the resolved overload of f produces several values per call
func (a *Analysis) IsMultiResultFunctor(f *ast.IntrinsicFunctor) bool {
	return a.mustFunctorInfo(f).Multiple
}

func (a *Analysis) AggregatorReturnType(agg *ast.UserDefinedAggregator) types.Type {
	return a.env.MustLookupType(a.mustDeclaration(agg, agg.Name).Return.Type)
}

func (a *Analysis) AggregatorReturnKind(agg *ast.UserDefinedAggregator) ops.Kind {
	return types.KindOf(a.AggregatorReturnType(agg))
}

// AggregatorParamType is the type of the accumulator (i = 0) or of the aggregated values (i = 1)
func (a *Analysis) AggregatorParamType(agg *ast.UserDefinedAggregator, i int) types.Type {
	return a.env.MustLookupType(a.mustDeclaration(agg, agg.Name).Params[i].Type)
}

func (a *Analysis) AggregatorParamKinds(agg *ast.UserDefinedAggregator) []ops.Kind {
	decl := a.mustDeclaration(agg, agg.Name)
	kinds := make([]ops.Kind, len(decl.Params))
	for i, param := range decl.Params {
		kinds[i] = types.KindOf(a.env.MustLookupType(param.Type))
	}
	return kinds
}

// FunctorOp returns the concrete operation f was resolved to
func (a *Analysis) FunctorOp(f *ast.IntrinsicFunctor) ops.FunctorOp {
	return a.mustFunctorInfo(f).Op
}

// AggregateOp returns the concrete operator agg was resolved to
func (a *Analysis) AggregateOp(agg *ast.IntrinsicAggregator) ops.AggregateOp {
	op, ok := a.resolvedAggregator(agg)
	if !ok {
		panic(errors.Errorf("aggregate %v at %v is not resolved", agg, agg.Loc()))
	}
	return op
}

// ConstraintOp returns the concrete operator bc was resolved to
func (a *Analysis) ConstraintOp(bc *ast.BinaryConstraint) ops.BinaryConstraintOp {
	op, ok := a.resolvedComparison(bc)
	if !ok {
		panic(errors.Errorf("comparison %v at %v is not resolved", bc, bc.Loc()))
	}
	return op
}

// NumericConstantKind returns the numeric type nc was resolved to
func (a *Analysis) NumericConstantKind(nc *ast.NumericConstant) ast.NumericType {
	t, ok := a.resolvedConstant(nc)
	if !ok {
		panic(errors.Errorf("constant %v at %v is not resolved", nc, nc.Loc()))
	}
	return t
}

// NumericConstantKinds returns a copy of the numeric type of every resolved constant
func (a *Analysis) NumericConstantKinds() map[*ast.NumericConstant]ast.NumericType {
	kinds := make(map[*ast.NumericConstant]ast.NumericType)
	for nc := range ast.All[*ast.NumericConstant](a.program) {
		if t, ok := a.resolvedConstant(nc); ok {
			kinds[nc] = t
		}
	}
	return kinds
}
