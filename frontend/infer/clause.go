package infer

import (
	"io"
	"strconv"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/constraint"
	"github.com/cottand/dltype/frontend/ops"
	"github.com/cottand/dltype/frontend/types"
	"github.com/pkg/errors"
)

// ClauseTypes holds the TypeSet of every argument of one clause,
// by the canonical position of the argument in the clause
type ClauseTypes struct {
	index *ast.ArgumentIndex
	types []types.TypeSet
}

func (ct *ClauseTypes) Len() int { return len(ct.types) }

// At returns the argument at position i and its TypeSet
func (ct *ClauseTypes) At(i int) (ast.Argument, types.TypeSet) {
	return ct.index.At(i), ct.types[i]
}

// Of returns the TypeSet of arg, which must be an argument of the analysed clause
func (ct *ClauseTypes) Of(arg ast.Argument) types.TypeSet {
	return ct.types[ct.index.MustPosition(arg)]
}

// Rebind returns the same TypeSets keyed by the arguments of clone, a copy of the analysed clause
func (ct *ClauseTypes) Rebind(clone *ast.Clause) *ClauseTypes {
	index := ast.IndexArguments(clone)
	if index.Len() != ct.index.Len() {
		panic(errors.Errorf("cannot rebind the types of a clause with %d arguments to a clause with %d", ct.index.Len(), index.Len()))
	}
	return &ClauseTypes{index: index, types: ct.types}
}

// AnalyseClause solves the type constraints of clause, given the declared types and the current resolutions.
// at is the index of clause in program.Clauses, and the clause may be a clone of it.
//
// It never fails: an argument whose uses are incompatible gets an empty TypeSet.
// When trace is not nil, the constraint solving is logged to it.
func AnalyseClause(env *types.Environment, program *ast.Program, res *Resolutions, at int, clause *ast.Clause, trace io.Writer) *ClauseTypes {
	c := &clauseAnalyser{
		env:     env,
		program: program,
		res:     res,
		at:      at,
		nodes:   ast.IndexNodes(clause),
		index:   ast.IndexArguments(clause),
		problem: constraint.NewProblem[typeVar, types.TypeSet](types.AllTypes),
	}
	ast.Walk(clause, func(n ast.Node) bool {
		c.constrain(n)
		return true
	})
	solution := c.problem.Solve(trace)

	ct := &ClauseTypes{index: c.index, types: make([]types.TypeSet, c.index.Len())}
	for i, arg := range c.index.All() {
		ct.types[i] = solution.Get(c.varOf(arg))
	}
	return ct
}

type clauseAnalyser struct {
	env     *types.Environment
	program *ast.Program
	res     *Resolutions
	at      int
	nodes   *ast.Index[ast.Node]
	index   *ast.ArgumentIndex
	problem *constraint.Problem[typeVar, types.TypeSet]
}

func (c *clauseAnalyser) varOf(arg ast.Argument) typeVar {
	if v, ok := arg.(*ast.Variable); ok {
		return typeVar{name: v.Name, position: -1}
	}
	return typeVar{position: c.index.MustPosition(arg), label: arg.String()}
}

func (c *clauseAnalyser) key(n ast.Node) NodeKey {
	return NodeKey{Clause: c.at, Position: c.nodes.MustPosition(n)}
}

func (c *clauseAnalyser) varsOf(args []ast.Argument) []typeVar {
	vars := make([]typeVar, len(args))
	for i, arg := range args {
		vars[i] = c.varOf(arg)
	}
	return vars
}

func (c *clauseAnalyser) add(constraints ...typeConstraint) {
	c.problem.Add(constraints...)
}

func (c *clauseAnalyser) constantType(kind ops.Kind) types.Type {
	return c.env.ConstantType(kind)
}

func (c *clauseAnalyser) constrain(n ast.Node) {
	switch n := n.(type) {
	case *ast.Clause, *ast.Negation:
		// their atoms and arguments are constrained on their own
	case *ast.Atom:
		c.constrainAtom(n)
	case *ast.BinaryConstraint:
		c.constrainComparison(n)

	case *ast.Variable, *ast.UnnamedVariable:
	case *ast.NumericConstant:
		c.constrainNumericConstant(n)
	case *ast.StringConstant:
		c.add(isSubtypeOfType(c.varOf(n), c.constantType(ops.Symbol)))
	case *ast.NilConstant:
		c.add(hasSupertypeIn(c.varOf(n), c.env.RecordTypes(-1)))
	case *ast.Counter:
		c.add(isSubtypeOfType(c.varOf(n), c.constantType(ops.Signed)))
	case *ast.IterationCounter:
		c.add(isSubtypeOfType(c.varOf(n), c.constantType(ops.Unsigned)))
	case *ast.IntrinsicFunctor:
		c.constrainIntrinsicFunctor(n)
	case *ast.UserDefinedFunctor:
		c.constrainUserFunctor(n)
	case *ast.IntrinsicAggregator:
		c.constrainIntrinsicAggregator(n)
	case *ast.UserDefinedAggregator:
		c.constrainUserAggregator(n)
	case *ast.TypeCast:
		if t, ok := c.env.LookupType(n.Type); ok {
			c.add(isSubtypeOfType(c.varOf(n), t))
		}
	case *ast.RecordInit:
		record := c.varOf(n)
		c.add(hasSupertypeIn(record, c.env.RecordTypes(len(n.Args))))
		for i, arg := range n.Args {
			c.add(isSubtypeOfComponent(c.varOf(arg), record, i, len(n.Args)))
		}
	case *ast.BranchInit:
		c.constrainBranch(n)
	default:
		panic(ast.Unsupported("type constraints", n))
	}
}

func (c *clauseAnalyser) constrainAtom(atom *ast.Atom) {
	relation, ok := c.program.Relation(atom.Name)
	if !ok || relation.Arity() != len(atom.Args) {
		return
	}
	for i, arg := range atom.Args {
		if t, ok := c.env.LookupType(relation.Attributes[i].Type); ok {
			c.add(isSubtypeOfType(c.varOf(arg), t))
		}
	}
}

func (c *clauseAnalyser) constrainComparison(bc *ast.BinaryConstraint) {
	lhs, rhs := c.varOf(bc.LHS), c.varOf(bc.RHS)
	op := bc.Op
	if resolved, ok := c.res.Comparison(c.key(bc)); ok {
		op = resolved
	}
	if kind, ok := ops.ConstraintKind(op); ok {
		c.add(isSubtypeOfType(lhs, c.constantType(kind)), isSubtypeOfType(rhs, c.constantType(kind)))
	}
	if ops.IsSymbolicConstraint(op) {
		return
	}
	if ops.IsEqConstraint(op) {
		c.add(isSubtypeOf(lhs, rhs), isSubtypeOf(rhs, lhs))
		return
	}
	c.add(subtypesOfTheSameBaseType(lhs, rhs))
}

// parsesAs reports whether the literal value can be represented with type t
func parsesAs(value string, t ast.NumericType) bool {
	var err error
	switch t {
	case ast.Int:
		_, err = strconv.ParseInt(value, 0, 64)
	case ast.Uint:
		_, err = strconv.ParseUint(value, 0, 64)
	case ast.Float:
		_, err = strconv.ParseFloat(value, 64)
	}
	return err == nil
}

func (c *clauseAnalyser) constrainNumericConstant(nc *ast.NumericConstant) {
	candidates := []ast.NumericType{ast.Int, ast.Uint, ast.Float}
	if fixed, ok := nc.FixedType(); ok {
		candidates = []ast.NumericType{fixed}
	} else if resolved, ok := c.res.NumericConstant(c.key(nc)); ok {
		candidates = []ast.NumericType{resolved}
	}
	var possible []types.Type
	for _, t := range candidates {
		if parsesAs(nc.Value, t) {
			possible = append(possible, c.constantType(t.Kind()))
		}
	}
	c.add(hasSupertypeIn(c.varOf(nc), types.NewTypeSet(possible...)))
}

func (c *clauseAnalyser) constrainIntrinsicFunctor(f *ast.IntrinsicFunctor) {
	result, args := c.varOf(f), c.varsOf(f.Args)
	info, resolved := c.res.Functor(c.key(f))
	if !resolved {
		c.add(satisfiesOverload(c.env, ops.FunctorBuiltIn(f.Symbol), result, args))
	}
	// arithmetic keeps the subtype of its operands: only require a common base type
	if ops.IsInfixFunctorOp(f.Symbol) {
		for _, arg := range args {
			c.add(subtypesOfTheSameBaseType(arg, result))
		}
		return
	}
	if !resolved {
		return
	}
	c.add(isSubtypeOfType(result, c.constantType(info.Result)))
	if info.Op == ops.ORD {
		return
	}
	for i, arg := range args {
		c.add(isSubtypeOfType(arg, c.constantType(info.ParamKind(i))))
	}
}

func (c *clauseAnalyser) constrainUserFunctor(f *ast.UserDefinedFunctor) {
	decl, ok := validDeclaration(c.env, c.program, f.Name)
	if !ok || decl.Arity() != len(f.Args) {
		return
	}
	c.add(isSubtypeOfType(c.varOf(f), c.env.MustLookupType(decl.Return.Type)))
	for i, arg := range f.Args {
		c.add(isSubtypeOfType(c.varOf(arg), c.env.MustLookupType(decl.Params[i].Type)))
	}
}

func (c *clauseAnalyser) constrainIntrinsicAggregator(agg *ast.IntrinsicAggregator) {
	result := c.varOf(agg)
	switch {
	case agg.Op == ops.CountAgg:
		c.add(isSubtypeOfType(result, c.constantType(ops.Signed)))
	case agg.Op == ops.MeanAgg:
		c.add(isSubtypeOfType(result, c.constantType(ops.Float)))
	case !ops.IsOverloadedAggregator(agg.Op):
		c.add(isSubtypeOfType(result, c.constantType(ops.AggregateResultKind(agg.Op))))
	default:
		if resolved, ok := c.res.Aggregator(c.key(agg)); ok {
			c.add(hasSupertypeIn(result, types.NewTypeSet(c.constantType(ops.AggregateResultKind(resolved)))))
		} else {
			c.add(hasSupertypeIn(result, c.env.ConstantNumericTypes()))
		}
	}
	if agg.Target != nil {
		c.add(isSubtypeOf(c.varOf(agg.Target), result))
	}
}

func (c *clauseAnalyser) constrainUserAggregator(agg *ast.UserDefinedAggregator) {
	decl, ok := validDeclaration(c.env, c.program, agg.Name)
	if !ok || decl.Arity() != 2 {
		return
	}
	c.add(
		isSubtypeOfType(c.varOf(agg), c.env.MustLookupType(decl.Return.Type)),
		isSubtypeOfType(c.varOf(agg.Init), c.env.MustLookupType(decl.Params[0].Type)),
		isSubtypeOfType(c.varOf(agg.Target), c.env.MustLookupType(decl.Params[1].Type)),
	)
}

func (c *clauseAnalyser) constrainBranch(b *ast.BranchInit) {
	adt, ok := c.env.BranchType(b.Branch)
	if !ok {
		return
	}
	c.add(isSubtypeOfType(c.varOf(b), adt))
	branch, _ := adt.Branch(b.Branch)
	if len(branch.Types) != len(b.Args) {
		return
	}
	for i, arg := range b.Args {
		c.add(isSubtypeOfType(c.varOf(arg), branch.Types[i]))
	}
}
