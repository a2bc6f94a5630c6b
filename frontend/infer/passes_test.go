package infer

import (
	"testing"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ops"
	"github.com/cottand/dltype/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTypes builds an analysis of a single clause with body as its body, where
// the types of arguments are given rather than inferred
func withTypes(t *testing.T, body ast.Literal, argTypes map[ast.Argument][]ops.Kind) *Analysis {
	t.Helper()
	program := &ast.Program{Clauses: []*ast.Clause{ast.NewClause(ast.NewAtom("test"), body)}}
	env, errs := types.NewEnvironment(program)
	require.False(t, errs.HasError())

	a := New(program, env, DefaultConfig())
	for arg, kinds := range argTypes {
		constants := make([]types.Type, len(kinds))
		for i, kind := range kinds {
			constants[i] = env.ConstantType(kind)
		}
		a.argumentTypes[arg] = types.NewTypeSet(constants...)
	}
	return a
}

func TestNumericConstantPriority(t *testing.T) {
	cases := []struct {
		name     string
		kinds    []ops.Kind
		expected ast.NumericType
		resolved bool
	}{
		{"signed over float", []ops.Kind{ops.Signed, ops.Float}, ast.Int, true},
		{"unsigned over float", []ops.Kind{ops.Unsigned, ops.Float}, ast.Uint, true},
		{"signed over unsigned", []ops.Kind{ops.Unsigned, ops.Signed}, ast.Int, true},
		{"float", []ops.Kind{ops.Float}, ast.Float, true},
		{"none", nil, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			nc := number("1")
			other := variable("x")
			a := withTypes(t, ast.NewBinaryConstraint(ops.EQ, nc, other), map[ast.Argument][]ops.Kind{
				nc:    c.kinds,
				other: c.kinds,
			})

			assert.Equal(t, c.resolved, resolveNumericConstants(a, a.res))
			resolved, ok := a.resolvedConstant(nc)
			assert.Equal(t, c.resolved, ok)
			if c.resolved {
				assert.Equal(t, c.expected, resolved)
			}
			assert.False(t, resolveNumericConstants(a, a.res), "resolving again changes nothing")
		})
	}
}

func TestFixedConstantIgnoresTypes(t *testing.T) {
	nc := ast.NewFixedNumericConstant("1", ast.Float)
	a := withTypes(t, ast.NewBinaryConstraint(ops.EQ, nc, variable("x")), map[ast.Argument][]ops.Kind{
		nc: {ops.Signed},
	})

	assert.True(t, resolveNumericConstants(a, a.res))
	assert.Equal(t, ast.Float, a.NumericConstantKind(nc))
}

func TestUnresolvedConstantIsRemoved(t *testing.T) {
	nc := number("1")
	a := withTypes(t, ast.NewBinaryConstraint(ops.EQ, nc, variable("x")), map[ast.Argument][]ops.Kind{
		nc: {ops.Signed},
	})
	require.True(t, resolveNumericConstants(a, a.res))

	a.argumentTypes[nc] = types.NewTypeSet()
	assert.True(t, resolveNumericConstants(a, a.res))
	assert.False(t, a.HasValidTypeInfo(nc))
}

func TestComparisonPriority(t *testing.T) {
	cases := []struct {
		name        string
		op          ops.BinaryConstraintOp
		left, right []ops.Kind
		expected    ops.BinaryConstraintOp
	}{
		{"float when both may be float", ops.LT, []ops.Kind{ops.Float}, []ops.Kind{ops.Float, ops.Signed}, ops.FLT},
		{"symbols", ops.LT, []ops.Kind{ops.Symbol}, []ops.Kind{ops.Symbol}, ops.SLT},
		{"unsigned", ops.GE, []ops.Kind{ops.Unsigned}, []ops.Kind{ops.Unsigned, ops.Signed}, ops.UGE},
		{"disagreement defaults to signed", ops.LT, []ops.Kind{ops.Signed}, []ops.Kind{ops.Unsigned}, ops.LT},
		{"float equality", ops.EQ, []ops.Kind{ops.Float}, []ops.Kind{ops.Float}, ops.FEQ},
		{"symbol equality", ops.NE, []ops.Kind{ops.Symbol}, []ops.Kind{ops.Symbol}, ops.NE},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			left, right := variable("x"), variable("y")
			bc := ast.NewBinaryConstraint(c.op, left, right)
			a := withTypes(t, bc, map[ast.Argument][]ops.Kind{left: c.left, right: c.right})

			assert.True(t, resolveComparisons(a, a.res))
			assert.Equal(t, c.expected, a.ConstraintOp(bc))
			assert.False(t, resolveComparisons(a, a.res))
		})
	}
}

func TestSymbolicComparisonIsTrivial(t *testing.T) {
	left, right := variable("x"), variable("y")
	bc := ast.NewBinaryConstraint(ops.CONTAINS, left, right)
	a := withTypes(t, bc, map[ast.Argument][]ops.Kind{left: {ops.Symbol}, right: {ops.Symbol}})

	assert.True(t, resolveComparisons(a, a.res))
	assert.Equal(t, ops.CONTAINS, a.ConstraintOp(bc))
}

func TestAggregatePriority(t *testing.T) {
	cases := []struct {
		name     string
		op       ops.AggregateOp
		target   []ops.Kind
		expected ops.AggregateOp
	}{
		{"float over unsigned", ops.SumAgg, []ops.Kind{ops.Unsigned, ops.Float}, ops.FSumAgg},
		{"unsigned over signed", ops.MaxAgg, []ops.Kind{ops.Unsigned, ops.Signed}, ops.UMaxAgg},
		{"signed", ops.MinAgg, []ops.Kind{ops.Signed}, ops.MinAgg},
		{"signed by default", ops.MinAgg, nil, ops.MinAgg},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			target := variable("y")
			agg := ast.NewIntrinsicAggregator(c.op, target)
			a := withTypes(t, ast.NewBinaryConstraint(ops.EQ, variable("x"), agg), map[ast.Argument][]ops.Kind{
				target: c.target,
			})

			assert.True(t, resolveAggregators(a, a.res))
			assert.Equal(t, c.expected, a.AggregateOp(agg))
			assert.False(t, resolveAggregators(a, a.res))
		})
	}
}

func TestNonOverloadedAggregateIsFixed(t *testing.T) {
	agg := ast.NewIntrinsicAggregator(ops.MeanAgg, variable("y"))
	a := withTypes(t, ast.NewBinaryConstraint(ops.EQ, variable("x"), agg), nil)

	assert.True(t, resolveAggregators(a, a.res))
	assert.Equal(t, ops.MeanAgg, a.AggregateOp(agg))
	assert.False(t, resolveAggregators(a, a.res))

	a.res.aggregators[a.keyOf(agg)] = ops.FSumAgg
	assert.Panics(t, func() { resolveAggregators(a, a.res) })
}

func TestFunctorOverloadFiltering(t *testing.T) {
	x, y := variable("x"), variable("y")
	f := ast.NewIntrinsicFunctor("+", x, y)
	a := withTypes(t, ast.NewBinaryConstraint(ops.EQ, variable("z"), f), map[ast.Argument][]ops.Kind{
		f: {ops.Signed, ops.Float},
		x: {ops.Signed, ops.Float, ops.Unsigned},
		y: {ops.Float, ops.Signed},
	})

	candidates := a.ValidIntrinsicFunctorOverloads(f)
	require.Len(t, candidates, 2)
	assert.Equal(t, ops.ADD, candidates[0].Op, "signed ranks before float")
	assert.Equal(t, ops.FADD, candidates[1].Op)

	assert.True(t, resolveFunctors(a, a.res))
	assert.Equal(t, ops.ADD, a.FunctorOp(f))
	assert.False(t, resolveFunctors(a, a.res))
}

func TestFunctorWithoutOverloadIsUnresolved(t *testing.T) {
	x := variable("x")
	f := ast.NewIntrinsicFunctor("strlen", x)
	a := withTypes(t, ast.NewBinaryConstraint(ops.EQ, variable("z"), f), map[ast.Argument][]ops.Kind{
		f: {ops.Signed},
		x: {ops.Signed},
	})

	assert.Empty(t, a.ValidIntrinsicFunctorOverloads(f))
	assert.False(t, resolveFunctors(a, a.res))
	assert.False(t, a.HasValidTypeInfo(f))
	assert.Panics(t, func() { a.FunctorOp(f) })
}

func TestResolvedFunctorKeepsItsResultKind(t *testing.T) {
	x := variable("x")
	f := ast.NewIntrinsicFunctor("-", x)
	a := withTypes(t, ast.NewBinaryConstraint(ops.EQ, variable("z"), f), map[ast.Argument][]ops.Kind{
		f: {ops.Float, ops.Signed},
		x: {ops.Float, ops.Signed},
	})
	require.True(t, resolveFunctors(a, a.res))
	require.Equal(t, ops.NEG, a.FunctorOp(f))

	// once resolved, the result kind of the functor is the one of its overload
	a.argumentTypes[x] = types.NewTypeSet(a.env.ConstantType(ops.Float))
	assert.True(t, resolveFunctors(a, a.res))
	assert.False(t, a.HasValidTypeInfo(f), "no float overload returns a signed")
}
