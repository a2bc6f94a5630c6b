package ops

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOrder(t *testing.T) {
	kinds := []Kind{ADT, Float, Symbol, Record, Unsigned, Signed}
	slices.Sort(kinds)
	assert.Equal(t, []Kind{Symbol, Signed, Unsigned, Float, Record, ADT}, kinds)

	assert.Equal(t, []Kind{Symbol, Signed, Unsigned, Record}, SortedKinds(NewKindSet(Record, Unsigned, Symbol, Signed)))
	assert.Equal(t, []Kind{Symbol, Signed, Unsigned, Float, Record}, SortedKinds(UniversalKinds()))
	assert.True(t, Float.Numeric())
	assert.False(t, Symbol.Numeric())
	assert.False(t, Record.Primitive())
}

func TestFunctorBuiltIn(t *testing.T) {
	plus := FunctorBuiltIn("+")
	require.Len(t, plus, 3)
	assert.Equal(t, []FunctorOp{ADD, UADD, FADD}, []FunctorOp{plus[0].Op, plus[1].Op, plus[2].Op})

	assert.Len(t, FunctorBuiltIn("-"), 5, "negation and subtraction share a symbol")
	assert.Empty(t, FunctorBuiltIn("nope"))

	assert.Equal(t, FunctorBuiltIn("max"), FunctorBuiltInOp(UMAX))
	assert.Nil(t, FunctorBuiltInOp(FunctorOp(-1)))

	assert.True(t, IsIntrinsicFunctor("cat"))
	assert.False(t, IsIntrinsicFunctor("concat"))
	assert.True(t, IsValidFunctorOpArity("max", 7))
	assert.True(t, IsValidFunctorOpArity("range", 3))
	assert.False(t, IsValidFunctorOpArity("range", 4))
	assert.False(t, IsValidFunctorOpArity("strlen", 2))
}

func TestCandidatesAreStable(t *testing.T) {
	first := FunctorBuiltIn("to_string")
	second := FunctorBuiltIn("to_string")
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
}

func TestVariadicCandidate(t *testing.T) {
	smax := FunctorBuiltIn("max")[3]
	require.Equal(t, SMAX, smax.Op)
	assert.True(t, smax.AcceptsArity(5))
	assert.False(t, smax.AcceptsArity(0))
	assert.Equal(t, Symbol, smax.ParamKind(4))
}

func TestCompareCandidates(t *testing.T) {
	candidates := slices.Clone(FunctorBuiltIn("-"))
	slices.SortStableFunc(candidates, CompareCandidates)

	var order []FunctorOp
	for _, c := range candidates {
		order = append(order, c.Op)
	}
	assert.Equal(t, []FunctorOp{NEG, SUB, USUB, FNEG, FSUB}, order, "by result kind, then by parameters")

	maxes := slices.Clone(FunctorBuiltIn("max"))
	slices.SortStableFunc(maxes, CompareCandidates)
	assert.Equal(t, SMAX, maxes[0].Op, "symbols come first")

	// by parameters alone the variadic one would come first
	fixed := &IntrinsicFunctorInfo{Symbol: "fixed", Params: []Kind{Signed, Signed}, Result: Signed}
	variadic := &IntrinsicFunctorInfo{Symbol: "variadic", Params: []Kind{Signed}, Result: Signed, Variadic: true}
	assert.Negative(t, CompareCandidates(fixed, variadic))
	assert.Positive(t, CompareCandidates(variadic, fixed))

	mixed := []*IntrinsicFunctorInfo{variadic, fixed}
	slices.SortStableFunc(mixed, CompareCandidates)
	assert.Equal(t, "fixed", mixed[0].Symbol)
}

func TestConvertOverloadedAggregator(t *testing.T) {
	assert.Equal(t, FSumAgg, ConvertOverloadedAggregator(SumAgg, Float))
	assert.Equal(t, UMinAgg, ConvertOverloadedAggregator(MinAgg, Unsigned))
	assert.Equal(t, MaxAgg, ConvertOverloadedAggregator(MaxAgg, Signed))
	assert.Equal(t, CountAgg, ConvertOverloadedAggregator(CountAgg, Signed))
	assert.Panics(t, func() { ConvertOverloadedAggregator(MeanAgg, Float) })

	assert.True(t, IsOverloadedAggregator(SumAgg))
	assert.False(t, IsOverloadedAggregator(CountAgg))
	assert.Equal(t, Float, AggregateResultKind(MeanAgg))
	assert.Equal(t, Unsigned, AggregateResultKind(USumAgg))
	assert.Equal(t, Signed, AggregateResultKind(CountAgg))

	op, ok := ParseAggregateOp("mean")
	assert.True(t, ok)
	assert.Equal(t, MeanAgg, op)
	_, ok = ParseAggregateOp("fsum")
	assert.False(t, ok, "only base operators are written in programs")
}

func TestConvertOverloadedConstraint(t *testing.T) {
	cases := []struct {
		op       BinaryConstraintOp
		kind     Kind
		expected BinaryConstraintOp
	}{
		{EQ, Float, FEQ},
		{NE, Float, FNE},
		{EQ, Symbol, EQ},
		{NE, Unsigned, NE},
		{LT, Signed, LT},
		{LE, Float, FLE},
		{GT, Unsigned, UGT},
		{GE, Symbol, SGE},
	}
	for _, c := range cases {
		t.Run(c.expected.String(), func(t *testing.T) {
			assert.Equal(t, c.expected, ConvertOverloadedConstraint(c.op, c.kind))
		})
	}

	assert.Panics(t, func() { ConvertOverloadedConstraint(LT, Record) })
	assert.Panics(t, func() { ConvertOverloadedConstraint(MATCH, Symbol) })
}

func TestConstraintKind(t *testing.T) {
	kind, ok := ConstraintKind(FGT)
	assert.True(t, ok)
	assert.Equal(t, Float, kind)

	kind, ok = ConstraintKind(CONTAINS)
	assert.True(t, ok)
	assert.Equal(t, Symbol, kind)

	_, ok = ConstraintKind(LT)
	assert.False(t, ok)

	op, ok := ParseConstraintOp("<=")
	assert.True(t, ok)
	assert.Equal(t, LE, op)
	_, ok = ParseConstraintOp("u<")
	assert.False(t, ok)
	assert.True(t, IsEqConstraint(FEQ))
	assert.True(t, IsSymbolicConstraint(NOT_MATCH))
}
