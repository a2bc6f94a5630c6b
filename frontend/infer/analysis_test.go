package infer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ops"
	"github.com/cottand/dltype/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relation(name string, attributeTypes ...string) *ast.Relation {
	attrs := make([]*ast.Attribute, len(attributeTypes))
	for i, t := range attributeTypes {
		attrs[i] = ast.NewAttribute(fmt.Sprintf("a%d", i), t)
	}
	return ast.NewRelation(name, attrs...)
}

func variable(name string) *ast.Variable { return ast.NewVariable(name) }

func number(value string) *ast.NumericConstant { return ast.NewNumericConstant(value) }

// testRelations are declared in every program built by programOf
var testRelations = []*ast.Relation{
	relation("r", types.Number),
	relation("u", types.Unsigned),
	relation("f", types.Float),
	relation("s", types.Symbol),
}

func programOf(clauses ...*ast.Clause) *ast.Program {
	return &ast.Program{Relations: testRelations, Clauses: clauses}
}

func analyse(t *testing.T, program *ast.Program) *Analysis {
	t.Helper()
	env, errs := types.NewEnvironment(program)
	require.False(t, errs.HasError(), "unexpected errors:\n%v", errs)
	a := New(program, env, Config{Debug: true})
	require.NoError(t, a.Run())
	return a
}

func TestLiteralTakesTypeOfRelation(t *testing.T) {
	cases := map[string]ast.NumericType{
		"r": ast.Int,
		"u": ast.Uint,
		"f": ast.Float,
	}
	for name, expected := range cases {
		t.Run(name, func(t *testing.T) {
			one := number("1")
			a := analyse(t, programOf(ast.NewClause(ast.NewAtom(name, one))))

			assert.Equal(t, expected, a.NumericConstantKind(one))
			assert.Equal(t, 2, a.Iterations())
		})
	}
}

func TestFixedLiteral(t *testing.T) {
	fixed := ast.NewFixedNumericConstant("1", ast.Uint)
	free := number("2")
	a := analyse(t, programOf(ast.NewClause(
		ast.NewAtom("s", ast.NewStringConstant("a")),
		ast.NewBinaryConstraint(ops.LT, fixed, free),
	)))

	assert.Equal(t, ast.Uint, a.NumericConstantKind(fixed))
	assert.Equal(t, ast.Uint, a.NumericConstantKind(free), "a literal compared with an unsigned is unsigned")
	assert.Equal(t, ops.ULT, a.ConstraintOp(a.program.Clauses[0].Body[0].(*ast.BinaryConstraint)))
}

func TestComparisonOfLiterals(t *testing.T) {
	lt := ast.NewBinaryConstraint(ops.LT, number("1"), number("2"))
	a := analyse(t, programOf(ast.NewClause(ast.NewAtom("s", ast.NewStringConstant("a")), lt)))

	assert.Equal(t, ops.LT, a.ConstraintOp(lt))
	assert.Equal(t, ast.Int, a.NumericConstantKind(lt.LHS.(*ast.NumericConstant)))
	assert.Equal(t, ast.Int, a.NumericConstantKind(lt.RHS.(*ast.NumericConstant)))
}

func TestFunctorOverloads(t *testing.T) {
	cases := []struct {
		relation string
		op       ops.FunctorOp
		constant ast.NumericType
		typ      string
	}{
		{"r", ops.ADD, ast.Int, types.Number},
		{"u", ops.UADD, ast.Uint, types.Unsigned},
		{"f", ops.FADD, ast.Float, types.Float},
	}
	for _, c := range cases {
		t.Run(c.relation, func(t *testing.T) {
			one := number("1")
			sum := ast.NewIntrinsicFunctor("+", variable("y"), one)
			a := analyse(t, programOf(ast.NewClause(
				ast.NewAtom(c.relation, variable("x")),
				ast.NewAtom(c.relation, variable("y")),
				ast.NewBinaryConstraint(ops.EQ, variable("x"), sum),
			)))

			assert.Equal(t, c.op, a.FunctorOp(sum))
			assert.Equal(t, c.constant, a.NumericConstantKind(one))
			assert.Equal(t, "{"+c.typ+"}", a.Types(sum).String())
			assert.True(t, a.HasValidTypeInfo(sum))
			assert.Equal(t, []ops.Kind{c.constant.Kind()}, ops.SortedKinds(a.TypeAttributes(sum)))
		})
	}
}

func TestConversionFunctor(t *testing.T) {
	conversion := ast.NewIntrinsicFunctor("to_string", variable("y"))
	a := analyse(t, programOf(ast.NewClause(
		ast.NewAtom("s", variable("x")),
		ast.NewAtom("f", variable("y")),
		ast.NewBinaryConstraint(ops.EQ, variable("x"), conversion),
	)))

	assert.Equal(t, ops.F2S, a.FunctorOp(conversion))
	assert.Equal(t, ops.Symbol, a.FunctorReturnKind(conversion))
	assert.Equal(t, ops.Float, a.FunctorParamKind(conversion, 0))
	assert.False(t, a.IsMultiResultFunctor(conversion))
}

func TestAggregateResolution(t *testing.T) {
	cases := map[string]ops.AggregateOp{
		"r": ops.SumAgg,
		"u": ops.USumAgg,
		"f": ops.FSumAgg,
	}
	for name, expected := range cases {
		t.Run(name, func(t *testing.T) {
			sum := ast.NewIntrinsicAggregator(ops.SumAgg, variable("y"), ast.NewAtom(name, variable("y")))
			count := ast.NewIntrinsicAggregator(ops.CountAgg, nil, ast.NewAtom(name, &ast.UnnamedVariable{}))
			a := analyse(t, programOf(
				ast.NewClause(ast.NewAtom(name, variable("x")), ast.NewBinaryConstraint(ops.EQ, variable("x"), sum)),
				ast.NewClause(ast.NewAtom("r", variable("n")), ast.NewBinaryConstraint(ops.EQ, variable("n"), count)),
			))

			assert.Equal(t, expected, a.AggregateOp(sum))
			assert.Equal(t, ops.CountAgg, a.AggregateOp(count))
			assert.Equal(t, "{"+types.Number+"}", a.Types(count).String())
		})
	}
}

func TestUserDefinedFunctor(t *testing.T) {
	call := ast.NewUserDefinedFunctor("hash", variable("y"))
	program := programOf(ast.NewClause(
		ast.NewAtom("u", variable("x")),
		ast.NewAtom("s", variable("y")),
		ast.NewBinaryConstraint(ops.EQ, variable("x"), call),
	))
	program.Functors = []*ast.FunctorDeclaration{
		ast.NewFunctorDeclaration("hash", types.Unsigned, ast.NewAttribute("value", types.Symbol)),
	}
	a := analyse(t, program)

	assert.True(t, a.HasValidTypeInfo(call))
	assert.Equal(t, ops.Unsigned, a.FunctorReturnKind(call))
	assert.Equal(t, []ops.Kind{ops.Symbol}, a.UserFunctorParamKinds(call))
	assert.Equal(t, types.Symbol, a.FunctorParamType(call, 0).Name())
	assert.False(t, a.IsStatefulFunctor(call))
	assert.Equal(t, []ops.Kind{ops.Unsigned}, ops.SortedKinds(a.TypeAttributes(call)))
}

func TestUndeclaredFunctorIsNotValid(t *testing.T) {
	call := ast.NewUserDefinedFunctor("missing", variable("y"))
	a := analyse(t, programOf(ast.NewClause(
		ast.NewAtom("r", variable("x")),
		ast.NewAtom("r", variable("y")),
		ast.NewBinaryConstraint(ops.EQ, variable("x"), call),
	)))

	assert.False(t, a.HasValidTypeInfo(call))
	assert.Panics(t, func() { a.FunctorReturnKind(call) })
}

func TestRunIsIdempotent(t *testing.T) {
	sum := ast.NewIntrinsicFunctor("+", variable("y"), number("1"))
	a := analyse(t, programOf(ast.NewClause(
		ast.NewAtom("f", variable("x")),
		ast.NewAtom("f", variable("y")),
		ast.NewBinaryConstraint(ops.LT, variable("x"), sum),
	)))
	before := a.Resolutions().Clone()

	require.NoError(t, a.Run())
	assert.True(t, before.Equal(a.Resolutions()))
	assert.Equal(t, 1, a.Iterations())
}

// f(x) :- f(x), 1 < 2, x = x+3.
func TestResolutionsCarryOverToClones(t *testing.T) {
	one, two := number("1"), number("2")
	program := programOf(ast.NewClause(
		ast.NewAtom("f", variable("x")),
		ast.NewAtom("f", variable("x")),
		ast.NewBinaryConstraint(ops.LT, one, two),
		ast.NewBinaryConstraint(ops.EQ, variable("x"), ast.NewIntrinsicFunctor("+", variable("x"), number("3"))),
	))
	a := analyse(t, program)
	assert.Equal(t, "{__numberConstant}", a.Types(one).String())
	assert.Equal(t, "{__numberConstant}", a.Types(two).String())

	for i, clause := range program.Clauses {
		original := AnalyseClause(a.Environment(), program, a.Resolutions(), i, clause, nil)
		clone := clause.Clone().(*ast.Clause)
		cloned := AnalyseClause(a.Environment(), program, a.Resolutions(), i, clone, nil)

		require.Equal(t, original.Len(), cloned.Len())
		for p := range original.Len() {
			arg, ts := original.At(p)
			_, clonedTs := cloned.At(p)
			assert.True(t, ts.Equal(clonedTs), "position %d (%v): %v != %v", p, arg, ts, clonedTs)
			assert.True(t, ts.Equal(a.Types(arg)), "position %d (%v)", p, arg)
		}
	}
	annotated := a.Annotate(program.Clauses[0])
	assert.Contains(t, annotated, "1∈{Int}")
	assert.Contains(t, annotated, "2∈{Int}")
	assert.Contains(t, annotated, "3∈{Float}")
}

func TestRunIsDeterministic(t *testing.T) {
	program := func() *ast.Program {
		return programOf(
			ast.NewClause(
				ast.NewAtom("r", variable("x")),
				ast.NewAtom("r", variable("y")),
				ast.NewBinaryConstraint(ops.EQ, variable("x"), ast.NewIntrinsicFunctor("max", variable("y"), number("3"), number("4"))),
			),
			ast.NewClause(
				ast.NewAtom("s", variable("x")),
				ast.NewAtom("s", variable("y")),
				ast.NewBinaryConstraint(ops.LT, variable("x"), variable("y")),
			),
		)
	}
	render := func() string {
		var sb strings.Builder
		require.NoError(t, analyse(t, program()).Print(&sb))
		return sb.String()
	}

	first := render()
	for range 5 {
		assert.Equal(t, first, render())
	}
}

func TestNotConverged(t *testing.T) {
	program := programOf(ast.NewClause(ast.NewAtom("r", number("1"))))
	env, errs := types.NewEnvironment(program)
	require.False(t, errs.HasError())

	a := New(program, env, Config{MaxIterations: 1})
	err := a.Run()
	assert.ErrorIs(t, err, ErrNotConverged)
	assert.Equal(t, 1, a.Iterations())

	a = New(program, env, Config{MaxIterations: 2})
	assert.NoError(t, a.Run())
}

func TestNoPolymorphismConvergesImmediately(t *testing.T) {
	a := analyse(t, programOf(ast.NewClause(
		ast.NewAtom("s", variable("x")),
		ast.NewAtom("s", variable("x")),
	)))
	assert.Equal(t, 1, a.Iterations())
	assert.Empty(t, a.NumericConstantKinds())
}

func TestRecordsAndBranches(t *testing.T) {
	one, two := number("1"), number("2")
	record := ast.NewRecordInit(one, ast.NewStringConstant("a"))
	branch := ast.NewBranchInit("Circle", two)
	nilRecord := &ast.NilConstant{}
	program := &ast.Program{
		Types: []ast.TypeDecl{
			&ast.RecordType{Name: "Pair", Fields: []*ast.Attribute{
				ast.NewAttribute("a", types.Number),
				ast.NewAttribute("b", types.Symbol),
			}},
			&ast.AlgebraicDataType{Name: "Shape", Branches: []*ast.BranchDeclaration{
				{Name: "Circle", Fields: []*ast.Attribute{ast.NewAttribute("r", types.Float)}},
				{Name: "Square", Fields: []*ast.Attribute{ast.NewAttribute("s", types.Number)}},
			}},
		},
		Relations: []*ast.Relation{relation("pairs", "Pair"), relation("shapes", "Shape")},
		Clauses: []*ast.Clause{
			ast.NewClause(ast.NewAtom("pairs", record)),
			ast.NewClause(ast.NewAtom("pairs", nilRecord)),
			ast.NewClause(ast.NewAtom("shapes", branch)),
		},
	}
	a := analyse(t, program)

	assert.Equal(t, "{Pair}", a.Types(record).String())
	assert.Equal(t, "{Pair}", a.Types(nilRecord).String())
	assert.Equal(t, "{Shape}", a.Types(branch).String())
	assert.Equal(t, ast.Int, a.NumericConstantKind(one))
	assert.Equal(t, ast.Float, a.NumericConstantKind(two))
}
