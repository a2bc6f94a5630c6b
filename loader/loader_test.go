package loader

import (
	"os"
	"testing"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *ast.Program {
	t.Helper()
	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()

	program, errs, err := Load(f)
	require.NoError(t, err)
	require.False(t, errs.HasError(), "unexpected errors:\n%v", errs)
	return program
}

func TestLoadProgram(t *testing.T) {
	program := loadFixture(t, "testdata/program.yaml")

	assert.Len(t, program.Types, 5)
	assert.Len(t, program.Relations, 6)
	assert.Len(t, program.Functors, 2)
	require.Len(t, program.Clauses, 12)

	shape, ok := program.TypeDecl("Shape")
	require.True(t, ok)
	require.IsType(t, &ast.AlgebraicDataType{}, shape)
	assert.Len(t, shape.(*ast.AlgebraicDataType).Branches, 2)
	assert.Equal(t, ast.Location{Line: 7, Column: 3}, shape.Loc())

	fold, ok := program.FunctorDeclaration("fold")
	require.True(t, ok)
	assert.True(t, fold.Stateful)
	assert.Equal(t, 2, fold.Arity())
	assert.Equal(t, "number", fold.Return.Type)

	pairs, ok := program.Relation("pairs")
	require.True(t, ok)
	assert.Equal(t, "Pair", pairs.Attributes[0].Type)
}

func TestLoadArguments(t *testing.T) {
	clauses := loadFixture(t, "testdata/program.yaml").Clauses

	fact := clauses[0]
	assert.Equal(t, ast.Location{Line: 30, Column: 5}, fact.Loc())
	assert.Equal(t, ast.Location{Line: 30, Column: 11}, fact.Head.Loc())
	one := fact.Head.Args[0].(*ast.NumericConstant)
	assert.Equal(t, ast.Location{Line: 30, Column: 16}, one.Loc())
	_, fixed := one.FixedType()
	assert.False(t, fixed)

	eq := clauses[1].Body[1].(*ast.BinaryConstraint)
	assert.Equal(t, ops.EQ, eq.Op)
	sum := eq.RHS.(*ast.IntrinsicFunctor)
	assert.Equal(t, "+", sum.Symbol)
	assert.Len(t, sum.Args, 2)

	assert.IsType(t, &ast.Negation{}, clauses[2].Body[1])
	hash := clauses[2].Body[2].(*ast.BinaryConstraint).RHS.(*ast.UserDefinedFunctor)
	assert.Equal(t, "hash", hash.Name)

	total := clauses[3].Body[0].(*ast.BinaryConstraint).RHS.(*ast.IntrinsicAggregator)
	assert.Equal(t, ops.SumAgg, total.Op)
	assert.Equal(t, "v", total.Target.(*ast.Variable).Name)

	count := clauses[4].Body[0].(*ast.BinaryConstraint).RHS.(*ast.IntrinsicAggregator)
	assert.Equal(t, ops.CountAgg, count.Op)
	assert.Nil(t, count.Target)
	assert.IsType(t, &ast.UnnamedVariable{}, count.Body[0].(*ast.Atom).Args[0])

	folded := clauses[5].Body[0].(*ast.BinaryConstraint).RHS.(*ast.UserDefinedAggregator)
	assert.Equal(t, "fold", folded.Name)
	assert.Equal(t, "0", folded.Init.String())
	assert.Equal(t, "w", folded.Target.String())

	assert.IsType(t, &ast.RecordInit{}, clauses[6].Head.Args[0])
	assert.IsType(t, &ast.NilConstant{}, clauses[7].Head.Args[0])

	circle := clauses[8].Head.Args[0].(*ast.BranchInit)
	assert.Equal(t, "Circle", circle.Branch)
	radius, fixed := circle.Args[0].(*ast.NumericConstant).FixedType()
	assert.True(t, fixed)
	assert.Equal(t, ast.Float, radius)

	cast := clauses[9].Head.Args[0].(*ast.TypeCast)
	assert.Equal(t, "symbol", cast.Type)

	assert.IsType(t, &ast.Counter{}, clauses[10].Head.Args[0])

	seven := clauses[11].Head.Args[0].(*ast.NumericConstant)
	assert.Equal(t, "7", seven.Value)
	kind, fixed := seven.FixedType()
	assert.True(t, fixed)
	assert.Equal(t, ast.Uint, kind)
	assert.IsType(t, &ast.IterationCounter{}, clauses[11].Body[0].(*ast.BinaryConstraint).LHS)
}

func TestLoadMergesDocuments(t *testing.T) {
	program, errs, err := LoadString(`
relations:
  r: [{x: number}]
---
clauses:
  - head: {r: [{num: 1}]}
`)
	require.NoError(t, err)
	assert.False(t, errs.HasError())
	assert.Len(t, program.Relations, 1)
	assert.Len(t, program.Clauses, 1)
}

func TestLoadEmpty(t *testing.T) {
	program, errs, err := LoadString("")
	require.NoError(t, err)
	assert.False(t, errs.HasError())
	assert.Empty(t, program.Clauses)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		message  string
		location string
	}{
		{"unknown section", "colours: {}\n", "unknown section 'colours'", "1:1"},
		{"relations not a mapping", "relations: [r]\n", "expected relations as a mapping", "1:12"},
		{"unknown type form", "types:\n  T: {nope: number}\n", "unknown type definition 'nope' for 'T'", "2:6"},
		{"functor without return type", "functors:\n  f: {params: []}\n", "functor 'f' declares no return type", "2:3"},
		{"clause without head", "clauses:\n  - body: []\n", "clause has no head", "2:5"},
		{"unknown argument", "clauses:\n  - head: {r: [{bogus: 1}]}\n", "unknown argument 'bogus'", "2:16"},
		{
			"comparison arity",
			"clauses:\n  - head: {r: [{num: 1}]}\n    body:\n      - {\"<\": [{num: 1}]}\n",
			"expected 2 element(s) in the operands of '<' but got 1",
			"4:15",
		},
		{"aggregate without target", "clauses:\n  - head: {r: [{agg: {op: sum, body: []}}]}\n", "aggregate 'sum' needs a target", "2:22"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			program, errs, err := LoadString(c.src)
			require.NoError(t, err)
			require.NotNil(t, program)
			require.Len(t, errs.Errors(), 1, "errors:\n%v", errs)

			got := errs.Errors()[0]
			assert.Contains(t, got.Error(), c.message)
			assert.Equal(t, c.location, got.Loc().String())
		})
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, _, err := LoadString("clauses: [")
	assert.Error(t, err)
}

func TestNumericConstantTypes(t *testing.T) {
	cases := []struct {
		literal string
		value   string
		fixed   bool
		typ     ast.NumericType
	}{
		{"1", "1", false, 0},
		{"-3", "-3", false, 0},
		{"0x1e", "0x1e", false, 0},
		{"1u", "1", true, ast.Uint},
		{"1.5", "1.5", true, ast.Float},
		{"1e3", "1e3", true, ast.Float},
	}
	for _, c := range cases {
		t.Run(c.literal, func(t *testing.T) {
			nc := numericConstant(c.literal)
			assert.Equal(t, c.value, nc.Value)
			typ, fixed := nc.FixedType()
			assert.Equal(t, c.fixed, fixed)
			if c.fixed {
				assert.Equal(t, c.typ, typ)
			}
		})
	}
}
