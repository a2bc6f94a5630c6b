package types

import (
	"testing"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ops"
	"github.com/stretchr/testify/assert"
)

func TestTypeSetAlgebra(t *testing.T) {
	env := envOf(t, &ast.SubsetType{Name: "Even", Base: Number})
	number := env.MustLookupType(Number)
	symbol := env.MustLookupType(Symbol)
	even := env.MustLookupType("Even")
	float := env.PrimitiveType(ops.Float)

	ab := NewTypeSet(symbol, number, symbol)
	bc := NewTypeSet(even, number)

	assert.Equal(t, "{number,symbol}", ab.String())
	assert.Equal(t, 2, ab.Len())
	assert.Equal(t, "{Even,number,symbol}", Union(ab, bc).String())
	assert.Equal(t, "{number}", Intersection(ab, bc).String())
	assert.True(t, Intersection(ab, NewTypeSet(float)).Empty())

	assert.True(t, Union(ab, AllTypes()).IsAll())
	assert.True(t, Intersection(ab, AllTypes()).Equal(ab))
	assert.True(t, Intersection(AllTypes(), AllTypes()).IsAll())

	assert.True(t, ab.Contains(number))
	assert.False(t, ab.Contains(even))
	assert.True(t, AllTypes().Contains(even))

	assert.True(t, ab.Insert(number).Equal(ab))
	assert.False(t, ab.Equal(bc))
	assert.False(t, ab.Equal(AllTypes()))
	assert.True(t, AllTypes().Equal(AllTypes()))
	assert.False(t, AllTypes().Empty())

	onlyNumeric := Union(ab, bc).Filter(AllTypes(), func(typ Type) bool { return IsOfKind(typ, ops.Signed) })
	assert.Equal(t, "{Even,number}", onlyNumeric.String())
	assert.True(t, AllTypes().Filter(ab, nil).Equal(ab))

	assert.Equal(t, "{ - all types - }", AllTypes().String())
	assert.Equal(t, "{}", NewTypeSet().String())
}

func TestTypeSetIsImmutable(t *testing.T) {
	env := envOf(t)
	number := env.MustLookupType(Number)
	symbol := env.MustLookupType(Symbol)

	original := NewTypeSet(number)
	_ = Union(original, NewTypeSet(symbol))
	_ = original.Insert(symbol)

	assert.Equal(t, "{number}", original.String())
}
