package ilerr

import (
	"strings"
	"testing"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSource []string

func (s testSource) Name() string { return "test.yaml" }
func (s testSource) Line(n int) (string, bool) {
	if n < 1 || n > len(s) {
		return "", false
	}
	return s[n-1], true
}

func at(line, column int) ast.Positioner {
	return ast.Location{Line: line, Column: column}
}

func TestFormatWithCode(t *testing.T) {
	err := New(NewArityMismatch{Positioner: at(3, 7), Name: "r", Expected: 2, Got: 1})
	assert.Equal(t, "3:7: (E012) 'r' expects 2 argument(s) but got 1", FormatWithCode(err))

	synthesised := New(NewUndefinedBranch{Positioner: ast.Location{}, Name: "Circle"})
	assert.Equal(t, "(E013) branch 'Circle' does not belong to any declared type", FormatWithCode(synthesised))
}

func TestFormatWithCodeAndSource(t *testing.T) {
	src := testSource{"relations:", "  r: [{x: number}]"}

	err := New(NewParse{Positioner: at(2, 6), Message: "bad"})
	assert.Equal(t, "test.yaml:2:6: (E001) bad\n      r: [{x: number}]\n         ^", FormatWithCodeAndSource(err, src))

	unknown := New(NewParse{Positioner: ast.Location{}, Message: "bad"})
	assert.Equal(t, "test.yaml: (E001) bad", FormatWithCodeAndSource(unknown, src))

	outOfRange := New(NewParse{Positioner: at(9, 1), Message: "bad"})
	assert.Equal(t, "test.yaml:9:1: (E001) bad", FormatWithCodeAndSource(outOfRange, src))
}

func TestDebugPrinting(t *testing.T) {
	SetDebugPrinting(true)
	t.Cleanup(func() { SetDebugPrinting(false) })

	err := New(NewParse{Positioner: at(1, 1), Message: "bad"})
	formatted := FormatWithCode(err)
	assert.True(t, strings.HasSuffix(formatted, ":1:1: (E001) bad"), formatted)
	assert.NotEqual(t, "1:1: (E001) bad", formatted)
}

func TestNilErrorsAccumulate(t *testing.T) {
	var errs *Errors
	assert.False(t, errs.HasError())
	assert.Empty(t, errs.Errors())
	assert.Nil(t, errs.Merge(nil))

	errs = errs.With(New(NewParse{Positioner: at(1, 1), Message: "one"}))
	require.True(t, errs.HasError())

	other := (*Errors)(nil).With(New(NewParse{Positioner: at(2, 1), Message: "two"}))
	merged := errs.Merge(other)
	assert.Same(t, errs, merged)
	assert.Len(t, merged.Errors(), 2)
	assert.Same(t, errs, errs.Merge(&Errors{}))
}

func TestSortedByLocationThenCode(t *testing.T) {
	errs := (*Errors)(nil).With(
		New(NewUnresolvableType{Positioner: at(4, 2), Argument: "x"}),
		New(NewParse{Positioner: at(4, 2), Message: "first"}),
		New(NewParse{Positioner: at(1, 9), Message: "earliest"}),
		New(NewParse{Positioner: at(4, 1), Message: "column"}),
	)

	var codes []ErrCode
	for _, err := range errs.Sorted() {
		codes = append(codes, err.Code())
	}
	assert.Equal(t, []ErrCode{Parse, Parse, Parse, UnresolvableType}, codes)
	assert.Equal(t, "earliest", errs.Sorted()[0].Error())
	assert.Equal(t, "column", errs.Sorted()[1].Error())
	assert.Equal(t, UnresolvableType, errs.Errors()[0].Code(), "Sorted does not reorder the accumulator")

	assert.True(t, strings.HasPrefix(errs.String(), "1:9: (E001) earliest\n4:1: (E001) column\n"))
}
