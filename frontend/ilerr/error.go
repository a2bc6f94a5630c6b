package ilerr

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/cottand/dltype/frontend/ast"
)

// enableDebugErrorPrinting makes errors include the frame that raised them when printed
var enableDebugErrorPrinting = false

const enableDebugFullStacktrace bool = false

// SetDebugPrinting toggles printing the frame that raised each error
func SetDebugPrinting(enabled bool) {
	enableDebugErrorPrinting = enabled
}

type ErrCode int

const (
	None ErrCode = iota
	Parse
	UndefinedType
	CyclicType
	DuplicateType
	MixedUnion
	UndefinedRelation
	UndeclaredFunctor
	InvalidFunctorDeclaration
	NoFunctorOverload
	UnresolvedConstant
	UnresolvableType
	ArityMismatch
	UndefinedBranch
)

// Error is a problem in the analysed Datalog program, as opposed to a bug in this module
type Error interface {
	Error() string
	Code() ErrCode
	ast.Positioner

	withStack([]byte) Error
	getStack() []byte
}

func FormatWithCode(e Error) string {
	at := ""
	if e.Loc().Known() {
		at = e.Loc().String() + ": "
	}
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if lines := strings.Split(stack, "\n"); !enableDebugFullStacktrace && len(lines) > 6 {
			stack = lines[6]
		}
		return fmt.Sprintf("%s:%s(E%03d) %s", stack, at, e.Code(), e.Error())
	}
	return fmt.Sprintf("%s(E%03d) %s", at, e.Code(), e.Error())
}

// Source is the document errors are reported against
type Source interface {
	Name() string
	Line(n int) (string, bool)
}

// FormatWithCodeAndSource formats e like FormatWithCode, prefixed with the name of src,
// and followed by the offending source line with a caret under the error's column
func FormatWithCodeAndSource(e Error, src Source) string {
	sb := strings.Builder{}
	loc := e.Loc()
	sb.WriteString(src.Name())
	if loc.Known() {
		sb.WriteString(":")
	} else {
		sb.WriteString(": ")
	}
	sb.WriteString(FormatWithCode(e))
	line, ok := src.Line(loc.Line)
	if !loc.Known() || !ok {
		return sb.String()
	}
	sb.WriteString("\n    ")
	sb.WriteString(line)
	sb.WriteString("\n    ")
	sb.WriteString(strings.Repeat(" ", max(loc.Column-1, 0)))
	sb.WriteString("^")
	return sb.String()
}

func New[E Error](err E) Error {
	return err.withStack(debug.Stack())
}

type Unclassified struct {
	From error
	ast.Positioner
	stack []byte
}

func (e Unclassified) Error() string {
	return fmt.Sprintf("unclassified error: %v", e.From)
}
func (e Unclassified) Code() ErrCode    { return None }
func (e Unclassified) getStack() []byte { return e.stack }
func (e Unclassified) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewParse struct {
	ast.Positioner
	Message string
	stack   []byte
}

func (e NewParse) Error() string    { return e.Message }
func (e NewParse) Code() ErrCode    { return Parse }
func (e NewParse) getStack() []byte { return e.stack }
func (e NewParse) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewUndefinedType struct {
	ast.Positioner
	Name string
	// In is what refers to the type, like a relation or another type
	In    string
	stack []byte
}

func (e NewUndefinedType) Error() string {
	return fmt.Sprintf("type '%s' used in '%s' is not defined", e.Name, e.In)
}
func (e NewUndefinedType) Code() ErrCode    { return UndefinedType }
func (e NewUndefinedType) getStack() []byte { return e.stack }
func (e NewUndefinedType) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewCyclicType struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewCyclicType) Error() string {
	return fmt.Sprintf("type '%s' is defined in terms of itself", e.Name)
}
func (e NewCyclicType) Code() ErrCode    { return CyclicType }
func (e NewCyclicType) getStack() []byte { return e.stack }
func (e NewCyclicType) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewDuplicateType struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewDuplicateType) Error() string {
	return fmt.Sprintf("type '%s' is declared more than once", e.Name)
}
func (e NewDuplicateType) Code() ErrCode    { return DuplicateType }
func (e NewDuplicateType) getStack() []byte { return e.stack }
func (e NewDuplicateType) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewMixedUnion struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewMixedUnion) Error() string {
	return fmt.Sprintf("union type '%s' mixes elements of different kinds", e.Name)
}
func (e NewMixedUnion) Code() ErrCode    { return MixedUnion }
func (e NewMixedUnion) getStack() []byte { return e.stack }
func (e NewMixedUnion) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewUndefinedRelation struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewUndefinedRelation) Error() string {
	return fmt.Sprintf("relation '%s' is not declared", e.Name)
}
func (e NewUndefinedRelation) Code() ErrCode    { return UndefinedRelation }
func (e NewUndefinedRelation) getStack() []byte { return e.stack }
func (e NewUndefinedRelation) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewUndeclaredFunctor struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewUndeclaredFunctor) Error() string {
	return fmt.Sprintf("user-defined functor '%s' is not declared", e.Name)
}
func (e NewUndeclaredFunctor) Code() ErrCode    { return UndeclaredFunctor }
func (e NewUndeclaredFunctor) getStack() []byte { return e.stack }
func (e NewUndeclaredFunctor) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewInvalidFunctorDeclaration struct {
	ast.Positioner
	Name     string
	TypeName string
	stack    []byte
}

func (e NewInvalidFunctorDeclaration) Error() string {
	return fmt.Sprintf("declaration of functor '%s' uses undefined type '%s'", e.Name, e.TypeName)
}
func (e NewInvalidFunctorDeclaration) Code() ErrCode    { return InvalidFunctorDeclaration }
func (e NewInvalidFunctorDeclaration) getStack() []byte { return e.stack }
func (e NewInvalidFunctorDeclaration) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewNoFunctorOverload struct {
	ast.Positioner
	Symbol string
	Arity  int
	stack  []byte
}

func (e NewNoFunctorOverload) Error() string {
	return fmt.Sprintf("no overload of '%s' with %d argument(s) matches the types of its arguments", e.Symbol, e.Arity)
}
func (e NewNoFunctorOverload) Code() ErrCode    { return NoFunctorOverload }
func (e NewNoFunctorOverload) getStack() []byte { return e.stack }
func (e NewNoFunctorOverload) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewUnresolvedConstant struct {
	ast.Positioner
	Value string
	stack []byte
}

func (e NewUnresolvedConstant) Error() string {
	return fmt.Sprintf("cannot pick a numeric type for constant '%s'", e.Value)
}
func (e NewUnresolvedConstant) Code() ErrCode    { return UnresolvedConstant }
func (e NewUnresolvedConstant) getStack() []byte { return e.stack }
func (e NewUnresolvedConstant) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewUnresolvableType struct {
	ast.Positioner
	Argument string
	stack    []byte
}

func (e NewUnresolvableType) Error() string {
	return fmt.Sprintf("unable to deduce a type for '%s': its uses require incompatible types", e.Argument)
}
func (e NewUnresolvableType) Code() ErrCode    { return UnresolvableType }
func (e NewUnresolvableType) getStack() []byte { return e.stack }
func (e NewUnresolvableType) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewArityMismatch struct {
	ast.Positioner
	Name     string
	Expected int
	Got      int
	stack    []byte
}

func (e NewArityMismatch) Error() string {
	return fmt.Sprintf("'%s' expects %d argument(s) but got %d", e.Name, e.Expected, e.Got)
}
func (e NewArityMismatch) Code() ErrCode    { return ArityMismatch }
func (e NewArityMismatch) getStack() []byte { return e.stack }
func (e NewArityMismatch) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

type NewUndefinedBranch struct {
	ast.Positioner
	Name  string
	stack []byte
}

func (e NewUndefinedBranch) Error() string {
	return fmt.Sprintf("branch '%s' does not belong to any declared type", e.Name)
}
func (e NewUndefinedBranch) Code() ErrCode    { return UndefinedBranch }
func (e NewUndefinedBranch) getStack() []byte { return e.stack }
func (e NewUndefinedBranch) withStack(stack []byte) Error {
	e.stack = stack
	return e
}
