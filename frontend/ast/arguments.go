package ast

import (
	"strconv"
	"strings"

	"github.com/cottand/dltype/frontend/ops"
)

func (*Variable) argument()              {}
func (*UnnamedVariable) argument()       {}
func (*NumericConstant) argument()       {}
func (*StringConstant) argument()        {}
func (*NilConstant) argument()           {}
func (*IntrinsicFunctor) argument()      {}
func (*UserDefinedFunctor) argument()    {}
func (*IntrinsicAggregator) argument()   {}
func (*UserDefinedAggregator) argument() {}
func (*RecordInit) argument()            {}
func (*BranchInit) argument()            {}
func (*TypeCast) argument()              {}
func (*Counter) argument()               {}
func (*IterationCounter) argument()      {}

func (*Variable) node()              {}
func (*UnnamedVariable) node()       {}
func (*NumericConstant) node()       {}
func (*StringConstant) node()        {}
func (*NilConstant) node()           {}
func (*IntrinsicFunctor) node()      {}
func (*UserDefinedFunctor) node()    {}
func (*IntrinsicAggregator) node()   {}
func (*UserDefinedAggregator) node() {}
func (*RecordInit) node()            {}
func (*BranchInit) node()            {}
func (*TypeCast) node()              {}
func (*Counter) node()               {}
func (*IterationCounter) node()      {}

func joinArgs(args []Argument, sep string) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, sep)
}

// Variable is a named variable. All occurrences of a name within a clause denote the same variable
type Variable struct {
	Name string
	Location
}

func NewVariable(name string) *Variable { return &Variable{Name: name} }

func (e *Variable) String() string   { return e.Name }
func (e *Variable) Children() []Node { return nil }
func (e *Variable) Apply(Mapper)     {}
func (e *Variable) Clone() Node {
	copied := *e
	return &copied
}
func (e *Variable) Equal(other Node) bool {
	o, ok := other.(*Variable)
	return ok && e.Name == o.Name
}

// UnnamedVariable is `_`: each occurrence is a distinct, unconstrained variable
type UnnamedVariable struct {
	Location
}

func (e *UnnamedVariable) String() string   { return "_" }
func (e *UnnamedVariable) Children() []Node { return nil }
func (e *UnnamedVariable) Apply(Mapper)     {}
func (e *UnnamedVariable) Clone() Node {
	copied := *e
	return &copied
}
func (e *UnnamedVariable) Equal(other Node) bool {
	_, ok := other.(*UnnamedVariable)
	return ok
}

// NumericType is the concrete representation picked for a numeric constant
type NumericType int

const (
	Int NumericType = iota
	Uint
	Float
)

func (t NumericType) String() string {
	switch t {
	case Int:
		return "Int"
	case Uint:
		return "Uint"
	case Float:
		return "Float"
	}
	return "???"
}

// Kind is the type kind of constants of type t
func (t NumericType) Kind() ops.Kind {
	switch t {
	case Uint:
		return ops.Unsigned
	case Float:
		return ops.Float
	default:
		return ops.Signed
	}
}

// NumericConstant is a number literal, like `1`, `2u` or `3.5`.
//
// Literals with a suffix or a decimal point have a fixed type; the rest are
// polymorphic and their type is inferred.
type NumericConstant struct {
	Value     string
	fixedType NumericType
	hasFixed  bool
	Location
}

func NewNumericConstant(value string) *NumericConstant {
	return &NumericConstant{Value: value}
}

func NewFixedNumericConstant(value string, t NumericType) *NumericConstant {
	return &NumericConstant{Value: value, fixedType: t, hasFixed: true}
}

// FixedType returns the type the literal syntax imposes, if any
func (e *NumericConstant) FixedType() (NumericType, bool) {
	return e.fixedType, e.hasFixed
}

func (e *NumericConstant) String() string   { return e.Value }
func (e *NumericConstant) Children() []Node { return nil }
func (e *NumericConstant) Apply(Mapper)     {}
func (e *NumericConstant) Clone() Node {
	copied := *e
	return &copied
}
func (e *NumericConstant) Equal(other Node) bool {
	o, ok := other.(*NumericConstant)
	return ok && e.Value == o.Value && e.hasFixed == o.hasFixed && e.fixedType == o.fixedType
}

// StringConstant is a symbol literal
type StringConstant struct {
	Value string
	Location
}

func NewStringConstant(value string) *StringConstant { return &StringConstant{Value: value} }

func (e *StringConstant) String() string   { return strconv.Quote(e.Value) }
func (e *StringConstant) Children() []Node { return nil }
func (e *StringConstant) Apply(Mapper)     {}
func (e *StringConstant) Clone() Node {
	copied := *e
	return &copied
}
func (e *StringConstant) Equal(other Node) bool {
	o, ok := other.(*StringConstant)
	return ok && e.Value == o.Value
}

// NilConstant is the empty record reference `nil`
type NilConstant struct {
	Location
}

func (e *NilConstant) String() string   { return "nil" }
func (e *NilConstant) Children() []Node { return nil }
func (e *NilConstant) Apply(Mapper)     {}
func (e *NilConstant) Clone() Node {
	copied := *e
	return &copied
}
func (e *NilConstant) Equal(other Node) bool {
	_, ok := other.(*NilConstant)
	return ok
}

// IntrinsicFunctor is a call to a built-in, possibly overloaded, functor such as `+` or `max`
type IntrinsicFunctor struct {
	Symbol string
	Args   []Argument
	Location
}

func NewIntrinsicFunctor(symbol string, args ...Argument) *IntrinsicFunctor {
	return &IntrinsicFunctor{Symbol: symbol, Args: args}
}

func (e *IntrinsicFunctor) String() string {
	if len(e.Args) == 2 && ops.IsInfixFunctorOp(e.Symbol) {
		return "(" + e.Args[0].String() + e.Symbol + e.Args[1].String() + ")"
	}
	return e.Symbol + "(" + joinArgs(e.Args, ",") + ")"
}
func (e *IntrinsicFunctor) Children() []Node { return asNodes(e.Args) }
func (e *IntrinsicFunctor) Apply(m Mapper)   { mapAll(m, e.Args) }
func (e *IntrinsicFunctor) Clone() Node {
	copied := *e
	copied.Args = cloneAll(e.Args)
	return &copied
}
func (e *IntrinsicFunctor) Equal(other Node) bool {
	o, ok := other.(*IntrinsicFunctor)
	return ok && e.Symbol == o.Symbol && equalAll(e.Args, o.Args)
}

// UserDefinedFunctor is a call `@name(args)` to a functor declared in the program
type UserDefinedFunctor struct {
	Name string
	Args []Argument
	Location
}

func NewUserDefinedFunctor(name string, args ...Argument) *UserDefinedFunctor {
	return &UserDefinedFunctor{Name: name, Args: args}
}

func (e *UserDefinedFunctor) String() string   { return "@" + e.Name + "(" + joinArgs(e.Args, ",") + ")" }
func (e *UserDefinedFunctor) Children() []Node { return asNodes(e.Args) }
func (e *UserDefinedFunctor) Apply(m Mapper)   { mapAll(m, e.Args) }
func (e *UserDefinedFunctor) Clone() Node {
	copied := *e
	copied.Args = cloneAll(e.Args)
	return &copied
}
func (e *UserDefinedFunctor) Equal(other Node) bool {
	o, ok := other.(*UserDefinedFunctor)
	return ok && e.Name == o.Name && equalAll(e.Args, o.Args)
}

// IntrinsicAggregator is a built-in aggregate like `min x : { A(x) }`.
// Target is nil for operators that take none, like count.
type IntrinsicAggregator struct {
	Op     ops.AggregateOp
	Target Argument
	Body   []Literal
	Location
}

func NewIntrinsicAggregator(op ops.AggregateOp, target Argument, body ...Literal) *IntrinsicAggregator {
	return &IntrinsicAggregator{Op: op, Target: target, Body: body}
}

func (e *IntrinsicAggregator) String() string {
	sb := strings.Builder{}
	sb.WriteString(e.Op.String())
	if e.Target != nil {
		sb.WriteString(" ")
		sb.WriteString(e.Target.String())
	}
	sb.WriteString(" : { ")
	sb.WriteString(joinLiterals(e.Body, ", "))
	sb.WriteString(" }")
	return sb.String()
}
func (e *IntrinsicAggregator) Children() []Node {
	var children []Node
	if e.Target != nil {
		children = append(children, e.Target)
	}
	return append(children, asNodes(e.Body)...)
}
func (e *IntrinsicAggregator) Apply(m Mapper) {
	e.Target = mapOptional(m, e.Target)
	mapAll(m, e.Body)
}
func (e *IntrinsicAggregator) Clone() Node {
	copied := *e
	copied.Target = cloneOptional(e.Target)
	copied.Body = cloneAll(e.Body)
	return &copied
}
func (e *IntrinsicAggregator) Equal(other Node) bool {
	o, ok := other.(*IntrinsicAggregator)
	return ok && e.Op == o.Op && equalNodes(e.Target, o.Target) && equalAll(e.Body, o.Body)
}

// UserDefinedAggregator folds Target over the body with the declared functor Name, starting at Init
type UserDefinedAggregator struct {
	Name   string
	Init   Argument
	Target Argument
	Body   []Literal
	Location
}

func NewUserDefinedAggregator(name string, init, target Argument, body ...Literal) *UserDefinedAggregator {
	return &UserDefinedAggregator{Name: name, Init: init, Target: target, Body: body}
}

func (e *UserDefinedAggregator) String() string {
	return "@@" + e.Name + " " + e.Target.String() + ", " + e.Init.String() + " : { " + joinLiterals(e.Body, ", ") + " }"
}
func (e *UserDefinedAggregator) Children() []Node {
	return append([]Node{e.Init, e.Target}, asNodes(e.Body)...)
}
func (e *UserDefinedAggregator) Apply(m Mapper) {
	e.Init = mapNode(m, e.Init)
	e.Target = mapNode(m, e.Target)
	mapAll(m, e.Body)
}
func (e *UserDefinedAggregator) Clone() Node {
	copied := *e
	copied.Init = cloneOf(e.Init)
	copied.Target = cloneOf(e.Target)
	copied.Body = cloneAll(e.Body)
	return &copied
}
func (e *UserDefinedAggregator) Equal(other Node) bool {
	o, ok := other.(*UserDefinedAggregator)
	return ok && e.Name == o.Name && e.Init.Equal(o.Init) && e.Target.Equal(o.Target) && equalAll(e.Body, o.Body)
}

// RecordInit constructs a record `[a, b, c]`
type RecordInit struct {
	Args []Argument
	Location
}

func NewRecordInit(args ...Argument) *RecordInit { return &RecordInit{Args: args} }

func (e *RecordInit) String() string   { return "[" + joinArgs(e.Args, ",") + "]" }
func (e *RecordInit) Children() []Node { return asNodes(e.Args) }
func (e *RecordInit) Apply(m Mapper)   { mapAll(m, e.Args) }
func (e *RecordInit) Clone() Node {
	copied := *e
	copied.Args = cloneAll(e.Args)
	return &copied
}
func (e *RecordInit) Equal(other Node) bool {
	o, ok := other.(*RecordInit)
	return ok && equalAll(e.Args, o.Args)
}

// BranchInit constructs a value of an algebraic data type, `$Branch(args)`
type BranchInit struct {
	Branch string
	Args   []Argument
	Location
}

func NewBranchInit(branch string, args ...Argument) *BranchInit {
	return &BranchInit{Branch: branch, Args: args}
}

func (e *BranchInit) String() string   { return "$" + e.Branch + "(" + joinArgs(e.Args, ", ") + ")" }
func (e *BranchInit) Children() []Node { return asNodes(e.Args) }
func (e *BranchInit) Apply(m Mapper)   { mapAll(m, e.Args) }
func (e *BranchInit) Clone() Node {
	copied := *e
	copied.Args = cloneAll(e.Args)
	return &copied
}
func (e *BranchInit) Equal(other Node) bool {
	o, ok := other.(*BranchInit)
	return ok && e.Branch == o.Branch && equalAll(e.Args, o.Args)
}

// TypeCast reinterprets Value as the declared type Type, `as(value, Type)`
type TypeCast struct {
	Value Argument
	Type  string
	Location
}

func NewTypeCast(value Argument, typeName string) *TypeCast {
	return &TypeCast{Value: value, Type: typeName}
}

func (e *TypeCast) String() string   { return "as(" + e.Value.String() + ", " + e.Type + ")" }
func (e *TypeCast) Children() []Node { return []Node{e.Value} }
func (e *TypeCast) Apply(m Mapper)   { e.Value = mapNode(m, e.Value) }
func (e *TypeCast) Clone() Node {
	copied := *e
	copied.Value = cloneOf(e.Value)
	return &copied
}
func (e *TypeCast) Equal(other Node) bool {
	o, ok := other.(*TypeCast)
	return ok && e.Type == o.Type && e.Value.Equal(o.Value)
}

// Counter is `$`, a fresh number on every evaluation
type Counter struct {
	Location
}

func (e *Counter) String() string   { return "$" }
func (e *Counter) Children() []Node { return nil }
func (e *Counter) Apply(Mapper)     {}
func (e *Counter) Clone() Node {
	copied := *e
	return &copied
}
func (e *Counter) Equal(other Node) bool {
	_, ok := other.(*Counter)
	return ok
}

// IterationCounter is the current fixpoint iteration of the evaluating stratum
type IterationCounter struct {
	Location
}

func (e *IterationCounter) String() string   { return "@iteration()" }
func (e *IterationCounter) Children() []Node { return nil }
func (e *IterationCounter) Apply(Mapper)     {}
func (e *IterationCounter) Clone() Node {
	copied := *e
	return &copied
}
func (e *IterationCounter) Equal(other Node) bool {
	_, ok := other.(*IterationCounter)
	return ok
}
