package ast

import (
	"slices"
	"strings"
)

func (*Relation) node()           {}
func (*Attribute) node()          {}
func (*FunctorDeclaration) node() {}
func (*SubsetType) node()         {}
func (*UnionType) node()          {}
func (*RecordType) node()         {}
func (*AlgebraicDataType) node()  {}
func (*BranchDeclaration) node()  {}
func (*AliasType) node()          {}

func (*SubsetType) typeDecl()        {}
func (*UnionType) typeDecl()         {}
func (*RecordType) typeDecl()        {}
func (*AlgebraicDataType) typeDecl() {}
func (*AliasType) typeDecl()         {}

func joinAttributes(attrs []*Attribute, sep string) string {
	parts := make([]string, len(attrs))
	for i, attr := range attrs {
		parts[i] = attr.String()
	}
	return strings.Join(parts, sep)
}

// Attribute is a named, typed position of a relation, record or functor signature
type Attribute struct {
	Name string
	Type string
	Location
}

func NewAttribute(name, typeName string) *Attribute {
	return &Attribute{Name: name, Type: typeName}
}

func (e *Attribute) String() string   { return e.Name + ":" + e.Type }
func (e *Attribute) Children() []Node { return nil }
func (e *Attribute) Apply(Mapper)     {}
func (e *Attribute) Clone() Node {
	copied := *e
	return &copied
}
func (e *Attribute) Equal(other Node) bool {
	o, ok := other.(*Attribute)
	return ok && e.Name == o.Name && e.Type == o.Type
}

// Relation is a `.decl` of a relation and the types of its attributes
type Relation struct {
	Name       string
	Attributes []*Attribute
	Location
}

func NewRelation(name string, attrs ...*Attribute) *Relation {
	return &Relation{Name: name, Attributes: attrs}
}

func (e *Relation) Arity() int { return len(e.Attributes) }

func (e *Relation) String() string {
	return ".decl " + e.Name + "(" + joinAttributes(e.Attributes, ", ") + ")"
}
func (e *Relation) Children() []Node { return asNodes(e.Attributes) }
func (e *Relation) Apply(m Mapper)   { mapAll(m, e.Attributes) }
func (e *Relation) Clone() Node {
	copied := *e
	copied.Attributes = cloneAll(e.Attributes)
	return &copied
}
func (e *Relation) Equal(other Node) bool {
	o, ok := other.(*Relation)
	return ok && e.Name == o.Name && equalAll(e.Attributes, o.Attributes)
}

// FunctorDeclaration is the `.functor` signature of a user-defined functor or aggregate
type FunctorDeclaration struct {
	Name     string
	Params   []*Attribute
	Return   *Attribute
	Stateful bool
	Location
}

func NewFunctorDeclaration(name string, returnType string, params ...*Attribute) *FunctorDeclaration {
	return &FunctorDeclaration{Name: name, Params: params, Return: NewAttribute("", returnType)}
}

func (e *FunctorDeclaration) Arity() int { return len(e.Params) }

func (e *FunctorDeclaration) String() string {
	parts := make([]string, len(e.Params))
	for i, p := range e.Params {
		parts[i] = p.Name + ": " + p.Type
	}
	s := ".functor " + e.Name + "(" + strings.Join(parts, ",") + "): " + e.Return.Type
	if e.Stateful {
		s += " stateful"
	}
	return s
}
func (e *FunctorDeclaration) Children() []Node {
	return append(asNodes(e.Params), e.Return)
}
func (e *FunctorDeclaration) Apply(m Mapper) {
	mapAll(m, e.Params)
	e.Return = mapNode(m, e.Return)
}
func (e *FunctorDeclaration) Clone() Node {
	copied := *e
	copied.Params = cloneAll(e.Params)
	copied.Return = cloneOf(e.Return)
	return &copied
}
func (e *FunctorDeclaration) Equal(other Node) bool {
	o, ok := other.(*FunctorDeclaration)
	return ok && e.Name == o.Name && equalAll(e.Params, o.Params) && e.Return.Equal(o.Return) &&
		e.Stateful == o.Stateful
}

// TypeDecl is a `.type` declaration
type TypeDecl interface {
	Node
	TypeName() string
	typeDecl()
}

var (
	_ TypeDecl = (*SubsetType)(nil)
	_ TypeDecl = (*UnionType)(nil)
	_ TypeDecl = (*RecordType)(nil)
	_ TypeDecl = (*AlgebraicDataType)(nil)
	_ TypeDecl = (*AliasType)(nil)
)

// SubsetType declares a subtype of Base: `.type Even <: number`
type SubsetType struct {
	Name string
	Base string
	Location
}

func (e *SubsetType) TypeName() string { return e.Name }
func (e *SubsetType) String() string   { return ".type " + e.Name + " <: " + e.Base }
func (e *SubsetType) Children() []Node { return nil }
func (e *SubsetType) Apply(Mapper)     {}
func (e *SubsetType) Clone() Node {
	copied := *e
	return &copied
}
func (e *SubsetType) Equal(other Node) bool {
	o, ok := other.(*SubsetType)
	return ok && e.Name == o.Name && e.Base == o.Base
}

// UnionType declares the union of Elements: `.type Id = A | B`
type UnionType struct {
	Name     string
	Elements []string
	Location
}

func (e *UnionType) TypeName() string { return e.Name }
func (e *UnionType) String() string {
	return ".type " + e.Name + " = " + strings.Join(e.Elements, " | ")
}
func (e *UnionType) Children() []Node { return nil }
func (e *UnionType) Apply(Mapper)     {}
func (e *UnionType) Clone() Node {
	copied := *e
	copied.Elements = slices.Clone(e.Elements)
	return &copied
}
func (e *UnionType) Equal(other Node) bool {
	o, ok := other.(*UnionType)
	return ok && e.Name == o.Name && slices.Equal(e.Elements, o.Elements)
}

// RecordType declares a record: `.type Pair = [a: number, b: symbol]`
type RecordType struct {
	Name   string
	Fields []*Attribute
	Location
}

func (e *RecordType) TypeName() string { return e.Name }
func (e *RecordType) String() string {
	return ".type " + e.Name + " = [" + joinAttributes(e.Fields, ", ") + "]"
}
func (e *RecordType) Children() []Node { return asNodes(e.Fields) }
func (e *RecordType) Apply(m Mapper)   { mapAll(m, e.Fields) }
func (e *RecordType) Clone() Node {
	copied := *e
	copied.Fields = cloneAll(e.Fields)
	return &copied
}
func (e *RecordType) Equal(other Node) bool {
	o, ok := other.(*RecordType)
	return ok && e.Name == o.Name && equalAll(e.Fields, o.Fields)
}

// BranchDeclaration is one constructor of an AlgebraicDataType
type BranchDeclaration struct {
	Name   string
	Fields []*Attribute
	Location
}

func (e *BranchDeclaration) String() string {
	return e.Name + " {" + joinAttributes(e.Fields, ", ") + "}"
}
func (e *BranchDeclaration) Children() []Node { return asNodes(e.Fields) }
func (e *BranchDeclaration) Apply(m Mapper)   { mapAll(m, e.Fields) }
func (e *BranchDeclaration) Clone() Node {
	copied := *e
	copied.Fields = cloneAll(e.Fields)
	return &copied
}
func (e *BranchDeclaration) Equal(other Node) bool {
	o, ok := other.(*BranchDeclaration)
	return ok && e.Name == o.Name && equalAll(e.Fields, o.Fields)
}

// AlgebraicDataType declares a sum type: `.type Shape = Circle {r: float} | Square {s: float}`
type AlgebraicDataType struct {
	Name     string
	Branches []*BranchDeclaration
	Location
}

func (e *AlgebraicDataType) TypeName() string { return e.Name }
func (e *AlgebraicDataType) String() string {
	parts := make([]string, len(e.Branches))
	for i, b := range e.Branches {
		parts[i] = b.String()
	}
	return ".type " + e.Name + " = " + strings.Join(parts, " | ")
}
func (e *AlgebraicDataType) Children() []Node { return asNodes(e.Branches) }
func (e *AlgebraicDataType) Apply(m Mapper)   { mapAll(m, e.Branches) }
func (e *AlgebraicDataType) Clone() Node {
	copied := *e
	copied.Branches = cloneAll(e.Branches)
	return &copied
}
func (e *AlgebraicDataType) Equal(other Node) bool {
	o, ok := other.(*AlgebraicDataType)
	return ok && e.Name == o.Name && equalAll(e.Branches, o.Branches)
}

// AliasType gives another name to an existing type: `.type Name = symbol`
type AliasType struct {
	Name    string
	Aliased string
	Location
}

func (e *AliasType) TypeName() string { return e.Name }
func (e *AliasType) String() string   { return ".type " + e.Name + " = " + e.Aliased }
func (e *AliasType) Children() []Node { return nil }
func (e *AliasType) Apply(Mapper)     {}
func (e *AliasType) Clone() Node {
	copied := *e
	return &copied
}
func (e *AliasType) Equal(other Node) bool {
	o, ok := other.(*AliasType)
	return ok && e.Name == o.Name && e.Aliased == o.Aliased
}
