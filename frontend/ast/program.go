package ast

import (
	"strings"
)

func (*Clause) node()  {}
func (*Program) node() {}

// Clause is a rule `head :- body.`, or a fact when Body is empty
type Clause struct {
	Head *Atom
	Body []Literal
	Location
}

func NewClause(head *Atom, body ...Literal) *Clause {
	return &Clause{Head: head, Body: body}
}

func (e *Clause) String() string {
	if len(e.Body) == 0 {
		return e.Head.String() + "."
	}
	return e.Head.String() + " :- \n   " + joinLiterals(e.Body, ",\n   ") + "."
}
func (e *Clause) Children() []Node {
	return append([]Node{e.Head}, asNodes(e.Body)...)
}
func (e *Clause) Apply(m Mapper) {
	e.Head = mapNode(m, e.Head)
	mapAll(m, e.Body)
}
func (e *Clause) Clone() Node {
	copied := *e
	copied.Head = cloneOf(e.Head)
	copied.Body = cloneAll(e.Body)
	return &copied
}
func (e *Clause) Equal(other Node) bool {
	o, ok := other.(*Clause)
	return ok && e.Head.Equal(o.Head) && equalAll(e.Body, o.Body)
}

// Program is a whole translation unit: its declarations and its clauses
type Program struct {
	Types     []TypeDecl
	Relations []*Relation
	Functors  []*FunctorDeclaration
	Clauses   []*Clause
	Location
}

// Relation looks up the declaration of the relation called name
func (e *Program) Relation(name string) (*Relation, bool) {
	for _, rel := range e.Relations {
		if rel.Name == name {
			return rel, true
		}
	}
	return nil, false
}

// FunctorDeclaration looks up the declaration of the user-defined functor called name
func (e *Program) FunctorDeclaration(name string) (*FunctorDeclaration, bool) {
	for _, decl := range e.Functors {
		if decl.Name == name {
			return decl, true
		}
	}
	return nil, false
}

// TypeDecl looks up the declaration of the type called name
func (e *Program) TypeDecl(name string) (TypeDecl, bool) {
	for _, decl := range e.Types {
		if decl.TypeName() == name {
			return decl, true
		}
	}
	return nil, false
}

func (e *Program) String() string {
	sb := strings.Builder{}
	for _, t := range e.Types {
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}
	for _, f := range e.Functors {
		sb.WriteString(f.String())
		sb.WriteString("\n")
	}
	for _, r := range e.Relations {
		sb.WriteString(r.String())
		sb.WriteString("\n")
	}
	for _, c := range e.Clauses {
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
func (e *Program) Children() []Node {
	children := asNodes(e.Types)
	children = append(children, asNodes(e.Functors)...)
	children = append(children, asNodes(e.Relations)...)
	return append(children, asNodes(e.Clauses)...)
}
func (e *Program) Apply(m Mapper) {
	mapAll(m, e.Types)
	mapAll(m, e.Functors)
	mapAll(m, e.Relations)
	mapAll(m, e.Clauses)
}
func (e *Program) Clone() Node {
	copied := *e
	copied.Types = cloneAll(e.Types)
	copied.Functors = cloneAll(e.Functors)
	copied.Relations = cloneAll(e.Relations)
	copied.Clauses = cloneAll(e.Clauses)
	return &copied
}
func (e *Program) Equal(other Node) bool {
	o, ok := other.(*Program)
	return ok && equalAll(e.Types, o.Types) && equalAll(e.Functors, o.Functors) &&
		equalAll(e.Relations, o.Relations) && equalAll(e.Clauses, o.Clauses)
}
