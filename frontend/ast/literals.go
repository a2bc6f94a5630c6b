package ast

import (
	"strings"

	"github.com/cottand/dltype/frontend/ops"
)

func (*Atom) literal()             {}
func (*Negation) literal()         {}
func (*BinaryConstraint) literal() {}

func (*Atom) node()             {}
func (*Negation) node()         {}
func (*BinaryConstraint) node() {}

func joinLiterals(lits []Literal, sep string) string {
	parts := make([]string, len(lits))
	for i, lit := range lits {
		parts[i] = lit.String()
	}
	return strings.Join(parts, sep)
}

// Atom is the use of a relation, either in the head or in the body of a clause: `parent(x, y)`
type Atom struct {
	Name string
	Args []Argument
	Location
}

func NewAtom(name string, args ...Argument) *Atom {
	return &Atom{Name: name, Args: args}
}

func (e *Atom) String() string   { return e.Name + "(" + joinArgs(e.Args, ",") + ")" }
func (e *Atom) Children() []Node { return asNodes(e.Args) }
func (e *Atom) Apply(m Mapper)   { mapAll(m, e.Args) }
func (e *Atom) Clone() Node {
	copied := *e
	copied.Args = cloneAll(e.Args)
	return &copied
}
func (e *Atom) Equal(other Node) bool {
	o, ok := other.(*Atom)
	return ok && e.Name == o.Name && equalAll(e.Args, o.Args)
}

// Negation is a negated atom in the body of a clause: `!parent(x, y)`
type Negation struct {
	Atom *Atom
	Location
}

func NewNegation(atom *Atom) *Negation { return &Negation{Atom: atom} }

func (e *Negation) String() string   { return "!" + e.Atom.String() }
func (e *Negation) Children() []Node { return []Node{e.Atom} }
func (e *Negation) Apply(m Mapper)   { e.Atom = mapNode(m, e.Atom) }
func (e *Negation) Clone() Node {
	copied := *e
	copied.Atom = cloneOf(e.Atom)
	return &copied
}
func (e *Negation) Equal(other Node) bool {
	o, ok := other.(*Negation)
	return ok && e.Atom.Equal(o.Atom)
}

// BinaryConstraint compares two arguments: `x < y`, `match(p, s)`
type BinaryConstraint struct {
	Op  ops.BinaryConstraintOp
	LHS Argument
	RHS Argument
	Location
}

func NewBinaryConstraint(op ops.BinaryConstraintOp, lhs, rhs Argument) *BinaryConstraint {
	return &BinaryConstraint{Op: op, LHS: lhs, RHS: rhs}
}

func (e *BinaryConstraint) String() string {
	if ops.IsSymbolicConstraint(e.Op) {
		return e.Op.String() + "(" + e.LHS.String() + ", " + e.RHS.String() + ")"
	}
	return e.LHS.String() + " " + e.Op.String() + " " + e.RHS.String()
}
func (e *BinaryConstraint) Children() []Node { return []Node{e.LHS, e.RHS} }
func (e *BinaryConstraint) Apply(m Mapper) {
	e.LHS = mapNode(m, e.LHS)
	e.RHS = mapNode(m, e.RHS)
}
func (e *BinaryConstraint) Clone() Node {
	copied := *e
	copied.LHS = cloneOf(e.LHS)
	copied.RHS = cloneOf(e.RHS)
	return &copied
}
func (e *BinaryConstraint) Equal(other Node) bool {
	o, ok := other.(*BinaryConstraint)
	return ok && e.Op == o.Op && e.LHS.Equal(o.LHS) && e.RHS.Equal(o.RHS)
}
