package ast

import (
	"fmt"

	"github.com/pkg/errors"
)

// Node is the base interface for all elements of a program.
//
// The set of nodes is closed: every implementation lives in this package,
// and code dispatching over nodes is expected to use exhaustive type switches
// whose default case is a failure, never a silent fallthrough.
type Node interface {
	Positioner
	fmt.Stringer

	// Children lists the direct child nodes, in canonical order.
	// Walking the tree through Children is deterministic, and a Clone
	// visits its nodes in exactly the same order as the original.
	Children() []Node

	// Equal compares two trees structurally, ignoring locations
	Equal(other Node) bool

	// Clone deep-copies the tree rooted at this node
	Clone() Node

	// Apply replaces every direct child c with m(c)
	Apply(m Mapper)

	node()
}

// Mapper maps a node to its replacement, which may be the node itself.
//
// A Mapper that wants to rewrite a whole tree calls Apply on the nodes it returns.
type Mapper func(Node) Node

// Argument is a node that denotes a value inside a clause, like
// a variable, a constant or a functor call
type Argument interface {
	Node
	argument()
}

// Literal is a node that appears in the body of a clause
type Literal interface {
	Node
	literal()
}

var (
	_ Argument = (*Variable)(nil)
	_ Argument = (*UnnamedVariable)(nil)
	_ Argument = (*NumericConstant)(nil)
	_ Argument = (*StringConstant)(nil)
	_ Argument = (*NilConstant)(nil)
	_ Argument = (*IntrinsicFunctor)(nil)
	_ Argument = (*UserDefinedFunctor)(nil)
	_ Argument = (*IntrinsicAggregator)(nil)
	_ Argument = (*UserDefinedAggregator)(nil)
	_ Argument = (*RecordInit)(nil)
	_ Argument = (*BranchInit)(nil)
	_ Argument = (*TypeCast)(nil)
	_ Argument = (*Counter)(nil)
	_ Argument = (*IterationCounter)(nil)

	_ Literal = (*Atom)(nil)
	_ Literal = (*Negation)(nil)
	_ Literal = (*BinaryConstraint)(nil)

	_ Node = (*Clause)(nil)
	_ Node = (*Program)(nil)
	_ Node = (*Relation)(nil)
	_ Node = (*Attribute)(nil)
	_ Node = (*FunctorDeclaration)(nil)
)

// Unsupported is the failure for a dispatch site that met a node it does not handle.
// Reaching it is a bug in this module, not in the Datalog program.
func Unsupported(where string, n Node) error {
	return errors.Errorf("%s: unsupported node %T (%v)", where, n, n)
}

func cloneOf[N Node](n N) N {
	return n.Clone().(N)
}

func cloneAll[N Node](nodes []N) []N {
	if nodes == nil {
		return nil
	}
	cloned := make([]N, len(nodes))
	for i, n := range nodes {
		cloned[i] = cloneOf(n)
	}
	return cloned
}

// cloneOptional clones n, or returns nil if n is a nil interface
func cloneOptional(n Argument) Argument {
	if n == nil {
		return nil
	}
	return cloneOf(n)
}

func equalNodes(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func equalAll[N Node](a, b []N) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func mapNode[N Node](m Mapper, n N) N {
	mapped, ok := m(n).(N)
	if !ok {
		panic(errors.Errorf("mapper replaced %T with a node of an incompatible type", n))
	}
	return mapped
}

func mapAll[N Node](m Mapper, nodes []N) {
	for i, n := range nodes {
		nodes[i] = mapNode(m, n)
	}
}

func mapOptional(m Mapper, n Argument) Argument {
	if n == nil {
		return nil
	}
	return mapNode(m, n)
}

func asNodes[N Node](nodes []N) []Node {
	res := make([]Node, len(nodes))
	for i, n := range nodes {
		res[i] = n
	}
	return res
}
