package ast

import (
	"iter"

	"github.com/pkg/errors"
)

// Walk calls f on root and then on its descendants, in canonical pre-order.
// Children of a node are skipped when f returns false for it.
func Walk(root Node, f func(Node) bool) {
	if !f(root) {
		return
	}
	for _, child := range root.Children() {
		Walk(child, f)
	}
}

// Visit calls f on every node of type N in the tree rooted at root, in canonical pre-order
func Visit[N Node](root Node, f func(N)) {
	Walk(root, func(n Node) bool {
		if asN, ok := n.(N); ok {
			f(asN)
		}
		return true
	})
}

// All iterates over every node of type N in the tree rooted at root, in canonical pre-order
func All[N Node](root Node) iter.Seq[N] {
	return func(yield func(N) bool) {
		stop := false
		Walk(root, func(n Node) bool {
			if stop {
				return false
			}
			if asN, ok := n.(N); ok && !yield(asN) {
				stop = true
			}
			return !stop
		})
	}
}

// Index numbers the nodes of type N of a tree in canonical pre-order.
//
// Because Clone preserves the canonical order, the i-th node of a tree and
// the i-th node of its clone are the same logical position, and results
// indexed by position carry over between the two.
type Index[N indexable] struct {
	nodes     []N
	positions map[N]int
}

type indexable interface {
	Node
	comparable
}

// ArgumentIndex numbers the arguments of a tree
type ArgumentIndex = Index[Argument]

func newIndex[N indexable](root Node) *Index[N] {
	idx := &Index[N]{positions: make(map[N]int)}
	Visit(root, func(n N) {
		idx.positions[n] = len(idx.nodes)
		idx.nodes = append(idx.nodes, n)
	})
	return idx
}

func IndexArguments(root Node) *ArgumentIndex { return newIndex[Argument](root) }

// IndexNodes numbers every node of a tree, root included
func IndexNodes(root Node) *Index[Node] { return newIndex[Node](root) }

func (idx *Index[N]) Len() int { return len(idx.nodes) }

func (idx *Index[N]) At(i int) N { return idx.nodes[i] }

// Position returns the index of n, which must belong to the indexed tree
func (idx *Index[N]) Position(n N) (int, bool) {
	i, ok := idx.positions[n]
	return i, ok
}

// MustPosition is Position for callers that know n belongs to the indexed tree
func (idx *Index[N]) MustPosition(n N) int {
	i, ok := idx.positions[n]
	if !ok {
		panic(errors.Errorf("node %v is not part of the indexed tree", n))
	}
	return i
}

// All iterates over positions and nodes, in order
func (idx *Index[N]) All() iter.Seq2[int, N] {
	return func(yield func(int, N) bool) {
		for i, n := range idx.nodes {
			if !yield(i, n) {
				return
			}
		}
	}
}
