package infer

import (
	"fmt"
	"maps"

	"github.com/cottand/dltype/frontend/ast"
	"github.com/cottand/dltype/frontend/ops"
)

// NodeKey identifies a node of a program by the index of its clause and its
// canonical position in that clause, as numbered by ast.IndexNodes.
// A clone of a clause has the same keys as the original
type NodeKey struct {
	Clause   int
	Position int
}

func (k NodeKey) String() string { return fmt.Sprintf("#%d.%d", k.Clause, k.Position) }

// Resolutions records the concrete variant chosen for each polymorphic node of a program.
//
// A node that could not be resolved has no entry.
type Resolutions struct {
	functors    map[NodeKey]*ops.IntrinsicFunctorInfo
	constants   map[NodeKey]ast.NumericType
	aggregators map[NodeKey]ops.AggregateOp
	comparisons map[NodeKey]ops.BinaryConstraintOp
}

func NewResolutions() *Resolutions {
	return &Resolutions{
		functors:    make(map[NodeKey]*ops.IntrinsicFunctorInfo),
		constants:   make(map[NodeKey]ast.NumericType),
		aggregators: make(map[NodeKey]ops.AggregateOp),
		comparisons: make(map[NodeKey]ops.BinaryConstraintOp),
	}
}

func (r *Resolutions) Functor(k NodeKey) (*ops.IntrinsicFunctorInfo, bool) {
	info, ok := r.functors[k]
	return info, ok
}

func (r *Resolutions) NumericConstant(k NodeKey) (ast.NumericType, bool) {
	t, ok := r.constants[k]
	return t, ok
}

func (r *Resolutions) Aggregator(k NodeKey) (ops.AggregateOp, bool) {
	op, ok := r.aggregators[k]
	return op, ok
}

func (r *Resolutions) Comparison(k NodeKey) (ops.BinaryConstraintOp, bool) {
	op, ok := r.comparisons[k]
	return op, ok
}

// Equal reports whether both record the same choices for the same nodes
func (r *Resolutions) Equal(other *Resolutions) bool {
	return maps.Equal(r.functors, other.functors) &&
		maps.Equal(r.constants, other.constants) &&
		maps.Equal(r.aggregators, other.aggregators) &&
		maps.Equal(r.comparisons, other.comparisons)
}

// Clone copies the resolutions, so that later refinements do not affect the copy
func (r *Resolutions) Clone() *Resolutions {
	return &Resolutions{
		functors:    maps.Clone(r.functors),
		constants:   maps.Clone(r.constants),
		aggregators: maps.Clone(r.aggregators),
		comparisons: maps.Clone(r.comparisons),
	}
}
