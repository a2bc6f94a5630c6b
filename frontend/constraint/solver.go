// Package constraint solves systems of constraints over the variables of a property lattice.
//
// Each variable starts at the top of the lattice, and constraints only ever
// narrow the value of variables, so solving is a plain fixpoint iteration.
package constraint

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/cottand/dltype/internal/log"
)

var logger = log.DefaultLogger.With("section", "constraint")

// Constraint narrows the values of some variables of an Assignment
type Constraint[K comparable, V any] interface {
	// Update narrows the assignment and reports whether it changed anything
	Update(a *Assignment[K, V]) bool
	fmt.Stringer
}

// Func is a Constraint defined by a function and a description
type Func[K comparable, V any] struct {
	Description string
	Fn          func(a *Assignment[K, V]) bool
}

func (f Func[K, V]) Update(a *Assignment[K, V]) bool { return f.Fn(a) }
func (f Func[K, V]) String() string                  { return f.Description }

// Assignment maps variables to values. Variables that were never set hold the top value
type Assignment[K comparable, V any] struct {
	values map[K]V
	order  []K
	top    func() V
}

func newAssignment[K comparable, V any](top func() V) *Assignment[K, V] {
	return &Assignment[K, V]{values: make(map[K]V), top: top}
}

func (a *Assignment[K, V]) Get(k K) V {
	v, ok := a.values[k]
	if !ok {
		return a.top()
	}
	return v
}

func (a *Assignment[K, V]) Set(k K, v V) {
	if _, ok := a.values[k]; !ok {
		a.order = append(a.order, k)
	}
	a.values[k] = v
}

// All iterates over the variables that were assigned, in the order they were first assigned
func (a *Assignment[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range a.order {
			if !yield(k, a.values[k]) {
				return
			}
		}
	}
}

func (a *Assignment[K, V]) String() string {
	sb := strings.Builder{}
	for k, v := range a.All() {
		fmt.Fprintf(&sb, "%v = %v\n", k, v)
	}
	return sb.String()
}

// Problem is a set of constraints to be solved together
type Problem[K comparable, V any] struct {
	constraints []Constraint[K, V]
	top         func() V
	// fuel bounds the number of rounds over all constraints
	fuel int
}

const defaultStartingFuel = 10000

// NewProblem starts a problem whose variables are initially top()
func NewProblem[K comparable, V any](top func() V) *Problem[K, V] {
	return &Problem[K, V]{top: top, fuel: defaultStartingFuel}
}

func (p *Problem[K, V]) Add(c ...Constraint[K, V]) {
	p.constraints = append(p.constraints, c...)
}

func (p *Problem[K, V]) Len() int { return len(p.constraints) }

// Solve narrows the assignment of all variables until no constraint changes it.
// Unsatisfiable constraints do not make Solve fail; they narrow variables to the bottom of the lattice instead.
//
// When trace is not nil, the constraints, every round and the solution are written to it.
func (p *Problem[K, V]) Solve(trace io.Writer) *Assignment[K, V] {
	assignment := newAssignment[K, V](p.top)
	if trace != nil {
		fmt.Fprintf(trace, "Solving:\n%v", p)
	}
	fuel := p.fuel
	for round := 1; ; round++ {
		changed := false
		for _, c := range p.constraints {
			if c.Update(assignment) {
				changed = true
				if trace != nil {
					fmt.Fprintf(trace, "  round %d: %v\n", round, c)
				}
			}
		}
		if !changed {
			break
		}
		fuel--
		if fuel <= 0 {
			logger.Warn("constraint problem did not stabilise, giving up", slog.Int("rounds", round))
			break
		}
	}
	if trace != nil {
		fmt.Fprintf(trace, "Solution:\n%v", assignment)
	}
	return assignment
}

func (p *Problem[K, V]) String() string {
	sb := strings.Builder{}
	for _, c := range p.constraints {
		sb.WriteString("  ")
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
