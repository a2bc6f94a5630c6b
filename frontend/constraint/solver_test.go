package constraint

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// upperBound is the lattice of integers ordered by <=, with top = +inf
func upperBound() int { return math.MaxInt }

func atMost(v string, bound int) Constraint[string, int] {
	return Func[string, int]{
		Description: fmt.Sprintf("%s <= %d", v, bound),
		Fn: func(a *Assignment[string, int]) bool {
			if a.Get(v) <= bound {
				return false
			}
			a.Set(v, bound)
			return true
		},
	}
}

func lessEq(l, r string) Constraint[string, int] {
	return Func[string, int]{
		Description: l + " <= " + r,
		Fn: func(a *Assignment[string, int]) bool {
			if a.Get(l) <= a.Get(r) {
				return false
			}
			a.Set(l, a.Get(r))
			return true
		},
	}
}

func TestSolveToFixpoint(t *testing.T) {
	p := NewProblem[string, int](upperBound)
	// declared out of order, so that solving takes more than one round
	p.Add(lessEq("a", "b"), lessEq("b", "c"), atMost("c", 3), atMost("b", 5))

	solution := p.Solve(nil)

	assert.Equal(t, 3, solution.Get("a"))
	assert.Equal(t, 3, solution.Get("b"))
	assert.Equal(t, 3, solution.Get("c"))
	assert.Equal(t, math.MaxInt, solution.Get("unconstrained"))
	assert.Equal(t, 4, p.Len())
}

func TestSolveIsDeterministic(t *testing.T) {
	solve := func() string {
		p := NewProblem[string, int](upperBound)
		p.Add(atMost("x", 10), lessEq("y", "x"), atMost("y", 2), lessEq("z", "y"))
		return p.Solve(nil).String()
	}
	first := solve()
	for range 5 {
		assert.Equal(t, first, solve())
	}
	assert.Equal(t, "x = 10\ny = 2\nz = 2\n", first)
}

func TestSolveTrace(t *testing.T) {
	p := NewProblem[string, int](upperBound)
	p.Add(atMost("x", 1))

	trace := strings.Builder{}
	p.Solve(&trace)

	assert.Contains(t, trace.String(), "Solving:\n  x <= 1\n")
	assert.Contains(t, trace.String(), "round 1: x <= 1")
	assert.Contains(t, trace.String(), "Solution:\nx = 1\n")
}

func TestSolveRunsOutOfFuel(t *testing.T) {
	p := NewProblem[string, int](upperBound)
	p.fuel = 3
	flip := 0
	p.Add(Func[string, int]{
		Description: "never stable",
		Fn: func(a *Assignment[string, int]) bool {
			flip++
			a.Set("x", flip%2)
			return true
		},
	})

	solution := p.Solve(nil)

	assert.Equal(t, 3, flip)
	assert.Equal(t, 1, solution.Get("x"))
}
