package types

import (
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/xtgo/set"
)

// TypeSet is an immutable set of types, or the distinguished set of all types.
//
// An empty TypeSet means no type is valid, which is a type error.
// Elements are kept sorted by name, so names must be unique, which
// holds for types of a single Environment.
type TypeSet struct {
	all   bool
	types []Type
}

// byName implements sort.Interface for the algorithms of xtgo/set
type byName []Type

func (s byName) Len() int           { return len(s) }
func (s byName) Less(i, j int) bool { return s[i].Name() < s[j].Name() }
func (s byName) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// AllTypes is the unconstrained TypeSet
func AllTypes() TypeSet {
	return TypeSet{all: true}
}

func NewTypeSet(types ...Type) TypeSet {
	data := slices.Clone(types)
	sort.Sort(byName(data))
	n := set.Uniq(byName(data))
	return TypeSet{types: data[:n]}
}

func (s TypeSet) IsAll() bool { return s.all }

// Empty is true when no type is valid. The set of all types is not empty
func (s TypeSet) Empty() bool { return !s.all && len(s.types) == 0 }

// Len is the number of types in s, and 0 if s is all types
func (s TypeSet) Len() int { return len(s.types) }

func (s TypeSet) Contains(t Type) bool {
	if s.all {
		return true
	}
	i, found := slices.BinarySearchFunc(s.types, t.Name(), func(e Type, name string) int {
		return strings.Compare(e.Name(), name)
	})
	return found && s.types[i] == t
}

// All iterates over the types in s, sorted by name. It yields nothing if s is all types
func (s TypeSet) All() iter.Seq[Type] {
	return slices.Values(s.types)
}

func (s TypeSet) Insert(types ...Type) TypeSet {
	if s.all {
		return s
	}
	return Union(s, NewTypeSet(types...))
}

// Filter keeps the types of s for which keep holds, and returns whenAll if s is all types
func (s TypeSet) Filter(whenAll TypeSet, keep func(Type) bool) TypeSet {
	if s.all {
		return whenAll
	}
	var kept []Type
	for _, t := range s.types {
		if keep(t) {
			kept = append(kept, t)
		}
	}
	return TypeSet{types: kept}
}

// Any is true if some type of s satisfies pred. It is false when s is all types
func (s TypeSet) Any(pred func(Type) bool) bool {
	return slices.ContainsFunc(s.types, pred)
}

func (s TypeSet) Equal(other TypeSet) bool {
	if s.all || other.all {
		return s.all == other.all
	}
	return slices.Equal(s.types, other.types)
}

func (s TypeSet) String() string {
	if s.all {
		return "{ - all types - }"
	}
	names := make([]string, len(s.types))
	for i, t := range s.types {
		names[i] = t.Name()
	}
	return "{" + strings.Join(names, ",") + "}"
}

func Union(a, b TypeSet) TypeSet {
	if a.all || b.all {
		return AllTypes()
	}
	data := make([]Type, 0, len(a.types)+len(b.types))
	data = append(append(data, a.types...), b.types...)
	n := set.Union(byName(data), len(a.types))
	return TypeSet{types: data[:n]}
}

func Intersection(a, b TypeSet) TypeSet {
	if a.all {
		return b
	}
	if b.all {
		return a
	}
	data := make([]Type, 0, len(a.types)+len(b.types))
	data = append(append(data, a.types...), b.types...)
	n := set.Inter(byName(data), len(a.types))
	return TypeSet{types: data[:n]}
}
