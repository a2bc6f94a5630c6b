package util

import (
	"slices"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapIter(t *testing.T) {
	lengths := MapIter(slices.Values([]string{"a", "bb", "ccc"}), func(s string) int { return len(s) })
	assert.Equal(t, []int{1, 2, 3}, slices.Collect(lengths))
}

func TestSetFromSeq(t *testing.T) {
	s := SetFromSeq(MapIter(slices.Values([]int{1, 2, 2, 3}), strconv.Itoa), 4)
	assert.Equal(t, 3, s.Size())
	assert.True(t, s.Contains("2"))
}

func TestMSet(t *testing.T) {
	s := NewEmptySet[string]()
	s.Add("x", "y", "x")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("y"))
	assert.False(t, s.Contains("z"))
}
