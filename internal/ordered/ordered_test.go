package ordered

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name string
	cost float64
}

func (i *item) Cost() float64 { return i.cost }

func names(s *Set[*item]) []string {
	var out []string
	for it := range s.All() {
		out = append(out, it.name)
	}
	return out
}

func TestInsert_SortsByCost(t *testing.T) {
	s := ByCost[*item]()
	for _, c := range []float64{5, 1, 3} {
		require.True(t, s.Insert(&item{name: "c", cost: c}))
	}

	var costs []float64
	for it := range s.All() {
		costs = append(costs, it.cost)
	}
	assert.Equal(t, []float64{1, 3, 5}, costs)
}

func TestInsert_EqualCostKeepsInsertionOrder(t *testing.T) {
	s := ByCost[*item]()
	s.Insert(&item{name: "first", cost: 2})
	s.Insert(&item{name: "cheap", cost: 1})
	s.Insert(&item{name: "second", cost: 2})
	s.Insert(&item{name: "third", cost: 2})

	assert.Equal(t, []string{"cheap", "first", "second", "third"}, names(s))
}

func TestInsert_DuplicateIdentityIgnored(t *testing.T) {
	s := ByCost[*item]()
	a := &item{name: "a", cost: 1}
	twin := &item{name: "a", cost: 1}

	assert.True(t, s.Insert(a))
	assert.False(t, s.Insert(a), "same pointer must not be inserted twice")
	assert.True(t, s.Insert(twin), "equal value but different identity is a new member")
	assert.Equal(t, 2, s.Len())
}

func TestRemoveAndContains(t *testing.T) {
	s := ByCost[*item]()
	a := &item{name: "a", cost: 1}
	b := &item{name: "b", cost: 2}
	s.Insert(a)
	s.Insert(b)

	require.True(t, s.Contains(a))
	assert.True(t, s.Remove(a))
	assert.False(t, s.Remove(a))
	assert.False(t, s.Contains(a))
	assert.Equal(t, []string{"b"}, names(s))

	// Reinsertion after removal goes behind equal keys.
	c := &item{name: "c", cost: 2}
	s.Insert(c)
	s.Insert(a)
	a.cost = 2
	s.Remove(a)
	s.Insert(a)
	assert.Equal(t, []string{"b", "c", "a"}, names(s))
}

func TestItemsIsSnapshot(t *testing.T) {
	s := New(func(a, b int) bool { return a < b })
	s.Insert(3)
	s.Insert(1)

	items := s.Items()
	items[0] = 42
	assert.Equal(t, 1, s.At(0))
	assert.True(t, slices.Equal([]int{1, 3}, s.Items()))

	s.Clear()
	assert.Zero(t, s.Len())
	assert.False(t, s.Contains(1))
}

func TestNew_NilLessPanics(t *testing.T) {
	assert.Panics(t, func() { New[int](nil) })
}
