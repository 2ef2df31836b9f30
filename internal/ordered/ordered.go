// Package ordered provides a sorted set of comparable elements. Elements with
// equal keys keep their insertion order, and an element is stored at most once
// no matter how often it is inserted.
//
// It backs every cost-ordered solution collection in the planner: the
// complete solutions of a serial container, the accepted solutions of a
// wrapper and the solutions of a single stage.
package ordered

import (
	"iter"
	"slices"
	"sort"
)

// Set keeps its elements sorted by a caller-provided ordering.
// The zero value is not usable; create sets with New.
type Set[T comparable] struct {
	less    func(a, b T) bool
	items   []T
	members map[T]struct{}
}

// New creates an empty set ordered by less. less must be a strict weak ordering.
func New[T comparable](less func(a, b T) bool) *Set[T] {
	if less == nil {
		panic("ordered: less function must not be nil")
	}
	return &Set[T]{
		less:    less,
		members: make(map[T]struct{}),
	}
}

// Costed is implemented by anything that carries a cost.
type Costed interface {
	comparable
	Cost() float64
}

// ByCost creates a set ordered by ascending cost.
func ByCost[T Costed]() *Set[T] {
	return New(func(a, b T) bool { return a.Cost() < b.Cost() })
}

// Insert adds x after all elements that do not sort after it. It returns false
// if x is already a member, in which case the set is unchanged.
func (s *Set[T]) Insert(x T) bool {
	if _, ok := s.members[x]; ok {
		return false
	}
	// Upper bound: first element that sorts strictly after x.
	idx := sort.Search(len(s.items), func(i int) bool { return s.less(x, s.items[i]) })
	s.items = slices.Insert(s.items, idx, x)
	s.members[x] = struct{}{}
	return true
}

// Remove deletes x from the set. It returns false if x was not a member.
func (s *Set[T]) Remove(x T) bool {
	if _, ok := s.members[x]; !ok {
		return false
	}
	delete(s.members, x)
	idx := slices.Index(s.items, x)
	s.items = slices.Delete(s.items, idx, idx+1)
	return true
}

// Contains reports whether x is a member of the set.
func (s *Set[T]) Contains(x T) bool {
	_, ok := s.members[x]
	return ok
}

// Len returns the number of elements.
func (s *Set[T]) Len() int {
	return len(s.items)
}

// At returns the i-th element in order. It panics if i is out of range.
func (s *Set[T]) At(i int) T {
	return s.items[i]
}

// Items returns a snapshot of the elements in order.
func (s *Set[T]) Items() []T {
	return slices.Clone(s.items)
}

// All iterates the elements in order. The set must not be modified during iteration.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range s.items {
			if !yield(x) {
				return
			}
		}
	}
}

// Clear removes all elements.
func (s *Set[T]) Clear() {
	s.items = nil
	s.members = make(map[T]struct{})
}
