// Package iface implements the pull interfaces through which stages receive
// candidate boundary states.
//
// An Interface is a priority-ordered list of *State. The element pointer of a
// state doubles as its iterator: it stays valid for the lifetime of the
// interface, so containers may keep it in side tables and refer back to it.
//
// Interfaces are not safe for concurrent use. The planner drives the whole
// stage tree from a single cooperative loop.
package iface

import (
	"container/list"
	"iter"
)

// NotifyFunc is called after a state was added (updated == false) or re-sorted
// (updated == true).
type NotifyFunc func(s *State, updated bool)

// Interface is an ordered queue of states.
type Interface struct {
	dir    Direction
	states *list.List
	notify NotifyFunc
}

// New creates an empty interface. notify may be nil.
func New(dir Direction, notify NotifyFunc) *Interface {
	return &Interface{
		dir:    dir,
		states: list.New(),
		notify: notify,
	}
}

// Direction returns the boundary role of the states in this interface.
func (i *Interface) Direction() Direction {
	return i.dir
}

// Add inserts s behind all states that are ordered before or equal to it and
// notifies the interface owner. A state can only ever belong to one interface.
func (i *Interface) Add(s *State) {
	if s == nil {
		panic("iface: cannot add nil state")
	}
	if s.owner != nil {
		panic("iface: state already belongs to an interface")
	}
	i.insert(s)
	if i.notify != nil {
		i.notify(s, false)
	}
}

// Update changes the priority of s and re-sorts it. The state is removed and
// reinserted, so it ends up behind all states of equal priority. Update
// notifies the owner with updated == true.
func (i *Interface) Update(s *State, p Priority) {
	if !i.Contains(s) {
		panic("iface: state does not belong to this interface")
	}
	i.states.Remove(s.elem)
	s.priority = p
	i.insert(s)
	if i.notify != nil {
		i.notify(s, true)
	}
}

// Remove takes s out of the interface. The state keeps its identity but may
// not be added to another interface.
func (i *Interface) Remove(s *State) {
	if !i.Contains(s) {
		panic("iface: state does not belong to this interface")
	}
	i.states.Remove(s.elem)
	s.elem = nil
}

// Pop removes and returns the highest-priority state, or nil. Stages use it
// to consume their pull interfaces.
func (i *Interface) Pop() *State {
	s := i.Front()
	if s != nil {
		i.Remove(s)
	}
	return s
}

func (i *Interface) insert(s *State) {
	s.owner = i
	for e := i.states.Back(); e != nil; e = e.Prev() {
		if !s.priority.Less(e.Value.(*State).priority) {
			s.elem = i.states.InsertAfter(s, e)
			return
		}
	}
	s.elem = i.states.PushFront(s)
}

// Contains reports whether s is currently queued in this interface.
func (i *Interface) Contains(s *State) bool {
	return s != nil && s.owner == i && s.elem != nil
}

// Len returns the number of queued states.
func (i *Interface) Len() int {
	return i.states.Len()
}

// Front returns the highest-priority state, or nil.
func (i *Interface) Front() *State {
	if e := i.states.Front(); e != nil {
		return e.Value.(*State)
	}
	return nil
}

// All iterates the states in priority order. The interface must not be
// modified during iteration.
func (i *Interface) All() iter.Seq[*State] {
	return func(yield func(*State) bool) {
		for e := i.states.Front(); e != nil; e = e.Next() {
			if !yield(e.Value.(*State)) {
				return
			}
		}
	}
}

// States returns a snapshot of the queued states in priority order.
func (i *Interface) States() []*State {
	out := make([]*State, 0, i.states.Len())
	for s := range i.All() {
		out = append(out, s)
	}
	return out
}
