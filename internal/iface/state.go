package iface

import (
	"container/list"
	"fmt"
)

// Direction tells which boundary role the states of an interface play.
type Direction int

const (
	// Forward interfaces receive start states, produced by forward propagation
	// of earlier stages.
	Forward Direction = iota
	// Backward interfaces receive end states, produced by backward propagation
	// of later stages.
	Backward
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Priority orders states within an interface. States that already took part
// in more solutions (larger Depth) come first, ties are broken by lower Cost.
type Priority struct {
	Depth uint
	Cost  float64
}

// Less reports whether p should be tried before other.
func (p Priority) Less(other Priority) bool {
	if p.Depth != other.Depth {
		return p.Depth > other.Depth
	}
	return p.Cost < other.Cost
}

// State is an opaque planning state at a stage boundary. States are only ever
// handled by pointer; a State is never copied once inserted into an Interface.
type State struct {
	value    any
	priority Priority

	owner *Interface
	elem  *list.Element
}

// NewState creates a state that is not yet part of any interface.
func NewState(value any, priority Priority) *State {
	return &State{value: value, priority: priority}
}

// Value returns the opaque planning state.
func (s *State) Value() any {
	return s.value
}

// Priority returns the current ordering key of the state.
func (s *State) Priority() Priority {
	return s.priority
}

// Owner returns the interface holding the state, or nil.
func (s *State) Owner() *Interface {
	return s.owner
}

func (s *State) String() string {
	return fmt.Sprintf("%v", s.value)
}
