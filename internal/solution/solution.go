// Package solution defines the immutable solution records produced by stages
// and containers.
//
// A solution connects an optional start state to an optional end state at a
// cost. Records are never mutated after creation and are shared by reference:
// a Serial solution points at the child solutions it is made of instead of
// copying them.
package solution

import (
	"math"

	"github.com/specialistvlad/stagegraph/internal/iface"
)

// Creator identifies the stage that produced a solution.
type Creator interface {
	Name() string
}

// Solution is the read-only contract shared by all solution records.
type Solution interface {
	Creator() Creator
	Cost() float64
	Start() *iface.State
	End() *iface.State
	Comment() string
	// Failed reports whether the solution has infinite cost.
	Failed() bool
}

// Base holds the fields common to every solution record.
type Base struct {
	creator Creator
	cost    float64
	start   *iface.State
	end     *iface.State
	comment string
}

// NewBase creates the common part of a solution.
func NewBase(creator Creator, cost float64, start, end *iface.State, comment string) Base {
	return Base{creator: creator, cost: cost, start: start, end: end, comment: comment}
}

func (b *Base) Creator() Creator    { return b.creator }
func (b *Base) Cost() float64       { return b.cost }
func (b *Base) Start() *iface.State { return b.start }
func (b *Base) End() *iface.State   { return b.end }
func (b *Base) Comment() string     { return b.comment }
func (b *Base) Failed() bool        { return math.IsInf(b.cost, 1) }

// SubTrajectory is a leaf solution computed by a single stage.
type SubTrajectory struct {
	Base
	payload any
}

// NewSubTrajectory creates a leaf solution carrying an opaque payload.
func NewSubTrajectory(creator Creator, cost float64, start, end *iface.State, payload any, comment string) *SubTrajectory {
	return &SubTrajectory{
		Base:    NewBase(creator, cost, start, end, comment),
		payload: payload,
	}
}

// Payload returns whatever the producing stage attached to the solution.
func (s *SubTrajectory) Payload() any {
	return s.payload
}
