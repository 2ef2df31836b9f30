package solution

import (
	"slices"

	"github.com/specialistvlad/stagegraph/internal/iface"
)

// Serial is a chain of child solutions, one per child of a serial container,
// where the end state of each part is the start state of the next.
//
// Start and End are the states at the container boundary; InternalStart and
// InternalEnd are the states of the first and last part.
type Serial struct {
	Base
	subs []Solution
}

// NewSerial creates a chain solution. Its cost is the sum of the part costs.
// It panics on an empty chain.
func NewSerial(creator Creator, subs []Solution, start, end *iface.State) *Serial {
	if len(subs) == 0 {
		panic("solution: serial solution needs at least one part")
	}
	var cost float64
	for _, s := range subs {
		cost += s.Cost()
	}
	return &Serial{
		Base: NewBase(creator, cost, start, end, ""),
		subs: slices.Clone(subs),
	}
}

// SubSolutions returns the parts in chain order.
func (s *Serial) SubSolutions() []Solution {
	return slices.Clone(s.subs)
}

// InternalStart returns the start state of the first part.
func (s *Serial) InternalStart() *iface.State {
	return s.subs[0].Start()
}

// InternalEnd returns the end state of the last part.
func (s *Serial) InternalEnd() *iface.State {
	return s.subs[len(s.subs)-1].End()
}
