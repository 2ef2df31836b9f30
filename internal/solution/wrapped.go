package solution

import "github.com/specialistvlad/stagegraph/internal/iface"

// Wrapped lifts a single child solution to the boundary of its container.
// The cost may differ from the inner cost when the container annotates it.
type Wrapped struct {
	Base
	inner Solution
}

// NewWrapped creates a lifted solution.
func NewWrapped(creator Creator, inner Solution, cost float64, start, end *iface.State) *Wrapped {
	return &Wrapped{
		Base:  NewBase(creator, cost, start, end, inner.Comment()),
		inner: inner,
	}
}

// Inner returns the child solution.
func (w *Wrapped) Inner() Solution {
	return w.inner
}

// Flatten returns the leaf solutions that make up sol in chain order.
// Serial solutions are expanded part by part and wrapped ones are unwrapped.
func Flatten(sol Solution) []Solution {
	switch s := sol.(type) {
	case *Serial:
		var out []Solution
		for _, sub := range s.subs {
			out = append(out, Flatten(sub)...)
		}
		return out
	case *Wrapped:
		return Flatten(s.inner)
	default:
		return []Solution{sol}
	}
}
