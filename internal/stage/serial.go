package stage

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/specialistvlad/stagegraph/internal/solution"
)

type solutionIndex map[*iface.State][]solution.Solution

// Serial chains its children: states sent forward by one child are pulled by
// the next, states sent backward by a child are pulled by the previous one.
// A complete solution is a path through every child whose parts meet at
// identical states.
type Serial struct {
	containerBase

	// Per child: solutions by start state and by end state. Partial chains
	// live here until a matching neighbour solution shows up.
	byStart []solutionIndex
	byEnd   []solutionIndex
}

// NewSerial creates an empty serial container.
func NewSerial(name string) *Serial {
	s := &Serial{}
	s.containerBase = newContainerBase(name, s)
	return s
}

// Flags combines the start side of the first child with the end side of the
// last one.
func (s *Serial) Flags() Flags {
	if len(s.children) == 0 {
		return 0
	}
	first := s.children[0].Flags()
	last := s.children[len(s.children)-1].Flags()
	return first&(PullStart|PushBackward) | last&(PullEnd|PushForward)
}

func (s *Serial) prepare(ctx context.Context, obs Observer) error {
	if err := s.prepareChildren(ctx, obs); err != nil {
		return err
	}
	for i := 1; i < len(s.children); i++ {
		if err := s.connect(s.children[i-1], s.children[i]); err != nil {
			return err
		}
	}

	first := s.children[0].base()
	last := s.children[len(s.children)-1].base()
	s.setupContainer(ctx, obs, s.Flags(),
		func(st *iface.State, updated bool) { s.copyState(st, first.starts, updated) },
		func(st *iface.State, updated bool) { s.copyState(st, last.ends, updated) },
	)

	s.byStart = make([]solutionIndex, len(s.children))
	s.byEnd = make([]solutionIndex, len(s.children))
	for i := range s.children {
		s.byStart[i] = make(solutionIndex)
		s.byEnd[i] = make(solutionIndex)
	}
	return nil
}

// connect checks that next directly follows prev and that their interfaces
// fit: whatever prev sends forward next must pull, and whatever next sends
// backward prev must pull.
func (s *Serial) connect(prev, next Stage) error {
	if prev == nil || next == nil {
		return fmt.Errorf("%w: nil stage in %s", ErrNotAdjacent, s.name)
	}
	i := s.indexOf(prev.base())
	if i < 0 || i+1 >= len(s.children) || s.children[i+1].base() != next.base() {
		return fmt.Errorf("%w: %s -> %s in %s", ErrNotAdjacent, prev.Name(), next.Name(), s.name)
	}
	pf, nf := prev.Flags(), next.Flags()
	if pf.Has(PushForward) != nf.Has(PullStart) || nf.Has(PushBackward) != pf.Has(PullEnd) {
		return fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrInterfaceMismatch, prev.Name(), pf, next.Name(), nf)
	}
	return nil
}

func (s *Serial) bind(prevEnds, nextStarts *iface.Interface) {
	s.bindPending(prevEnds, nextStarts)
	last := len(s.children) - 1
	for i, child := range s.children {
		prev, next := s.pendingBackward, s.pendingForward
		if i > 0 {
			prev = s.children[i-1].base().ends
		}
		if i < last {
			next = s.children[i+1].base().starts
		}
		bindChild(child, prev, next)
	}
}

func (s *Serial) reset() {
	s.containerBase.reset()
	s.byStart, s.byEnd = nil, nil
}

func (s *Serial) CanCompute() bool {
	return s.anyComputable()
}

// Compute runs every child that can compute, in chain order. Solutions of a
// child are stitched only after its computation returned.
func (s *Serial) Compute(ctx context.Context) error {
	s.drain(s.onChildSolution)
	for _, child := range s.children {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !Computable(child) {
			continue
		}
		s.computeChild(ctx, child)
		s.drain(s.onChildSolution)
	}
	return nil
}

func (s *Serial) onChildSolution(i int, sol solution.Solution) {
	if i < 0 || sol.Failed() {
		return
	}
	s.byStart[i][sol.Start()] = append(s.byStart[i][sol.Start()], sol)
	s.byEnd[i][sol.End()] = append(s.byEnd[i][sol.End()], sol)

	lefts := s.chainsEndingAt(i-1, sol.Start())
	if len(lefts) == 0 {
		return
	}
	rights := s.chainsStartingAt(i+1, sol.End())
	for _, left := range lefts {
		for _, right := range rights {
			s.storeNewSolution(slices.Concat(left, []solution.Solution{sol}, right))
		}
	}
}

// chainsEndingAt returns every chain of solutions of children 0..i whose
// last part ends at end. Below child 0 there is exactly one, empty, chain.
func (s *Serial) chainsEndingAt(i int, end *iface.State) [][]solution.Solution {
	if i < 0 {
		return [][]solution.Solution{nil}
	}
	if end == nil {
		return nil
	}
	var out [][]solution.Solution
	for _, sol := range s.byEnd[i][end] {
		for _, chain := range s.chainsEndingAt(i-1, sol.Start()) {
			out = append(out, append(slices.Clone(chain), sol))
		}
	}
	return out
}

// chainsStartingAt returns every chain of solutions of children i..last
// whose first part starts at start.
func (s *Serial) chainsStartingAt(i int, start *iface.State) [][]solution.Solution {
	if i >= len(s.children) {
		return [][]solution.Solution{nil}
	}
	if start == nil {
		return nil
	}
	var out [][]solution.Solution
	for _, sol := range s.byStart[i][start] {
		for _, chain := range s.chainsStartingAt(i+1, sol.End()) {
			out = append(out, append([]solution.Solution{sol}, chain...))
		}
	}
	return out
}

// storeNewSolution lifts a complete chain to the container boundary and
// publishes it.
func (s *Serial) storeNewSolution(parts []solution.Solution) {
	start := s.liftStart(parts[0].Start())
	end := s.liftEnd(parts[len(parts)-1].End())
	sol := solution.NewSerial(s.Base, parts, start, end)
	s.logger.Debug("Stored complete solution.", "cost", sol.Cost(), "parts", len(parts))
	s.publish(sol)
}
