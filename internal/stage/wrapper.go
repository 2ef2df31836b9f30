package stage

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/specialistvlad/stagegraph/internal/solution"
)

// Wrapper adapts exactly one child. Child solutions that pass the filter are
// lifted, optionally with a new cost; the others are kept as failures
// together with copies of their boundary states.
type Wrapper struct {
	containerBase

	filter        func(solution.Solution) bool
	costTransform func(solution.Solution) float64

	seen          map[solution.Solution]struct{}
	failureStates []*iface.State
}

// WrapperOption configures a Wrapper.
type WrapperOption func(*Wrapper)

// WithFilter sets the predicate deciding which child solutions are accepted.
// Failed child solutions are always rejected.
func WithFilter(fn func(solution.Solution) bool) WrapperOption {
	return func(w *Wrapper) { w.filter = fn }
}

// WithCostTransform replaces the cost of accepted solutions.
func WithCostTransform(fn func(solution.Solution) float64) WrapperOption {
	return func(w *Wrapper) { w.costTransform = fn }
}

// NewWrapper creates an empty wrapper.
func NewWrapper(name string, opts ...WrapperOption) *Wrapper {
	w := &Wrapper{seen: make(map[solution.Solution]struct{})}
	w.containerBase = newContainerBase(name, w)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wrapper) Insert(child Stage, before int) error {
	if len(w.children) > 0 {
		return fmt.Errorf("%w: %s", ErrWrapperFull, w.name)
	}
	return w.containerBase.Insert(child, before)
}

// Child returns the wrapped stage, or nil.
func (w *Wrapper) Child() Stage {
	if len(w.children) == 0 {
		return nil
	}
	return w.children[0]
}

// FailureStates returns copies of the boundary states of rejected solutions
// in rejection order.
func (w *Wrapper) FailureStates() []*iface.State {
	return slices.Clone(w.failureStates)
}

func (w *Wrapper) Flags() Flags {
	if child := w.Child(); child != nil {
		return child.Flags()
	}
	return 0
}

func (w *Wrapper) prepare(ctx context.Context, obs Observer) error {
	if err := w.prepareChildren(ctx, obs); err != nil {
		return err
	}
	child := w.children[0].base()
	w.setupContainer(ctx, obs, w.Flags(),
		func(st *iface.State, updated bool) { w.copyState(st, child.starts, updated) },
		func(st *iface.State, updated bool) { w.copyState(st, child.ends, updated) },
	)
	return nil
}

func (w *Wrapper) bind(prevEnds, nextStarts *iface.Interface) {
	w.bindPending(prevEnds, nextStarts)
	bindChild(w.children[0], w.pendingBackward, w.pendingForward)
}

func (w *Wrapper) reset() {
	w.containerBase.reset()
	w.seen = make(map[solution.Solution]struct{})
	w.failureStates = nil
}

func (w *Wrapper) CanCompute() bool {
	child := w.Child()
	return child != nil && Computable(child)
}

func (w *Wrapper) Compute(ctx context.Context) error {
	w.drain(w.onChildSolution)
	if !w.CanCompute() {
		return nil
	}
	w.computeChild(ctx, w.children[0])
	w.drain(w.onChildSolution)
	return ctx.Err()
}

func (w *Wrapper) onChildSolution(_ int, sol solution.Solution) {
	if _, ok := w.seen[sol]; ok {
		return
	}
	w.seen[sol] = struct{}{}

	if sol.Failed() || (w.filter != nil && !w.filter(sol)) {
		w.reject(sol)
		return
	}
	cost := sol.Cost()
	if w.costTransform != nil {
		cost = w.costTransform(sol)
	}
	if checkCost(cost) != nil || math.IsInf(cost, 1) {
		w.logger.Warn("Cost transform produced an unusable cost.", "cost", cost)
		w.reject(sol)
		return
	}

	start := w.liftStart(sol.Start())
	end := w.liftEnd(sol.End())
	w.publish(solution.NewWrapped(w.Base, sol, cost, start, end))
}

func (w *Wrapper) reject(sol solution.Solution) {
	w.failures = append(w.failures, sol)
	for _, st := range []*iface.State{sol.Start(), sol.End()} {
		if st != nil {
			w.failureStates = append(w.failureStates, iface.NewState(st.Value(), st.Priority()))
		}
	}
	w.logger.Debug("Rejected child solution.", "cost", sol.Cost(), "comment", sol.Comment())
}
