package stage

import (
	"context"
	"fmt"

	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/specialistvlad/stagegraph/internal/solution"
)

// parallelBase is shared by containers whose children all work on the same
// external states. Every child must have the same flags.
type parallelBase struct {
	containerBase
}

func (p *parallelBase) Flags() Flags {
	if len(p.children) == 0 {
		return 0
	}
	return p.children[0].Flags()
}

func (p *parallelBase) prepare(ctx context.Context, obs Observer) error {
	if err := p.prepareChildren(ctx, obs); err != nil {
		return err
	}
	flags := p.children[0].Flags()
	for _, child := range p.children[1:] {
		if child.Flags() != flags {
			return fmt.Errorf("%w: %s has %s, %s has %s", ErrInterfaceMismatch,
				p.children[0].Name(), flags, child.Name(), child.Flags())
		}
	}
	p.setupContainer(ctx, obs, flags,
		func(st *iface.State, updated bool) { p.onNewExternalState(iface.Forward, st, updated) },
		func(st *iface.State, updated bool) { p.onNewExternalState(iface.Backward, st, updated) },
	)
	return nil
}

func (p *parallelBase) bind(prevEnds, nextStarts *iface.Interface) {
	p.bindPending(prevEnds, nextStarts)
	for _, child := range p.children {
		bindChild(child, p.pendingBackward, p.pendingForward)
	}
}

// onNewExternalState copies a new or refreshed external state into every
// child that pulls in dir.
func (p *parallelBase) onNewExternalState(dir iface.Direction, external *iface.State, updated bool) {
	for _, child := range p.children {
		b := child.base()
		target := b.starts
		if dir == iface.Backward {
			target = b.ends
		}
		p.copyState(external, target, updated)
	}
}

func (p *parallelBase) onChildSolution(_ int, sol solution.Solution) {
	if sol.Failed() {
		return
	}
	start := p.liftStart(sol.Start())
	end := p.liftEnd(sol.End())
	p.publish(solution.NewWrapped(p.Base, sol, sol.Cost(), start, end))
}

// Alternatives computes all of its children and collects the solutions of
// every one of them.
type Alternatives struct {
	parallelBase
}

// NewAlternatives creates an empty alternatives container.
func NewAlternatives(name string) *Alternatives {
	a := &Alternatives{}
	a.containerBase = newContainerBase(name, a)
	return a
}

func (a *Alternatives) CanCompute() bool {
	return a.anyComputable()
}

func (a *Alternatives) Compute(ctx context.Context) error {
	a.drain(a.onChildSolution)
	for _, child := range a.children {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !Computable(child) {
			continue
		}
		a.computeChild(ctx, child)
		a.drain(a.onChildSolution)
	}
	return nil
}

// Fallbacks tries its children one after another. The current child is
// computed until it cannot compute anymore; if no solution was found by then,
// the next child takes over.
type Fallbacks struct {
	parallelBase
	active int
}

// NewFallbacks creates an empty fallbacks container.
func NewFallbacks(name string) *Fallbacks {
	f := &Fallbacks{}
	f.containerBase = newContainerBase(name, f)
	return f
}

// Active returns the child currently tried, or nil once the container is done.
func (f *Fallbacks) Active() Stage {
	if i := f.next(); i < len(f.children) {
		return f.children[i]
	}
	return nil
}

// next returns the index of the child to compute, or len(children) once the
// container is done. It does not move the active child; Compute does.
func (f *Fallbacks) next() int {
	for i := f.active; i < len(f.children); i++ {
		if Computable(f.children[i]) {
			return i
		}
		if f.solutions.Len() > 0 {
			break
		}
	}
	return len(f.children)
}

func (f *Fallbacks) CanCompute() bool {
	return f.next() < len(f.children)
}

func (f *Fallbacks) Compute(ctx context.Context) error {
	f.drain(f.onChildSolution)
	i := f.next()
	if i == len(f.children) {
		return nil
	}
	if i != f.active {
		f.logger.Debug("Falling back to next child.", "child", f.children[i].Name())
		f.active = i
	}
	f.computeChild(ctx, f.children[i])
	f.drain(f.onChildSolution)
	return ctx.Err()
}

func (f *Fallbacks) reset() {
	f.containerBase.reset()
	f.active = 0
}
