package stage

import (
	"context"
	"time"

	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/specialistvlad/stagegraph/internal/solution"
)

// View is the read-only surface of a stage.
type View interface {
	Name() string
	Flags() Flags
	// Solutions returns the successful solutions ordered by cost.
	Solutions() []solution.Solution
	NumSolutions() int
	// Failures returns failed or rejected solutions in the order they occurred.
	Failures() []solution.Solution
	// Parent returns the enclosing container, or nil for the root.
	Parent() View
	Timeout() time.Duration
	Elapsed() time.Duration
	// Err returns the error of the last failed computation, if any. A stage
	// with an error is not computed again until it is reset.
	Err() error
}

// Stage is a unit of computation. Concrete stages embed *Base, which
// provides everything except CanCompute and Compute.
type Stage interface {
	View
	CanCompute() bool
	Compute(ctx context.Context) error

	base() *Base
	prepare(ctx context.Context, obs Observer) error
	bind(prevEnds, nextStarts *iface.Interface)
	reset()
}

// Resetter is implemented by stages that keep planning progress of their
// own. Reset is called whenever the enclosing tree is reset.
type Resetter interface {
	Reset()
}

// Observer is notified after every computation.
type Observer interface {
	ObserveCompute(s View, elapsed time.Duration, err error)
}

// Init prepares the tree rooted at s for planning: pull interfaces are
// created, adjacent children are connected and push interfaces are bound.
// The root has no neighbours, so it gets no push interfaces.
func Init(ctx context.Context, s Stage, obs Observer) error {
	if err := s.prepare(ctx, obs); err != nil {
		return err
	}
	s.bind(nil, nil)
	return nil
}

// Reset clears all planning results of the tree rooted at s. The tree has to
// be initialized again before the next computation.
func Reset(s Stage) {
	s.reset()
	if r, ok := s.(Resetter); ok {
		r.Reset()
	}
}

// Computable reports whether s is initialized, has not failed, has budget
// left and can compute.
func Computable(s Stage) bool {
	b := s.base()
	return b.prepared && b.err == nil && !b.TimedOut() && s.CanCompute()
}

// Run computes s once, charging the elapsed time against its timeout.
func Run(ctx context.Context, s Stage) error {
	b := s.base()
	start := time.Now()
	err := s.Compute(ctx)
	elapsed := time.Since(start)

	b.elapsed += elapsed
	if err != nil && ctx.Err() == nil {
		b.err = err
	}
	if b.observer != nil {
		b.observer.ObserveCompute(s, elapsed, err)
	}
	return err
}
