package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/specialistvlad/stagegraph/internal/ctxlog"
	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/specialistvlad/stagegraph/internal/ordered"
	"github.com/specialistvlad/stagegraph/internal/solution"
)

// ErrMissingState is returned by the propagation helpers when the state to
// propagate from is nil.
var ErrMissingState = errors.New("propagation needs an existing state")

// Base carries the state shared by every stage. Leaf stages embed *Base and
// use its helpers to publish solutions.
type Base struct {
	name    string
	flags   Flags
	timeout time.Duration

	parent   Container
	logger   *slog.Logger
	observer Observer
	prepared bool

	starts     *iface.Interface
	ends       *iface.Interface
	prevEnds   *iface.Interface
	nextStarts *iface.Interface

	solutions *ordered.Set[solution.Solution]
	failures  []solution.Solution
	elapsed   time.Duration
	err       error
}

// NewBase creates the shared part of a leaf stage.
func NewBase(name string, flags Flags) *Base {
	return &Base{
		name:      name,
		flags:     flags,
		logger:    slog.Default(),
		solutions: ordered.ByCost[solution.Solution](),
	}
}

func (b *Base) Name() string { return b.name }

func (b *Base) Flags() Flags { return b.flags }

func (b *Base) Solutions() []solution.Solution { return b.solutions.Items() }

func (b *Base) NumSolutions() int { return b.solutions.Len() }

func (b *Base) Failures() []solution.Solution { return slices.Clone(b.failures) }

func (b *Base) Parent() View {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

func (b *Base) Timeout() time.Duration { return b.timeout }

func (b *Base) Elapsed() time.Duration { return b.elapsed }

func (b *Base) Err() error { return b.err }

// SetTimeout limits the accumulated compute time of the stage. Zero means
// no limit.
func (b *Base) SetTimeout(d time.Duration) { b.timeout = d }

// TimedOut reports whether the compute budget is used up.
func (b *Base) TimedOut() bool {
	return b.timeout > 0 && b.elapsed >= b.timeout
}

// Starts is the pull interface of start states, nil unless the stage pulls starts.
func (b *Base) Starts() *iface.Interface { return b.starts }

// Ends is the pull interface of end states, nil unless the stage pulls ends.
func (b *Base) Ends() *iface.Interface { return b.ends }

// PrevEnds is where states sent backward go. It is nil when pushing
// backward is not supported at this position of the tree.
func (b *Base) PrevEnds() *iface.Interface { return b.prevEnds }

// NextStarts is where states sent forward go. It is nil when pushing
// forward is not supported at this position of the tree.
func (b *Base) NextStarts() *iface.Interface { return b.nextStarts }

// Logger returns the logger bound to this stage during initialization.
func (b *Base) Logger() *slog.Logger { return b.logger }

func (b *Base) base() *Base { return b }

func (b *Base) prepare(ctx context.Context, obs Observer) error {
	b.setup(ctx, obs, b.flags, nil, nil)
	return nil
}

func (b *Base) setup(ctx context.Context, obs Observer, flags Flags, onStart, onEnd iface.NotifyFunc) {
	b.logger = ctxlog.FromContext(ctx).With("stage", b.name)
	b.observer = obs
	b.starts, b.ends = nil, nil
	if flags.Has(PullStart) {
		b.starts = iface.New(iface.Forward, onStart)
	}
	if flags.Has(PullEnd) {
		b.ends = iface.New(iface.Backward, onEnd)
	}
	b.prepared = true
}

func (b *Base) bind(prevEnds, nextStarts *iface.Interface) {
	b.prevEnds = prevEnds
	b.nextStarts = nextStarts
}

func (b *Base) reset() {
	b.prepared = false
	b.starts, b.ends = nil, nil
	b.prevEnds, b.nextStarts = nil, nil
	b.solutions.Clear()
	b.failures = nil
	b.elapsed = 0
	b.err = nil
}

// Spawn creates a new state pair for value: one copy is sent backward as an
// end state of the predecessor, the other forward as a start state of the
// successor. The solution connects the two.
func (b *Base) Spawn(value any, cost float64, payload any) (solution.Solution, error) {
	if err := checkCost(cost); err != nil {
		return nil, err
	}
	p := iface.Priority{Depth: 1, Cost: cost}
	from := iface.NewState(value, p)
	to := iface.NewState(value, p)
	sol := solution.NewSubTrajectory(b, cost, from, to, payload, "")
	if !sol.Failed() {
		push(b.prevEnds, from)
		push(b.nextStarts, to)
	}
	b.publish(sol)
	return sol, nil
}

// SendForward creates a new end state from value and sends it forward.
func (b *Base) SendForward(from *iface.State, value any, cost float64, payload any) (solution.Solution, error) {
	if from == nil {
		return nil, ErrMissingState
	}
	if err := checkCost(cost); err != nil {
		return nil, err
	}
	to := iface.NewState(value, extend(from.Priority(), cost))
	sol := solution.NewSubTrajectory(b, cost, from, to, payload, "")
	if !sol.Failed() {
		push(b.nextStarts, to)
	}
	b.publish(sol)
	return sol, nil
}

// SendBackward creates a new start state from value and sends it backward.
func (b *Base) SendBackward(value any, to *iface.State, cost float64, payload any) (solution.Solution, error) {
	if to == nil {
		return nil, ErrMissingState
	}
	if err := checkCost(cost); err != nil {
		return nil, err
	}
	from := iface.NewState(value, extend(to.Priority(), cost))
	sol := solution.NewSubTrajectory(b, cost, from, to, payload, "")
	if !sol.Failed() {
		push(b.prevEnds, from)
	}
	b.publish(sol)
	return sol, nil
}

// Connect publishes a solution between two existing states.
func (b *Base) Connect(from, to *iface.State, cost float64, payload any) (solution.Solution, error) {
	if from == nil || to == nil {
		return nil, ErrMissingState
	}
	if err := checkCost(cost); err != nil {
		return nil, err
	}
	sol := solution.NewSubTrajectory(b, cost, from, to, payload, "")
	b.publish(sol)
	return sol, nil
}

// Fail records a failed attempt between start and end, either of which may
// be nil. Failures never create new states.
func (b *Base) Fail(start, end *iface.State, comment string) solution.Solution {
	sol := solution.NewSubTrajectory(b, math.Inf(1), start, end, nil, comment)
	b.publish(sol)
	return sol
}

// publish stores sol and announces it to the parent. Failed solutions are
// announced too, so wrappers can keep them.
func (b *Base) publish(sol solution.Solution) {
	if sol.Failed() {
		b.failures = append(b.failures, sol)
	} else if !b.solutions.Insert(sol) {
		return
	}
	if b.parent != nil {
		b.parent.onNewSolution(b, sol)
	}
}

func checkCost(cost float64) error {
	if cost < 0 || math.IsNaN(cost) {
		return fmt.Errorf("%w: got %v", ErrNegativeCost, cost)
	}
	return nil
}

func extend(p iface.Priority, cost float64) iface.Priority {
	return iface.Priority{Depth: p.Depth + 1, Cost: p.Cost + cost}
}

// push is a no-op when the target interface does not exist.
func push(target *iface.Interface, s *iface.State) {
	if target != nil {
		target.Add(s)
	}
}
