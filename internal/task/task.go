// Package task drives a stage tree: it initializes the tree, runs the
// cooperative planning loop and exposes the results.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/specialistvlad/stagegraph/internal/ctxlog"
	"github.com/specialistvlad/stagegraph/internal/solution"
	"github.com/specialistvlad/stagegraph/internal/stage"
	"github.com/specialistvlad/stagegraph/internal/stageid"
)

// ErrUnfedInterface is returned when the root stage pulls from an interface.
// Nothing outside the tree could ever feed it.
var ErrUnfedInterface = errors.New("root stage must not pull states")

// Task owns the root of a stage tree.
type Task struct {
	name     string
	root     stage.Stage
	timeout  time.Duration
	observer stage.Observer

	initialized bool
}

// Option configures a Task.
type Option func(*Task)

// WithTimeout limits the wall time of a single Plan call.
func WithTimeout(d time.Duration) Option {
	return func(t *Task) { t.timeout = d }
}

// WithObserver registers an observer for every stage computation.
func WithObserver(obs stage.Observer) Option {
	return func(t *Task) { t.observer = obs }
}

// New creates a task for root.
func New(name string, root stage.Stage, opts ...Option) *Task {
	t := &Task{name: name, root: root}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Task) Name() string      { return t.name }
func (t *Task) Root() stage.Stage { return t.root }

// Init prepares the stage tree. It is a no-op for an initialized task.
func (t *Task) Init(ctx context.Context) error {
	if t.initialized {
		return nil
	}
	if t.root == nil {
		return fmt.Errorf("task %s has no root stage", t.name)
	}
	if flags := t.root.Flags(); flags.Pulls() {
		return fmt.Errorf("%w: %s has %s", ErrUnfedInterface, t.root.Name(), flags)
	}
	if err := stage.Init(ctx, t.root, t.observer); err != nil {
		return fmt.Errorf("initializing task %s: %w", t.name, err)
	}
	t.initialized = true
	return nil
}

// Plan computes the tree until no stage can compute anymore, maxSolutions
// solutions were found (zero means no limit) or the task timeout expired.
// It returns the solutions of the root ordered by cost. If ctx is cancelled,
// the solutions found so far are returned together with the context error.
func (t *Task) Plan(ctx context.Context, maxSolutions int) ([]solution.Solution, error) {
	logger := ctxlog.FromContext(ctx).With("task", t.name)
	if err := t.Init(ctx); err != nil {
		return nil, err
	}

	planCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		planCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	start := time.Now()
	iterations := 0
	for stage.Computable(t.root) {
		if err := ctx.Err(); err != nil {
			return t.root.Solutions(), err
		}
		if planCtx.Err() != nil {
			logger.Info("Planning timed out.", "timeout", t.timeout)
			break
		}
		if err := stage.Run(planCtx, t.root); err != nil && planCtx.Err() == nil {
			return t.root.Solutions(), fmt.Errorf("computing %s: %w", t.root.Name(), err)
		}
		iterations++
		if maxSolutions > 0 && t.root.NumSolutions() >= maxSolutions {
			logger.Debug("Solution limit reached.", "max_solutions", maxSolutions)
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return t.root.Solutions(), err
	}

	sols := t.root.Solutions()
	logger.Debug("Planning finished.", "iterations", iterations, "solutions", len(sols), "elapsed", time.Since(start))
	if maxSolutions > 0 && len(sols) > maxSolutions {
		sols = sols[:maxSolutions]
	}
	return sols, nil
}

// Reset discards all planning results. The next Plan initializes the tree
// again.
func (t *Task) Reset() {
	if t.root != nil {
		stage.Reset(t.root)
	}
	t.initialized = false
}

// Find looks up a stage by its address.
func (t *Task) Find(addr *stageid.Address) (stage.Stage, bool) {
	if t.root == nil {
		return nil, false
	}
	return stageid.Find(t.root, addr)
}

// Walk visits every stage of the tree in pre-order until fn returns an error.
func (t *Task) Walk(fn func(s stage.Stage, depth int) error) error {
	if t.root == nil {
		return nil
	}
	var walkErr error
	visit := func(s stage.Stage, depth int) bool {
		if err := fn(s, depth); err != nil {
			walkErr = err
			return false
		}
		return true
	}
	if c, ok := t.root.(stage.Container); ok {
		c.TraverseStagesMutable(visit, 0, maxDepth)
	} else {
		visit(t.root, 0)
	}
	return walkErr
}

// Stages returns every stage of the tree with its address.
func (t *Task) Stages() []Entry {
	var out []Entry
	_ = t.Walk(func(s stage.Stage, depth int) error {
		out = append(out, Entry{Address: stageid.Of(s), Stage: s, Depth: depth})
		return nil
	})
	return out
}

// Entry is a stage together with its position in the tree.
type Entry struct {
	Address *stageid.Address
	Stage   stage.Stage
	Depth   int
}

// LogValue makes entries readable in structured logs.
func (e Entry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("address", e.Address.String()),
		slog.String("flags", e.Stage.Flags().String()),
		slog.Int("solutions", e.Stage.NumSolutions()),
	)
}

const maxDepth = 1 << 16
