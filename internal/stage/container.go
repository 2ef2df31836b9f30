package stage

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/specialistvlad/stagegraph/internal/solution"
)

// Container is a stage composed of child stages.
type Container interface {
	Stage

	// Add appends children in order.
	Add(children ...Stage) error
	// Insert places child before the child at position before (see Position).
	Insert(child Stage, before int) error
	Children() []Stage
	// Position maps index to a child position. Negative indices count from
	// the end (-1 is the last child) and out-of-range indices are clamped to
	// [0, len(Children())].
	Position(index int) (int, error)

	// TraverseStages visits the container and its descendants in pre-order,
	// descending while the depth is below maxDepth. It stops and returns
	// false as soon as cb returns false.
	TraverseStages(cb func(v View, depth int) bool, curDepth, maxDepth int) bool
	// TraverseStagesMutable is TraverseStages with write access to the stages.
	TraverseStagesMutable(cb func(s Stage, depth int) bool, curDepth, maxDepth int) bool

	// PushBackwardInterface is the interface children push end states into,
	// or nil if the container cannot push backward itself.
	PushBackwardInterface() *iface.Interface
	// PushForwardInterface is the interface children push start states into,
	// or nil if the container cannot push forward itself.
	PushForwardInterface() *iface.Interface

	onNewSolution(child *Base, sol solution.Solution)
}

type childSolution struct {
	child *Base
	sol   solution.Solution
}

// containerBase is the plumbing shared by all containers.
type containerBase struct {
	*Base
	self     Container
	children []Stage

	// internalToExternal maps every state inserted into a child interface,
	// or lifted from one, to the state at the container boundary.
	internalToExternal map[*iface.State]*iface.State
	// copies holds the internal copies of every external state.
	copies map[*iface.State][]*iface.State

	pendingBackward *iface.Interface
	pendingForward  *iface.Interface

	// queue holds child solutions announced during a child computation.
	queue []childSolution
}

func newContainerBase(name string, self Container) containerBase {
	return containerBase{
		Base: NewBase(name, 0),
		self: self,
	}
}

func (c *containerBase) Add(children ...Stage) error {
	for _, child := range children {
		if err := c.self.Insert(child, len(c.children)); err != nil {
			return err
		}
	}
	return nil
}

func (c *containerBase) Insert(child Stage, before int) error {
	if err := c.adopt(child); err != nil {
		return err
	}
	idx := 0
	if len(c.children) > 0 {
		idx, _ = c.Position(before)
	}
	c.children = slices.Insert(c.children, idx, child)
	return nil
}

func (c *containerBase) adopt(child Stage) error {
	if c.prepared {
		return fmt.Errorf("%w: cannot add to %s", ErrInitialized, c.name)
	}
	if child == nil {
		return fmt.Errorf("%w: nil stage added to %s", ErrInvalidChild, c.name)
	}
	b := child.base()
	if b.parent != nil {
		return fmt.Errorf("%w: %s is a child of %s", ErrForeignChild, b.name, b.parent.Name())
	}
	for p := c.self; p != nil; p = p.base().parent {
		if p.base() == b {
			return fmt.Errorf("%w: %s cannot contain itself", ErrInvalidChild, b.name)
		}
	}
	b.parent = c.self
	return nil
}

func (c *containerBase) Children() []Stage {
	return slices.Clone(c.children)
}

func (c *containerBase) Position(index int) (int, error) {
	n := len(c.children)
	if n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoChildren, c.name)
	}
	if index < 0 {
		index += n
	}
	return min(max(index, 0), n), nil
}

func (c *containerBase) TraverseStages(cb func(View, int) bool, curDepth, maxDepth int) bool {
	if !cb(c.self, curDepth) {
		return false
	}
	if curDepth >= maxDepth {
		return true
	}
	for _, child := range c.children {
		if sub, ok := child.(Container); ok {
			if !sub.TraverseStages(cb, curDepth+1, maxDepth) {
				return false
			}
			continue
		}
		if !cb(child, curDepth+1) {
			return false
		}
	}
	return true
}

func (c *containerBase) TraverseStagesMutable(cb func(Stage, int) bool, curDepth, maxDepth int) bool {
	return c.TraverseStages(func(v View, depth int) bool {
		return cb(v.(Stage), depth)
	}, curDepth, maxDepth)
}

func (c *containerBase) PushBackwardInterface() *iface.Interface { return c.pendingBackward }

func (c *containerBase) PushForwardInterface() *iface.Interface { return c.pendingForward }

func (c *containerBase) onNewSolution(child *Base, sol solution.Solution) {
	c.queue = append(c.queue, childSolution{child: child, sol: sol})
}

// prepareChildren prepares all children. Containers without children are a
// topology error.
func (c *containerBase) prepareChildren(ctx context.Context, obs Observer) error {
	if len(c.children) == 0 {
		return fmt.Errorf("%w: %s", ErrNoChildren, c.name)
	}
	for _, child := range c.children {
		if err := child.prepare(ctx, obs); err != nil {
			return fmt.Errorf("preparing %s: %w", c.name, err)
		}
	}
	return nil
}

func (c *containerBase) setupContainer(ctx context.Context, obs Observer, flags Flags, onStart, onEnd iface.NotifyFunc) {
	c.setup(ctx, obs, flags, onStart, onEnd)
	c.internalToExternal = make(map[*iface.State]*iface.State)
	c.copies = make(map[*iface.State][]*iface.State)
	c.queue = nil
}

// bindPending stores the container's own push targets and creates the
// pending buffers for the ones that exist.
func (c *containerBase) bindPending(prevEnds, nextStarts *iface.Interface) {
	c.Base.bind(prevEnds, nextStarts)
	c.pendingBackward, c.pendingForward = nil, nil
	if prevEnds != nil {
		c.pendingBackward = iface.New(iface.Backward, nil)
	}
	if nextStarts != nil {
		c.pendingForward = iface.New(iface.Forward, nil)
	}
}

func (c *containerBase) reset() {
	c.Base.reset()
	c.internalToExternal = nil
	c.copies = nil
	c.pendingBackward, c.pendingForward = nil, nil
	c.queue = nil
	for _, child := range c.children {
		Reset(child)
	}
}

// copyState inserts a copy of external into target, or re-sorts the existing
// copy when updated is set. A nil target means the child does not pull in
// this direction.
func (c *containerBase) copyState(external *iface.State, target *iface.Interface, updated bool) {
	if target == nil {
		return
	}
	if updated {
		for _, internal := range c.copies[external] {
			if internal.Owner() != target {
				continue
			}
			// Consumed copies are not re-sorted.
			if target.Contains(internal) {
				target.Update(internal, external.Priority())
			}
			return
		}
		panic(fmt.Sprintf("stage: %s refreshed state %v that was never copied", c.name, external))
	}
	internal := iface.NewState(external.Value(), external.Priority())
	c.internalToExternal[internal] = external
	c.copies[external] = append(c.copies[external], internal)
	target.Add(internal)
}

// lift returns the external state of internal. States without a mapping were
// pushed by a child; their external copy is created on first use and pushed
// into push, if that exists.
func (c *containerBase) lift(internal *iface.State, push *iface.Interface) *iface.State {
	if internal == nil {
		return nil
	}
	if external, ok := c.internalToExternal[internal]; ok {
		return external
	}
	external := iface.NewState(internal.Value(), internal.Priority())
	c.internalToExternal[internal] = external
	if push != nil {
		push.Add(external)
	}
	return external
}

func (c *containerBase) liftStart(internal *iface.State) *iface.State {
	return c.lift(internal, c.prevEnds)
}

func (c *containerBase) liftEnd(internal *iface.State) *iface.State {
	return c.lift(internal, c.nextStarts)
}

func (c *containerBase) indexOf(b *Base) int {
	return slices.IndexFunc(c.children, func(s Stage) bool { return s.base() == b })
}

// IndexOf returns the position of v among the children of c, or -1. v may be
// the child itself or the *Base it embeds, which is what solutions report as
// their creator.
func IndexOf(c Container, v View) int {
	return slices.IndexFunc(c.Children(), func(s Stage) bool {
		return View(s) == v || View(s.base()) == v
	})
}

func (c *containerBase) anyComputable() bool {
	return slices.ContainsFunc(c.children, Computable)
}

// computeChild runs one child computation. Errors are logged and recorded on
// the child; they never stop the siblings.
func (c *containerBase) computeChild(ctx context.Context, child Stage) {
	if err := Run(ctx, child); err != nil && ctx.Err() == nil {
		c.logger.Warn("Child computation failed.", "child", child.Name(), "error", err)
	}
}

// drain hands every queued child solution to handle, in announcement order.
func (c *containerBase) drain(handle func(child int, sol solution.Solution)) {
	for len(c.queue) > 0 {
		queued := c.queue
		c.queue = nil
		for _, q := range queued {
			handle(c.indexOf(q.child), q.sol)
		}
	}
}

// bindChild hands a child only the push targets it actually pushes into.
func bindChild(child Stage, prevEnds, nextStarts *iface.Interface) {
	f := child.Flags()
	if !f.Has(PushBackward) {
		prevEnds = nil
	}
	if !f.Has(PushForward) {
		nextStarts = nil
	}
	child.bind(prevEnds, nextStarts)
}
