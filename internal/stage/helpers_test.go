package stage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/stretchr/testify/require"
)

// generator spawns one state per computation, one for each cost.
type generator struct {
	*Base
	costs []float64
	next  int
	delay time.Duration
}

func newGenerator(name string, costs ...float64) *generator {
	return &generator{Base: NewBase(name, GeneratorFlags), costs: costs}
}

func (g *generator) CanCompute() bool { return g.next < len(g.costs) }

func (g *generator) Compute(context.Context) error {
	time.Sleep(g.delay)
	cost := g.costs[g.next]
	_, err := g.Spawn(fmt.Sprintf("%s%d", g.Name(), g.next), cost, nil)
	g.next++
	return err
}

func (g *generator) Reset() { g.next = 0 }

// forward propagates each start state it pulls. Costs are used round robin.
type forward struct {
	*Base
	costs []float64
	n     int
}

func newForward(name string, costs ...float64) *forward {
	return &forward{Base: NewBase(name, ForwardFlags), costs: costs}
}

func (f *forward) CanCompute() bool { return f.Starts().Len() > 0 }

func (f *forward) Compute(context.Context) error {
	from := f.Starts().Pop()
	cost := f.costs[f.n%len(f.costs)]
	f.n++
	_, err := f.SendForward(from, fmt.Sprintf("%v>%s", from.Value(), f.Name()), cost, nil)
	return err
}

func (f *forward) Reset() { f.n = 0 }

// backward propagates each end state it pulls.
type backward struct {
	*Base
	cost float64
}

func newBackward(name string, cost float64) *backward {
	return &backward{Base: NewBase(name, BackwardFlags), cost: cost}
}

func (b *backward) CanCompute() bool { return b.Ends().Len() > 0 }

func (b *backward) Compute(context.Context) error {
	to := b.Ends().Pop()
	_, err := b.SendBackward(fmt.Sprintf("%s<%v", b.Name(), to.Value()), to, b.cost, nil)
	return err
}

// connector connects every start it has seen with every end it has seen.
type connector struct {
	*Base
	cost   float64
	starts []*iface.State
	ends   []*iface.State
}

func newConnector(name string, cost float64) *connector {
	return &connector{Base: NewBase(name, ConnectFlags), cost: cost}
}

func (c *connector) CanCompute() bool { return c.Starts().Len() > 0 || c.Ends().Len() > 0 }

func (c *connector) Compute(context.Context) error {
	if from := c.Starts().Pop(); from != nil {
		c.starts = append(c.starts, from)
		for _, to := range c.ends {
			if _, err := c.Connect(from, to, c.cost, nil); err != nil {
				return err
			}
		}
		return nil
	}
	to := c.Ends().Pop()
	c.ends = append(c.ends, to)
	for _, from := range c.starts {
		if _, err := c.Connect(from, to, c.cost, nil); err != nil {
			return err
		}
	}
	return nil
}

// failing records a failure for every start state it pulls.
type failing struct {
	*Base
}

func newFailing(name string) *failing {
	return &failing{Base: NewBase(name, ForwardFlags)}
}

func (f *failing) CanCompute() bool { return f.Starts().Len() > 0 }

func (f *failing) Compute(context.Context) error {
	f.Fail(f.Starts().Pop(), nil, "no luck")
	return nil
}

// script runs one step per computation.
type script struct {
	*Base
	steps []func(s *script) error
}

func newScript(name string, flags Flags, steps ...func(s *script) error) *script {
	return &script{Base: NewBase(name, flags), steps: steps}
}

func (s *script) CanCompute() bool { return len(s.steps) > 0 }

func (s *script) Compute(context.Context) error {
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step(s)
}

func mustAdd(t *testing.T, c Container, children ...Stage) {
	t.Helper()
	require.NoError(t, c.Add(children...))
}

// plan initializes root and computes it until nothing is left to do.
func plan(t *testing.T, root Stage) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, Init(ctx, root, nil))
	for i := 0; Computable(root); i++ {
		require.Less(t, i, 1000, "planning did not terminate")
		Run(ctx, root)
	}
}

func costs(v View) []float64 {
	var out []float64
	for _, s := range v.Solutions() {
		out = append(out, s.Cost())
	}
	return out
}
