// Package connect provides the "connect" stage kind, which joins every start
// state with every end state it has pulled so far.
package connect

import (
	"context"
	"fmt"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/specialistvlad/stagegraph/internal/registry"
	"github.com/specialistvlad/stagegraph/internal/stage"
)

// Kind is the stage kind used in task files.
const Kind = "connect"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a connect stage.
type Input struct {
	Cost float64 `cty:"cost" validate:"gte=0"`
	// MatchValues only connects states whose values are equal.
	MatchValues bool `cty:"match_values"`
}

// Connector pairs start and end states.
type Connector struct {
	*stage.Base
	in     Input
	starts []*iface.State
	ends   []*iface.State
}

func New(name string, in Input) *Connector {
	return &Connector{Base: stage.NewBase(name, stage.ConnectFlags), in: in}
}

func (c *Connector) CanCompute() bool {
	return c.Starts().Len() > 0 || c.Ends().Len() > 0
}

// Compute takes one pulled state, start states first, and connects it with
// every state of the opposite side seen before.
func (c *Connector) Compute(context.Context) error {
	if from := c.Starts().Pop(); from != nil {
		c.starts = append(c.starts, from)
		for _, to := range c.ends {
			if err := c.connect(from, to); err != nil {
				return err
			}
		}
		return nil
	}
	to := c.Ends().Pop()
	c.ends = append(c.ends, to)
	for _, from := range c.starts {
		if err := c.connect(from, to); err != nil {
			return err
		}
	}
	return nil
}

func (c *Connector) connect(from, to *iface.State) error {
	if c.in.MatchValues && fmt.Sprint(from.Value()) != fmt.Sprint(to.Value()) {
		return nil
	}
	_, err := c.Connect(from, to, c.in.Cost, fmt.Sprintf("%v~%v", from.Value(), to.Value()))
	return err
}

// Reset implements stage.Resetter.
func (c *Connector) Reset() {
	c.starts, c.ends = nil, nil
}

// Register registers the stage kind.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage(Kind, func(ctx context.Context, spec *config.StageSpec, conv config.Converter) (stage.Stage, error) {
		var in Input
		if err := conv.DecodeAttributes(ctx, spec.Attributes, &in); err != nil {
			return nil, err
		}
		return New(spec.Name, in), nil
	})
}
