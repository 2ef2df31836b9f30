// Package propagate provides the "forward" and "backward" stage kinds. They
// derive one new state from every state they pull and can inject failures.
package propagate

import (
	"context"
	"fmt"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/specialistvlad/stagegraph/internal/registry"
	"github.com/specialistvlad/stagegraph/internal/stage"
)

const (
	KindForward  = "forward"
	KindBackward = "backward"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a propagating stage.
type Input struct {
	Cost float64 `cty:"cost" validate:"gte=0"`
	// Suffix is appended to the value of every pulled state. It defaults to
	// "/" followed by the stage name.
	Suffix string `cty:"suffix"`
	// FailEvery turns every n-th computation into a failure.
	FailEvery int `cty:"fail_every" validate:"gte=0"`
}

// Propagator pulls states from one side and sends derived states to the
// other.
type Propagator struct {
	*stage.Base
	dir      iface.Direction
	in       Input
	computed int
}

// New creates a propagator. Forward propagators pull start states,
// backward ones pull end states.
func New(name string, dir iface.Direction, in Input) *Propagator {
	flags := stage.ForwardFlags
	if dir == iface.Backward {
		flags = stage.BackwardFlags
	}
	if in.Suffix == "" {
		in.Suffix = "/" + name
	}
	return &Propagator{Base: stage.NewBase(name, flags), dir: dir, in: in}
}

func (p *Propagator) pull() *iface.Interface {
	if p.dir == iface.Backward {
		return p.Ends()
	}
	return p.Starts()
}

func (p *Propagator) CanCompute() bool {
	in := p.pull()
	return in != nil && in.Len() > 0
}

func (p *Propagator) Compute(context.Context) error {
	s := p.pull().Pop()
	p.computed++
	value := fmt.Sprintf("%v%s", s.Value(), p.in.Suffix)

	if p.in.FailEvery > 0 && p.computed%p.in.FailEvery == 0 {
		comment := fmt.Sprintf("failure injected at computation %d", p.computed)
		if p.dir == iface.Backward {
			p.Fail(nil, s, comment)
		} else {
			p.Fail(s, nil, comment)
		}
		return nil
	}

	var err error
	if p.dir == iface.Backward {
		_, err = p.SendBackward(value, s, p.in.Cost, value)
	} else {
		_, err = p.SendForward(s, value, p.in.Cost, value)
	}
	return err
}

// Reset implements stage.Resetter.
func (p *Propagator) Reset() { p.computed = 0 }

// Register registers both stage kinds.
func (m *Module) Register(r *registry.Registry) {
	for kind, dir := range map[string]iface.Direction{KindForward: iface.Forward, KindBackward: iface.Backward} {
		r.RegisterStage(kind, func(ctx context.Context, spec *config.StageSpec, conv config.Converter) (stage.Stage, error) {
			var in Input
			if err := conv.DecodeAttributes(ctx, spec.Attributes, &in); err != nil {
				return nil, err
			}
			return New(spec.Name, dir, in), nil
		})
	}
}
