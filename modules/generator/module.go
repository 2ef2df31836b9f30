// Package generator provides the "generator" stage kind: a source of states
// with configurable names and costs.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/registry"
	"github.com/specialistvlad/stagegraph/internal/stage"
)

// Kind is the stage kind used in task files.
const Kind = "generator"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a generator stage.
type Input struct {
	States []string  `cty:"states" validate:"dive,required"`
	Costs  []float64 `cty:"costs" validate:"dive,gte=0"`
}

// Generator spawns one state per computation. Costs are used round robin.
type Generator struct {
	*stage.Base
	states []string
	costs  []float64
	next   int
}

// New creates a generator. Without explicit states, one state per cost is
// generated and named after the stage.
func New(name string, in Input) (*Generator, error) {
	if len(in.States) == 0 && len(in.Costs) == 0 {
		return nil, errors.New("either states or costs must be set")
	}
	states := in.States
	if len(states) == 0 {
		for i := range in.Costs {
			states = append(states, fmt.Sprintf("%s-%d", name, i))
		}
	}
	return &Generator{Base: stage.NewBase(name, stage.GeneratorFlags), states: states, costs: in.Costs}, nil
}

func (g *Generator) CanCompute() bool { return g.next < len(g.states) }

func (g *Generator) Compute(context.Context) error {
	cost := 0.0
	if len(g.costs) > 0 {
		cost = g.costs[g.next%len(g.costs)]
	}
	value := g.states[g.next]
	g.next++
	_, err := g.Spawn(value, cost, value)
	g.Logger().Debug("Spawned state.", "state", value, "cost", cost)
	return err
}

// Reset implements stage.Resetter.
func (g *Generator) Reset() { g.next = 0 }

// Register registers the stage kind.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStage(Kind, func(ctx context.Context, spec *config.StageSpec, conv config.Converter) (stage.Stage, error) {
		var in Input
		if err := conv.DecodeAttributes(ctx, spec.Attributes, &in); err != nil {
			return nil, err
		}
		return New(spec.Name, in)
	})
}
