package builder

import (
	"context"
	"fmt"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/registry"
	"github.com/specialistvlad/stagegraph/internal/solution"
	"github.com/specialistvlad/stagegraph/internal/stage"
)

// wrapperArgs are the attributes a wrapper block accepts.
type wrapperArgs struct {
	MaxCost   *float64 `cty:"max_cost" validate:"omitnil,gte=0"`
	CostScale *float64 `cty:"cost_scale" validate:"omitnil,gt=0"`
}

// noArgs rejects every attribute.
type noArgs struct{}

func buildContainer(ctx context.Context, spec *config.StageSpec, r *registry.Registry, conv config.Converter) (stage.Stage, error) {
	var c stage.Container
	switch spec.Kind {
	case config.KindSerial:
		c = stage.NewSerial(spec.Name)
	case config.KindAlternatives:
		c = stage.NewAlternatives(spec.Name)
	case config.KindFallbacks:
		c = stage.NewFallbacks(spec.Name)
	case config.KindWrapper:
		w, err := newWrapper(ctx, spec, conv)
		if err != nil {
			return nil, err
		}
		c = w
	default:
		return nil, fmt.Errorf("unknown container kind '%s'", spec.Kind)
	}

	if spec.Kind != config.KindWrapper {
		if err := conv.DecodeAttributes(ctx, spec.Attributes, &noArgs{}); err != nil {
			return nil, fmt.Errorf("%s '%s': %w", spec.Kind, spec.Name, err)
		}
	}

	for _, childSpec := range spec.Children {
		child, err := Build(ctx, childSpec, r, conv)
		if err != nil {
			return nil, err
		}
		if err := c.Add(child); err != nil {
			return nil, fmt.Errorf("adding '%s' to %s '%s': %w", childSpec.Name, spec.Kind, spec.Name, err)
		}
	}
	return c, nil
}

func newWrapper(ctx context.Context, spec *config.StageSpec, conv config.Converter) (*stage.Wrapper, error) {
	var args wrapperArgs
	if err := conv.DecodeAttributes(ctx, spec.Attributes, &args); err != nil {
		return nil, fmt.Errorf("wrapper '%s': %w", spec.Name, err)
	}

	var opts []stage.WrapperOption
	if args.MaxCost != nil {
		maxCost := *args.MaxCost
		opts = append(opts, stage.WithFilter(func(s solution.Solution) bool {
			return s.Cost() <= maxCost
		}))
	}
	if args.CostScale != nil {
		scale := *args.CostScale
		opts = append(opts, stage.WithCostTransform(func(s solution.Solution) float64 {
			return s.Cost() * scale
		}))
	}
	return stage.NewWrapper(spec.Name, opts...), nil
}
