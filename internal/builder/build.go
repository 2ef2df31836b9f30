package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/ctxlog"
	"github.com/specialistvlad/stagegraph/internal/registry"
	"github.com/specialistvlad/stagegraph/internal/stage"
	"github.com/specialistvlad/stagegraph/internal/task"
)

type timeoutSetter interface {
	SetTimeout(time.Duration)
}

// BuildTask validates the model and constructs a ready to plan task.
func BuildTask(ctx context.Context, model *config.Model, r *registry.Registry, conv config.Converter, opts ...task.Option) (*task.Task, error) {
	logger := ctxlog.FromContext(ctx)
	if err := config.Validate(model); err != nil {
		return nil, err
	}
	if err := r.ValidateModel(ctx, model); err != nil {
		return nil, err
	}

	root, err := Build(ctx, model.Task.Root, r, conv)
	if err != nil {
		return nil, err
	}
	if model.Task.Timeout > 0 {
		opts = append([]task.Option{task.WithTimeout(model.Task.Timeout)}, opts...)
	}

	logger.Info("Build: Stage tree construction successful.", "task", model.Task.Name, "stages", model.Task.Root.Count())
	return task.New(model.Task.Name, root, opts...), nil
}

// Build constructs the stage tree described by spec.
func Build(ctx context.Context, spec *config.StageSpec, r *registry.Registry, conv config.Converter) (stage.Stage, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Creating stage.", "kind", spec.Kind, "name", spec.Name)

	var (
		s   stage.Stage
		err error
	)
	if spec.IsContainer() {
		s, err = buildContainer(ctx, spec, r, conv)
	} else {
		s, err = buildLeaf(ctx, spec, r, conv)
	}
	if err != nil {
		return nil, err
	}

	if spec.Timeout > 0 {
		ts, ok := s.(timeoutSetter)
		if !ok {
			return nil, fmt.Errorf("stage '%s' of kind '%s' does not support timeouts", spec.Name, spec.Kind)
		}
		ts.SetTimeout(spec.Timeout)
	}
	return s, nil
}

func buildLeaf(ctx context.Context, spec *config.StageSpec, r *registry.Registry, conv config.Converter) (stage.Stage, error) {
	factory, err := r.Lookup(spec.Kind)
	if err != nil {
		return nil, fmt.Errorf("stage '%s': %w", spec.Name, err)
	}
	s, err := factory(ctx, spec, conv)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage '%s' of kind '%s' (%s): %w", spec.Name, spec.Kind, spec.Source, err)
	}
	if s == nil {
		return nil, fmt.Errorf("factory for kind '%s' returned no stage for '%s'", spec.Kind, spec.Name)
	}
	if s.Name() != spec.Name {
		return nil, fmt.Errorf("factory for kind '%s' named the stage '%s', expected '%s'", spec.Kind, s.Name(), spec.Name)
	}
	return s, nil
}
