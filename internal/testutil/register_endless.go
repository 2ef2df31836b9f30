package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/registry"
	"github.com/specialistvlad/stagegraph/internal/stage"
)

// EndlessKind is the stage kind registered by EndlessModule.
const EndlessKind = "endless"

// EndlessModule registers a generator that never runs out of states. Every
// computation waits Delay first, so only a limit or a timeout ends planning.
type EndlessModule struct {
	Delay time.Duration
}

type endless struct {
	*stage.Base
	delay time.Duration
	next  int
}

func (e *endless) CanCompute() bool { return true }

func (e *endless) Compute(ctx context.Context) error {
	select {
	case <-time.After(e.delay):
	case <-ctx.Done():
		return ctx.Err()
	}
	value := fmt.Sprintf("%s-%d", e.Name(), e.next)
	_, err := e.Spawn(value, float64(e.next), value)
	e.next++
	return err
}

// Reset implements stage.Resetter.
func (e *endless) Reset() { e.next = 0 }

// Register implements the registry.Module interface.
func (m *EndlessModule) Register(r *registry.Registry) {
	r.RegisterStage(EndlessKind, func(_ context.Context, spec *config.StageSpec, _ config.Converter) (stage.Stage, error) {
		return &endless{Base: stage.NewBase(spec.Name, stage.GeneratorFlags), delay: m.Delay}, nil
	})
}
