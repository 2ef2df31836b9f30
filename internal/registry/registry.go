package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/stage"
)

// ErrUnknownKind is returned for stage kinds nobody registered.
var ErrUnknownKind = errors.New("unknown stage kind")

// Factory builds a leaf stage from its spec. Arguments are bound with conv.
type Factory func(ctx context.Context, spec *config.StageSpec, conv config.Converter) (stage.Stage, error)

// Module is the interface that all stage modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the stage factories of a single application instance.
type Registry struct {
	factories map[string]Factory
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// RegisterStage registers the factory for kind. Registering a kind twice or
// using a container kind is a programming error.
func (r *Registry) RegisterStage(kind string, f Factory) {
	if f == nil {
		panic(fmt.Sprintf("factory for stage kind '%s' is nil", kind))
	}
	if config.IsContainerKind(kind) {
		panic(fmt.Sprintf("stage kind '%s' is reserved for containers", kind))
	}
	if _, exists := r.factories[kind]; exists {
		panic(fmt.Sprintf("stage kind '%s' already registered", kind))
	}
	slog.Debug("Registering stage kind.", "kind", kind)
	r.factories[kind] = f
}

// Lookup returns the factory for kind.
func (r *Registry) Lookup(kind string) (Factory, error) {
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownKind, kind)
	}
	return f, nil
}

// Kinds returns the registered kinds in lexical order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
