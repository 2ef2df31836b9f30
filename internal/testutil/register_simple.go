package testutil

import "github.com/specialistvlad/stagegraph/internal/registry"

// SimpleModule is a test helper for registering a single stage kind.
type SimpleModule struct {
	Kind    string
	Factory registry.Factory
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	r.RegisterStage(m.Kind, m.Factory)
}
