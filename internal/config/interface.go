package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific task loader.
type Loader interface {
	// Load reads task files from the given paths, translates them into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter binds the raw attributes of a stage to the Go types used by
// stage factories.
type Converter interface {
	// DecodeAttributes populates the struct pointed to by target from attrs.
	// Attributes without a matching field are an error; fields without an
	// attribute keep their value.
	DecodeAttributes(ctx context.Context, attrs map[string]cty.Value, target any) error
}
