// Package config defines the format-agnostic task model along with the core
// interfaces (Loader, Converter) for loading task files and binding stage
// arguments to Go types.
//
// The `config.Model` is the single source of truth for the `builder` package.
// Concrete loaders, such as for HCL or YAML, are provided in separate packages.
package config
