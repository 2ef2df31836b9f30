// Package registry provides the central "glue" for the module system.
//
// The Registry maps the stage kinds used in task files (e.g. "forward") to
// the Go factories that build those stages. Modules add their kinds through
// Register during application startup; a loaded model is checked against the
// registry before anything is built.
package registry
