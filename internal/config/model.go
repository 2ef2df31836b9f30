package config

import (
	"slices"
	"time"

	"github.com/zclconf/go-cty/cty"
)

// Container kinds understood by the builder. Every other kind is looked up in
// the stage registry.
const (
	KindSerial       = "serial"
	KindAlternatives = "alternatives"
	KindFallbacks    = "fallbacks"
	KindWrapper      = "wrapper"
)

// ContainerKinds lists the kinds that hold child stages.
var ContainerKinds = []string{KindSerial, KindAlternatives, KindFallbacks, KindWrapper}

// IsContainerKind reports whether kind names a container.
func IsContainerKind(kind string) bool {
	return slices.Contains(ContainerKinds, kind)
}

// Model is the unified, format-agnostic representation of a task file set.
type Model struct {
	Task *TaskSpec `validate:"required"`
}

// TaskSpec is the format-agnostic representation of a `task` block.
type TaskSpec struct {
	Name         string        `validate:"required,stagename"`
	Timeout      time.Duration `validate:"gte=0"`
	MaxSolutions int           `validate:"gte=0"`
	Root         *StageSpec    `validate:"required"`
}

// StageSpec describes one stage of the tree. Containers carry children,
// leaves carry the arguments of their factory.
type StageSpec struct {
	Kind       string        `validate:"required,stagename"`
	Name       string        `validate:"required,stagename"`
	Timeout    time.Duration `validate:"gte=0"`
	Attributes map[string]cty.Value
	Children   []*StageSpec `validate:"dive,required"`

	// Source is a human readable location of the definition, if known.
	Source string
}

// IsContainer reports whether s describes a container.
func (s *StageSpec) IsContainer() bool {
	return IsContainerKind(s.Kind)
}

// Count returns the number of stages in the subtree rooted at s.
func (s *StageSpec) Count() int {
	if s == nil {
		return 0
	}
	n := 1
	for _, c := range s.Children {
		n += c.Count()
	}
	return n
}
