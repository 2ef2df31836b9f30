package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/ctxlog"
)

// ValidateModel checks that every leaf stage of the model has a registered
// kind. All offending stages are reported at once.
func (r *Registry) ValidateModel(ctx context.Context, m *config.Model) error {
	if m == nil || m.Task == nil {
		return fmt.Errorf("registry validation failed: no task")
	}
	var errs []string
	var walk func(s *config.StageSpec)
	walk = func(s *config.StageSpec) {
		if s == nil {
			return
		}
		if !s.IsContainer() {
			if _, ok := r.factories[s.Kind]; !ok {
				errs = append(errs, fmt.Sprintf("stage '%s' (%s): kind '%s' is not registered", s.Name, s.Source, s.Kind))
			}
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	walk(m.Task.Root)

	if len(errs) > 0 {
		return fmt.Errorf("%w: registry validation failed:\n- %s", ErrUnknownKind, strings.Join(errs, "\n- "))
	}
	ctxlog.FromContext(ctx).Debug("Registry validation passed.", "kinds", len(r.factories))
	return nil
}
