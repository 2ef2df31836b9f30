package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/stagegraph/internal/ctxlog"
	"github.com/specialistvlad/stagegraph/internal/introspection"
)

// Run plans the task and writes the report to the output writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
		defer a.closeHealthcheckServer(ctx)
	} else {
		a.logger.Debug("Health check server disabled.")
	}

	a.logger.Info("🚀 Planning started.", "task", a.task.Name(), "max_solutions", a.maxSolutions())
	sols, err := a.task.Plan(ctx, a.maxSolutions())
	a.metrics.Refresh(a.task.Root())
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	a.logger.Info("🏁 Planning finished.", "task", a.task.Name(), "solutions", len(sols))

	report := introspection.New().Report(a.task, sols)
	switch a.config.Output {
	case "json":
		err = introspection.WriteJSON(a.outW, report)
	default:
		err = introspection.WriteText(a.outW, report)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
