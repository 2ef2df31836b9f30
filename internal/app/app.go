package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/stagegraph/internal/builder"
	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/ctxlog"
	"github.com/specialistvlad/stagegraph/internal/metrics"
	"github.com/specialistvlad/stagegraph/internal/registry"
	"github.com/specialistvlad/stagegraph/internal/task"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	registry   *registry.Registry
	model      *config.Model
	converter  config.Converter
	task       *task.Task
	metrics    *metrics.Recorder
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Reports are written to
// outW and logs to logW. Configuration that cannot be loaded or built is a
// fatal startup error and panics.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, converter, err := loader.Load(ctx, cfg.TaskPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "kinds", reg.Kinds())

	rec := metrics.New()
	opts := []task.Option{task.WithObserver(rec)}
	if cfg.Timeout > 0 {
		opts = append(opts, task.WithTimeout(cfg.Timeout))
	}
	t, err := builder.BuildTask(ctx, model, reg, converter, opts...)
	if err != nil {
		panic(fmt.Errorf("failed to build task: %w", err))
	}

	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		registry:  reg,
		model:     model,
		converter: converter,
		task:      t,
		metrics:   rec,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Task returns the task built from the loaded configuration.
func (a *App) Task() *task.Task {
	return a.task
}

// Metrics returns the recorder observing the task.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

func (a *App) maxSolutions() int {
	if a.config.MaxSolutions > 0 {
		return a.config.MaxSolutions
	}
	return a.model.Task.MaxSolutions
}
