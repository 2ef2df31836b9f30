package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/stagegraph/internal/app"
	"github.com/urfave/cli/v3"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const description = `Plans a hierarchical task described in HCL or YAML and prints the
solutions the stage tree found, cheapest first.

TASK_PATH is a task file or a directory searched recursively for .hcl,
.yaml and .yml files. Several paths may be given.`

// Parse processes command-line arguments, not including the program name.
// It returns a populated Config, a boolean indicating if the program should
// exit cleanly (help was shown), or an ExitError.
func Parse(ctx context.Context, args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var cfg *app.Config
	cmd := &cli.Command{
		Name:            "stagegraph",
		Usage:           "plan hierarchical tasks with a tree of stages",
		ArgsUsage:       "TASK_PATH...",
		Description:     description,
		Writer:          output,
		ErrWriter:       output,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "task",
				Aliases: []string{"t"},
				Usage:   "Path to a task file or directory. May be repeated.",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log output format. Options: 'text' or 'json'.",
				Value: "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report format. Options: 'text' or 'json'.",
				Value:   "text",
			},
			&cli.IntFlag{
				Name:    "max-solutions",
				Aliases: []string{"n"},
				Usage:   "Stop after this many solutions. 0 uses the task file setting.",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Planning time limit. 0 uses the task file setting.",
			},
			&cli.IntFlag{
				Name:  "healthcheck-port",
				Usage: "Port for the HTTP health check and metrics server. 0 is disabled.",
			},
		},
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return &ExitError{Code: 2, Message: err.Error()}
		},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Action: func(_ context.Context, cmd *cli.Command) error {
			paths := append(cmd.StringSlice("task"), cmd.Args().Slice()...)
			slog.Debug("Task paths determined.", "paths", paths)
			if len(paths) == 0 {
				return &ExitError{Code: 2, Message: "missing TASK_PATH argument, see --help"}
			}

			c, err := app.NewConfig(app.Config{
				TaskPaths:       paths,
				LogLevel:        strings.ToLower(cmd.String("log-level")),
				LogFormat:       strings.ToLower(cmd.String("log-format")),
				Output:          strings.ToLower(cmd.String("output")),
				MaxSolutions:    cmd.Int("max-solutions"),
				Timeout:         cmd.Duration("timeout"),
				HealthcheckPort: cmd.Int("healthcheck-port"),
			})
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			cfg = c
			return nil
		},
	}

	if err := cmd.Run(ctx, append([]string{cmd.Name}, args...)); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if cfg == nil {
		// The help flag short-circuits the action.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
