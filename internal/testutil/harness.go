// Package testutil runs whole task files through the application for
// integration tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/stagegraph/internal/app"
	"github.com/specialistvlad/stagegraph/internal/introspection"
	"github.com/specialistvlad/stagegraph/internal/registry"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Report    *introspection.Report
	LogOutput string
	Err       error
	App       *app.App
}

// RunIntegrationTest plans the task files with a background context and the
// default configuration.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithConfig(context.Background(), t, files, app.Config{}, modules...)
}

// RunIntegrationTestWithConfig writes files below a temporary directory,
// builds the app from them and plans. The file format is picked the same way
// the CLI picks it. Startup panics are returned as errors.
func RunIntegrationTestWithConfig(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()

	taskDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(taskDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg.TaskPaths = []string{taskDir}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	cfg.Output = "json"

	out, logs := &app.SafeBuffer{}, &app.SafeBuffer{}
	defer func() {
		if os.Getenv("STAGEGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	}()

	var testApp *app.App
	var panicErr any
	func() {
		defer func() { panicErr = recover() }()
		testApp = app.NewApp(out, logs, &cfg, app.LoaderFor(cfg.TaskPaths), modules...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logs.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	result := &HarnessResult{App: testApp}
	result.Err = testApp.Run(ctx)
	result.LogOutput = logs.String()
	if result.Err == nil {
		var report introspection.Report
		require.NoError(t, json.Unmarshal([]byte(out.String()), &report), "report is valid JSON")
		result.Report = &report
	}
	return result
}
