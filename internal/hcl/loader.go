package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/ctxlog"
	"github.com/specialistvlad/stagegraph/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL task loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file below paths. Exactly one task block must exist
// across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	var taskFile string
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, tb := range root.Tasks {
			if model.Task != nil {
				return nil, nil, fmt.Errorf("task %q in %s: only one task may be defined, found %q in %s", tb.Name, file, model.Task.Name, taskFile)
			}
			spec, err := l.translateTask(ctx, tb)
			if err != nil {
				return nil, nil, fmt.Errorf("in %s: %w", file, err)
			}
			model.Task = spec
			taskFile = file
		}
	}

	if model.Task == nil {
		return nil, nil, fmt.Errorf("no task block found in %v", paths)
	}
	logger.Debug("HCL loading complete.", "task", model.Task.Name, "stages", model.Task.Root.Count())
	return model, NewConverter(), nil
}
