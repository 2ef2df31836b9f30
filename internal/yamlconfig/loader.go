// Package yamlconfig loads task files written in YAML into the
// format-agnostic config model. Attribute values are converted to cty so the
// same Converter binds them for HCL and YAML tasks alike.
//
//	task:
//	  name: pick
//	  timeout: 5s
//	  root:
//	    kind: serial
//	    name: pipeline
//	    children:
//	      - kind: generator
//	        name: start
//	        attributes:
//	          costs: [1, 2]
package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/ctxlog"
	"github.com/specialistvlad/stagegraph/internal/fsutil"
	"github.com/specialistvlad/stagegraph/internal/hcl"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions the loader reads.
var Extensions = []string{".yaml", ".yml"}

type fileRoot struct {
	Task *taskDoc `yaml:"task"`
}

type taskDoc struct {
	Name         string    `yaml:"name"`
	Timeout      string    `yaml:"timeout"`
	MaxSolutions int       `yaml:"max_solutions"`
	Root         *stageDoc `yaml:"root"`
}

type stageDoc struct {
	Kind       string         `yaml:"kind"`
	Name       string         `yaml:"name"`
	Timeout    string         `yaml:"timeout"`
	Attributes map[string]any `yaml:"attributes"`
	Children   []*stageDoc    `yaml:"children"`
}

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML task loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every YAML file below paths. Exactly one file must define a
// task.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	files, err := fsutil.FindFiles(paths, Extensions...)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	model := &config.Model{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		root, err := decode(data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}
		if root.Task == nil {
			continue
		}
		if model.Task != nil {
			return nil, nil, fmt.Errorf("task %q in %s: only one task may be defined, found %q", root.Task.Name, file, model.Task.Name)
		}
		if model.Task, err = translateTask(root.Task, file); err != nil {
			return nil, nil, fmt.Errorf("in %s: %w", file, err)
		}
	}

	if model.Task == nil {
		return nil, nil, fmt.Errorf("no task found in %v", paths)
	}
	logger.Debug("YAML loading complete.", "task", model.Task.Name, "stages", model.Task.Root.Count())
	return model, hcl.NewConverter(), nil
}

func decode(data []byte) (*fileRoot, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var root fileRoot
	if err := dec.Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &root, nil
}

func translateTask(doc *taskDoc, file string) (*config.TaskSpec, error) {
	spec := &config.TaskSpec{Name: doc.Name, MaxSolutions: doc.MaxSolutions}
	var err error
	if spec.Timeout, err = parseTimeout(doc.Timeout); err != nil {
		return nil, fmt.Errorf("task %q: %w", doc.Name, err)
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("task %q has no root stage", doc.Name)
	}
	if spec.Root, err = translateStage(doc.Root, file); err != nil {
		return nil, err
	}
	return spec, nil
}

func translateStage(doc *stageDoc, file string) (*config.StageSpec, error) {
	spec := &config.StageSpec{
		Kind:   doc.Kind,
		Name:   doc.Name,
		Source: file,
	}
	var err error
	if spec.Timeout, err = parseTimeout(doc.Timeout); err != nil {
		return nil, fmt.Errorf("%s: %s %q: %w", spec.Source, spec.Kind, spec.Name, err)
	}
	if len(doc.Attributes) > 0 {
		if spec.Attributes, err = toCtyMap(doc.Attributes); err != nil {
			return nil, fmt.Errorf("%s: %s %q: %w", spec.Source, spec.Kind, spec.Name, err)
		}
	}
	for _, child := range doc.Children {
		if child == nil {
			return nil, fmt.Errorf("%s: %s %q has an empty child entry", spec.Source, spec.Kind, spec.Name)
		}
		cs, err := translateStage(child, file)
		if err != nil {
			return nil, err
		}
		spec.Children = append(spec.Children, cs)
	}
	return spec, nil
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	return d, nil
}
