// This file contains the logic for translating HCL blocks into the
// format-agnostic task model defined in the config package.

package hcl

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

func (l *Loader) translateTask(ctx context.Context, tb *taskBlock) (*config.TaskSpec, error) {
	spec := &config.TaskSpec{Name: tb.Name}
	var err error
	if spec.Timeout, err = parseTimeout(tb.Timeout); err != nil {
		return nil, fmt.Errorf("task %q: %w", tb.Name, err)
	}
	if tb.MaxSolutions != nil {
		spec.MaxSolutions = *tb.MaxSolutions
	}

	content, diags := tb.Remain.Content(stageSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("task %q: %w", tb.Name, diags)
	}
	if len(content.Blocks) != 1 {
		return nil, fmt.Errorf("task %q must contain exactly one root stage, found %d", tb.Name, len(content.Blocks))
	}
	if spec.Root, err = l.translateStage(ctx, content.Blocks[0]); err != nil {
		return nil, err
	}
	return spec, nil
}

// translateStage converts a stage block and, for containers, all nested
// stage blocks.
func (l *Loader) translateStage(ctx context.Context, block *hcl.Block) (*config.StageSpec, error) {
	spec := &config.StageSpec{Kind: block.Type, Name: block.Labels[0], Source: block.DefRange.String()}
	if block.Type == leafBlock {
		spec.Kind, spec.Name = block.Labels[0], block.Labels[1]
		if config.IsContainerKind(spec.Kind) {
			return nil, fmt.Errorf("%s: use a %s block instead of a stage of kind %q", spec.Source, spec.Kind, spec.Kind)
		}
	}
	ctxlog.FromContext(ctx).Debug("Translating stage block.", "kind", spec.Kind, "name", spec.Name, "source", spec.Source)

	var body stageBody
	if diags := gohcl.DecodeBody(block.Body, nil, &body); diags.HasErrors() {
		return nil, fmt.Errorf("%s %q: %w", spec.Kind, spec.Name, diags)
	}
	var err error
	if spec.Timeout, err = parseTimeout(body.Timeout); err != nil {
		return nil, fmt.Errorf("%s: %s %q: %w", spec.Source, spec.Kind, spec.Name, err)
	}

	var attrs hcl.Attributes
	if spec.IsContainer() {
		content, diags := containerContent(body.Remain)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s %q: %w", spec.Kind, spec.Name, diags)
		}
		for _, child := range content.Blocks {
			cs, err := l.translateStage(ctx, child)
			if err != nil {
				return nil, err
			}
			spec.Children = append(spec.Children, cs)
		}
		attrs = content.Attributes
	} else {
		var diags hcl.Diagnostics
		if attrs, diags = body.Remain.JustAttributes(); diags.HasErrors() {
			return nil, fmt.Errorf("%s %q: %w", spec.Kind, spec.Name, diags)
		}
	}

	if spec.Attributes, err = evalAttributes(attrs); err != nil {
		return nil, fmt.Errorf("%s %q: %w", spec.Kind, spec.Name, err)
	}
	return spec, nil
}

// containerContent splits a container body into child stage blocks and
// attributes. JustAttributes rejects any body that has blocks, so it is only
// used to collect the attribute names for a schema that accepts both.
func containerContent(body hcl.Body) (*hcl.BodyContent, hcl.Diagnostics) {
	names, _ := body.JustAttributes()
	schema := &hcl.BodySchema{Blocks: stageSchema.Blocks}
	for name := range names {
		schema.Attributes = append(schema.Attributes, hcl.AttributeSchema{Name: name})
	}
	return body.Content(schema)
}

// evalAttributes evaluates attrs without variables.
func evalAttributes(attrs hcl.Attributes) (map[string]cty.Value, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	out := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid value for '%s': %w", name, diags)
		}
		out[name] = val
	}
	return out, nil
}

func parseTimeout(s *string) (time.Duration, error) {
	if s == nil {
		return 0, nil
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", *s, err)
	}
	return d, nil
}
