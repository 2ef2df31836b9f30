package yamlconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/hcl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const pipelineYAML = `
task:
  name: pick
  timeout: 2s
  max_solutions: 3
  root:
    kind: serial
    name: pipeline
    children:
      - kind: generator
        name: start
        timeout: 500ms
        attributes:
          costs: [1, 2]
          states: [a, b]
      - kind: alternatives
        name: moves
        children:
          - kind: forward
            name: slow
            attributes: {cost: 5}
          - kind: forward
            name: fast
            attributes: {cost: 1, suffix: quick}
      - kind: wrapper
        name: bounded
        attributes:
          max_cost: 10
        children:
          - kind: forward
            name: finish
            attributes: {cost: 0.5}
`

const pipelineHCL = `
task "pick" {
  timeout       = "2s"
  max_solutions = 3

  serial "pipeline" {
    stage "generator" "start" {
      timeout = "500ms"
      costs   = [1, 2]
      states  = ["a", "b"]
    }
    alternatives "moves" {
      stage "forward" "slow" {
        cost = 5
      }
      stage "forward" "fast" {
        cost   = 1
        suffix = "quick"
      }
    }
    wrapper "bounded" {
      max_cost = 10
      stage "forward" "finish" {
        cost = 0.5
      }
    }
  }
}
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := write(t, "task.yaml", pipelineYAML)
	model, conv, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, conv)
	require.NoError(t, config.Validate(model))

	assert.Equal(t, "pick", model.Task.Name)
	assert.Equal(t, 2*time.Second, model.Task.Timeout)
	start := model.Task.Root.Children[0]
	assert.Equal(t, 500*time.Millisecond, start.Timeout)
	assert.Equal(t, path, start.Source)

	var args struct {
		Costs  []float64 `cty:"costs"`
		States []string  `cty:"states"`
	}
	require.NoError(t, conv.DecodeAttributes(context.Background(), start.Attributes, &args))
	assert.Equal(t, []float64{1, 2}, args.Costs)
	assert.Equal(t, []string{"a", "b"}, args.States)
}

func TestLoader_MatchesHCL(t *testing.T) {
	fromYAML, _, err := NewLoader().Load(context.Background(), write(t, "task.yml", pipelineYAML))
	require.NoError(t, err)
	fromHCL, _, err := hcl.NewLoader().Load(context.Background(), write(t, "task.hcl", pipelineHCL))
	require.NoError(t, err)

	opts := cmp.Options{
		cmpopts.IgnoreFields(config.StageSpec{}, "Source"),
		cmpopts.EquateEmpty(),
		cmp.Comparer(func(a, b cty.Value) bool { return a.Equals(b).True() }),
	}
	if diff := cmp.Diff(fromHCL, fromYAML, opts); diff != "" {
		t.Errorf("models differ (-hcl +yaml):\n%s", diff)
	}
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "no task", content: "other: 1\n", wantErr: "failed to decode YAML file"},
		{name: "empty file", content: "", wantErr: "no task found"},
		{name: "unknown stage field", content: "task:\n  name: t\n  root:\n    kind: generator\n    name: g\n    cost: 1\n", wantErr: "field cost not found"},
		{name: "missing root", content: "task:\n  name: t\n", wantErr: "has no root stage"},
		{name: "bad timeout", content: "task:\n  name: t\n  root:\n    kind: generator\n    name: g\n    timeout: never\n", wantErr: `invalid timeout "never"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := NewLoader().Load(context.Background(), write(t, "task.yaml", tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestToCty(t *testing.T) {
	v, err := toCty(map[string]any{"a": []any{1, 2.5, "x", true}, "b": nil})
	require.NoError(t, err)
	assert.True(t, v.Type().IsObjectType())
	assert.True(t, v.GetAttr("a").Index(cty.NumberIntVal(1)).Equals(cty.NumberFloatVal(2.5)).True())
	assert.True(t, v.GetAttr("b").IsNull())

	_, err = toCty(struct{}{})
	assert.Error(t, err)
}
