package propagate

import (
	"context"
	"testing"

	"github.com/specialistvlad/stagegraph/internal/config"
	"github.com/specialistvlad/stagegraph/internal/hcl"
	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/specialistvlad/stagegraph/internal/registry"
	"github.com/specialistvlad/stagegraph/internal/stage"
	"github.com/specialistvlad/stagegraph/modules/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func plan(t *testing.T, children ...stage.Stage) *stage.Serial {
	t.Helper()
	root := stage.NewSerial("root")
	require.NoError(t, root.Add(children...))
	ctx := context.Background()
	require.NoError(t, stage.Init(ctx, root, nil))
	for stage.Computable(root) {
		require.NoError(t, stage.Run(ctx, root))
	}
	return root
}

func source(t *testing.T, states ...string) *generator.Generator {
	t.Helper()
	g, err := generator.New("src", generator.Input{States: states})
	require.NoError(t, err)
	return g
}

func TestForward(t *testing.T) {
	fwd := New("move", iface.Forward, Input{Cost: 2})
	root := plan(t, source(t, "a", "b"), fwd)

	require.Len(t, root.Solutions(), 2)
	var ends []any
	for _, s := range fwd.Solutions() {
		ends = append(ends, s.End().Value())
		assert.Equal(t, 2.0, s.Cost())
	}
	assert.ElementsMatch(t, []any{"a/move", "b/move"}, ends)
}

func TestBackward(t *testing.T) {
	bwd := New("approach", iface.Backward, Input{Cost: 1, Suffix: "<"})
	root := plan(t, bwd, source(t, "goal"))

	require.Len(t, root.Solutions(), 1)
	assert.Equal(t, "goal<", bwd.Solutions()[0].Start().Value())
	assert.Equal(t, stage.BackwardFlags, bwd.Flags())
}

func TestForward_FailEvery(t *testing.T) {
	fwd := New("flaky", iface.Forward, Input{Cost: 1, FailEvery: 2})
	root := plan(t, source(t, "a", "b", "c", "d"), fwd)

	assert.Len(t, root.Solutions(), 2)
	require.Len(t, fwd.Failures(), 2)
	assert.Contains(t, fwd.Failures()[0].Comment(), "computation 2")
	assert.Nil(t, fwd.Failures()[0].End())

	stage.Reset(root)
	assert.Zero(t, fwd.computed)
}

func TestModule_RegistersBothKinds(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	assert.Equal(t, []string{KindBackward, KindForward}, r.Kinds())

	factory, err := r.Lookup(KindBackward)
	require.NoError(t, err)
	s, err := factory(context.Background(), &config.StageSpec{
		Kind: KindBackward, Name: "b", Attributes: map[string]cty.Value{"cost": cty.NumberIntVal(1)},
	}, hcl.NewConverter())
	require.NoError(t, err)
	assert.Equal(t, stage.BackwardFlags, s.Flags())
}
