package stage

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition(t *testing.T) {
	s := NewSerial("root")
	_, err := s.Position(0)
	require.ErrorIs(t, err, ErrNoChildren)

	const n = 4
	for i := range n {
		mustAdd(t, s, newForward(fmt.Sprintf("c%d", i), 1))
	}

	for i := -n; i < n; i++ {
		want := i
		if i < 0 {
			want = n + i
		}
		got, err := s.Position(i)
		require.NoError(t, err)
		assert.Equal(t, want, got, "index %d", i)
	}

	testCases := []struct {
		index int
		want  int
	}{
		{index: n, want: n},
		{index: 100, want: n},
		{index: -n - 1, want: 0},
		{index: -100, want: 0},
	}
	for _, tc := range testCases {
		got, err := s.Position(tc.index)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "index %d", tc.index)
	}
}

func names(stages []Stage) []string {
	var out []string
	for _, s := range stages {
		out = append(out, s.Name())
	}
	return out
}

func TestInsert(t *testing.T) {
	s := NewSerial("root")
	a, b, c, d := newForward("a", 1), newForward("b", 1), newForward("c", 1), newForward("d", 1)

	require.NoError(t, s.Insert(a, 5))
	mustAdd(t, s, b)
	require.NoError(t, s.Insert(c, 0))
	require.NoError(t, s.Insert(d, -1))

	assert.Equal(t, []string{"c", "a", "d", "b"}, names(s.Children()))
	assert.Same(t, s, a.Parent())
	assert.Nil(t, s.Parent())
}

func TestAdd_TopologyErrors(t *testing.T) {
	outer := NewSerial("outer")
	inner := NewSerial("inner")
	leaf := newForward("leaf", 1)
	mustAdd(t, outer, inner)
	mustAdd(t, inner, leaf)

	other := NewAlternatives("other")
	assert.ErrorIs(t, other.Add(leaf), ErrForeignChild)
	assert.ErrorIs(t, other.Add(nil), ErrInvalidChild)
	assert.ErrorIs(t, other.Add(other), ErrInvalidChild)

	// A parentless outer container cannot become a child of its descendant.
	assert.ErrorIs(t, inner.Add(outer), ErrInvalidChild)

	w := NewWrapper("w")
	mustAdd(t, w, newForward("x", 1))
	assert.ErrorIs(t, w.Add(newForward("y", 1)), ErrWrapperFull)
	assert.Len(t, w.Children(), 1)
}

func TestAdd_AfterInit(t *testing.T) {
	s := NewSerial("root")
	mustAdd(t, s, newGenerator("g", 1))
	require.NoError(t, Init(context.Background(), s, nil))

	assert.ErrorIs(t, s.Add(newForward("late", 1)), ErrInitialized)
}

func TestInit_EmptyContainer(t *testing.T) {
	for _, c := range []Container{NewSerial("s"), NewAlternatives("a"), NewFallbacks("f"), NewWrapper("w")} {
		t.Run(c.Name(), func(t *testing.T) {
			assert.ErrorIs(t, Init(context.Background(), c, nil), ErrNoChildren)
		})
	}

	nested := NewSerial("outer")
	mustAdd(t, nested, newGenerator("g", 1), NewSerial("empty"))
	assert.ErrorIs(t, Init(context.Background(), nested, nil), ErrNoChildren)
}

// traversalTree builds root[a, alt[b, c, inner[d]], e].
func traversalTree(t *testing.T) *Serial {
	t.Helper()
	root := NewSerial("root")
	alt := NewAlternatives("alt")
	inner := NewSerial("inner")
	mustAdd(t, inner, newForward("d", 1))
	mustAdd(t, alt, newForward("b", 1), newForward("c", 1), inner)
	mustAdd(t, root, newForward("a", 1), alt, newForward("e", 1))
	return root
}

type visit struct {
	Name  string
	Depth int
}

func TestTraverseStages(t *testing.T) {
	root := traversalTree(t)

	testCases := []struct {
		name     string
		maxDepth int
		want     []visit
	}{
		{
			name:     "only self",
			maxDepth: 0,
			want:     []visit{{"root", 0}},
		},
		{
			name:     "direct children",
			maxDepth: 1,
			want:     []visit{{"root", 0}, {"a", 1}, {"alt", 1}, {"e", 1}},
		},
		{
			name:     "whole tree",
			maxDepth: 10,
			want: []visit{
				{"root", 0}, {"a", 1}, {"alt", 1}, {"b", 2}, {"c", 2},
				{"inner", 2}, {"d", 3}, {"e", 1},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got []visit
			ok := root.TraverseStages(func(v View, depth int) bool {
				got = append(got, visit{v.Name(), depth})
				return true
			}, 0, tc.maxDepth)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTraverseStages_ShortCircuit(t *testing.T) {
	root := traversalTree(t)

	var got []string
	ok := root.TraverseStages(func(v View, _ int) bool {
		got = append(got, v.Name())
		return v.Name() != "c"
	}, 0, 10)

	assert.False(t, ok)
	assert.Equal(t, []string{"root", "a", "alt", "b", "c"}, got)
}

func TestTraverseStages_ErrorSurfaces(t *testing.T) {
	root := traversalTree(t)
	errBoom := errors.New("boom")

	var visited int
	var err error
	root.TraverseStages(func(v View, _ int) bool {
		visited++
		if v.Name() == "inner" {
			err = fmt.Errorf("visiting %s: %w", v.Name(), errBoom)
			return false
		}
		return true
	}, 0, 10)

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 6, visited)
}

func TestTraverseStagesMutable(t *testing.T) {
	root := traversalTree(t)

	var got []string
	ok := root.TraverseStagesMutable(func(s Stage, _ int) bool {
		s.base().SetTimeout(42)
		got = append(got, s.Name())
		return true
	}, 0, 10)

	assert.True(t, ok)
	assert.Equal(t, []string{"root", "a", "alt", "b", "c", "inner", "d", "e"}, got)
	root.TraverseStages(func(v View, _ int) bool {
		assert.EqualValues(t, 42, v.Timeout(), v.Name())
		return true
	}, 0, 10)
}

func TestPushInterfaces_UnsupportedWithoutParentSupport(t *testing.T) {
	// The root has no neighbours, so nothing below its boundary may push.
	root := NewWrapper("root")
	alt := NewAlternatives("alt")
	left := NewSerial("left")
	right := NewSerial("right")
	mustAdd(t, left, newGenerator("g1", 1))
	mustAdd(t, right, newGenerator("g2", 1), newForward("f", 1))
	mustAdd(t, alt, left, right)
	mustAdd(t, root, alt)

	require.NoError(t, Init(context.Background(), root, nil))

	var containers int
	root.TraverseStagesMutable(func(s Stage, _ int) bool {
		if c, ok := s.(Container); ok {
			containers++
			assert.Nil(t, c.PushBackwardInterface(), c.Name())
			assert.Nil(t, c.PushForwardInterface(), c.Name())
		}
		return true
	}, 0, 10)
	assert.Equal(t, 4, containers)

	// States pushed into a missing interface are silently dropped.
	plan(t, root)
	assert.Len(t, root.Solutions(), 2)
}

func TestPushInterfaces_SupportedBetweenSiblings(t *testing.T) {
	root := NewSerial("root")
	w := NewWrapper("w")
	inner := NewSerial("inner")
	mustAdd(t, inner, newForward("f1", 1))
	mustAdd(t, w, inner)
	mustAdd(t, root, newGenerator("g", 1), w, newForward("f2", 1))

	require.NoError(t, Init(context.Background(), root, nil))

	assert.Nil(t, root.PushForwardInterface())
	assert.NotNil(t, w.PushForwardInterface())
	assert.NotNil(t, inner.PushForwardInterface())
	assert.Nil(t, w.PushBackwardInterface(), "forward children never push backward")
	assert.Nil(t, inner.PushBackwardInterface())
}

func TestCopyState_UpdateResortsWithoutNewMapping(t *testing.T) {
	w := NewWrapper("w")
	child := newForward("f", 1)
	mustAdd(t, w, child)
	require.NoError(t, Init(context.Background(), w, nil))

	a := iface.NewState("a", iface.Priority{Cost: 1})
	b := iface.NewState("b", iface.Priority{Cost: 2})
	w.Starts().Add(a)
	w.Starts().Add(b)

	internalValues := func() []any {
		var out []any
		for s := range child.Starts().All() {
			out = append(out, s.Value())
		}
		return out
	}
	require.Equal(t, []any{"a", "b"}, internalValues())
	require.Len(t, w.internalToExternal, 2)
	internalA := w.copies[a][0]

	w.Starts().Update(a, iface.Priority{Cost: 5})

	assert.Equal(t, []any{"b", "a"}, internalValues())
	assert.Len(t, w.internalToExternal, 2)
	assert.Len(t, w.copies[a], 1)
	assert.Same(t, internalA, w.copies[a][0])
	assert.Same(t, a, w.internalToExternal[internalA])
	assert.Equal(t, iface.Priority{Cost: 5}, internalA.Priority())
	assert.Equal(t, 2, child.Starts().Len())
}

func TestCopyState_UpdatePropagatesThroughNestedContainers(t *testing.T) {
	outer := NewSerial("outer")
	inner := NewSerial("inner")
	leaf := newForward("f", 1)
	mustAdd(t, inner, leaf)
	mustAdd(t, outer, inner)
	require.NoError(t, Init(context.Background(), outer, nil))

	a := iface.NewState("a", iface.Priority{Cost: 1})
	b := iface.NewState("b", iface.Priority{Cost: 2})
	outer.Starts().Add(a)
	outer.Starts().Add(b)

	leafValues := func() []any {
		var out []any
		for s := range leaf.Starts().All() {
			out = append(out, s.Value())
		}
		return out
	}
	require.Equal(t, []any{"a", "b"}, leafValues())
	require.Len(t, outer.internalToExternal, 2)
	require.Len(t, inner.internalToExternal, 2)
	middleA := outer.copies[a][0]
	leafA := inner.copies[middleA][0]

	outer.Starts().Update(a, iface.Priority{Cost: 5})

	assert.Equal(t, []any{"b", "a"}, leafValues())
	assert.Len(t, outer.internalToExternal, 2)
	assert.Len(t, inner.internalToExternal, 2)
	assert.Len(t, inner.copies[middleA], 1)
	assert.Same(t, leafA, inner.copies[middleA][0])
	assert.Equal(t, iface.Priority{Cost: 5}, middleA.Priority())
	assert.Equal(t, iface.Priority{Cost: 5}, leafA.Priority())
	assert.Equal(t, 2, leaf.Starts().Len())
}

func TestCopyState_UpdateOfConsumedCopy(t *testing.T) {
	w := NewWrapper("w")
	child := newForward("f", 1)
	mustAdd(t, w, child)
	require.NoError(t, Init(context.Background(), w, nil))

	a := iface.NewState("a", iface.Priority{Cost: 1})
	w.Starts().Add(a)
	child.Starts().Pop()

	assert.NotPanics(t, func() { w.Starts().Update(a, iface.Priority{Cost: 3}) })
	assert.Zero(t, child.Starts().Len())
}

func TestCopyState_UpdateWithoutMappingPanics(t *testing.T) {
	w := NewWrapper("w")
	child := newForward("f", 1)
	mustAdd(t, w, child)
	require.NoError(t, Init(context.Background(), w, nil))

	stray := iface.NewState("stray", iface.Priority{})
	assert.Panics(t, func() { w.copyState(stray, child.Starts(), true) })
	assert.NotPanics(t, func() { w.copyState(stray, nil, true) }, "missing target is a no-op")
}
