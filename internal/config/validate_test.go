package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(kind, name string) *StageSpec {
	return &StageSpec{Kind: kind, Name: name}
}

func validModel() *Model {
	return &Model{Task: &TaskSpec{
		Name: "demo",
		Root: &StageSpec{
			Kind: KindSerial,
			Name: "root",
			Children: []*StageSpec{
				leaf("generator", "start"),
				{Kind: KindWrapper, Name: "w", Children: []*StageSpec{leaf("forward", "move")}},
			},
		},
	}}
}

func TestValidate_AcceptsWellFormedModel(t *testing.T) {
	m := validModel()
	require.NoError(t, Validate(m))
	assert.Equal(t, 4, m.Task.Root.Count())
}

func TestValidate_Rejects(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(m *Model)
		wantMsg string
	}{
		{
			name:    "nil task",
			mutate:  func(m *Model) { m.Task = nil },
			wantMsg: "Model.Task",
		},
		{
			name:    "bad task name",
			mutate:  func(m *Model) { m.Task.Name = "no spaces allowed" },
			wantMsg: "stagename",
		},
		{
			name:    "negative timeout",
			mutate:  func(m *Model) { m.Task.Root.Children[0].Timeout = -time.Second },
			wantMsg: "Timeout",
		},
		{
			name:    "negative max solutions",
			mutate:  func(m *Model) { m.Task.MaxSolutions = -1 },
			wantMsg: "MaxSolutions",
		},
		{
			name:    "missing root",
			mutate:  func(m *Model) { m.Task.Root = nil },
			wantMsg: "Root",
		},
		{
			name:    "empty container",
			mutate:  func(m *Model) { m.Task.Root.Children = nil },
			wantMsg: "has no children",
		},
		{
			name: "wrapper with two children",
			mutate: func(m *Model) {
				w := m.Task.Root.Children[1]
				w.Children = append(w.Children, leaf("forward", "extra"))
			},
			wantMsg: "expected one",
		},
		{
			name: "leaf with children",
			mutate: func(m *Model) {
				m.Task.Root.Children[0].Children = []*StageSpec{leaf("forward", "x")}
			},
			wantMsg: "cannot have children",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := validModel()
			tc.mutate(m)
			err := Validate(m)
			require.ErrorIs(t, err, ErrInvalidModel)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestIsContainerKind(t *testing.T) {
	for _, k := range ContainerKinds {
		assert.True(t, IsContainerKind(k), k)
	}
	assert.False(t, IsContainerKind("generator"))
}

func TestValidateStruct(t *testing.T) {
	type args struct {
		Cost float64 `validate:"gte=0"`
	}
	assert.NoError(t, ValidateStruct(&args{Cost: 1}))
	err := ValidateStruct(&args{Cost: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "args.Cost failed on 'gte' (0)")
}
