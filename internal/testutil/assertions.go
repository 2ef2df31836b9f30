package testutil

import (
	"testing"

	"github.com/specialistvlad/stagegraph/internal/introspection"
	"github.com/stretchr/testify/require"
)

// Costs returns the costs of the reported solutions in order.
func Costs(t *testing.T, result *HarnessResult) []float64 {
	t.Helper()
	require.NoError(t, result.Err)
	require.NotNil(t, result.Report)

	costs := make([]float64, 0, len(result.Report.Solutions))
	for _, sol := range result.Report.Solutions {
		costs = append(costs, sol.Cost)
	}
	return costs
}

// Stage returns the reported snapshot of the stage at address.
func Stage(t *testing.T, result *HarnessResult, address string) introspection.StageDescription {
	t.Helper()
	require.NoError(t, result.Err)
	require.NotNil(t, result.Report)

	for _, s := range result.Report.Task.Stages {
		if s.Address == address {
			return s
		}
	}
	require.Failf(t, "stage not found", "no stage with address %q in the report", address)
	return introspection.StageDescription{}
}
