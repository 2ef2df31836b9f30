package planning_test

import (
	"testing"

	"github.com/specialistvlad/stagegraph/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPlanning_GeneratorAlternativesAndWrapper(t *testing.T) {
	files := map[string]string{
		"main.hcl": `
task "pick" {
  serial "pipeline" {
    stage "generator" "start" {
      costs = [1, 2]
    }
    alternatives "moves" {
      stage "forward" "slow" {
        cost = 5
      }
      stage "forward" "fast" {
        cost = 1
      }
    }
    stage "forward" "finish" {
      cost = 0.5
    }
  }
}
`,
	}

	result := testutil.RunIntegrationTest(t, files)

	assert.Equal(t, []float64{2.5, 3.5, 6.5, 7.5}, testutil.Costs(t, result))
	assert.Equal(t, 4, testutil.Stage(t, result, "pipeline.moves[1]").Solutions)
	assert.Equal(t, 2, testutil.Stage(t, result, "pipeline.moves[1].fast[1]").Solutions)
	assert.Equal(t, 4, testutil.Stage(t, result, "pipeline.finish[2]").Solutions)

	best := result.Report.Solutions[0]
	var stages []string
	for _, sub := range best.Sub {
		stages = append(stages, sub.Stage)
	}
	assert.Equal(t, []string{"pipeline.start[0]", "pipeline.moves[1].fast[1]", "pipeline.finish[2]"}, stages)
	assert.Equal(t, "start-0/fast/finish", best.Sub[2].End)
}

func TestPlanning_WrapperFiltersAndScales(t *testing.T) {
	testCases := []struct {
		name    string
		wrapper string
		want    []float64
	}{
		{
			name: "max cost drops expensive alternatives",
			wrapper: `
    wrapper "bounded" {
      max_cost = 3
      alternatives "moves" {
        stage "forward" "slow" {
          cost = 5
        }
        stage "forward" "fast" {
          cost = 1
        }
      }
    }`,
			want: []float64{2, 3},
		},
		{
			name: "cost scale multiplies the child cost",
			wrapper: `
    wrapper "scaled" {
      cost_scale = 3
      stage "forward" "step" {
        cost = 2
      }
    }`,
			want: []float64{7, 8},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			files := map[string]string{
				"main.hcl": `
task "wrapped" {
  serial "pipeline" {
    stage "generator" "start" {
      costs = [1, 2]
    }` + tc.wrapper + `
  }
}
`,
			}

			result := testutil.RunIntegrationTest(t, files)
			assert.Equal(t, tc.want, testutil.Costs(t, result))
		})
	}
}

func TestPlanning_Fallbacks(t *testing.T) {
	files := map[string]string{
		"main.hcl": `
task "fallback" {
  serial "pipeline" {
    stage "generator" "start" {
      costs = [1]
    }
    fallbacks "fb" {
      stage "forward" "broken" {
        fail_every = 1
      }
      stage "forward" "good" {
        cost = 2
      }
      stage "forward" "spare" {
        cost = 3
      }
    }
  }
}
`,
	}

	result := testutil.RunIntegrationTest(t, files)

	assert.Equal(t, []float64{3}, testutil.Costs(t, result))
	assert.Equal(t, 1, testutil.Stage(t, result, "pipeline.fb[1].broken[0]").Failures)
	assert.Equal(t, 1, testutil.Stage(t, result, "pipeline.fb[1].good[1]").Solutions)
	assert.Zero(t, testutil.Stage(t, result, "pipeline.fb[1].spare[2]").Solutions)
}

func TestPlanning_ConnectAndBackward(t *testing.T) {
	files := map[string]string{
		"main.hcl": `
task "meet" {
  serial "pipeline" {
    stage "generator" "left" {
      costs = [1]
    }
    stage "connect" "bridge" {
      cost = 0.5
    }
    serial "approach" {
      stage "backward" "retreat" {
        cost = 2
      }
    }
    stage "generator" "right" {
      costs = [10]
    }
  }
}
`,
	}

	result := testutil.RunIntegrationTest(t, files)

	assert.Equal(t, []float64{13.5}, testutil.Costs(t, result))
	assert.Equal(t, "serial", testutil.Stage(t, result, "pipeline.approach[2]").Kind)
	assert.Equal(t, 1, testutil.Stage(t, result, "pipeline.approach[2].retreat[0]").Solutions)
	assert.Equal(t, 1, testutil.Stage(t, result, "pipeline.bridge[1]").Solutions)
}
