// Package introspection turns planning results into plain messages that can
// be rendered or sent elsewhere. Solutions get identifiers that stay stable
// for as long as the same introspector is used.
package introspection

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/stagegraph/internal/iface"
	"github.com/specialistvlad/stagegraph/internal/solution"
	"github.com/specialistvlad/stagegraph/internal/stage"
	"github.com/specialistvlad/stagegraph/internal/stageid"
	"github.com/specialistvlad/stagegraph/internal/task"
)

// SubMessage describes one leaf solution of a composed solution.
type SubMessage struct {
	ID      string  `json:"id"`
	Stage   string  `json:"stage"`
	Cost    float64 `json:"cost"`
	Comment string  `json:"comment,omitempty"`
	Start   string  `json:"start,omitempty"`
	End     string  `json:"end,omitempty"`
	Payload any     `json:"payload,omitempty"`
}

// SolutionMessage describes a solution and its leaf solutions in order.
type SolutionMessage struct {
	ID      string       `json:"id"`
	Stage   string       `json:"stage"`
	Cost    float64      `json:"cost"`
	Comment string       `json:"comment,omitempty"`
	Start   string       `json:"start,omitempty"`
	End     string       `json:"end,omitempty"`
	Sub     []SubMessage `json:"sub_solutions"`
}

// StageDescription is a snapshot of one stage.
type StageDescription struct {
	Address   string `json:"address"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Flags     string `json:"flags"`
	Depth     int    `json:"depth"`
	Solutions int    `json:"solutions"`
	Failures  int    `json:"failures"`
	Timeout   string `json:"timeout,omitempty"`
	Elapsed   string `json:"elapsed"`
	Error     string `json:"error,omitempty"`
}

// TaskDescription is a snapshot of a whole stage tree in pre-order.
type TaskDescription struct {
	Name   string             `json:"name"`
	Stages []StageDescription `json:"stages"`
}

// Report bundles the tree snapshot with the solutions of a planning run.
type Report struct {
	Task      TaskDescription   `json:"task"`
	Solutions []SolutionMessage `json:"solutions"`
}

// Introspector assigns identifiers to solutions. It is not safe for
// concurrent use.
type Introspector struct {
	ids map[solution.Solution]uuid.UUID
}

func New() *Introspector {
	return &Introspector{ids: make(map[solution.Solution]uuid.UUID)}
}

// ID returns the identifier of sol, creating one on first use.
func (in *Introspector) ID(sol solution.Solution) uuid.UUID {
	id, ok := in.ids[sol]
	if !ok {
		id = uuid.New()
		in.ids[sol] = id
	}
	return id
}

// Solution describes sol. Serial and wrapped solutions are flattened into
// their leaf solutions.
func (in *Introspector) Solution(sol solution.Solution) SolutionMessage {
	msg := SolutionMessage{
		ID:      in.ID(sol).String(),
		Stage:   creatorLabel(sol.Creator()),
		Cost:    sol.Cost(),
		Comment: sol.Comment(),
		Start:   stateLabel(sol.Start()),
		End:     stateLabel(sol.End()),
	}
	for _, leaf := range solution.Flatten(sol) {
		sub := SubMessage{
			ID:      in.ID(leaf).String(),
			Stage:   creatorLabel(leaf.Creator()),
			Cost:    leaf.Cost(),
			Comment: leaf.Comment(),
			Start:   stateLabel(leaf.Start()),
			End:     stateLabel(leaf.End()),
		}
		if st, ok := leaf.(*solution.SubTrajectory); ok {
			sub.Payload = st.Payload()
		}
		msg.Sub = append(msg.Sub, sub)
	}
	return msg
}

// Report describes t together with sols, which are usually the result of
// t.Plan.
func (in *Introspector) Report(t *task.Task, sols []solution.Solution) Report {
	r := Report{Task: Describe(t), Solutions: make([]SolutionMessage, 0, len(sols))}
	for _, sol := range sols {
		r.Solutions = append(r.Solutions, in.Solution(sol))
	}
	return r
}

// Describe takes a snapshot of the stage tree of t.
func Describe(t *task.Task) TaskDescription {
	d := TaskDescription{Name: t.Name()}
	for _, e := range t.Stages() {
		s := e.Stage
		sd := StageDescription{
			Address:   e.Address.String(),
			Name:      s.Name(),
			Kind:      Kind(s),
			Flags:     s.Flags().String(),
			Depth:     e.Depth,
			Solutions: s.NumSolutions(),
			Failures:  len(s.Failures()),
			Elapsed:   s.Elapsed().Round(time.Microsecond).String(),
		}
		if s.Timeout() > 0 {
			sd.Timeout = s.Timeout().String()
		}
		if err := s.Err(); err != nil {
			sd.Error = err.Error()
		}
		d.Stages = append(d.Stages, sd)
	}
	return d
}

// Kind names the container type of s, or "stage" for leaf stages.
func Kind(s stage.Stage) string {
	switch s.(type) {
	case *stage.Serial:
		return "serial"
	case *stage.Alternatives:
		return "alternatives"
	case *stage.Fallbacks:
		return "fallbacks"
	case *stage.Wrapper:
		return "wrapper"
	default:
		return "stage"
	}
}

func creatorLabel(c solution.Creator) string {
	if c == nil {
		return ""
	}
	if v, ok := c.(stage.View); ok {
		return stageid.Of(v).String()
	}
	return c.Name()
}

func stateLabel(s *iface.State) string {
	if s == nil {
		return ""
	}
	return fmt.Sprint(s.Value())
}
