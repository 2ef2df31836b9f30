package stage

import "strings"

// Flags describe which interfaces a stage pulls from and pushes into.
type Flags uint8

const (
	// PullStart means the stage consumes start states from Starts.
	PullStart Flags = 1 << iota
	// PullEnd means the stage consumes end states from Ends.
	PullEnd
	// PushForward means the stage creates start states for its successor.
	PushForward
	// PushBackward means the stage creates end states for its predecessor.
	PushBackward
)

// Common flag combinations of leaf stages.
const (
	GeneratorFlags = PushBackward | PushForward
	ForwardFlags   = PullStart | PushForward
	BackwardFlags  = PullEnd | PushBackward
	ConnectFlags   = PullStart | PullEnd
)

// Has reports whether all bits of x are set.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

// Pulls reports whether the stage consumes any interface.
func (f Flags) Pulls() bool {
	return f&(PullStart|PullEnd) != 0
}

func (f Flags) String() string {
	var parts []string
	for _, n := range []struct {
		flag Flags
		name string
	}{
		{PullStart, "pull-start"},
		{PullEnd, "pull-end"},
		{PushForward, "push-forward"},
		{PushBackward, "push-backward"},
	} {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
