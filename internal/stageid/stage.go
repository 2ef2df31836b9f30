// internal/stageid/stage.go
package stageid

import (
	"slices"

	"github.com/specialistvlad/stagegraph/internal/stage"
)

// Of computes the address of v by walking up to the root.
func Of(v stage.View) *Address {
	var path []Segment
	for v != nil {
		parent := v.Parent()
		c, ok := parent.(stage.Container)
		if !ok {
			path = append(path, NewSegment(v.Name()))
			break
		}
		path = append(path, NewIndexedSegment(v.Name(), stage.IndexOf(c, v)))
		v = parent
	}
	if len(path) == 0 {
		return nil
	}
	slices.Reverse(path)
	return &Address{Path: path}
}

// Find returns the stage of root at addr.
func Find(root stage.Stage, addr *Address) (stage.Stage, bool) {
	if addr == nil || len(addr.Path) == 0 || addr.Path[0].Name != root.Name() {
		return nil, false
	}
	current := root
	for _, seg := range addr.Path[1:] {
		c, ok := current.(stage.Container)
		if !ok {
			return nil, false
		}
		children := c.Children()
		if seg.Index < 0 || seg.Index >= len(children) || children[seg.Index].Name() != seg.Name {
			return nil, false
		}
		current = children[seg.Index]
	}
	return current, true
}
