// internal/stageid/types.go
package stageid

// Segment is a single component of an address path, e.g. `name[index]`.
type Segment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewSegment creates a segment without an index.
func NewSegment(name string) Segment {
	return Segment{Name: name, Index: -1}
}

// NewIndexedSegment creates a segment with the position of the stage in its
// parent container.
func NewIndexedSegment(name string, index int) Segment {
	return Segment{Name: name, Index: index}
}

// HasIndex returns true if the segment has an explicit index.
func (s Segment) HasIndex() bool {
	return s.Index != -1
}

// Address is the path from the root of a stage tree to one stage.
type Address struct {
	Path []Segment
}
