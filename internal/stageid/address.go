// internal/stageid/address.go
package stageid

import (
	"slices"
	"strconv"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(segment.Name)
		if segment.HasIndex() {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(segment.Index))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

// Equal checks two addresses segment by segment.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return slices.Equal(a.Path, other.Path)
}

// Child returns the address of the index-th child named name.
func (a *Address) Child(name string, index int) *Address {
	var path []Segment
	if a != nil {
		path = slices.Clone(a.Path)
	}
	return &Address{Path: append(path, NewIndexedSegment(name, index))}
}

// Parent returns the address one level up, or nil for a root address.
func (a *Address) Parent() *Address {
	if a == nil || len(a.Path) <= 1 {
		return nil
	}
	return &Address{Path: slices.Clone(a.Path[:len(a.Path)-1])}
}

// Depth is the number of levels below the root.
func (a *Address) Depth() int {
	if a == nil {
		return -1
	}
	return len(a.Path) - 1
}
