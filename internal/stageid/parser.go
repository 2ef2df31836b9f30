// internal/stageid/parser.go
package stageid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// segmentRegex parses a single segment of a path, e.g. `name` or `name[1]`.
var segmentRegex = regexp.MustCompile(`^([a-zA-Z0-9_-]+)(?:\[(\d+)\])?$`)

// ValidName reports whether name can be used as a stage name in an address.
func ValidName(name string) bool {
	m := segmentRegex.FindStringSubmatch(name)
	return m != nil && m[2] == "" && name != "-"
}

// Parse creates an Address from its canonical string representation.
func Parse(raw string) (*Address, error) {
	if raw == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	addr := &Address{}
	for i, part := range strings.Split(raw, ".") {
		if part == "" {
			return nil, fmt.Errorf("address %q contains an empty segment", raw)
		}

		matches := segmentRegex.FindStringSubmatch(part)
		if matches == nil || matches[1] == "-" {
			return nil, fmt.Errorf("invalid address segment: %q", part)
		}

		segment := NewSegment(matches[1])
		if matches[2] != "" {
			index, err := strconv.Atoi(matches[2])
			if err != nil {
				return nil, fmt.Errorf("invalid index in segment %q: %w", part, err)
			}
			segment.Index = index
		} else if i > 0 {
			return nil, fmt.Errorf("segment %q needs a position index", part)
		}
		addr.Path = append(addr.Path, segment)
	}
	return addr, nil
}
