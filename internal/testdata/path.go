package testdata

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var errMalformedPath = errors.New("malformed path segment")

var segmentPattern = regexp.MustCompile(`^([A-Za-z0-9_]+)(?:\[(\d+)\])?$`)

// segment is one step of a path expression: a property name, optionally
// followed by an array index
type segment struct {
	key      string
	index    int
	hasIndex bool
}

func parsePath(path string) ([]segment, error) {
	parts := strings.Split(path, ".")
	segments := make([]segment, 0, len(parts))

	for _, part := range parts {
		m := segmentPattern.FindStringSubmatch(part)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", errMalformedPath, part)
		}

		seg := segment{key: m[1]}
		if m[2] != "" {
			idx, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, fmt.Errorf("%w: index in %q: %v", errMalformedPath, part, err)
			}
			seg.index = idx
			seg.hasIndex = true
		}
		segments = append(segments, seg)
	}
	return segments, nil
}
