package resource

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var ErrInvalidPath = errors.New("invalid resource path")

// Path is a parsed dotted resource path.
type Path []string

// ParsePath parses a path such as "server.port" or "database.max-conns".
// Keys are made of letters, digits, '_' and '-'. The empty string is the root.
func ParsePath(path string) (Path, error) {
	if path == "" {
		return Path{}, nil
	}

	segments := make(Path, 0, strings.Count(path, ".")+1)
	for key := range strings.SplitSeq(path, ".") {
		if key == "" {
			return nil, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, path)
		}

		if !isValidKey(key) {
			return nil, fmt.Errorf("%w %q: invalid key %q", ErrInvalidPath, path, key)
		}

		segments = append(segments, key)
	}

	return segments, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(path string) Path {
	p, err := ParsePath(path)
	if err != nil {
		panic(err)
	}

	return p
}

// String returns the path in dotted form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}

	return p[:len(p)-1]
}

// Last returns the last key, or "" at the root.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}

	return p[len(p)-1]
}

// HasPrefix reports whether other is p itself or one of its ancestors.
func (p Path) HasPrefix(other Path) bool {
	if len(other) > len(p) {
		return false
	}

	for i, key := range other {
		if p[i] != key {
			return false
		}
	}

	return true
}

func isValidKey(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}

	return s != ""
}
