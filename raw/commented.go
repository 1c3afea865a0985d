package raw

import (
	"reflect"

	"github.com/google/uuid"
)

// Commented attaches comment lines to a value. A non-nil ID marks the comment as
// emit-once: an export includes a comment with a given ID at most one time.
type Commented struct {
	Value    any
	Comments []string
	ID       uuid.UUID
}

// Repeatable reports whether the comment is emitted on every occurrence.
func (c Commented) Repeatable() bool {
	return c.ID == uuid.Nil
}

// Unwrap strips every Commented wrapper around v.
func Unwrap(v any) any {
	for {
		switch c := v.(type) {
		case Commented:
			v = c.Value
		case *Commented:
			if c == nil {
				return nil
			}
			v = c.Value
		default:
			return v
		}
	}
}

// CommentsOf collects the comment lines of every wrapper around v, outermost first.
func CommentsOf(v any) []string {
	var lines []string
	for {
		switch c := v.(type) {
		case Commented:
			lines = append(lines, c.Comments...)
			v = c.Value
		case *Commented:
			if c == nil {
				return lines
			}
			lines = append(lines, c.Comments...)
			v = c.Value
		default:
			return lines
		}
	}
}

// IsSimple reports whether v is a leaf a resource can store as is:
// a string, a bool or a number.
func IsSimple(v any) bool {
	if v == nil {
		return false
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
