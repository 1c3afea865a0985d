package node

import (
	"reflect"
)

// ptrDepthAndBase returns the pointer depth and the final base type.
func ptrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for t != nil && base.Kind() == reflect.Ptr {
		depth++
		base = base.Elem()
	}

	return
}

func isError(t reflect.Type) bool {
	if t == nil {
		return false
	}

	terr := reflect.TypeOf((*error)(nil)).Elem()

	return t.Implements(terr)
}
