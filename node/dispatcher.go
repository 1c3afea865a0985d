package node

import (
	"reflect"

	"configbean/primitive"
)

// Dispatch classifies a resolved (non-pointer) type into its shape.
// Scalars are checked before structs so that time.Time stays a leaf.
func Dispatch(t reflect.Type) ShapeEnum {
	if t == nil {
		return ShapeUnknown
	}

	if t.Kind() == reflect.Pointer {
		panic("dispatcher is not allowing pointer reflect types")
	}

	if t.Kind() == reflect.Interface {
		return ShapeInterface
	}

	if primitive.FromReflectType(t) != 0 {
		return ShapeScalar
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return ShapeCollection
	case reflect.Map:
		if IsSet(t) {
			return ShapeCollection
		}
		return ShapeMap
	case reflect.Struct:
		return ShapeBean
	default:
		return ShapeUnknown
	}
}

// IsSet reports whether t is a map used as a set: map[K]struct{} with a scalar key.
func IsSet(t reflect.Type) bool {
	if t.Kind() != reflect.Map {
		return false
	}

	elem := t.Elem()

	return elem.Kind() == reflect.Struct && elem.NumField() == 0 &&
		primitive.FromReflectType(t.Key()) != 0
}
