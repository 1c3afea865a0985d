package primitive

import (
	"fmt"
	"reflect"
	"strings"
)

var stringerType = reflect.TypeFor[fmt.Stringer]()

// IsEnum reports whether t is a named integer or string type that declares its
// values through a method `Values() []T`.
func IsEnum(t reflect.Type) bool {
	_, ok := valuesMethod(t)
	return ok
}

// EnumValues returns every declared value of the enum type t, in declaration order.
func EnumValues(t reflect.Type) ([]reflect.Value, bool) {
	m, ok := valuesMethod(t)
	if !ok {
		return nil, false
	}

	recv := reflect.New(t).Elem()
	if m.Type.In(0).Kind() == reflect.Pointer {
		recv = recv.Addr()
	}

	list := m.Func.Call([]reflect.Value{recv})[0]
	values := make([]reflect.Value, list.Len())
	for i := range values {
		values[i] = list.Index(i)
	}

	return values, true
}

// EnumName returns the textual name of an enum value: its String() form for
// fmt.Stringer types, the underlying string otherwise.
func EnumName(v reflect.Value) string {
	if v.Type().Implements(stringerType) {
		return v.Interface().(fmt.Stringer).String()
	}

	if v.Kind() == reflect.String {
		return v.String()
	}

	return fmt.Sprint(v.Interface())
}

// ParseEnum matches name case-insensitively against the declared values of t.
func ParseEnum(t reflect.Type, name string) (reflect.Value, bool) {
	values, ok := EnumValues(t)
	if !ok {
		return reflect.Value{}, false
	}

	for _, v := range values {
		if strings.EqualFold(EnumName(v), name) {
			return v, true
		}
	}

	return reflect.Value{}, false
}

func valuesMethod(t reflect.Type) (reflect.Method, bool) {
	if t == nil || t.Name() == "" {
		return reflect.Method{}, false
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
	default:
		return reflect.Method{}, false
	}

	for _, candidate := range []reflect.Type{t, reflect.PointerTo(t)} {
		m, ok := candidate.MethodByName("Values")
		if !ok {
			continue
		}

		// m.Type includes the receiver as its first input
		if m.Type.NumIn() == 1 && m.Type.NumOut() == 1 && m.Type.Out(0) == reflect.SliceOf(t) {
			return m, true
		}
	}

	return reflect.Method{}, false
}
