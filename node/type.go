package node

import (
	"reflect"
)

// Type describes a declared target type: the type itself, the concrete class
// to instantiate for it, and its shape. A Type is immutable; the mapper creates
// one wherever a child type is needed.
type Type struct {
	declared reflect.Type
	class    reflect.Type
	shape    ShapeEnum
	resolved bool
}

// TypeOf returns the descriptor of t.
func TypeOf(t reflect.Type) Type {
	class, ok := resolve(t)
	desc := Type{declared: t, class: class, resolved: ok}

	if ok {
		desc.shape = Dispatch(class)
	}

	return desc
}

// TypeFor returns the descriptor of T.
func TypeFor[T any]() Type {
	return TypeOf(reflect.TypeFor[T]())
}

// Declared returns the type as it was declared, pointers included.
func (t Type) Declared() reflect.Type {
	return t.declared
}

// Class returns the concrete class to instantiate. It reports false for types
// that cannot be resolved to a single class: nil, non-empty interfaces,
// channels, functions and unsafe pointers.
func (t Type) Class() (reflect.Type, bool) {
	return t.class, t.resolved
}

// Shape returns the structural category of the resolved class, or ShapeUnknown.
func (t Type) Shape() ShapeEnum {
	return t.shape
}

// PointerDepth returns how many pointer indirections wrap the class.
func (t Type) PointerDepth() int {
	depth, _ := ptrDepthAndBase(t.declared)
	return depth
}

// Arg returns the type argument at index i: the element type (0) of slices,
// arrays and sets, the key (0) and value (1) types of maps.
func (t Type) Arg(i int) (Type, bool) {
	if !t.resolved {
		return Type{}, false
	}

	switch t.class.Kind() {
	case reflect.Slice, reflect.Array:
		if i == 0 {
			return TypeOf(t.class.Elem()), true
		}
	case reflect.Map:
		switch i {
		case 0:
			return TypeOf(t.class.Key()), true
		case 1:
			return TypeOf(t.class.Elem()), true
		}
	}

	return Type{}, false
}

func (t Type) String() string {
	if t.declared == nil {
		return "<nil>"
	}

	return t.declared.String()
}

func resolve(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}

	_, class := ptrDepthAndBase(t)

	switch class.Kind() {
	case reflect.Interface:
		// only the empty interface accepts anything the resource produces
		return class, class.NumMethod() == 0
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Invalid:
		return class, false
	default:
		return class, true
	}
}
