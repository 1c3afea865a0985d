package bean

import "reflect"

// Strategy names how a definition creates instances.
type Strategy string

const (
	StrategyZeroArg Strategy = "zero-arg"
	StrategyRecord  Strategy = "record"
)

// Recorder receives the recoverable errors raised while creating a bean.
type Recorder interface {
	// RecordFallback notes that prop of the bean at path kept its default value.
	RecordFallback(path string, prop Property)
}

// Definition describes how to read and create one bean type.
type Definition interface {
	// Type returns the struct type the definition was built for.
	Type() reflect.Type
	// Strategy returns the instantiation strategy.
	Strategy() Strategy
	// Properties returns the ordered property list. Create expects its values in
	// the same order.
	Properties() []Property
	// Create builds a bean from values. An invalid reflect.Value stands for a
	// missing property value. The result is invalid when the bean cannot be built
	// from the values; err is reserved for programming errors.
	Create(values []reflect.Value, path string, rec Recorder) (reflect.Value, error)
}

// IsNull reports whether v counts as an absent value: an invalid value or a nil
// pointer, slice, map, interface, func or chan. Zero scalars and structs are
// present values.
func IsNull(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func propertyNames(props []Property) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}

	return names
}
