package bean

import (
	"fmt"
	"reflect"
	"slices"
	"unicode"
	"unicode/utf8"
)

var errorType = reflect.TypeFor[error]()

// recordConstructor is a validated constructor registered with RegisterRecord.
type recordConstructor struct {
	fn         reflect.Value
	returnsPtr bool
	returnsErr bool
}

// parseRecordConstructor checks that ctor is a func(c1, c2, ...) T, optionally
// returning *T and optionally a trailing error, whose parameters match the
// fields of the struct T in declaration order.
func parseRecordConstructor(ctor any) (reflect.Type, recordConstructor, error) {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, recordConstructor{}, fmt.Errorf("%w: %T is not a function", ErrInvalidConstructor, ctor)
	}

	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, recordConstructor{}, fmt.Errorf("%w: %s is variadic", ErrInvalidConstructor, ft)
	}

	rc := recordConstructor{fn: fn}

	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
		rc.returnsErr = true
	default:
		return nil, recordConstructor{}, fmt.Errorf("%w: %s must return the record and an optional error", ErrInvalidConstructor, ft)
	}

	t := ft.Out(0)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		rc.returnsPtr = true
	}

	if t.Kind() != reflect.Struct {
		return nil, recordConstructor{}, fmt.Errorf("%w: %s does not return a struct", ErrInvalidConstructor, ft)
	}

	if ft.NumIn() != t.NumField() {
		return nil, recordConstructor{}, fmt.Errorf("%w: %s has %d fields, constructor takes %d",
			ErrInvalidConstructor, t, t.NumField(), ft.NumIn())
	}

	for i := range ft.NumIn() {
		if f := t.Field(i); ft.In(i) != f.Type {
			return nil, recordConstructor{}, fmt.Errorf("%w: parameter %d is %s, field %s is %s",
				ErrInvalidConstructor, i, ft.In(i), f.Name, f.Type)
		}
	}

	return t, rc, nil
}

type recordDefinition struct {
	typ   reflect.Type
	props []Property
	ctor  recordConstructor
}

func (d *recordDefinition) Type() reflect.Type     { return d.typ }
func (d *recordDefinition) Strategy() Strategy     { return StrategyRecord }
func (d *recordDefinition) Properties() []Property { return slices.Clone(d.props) }

// Create calls the constructor with values. Any missing value makes the record
// absent; the constructor is never called with a partial argument list.
func (d *recordDefinition) Create(values []reflect.Value, path string, _ Recorder) (reflect.Value, error) {
	if len(values) != len(d.props) {
		return reflect.Value{}, fmt.Errorf("%w: %s expects %d values, got %d",
			ErrPropertyCount, d.typ, len(d.props), len(values))
	}

	ft := d.ctor.fn.Type()
	args := make([]reflect.Value, len(values))
	for i, v := range values {
		if !v.IsValid() {
			return reflect.Value{}, nil
		}

		arg, err := assign(v, ft.In(i))
		if err != nil {
			return reflect.Value{}, fmt.Errorf("record %s component %s: %w", d.typ, d.props[i].Name, err)
		}
		args[i] = arg
	}

	out := d.ctor.fn.Call(args)
	if d.ctor.returnsErr {
		if errVal := out[1]; !errVal.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: constructing %s at %q: %w",
				ErrInvocation, d.typ, path, errVal.Interface().(error))
		}
	}

	obj := out[0]
	if d.ctor.returnsPtr {
		if obj.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: constructor of %s returned nil", ErrInvocation, d.typ)
		}
		obj = obj.Elem()
	}

	ptr := reflect.New(d.typ)
	ptr.Elem().Set(obj)

	return ptr.Elem(), nil
}

// recordIntrospector builds record definitions for types registered with
// RegisterRecord.
type recordIntrospector struct {
	registry *Registry
}

func (r recordIntrospector) Introspect(t reflect.Type) (Definition, bool, error) {
	ctor, ok := r.registry.record(t)
	if !ok {
		return nil, false, nil
	}

	props, err := recordProperties(t)
	if err != nil || len(props) == 0 {
		return nil, false, err
	}

	return &recordDefinition{typ: t, props: props, ctor: ctor}, true, nil
}

// recordProperties returns one read-only property per struct field. Unexported
// fields are read through an accessor method named after the field.
func recordProperties(t reflect.Type) ([]Property, error) {
	props := make([]Property, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)

		tags := parseTags(f.Tag)
		if tags.transient {
			return nil, fmt.Errorf("%w: record component %s.%s cannot be transient", ErrInvalidConstructor, t, f.Name)
		}

		p := Property{
			Name:     tags.propertyName(f.Name),
			Type:     f.Type,
			Comments: tags.commentsFor(),
		}

		if f.IsExported() {
			p.field = f.Index
		} else {
			accessor := capitalize(f.Name)
			m, ok := reflect.PointerTo(t).MethodByName(accessor)
			if !ok || m.Type.NumIn() != 1 || m.Type.NumOut() != 1 || m.Type.Out(0) != f.Type {
				return nil, fmt.Errorf("%w: record component %s.%s needs an accessor %s() %s",
					ErrInvalidConstructor, t, f.Name, accessor, f.Type)
			}
			p.getter = accessor
		}

		props = append(props, p)
	}

	return props, nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
