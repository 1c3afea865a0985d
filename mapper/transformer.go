package mapper

import (
	"fmt"
	"reflect"

	"configbean/node"
	"configbean/options"
	"configbean/primitive"
	"configbean/raw"
)

// Transformer converts a raw leaf value into a value of type target. It reports
// false when it does not apply. The error is reserved for programming errors:
// user data never makes a transformer fail.
type Transformer interface {
	Transform(value any, target reflect.Type) (reflect.Value, bool, error)
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(value any, target reflect.Type) (reflect.Value, bool, error)

func (f TransformerFunc) Transform(value any, target reflect.Type) (reflect.Value, bool, error) {
	return f(value, target)
}

// IdentityTransformer passes through values already assignable to the target.
type IdentityTransformer struct{}

func (IdentityTransformer) Transform(value any, target reflect.Type) (reflect.Value, bool, error) {
	if value == nil {
		return reflect.Value{}, false, nil
	}

	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(target) {
		return reflect.Value{}, false, nil
	}

	return v, true, nil
}

// CasterTransformer applies a user caster whose source accepts the raw value and
// whose destination is the target.
type CasterTransformer struct {
	caster node.Caster
}

// NewCasterTransformer parses fn with node.ParseCaster.
func NewCasterTransformer(fn any) (CasterTransformer, error) {
	c, err := node.ParseCaster(fn)
	if err != nil {
		return CasterTransformer{}, err
	}

	return CasterTransformer{caster: c}, nil
}

func (t CasterTransformer) Transform(value any, target reflect.Type) (reflect.Value, bool, error) {
	c := t.caster
	if value == nil || (c.Dst != target && !(c.Dst.Kind() == reflect.Pointer && c.Dst.Elem() == target)) {
		return reflect.Value{}, false, nil
	}

	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(c.Src) {
		return reflect.Value{}, false, nil
	}

	dst, ok, err := c.Call(v)
	if err != nil {
		return reflect.Value{}, false, fmt.Errorf("%w: %s.%s: %w", ErrCaster, c.PackageAlias, c.Name, err)
	}

	if !ok {
		return reflect.Value{}, false, nil
	}

	if dst.Type() != target {
		if dst.IsNil() {
			return reflect.Value{}, false, nil
		}
		dst = dst.Elem()
	}

	return dst, true, nil
}

// NumberTransformer converts between number kinds, narrowing or widening as the
// allowed categories permit.
type NumberTransformer struct {
	Categories options.CategoryEnum
}

func (t NumberTransformer) Transform(value any, target reflect.Type) (reflect.Value, bool, error) {
	if value == nil {
		return reflect.Value{}, false, nil
	}

	v := reflect.ValueOf(value)
	if !primitive.FromReflectType(v.Type()).IsNumber() || !primitive.FromReflectType(target).IsNumber() {
		return reflect.Value{}, false, nil
	}

	out, ok := primitive.Convert(v, target, t.Categories)

	return out, ok, nil
}

// StringTransformer renders any simple value in its natural string form when the
// target is a string type other than an enum.
type StringTransformer struct{}

func (StringTransformer) Transform(value any, target reflect.Type) (reflect.Value, bool, error) {
	if target.Kind() != reflect.String || primitive.IsEnum(target) || !raw.IsSimple(value) {
		return reflect.Value{}, false, nil
	}

	return reflect.ValueOf(fmt.Sprint(value)).Convert(target), true, nil
}

// EnumTransformer matches a string against the names of an enum's values,
// ignoring case.
type EnumTransformer struct {
	Categories options.CategoryEnum
}

func (t EnumTransformer) Transform(value any, target reflect.Type) (reflect.Value, bool, error) {
	if value == nil || !t.Categories.Has(options.CategoryEnumString) || !primitive.IsEnum(target) {
		return reflect.Value{}, false, nil
	}

	v := reflect.ValueOf(value)
	if v.Kind() != reflect.String {
		return reflect.Value{}, false, nil
	}

	out, ok := primitive.ParseEnum(target, v.String())

	return out, ok, nil
}

// CoercionTransformer covers the remaining scalar conversions: text to number,
// numbers and text to bool, text and numbers to time and duration.
type CoercionTransformer struct {
	Categories options.CategoryEnum
}

func (t CoercionTransformer) Transform(value any, target reflect.Type) (reflect.Value, bool, error) {
	if value == nil {
		return reflect.Value{}, false, nil
	}

	out, ok := primitive.Convert(reflect.ValueOf(value), target, t.Categories)

	return out, ok, nil
}
