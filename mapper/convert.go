package mapper

import (
	"fmt"
	"reflect"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"configbean/node"
	"configbean/raw"
)

// convert is the recursive import step. The result value has the declared type
// of the context target.
func (m *Mapper) convert(ctx *MappingContext, value any) (Result, error) {
	value = raw.Unwrap(value)
	if isNil(value) {
		return Omit(), nil
	}

	target := ctx.Target()
	if target.PointerDepth() > 0 && reflect.TypeOf(value).AssignableTo(target.Declared()) {
		return Value(reflect.ValueOf(value)), nil
	}

	class, ok := target.Class()
	if !ok {
		return Result{}, fmt.Errorf("%w: %s at %q", ErrUnresolvableType, target, ctx.Path())
	}

	res, err := m.convertClass(ctx, class, value)
	if err != nil || !res.Ok() {
		return res, err
	}

	return Value(adapt(res.Value, target)), nil
}

func (m *Mapper) convertClass(ctx *MappingContext, class reflect.Type, value any) (Result, error) {
	v, ok, err := m.transform(value, class)
	if err != nil {
		return Result{}, fmt.Errorf("at %q: %w", ctx.Path(), err)
	}

	if ok {
		return Value(v), nil
	}

	switch ctx.Target().Shape() {
	case node.ShapeCollection:
		return m.convertCollection(ctx, class, value)
	case node.ShapeMap:
		return m.convertMap(ctx, class, value)
	case node.ShapeBean:
		return m.convertBean(ctx, class, value)
	default:
		m.softFailure(ctx, value, fmt.Sprintf("cannot convert %s to %s", describe(value), class))
		return UseDefault(), nil
	}
}

// transform runs the transformer chain and stops at the first one that applies.
func (m *Mapper) transform(value any, class reflect.Type) (reflect.Value, bool, error) {
	for _, t := range m.transformers {
		v, ok, err := t.Transform(value, class)
		if err != nil || ok {
			return v, ok, err
		}
	}

	return reflect.Value{}, false, nil
}

func (m *Mapper) softFailure(ctx *MappingContext, value any, reason string) {
	ctx.warn(reason)

	if ce := m.logger.Check(zap.DebugLevel, "value not convertible"); ce != nil {
		ce.Write(
			zap.String("path", ctx.Path()),
			zap.Stringer("target", ctx.Target()),
			zap.String("reason", reason),
			zap.String("raw", spew.Sdump(value)),
		)
	}
}

// adapt wraps v, a value of the resolved class, into the declared type.
func adapt(v reflect.Value, target node.Type) reflect.Value {
	for range target.PointerDepth() {
		ptr := reflect.New(v.Type())
		ptr.Elem().Set(v)
		v = ptr
	}

	declared := target.Declared()
	if !v.Type().AssignableTo(declared) && v.Type().ConvertibleTo(declared) {
		v = v.Convert(declared)
	}

	return v
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func describe(value any) string {
	if value == nil {
		return "null"
	}

	return fmt.Sprintf("%T", value)
}
