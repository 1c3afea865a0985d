package mapper

import (
	"fmt"
	"reflect"

	"configbean/internal/diagnostic"
	"configbean/options"
	"configbean/raw"
)

// convertCollection rebuilds a slice, an array or a set. Elements that are
// missing or cannot be converted are dropped and recorded as errors.
func (m *Mapper) convertCollection(ctx *MappingContext, class reflect.Type, value any) (Result, error) {
	elemType, ok := ctx.Target().Arg(0)
	if !ok {
		return Result{}, fmt.Errorf("%w: no element type for %s at %q", ErrUnresolvableType, class, ctx.Path())
	}

	if _, ok := elemType.Class(); !ok {
		return Result{}, fmt.Errorf("%w: element %s of %s at %q", ErrUnresolvableType, elemType, class, ctx.Path())
	}

	if class.Kind() == reflect.Array && !m.categories.Has(options.CategorySafeArray) &&
		!m.categories.Has(options.CategoryUnsafeArray) {
		return Result{}, fmt.Errorf("%w: array %s at %q", ErrUnsupportedType, class, ctx.Path())
	}

	elems, ok := raw.Elements(value)
	if !ok {
		m.softFailure(ctx, value, fmt.Sprintf("expected a list, got %s", describe(value)))
		return UseDefault(), nil
	}

	converted := make([]reflect.Value, 0, len(elems))
	for i, elem := range elems {
		res, err := m.convert(ctx.Element(i, elemType), elem)
		if err != nil {
			return Result{}, err
		}

		if !res.Ok() {
			child := ctx.Element(i, elemType)
			if res.Outcome == OutcomeOmit {
				child.RegisterError(diagnostic.CodeNullElement, "null element skipped")
			} else {
				child.RegisterError(diagnostic.CodeInvalidValue, "invalid element skipped")
			}
			continue
		}

		converted = append(converted, res.Value)
	}

	switch class.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(class, 0, len(converted))
		return Value(reflect.Append(out, converted...)), nil

	case reflect.Array:
		if len(converted) > class.Len() {
			if !m.categories.Has(options.CategoryUnsafeArray) {
				m.softFailure(ctx, value, fmt.Sprintf("%d elements do not fit into %s", len(converted), class))
				return UseDefault(), nil
			}
			ctx.RegisterError(diagnostic.CodeInvalidValue,
				fmt.Sprintf("%d elements truncated to %d", len(converted), class.Len()))
			converted = converted[:class.Len()]
		}

		out := reflect.New(class).Elem()
		for i, v := range converted {
			out.Index(i).Set(v)
		}
		return Value(out), nil

	case reflect.Map:
		out := reflect.MakeMapWithSize(class, len(converted))
		present := reflect.New(class.Elem()).Elem()
		for _, v := range converted {
			out.SetMapIndex(v, present)
		}
		return Value(out), nil

	default:
		return Result{}, fmt.Errorf("%w: collection %s at %q", ErrUnsupportedType, class, ctx.Path())
	}
}
