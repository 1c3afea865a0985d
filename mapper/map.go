package mapper

import (
	"fmt"
	"reflect"

	"configbean/internal/diagnostic"
	"configbean/primitive"
	"configbean/raw"
)

// convertMap rebuilds a map[string]V. Raw keys must be strings; entries whose
// value is missing or cannot be converted are dropped and recorded as errors.
func (m *Mapper) convertMap(ctx *MappingContext, class reflect.Type, value any) (Result, error) {
	keyType := class.Key()
	if keyType.Kind() != reflect.String {
		return Result{}, fmt.Errorf("%w: map key %s of %s at %q", ErrUnsupportedType, keyType, class, ctx.Path())
	}

	valueType, _ := ctx.Target().Arg(1)
	if _, ok := valueType.Class(); !ok {
		return Result{}, fmt.Errorf("%w: map value %s of %s at %q", ErrUnresolvableType, valueType, class, ctx.Path())
	}

	entries, ok := raw.Entries(value)
	if !ok {
		m.softFailure(ctx, value, fmt.Sprintf("expected a mapping, got %s", describe(value)))
		return UseDefault(), nil
	}

	out := reflect.MakeMapWithSize(class, len(entries))
	for _, e := range entries {
		kv := reflect.ValueOf(e.Key)
		if !kv.IsValid() || kv.Kind() != reflect.String {
			return Result{}, fmt.Errorf("%w: got key %v (%s) at %q", ErrMapKeyType, e.Key, describe(e.Key), ctx.Path())
		}

		key := kv.String()
		child := ctx.Entry(key, valueType)

		mapKey, ok := mapKeyOf(keyType, key)
		if !ok {
			child.RegisterError(diagnostic.CodeInvalidValue, fmt.Sprintf("key %q is not a valid %s", key, keyType))
			continue
		}

		res, err := m.convert(child, e.Value)
		if err != nil {
			return Result{}, err
		}

		if !res.Ok() {
			if res.Outcome == OutcomeOmit {
				child.RegisterError(diagnostic.CodeNullEntry, "null entry skipped")
			} else {
				child.RegisterError(diagnostic.CodeInvalidValue, "invalid entry skipped")
			}
			continue
		}

		out.SetMapIndex(mapKey, res.Value)
	}

	return Value(out), nil
}

// mapKeyOf turns a raw key into a key of type keyType. Enum keys must name one
// of the enum's values.
func mapKeyOf(keyType reflect.Type, key string) (reflect.Value, bool) {
	if primitive.IsEnum(keyType) {
		return primitive.ParseEnum(keyType, key)
	}

	return reflect.ValueOf(key).Convert(keyType), true
}
