package mapper

import (
	"fmt"
	"reflect"
	"sort"
	"time"

	"go.uber.org/zap"

	"configbean/bean"
	"configbean/node"
	"configbean/primitive"
	"configbean/raw"
)

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()

	basicTypes = map[reflect.Kind]reflect.Type{
		reflect.Bool:    reflect.TypeFor[bool](),
		reflect.Int:     reflect.TypeFor[int](),
		reflect.Int8:    reflect.TypeFor[int8](),
		reflect.Int16:   reflect.TypeFor[int16](),
		reflect.Int32:   reflect.TypeFor[int32](),
		reflect.Int64:   reflect.TypeFor[int64](),
		reflect.Uint:    reflect.TypeFor[uint](),
		reflect.Uint8:   reflect.TypeFor[uint8](),
		reflect.Uint16:  reflect.TypeFor[uint16](),
		reflect.Uint32:  reflect.TypeFor[uint32](),
		reflect.Uint64:  reflect.TypeFor[uint64](),
		reflect.Float32: reflect.TypeFor[float32](),
		reflect.Float64: reflect.TypeFor[float64](),
		reflect.String:  reflect.TypeFor[string](),
	}
)

// export is the recursive export step. Comment wrappers around value are
// unwrapped and their comments re-attached to the result when still due.
// Emit-once ids are registered only when the result is not nil.
func (m *Mapper) export(ctx *ExportContext, value any) (any, error) {
	var due []bean.Comments
	for {
		c, ok := asCommented(value)
		if !ok {
			break
		}

		comments := bean.Comments{Lines: c.Comments, ID: c.ID}
		if ctx.ShouldInclude(comments) && !containsComments(due, comments) {
			due = append(due, comments)
		}
		value = c.Value
	}

	out, err := m.exportPlain(ctx, value)
	if err != nil || out == nil || len(due) == 0 {
		return out, err
	}

	var lines []string
	for _, c := range due {
		ctx.RegisterComment(c)
		lines = append(lines, c.Lines...)
	}

	return raw.Commented{Value: out, Comments: lines}, nil
}

func containsComments(list []bean.Comments, c bean.Comments) bool {
	if c.Repeatable() {
		return false
	}

	for _, other := range list {
		if other.ID == c.ID {
			return true
		}
	}

	return false
}

func asCommented(value any) (raw.Commented, bool) {
	switch c := value.(type) {
	case raw.Commented:
		return c, true
	case *raw.Commented:
		if c != nil {
			return *c, true
		}
	}

	return raw.Commented{}, false
}

func (m *Mapper) exportPlain(ctx *ExportContext, value any) (any, error) {
	if isNil(value) {
		return nil, nil
	}

	switch rm := value.(type) {
	case *raw.Map:
		return m.exportRawMap(ctx, rm)
	case raw.Map:
		return m.exportRawMap(ctx, &rm)
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	return m.exportValue(ctx, rv)
}

func (m *Mapper) exportValue(ctx *ExportContext, rv reflect.Value) (any, error) {
	t := rv.Type()

	switch {
	case t == timeType:
		return rv.Interface(), nil
	case t == durationType:
		return rv.Interface().(time.Duration).String(), nil
	case primitive.IsEnum(t):
		return primitive.EnumName(rv), nil
	}

	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return basic(rv), nil

	case reflect.Slice, reflect.Array:
		list := make([]any, 0, rv.Len())
		for i := range rv.Len() {
			ev, err := m.export(ctx.Element(i), rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			list = append(list, ev)
		}
		return list, nil

	case reflect.Map:
		if node.IsSet(t) {
			return m.exportSet(ctx, rv)
		}
		return m.exportMap(ctx, rv)

	case reflect.Struct:
		return m.exportBean(ctx, rv)

	default:
		return nil, fmt.Errorf("%w: cannot export %s at %q", ErrUnsupportedType, t, ctx.Path())
	}
}

// exportSet exports a set as a list in natural key order.
func (m *Mapper) exportSet(ctx *ExportContext, rv reflect.Value) (any, error) {
	keys := sortedKeys(rv)

	list := make([]any, 0, len(keys))
	for i, k := range keys {
		ev, err := m.export(ctx.Element(i), k.Interface())
		if err != nil {
			return nil, err
		}
		list = append(list, ev)
	}

	return list, nil
}

// exportMap exports a Go map in natural key order. Nil values are left out.
func (m *Mapper) exportMap(ctx *ExportContext, rv reflect.Value) (any, error) {
	out := raw.NewMap()
	for _, k := range sortedKeys(rv) {
		key := keyString(k)

		ev, err := m.export(ctx.Child(key), rv.MapIndex(k).Interface())
		if err != nil {
			return nil, err
		}

		if ev != nil {
			out.Set(key, ev)
		}
	}

	return out, nil
}

// exportRawMap exports a *raw.Map keeping its key order. Nil values are left out.
func (m *Mapper) exportRawMap(ctx *ExportContext, rm *raw.Map) (any, error) {
	out := raw.NewMap()
	for _, key := range rm.Keys() {
		v, _ := rm.Get(key)

		ev, err := m.export(ctx.Child(key), v)
		if err != nil {
			return nil, err
		}

		if ev != nil {
			out.Set(key, ev)
		}
	}

	return out, nil
}

// exportBean exports the properties of a bean in definition order, attaching
// their comments when the export context says they are due.
func (m *Mapper) exportBean(ctx *ExportContext, rv reflect.Value) (any, error) {
	t := rv.Type()

	def, ok, err := m.registry.Lookup(t)
	if err != nil {
		return nil, fmt.Errorf("bean %s at %q: %w", t, ctx.Path(), err)
	}

	if !ok {
		m.logger.Debug("value is not a bean, skipped", zap.String("path", ctx.Path()), zap.Stringer("type", t))
		return nil, nil
	}

	out := raw.NewMap()
	for _, p := range def.Properties() {
		pv, err := p.Get(rv)
		if err != nil {
			return nil, fmt.Errorf("bean %s at %q: %w", t, ctx.Path(), err)
		}

		if !pv.IsValid() || isNil(pv.Interface()) {
			continue
		}

		child := ctx.Child(p.Name)
		withComments := child.ShouldInclude(p.Comments)

		ev, err := m.export(child, pv.Interface())
		if err != nil {
			return nil, err
		}

		if ev == nil {
			continue
		}

		if withComments {
			child.RegisterComment(p.Comments)
			ev = raw.Commented{Value: ev, Comments: p.Comments.Lines, ID: p.Comments.ID}
		}

		out.Set(p.Name, ev)
	}

	return out, nil
}

// basic converts a scalar of a named type to its predeclared type.
func basic(rv reflect.Value) any {
	bt := basicTypes[rv.Kind()]
	if rv.Type() == bt {
		return rv.Interface()
	}

	return rv.Convert(bt).Interface()
}

func keyString(k reflect.Value) string {
	if primitive.IsEnum(k.Type()) {
		return primitive.EnumName(k)
	}

	if k.Kind() == reflect.String {
		return k.String()
	}

	return fmt.Sprint(k.Interface())
}

func sortedKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return lessValue(keys[i], keys[j])
	})

	return keys
}

// lessValue orders scalars naturally; other kinds by their text form.
func lessValue(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.String:
		return a.String() < b.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() < b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float()
	case reflect.Bool:
		return !a.Bool() && b.Bool()
	default:
		return fmt.Sprint(a.Interface()) < fmt.Sprint(b.Interface())
	}
}
