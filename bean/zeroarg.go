package bean

import (
	"fmt"
	"reflect"
	"slices"
	"sort"

	"configbean/internal/match"
)

type zeroArgDefinition struct {
	typ     reflect.Type
	props   []Property
	factory reflect.Value
}

func (d *zeroArgDefinition) Type() reflect.Type     { return d.typ }
func (d *zeroArgDefinition) Strategy() Strategy     { return StrategyZeroArg }
func (d *zeroArgDefinition) Properties() []Property { return slices.Clone(d.props) }

// Create starts from a fresh instance and sets every present value. A missing
// value keeps the instance's default when that default is not null, and the
// fallback is reported to rec; a null default makes the whole bean absent.
func (d *zeroArgDefinition) Create(values []reflect.Value, path string, rec Recorder) (reflect.Value, error) {
	if len(values) != len(d.props) {
		return reflect.Value{}, fmt.Errorf("%w: %s expects %d values, got %d",
			ErrPropertyCount, d.typ, len(d.props), len(values))
	}

	obj, err := d.newInstance()
	if err != nil {
		return reflect.Value{}, err
	}

	for i, p := range d.props {
		if values[i].IsValid() {
			if err := p.Set(obj, values[i]); err != nil {
				return reflect.Value{}, err
			}
			continue
		}

		current, err := p.Get(obj)
		if err != nil {
			return reflect.Value{}, err
		}

		if IsNull(current) {
			return reflect.Value{}, nil
		}

		if rec != nil {
			rec.RecordFallback(path, p)
		}
	}

	return obj, nil
}

// newInstance returns an addressable fresh value of the bean type.
func (d *zeroArgDefinition) newInstance() (reflect.Value, error) {
	if !d.factory.IsValid() {
		return reflect.New(d.typ).Elem(), nil
	}

	out := d.factory.Call(nil)[0]
	if out.Kind() == reflect.Pointer {
		if out.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: factory of %s returned nil", ErrInvocation, d.typ)
		}
		return out.Elem(), nil
	}

	ptr := reflect.New(d.typ)
	ptr.Elem().Set(out)

	return ptr.Elem(), nil
}

// structIntrospector discovers the properties of plain structs: exported fields,
// including those promoted from embedded structs, and X/SetX method pairs.
type structIntrospector struct {
	registry *Registry
}

type orderedProperty struct {
	Property
	order []int
}

func (s structIntrospector) Introspect(t reflect.Type) (Definition, bool, error) {
	if t.Kind() != reflect.Struct {
		return nil, false, nil
	}

	props := zeroArgProperties(t)
	if len(props) == 0 {
		return nil, false, nil
	}

	return &zeroArgDefinition{
		typ:     t,
		props:   props,
		factory: s.registry.factory(t),
	}, true, nil
}

func zeroArgProperties(t reflect.Type) []Property {
	var found []orderedProperty

	visible := make(map[string]reflect.StructField)
	for _, f := range reflect.VisibleFields(t) {
		if throughPointer(t, f.Index) {
			continue
		}

		visible[f.Name] = f

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			continue
		}

		if !f.IsExported() {
			continue
		}

		tags := parseTags(f.Tag)
		if tags.transient {
			continue
		}

		found = append(found, orderedProperty{
			Property: Property{
				Name:     tags.propertyName(f.Name),
				Type:     f.Type,
				Comments: tags.commentsFor(),
				field:    f.Index,
			},
			order: f.Index,
		})
	}

	ptr := reflect.PointerTo(t)
	for i := range ptr.NumMethod() {
		get := ptr.Method(i)
		if get.Type.NumIn() != 1 || get.Type.NumOut() != 1 {
			continue
		}

		set, ok := ptr.MethodByName("Set" + get.Name)
		if !ok || set.Type.NumIn() != 2 || set.Type.NumOut() != 0 || set.Type.In(1) != get.Type.Out(0) {
			continue
		}

		var (
			tags  tagInfo
			order []int
		)
		if backing, ok := visible[match.LowerCamel(get.Name)]; ok && !backing.IsExported() {
			tags, order = parseTags(backing.Tag), backing.Index
		}

		if tags.transient {
			continue
		}

		found = append(found, orderedProperty{
			Property: Property{
				Name:     tags.propertyName(get.Name),
				Type:     get.Type.Out(0),
				Comments: tags.commentsFor(),
				getter:   get.Name,
				setter:   set.Name,
			},
			order: order,
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return fieldOrderLess(t, found[i].order, found[j].order)
	})

	props := make([]Property, len(found))
	for i, f := range found {
		props[i] = f.Property
	}

	return props
}

// throughPointer reports whether the field at index is promoted through an
// embedded pointer.
func throughPointer(t reflect.Type, index []int) bool {
	cur := t
	for _, i := range index[:len(index)-1] {
		ft := cur.Field(i).Type
		if ft.Kind() == reflect.Pointer {
			return true
		}
		cur = ft
	}

	return false
}

// fieldOrderLess orders fields base first: at every struct level the fields of
// embedded structs precede the struct's own fields, each group in declaration
// order. Properties without a backing field (nil index) come last.
func fieldOrderLess(t reflect.Type, a, b []int) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	}

	cur := t
	for k := 0; k < len(a) && k < len(b); k++ {
		if a[k] == b[k] {
			cur = cur.Field(a[k]).Type
			continue
		}

		aEmbedded, bEmbedded := len(a) > k+1, len(b) > k+1
		if aEmbedded != bEmbedded {
			return aEmbedded
		}

		return a[k] < b[k]
	}

	return len(a) < len(b)
}
