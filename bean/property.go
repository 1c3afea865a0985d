package bean

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"configbean/internal/match"
)

const (
	tagName    = "bean"
	tagComment = "comment"
	optRepeat  = "repeat"
)

// Comments holds the comment lines declared for a property. A non-nil ID makes the
// comment emit-once within one export.
type Comments struct {
	Lines []string
	ID    uuid.UUID
}

// Empty reports whether there is nothing to emit.
func (c Comments) Empty() bool {
	return len(c.Lines) == 0
}

// Repeatable reports whether the comment is emitted on every occurrence.
func (c Comments) Repeatable() bool {
	return c.ID == uuid.Nil
}

// Property is one named, typed, readable and writable member of a bean.
type Property struct {
	Name     string
	Type     reflect.Type
	Comments Comments

	field  []int
	getter string
	setter string
}

// Get reads the property from bean, a value of the bean's struct type.
func (p Property) Get(bean reflect.Value) (reflect.Value, error) {
	if p.getter == "" {
		return bean.FieldByIndex(p.field), nil
	}

	recv := bean
	if bean.CanAddr() {
		recv = bean.Addr()
	} else {
		recv = reflect.New(bean.Type())
		recv.Elem().Set(bean)
	}

	m := recv.MethodByName(p.getter)
	if !m.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s has no method %s", ErrInvocation, bean.Type(), p.getter)
	}

	return m.Call(nil)[0], nil
}

// Set writes v into bean, which must be addressable.
func (p Property) Set(bean, v reflect.Value) error {
	v, err := assign(v, p.Type)
	if err != nil {
		return fmt.Errorf("property %s: %w", p.Name, err)
	}

	switch {
	case p.setter != "":
		bean.Addr().MethodByName(p.setter).Call([]reflect.Value{v})
	case p.field != nil:
		f := bean.FieldByIndex(p.field)
		if !f.CanSet() {
			return fmt.Errorf("%w: property %s is not settable", ErrInvocation, p.Name)
		}
		f.Set(v)
	default:
		return fmt.Errorf("%w: property %s is read-only", ErrInvocation, p.Name)
	}

	return nil
}

// assign makes v usable where a value of type t is expected.
func assign(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	switch {
	case !v.IsValid():
		return reflect.Zero(t), nil
	case v.Type().AssignableTo(t):
		return v, nil
	case v.Type().ConvertibleTo(t):
		return v.Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrInvocation, v.Type(), t)
	}
}

// tagInfo is the parsed form of the bean and comment tags of one field.
type tagInfo struct {
	name      string
	named     bool
	transient bool
	repeat    bool
	comments  []string
}

func parseTags(tag reflect.StructTag) tagInfo {
	var info tagInfo

	if value, ok := tag.Lookup(tagName); ok {
		if value == "-" {
			info.transient = true
			return info
		}

		name, opts, _ := strings.Cut(value, ",")
		if name != "" {
			info.name = strings.TrimSpace(name)
			info.named = true
		}

		for _, opt := range strings.Split(opts, ",") {
			if strings.TrimSpace(opt) == optRepeat {
				info.repeat = true
			}
		}
	}

	if value, ok := tag.Lookup(tagComment); ok && value != "" {
		info.comments = strings.Split(value, "\n")
	}

	return info
}

// propertyName returns the tag name, or the lowerCamel form of the Go name.
func (t tagInfo) propertyName(goName string) string {
	if t.named {
		return t.name
	}

	return match.LowerCamel(goName)
}

// commentsFor builds the comment metadata of a property, assigning a fresh id to
// comments that must not repeat.
func (t tagInfo) commentsFor() Comments {
	if len(t.comments) == 0 {
		return Comments{}
	}

	c := Comments{Lines: append([]string(nil), t.comments...)}
	if !t.repeat {
		c.ID = uuid.New()
	}

	return c
}

// validateNames rejects empty and duplicate property names.
func validateNames(t reflect.Type, props []Property) error {
	seen := make(map[string]struct{}, len(props))
	for _, p := range props {
		if p.Name == "" {
			return fmt.Errorf("%w in %s", ErrEmptyPropertyName, t)
		}

		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w %q in %s", ErrDuplicateProperty, p.Name, t)
		}

		seen[p.Name] = struct{}{}
	}

	return nil
}
