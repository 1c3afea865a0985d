package settings

import (
	"fmt"

	"configbean/mapper"
	"configbean/raw"
	"configbean/resource"
)

// Setting is a property a Manager can hold. It is implemented by *Property.
type Setting interface {
	Path() string

	determine(r mapper.Reader, m *mapper.Mapper) (value any, valid bool, errs []string, err error)
	export(m *mapper.Mapper, value any) (any, error)
	defaultValue() any
}

// Property is a typed value stored at a resource path.
type Property[T any] struct {
	path     string
	def      T
	comments []string
}

// NewProperty creates a property at path with default def. Comments are written
// above the key when the resource is saved.
func NewProperty[T any](path string, def T, comments ...string) (*Property[T], error) {
	p, err := resource.ParsePath(path)
	if err != nil {
		return nil, err
	}

	if p.IsRoot() {
		return nil, fmt.Errorf("%w: a property cannot live at the root", resource.ErrInvalidPath)
	}

	return &Property[T]{path: path, def: def, comments: comments}, nil
}

// MustProperty is like NewProperty but panics on error.
func MustProperty[T any](path string, def T, comments ...string) *Property[T] {
	p, err := NewProperty(path, def, comments...)
	if err != nil {
		panic(err)
	}

	return p
}

func (p *Property[T]) Path() string { return p.path }

func (p *Property[T]) Default() T { return p.def }

func (p *Property[T]) Comments() []string { return p.comments }

// Value is the outcome of reading a property from a resource.
type Value[T any] struct {
	// Value is the converted value, or the default when nothing usable was found.
	Value T
	// Present reports whether the resource held anything at the path.
	Present bool
	// Valid reports whether the value came from the resource without any error
	// or fallback. An invalid value means the resource should be saved again.
	Valid bool
	// Errors describes what went wrong.
	Errors []string
}

// Determine reads the property through m.
func (p *Property[T]) Determine(r mapper.Reader, m *mapper.Mapper) (Value[T], error) {
	errs := mapper.NewErrorRecorder()

	v, ok, err := mapper.Convert[T](m, r, p.path, errs)
	if err != nil {
		return Value[T]{}, fmt.Errorf("property %s: %w", p.path, err)
	}

	out := Value[T]{
		Value:   p.def,
		Present: r.Object(p.path) != nil,
		Valid:   ok && errs.IsFullyValid(),
		Errors:  errs.Errors(),
	}

	if ok {
		out.Value = v
	}

	return out, nil
}

// Export converts v into raw values carrying the property comments.
func (p *Property[T]) Export(m *mapper.Mapper, v T) (any, error) {
	out, err := m.ToExportValue(v)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", p.path, err)
	}

	if out == nil || len(p.comments) == 0 {
		return out, nil
	}

	return raw.Commented{Value: out, Comments: p.comments}, nil
}

// Get returns the current value of p held by s, or its default when s does not
// hold p or has not been loaded.
func (p *Property[T]) Get(s *Manager) T {
	v, ok := s.value(p)
	if !ok {
		return p.def
	}

	out, _ := v.(T)

	return out
}

// Set replaces the value of p held by s. The resource is written on the next Save.
func (p *Property[T]) Set(s *Manager, v T) error {
	return s.setValue(p, v)
}

func (p *Property[T]) determine(r mapper.Reader, m *mapper.Mapper) (any, bool, []string, error) {
	v, err := p.Determine(r, m)
	if err != nil {
		return nil, false, nil, err
	}

	return v.Value, v.Valid, v.Errors, nil
}

func (p *Property[T]) export(m *mapper.Mapper, value any) (any, error) {
	v, _ := value.(T)
	return p.Export(m, v)
}

func (p *Property[T]) defaultValue() any {
	return p.def
}
