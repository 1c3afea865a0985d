package mapper

import (
	"reflect"

	"go.uber.org/zap"

	"configbean/bean"
	"configbean/node"
	"configbean/options"
)

// Reader supplies raw values by resource path.
type Reader interface {
	// Object returns the raw value at path, or nil when there is none.
	Object(path string) any
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger. Soft failures and fallbacks are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Mapper) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRegistry sets the bean definition registry, so several mappers can share
// one cache.
func WithRegistry(r *bean.Registry) Option {
	return func(m *Mapper) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithCategories sets the allowed scalar conversion categories.
func WithCategories(c options.CategoryEnum) Option {
	return func(m *Mapper) {
		m.categories = c
	}
}

// WithTransformer adds a transformer tried after identity and casters and before
// the built-in conversions.
func WithTransformer(t Transformer) Option {
	return func(m *Mapper) {
		m.custom = append(m.custom, t)
	}
}

// WithCaster adds a leaf conversion function. See node.ParseCaster for the
// accepted signatures. An unparsable function makes New fail.
func WithCaster(fn any) Option {
	return func(m *Mapper) {
		c, err := NewCasterTransformer(fn)
		if err != nil {
			m.optErr = err
			return
		}
		m.casters = append(m.casters, c)
	}
}

// Mapper converts between raw values and typed values. It holds no per-call
// state and is safe for concurrent use.
type Mapper struct {
	logger     *zap.Logger
	registry   *bean.Registry
	categories options.CategoryEnum

	casters      []Transformer
	custom       []Transformer
	transformers []Transformer

	optErr error
}

// New creates a Mapper.
func New(opts ...Option) (*Mapper, error) {
	m := &Mapper{
		logger:     zap.NewNop(),
		categories: options.CategoryDefault,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.optErr != nil {
		return nil, m.optErr
	}

	if m.registry == nil {
		m.registry = bean.NewRegistry(bean.WithLogger(m.logger))
	}

	m.transformers = append(m.transformers, IdentityTransformer{})
	m.transformers = append(m.transformers, m.casters...)
	m.transformers = append(m.transformers, m.custom...)
	m.transformers = append(m.transformers,
		NumberTransformer{Categories: m.categories},
		StringTransformer{},
		EnumTransformer{Categories: m.categories},
		CoercionTransformer{Categories: m.categories},
	)

	return m, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Mapper {
	m, err := New(opts...)
	if err != nil {
		panic(err)
	}

	return m
}

// Registry returns the bean definition registry in use.
func (m *Mapper) Registry() *bean.Registry {
	return m.registry
}

// ConvertToBean reads the raw value at path and converts it to target. It returns
// nil when there is no usable value, in which case the caller should use its
// default. Recoverable problems go to errs.
func (m *Mapper) ConvertToBean(reader Reader, path string, target reflect.Type, errs *ErrorRecorder) (any, error) {
	res, err := m.Map(reader.Object(path), target, errs)
	if err != nil {
		return nil, err
	}

	return res.Interface(), nil
}

// Map converts value to target, starting at the empty root path.
func (m *Mapper) Map(value any, target reflect.Type, errs *ErrorRecorder) (Result, error) {
	return m.convert(NewMappingContext("", node.TypeOf(target), errs), value)
}

// Convert reads the raw value at path and converts it to T. It reports false
// when there is no usable value.
func Convert[T any](m *Mapper, reader Reader, path string, errs *ErrorRecorder) (T, bool, error) {
	var zero T

	res, err := m.Map(reader.Object(path), reflect.TypeFor[T](), errs)
	if err != nil || !res.Ok() {
		return zero, false, err
	}

	return res.Value.Interface().(T), true, nil
}

// ToExportValue converts a live value into raw values ready to be written to a
// resource. Comments of bean properties are attached as raw.Commented.
func (m *Mapper) ToExportValue(value any) (any, error) {
	return m.export(NewExportContext(), value)
}
