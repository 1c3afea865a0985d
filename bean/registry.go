package bean

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Introspector turns a struct type into a bean definition. It reports false when
// the type is not a bean of the shape it understands.
type Introspector interface {
	Introspect(t reflect.Type) (Definition, bool, error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report built definitions.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithIntrospector adds an introspector consulted before the built-in ones.
func WithIntrospector(in Introspector) Option {
	return func(r *Registry) {
		r.custom = append(r.custom, in)
	}
}

// Registry builds bean definitions on first use and caches them for its lifetime,
// including negative results. It is safe for concurrent use: concurrent first
// lookups of one type build the definition once and all observe the same value.
// Factories and records must be registered before the first Lookup of their type.
type Registry struct {
	logger *zap.Logger
	custom []Introspector

	defs  sync.Map // reflect.Type -> lookupResult
	group singleflight.Group

	mu        sync.RWMutex
	factories map[reflect.Type]reflect.Value
	records   map[reflect.Type]recordConstructor
	seen      map[reflect.Type]struct{}
}

type lookupResult struct {
	typ reflect.Type
	def Definition
	ok  bool
	err error
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger:    zap.NewNop(),
		factories: make(map[reflect.Type]reflect.Value),
		records:   make(map[reflect.Type]recordConstructor),
		seen:      make(map[reflect.Type]struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterFactory registers fn, a func() T or func() *T, as the way to create
// fresh instances of the struct T for the zero-arg strategy. It fails with
// ErrAlreadyLookedUp once T has been looked up.
func (r *Registry) RegisterFactory(fn any) error {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return fmt.Errorf("%w: %T is not a function", ErrInvalidFactory, fn)
	}

	ft := v.Type()
	if ft.NumIn() != 0 || ft.NumOut() != 1 {
		return fmt.Errorf("%w: %s must take no arguments and return one value", ErrInvalidFactory, ft)
	}

	t := ft.Out(0)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s does not return a struct", ErrInvalidFactory, ft)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[t]; ok {
		return fmt.Errorf("%w: cannot register factory for %s", ErrAlreadyLookedUp, t)
	}
	r.factories[t] = v

	return nil
}

// RegisterRecord registers ctor as the canonical constructor of a record type.
// See the package documentation for the accepted signatures. It fails with
// ErrAlreadyLookedUp once the record type has been looked up.
func (r *Registry) RegisterRecord(ctor any) error {
	t, rc, err := parseRecordConstructor(ctor)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[t]; ok {
		return fmt.Errorf("%w: cannot register record %s", ErrAlreadyLookedUp, t)
	}
	r.records[t] = rc

	return nil
}

// MustRegisterRecord is like RegisterRecord but panics on error.
func (r *Registry) MustRegisterRecord(ctor any) *Registry {
	if err := r.RegisterRecord(ctor); err != nil {
		panic(err)
	}

	return r
}

func (r *Registry) factory(t reflect.Type) reflect.Value {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.factories[t]
}

func (r *Registry) record(t reflect.Type) (recordConstructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rc, ok := r.records[t]
	return rc, ok
}

// Lookup returns the definition of t, or false when t is not a bean. The error is
// set when t is a malformed bean, e.g. with two properties of the same name.
func (r *Registry) Lookup(t reflect.Type) (Definition, bool, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, false, nil
	}

	if cached, ok := r.defs.Load(t); ok {
		res := cached.(lookupResult)
		return res.def, res.ok, res.err
	}

	r.mu.Lock()
	r.seen[t] = struct{}{}
	r.mu.Unlock()

	v, _, _ := r.group.Do(t.PkgPath()+"|"+t.String(), func() (any, error) {
		if cached, ok := r.defs.Load(t); ok {
			return cached, nil
		}

		actual, _ := r.defs.LoadOrStore(t, r.build(t))
		return actual, nil
	})

	res := v.(lookupResult)
	if res.typ != t {
		// distinct types sharing a name
		actual, _ := r.defs.LoadOrStore(t, r.build(t))
		res = actual.(lookupResult)
	}

	return res.def, res.ok, res.err
}

func (r *Registry) build(t reflect.Type) lookupResult {
	introspectors := make([]Introspector, 0, len(r.custom)+2)
	introspectors = append(introspectors, r.custom...)
	introspectors = append(introspectors, recordIntrospector{registry: r}, structIntrospector{registry: r})

	for _, in := range introspectors {
		def, ok, err := in.Introspect(t)
		if err != nil {
			r.logger.Debug("bean definition failed", zap.Stringer("type", t), zap.Error(err))
			return lookupResult{typ: t, err: err}
		}

		if !ok {
			continue
		}

		props := def.Properties()
		if err := validateNames(t, props); err != nil {
			r.logger.Debug("bean definition rejected", zap.Stringer("type", t), zap.Error(err))
			return lookupResult{typ: t, err: err}
		}

		r.logger.Debug("bean definition built",
			zap.Stringer("type", t),
			zap.String("strategy", string(def.Strategy())),
			zap.Strings("properties", propertyNames(props)))

		return lookupResult{typ: t, def: def, ok: true}
	}

	r.logger.Debug("type is not a bean", zap.Stringer("type", t))

	return lookupResult{typ: t}
}
