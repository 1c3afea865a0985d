package settings

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"configbean/mapper"
	"configbean/resource"
)

var (
	ErrDuplicatePath   = errors.New("property path already registered")
	ErrOverlappingPath = errors.New("property path overlaps a registered path")
	ErrNotRegistered   = errors.New("property is not registered")
)

// Option configures a Manager.
type Option func(*Manager)

// WithMapper sets the mapper used to read and write property values.
func WithMapper(m *mapper.Mapper) Option {
	return func(s *Manager) {
		if m != nil {
			s.mapper = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Manager) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Manager holds the current values of a set of properties backed by one YAML
// file. It is safe for concurrent use.
type Manager struct {
	file   string
	mapper *mapper.Mapper
	logger *zap.Logger

	mu       sync.RWMutex
	settings []Setting
	byPath   map[string]Setting
	values   map[string]any
	invalid  []string
	doc      *resource.Document
}

// NewManager creates a manager for the file at path. Nothing is read until Load.
func NewManager(file string, opts ...Option) *Manager {
	s := &Manager{
		file:   file,
		logger: zap.NewNop(),
		byPath: make(map[string]Setting),
		values: make(map[string]any),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.mapper == nil {
		s.mapper = mapper.MustNew(mapper.WithLogger(s.logger))
	}

	return s
}

// File returns the path of the backing file.
func (s *Manager) File() string {
	return s.file
}

// Register adds properties. A path may not repeat, nor be nested in another
// registered path.
func (s *Manager) Register(settings ...Setting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range settings {
		path := st.Path()
		if _, ok := s.byPath[path]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, path)
		}

		p := resource.MustParsePath(path)
		for other := range s.byPath {
			o := resource.MustParsePath(other)
			if p.HasPrefix(o) || o.HasPrefix(p) {
				return fmt.Errorf("%w: %s and %s", ErrOverlappingPath, path, other)
			}
		}

		s.settings = append(s.settings, st)
		s.byPath[path] = st
	}

	return nil
}

// Load reads every registered property from the file. Properties that are
// missing or not fully valid take their default or partially converted value,
// and the file is written back.
func (s *Manager) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := resource.LoadFile(s.file)
	if err != nil {
		return err
	}

	values := make(map[string]any, len(s.settings))
	var invalid []string

	for _, st := range s.settings {
		v, valid, errs, err := st.determine(doc, s.mapper)
		if err != nil {
			return fmt.Errorf("load %s: %w", s.file, err)
		}

		values[st.Path()] = v

		if !valid {
			invalid = append(invalid, st.Path())
			s.logger.Debug("property not fully valid",
				zap.String("file", s.file),
				zap.String("path", st.Path()),
				zap.Strings("errors", errs),
			)
		}
	}

	s.doc, s.values, s.invalid = doc, values, invalid

	s.logger.Info("settings loaded",
		zap.String("file", s.file),
		zap.Int("properties", len(s.settings)),
		zap.Int("invalid", len(invalid)),
	)

	if len(invalid) == 0 {
		return nil
	}

	if err := s.save(); err != nil {
		return err
	}

	s.logger.Info("resource resaved", zap.String("file", s.file), zap.Strings("paths", invalid))

	return nil
}

// Reload discards the current values and loads the file again.
func (s *Manager) Reload() error {
	return s.Load()
}

// Save writes the current value of every registered property to the file.
// Keys of the file that belong to no property are kept.
func (s *Manager) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save()
}

func (s *Manager) save() error {
	if s.doc == nil {
		s.doc = resource.NewDocument()
	}

	for _, st := range s.settings {
		v, ok := s.values[st.Path()]
		if !ok {
			v = st.defaultValue()
		}

		out, err := st.export(s.mapper, v)
		if err != nil {
			return fmt.Errorf("save %s: %w", s.file, err)
		}

		if err := s.doc.Set(st.Path(), out); err != nil {
			return fmt.Errorf("save %s: %w", s.file, err)
		}
	}

	return s.doc.WriteFile(s.file)
}

// Invalid returns the paths of the properties that were missing or not fully
// valid on the last Load.
func (s *Manager) Invalid() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.invalid...)
}

func (s *Manager) value(st Setting) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.byPath[st.Path()] != st {
		return nil, false
	}

	v, ok := s.values[st.Path()]

	return v, ok
}

func (s *Manager) setValue(st Setting, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.byPath[st.Path()] != st {
		return fmt.Errorf("%w: %s", ErrNotRegistered, st.Path())
	}

	s.values[st.Path()] = v

	return nil
}
