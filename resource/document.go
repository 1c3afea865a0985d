package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"configbean/raw"
)

const indent = 2

// Document is an in-memory YAML property resource. It is not safe for
// concurrent use.
type Document struct {
	root *raw.Map
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{root: raw.NewMap()}
}

// Parse parses YAML data. Empty data gives an empty document; a root that is not
// a mapping is an error.
func Parse(data []byte) (*Document, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to parse resource YAML: %w", err)
	}

	root, err := decodeDocument(&n)
	if err != nil {
		return nil, fmt.Errorf("failed to parse resource YAML: %w", err)
	}

	return &Document{root: root}, nil
}

// LoadFile loads the document at path. A missing file gives an empty document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDocument(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read resource file %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Root returns the top-level mapping.
func (d *Document) Root() *raw.Map {
	return d.root
}

// Object returns the raw value at path, or nil when the path is invalid or
// leads nowhere.
func (d *Document) Object(path string) any {
	p, err := ParsePath(path)
	if err != nil {
		return nil
	}

	v, _ := d.lookup(p)

	return v
}

// Contains reports whether a value, possibly null, is stored at path.
func (d *Document) Contains(path string) bool {
	p, err := ParsePath(path)
	if err != nil {
		return false
	}

	_, ok := d.lookup(p)

	return ok
}

func (d *Document) lookup(p Path) (any, bool) {
	var cur any = d.root
	for _, key := range p {
		m, ok := raw.Unwrap(cur).(*raw.Map)
		if !ok {
			return nil, false
		}

		if cur, ok = m.Get(key); !ok {
			return nil, false
		}
	}

	return cur, true
}

// Set stores value at path, creating intermediate mappings and replacing
// anything in the way. A nil value removes the key.
func (d *Document) Set(path string, value any) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}

	if p.IsRoot() {
		m, ok := raw.Unwrap(value).(*raw.Map)
		if !ok {
			return fmt.Errorf("%w: cannot set root to %T", ErrNotMapping, value)
		}
		d.root = m
		return nil
	}

	parent := d.root
	for _, key := range p.Parent() {
		next, ok := parent.Get(key)
		child, isMap := raw.Unwrap(next).(*raw.Map)
		if !ok || !isMap {
			child = raw.NewMap()
			parent.Set(key, child)
		}
		parent = child
	}

	if value == nil {
		parent.Delete(p.Last())
		return nil
	}

	parent.Set(p.Last(), value)

	return nil
}

// Marshal renders the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	root, err := encodePlain(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	if len(root.Content) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)

	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile writes the document to path, creating parent directories.
func (d *Document) WriteFile(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write resource file %s: %w", path, err)
	}

	return nil
}
