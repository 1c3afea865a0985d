package resource

import (
	"errors"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"

	"configbean/raw"
)

var (
	ErrNotMapping    = errors.New("resource root is not a mapping")
	ErrRecursiveNode = errors.New("recursive alias")
	ErrKeyType       = errors.New("mapping key is not comparable")
)

const (
	tagString = "!!str"
	tagMerge  = "!!merge"
)

// decoder turns a yaml.Node tree into raw values.
type decoder struct {
	active map[*yaml.Node]bool
}

func decodeDocument(n *yaml.Node) (*raw.Map, error) {
	d := decoder{active: make(map[*yaml.Node]bool)}

	if n.Kind == 0 {
		return raw.NewMap(), nil
	}

	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return raw.NewMap(), nil
		}
		n = n.Content[0]
	}

	v, err := d.decode(n)
	if err != nil {
		return nil, err
	}

	switch root := v.(type) {
	case nil:
		return raw.NewMap(), nil
	case *raw.Map:
		return root, nil
	default:
		return nil, fmt.Errorf("%w: line %d holds %T", ErrNotMapping, n.Line, v)
	}
}

func (d decoder) decode(n *yaml.Node) (any, error) {
	if d.active[n] {
		return nil, fmt.Errorf("%w at line %d", ErrRecursiveNode, n.Line)
	}

	d.active[n] = true
	defer delete(d.active, n)

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0])

	case yaml.AliasNode:
		return d.decode(n.Alias)

	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.decode(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil

	case yaml.MappingNode:
		return d.decodeMapping(n)

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil

	default:
		return nil, fmt.Errorf("line %d: unexpected node kind %d", n.Line, n.Kind)
	}
}

// decodeMapping keeps string-keyed mappings ordered. A mapping with any other
// key is returned as map[any]any. Keys pulled in by a merge key never override
// keys written in the mapping itself.
func (d decoder) decodeMapping(n *yaml.Node) (any, error) {
	var (
		pairs    []mappingPair
		explicit = make(map[any]bool)
		strKeys  = true
	)

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := resolve(n.Content[i]), n.Content[i+1]

		if k.Kind == yaml.ScalarNode && k.ShortTag() == tagMerge {
			merged, err := d.merge(v)
			if err != nil {
				return nil, err
			}
			for _, e := range merged {
				if _, ok := e.Key.(string); !ok {
					strKeys = false
				}
				pairs = append(pairs, mappingPair{key: e.Key, value: e.Value, merged: true})
			}
			continue
		}

		key, err := d.decode(k)
		if err != nil {
			return nil, err
		}

		if key != nil && !reflect.ValueOf(key).Comparable() {
			return nil, fmt.Errorf("%w: line %d", ErrKeyType, k.Line)
		}

		if k.Kind != yaml.ScalarNode || k.ShortTag() != tagString {
			strKeys = false
		}

		value, err := d.decode(v)
		if err != nil {
			return nil, err
		}

		explicit[key] = true
		pairs = append(pairs, mappingPair{key: key, value: value})
	}

	if strKeys {
		out := raw.NewMap()
		for _, p := range pairs {
			key := p.key.(string)
			if p.merged {
				if _, seen := out.Get(key); seen || explicit[key] {
					continue
				}
			}
			out.Set(key, p.value)
		}
		return out, nil
	}

	out := make(map[any]any, len(pairs))
	for _, p := range pairs {
		if _, seen := out[p.key]; seen && p.merged {
			continue
		}
		if p.merged && explicit[p.key] {
			continue
		}
		out[p.key] = p.value
	}

	return out, nil
}

type mappingPair struct {
	key    any
	value  any
	merged bool
}

// merge returns the entries a merge key pulls in from one mapping or a list
// of mappings. Earlier mappings take precedence.
func (d decoder) merge(n *yaml.Node) ([]raw.Entry, error) {
	v, err := d.decode(n)
	if err != nil {
		return nil, err
	}

	sources := []any{v}
	if list, ok := v.([]any); ok {
		sources = list
	}

	var out []raw.Entry
	for _, src := range sources {
		entries, ok := raw.Entries(src)
		if !ok {
			return nil, fmt.Errorf("line %d: merge value is not a mapping", n.Line)
		}
		out = append(out, entries...)
	}

	return out, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}
