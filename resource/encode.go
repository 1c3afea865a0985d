package resource

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"configbean/raw"
)

// encodeValue builds the node for v. Comments of raw.Commented wrappers around
// v are returned separately so the caller can place them on the key node.
func encodeValue(v any) (*yaml.Node, []string, error) {
	var comments []string
	for {
		c, ok := v.(raw.Commented)
		if !ok {
			break
		}
		comments = append(comments, c.Comments...)
		v = c.Value
	}

	n, err := encodePlain(v)
	if err != nil {
		return nil, nil, err
	}

	return n, comments, nil
}

func encodePlain(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil

	case *raw.Map, raw.Map:
		entries, _ := raw.Entries(val)
		return encodeEntries(entries)

	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range val {
			n, comments, err := encodeValue(e)
			if err != nil {
				return nil, err
			}
			n.HeadComment = joinComments(n.HeadComment, comments)
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		entries, _ := raw.Entries(v)
		return encodeEntries(entries)

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		list, _ := raw.Elements(v)
		return encodePlain(list)
	}

	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}

	return n, nil
}

func encodeEntries(entries []raw.Entry) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range entries {
		key := &yaml.Node{}
		if s, ok := e.Key.(string); ok {
			key.Kind, key.Tag, key.Value = yaml.ScalarNode, tagString, s
		} else if err := key.Encode(e.Key); err != nil {
			return nil, fmt.Errorf("encode key %v: %w", e.Key, err)
		}

		value, comments, err := encodeValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", e.Key, err)
		}

		key.HeadComment = joinComments(key.HeadComment, comments)
		m.Content = append(m.Content, key, value)
	}

	return m, nil
}

// joinComments renders comment lines as YAML comment text.
func joinComments(existing string, lines []string) string {
	if len(lines) == 0 {
		return existing
	}

	var sb strings.Builder
	sb.WriteString(existing)
	for _, line := range lines {
		for part := range strings.SplitSeq(line, "\n") {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			if part == "" {
				sb.WriteByte('#')
				continue
			}
			sb.WriteString("# ")
			sb.WriteString(part)
		}
	}

	return sb.String()
}
