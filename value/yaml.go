package value

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

const mergeKey = "<<"

// ParseYAML decodes the first document of a YAML stream into a Value. An empty
// document is Null.
func ParseYAML(data []byte) (Value, error) {
	var out Value
	if err := yaml.Unmarshal(data, &out); err != nil {
		return Value{}, err
	}
	return out, nil
}

// MarshalYAML implements yaml.Marshaler by building the node tree directly, so
// integral floats keep their !!float tag and object keys come out in order.
func (v Value) MarshalYAML() (any, error) {
	return toNode(v)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	out, err := fromNode(node)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func toNode(v Value) (*yaml.Node, error) {
	switch v.kind {
	case KindNull:
		return scalarNode("!!null", "null"), nil
	case KindBool:
		return scalarNode("!!bool", strconv.FormatBool(v.data.(bool))), nil
	case KindInt:
		return scalarNode("!!int", strconv.FormatInt(v.data.(int64), 10)), nil
	case KindFloat:
		f := v.data.(float64)
		switch {
		case math.IsNaN(f):
			return scalarNode("!!float", ".nan"), nil
		case math.IsInf(f, 1):
			return scalarNode("!!float", ".inf"), nil
		case math.IsInf(f, -1):
			return scalarNode("!!float", "-.inf"), nil
		}
		text, err := formatFloat(f)
		if err != nil {
			return nil, err
		}
		return scalarNode("!!float", text), nil
	case KindString:
		return scalarNode("!!str", v.data.(string)), nil
	case KindArray:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.data.([]Value) {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	case KindObject:
		return mappingNode(v.data.(Map))
	case KindInputBool, KindInputInt, KindInputFloat, KindInputString:
		return mappingNode(record(v))
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrUnsupported, v.kind)
	}
}

func scalarNode(tag, text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
}

func mappingNode(m Map) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.Keys() {
		child, err := toNode(m[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		node.Content = append(node.Content, scalarNode("!!str", k), child)
	}
	return node, nil
}

func fromNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return fromNode(node.Content[0])
	case yaml.AliasNode:
		return fromNode(node.Alias)
	case yaml.ScalarNode:
		return fromScalar(node)
	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for i, child := range node.Content {
			conv, err := fromNode(child)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = conv
		}
		return Value{kind: KindArray, data: items}, nil
	case yaml.MappingNode:
		m, err := mappingEntries(node)
		if err != nil {
			return Value{}, err
		}
		return fromMapping(m), nil
	default:
		return Value{}, fmt.Errorf("%w: yaml node kind %d at line %d", ErrUnsupported, node.Kind, node.Line)
	}
}

func fromScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return Int(i), nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("%w: %s at line %d", ErrInvalidNumber, node.Value, node.Line)
		}
		return Float(f), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		// !!str, !!timestamp, !!binary and custom tags keep their source text.
		return String(node.Value), nil
	}
}

// mappingEntries collects the pairs of a mapping node. Keys pulled in through
// "<<" merge keys never override keys written on the mapping itself, and
// earlier merge sources win over later ones.
func mappingEntries(node *yaml.Node) (Map, error) {
	m := Map{}
	var merged []Map
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: non-scalar key at line %d", ErrUnsupported, keyNode.Line)
		}
		if keyNode.ShortTag() == "!!merge" || (keyNode.Value == mergeKey && keyNode.Style == 0) {
			sources, err := mergeSources(valNode)
			if err != nil {
				return nil, err
			}
			merged = append(merged, sources...)
			continue
		}
		conv, err := fromNode(valNode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", keyNode.Value, err)
		}
		m[keyNode.Value] = conv
	}
	for _, src := range merged {
		for k, item := range src {
			if _, ok := m[k]; !ok {
				m[k] = item
			}
		}
	}
	return m, nil
}

func mergeSources(node *yaml.Node) ([]Map, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.MappingNode:
		m, err := mappingEntries(node)
		if err != nil {
			return nil, err
		}
		return []Map{m}, nil
	case yaml.SequenceNode:
		var out []Map
		for _, child := range node.Content {
			if child.Kind == yaml.AliasNode {
				child = child.Alias
			}
			if child.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%w: merge source at line %d is not a mapping", ErrUnsupported, child.Line)
			}
			m, err := mappingEntries(child)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: merge source at line %d is not a mapping", ErrUnsupported, node.Line)
	}
}
