package jsonschema

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML schema document. JSON documents are accepted as
// well since they are valid YAML.
func ParseYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML schema: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("parse YAML schema: empty document")
	}
	n := &Node{}
	if err := n.UnmarshalYAML(&doc); err != nil {
		return nil, fmt.Errorf("parse YAML schema: %w", err)
	}
	return n, nil
}

// UnmarshalYAML decodes n from a YAML mapping, keeping properties in source
// order. A null scalar under type is read as the null keyword.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	value = unalias(value)
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = unalias(value.Content[0])
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: schema node must be a mapping", value.Line)
	}
	*n = Node{}
	if raw, err := yaml.Marshal(value); err == nil {
		n.raw = bytes.TrimSpace(raw)
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		val := unalias(value.Content[i+1])
		var err error
		switch key {
		case KeyGraphQLType:
			n.GraphQLType, err = yamlString(key, val)
		case KeyRef:
			n.Ref, err = yamlString(key, val)
		case KeyEnum:
			n.Enum, err = yamlEnum(val)
		case KeyType:
			n.Type, err = yamlTypeSet(val)
		case KeyItems:
			n.Items = &Node{}
			if err = n.Items.UnmarshalYAML(val); err != nil {
				err = fmt.Errorf("%s: %w", key, err)
			}
		case KeyProperties:
			n.Properties, err = yamlProperties(val)
		case KeyRequired:
			n.Required = yamlRequired(val)
		case KeyOneOf:
			n.OneOf, err = yamlBranches(key, val)
		case KeyAnyOf:
			n.AnyOf, err = yamlBranches(key, val)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func unalias(v *yaml.Node) *yaml.Node {
	for v != nil && v.Kind == yaml.AliasNode {
		v = v.Alias
	}
	return v
}

func isNull(v *yaml.Node) bool {
	return v.Kind == yaml.ScalarNode && v.Tag == "!!null"
}

func yamlString(key string, v *yaml.Node) (string, error) {
	if v.Kind != yaml.ScalarNode || isNull(v) {
		return "", fmt.Errorf("line %d: %s must be a string", v.Line, key)
	}
	return v.Value, nil
}

func yamlEnum(v *yaml.Node) ([]any, error) {
	if isNull(v) {
		return []any{}, nil
	}
	if v.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %s must be a sequence", v.Line, KeyEnum)
	}
	values := make([]any, 0, len(v.Content))
	for _, c := range v.Content {
		c = unalias(c)
		if c.Kind == yaml.ScalarNode {
			values = append(values, c.Value)
			continue
		}
		var decoded any
		if err := c.Decode(&decoded); err != nil {
			return nil, fmt.Errorf("line %d: %w", c.Line, err)
		}
		values = append(values, decoded)
	}
	return values, nil
}

func yamlTypeSet(v *yaml.Node) (*TypeSet, error) {
	switch v.Kind {
	case yaml.ScalarNode:
		if isNull(v) {
			return &TypeSet{Keywords: []string{TypeNull}}, nil
		}
		return &TypeSet{Keywords: []string{v.Value}}, nil
	case yaml.SequenceNode:
		keywords := make([]string, 0, len(v.Content))
		for _, c := range v.Content {
			c = unalias(c)
			switch {
			case isNull(c):
				keywords = append(keywords, TypeNull)
			case c.Kind == yaml.ScalarNode:
				keywords = append(keywords, c.Value)
			default:
				return nil, fmt.Errorf("line %d: %s entries must be strings", c.Line, KeyType)
			}
		}
		return &TypeSet{Keywords: keywords, List: true}, nil
	default:
		return nil, fmt.Errorf("line %d: %s must be a string or a sequence of strings", v.Line, KeyType)
	}
}

func yamlProperties(v *yaml.Node) ([]*Property, error) {
	if v.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: %s must be a mapping", v.Line, KeyProperties)
	}
	props := make([]*Property, 0, len(v.Content)/2)
	index := map[string]int{}
	for i := 0; i+1 < len(v.Content); i += 2 {
		name := v.Content[i].Value
		child := &Node{}
		if err := child.UnmarshalYAML(v.Content[i+1]); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", KeyProperties, name, err)
		}
		if at, ok := index[name]; ok {
			props[at].Schema = child
			continue
		}
		index[name] = len(props)
		props = append(props, &Property{Name: name, Schema: child})
	}
	return props, nil
}

func yamlRequired(v *yaml.Node) []string {
	if v.Kind != yaml.SequenceNode {
		return nil
	}
	var out []string
	for _, c := range v.Content {
		c = unalias(c)
		if c.Kind == yaml.ScalarNode && c.Tag == "!!str" {
			out = append(out, c.Value)
		}
	}
	return out
}

func yamlBranches(key string, v *yaml.Node) ([]*Node, error) {
	if v.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %s must be a sequence", v.Line, key)
	}
	out := make([]*Node, 0, len(v.Content))
	for i, c := range v.Content {
		child := &Node{}
		if err := child.UnmarshalYAML(c); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out = append(out, child)
	}
	return out, nil
}
