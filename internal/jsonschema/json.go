package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// ParseJSON decodes a JSON schema document.
func ParseJSON(data []byte) (*Node, error) {
	n := &Node{}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("parse JSON schema: %w", err)
	}
	return n, nil
}

// UnmarshalJSON decodes n from a JSON object, keeping properties in source
// order.
func (n *Node) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("schema node must be an object: %w", err)
	}
	*n = Node{raw: append([]byte(nil), bytes.TrimSpace(data)...)}

	if v, ok := fields[KeyGraphQLType]; ok {
		if err := json.Unmarshal(v, &n.GraphQLType); err != nil {
			return fmt.Errorf("%s must be a string", KeyGraphQLType)
		}
	}
	if v, ok := fields[KeyRef]; ok {
		if err := json.Unmarshal(v, &n.Ref); err != nil {
			return fmt.Errorf("%s must be a string", KeyRef)
		}
	}
	if v, ok := fields[KeyEnum]; ok {
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		var values []any
		if err := dec.Decode(&values); err != nil {
			return fmt.Errorf("%s must be an array", KeyEnum)
		}
		if values == nil {
			values = []any{}
		}
		n.Enum = values
	}
	if v, ok := fields[KeyType]; ok {
		ts, err := decodeTypeSet(v)
		if err != nil {
			return err
		}
		n.Type = ts
	}
	if v, ok := fields[KeyItems]; ok {
		n.Items = &Node{}
		if err := json.Unmarshal(v, n.Items); err != nil {
			return fmt.Errorf("%s: %w", KeyItems, err)
		}
	}
	if v, ok := fields[KeyProperties]; ok {
		props, err := decodeProperties(v)
		if err != nil {
			return err
		}
		n.Properties = props
	}
	if v, ok := fields[KeyRequired]; ok {
		n.Required = decodeRequired(v)
	}
	if v, ok := fields[KeyOneOf]; ok {
		branches, err := decodeBranches(KeyOneOf, v)
		if err != nil {
			return err
		}
		n.OneOf = branches
	}
	if v, ok := fields[KeyAnyOf]; ok {
		branches, err := decodeBranches(KeyAnyOf, v)
		if err != nil {
			return err
		}
		n.AnyOf = branches
	}
	return nil
}

func decodeTypeSet(data json.RawMessage) (*TypeSet, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return &TypeSet{Keywords: []string{TypeNull}}, nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		return &TypeSet{Keywords: []string{single}}, nil
	}
	var list []*string
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%s must be a string or an array of strings", KeyType)
	}
	keywords := make([]string, 0, len(list))
	for _, k := range list {
		if k == nil {
			keywords = append(keywords, TypeNull)
			continue
		}
		keywords = append(keywords, *k)
	}
	return &TypeSet{Keywords: keywords, List: true}, nil
}

// decodeRequired keeps the string entries of a required list. Anything that is
// not a list behaves as if required were absent.
func decodeRequired(data json.RawMessage) []string {
	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	var out []string
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func decodeBranches(key string, data json.RawMessage) ([]*Node, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%s must be an array", key)
	}
	out := make([]*Node, 0, len(raws))
	for i, raw := range raws {
		child := &Node{}
		if err := json.Unmarshal(raw, child); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		out = append(out, child)
	}
	return out, nil
}

func decodeProperties(data json.RawMessage) ([]*Property, error) {
	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%s must be an object", KeyProperties)
	}
	order, err := objectKeys(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyProperties, err)
	}
	props := make([]*Property, 0, len(order))
	for _, name := range order {
		child := &Node{}
		if err := json.Unmarshal(values[name], child); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", KeyProperties, name, err)
		}
		props = append(props, &Property{Name: name, Schema: child})
	}
	return props, nil
}

// objectKeys returns the top-level keys of a JSON object in source order.
// Duplicate keys are reported once, at their first position.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected an object")
	}
	keys := []string{}
	seen := map[string]bool{}
	depth := 0
	expectKey := true
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, errors.New("unexpected end of object")
		}
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				if depth == 0 {
					return keys, nil
				}
				depth--
			}
			if depth == 0 {
				expectKey = true
			}
			continue
		}
		if depth > 0 {
			continue
		}
		if expectKey {
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected token %v", tok)
			}
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
			expectKey = false
			continue
		}
		expectKey = true
	}
}

// MarshalJSON encodes the recognized fields of n, keeping property order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var members []member
	if n.GraphQLType != "" {
		members = append(members, member{KeyGraphQLType, n.GraphQLType})
	}
	if n.Ref != "" {
		members = append(members, member{KeyRef, n.Ref})
	}
	if n.Enum != nil {
		members = append(members, member{KeyEnum, n.Enum})
	}
	if n.Type != nil {
		if n.Type.List || len(n.Type.Keywords) != 1 {
			members = append(members, member{KeyType, n.Type.Keywords})
		} else {
			members = append(members, member{KeyType, n.Type.Keywords[0]})
		}
	}
	if n.Items != nil {
		members = append(members, member{KeyItems, n.Items})
	}
	if n.Properties != nil {
		props := make([]member, len(n.Properties))
		for i, p := range n.Properties {
			props[i] = member{p.Name, p.Schema}
		}
		members = append(members, member{KeyProperties, object(props)})
	}
	if n.Required != nil {
		members = append(members, member{KeyRequired, n.Required})
	}
	if n.OneOf != nil {
		members = append(members, member{KeyOneOf, n.OneOf})
	}
	if n.AnyOf != nil {
		members = append(members, member{KeyAnyOf, n.AnyOf})
	}
	return object(members).MarshalJSON()
}

type member struct {
	key   string
	value any
}

// object is a JSON object with a fixed member order.
type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.key, err)
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
