// Package jsonschema holds the parsed form of the JSON Schema subset that can
// be translated into GraphQL SDL.
package jsonschema

import (
	"github.com/goccy/go-json"
)

// Recognized keys.
const (
	KeyGraphQLType = "x-graphql-type"
	KeyRef         = "$ref"
	KeyEnum        = "enum"
	KeyType        = "type"
	KeyItems       = "items"
	KeyProperties  = "properties"
	KeyRequired    = "required"
	KeyOneOf       = "oneOf"
	KeyAnyOf       = "anyOf"
)

// TypeNull is the keyword that marks a nullable union branch.
const TypeNull = "null"

// Kind is the classification of a schema node.
type Kind int

const (
	KindUnknown Kind = iota
	KindPreResolved
	KindRef
	KindEnum
	KindTyped
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindPreResolved:
		return "pre-resolved"
	case KindRef:
		return "reference"
	case KindEnum:
		return "enum"
	case KindTyped:
		return "typed"
	case KindUnion:
		return "union"
	default:
		return "unknown"
	}
}

// Node is a single schema node. Slice fields are non-nil exactly when the
// corresponding key was present in the source, even if the value was empty.
type Node struct {
	GraphQLType string
	Ref         string
	Enum        []any
	Type        *TypeSet
	Items       *Node
	Properties  []*Property
	Required    []string
	OneOf       []*Node
	AnyOf       []*Node

	raw []byte
}

// TypeSet is the value of the type keyword: a single keyword, or a list.
type TypeSet struct {
	Keywords []string
	List     bool
}

// Property is a named entry of properties, in declaration order.
type Property struct {
	Name   string
	Schema *Node
}

// Kind classifies n. Checks run in a fixed priority order: pre-resolved,
// reference, enum, typed, union.
func (n *Node) Kind() Kind {
	switch {
	case n == nil:
		return KindUnknown
	case n.GraphQLType != "":
		return KindPreResolved
	case n.Ref != "":
		return KindRef
	case n.Enum != nil:
		return KindEnum
	case n.Type != nil || n.HasItems() || n.HasProperties():
		return KindTyped
	case n.OneOf != nil || n.AnyOf != nil:
		return KindUnion
	default:
		return KindUnknown
	}
}

// HasItems reports whether n carries an element schema.
func (n *Node) HasItems() bool { return n.Items != nil }

// HasProperties reports whether n carries a properties map.
func (n *Node) HasProperties() bool { return n.Properties != nil }

// IsNullType reports whether n declares exactly the null type.
func (n *Node) IsNullType() bool {
	return n != nil && n.Type != nil && !n.Type.List &&
		len(n.Type.Keywords) == 1 && n.Type.Keywords[0] == TypeNull
}

// IsRequired reports whether name is listed in required.
func (n *Node) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Branches returns the union branches, preferring oneOf over anyOf.
func (n *Node) Branches() []*Node {
	if n.OneOf != nil {
		return n.OneOf
	}
	return n.AnyOf
}

// Dump returns the source text of n, or an encoding of its recognized fields
// when n was not parsed from a document.
func (n *Node) Dump() string {
	if n == nil {
		return "null"
	}
	if len(n.raw) > 0 {
		return string(n.raw)
	}
	b, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return "<unprintable schema>"
	}
	return string(b)
}
