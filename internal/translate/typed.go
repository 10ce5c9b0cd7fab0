package translate

import (
	"github.com/hanpama/jsonschema2sdl/internal/jsonschema"
	"github.com/hanpama/jsonschema2sdl/internal/naming"
	"github.com/hanpama/jsonschema2sdl/internal/schema"
)

// scalarNames maps primitive type keywords to GraphQL scalars. null maps to
// the empty name and is dropped from type lists.
var scalarNames = map[string]string{
	"string":  schema.String,
	"integer": schema.Int,
	"number":  schema.Float,
	"boolean": schema.Boolean,
	"null":    "",
}

func scalarName(keyword string) (string, bool) {
	name, ok := scalarNames[keyword]
	return name, ok
}

// hasArrayType and hasObjectType look at structure rather than the declared
// keyword: an element schema makes an array, a properties map an object.
func hasArrayType(node *jsonschema.Node) bool  { return node.HasItems() }
func hasObjectType(node *jsonschema.Node) bool { return node.HasProperties() }

func (t *translator) translateTyped(path naming.Path, node *jsonschema.Node) (outcome, error) {
	if hasArrayType(node) {
		return t.translateArray(path.Element(), node)
	}
	if hasObjectType(node) {
		return t.translateObject(path.Self(), node)
	}

	unrecognized := func() error {
		return &UnrecognizedShapeError{Breadcrumb: naming.Breadcrumb(path), Node: node.Dump()}
	}
	if node.Type == nil {
		return outcome{}, unrecognized()
	}
	if !node.Type.List {
		if len(node.Type.Keywords) != 1 {
			return outcome{}, unrecognized()
		}
		name, ok := scalarName(node.Type.Keywords[0])
		if !ok {
			return outcome{}, unrecognized()
		}
		if name == "" {
			return outcome{}, &NullOnlyError{Breadcrumb: naming.Breadcrumb(path)}
		}
		return single(schema.NamedType(name), nil), nil
	}

	members := make([]*schema.TypeRef, 0, len(node.Type.Keywords))
	for _, keyword := range node.Type.Keywords {
		name, ok := scalarName(keyword)
		if !ok {
			return outcome{}, unrecognized()
		}
		if name == "" {
			continue
		}
		members = append(members, schema.NamedType(name))
	}
	return rawUnion(members, nil), nil
}
