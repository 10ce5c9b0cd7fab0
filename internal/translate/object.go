package translate

import (
	"github.com/hanpama/jsonschema2sdl/internal/jsonschema"
	"github.com/hanpama/jsonschema2sdl/internal/naming"
	"github.com/hanpama/jsonschema2sdl/internal/schema"
)

// translateObject declares a type (or input) named after path. Field
// declarations come after the declarations of the field types.
func (t *translator) translateObject(path naming.Path, node *jsonschema.Node) (outcome, error) {
	kind := schema.TypeKindObject
	if t.direction == Input {
		kind = schema.TypeKindInputObject
	}
	obj := schema.NewType(naming.TypeName(path), kind)

	var defs []string
	for _, prop := range node.Properties {
		out, err := t.translate(path.Property(prop.Name), prop.Schema)
		if err != nil {
			return outcome{}, err
		}
		ref := out.ref
		if node.IsRequired(prop.Name) {
			ref = schema.NonNullType(ref)
		}
		obj.AddField(prop.Name, ref)
		defs = append(defs, out.defs...)
	}
	defs = append(defs, schema.RenderDefinition(obj))
	return single(schema.NamedType(obj.Name), defs), nil
}
