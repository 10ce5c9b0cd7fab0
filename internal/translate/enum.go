package translate

import (
	"fmt"

	"github.com/hanpama/jsonschema2sdl/internal/jsonschema"
	"github.com/hanpama/jsonschema2sdl/internal/naming"
	"github.com/hanpama/jsonschema2sdl/internal/schema"
)

// translateEnum declares an enum named after the node's own slot. Object and
// array values have no enum value form and make the node unrecognized.
func (t *translator) translateEnum(path naming.Path, node *jsonschema.Node) (outcome, error) {
	enum := schema.NewType(naming.TypeName(path.Self()), schema.TypeKindEnum)
	for _, v := range node.Enum {
		lit, ok := enumLiteral(v)
		if !ok {
			return outcome{}, &UnrecognizedShapeError{Breadcrumb: naming.Breadcrumb(path), Node: node.Dump()}
		}
		enum.AddEnumValue(lit)
	}
	return single(schema.NamedType(enum.Name), []string{schema.RenderDefinition(enum)}), nil
}

// enumLiteral renders a scalar enum value the way it was written in the
// source.
func enumLiteral(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "null", true
	case string:
		return v, true
	case map[string]any, []any:
		return "", false
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
