package translate

import (
	"github.com/hanpama/jsonschema2sdl/internal/jsonschema"
	"github.com/hanpama/jsonschema2sdl/internal/naming"
	"github.com/hanpama/jsonschema2sdl/internal/schema"
)

// translateArray wraps the element type in a list. The element is translated
// at the array's own slot; the list adds no declaration.
func (t *translator) translateArray(path naming.Path, node *jsonschema.Node) (outcome, error) {
	out, err := t.translate(path, node.Items)
	if err != nil {
		return outcome{}, err
	}
	return single(schema.ListType(out.ref), out.defs), nil
}
