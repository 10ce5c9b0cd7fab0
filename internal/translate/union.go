package translate

import (
	"github.com/hanpama/jsonschema2sdl/internal/jsonschema"
	"github.com/hanpama/jsonschema2sdl/internal/naming"
	"github.com/hanpama/jsonschema2sdl/internal/schema"
)

// translateUnion collects the non-null branches of oneOf (or anyOf). Branches
// declaring the null type are skipped; nullability only ever shows through the
// parent's required list.
func (t *translator) translateUnion(path naming.Path, node *jsonschema.Node) (outcome, error) {
	branches := node.Branches()
	members := make([]*schema.TypeRef, 0, len(branches))
	var defs []string
	for i, branch := range branches {
		if branch.IsNullType() {
			continue
		}
		out, err := t.translate(path.Branch(i), branch)
		if err != nil {
			return outcome{}, err
		}
		members = append(members, out.ref)
		defs = append(defs, out.defs...)
	}
	return rawUnion(members, defs), nil
}
