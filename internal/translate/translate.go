// Package translate turns a JSON Schema node into a GraphQL type reference
// plus the SDL declarations needed to define it.
//
// Translation is a recursive descent over the schema. Every node is reached
// through a path (root name, property names, union branch markers and type
// slots) and every synthesized type is named after its path, so the output is
// a pure function of the input. Declarations of children precede the
// declaration of their parent and are never de-duplicated here; document
// assembly is left to the caller.
package translate

import (
	"slices"

	"github.com/hanpama/jsonschema2sdl/internal/jsonschema"
	"github.com/hanpama/jsonschema2sdl/internal/naming"
	"github.com/hanpama/jsonschema2sdl/internal/schema"
)

// Result is the outcome of a top-level translation.
type Result struct {
	// TypeName is a single usable GraphQL type reference, e.g. User or [String].
	TypeName string `json:"typeName"`
	// TypeDefinitions are the declarations introduced while translating, in
	// dependency order.
	TypeDefinitions []string `json:"typeDefinitions"`
}

// Resolver maps a reference token to an already known GraphQL type name. The
// returned name is used verbatim.
type Resolver func(ref string) string

type Options struct {
	Direction Direction
	Resolver  Resolver
}

type Option func(*Options)

func WithDirection(d Direction) Option { return func(o *Options) { o.Direction = d } }
func WithResolver(r Resolver) Option   { return func(o *Options) { o.Resolver = r } }

// Translate converts node into GraphQL SDL, naming the types it introduces
// after rootName.
func Translate(rootName string, node *jsonschema.Node, opts ...Option) (*Result, error) {
	op := Options{Direction: Output}
	for _, f := range opts {
		f(&op)
	}
	t := &translator{direction: op.Direction, resolver: op.Resolver}
	out, err := t.translate(naming.NewPath(rootName), node)
	if err != nil {
		return nil, err
	}
	defs := out.defs
	if defs == nil {
		defs = []string{}
	}
	return &Result{TypeName: out.ref.String(), TypeDefinitions: defs}, nil
}

type translator struct {
	direction Direction
	resolver  Resolver
}

type outcomeKind int

const (
	outcomeSingle outcomeKind = iota
	// outcomeRawUnion carries members that still need a named union.
	outcomeRawUnion
)

type outcome struct {
	kind    outcomeKind
	ref     *schema.TypeRef
	members []*schema.TypeRef
	defs    []string
}

func single(ref *schema.TypeRef, defs []string) outcome {
	return outcome{kind: outcomeSingle, ref: ref, defs: defs}
}

func rawUnion(members []*schema.TypeRef, defs []string) outcome {
	return outcome{kind: outcomeRawUnion, members: members, defs: defs}
}

// translate is the dispatcher. Whatever the handler returns, the caller gets a
// single type reference.
func (t *translator) translate(path naming.Path, node *jsonschema.Node) (outcome, error) {
	var (
		out outcome
		err error
	)
	switch node.Kind() {
	case jsonschema.KindPreResolved:
		out = single(schema.NamedType(node.GraphQLType), nil)
	case jsonschema.KindRef:
		if t.resolver == nil {
			return outcome{}, &MissingResolverError{Breadcrumb: naming.Breadcrumb(path), Ref: node.Ref}
		}
		out = single(schema.NamedType(t.resolver(node.Ref)), nil)
	case jsonschema.KindEnum:
		out, err = t.translateEnum(path, node)
	case jsonschema.KindTyped:
		out, err = t.translateTyped(path, node)
	case jsonschema.KindUnion:
		out, err = t.translateUnion(path, node)
	default:
		return outcome{}, &UnrecognizedShapeError{Breadcrumb: naming.Breadcrumb(path), Node: node.Dump()}
	}
	if err != nil {
		return outcome{}, err
	}
	return t.nameUnion(path, out)
}

// nameUnion wraps a raw union of two or more members into a union declaration
// named after path. A single member stands for itself.
func (t *translator) nameUnion(path naming.Path, out outcome) (outcome, error) {
	if out.kind == outcomeSingle {
		return out, nil
	}
	switch len(out.members) {
	case 0:
		return outcome{}, &NullOnlyError{Breadcrumb: naming.Breadcrumb(path)}
	case 1:
		return single(out.members[0], out.defs), nil
	}
	union := schema.NewType(naming.TypeName(path), schema.TypeKindUnion)
	for _, m := range out.members {
		union.AddPossibleType(m)
	}
	defs := append(slices.Clip(out.defs), schema.RenderDefinition(union))
	return single(schema.NamedType(union.Name), defs), nil
}
