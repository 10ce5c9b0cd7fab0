package schema

// Type is a named GraphQL declaration produced by translation (object, input,
// enum, union).
type Type struct {
	Name          string
	Kind          TypeKind
	Fields        []*Field     // For OBJECT and INPUT_OBJECT
	PossibleTypes []*TypeRef   // For UNION
	EnumValues    []*EnumValue // For ENUM
}

// Field is a field of an object or input object.
type Field struct {
	Name string
	Type *TypeRef
}

// TypeKind represents the kind of GraphQL type
type TypeKind string

const (
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
)

// TypeRef represents a reference to a type (can be wrapped)
type TypeRef struct {
	Kind   TypeRefKind
	OfType *TypeRef // For List and NonNull
	Named  string   // For named types
}

type TypeRefKind string

const (
	TypeRefKindNamed   TypeRefKind = "NAMED"
	TypeRefKindList    TypeRefKind = "LIST"
	TypeRefKindNonNull TypeRefKind = "NON_NULL"
)

// String renders the reference in SDL form, e.g. [String]!.
func (t *TypeRef) String() string { return RenderTypeRef(t) }

type EnumValue struct {
	Name string
}

func NonNullType(t *TypeRef) *TypeRef { return &TypeRef{Kind: TypeRefKindNonNull, OfType: t} }
func ListType(t *TypeRef) *TypeRef    { return &TypeRef{Kind: TypeRefKindList, OfType: t} }
func NamedType(name string) *TypeRef  { return &TypeRef{Kind: TypeRefKindNamed, Named: name} }

// NewType starts a declaration of the given kind.
func NewType(name string, kind TypeKind) *Type {
	return &Type{Name: name, Kind: kind}
}

func (t *Type) AddField(name string, typ *TypeRef) *Type {
	t.Fields = append(t.Fields, &Field{Name: name, Type: typ})
	return t
}

func (t *Type) AddEnumValue(name string) *Type {
	t.EnumValues = append(t.EnumValues, &EnumValue{Name: name})
	return t
}

func (t *Type) AddPossibleType(ref *TypeRef) *Type {
	t.PossibleTypes = append(t.PossibleTypes, ref)
	return t
}
