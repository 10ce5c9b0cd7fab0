package schema

import (
	"strings"
)

// RenderDefinition produces the SDL block for a single declaration, without a
// trailing newline. Objects and inputs without fields render as a bare
// `type Name` / `input Name`.
func RenderDefinition(typ *Type) string {
	if typ == nil {
		return ""
	}
	var b strings.Builder
	switch typ.Kind {
	case TypeKindEnum:
		renderEnum(&b, typ)
	case TypeKindInputObject:
		renderFields(&b, "input", typ)
	case TypeKindObject:
		renderFields(&b, "type", typ)
	case TypeKindUnion:
		renderUnion(&b, typ)
	}
	return b.String()
}

// ----- render helpers -----

func renderEnum(b *strings.Builder, typ *Type) {
	b.WriteString("enum ")
	b.WriteString(typ.Name)
	b.WriteString(" {\n")
	for _, val := range typ.EnumValues {
		b.WriteString("  ")
		b.WriteString(val.Name)
		b.WriteString("\n")
	}
	b.WriteString("}")
}

func renderFields(b *strings.Builder, keyword string, typ *Type) {
	b.WriteString(keyword)
	b.WriteString(" ")
	b.WriteString(typ.Name)
	if len(typ.Fields) == 0 {
		return
	}
	b.WriteString(" {\n")
	for _, field := range typ.Fields {
		b.WriteString("  ")
		b.WriteString(field.Name)
		b.WriteString(": ")
		b.WriteString(RenderTypeRef(field.Type))
		b.WriteString("\n")
	}
	b.WriteString("}")
}

func renderUnion(b *strings.Builder, typ *Type) {
	b.WriteString("union ")
	b.WriteString(typ.Name)
	b.WriteString(" = ")
	for i, possibleType := range typ.PossibleTypes {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(RenderTypeRef(possibleType))
	}
}

// RenderTypeRef renders a type reference such as [String]!.
func RenderTypeRef(typeRef *TypeRef) string {
	if typeRef == nil {
		return ""
	}

	switch typeRef.Kind {
	case TypeRefKindNamed:
		return typeRef.Named
	case TypeRefKindList:
		return "[" + RenderTypeRef(typeRef.OfType) + "]"
	case TypeRefKindNonNull:
		return RenderTypeRef(typeRef.OfType) + "!"
	default:
		return ""
	}
}
