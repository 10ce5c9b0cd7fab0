// Package naming derives GraphQL type names and diagnostic breadcrumbs from
// translation paths.
package naming

import (
	"path"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// SegmentKind tells what a path segment stands for.
type SegmentKind int

const (
	SegmentRoot SegmentKind = iota
	SegmentProperty
	SegmentBranch
	// SegmentElement is the slot of an array node; its element is named
	// below it.
	SegmentElement
	// SegmentSelf is the slot of the object or enum a node introduces.
	SegmentSelf
)

// Marker is the text of positional slot segments.
const Marker = "T0"

type Segment struct {
	Kind SegmentKind
	Name string
}

// Path is the sequence of segments that led to a schema node, anchored at the
// root name.
type Path []Segment

func NewPath(root string) Path {
	return Path{{Kind: SegmentRoot, Name: root}}
}

func (p Path) with(s Segment) Path { return append(slices.Clip(p), s) }

func (p Path) Property(name string) Path {
	return p.with(Segment{Kind: SegmentProperty, Name: name})
}

func (p Path) Branch(i int) Path {
	return p.with(Segment{Kind: SegmentBranch, Name: "I" + strconv.Itoa(i)})
}

func (p Path) Element() Path {
	return p.with(Segment{Kind: SegmentElement, Name: Marker})
}

func (p Path) Self() Path {
	return p.with(Segment{Kind: SegmentSelf, Name: Marker})
}

// Strings returns the raw segment texts.
func (p Path) Strings() []string {
	out := make([]string, len(p))
	for i, s := range p {
		out[i] = s.Name
	}
	return out
}

func (p Path) String() string { return Breadcrumb(p) }

// TypeName converts a path into a PascalCase GraphQL type name. Self slots
// are dropped, so the root object of "User" is named User and its address
// property object UserAddress; element slots stay, so the objects of a list
// property items are named ...ItemsT0.
func TypeName(p Path) string {
	var b strings.Builder
	for _, s := range p {
		if s.Kind == SegmentSelf {
			continue
		}
		b.WriteString(pascalSegment(s.Name))
	}
	return b.String()
}

// PascalCase concatenates the PascalCase form of every segment.
func PascalCase(segments []string) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(pascalSegment(seg))
	}
	return b.String()
}

// pascalSegment camel-cases separated words (line_items, line-item) and
// otherwise only upper-cases the first letter, so APIKey and userID keep
// their capitals.
func pascalSegment(seg string) string {
	if strings.ContainsAny(seg, "_-. ") {
		return strcase.ToCamel(seg)
	}
	r, size := utf8.DecodeRuneInString(seg)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + seg[size:]
}

// Breadcrumb renders a path for error messages, slots included.
func Breadcrumb(p Path) string {
	return strings.Join(p.Strings(), ".")
}

// RefTypeName maps a reference token such as "#/definitions/user_profile" or
// "schemas/address.json" to a type name, appending suffix.
func RefTypeName(ref, suffix string) string {
	name := ref
	if i := strings.LastIndex(name, "#"); i >= 0 {
		if frag := name[i+1:]; strings.Trim(frag, "/") == "" {
			name = name[:i]
		} else {
			name = frag
		}
	}
	name = path.Base(strings.TrimRight(name, "/"))
	if ext := path.Ext(name); ext == ".json" || ext == ".yaml" || ext == ".yml" {
		name = strings.TrimSuffix(name, ext)
	}
	return PascalCase([]string{name}) + suffix
}

// Resolver returns a reference resolver backed by RefTypeName.
func Resolver(suffix string) func(string) string {
	return func(ref string) string { return RefTypeName(ref, suffix) }
}
