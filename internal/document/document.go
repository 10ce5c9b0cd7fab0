// Package document assembles translated fragments into one SDL document.
package document

import (
	"fmt"
	"strings"

	language "github.com/hanpama/jsonschema2sdl/internal/language"
	"github.com/hanpama/jsonschema2sdl/internal/schema"
	"github.com/hanpama/jsonschema2sdl/internal/translate"
)

// Builder collects declarations from several translations. Identical blocks
// are kept once at their first position; a second, different block under an
// already used name, or any block named like a built-in scalar, is recorded
// as a conflict.
type Builder struct {
	defs      []string
	seen      map[string]bool
	byName    map[string]string
	conflicts []string
	reported  map[string]bool
}

func NewBuilder() *Builder {
	return &Builder{
		seen:     make(map[string]bool),
		byName:   make(map[string]string),
		reported: make(map[string]bool),
	}
}

// Add appends the definitions of a translation result.
func (b *Builder) Add(res *translate.Result) *Builder {
	for _, def := range res.TypeDefinitions {
		b.AddDefinition(def)
	}
	return b
}

// AddDefinition appends one declaration block.
func (b *Builder) AddDefinition(def string) *Builder {
	def = strings.TrimSpace(def)
	if def == "" || b.seen[def] {
		return b
	}
	b.seen[def] = true
	name := DefinitionName(def)
	if schema.IsBuiltinScalar(name) {
		b.conflict(name, fmt.Sprintf("type %q shadows a built-in scalar", name))
		return b
	}
	if prev, ok := b.byName[name]; ok && prev != def {
		b.conflict(name, fmt.Sprintf("type %q is declared more than once with different bodies", name))
		return b
	}
	b.byName[name] = def
	b.defs = append(b.defs, def)
	return b
}

func (b *Builder) conflict(name, msg string) {
	if b.reported[name] {
		return
	}
	b.reported[name] = true
	b.conflicts = append(b.conflicts, msg)
}

// Definitions returns the collected blocks in insertion order.
func (b *Builder) Definitions() []string {
	return append([]string(nil), b.defs...)
}

// Check reports every type name that was declared with different bodies or
// that shadows a built-in scalar.
func (b *Builder) Check() error {
	if len(b.conflicts) == 0 {
		return nil
	}
	errs := make(ValidationError, len(b.conflicts))
	for i, msg := range b.conflicts {
		errs[i] = &Violation{Message: msg}
	}
	return errs
}

// Render joins the blocks with blank lines.
func (b *Builder) Render() string {
	if len(b.defs) == 0 {
		return ""
	}
	return strings.Join(b.defs, "\n\n") + "\n"
}

// DefinitionName returns the declared name of a block such as
// "type User {...}" or "union Pet = Cat | Dog".
func DefinitionName(def string) string {
	fields := strings.Fields(def)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimRight(fields[1], "{=")
}

// Parse checks the syntax of an SDL document.
func Parse(name, sdl string) (*language.SchemaDocument, error) {
	doc, err := language.ParseSchema(name, sdl)
	if err != nil {
		return nil, violationsFrom(err)
	}
	return doc, nil
}

// Validate runs full GraphQL schema validation over an SDL document.
func Validate(name, sdl string) error {
	if _, err := language.LoadSchema(name, sdl); err != nil {
		return violationsFrom(err)
	}
	return nil
}
