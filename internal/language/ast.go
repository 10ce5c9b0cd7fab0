package language

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

type (
	SchemaDocument = ast.SchemaDocument
	Schema         = ast.Schema
	Definition     = ast.Definition
	DefinitionList = ast.DefinitionList
	Position       = ast.Position
	Source         = ast.Source
	Error          = gqlerror.Error
	ErrorList      = gqlerror.List
)

type DefinitionKind = ast.DefinitionKind

const (
	Object      DefinitionKind = ast.Object
	Union       DefinitionKind = ast.Union
	Scalar      DefinitionKind = ast.Scalar
	Enum        DefinitionKind = ast.Enum
	InputObject DefinitionKind = ast.InputObject
)
