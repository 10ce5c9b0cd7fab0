package document

import (
	"errors"
	"fmt"

	language "github.com/hanpama/jsonschema2sdl/internal/language"
)

type Violation struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type ValidationError []*Violation

func (e ValidationError) Error() string {
	msg := "violations found:\n"
	for _, v := range e {
		line := "- " + v.Message
		if v.File != "" {
			line += fmt.Sprintf(" %s:%d:%d", v.File, v.Line, v.Column)
		}
		msg += line + "\n"
	}
	return msg
}

// violationsFrom converts gqlparser errors into violations. Errors of any
// other type are returned unchanged.
func violationsFrom(err error) error {
	var list language.ErrorList
	if errors.As(err, &list) {
		out := make(ValidationError, 0, len(list))
		for _, e := range list {
			out = append(out, violationFromGQL(e))
		}
		return out
	}
	var single *language.Error
	if errors.As(err, &single) {
		return ValidationError{violationFromGQL(single)}
	}
	return err
}

func violationFromGQL(e *language.Error) *Violation {
	v := &Violation{Message: e.Message}
	if e.Extensions != nil {
		if file, ok := e.Extensions["file"].(string); ok {
			v.File = file
		}
	}
	if len(e.Locations) > 0 {
		v.Line = e.Locations[0].Line
		v.Column = e.Locations[0].Column
	}
	return v
}
