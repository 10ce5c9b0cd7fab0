package document

import "fmt"

// Check selects which GraphQL rules an assembled document must pass.
type Check int

const (
	CheckNone   Check = iota
	CheckSyntax       // SDL grammar only
	CheckSchema       // full type system validation
)

func (c Check) String() string {
	switch c {
	case CheckSyntax:
		return "syntax"
	case CheckSchema:
		return "schema"
	default:
		return "none"
	}
}

// ParseCheck accepts "none", "syntax", "schema" or "" (none).
func ParseCheck(s string) (Check, error) {
	switch s {
	case "", "none":
		return CheckNone, nil
	case "syntax":
		return CheckSyntax, nil
	case "schema":
		return CheckSchema, nil
	default:
		return CheckNone, fmt.Errorf("unknown check %q (want none, syntax or schema)", s)
	}
}

// Verify applies c to sdl.
func Verify(c Check, name, sdl string) error {
	switch c {
	case CheckSyntax:
		_, err := Parse(name, sdl)
		return err
	case CheckSchema:
		return Validate(name, sdl)
	}
	return nil
}
