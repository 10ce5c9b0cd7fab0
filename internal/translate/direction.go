package translate

import "fmt"

// Direction selects whether objects become output types or input types.
type Direction int

const (
	Output Direction = iota
	Input
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// ParseDirection accepts "input", "output" or "" (output).
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "output":
		return Output, nil
	case "input":
		return Input, nil
	default:
		return Output, fmt.Errorf("unknown direction %q (want input or output)", s)
	}
}
