package query

import "fmt"

// Direction is the sort direction of an ordering clause.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts exactly "asc" or "desc".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Asc, Desc:
		return d, nil
	default:
		return "", &InvalidOrderDirectionError{Direction: s}
	}
}

// InvalidOrderDirectionError reports a direction other than asc or desc.
type InvalidOrderDirectionError struct {
	Direction string
}

func (e *InvalidOrderDirectionError) Error() string {
	return fmt.Sprintf("invalid order direction %q: must be %q or %q", e.Direction, Asc, Desc)
}

// InvalidOperatorError reports an operator outside the supported sets.
type InvalidOperatorError struct {
	Operator string
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("invalid operator %q", e.Operator)
}
