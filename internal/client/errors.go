package client

import "fmt"

// UnknownTableError reports a table name missing from the schema.
type UnknownTableError struct {
	Name string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %q", e.Name)
}

// UnknownColumnError reports a column name missing from its table.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q in table %q", e.Column, e.Table)
}

// UnknownRoutineError reports a routine name missing from the schema.
type UnknownRoutineError struct {
	Name string
}

func (e *UnknownRoutineError) Error() string {
	return fmt.Sprintf("unknown routine %q", e.Name)
}

// ArgumentCountError reports a call with more arguments than the routine has
// parameters.
type ArgumentCountError struct {
	Routine string
	Want    int
	Got     int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("routine %q takes at most %d arguments, got %d", e.Routine, e.Want, e.Got)
}

// InvalidPaginationError reports a negative limit or offset.
type InvalidPaginationError struct {
	Clause string
	Value  int
}

func (e *InvalidPaginationError) Error() string {
	return fmt.Sprintf("%s must not be negative, got %d", e.Clause, e.Value)
}
