// Package query holds the operation model produced by the fluent client and
// consumed by renderers and transports.
package query

// Row is one result record keyed by column name.
type Row map[string]any

// Order is a single ordering clause.
type Order struct {
	Columns   []string
	Direction Direction
}

// SelectQuery reads rows from a table. Zero values mean "not set": no
// Columns selects every column, a zero Limit or Offset is omitted and a nil
// Order renders no ordering.
type SelectQuery struct {
	Table      string
	Columns    []string
	Conditions []Condition
	Limit      int
	Offset     int
	Order      *Order
}

// InsertCommand writes Rows into Table. Each row is positional and holds one
// value per entry of Columns.
type InsertCommand struct {
	Table     string
	Columns   []string
	Rows      [][]any
	Returning []string
}

// UpdateCommand assigns Values to every row matching Conditions.
type UpdateCommand struct {
	Table      string
	Values     Row
	Conditions []Condition
	Returning  []string
}

// DeleteCommand removes every row matching Conditions.
type DeleteCommand struct {
	Table      string
	Conditions []Condition
	Returning  []string
}

// CallCommand invokes a routine with positional parameters. Parameters may be
// shorter than the routine's parameter list when trailing parameters have
// defaults. ParameterNames lists the declared names in the same order, for
// transports that pass arguments by name.
type CallCommand struct {
	Procedure      string
	Parameters     []any
	ParameterNames []string
}

// ReturnAll is the returning set that selects every column.
const ReturnAll = "*"
