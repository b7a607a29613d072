package query

import "fmt"

// UnaryOperator is an operator taking only a column.
type UnaryOperator string

const (
	IsNull    UnaryOperator = "is null"
	IsNotNull UnaryOperator = "is not null"
)

// BinaryOperator is an operator comparing a column with a value.
type BinaryOperator string

const (
	Eq  BinaryOperator = "="
	Gt  BinaryOperator = ">"
	Lt  BinaryOperator = "<"
	Gte BinaryOperator = ">="
	Lte BinaryOperator = "<="
)

// Condition is either a Unary or a Binary condition.
type Condition interface {
	ColumnName() string
	isCondition()
}

// Unary tests a column without a value, e.g. "deleted_at is null".
type Unary struct {
	Column   string
	Operator UnaryOperator
}

// Binary compares a column with a value, e.g. "status = 'active'".
type Binary struct {
	Column   string
	Operator BinaryOperator
	Value    any
}

func (c Unary) ColumnName() string  { return c.Column }
func (c Binary) ColumnName() string { return c.Column }

func (Unary) isCondition()  {}
func (Binary) isCondition() {}

// Valid reports whether op is one of the unary operators.
func (op UnaryOperator) Valid() bool {
	return op == IsNull || op == IsNotNull
}

// Valid reports whether op is one of the binary operators.
func (op BinaryOperator) Valid() bool {
	switch op {
	case Eq, Gt, Lt, Gte, Lte:
		return true
	}
	return false
}

// Validate checks the operator of a condition.
func Validate(c Condition) error {
	switch c := c.(type) {
	case Unary:
		if !c.Operator.Valid() {
			return &InvalidOperatorError{Operator: string(c.Operator)}
		}
	case Binary:
		if !c.Operator.Valid() {
			return &InvalidOperatorError{Operator: string(c.Operator)}
		}
	default:
		return fmt.Errorf("unexpected condition %T", c)
	}
	return nil
}

// ParseOperator maps operator text to a unary or binary operator.
func ParseOperator(s string) (unary UnaryOperator, binary BinaryOperator, err error) {
	if op := UnaryOperator(s); op.Valid() {
		return op, "", nil
	}
	if op := BinaryOperator(s); op.Valid() {
		return "", op, nil
	}
	return "", "", &InvalidOperatorError{Operator: s}
}
