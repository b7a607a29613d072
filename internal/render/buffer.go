package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pgschema/pgintrospect/internal/query"
)

// Statement is rendered SQL text plus its positional arguments. Args is empty
// for inline rendering.
type Statement struct {
	SQL  string
	Args []any
}

// Buffer accumulates SQL text. Identifiers and values can only enter the text
// through Ident and Value, which quote or parameterize them.
type Buffer struct {
	sb            strings.Builder
	args          []any
	parameterized bool
}

// NewBuffer returns an empty buffer. In parameterized mode values are
// replaced by $n placeholders and collected as arguments.
func NewBuffer(parameterized bool) *Buffer {
	return &Buffer{parameterized: parameterized}
}

// Keyword appends fixed SQL text such as "select" or ", ".
func (b *Buffer) Keyword(s string) *Buffer {
	b.sb.WriteString(s)
	return b
}

// Ident appends a quoted identifier.
func (b *Buffer) Ident(name string) *Buffer {
	b.sb.WriteString(QuoteIdentifier(name))
	return b
}

// Idents appends quoted identifiers separated by commas.
func (b *Buffer) Idents(names []string) *Buffer {
	for i, name := range names {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.Ident(name)
	}
	return b
}

// Table appends a table name, qualified with schema when one is given.
func (b *Buffer) Table(schema, name string) *Buffer {
	if schema != "" {
		b.Ident(schema).Keyword(".")
	}
	return b.Ident(name)
}

// Value appends a literal or a placeholder for v.
func (b *Buffer) Value(v any) error {
	if b.parameterized {
		if err := CheckValue(v); err != nil {
			return err
		}
		b.args = append(b.args, v)
		b.sb.WriteString("$" + strconv.Itoa(len(b.args)))
		return nil
	}
	s, err := FormatValue(v)
	if err != nil {
		return err
	}
	b.sb.WriteString(s)
	return nil
}

// Int appends an integer that is part of the statement shape, e.g. a limit.
func (b *Buffer) Int(n int) *Buffer {
	b.sb.WriteString(strconv.Itoa(n))
	return b
}

// Condition appends one condition.
func (b *Buffer) Condition(c query.Condition) error {
	if err := query.Validate(c); err != nil {
		return err
	}
	switch c := c.(type) {
	case query.Unary:
		b.Ident(c.Column).Keyword(" ").Keyword(string(c.Operator))
		return nil
	case query.Binary:
		b.Ident(c.Column).Keyword(" ").Keyword(string(c.Operator)).Keyword(" ")
		return b.Value(c.Value)
	default:
		return fmt.Errorf("unexpected condition %T", c)
	}
}

// Where appends a where clause joining conditions with "and". Nothing is
// written when conditions is empty.
func (b *Buffer) Where(conditions []query.Condition) error {
	for i, c := range conditions {
		if i == 0 {
			b.Keyword(" where ")
		} else {
			b.Keyword(" and ")
		}
		if err := b.Condition(c); err != nil {
			return err
		}
	}
	return nil
}

// Returning appends a returning clause. Nothing is written for an empty set.
func (b *Buffer) Returning(columns []string) *Buffer {
	if len(columns) == 0 {
		return b
	}
	b.Keyword(" returning ")
	if len(columns) == 1 && columns[0] == query.ReturnAll {
		return b.Keyword("*")
	}
	return b.Idents(columns)
}

// Statement returns the accumulated text and arguments.
func (b *Buffer) Statement() Statement {
	return Statement{SQL: b.sb.String(), Args: b.args}
}
