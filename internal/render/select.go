// Package render turns query models into PostgreSQL text.
package render

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/pgschema/pgintrospect/internal/query"
)

// Renderer renders select queries. The zero value renders inline literals
// against unqualified table names.
type Renderer struct {
	schema        string
	parameterized bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSchema qualifies every table name with schema.
func WithSchema(schema string) Option {
	return func(r *Renderer) { r.schema = schema }
}

// Parameterized renders values as $n placeholders.
func Parameterized() Option {
	return func(r *Renderer) { r.parameterized = true }
}

// New creates a renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Schema returns the qualifying schema, empty for none.
func (r *Renderer) Schema() string {
	return r.schema
}

// Buffer returns an empty buffer in the renderer's mode.
func (r *Renderer) Buffer() *Buffer {
	return NewBuffer(r.parameterized)
}

// Select renders q as
//
//	select <columns|*> from <table> [where ...] [order by ...] [limit n] [offset n]
func (r *Renderer) Select(q *query.SelectQuery) (Statement, error) {
	b := r.Buffer()
	b.Keyword("select ")
	if len(q.Columns) == 0 {
		b.Keyword("*")
	} else {
		b.Idents(q.Columns)
	}
	b.Keyword(" from ").Table(r.schema, q.Table)

	if err := b.Where(q.Conditions); err != nil {
		return Statement{}, fmt.Errorf("failed to render select on %s: %w", q.Table, err)
	}

	if q.Order != nil && len(q.Order.Columns) > 0 {
		if _, err := query.ParseDirection(string(q.Order.Direction)); err != nil {
			return Statement{}, err
		}
		b.Keyword(" order by ")
		for i, col := range q.Order.Columns {
			if i > 0 {
				b.Keyword(", ")
			}
			b.Ident(col).Keyword(" ").Keyword(string(q.Order.Direction))
		}
	}
	if q.Limit > 0 {
		b.Keyword(" limit ").Int(q.Limit)
	}
	if q.Offset > 0 {
		b.Keyword(" offset ").Int(q.Offset)
	}

	return b.Statement(), nil
}

// Select renders q with inline literals and no schema qualification.
func Select(q *query.SelectQuery) (string, error) {
	stmt, err := New().Select(q)
	if err != nil {
		return "", err
	}
	return stmt.SQL, nil
}

// Validate parses sql with the PostgreSQL parser and requires exactly one
// statement.
func Validate(sql string) error {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return fmt.Errorf("failed to parse rendered SQL: %w", err)
	}
	if n := len(result.Stmts); n != 1 {
		return fmt.Errorf("rendered SQL contains %d statements, want 1", n)
	}
	return nil
}
