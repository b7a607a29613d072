package client

import (
	"context"

	"github.com/pgschema/pgintrospect/internal/ir"
	"github.com/pgschema/pgintrospect/internal/query"
)

// builder carries what every chain shares. The first invalid call is recorded
// and returned by the terminal method without reaching the transport.
type builder struct {
	table     *ir.Table
	transport Transport
	err       error
}

// Err returns the first error recorded by a chain method.
func (b *builder) Err() error {
	return b.err
}

func (b *builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *builder) checkColumns(columns []string) []string {
	for _, col := range columns {
		if _, ok := b.table.Attribute(col); !ok {
			b.fail(&UnknownColumnError{Table: b.table.Name, Column: col})
		}
	}
	return columns
}

func (b *builder) returning(columns []string) []string {
	if len(columns) == 1 && columns[0] == query.ReturnAll {
		return columns
	}
	return b.checkColumns(columns)
}

func (b *builder) where(conditions []query.Condition, c query.Condition) []query.Condition {
	b.checkColumns([]string{c.ColumnName()})
	if err := query.Validate(c); err != nil {
		b.fail(err)
	}
	return append(conditions, c)
}

func eq(column string, value any) query.Condition {
	return query.Binary{Column: column, Operator: query.Eq, Value: value}
}

// SelectBuilder builds one select.
type SelectBuilder struct {
	builder
	q *query.SelectQuery
}

// Where adds an equality condition.
func (b *SelectBuilder) Where(column string, value any) *SelectBuilder {
	b.q.Conditions = b.where(b.q.Conditions, eq(column, value))
	return b
}

// WhereOp adds a binary condition.
func (b *SelectBuilder) WhereOp(column string, op query.BinaryOperator, value any) *SelectBuilder {
	b.q.Conditions = b.where(b.q.Conditions, query.Binary{Column: column, Operator: op, Value: value})
	return b
}

// WhereIs adds a unary condition.
func (b *SelectBuilder) WhereIs(column string, op query.UnaryOperator) *SelectBuilder {
	b.q.Conditions = b.where(b.q.Conditions, query.Unary{Column: column, Operator: op})
	return b
}

// Limit sets the row limit, replacing any earlier one. Zero means no limit;
// a negative n is recorded as an *InvalidPaginationError.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	if n < 0 {
		b.fail(&InvalidPaginationError{Clause: "limit", Value: n})
		return b
	}
	b.q.Limit = n
	return b
}

// Offset sets the row offset, replacing any earlier one.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	if n < 0 {
		b.fail(&InvalidPaginationError{Clause: "offset", Value: n})
		return b
	}
	b.q.Offset = n
	return b
}

// OrderBy sets the ordering, replacing any earlier one. direction must be
// exactly "asc" or "desc"; anything else is recorded as an
// *query.InvalidOrderDirectionError immediately.
func (b *SelectBuilder) OrderBy(direction string, columns ...string) *SelectBuilder {
	dir, err := query.ParseDirection(direction)
	if err != nil {
		b.fail(err)
		return b
	}
	b.q.Order = &query.Order{Columns: b.checkColumns(columns), Direction: dir}
	return b
}

// Query returns the model built so far.
func (b *SelectBuilder) Query() *query.SelectQuery {
	return b.q
}

// Fetch runs the select.
func (b *SelectBuilder) Fetch(ctx context.Context) ([]query.Row, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.transport.Select(ctx, b.q)
}

// InsertBuilder builds one insert.
type InsertBuilder struct {
	builder
	cmd *query.InsertCommand
}

// Returning sets the returned columns, replacing any earlier set.
func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.cmd.Returning = b.returning(columns)
	return b
}

// Command returns the model built so far.
func (b *InsertBuilder) Command() *query.InsertCommand {
	return b.cmd
}

// Execute runs the insert.
func (b *InsertBuilder) Execute(ctx context.Context) ([]query.Row, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.transport.Insert(ctx, b.cmd)
}

// UpdateBuilder builds one update.
type UpdateBuilder struct {
	builder
	cmd *query.UpdateCommand
}

// Where adds an equality condition.
func (b *UpdateBuilder) Where(column string, value any) *UpdateBuilder {
	b.cmd.Conditions = b.where(b.cmd.Conditions, eq(column, value))
	return b
}

// WhereOp adds a binary condition.
func (b *UpdateBuilder) WhereOp(column string, op query.BinaryOperator, value any) *UpdateBuilder {
	b.cmd.Conditions = b.where(b.cmd.Conditions, query.Binary{Column: column, Operator: op, Value: value})
	return b
}

// WhereIs adds a unary condition.
func (b *UpdateBuilder) WhereIs(column string, op query.UnaryOperator) *UpdateBuilder {
	b.cmd.Conditions = b.where(b.cmd.Conditions, query.Unary{Column: column, Operator: op})
	return b
}

// Returning sets the returned columns, replacing any earlier set.
func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.cmd.Returning = b.returning(columns)
	return b
}

// Command returns the model built so far.
func (b *UpdateBuilder) Command() *query.UpdateCommand {
	return b.cmd
}

// Execute runs the update.
func (b *UpdateBuilder) Execute(ctx context.Context) ([]query.Row, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.transport.Update(ctx, b.cmd)
}

// DeleteBuilder builds one delete.
type DeleteBuilder struct {
	builder
	cmd *query.DeleteCommand
}

// Where adds an equality condition.
func (b *DeleteBuilder) Where(column string, value any) *DeleteBuilder {
	b.cmd.Conditions = b.where(b.cmd.Conditions, eq(column, value))
	return b
}

// WhereOp adds a binary condition.
func (b *DeleteBuilder) WhereOp(column string, op query.BinaryOperator, value any) *DeleteBuilder {
	b.cmd.Conditions = b.where(b.cmd.Conditions, query.Binary{Column: column, Operator: op, Value: value})
	return b
}

// WhereIs adds a unary condition.
func (b *DeleteBuilder) WhereIs(column string, op query.UnaryOperator) *DeleteBuilder {
	b.cmd.Conditions = b.where(b.cmd.Conditions, query.Unary{Column: column, Operator: op})
	return b
}

// Returning sets the returned columns, replacing any earlier set.
func (b *DeleteBuilder) Returning(columns ...string) *DeleteBuilder {
	b.cmd.Returning = b.returning(columns)
	return b
}

// Command returns the model built so far.
func (b *DeleteBuilder) Command() *query.DeleteCommand {
	return b.cmd
}

// Execute runs the delete.
func (b *DeleteBuilder) Execute(ctx context.Context) ([]query.Row, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.transport.Delete(ctx, b.cmd)
}
