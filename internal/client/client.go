// Package client is a fluent, schema-checked builder over a Transport.
//
// Builders mutate themselves and return the same pointer from every chain
// method. They are not safe for concurrent use and are meant to be consumed
// by exactly one terminal call; start a new chain for every operation.
package client

import (
	"context"

	"github.com/pgschema/pgintrospect/internal/ir"
	"github.com/pgschema/pgintrospect/internal/query"
)

// Transport executes query models.
type Transport interface {
	Select(ctx context.Context, q *query.SelectQuery) ([]query.Row, error)
	Insert(ctx context.Context, cmd *query.InsertCommand) ([]query.Row, error)
	Update(ctx context.Context, cmd *query.UpdateCommand) ([]query.Row, error)
	Delete(ctx context.Context, cmd *query.DeleteCommand) ([]query.Row, error)
	Call(ctx context.Context, cmd *query.CallCommand) (any, error)
}

// Client exposes the tables and routines of a resolved schema.
type Client struct {
	schema    *ir.Schema
	transport Transport
}

// New creates a client over schema that executes through transport.
func New(schema *ir.Schema, transport Transport) *Client {
	return &Client{schema: schema, transport: transport}
}

// Schema returns the schema the client was built from.
func (c *Client) Schema() *ir.Schema {
	return c.schema
}

// Table returns a handle for the named table or view.
func (c *Client) Table(name string) (*Table, error) {
	t, ok := c.schema.Tables[name]
	if !ok {
		return nil, &UnknownTableError{Name: name}
	}
	return &Table{client: c, table: t}, nil
}

// Routine returns a handle for the named routine.
func (c *Client) Routine(name string) (*Routine, error) {
	r, ok := c.schema.Routines[name]
	if !ok {
		return nil, &UnknownRoutineError{Name: name}
	}
	return &Routine{client: c, routine: r}, nil
}

// Routine is a callable handle for one routine.
type Routine struct {
	client  *Client
	routine *ir.Routine
}

// Call forwards args positionally to the routine. Trailing parameters may be
// left out so that their DEFAULT applies.
func (r *Routine) Call(ctx context.Context, args ...any) (any, error) {
	names := r.routine.ParameterNames()
	if len(args) > len(names) {
		return nil, &ArgumentCountError{Routine: r.routine.Name, Want: len(names), Got: len(args)}
	}
	return r.client.transport.Call(ctx, &query.CallCommand{
		Procedure:      r.routine.Name,
		Parameters:     args,
		ParameterNames: names[:len(args)],
	})
}
