// Package transport holds what every transport implementation shares.
package transport

import (
	"context"
	"fmt"

	"github.com/pgschema/pgintrospect/internal/query"
)

// Operation names used in errors and logs.
const (
	OpSelect = "select"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
	OpCall   = "call"
)

// NotImplementedError is returned by transports for operations they do not
// back.
type NotImplementedError struct {
	Transport string
	Operation string
}

func (e *NotImplementedError) Error() string {
	if e.Transport == "" {
		return fmt.Sprintf("%s is not implemented", e.Operation)
	}
	return fmt.Sprintf("%s is not implemented by the %s transport", e.Operation, e.Transport)
}

// Unimplemented rejects every operation. Embed it to build a transport that
// backs only some operations.
type Unimplemented struct {
	Name string
}

func (u Unimplemented) Select(context.Context, *query.SelectQuery) ([]query.Row, error) {
	return nil, u.err(OpSelect)
}

func (u Unimplemented) Insert(context.Context, *query.InsertCommand) ([]query.Row, error) {
	return nil, u.err(OpInsert)
}

func (u Unimplemented) Update(context.Context, *query.UpdateCommand) ([]query.Row, error) {
	return nil, u.err(OpUpdate)
}

func (u Unimplemented) Delete(context.Context, *query.DeleteCommand) ([]query.Row, error) {
	return nil, u.err(OpDelete)
}

func (u Unimplemented) Call(context.Context, *query.CallCommand) (any, error) {
	return nil, u.err(OpCall)
}

func (u Unimplemented) err(op string) error {
	return &NotImplementedError{Transport: u.Name, Operation: op}
}
