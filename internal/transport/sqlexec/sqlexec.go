// Package sqlexec is a transport that renders query models to parameterized
// SQL and runs them on a database/sql connection.
package sqlexec

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgschema/pgintrospect/internal/client"
	"github.com/pgschema/pgintrospect/internal/logger"
	"github.com/pgschema/pgintrospect/internal/query"
	"github.com/pgschema/pgintrospect/internal/render"
	"github.com/pgschema/pgintrospect/internal/transport"
)

// Querier is the subset of *sql.DB and *sql.Conn the transport needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Transport executes every operation directly.
type Transport struct {
	db       Querier
	renderer *render.Renderer
}

var _ client.Transport = (*Transport)(nil)

// New creates a transport over db. Table and routine names are qualified
// with schema unless it is empty.
func New(db Querier, schema string) *Transport {
	return &Transport{
		db:       db,
		renderer: render.New(render.Parameterized(), render.WithSchema(schema)),
	}
}

// Select runs q.
func (t *Transport) Select(ctx context.Context, q *query.SelectQuery) ([]query.Row, error) {
	stmt, err := t.renderer.Select(q)
	if err != nil {
		return nil, err
	}
	return t.query(ctx, stmt, transport.OpSelect, q.Table)
}

// Insert runs cmd as one multi-row insert.
func (t *Transport) Insert(ctx context.Context, cmd *query.InsertCommand) ([]query.Row, error) {
	stmt, err := t.renderInsert(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to render insert into %s: %w", cmd.Table, err)
	}
	return t.query(ctx, stmt, transport.OpInsert, cmd.Table)
}

// Update runs cmd.
func (t *Transport) Update(ctx context.Context, cmd *query.UpdateCommand) ([]query.Row, error) {
	stmt, err := t.renderUpdate(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to render update of %s: %w", cmd.Table, err)
	}
	return t.query(ctx, stmt, transport.OpUpdate, cmd.Table)
}

// Delete runs cmd.
func (t *Transport) Delete(ctx context.Context, cmd *query.DeleteCommand) ([]query.Row, error) {
	stmt, err := t.renderDelete(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to render delete from %s: %w", cmd.Table, err)
	}
	return t.query(ctx, stmt, transport.OpDelete, cmd.Table)
}

// Call selects from the routine. A single row with a single column is
// returned as that value; any other result is returned as rows.
func (t *Transport) Call(ctx context.Context, cmd *query.CallCommand) (any, error) {
	stmt, err := t.renderCall(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to render call of %s: %w", cmd.Procedure, err)
	}
	rows, err := t.query(ctx, stmt, transport.OpCall, cmd.Procedure)
	if err != nil {
		return nil, err
	}
	if len(rows) == 1 && len(rows[0]) == 1 {
		for _, v := range rows[0] {
			return v, nil
		}
	}
	return rows, nil
}

func (t *Transport) query(ctx context.Context, stmt render.Statement, op, target string) ([]query.Row, error) {
	isDebug := logger.IsDebug()
	if isDebug {
		logger.Get().Debug("Executing SQL", "operation", op, "target", target, "sql", stmt.SQL, "args", len(stmt.Args))
	}

	rows, err := t.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		if isDebug {
			logger.Get().Debug("SQL execution failed", "operation", op, "target", target, "error", err)
		}
		return nil, fmt.Errorf("failed to %s %s: %w", op, target, err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s result for %s: %w", op, target, err)
	}
	if isDebug {
		logger.Get().Debug("SQL execution succeeded", "operation", op, "target", target, "rows", len(result))
	}
	return result, nil
}

func scanRows(rows *sql.Rows) ([]query.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []query.Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(query.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
