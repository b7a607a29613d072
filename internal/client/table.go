package client

import (
	"fmt"

	"github.com/pgschema/pgintrospect/internal/ir"
	"github.com/pgschema/pgintrospect/internal/query"
	"github.com/pgschema/pgintrospect/internal/utils"
)

// Table starts builder chains for one table.
type Table struct {
	client *Client
	table  *ir.Table
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.table.Name
}

// Select starts a select of the given columns. No columns, or the single
// column "*", selects every column.
func (t *Table) Select(columns ...string) *SelectBuilder {
	b := &SelectBuilder{builder: t.newBuilder(), q: &query.SelectQuery{Table: t.table.Name}}
	if len(columns) > 0 && !(len(columns) == 1 && columns[0] == query.ReturnAll) {
		b.q.Columns = b.checkColumns(columns)
	}
	return b
}

// Insert starts an insert of positional rows. Every row must hold one value
// per column.
func (t *Table) Insert(columns []string, rows ...[]any) *InsertBuilder {
	b := &InsertBuilder{builder: t.newBuilder()}
	b.cmd = &query.InsertCommand{Table: t.table.Name, Columns: b.checkColumns(columns), Rows: rows}
	if len(columns) == 0 {
		b.fail(fmt.Errorf("insert into %q needs at least one column", t.table.Name))
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			b.fail(fmt.Errorf("insert into %q: row %d has %d values, want %d", t.table.Name, i, len(row), len(columns)))
			break
		}
	}
	return b
}

// InsertRecords starts an insert of keyed records. The column list is every
// column named by at least one record, in table order; records lacking a
// column insert null for it.
func (t *Table) InsertRecords(records ...query.Row) *InsertBuilder {
	present := make(map[string]bool)
	for _, rec := range records {
		for col := range rec {
			present[col] = true
		}
	}

	var columns []string
	for _, attr := range t.table.Attributes {
		if present[attr.Name] {
			columns = append(columns, attr.Name)
			delete(present, attr.Name)
		}
	}

	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = rec[col]
		}
		rows[i] = row
	}

	b := t.Insert(columns, rows...)
	// whatever is left in present is not a column of the table
	for _, col := range utils.SortedKeys(present) {
		b.fail(&UnknownColumnError{Table: t.table.Name, Column: col})
	}
	return b
}

// Update starts an update assigning values.
func (t *Table) Update(values query.Row) *UpdateBuilder {
	b := &UpdateBuilder{builder: t.newBuilder(), cmd: &query.UpdateCommand{Table: t.table.Name, Values: values}}
	if len(values) == 0 {
		b.fail(fmt.Errorf("update of %q needs at least one value", t.table.Name))
	}
	b.checkColumns(utils.SortedKeys(values))
	return b
}

// Delete starts a delete.
func (t *Table) Delete() *DeleteBuilder {
	return &DeleteBuilder{builder: t.newBuilder(), cmd: &query.DeleteCommand{Table: t.table.Name}}
}

func (t *Table) newBuilder() builder {
	return builder{table: t.table, transport: t.client.transport}
}
