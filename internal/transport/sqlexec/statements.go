package sqlexec

import (
	"fmt"

	"github.com/pgschema/pgintrospect/internal/query"
	"github.com/pgschema/pgintrospect/internal/render"
	"github.com/pgschema/pgintrospect/internal/utils"
)

// renderInsert renders
//
//	insert into <table> (<columns>) values ($1, $2), ($3, $4) [returning ...]
func (t *Transport) renderInsert(cmd *query.InsertCommand) (render.Statement, error) {
	if len(cmd.Columns) == 0 || len(cmd.Rows) == 0 {
		return render.Statement{}, fmt.Errorf("insert needs at least one column and one row")
	}

	b := t.renderer.Buffer()
	b.Keyword("insert into ").Table(t.renderer.Schema(), cmd.Table)
	b.Keyword(" (").Idents(cmd.Columns).Keyword(") values ")
	for i, row := range cmd.Rows {
		if len(row) != len(cmd.Columns) {
			return render.Statement{}, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(cmd.Columns))
		}
		if i > 0 {
			b.Keyword(", ")
		}
		b.Keyword("(")
		for j, v := range row {
			if j > 0 {
				b.Keyword(", ")
			}
			if err := b.Value(v); err != nil {
				return render.Statement{}, err
			}
		}
		b.Keyword(")")
	}
	b.Returning(cmd.Returning)
	return b.Statement(), nil
}

// renderUpdate assigns columns in name order so the statement is stable.
func (t *Transport) renderUpdate(cmd *query.UpdateCommand) (render.Statement, error) {
	if len(cmd.Values) == 0 {
		return render.Statement{}, fmt.Errorf("update needs at least one value")
	}

	b := t.renderer.Buffer()
	b.Keyword("update ").Table(t.renderer.Schema(), cmd.Table).Keyword(" set ")
	for i, col := range utils.SortedKeys(cmd.Values) {
		if i > 0 {
			b.Keyword(", ")
		}
		b.Ident(col).Keyword(" = ")
		if err := b.Value(cmd.Values[col]); err != nil {
			return render.Statement{}, err
		}
	}
	if err := b.Where(cmd.Conditions); err != nil {
		return render.Statement{}, err
	}
	b.Returning(cmd.Returning)
	return b.Statement(), nil
}

func (t *Transport) renderDelete(cmd *query.DeleteCommand) (render.Statement, error) {
	b := t.renderer.Buffer()
	b.Keyword("delete from ").Table(t.renderer.Schema(), cmd.Table)
	if err := b.Where(cmd.Conditions); err != nil {
		return render.Statement{}, err
	}
	b.Returning(cmd.Returning)
	return b.Statement(), nil
}

// renderCall renders
//
//	select * from <routine>($1, $2)
func (t *Transport) renderCall(cmd *query.CallCommand) (render.Statement, error) {
	b := t.renderer.Buffer()
	b.Keyword("select * from ").Table(t.renderer.Schema(), cmd.Procedure).Keyword("(")
	for i, v := range cmd.Parameters {
		if i > 0 {
			b.Keyword(", ")
		}
		if err := b.Value(v); err != nil {
			return render.Statement{}, err
		}
	}
	b.Keyword(")")
	return b.Statement(), nil
}
