package selectcmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pgschema/pgintrospect/internal/ir"
	"github.com/pgschema/pgintrospect/internal/query"
)

// parseWhere reads one --where expression: "col=v", "col>v", "col>=v",
// "col<v", "col<=v", "col is null" or "col is not null". The value is
// converted according to the column's resolved type.
func parseWhere(table *ir.Table, expr string) (query.Condition, error) {
	expr = strings.TrimSpace(expr)
	lower := strings.ToLower(expr)

	for _, op := range []query.UnaryOperator{query.IsNotNull, query.IsNull} {
		if col, ok := strings.CutSuffix(lower, " "+string(op)); ok {
			return query.Unary{Column: strings.TrimSpace(expr[:len(col)]), Operator: op}, nil
		}
	}

	idx := strings.IndexAny(expr, "<>=")
	if idx <= 0 {
		return nil, fmt.Errorf("invalid --where %q: expected <column><op><value> or <column> is [not] null", expr)
	}
	end := idx
	for end < len(expr) && strings.ContainsRune("<>=", rune(expr[end])) {
		end++
	}

	column := strings.TrimSpace(expr[:idx])
	_, op, err := query.ParseOperator(expr[idx:end])
	if err != nil || op == "" {
		return nil, fmt.Errorf("invalid --where %q: %w", expr, &query.InvalidOperatorError{Operator: expr[idx:end]})
	}

	raw := strings.TrimSpace(expr[end:])
	value, err := convertValue(table, column, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --where %q: %w", expr, err)
	}
	return query.Binary{Column: column, Operator: op, Value: value}, nil
}

// convertValue leaves unknown columns as strings; the client reports them.
func convertValue(table *ir.Table, column, raw string) (any, error) {
	attr, ok := table.Attribute(column)
	if !ok {
		return raw, nil
	}
	switch attr.Type.(type) {
	case ir.Number:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s expects a number, got %q", column, raw)
		}
		return f, nil
	case ir.Boolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("column %s expects a boolean, got %q", column, raw)
		}
		return b, nil
	case ir.Date:
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("column %s expects a date, got %q", column, raw)
	default:
		return raw, nil
	}
}
