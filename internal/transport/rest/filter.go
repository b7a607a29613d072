package rest

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pgschema/pgintrospect/internal/query"
	"github.com/pgschema/pgintrospect/internal/render"
)

var binaryOperators = map[query.BinaryOperator]string{
	query.Eq:  "eq",
	query.Gt:  "gt",
	query.Lt:  "lt",
	query.Gte: "gte",
	query.Lte: "lte",
}

var unaryOperators = map[query.UnaryOperator]string{
	query.IsNull:    "is.null",
	query.IsNotNull: "not.is.null",
}

// reservedParameters are the query parameters this transport sets itself.
var reservedParameters = map[string]bool{
	"select": true,
	"order":  true,
	"limit":  true,
	"offset": true,
}

// ReservedParameterError reports a filter on a column whose name is also a
// request parameter, which the endpoint would read as that parameter.
type ReservedParameterError struct {
	Column string
}

func (e *ReservedParameterError) Error() string {
	return fmt.Sprintf("cannot filter on column %q over REST: the name is a reserved query parameter", e.Column)
}

// filters encodes conditions as column=op.value parameters. Several
// conditions on one column become repeated parameters, which the server
// combines with "and".
func filters(conditions []query.Condition) (url.Values, error) {
	params := url.Values{}
	for _, c := range conditions {
		if err := query.Validate(c); err != nil {
			return nil, err
		}
		if reservedParameters[c.ColumnName()] {
			return nil, &ReservedParameterError{Column: c.ColumnName()}
		}
		switch c := c.(type) {
		case query.Unary:
			params.Add(c.Column, unaryOperators[c.Operator])
		case query.Binary:
			v, err := filterValue(c.Value)
			if err != nil {
				return nil, err
			}
			params.Add(c.Column, binaryOperators[c.Operator]+"."+v)
		}
	}
	return params, nil
}

func filterValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "null", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	default:
		return "", &render.UnsupportedValueError{Value: v}
	}
}
