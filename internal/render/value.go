package render

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lib/pq"
)

// UnsupportedValueError reports a Go value that has no SQL literal form.
type UnsupportedValueError struct {
	Value  any
	Reason string
}

func (e *UnsupportedValueError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported value of type %T: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("unsupported value of type %T", e.Value)
}

// QuoteIdentifier quotes a column, table or schema name.
func QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

// FormatValue renders v as a SQL literal. Strings are escaped with
// pq.QuoteLiteral; slices become ARRAY[...] constructors.
func FormatValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "null", nil
	case string:
		if err := checkText(v); err != nil {
			return "", err
		}
		return quoteLiteral(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case time.Time:
		return quoteLiteral(v.Format(time.RFC3339Nano)), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// []byte has no unambiguous literal form
			return "", &UnsupportedValueError{Value: v}
		}
		elems := make([]string, rv.Len())
		for i := range elems {
			s, err := FormatValue(rv.Index(i).Interface())
			if err != nil {
				return "", err
			}
			elems[i] = s
		}
		return "ARRAY[" + strings.Join(elems, ", ") + "]", nil
	}

	return "", &UnsupportedValueError{Value: v}
}

// CheckValue reports whether v can be rendered, without rendering it.
func CheckValue(v any) error {
	_, err := FormatValue(v)
	return err
}

// checkText rejects strings PostgreSQL text cannot hold.
func checkText(s string) error {
	switch {
	case strings.ContainsRune(s, 0):
		return &UnsupportedValueError{Value: s, Reason: "contains a NUL byte"}
	case !utf8.ValidString(s):
		return &UnsupportedValueError{Value: s, Reason: "invalid UTF-8"}
	}
	return nil
}

func formatFloat(f float64, bits int) (string, error) {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	switch s {
	case "NaN", "+Inf", "-Inf":
		return quoteLiteral(strings.TrimPrefix(s, "+")), nil
	}
	return s, nil
}

// quoteLiteral trims the leading space pq adds before E'' literals.
func quoteLiteral(s string) string {
	return strings.TrimSpace(pq.QuoteLiteral(s))
}
