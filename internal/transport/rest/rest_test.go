package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgschema/pgintrospect/internal/query"
)

type captured struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
}

func newServer(t *testing.T, status int, response string) (*Transport, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.Query()
		got.header = r.Header.Clone()
		got.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	tr, err := New(srv.URL+"/api/", WithAPIKey("secret"), WithSchema("app"))
	require.NoError(t, err)
	return tr, got
}

func TestSelect(t *testing.T) {
	tr, got := newServer(t, http.StatusOK, `[{"id":1,"name":"ada"}]`)

	rows, err := tr.Select(context.Background(), &query.SelectQuery{
		Table:   "users",
		Columns: []string{"id", "name"},
		Conditions: []query.Condition{
			query.Binary{Column: "status", Operator: query.Eq, Value: "active"},
			query.Binary{Column: "age", Operator: query.Gte, Value: 18},
			query.Binary{Column: "age", Operator: query.Lt, Value: 65},
			query.Unary{Column: "deleted_at", Operator: query.IsNull},
			query.Unary{Column: "email", Operator: query.IsNotNull},
		},
		Limit:  10,
		Offset: 20,
		Order:  &query.Order{Columns: []string{"name", "id"}, Direction: query.Desc},
	})
	require.NoError(t, err)
	assert.Equal(t, []query.Row{{"id": float64(1), "name": "ada"}}, rows)

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/users", got.path)
	assert.Equal(t, url.Values{
		"select":     {"id,name"},
		"status":     {"eq.active"},
		"age":        {"gte.18", "lt.65"},
		"deleted_at": {"is.null"},
		"email":      {"not.is.null"},
		"order":      {"name.desc,id.desc"},
		"limit":      {"10"},
		"offset":     {"20"},
	}, got.query)
	assert.Equal(t, "Bearer secret", got.header.Get("Authorization"))
	assert.Equal(t, "app", got.header.Get("Accept-Profile"))
	assert.Empty(t, got.header.Get("Prefer"))
	_, err = uuid.Parse(got.header.Get("X-Request-Id"))
	assert.NoError(t, err, "request id should be a uuid")
}

func TestInsert(t *testing.T) {
	tr, got := newServer(t, http.StatusCreated, `[{"id":1},{"id":2}]`)

	rows, err := tr.Insert(context.Background(), &query.InsertCommand{
		Table:     "users",
		Columns:   []string{"id", "name"},
		Rows:      [][]any{{1, "ada"}, {2, nil}},
		Returning: []string{"id"},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "return=representation", got.header.Get("Prefer"))
	assert.Equal(t, "app", got.header.Get("Content-Profile"))
	assert.Equal(t, url.Values{"select": {"id"}}, got.query)
	assert.JSONEq(t, `[{"id":1,"name":"ada"},{"id":2,"name":null}]`, string(got.body))
}

func TestUpdateWithoutReturning(t *testing.T) {
	tr, got := newServer(t, http.StatusNoContent, ``)

	rows, err := tr.Update(context.Background(), &query.UpdateCommand{
		Table:      "users",
		Values:     query.Row{"status": "gone"},
		Conditions: []query.Condition{query.Binary{Column: "id", Operator: query.Eq, Value: 7}},
	})
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, url.Values{"id": {"eq.7"}}, got.query)
	assert.Empty(t, got.header.Get("Prefer"))
	assert.JSONEq(t, `{"status":"gone"}`, string(got.body))
}

func TestDeleteReturningAll(t *testing.T) {
	tr, got := newServer(t, http.StatusOK, `[{"id":3}]`)

	rows, err := tr.Delete(context.Background(), &query.DeleteCommand{
		Table:      "users",
		Conditions: []query.Condition{query.Binary{Column: "id", Operator: query.Lte, Value: 3}},
		Returning:  []string{query.ReturnAll},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, url.Values{"id": {"lte.3"}}, got.query)
	assert.Equal(t, "return=representation", got.header.Get("Prefer"))
	assert.Empty(t, got.body)
}

func TestCall(t *testing.T) {
	tr, got := newServer(t, http.StatusOK, `3`)

	result, err := tr.Call(context.Background(), &query.CallCommand{
		Procedure:      "add",
		Parameters:     []any{1, 2},
		ParameterNames: []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(3), result)
	assert.Equal(t, "/api/rpc/add", got.path)

	var args map[string]any
	require.NoError(t, json.Unmarshal(got.body, &args))
	assert.Equal(t, map[string]any{"a": float64(1), "b": float64(2)}, args)

	_, err = tr.Call(context.Background(), &query.CallCommand{Procedure: "add", Parameters: []any{1}})
	assert.Error(t, err, "arguments without names cannot be sent")

	// a trailing defaulted parameter is omitted from the body
	_, err = tr.Call(context.Background(), &query.CallCommand{
		Procedure:      "add",
		Parameters:     []any{1},
		ParameterNames: []string{"a", "b"},
	})
	require.NoError(t, err)
	args = nil
	require.NoError(t, json.Unmarshal(got.body, &args))
	assert.Equal(t, map[string]any{"a": float64(1)}, args)
}

func TestRemoteError(t *testing.T) {
	tr, _ := newServer(t, http.StatusNotFound, `{"code":"42P01","message":"relation \"ghosts\" does not exist"}`)

	_, err := tr.Select(context.Background(), &query.SelectQuery{Table: "ghosts"})
	var remote *RemoteError
	require.True(t, errors.As(err, &remote), "expected *RemoteError, got %v", err)
	assert.Equal(t, http.StatusNotFound, remote.StatusCode)
	assert.Equal(t, "42P01", remote.Code)
	assert.Contains(t, remote.Message, "ghosts")
	assert.NotEmpty(t, remote.RequestID)
}

func TestInvalidInput(t *testing.T) {
	tr, _ := newServer(t, http.StatusOK, `[]`)

	_, err := tr.Select(context.Background(), &query.SelectQuery{
		Table: "users",
		Order: &query.Order{Columns: []string{"id"}, Direction: "sideways"},
	})
	var dirErr *query.InvalidOrderDirectionError
	assert.True(t, errors.As(err, &dirErr))

	_, err = tr.Select(context.Background(), &query.SelectQuery{
		Table:      "users",
		Conditions: []query.Condition{query.Binary{Column: "id", Operator: query.Eq, Value: struct{}{}}},
	})
	assert.Error(t, err)

	_, err = New("not a url")
	assert.Error(t, err)
}

func TestReservedColumnFilters(t *testing.T) {
	tr, got := newServer(t, http.StatusOK, `[]`)
	ctx := context.Background()

	for _, col := range []string{"select", "order", "limit", "offset"} {
		t.Run(col, func(t *testing.T) {
			where := []query.Condition{query.Binary{Column: col, Operator: query.Eq, Value: 1}}

			_, err := tr.Select(ctx, &query.SelectQuery{Table: "items", Conditions: where, Limit: 10})
			var reserved *ReservedParameterError
			require.True(t, errors.As(err, &reserved), "expected *ReservedParameterError, got %v", err)
			assert.Equal(t, col, reserved.Column)

			_, err = tr.Update(ctx, &query.UpdateCommand{Table: "items", Values: query.Row{"name": "x"}, Conditions: where})
			assert.True(t, errors.As(err, &reserved))

			_, err = tr.Delete(ctx, &query.DeleteCommand{Table: "items", Conditions: where})
			assert.True(t, errors.As(err, &reserved))
		})
	}
	assert.Empty(t, got.method, "no request should reach the server")
}
