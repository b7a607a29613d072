// Package rest is a transport that encodes query models as PostgREST style
// HTTP requests.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/pgschema/pgintrospect/internal/client"
	"github.com/pgschema/pgintrospect/internal/logger"
	"github.com/pgschema/pgintrospect/internal/query"
	"github.com/pgschema/pgintrospect/internal/transport"
)

const (
	headerRequestID      = "X-Request-Id"
	headerPrefer         = "Prefer"
	headerAcceptProfile  = "Accept-Profile"
	headerContentProfile = "Content-Profile"

	returnRepresentation = "return=representation"
)

// RemoteError is an HTTP response with status 400 or above.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("remote error %d (%s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("remote error %d: %s", e.StatusCode, msg)
}

// Transport sends every operation to a PostgREST compatible endpoint.
type Transport struct {
	baseURL *url.URL
	http    *http.Client
	apiKey  string
	schema  string
}

var _ client.Transport = (*Transport)(nil)

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) { t.http = c }
}

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(t *Transport) { t.apiKey = key }
}

// WithSchema selects the exposed schema through profile headers.
func WithSchema(schema string) Option {
	return func(t *Transport) { t.schema = schema }
}

// New creates a transport rooted at baseURL.
func New(baseURL string, opts ...Option) (*Transport, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse remote url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote url %q must be absolute", baseURL)
	}
	t := &Transport{baseURL: u, http: http.DefaultClient}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Select sends GET /<table>.
func (t *Transport) Select(ctx context.Context, q *query.SelectQuery) ([]query.Row, error) {
	params, err := filters(q.Conditions)
	if err != nil {
		return nil, err
	}
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	}
	if q.Order != nil && len(q.Order.Columns) > 0 {
		if _, err := query.ParseDirection(string(q.Order.Direction)); err != nil {
			return nil, err
		}
		parts := make([]string, len(q.Order.Columns))
		for i, col := range q.Order.Columns {
			parts[i] = col + "." + string(q.Order.Direction)
		}
		params.Set("order", strings.Join(parts, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", fmt.Sprint(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", fmt.Sprint(q.Offset))
	}
	return t.rows(ctx, http.MethodGet, q.Table, params, nil, false, transport.OpSelect)
}

// Insert sends POST /<table> with a JSON array of records.
func (t *Transport) Insert(ctx context.Context, cmd *query.InsertCommand) ([]query.Row, error) {
	records := make([]map[string]any, len(cmd.Rows))
	for i, row := range cmd.Rows {
		if len(row) != len(cmd.Columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(cmd.Columns))
		}
		rec := make(map[string]any, len(row))
		for j, col := range cmd.Columns {
			rec[col] = row[j]
		}
		records[i] = rec
	}
	params := url.Values{}
	returning(params, cmd.Returning)
	return t.rows(ctx, http.MethodPost, cmd.Table, params, records, len(cmd.Returning) > 0, transport.OpInsert)
}

// Update sends PATCH /<table> with the filters as query parameters.
func (t *Transport) Update(ctx context.Context, cmd *query.UpdateCommand) ([]query.Row, error) {
	params, err := filters(cmd.Conditions)
	if err != nil {
		return nil, err
	}
	returning(params, cmd.Returning)
	return t.rows(ctx, http.MethodPatch, cmd.Table, params, cmd.Values, len(cmd.Returning) > 0, transport.OpUpdate)
}

// Delete sends DELETE /<table> with the filters as query parameters.
func (t *Transport) Delete(ctx context.Context, cmd *query.DeleteCommand) ([]query.Row, error) {
	params, err := filters(cmd.Conditions)
	if err != nil {
		return nil, err
	}
	returning(params, cmd.Returning)
	return t.rows(ctx, http.MethodDelete, cmd.Table, params, nil, len(cmd.Returning) > 0, transport.OpDelete)
}

// Call sends POST /rpc/<routine> with the arguments keyed by parameter name.
// Names beyond the supplied arguments are left out, so the server applies
// their defaults.
func (t *Transport) Call(ctx context.Context, cmd *query.CallCommand) (any, error) {
	if len(cmd.ParameterNames) < len(cmd.Parameters) {
		return nil, fmt.Errorf("call of %s needs a name for each of its %d arguments", cmd.Procedure, len(cmd.Parameters))
	}
	args := make(map[string]any, len(cmd.Parameters))
	for i, arg := range cmd.Parameters {
		args[cmd.ParameterNames[i]] = arg
	}

	body, err := t.do(ctx, http.MethodPost, "rpc/"+cmd.Procedure, url.Values{}, args, false, transport.OpCall)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", cmd.Procedure, err)
	}
	return result, nil
}

func (t *Transport) rows(ctx context.Context, method, path string, params url.Values, payload any, represent bool, op string) ([]query.Row, error) {
	body, err := t.do(ctx, method, path, params, payload, represent, op)
	if err != nil {
		return nil, err
	}
	rows := []query.Row{}
	if len(bytes.TrimSpace(body)) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return rows, nil
}

func (t *Transport) do(ctx context.Context, method, path string, params url.Values, payload any, represent bool, op string) ([]byte, error) {
	u := t.baseURL.JoinPath(path)
	u.RawQuery = params.Encode()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}
	requestID := uuid.New().String()
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if represent {
		req.Header.Set(headerPrefer, returnRepresentation)
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	if t.schema != "" {
		if method == http.MethodGet {
			req.Header.Set(headerAcceptProfile, t.schema)
		} else {
			req.Header.Set(headerContentProfile, t.schema)
		}
	}

	log := logger.Get()
	log.Debug("Sending request", "operation", op, "method", method, "url", u.String(), "request_id", requestID)

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to %s %s: %w", op, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", op, err)
	}
	log.Debug("Received response", "operation", op, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, remoteError(resp.StatusCode, body, requestID)
	}
	return body, nil
}

func remoteError(status int, body []byte, requestID string) error {
	e := &RemoteError{StatusCode: status, RequestID: requestID}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Code = payload.Code
		e.Message = payload.Message
	} else {
		e.Message = strings.TrimSpace(string(body))
	}
	return e
}

func returning(params url.Values, columns []string) {
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == query.ReturnAll) {
		return
	}
	params.Set("select", strings.Join(columns, ","))
}
