package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds every call to the hosted backend.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// RESTConfig configures a RESTBackend.
type RESTConfig struct {
	BaseURL    string // project URL; tables live under /rest/v1/
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client // optional; overrides Timeout
}

// RESTBackend talks to a PostgREST-style HTTP API.
type RESTBackend struct {
	base   *url.URL
	apiKey string
	client *http.Client
}

// Compile-time check that *RESTBackend satisfies Backend.
var _ Backend = (*RESTBackend)(nil)

// NewRESTBackend validates the config and builds a backend.
// PRE: cfg.BaseURL is an absolute http(s) URL
// POST: Returns a backend whose requests carry the API key headers
func NewRESTBackend(cfg RESTConfig) (*RESTBackend, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", cfg.BaseURL)
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &RESTBackend{base: u, apiKey: cfg.APIKey, client: client}, nil
}

// Select fetches rows from table.
// PRE: table is a valid identifier
// POST: Returns matching rows in the requested order; never nil on success
func (b *RESTBackend) Select(ctx context.Context, table string, q Query) ([]Row, error) {
	params := url.Values{}
	params.Set("select", "*")
	if err := encodeFilters(params, q.Filters); err != nil {
		return nil, err
	}
	if q.OrderBy != "" {
		if !ValidIdentifier(q.OrderBy) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, q.OrderBy)
		}
		dir := "asc"
		if q.Descending {
			dir = "desc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	var rows []Row
	if err := b.do(ctx, http.MethodGet, table, params, nil, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

// Insert creates one row and returns it as stored.
// PRE: table is a valid identifier, values is non-empty
// POST: Returns the created row including server-assigned columns
func (b *RESTBackend) Insert(ctx context.Context, table string, values Row) (Row, error) {
	var rows []Row
	if err := b.do(ctx, http.MethodPost, table, nil, values, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", table)
	}
	return rows[0], nil
}

// Update patches every row matching filters and returns the updated rows.
// PRE: at least one filter
// POST: Returns updated rows; empty slice when nothing matched
func (b *RESTBackend) Update(ctx context.Context, table string, values Row, filters ...Filter) ([]Row, error) {
	if len(filters) == 0 {
		return nil, ErrUnfilteredMutation
	}
	params := url.Values{}
	if err := encodeFilters(params, filters); err != nil {
		return nil, err
	}
	var rows []Row
	if err := b.do(ctx, http.MethodPatch, table, params, values, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

// Delete removes every row matching filters in one request.
// PRE: at least one filter
// POST: Matching rows removed at the remote store
func (b *RESTBackend) Delete(ctx context.Context, table string, filters ...Filter) error {
	if len(filters) == 0 {
		return ErrUnfilteredMutation
	}
	params := url.Values{}
	if err := encodeFilters(params, filters); err != nil {
		return err
	}
	return b.do(ctx, http.MethodDelete, table, params, nil, nil)
}

// do sends one request and decodes the JSON answer into out (when non-nil).
func (b *RESTBackend) do(ctx context.Context, method, table string, params url.Values, body any, out any) error {
	if !ValidIdentifier(table) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	endpoint := b.base.JoinPath("rest", "v1", table)
	if len(params) > 0 {
		endpoint.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", table, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, table, err)
	}
	req.Header.Set("apikey", b.apiKey)
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()
	slog.Debug("remote_call", "method", method, "table", table, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decode %s response: %w", table, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e := &Error{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, e); err != nil || e.Message == "" {
		e.Message = strings.TrimSpace(string(raw))
		if e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
	}
	return e
}

// encodeFilters writes PostgREST filter parameters: col=eq.v, col=in.(a,b).
func encodeFilters(params url.Values, filters []Filter) error {
	if err := validateFilters(filters); err != nil {
		return err
	}
	for _, f := range filters {
		switch f.Op {
		case OpIn:
			values, _ := f.Value.([]any)
			parts := make([]string, len(values))
			for i, v := range values {
				parts[i] = quoteValue(formatValue(v))
			}
			params.Add(f.Column, "in.("+strings.Join(parts, ",")+")")
		case OpEq:
			if f.Value == nil {
				params.Add(f.Column, "is.null")
				continue
			}
			params.Add(f.Column, "eq."+formatValue(f.Value))
		case OpNeq:
			if f.Value == nil {
				params.Add(f.Column, "not.is.null")
				continue
			}
			params.Add(f.Column, "neq."+formatValue(f.Value))
		default:
			params.Add(f.Column, string(f.Op)+"."+formatValue(f.Value))
		}
	}
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// quoteValue double-quotes list members containing PostgREST reserved characters.
func quoteValue(s string) string {
	if !strings.ContainsAny(s, ",()\"\\: ") {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
