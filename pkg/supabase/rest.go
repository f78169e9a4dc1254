package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Rest is a PostgREST client. All calls run with the service role key;
// row-level authorization happens in the service layer before any
// query is issued.
type Rest struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// From starts a query against a table.
func (r *Rest) From(table string) *Query {
	return &Query{
		rest:   r,
		table:  table,
		params: url.Values{},
	}
}

// Query accumulates PostgREST query parameters and executes them with
// one of the terminal methods (Get, Insert, Update, Delete, Count).
type Query struct {
	rest    *Rest
	table   string
	params  url.Values
	headers map[string]string
	single  bool
}

// Select restricts the returned columns, "*" by default.
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq adds an equality filter.
func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("eq.%v", value))
	return q
}

// Neq adds an inequality filter.
func (q *Query) Neq(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("neq.%v", value))
	return q
}

// Is filters on SQL IS, for null and boolean checks.
func (q *Query) Is(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("is.%v", value))
	return q
}

// In filters on membership in values.
func (q *Query) In(column string, values []string) *Query {
	q.params.Add(column, "in.("+strings.Join(values, ",")+")")
	return q
}

// ILike adds a case-insensitive pattern filter, * as wildcard.
func (q *Query) ILike(column, pattern string) *Query {
	q.params.Add(column, "ilike."+pattern)
	return q
}

// Or adds a disjunction of raw PostgREST filters,
// e.g. Or("first_name.ilike.*ali*,last_name.ilike.*ali*").
func (q *Query) Or(filters string) *Query {
	q.params.Add("or", "("+filters+")")
	return q
}

// Gte adds a greater-or-equal filter.
func (q *Query) Gte(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("gte.%v", value))
	return q
}

// Lte adds a less-or-equal filter.
func (q *Query) Lte(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("lte.%v", value))
	return q
}

// Order sorts the result by column.
func (q *Query) Order(column string, desc bool) *Query {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	q.params.Add("order", column+"."+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Offset skips the first n rows.
func (q *Query) Offset(n int) *Query {
	q.params.Set("offset", strconv.Itoa(n))
	return q
}

// Single asks PostgREST for exactly one row. Zero or multiple matches
// become an error (PGRST116 maps to ErrNotFound).
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Get executes a select and decodes the rows (or row, with Single)
// into out.
func (q *Query) Get(ctx context.Context, out any) error {
	return q.do(ctx, http.MethodGet, nil, out)
}

// Insert posts one row or a slice of rows. When out is non-nil the
// created representation is returned into it.
func (q *Query) Insert(ctx context.Context, row, out any) error {
	q.setHeader("Prefer", preferReturn(out))
	return q.do(ctx, http.MethodPost, row, out)
}

// Upsert inserts rows, merging on conflict.
func (q *Query) Upsert(ctx context.Context, row, out any) error {
	q.setHeader("Prefer", "resolution=merge-duplicates,"+preferReturn(out))
	return q.do(ctx, http.MethodPost, row, out)
}

// Update patches every row matching the filters.
func (q *Query) Update(ctx context.Context, patch, out any) error {
	q.setHeader("Prefer", preferReturn(out))
	return q.do(ctx, http.MethodPatch, patch, out)
}

// Delete removes every row matching the filters.
func (q *Query) Delete(ctx context.Context) error {
	return q.do(ctx, http.MethodDelete, nil, nil)
}

// Count returns the number of rows matching the filters without
// fetching them.
func (q *Query) Count(ctx context.Context) (int, error) {
	q.setHeader("Prefer", "count=exact")
	q.Limit(1)

	req, err := q.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return 0, err
	}

	res, err := q.rest.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return 0, parseRestError(res)
	}

	// Content-Range: 0-0/42
	cr := res.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 0, fmt.Errorf("%w: missing content range", ErrUnexpectedResponse)
	}
	total, err := strconv.Atoi(cr[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("%w: bad content range %q", ErrUnexpectedResponse, cr)
	}
	return total, nil
}

func (q *Query) setHeader(key, value string) {
	if q.headers == nil {
		q.headers = map[string]string{}
	}
	q.headers[key] = value
}

func preferReturn(out any) string {
	if out == nil {
		return "return=minimal"
	}
	return "return=representation"
}

func (q *Query) newRequest(ctx context.Context, method string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	endpoint := q.rest.baseURL + "/" + q.table
	if encoded := q.params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", q.rest.serviceKey)
	req.Header.Set("Authorization", "Bearer "+q.rest.serviceKey)
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	for k, v := range q.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (q *Query) do(ctx context.Context, method string, body, out any) error {
	req, err := q.newRequest(ctx, method, body)
	if err != nil {
		return err
	}

	res, err := q.rest.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseRestError(res)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func parseRestError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))

	apiErr := &APIError{Status: res.StatusCode}
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" && apiErr.Code == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = res.Status
	}
	return apiErr
}
