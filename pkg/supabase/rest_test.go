package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/biointellect/hospital_backend/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(config.SupabaseConfig{
		URL:            srv.URL,
		AnonKey:        "anon-key",
		ServiceRoleKey: "service-key",
		TimeoutSeconds: 5,
	})
	return c, srv
}

func TestRestGetBuildsQuery(t *testing.T) {
	var gotPath, gotQuery, gotAccept string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		if r.Header.Get("apikey") != "service-key" {
			t.Errorf("apikey header = %q, want service key", r.Header.Get("apikey"))
		}
		w.Write([]byte(`[{"id":"p1"}]`))
	}))

	var rows []struct {
		ID string `json:"id"`
	}
	err := c.Rest.From("patients").
		Select("id").
		Eq("hospital_id", "h1").
		Is("is_active", true).
		Order("created_at", true).
		Limit(20).
		Get(context.Background(), &rows)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if gotPath != "/rest/v1/patients" {
		t.Errorf("path = %q", gotPath)
	}
	wantQuery := "hospital_id=eq.h1&is_active=is.true&limit=20&order=created_at.desc&select=id"
	if gotQuery != wantQuery {
		t.Errorf("query = %q, want %q", gotQuery, wantQuery)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept = %q", gotAccept)
	}
	if len(rows) != 1 || rows[0].ID != "p1" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestRestSingleNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/vnd.pgrst.object+json" {
			t.Errorf("accept = %q, want single-object accept", r.Header.Get("Accept"))
		}
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`))
	}))

	var row map[string]any
	err := c.Rest.From("patients").Eq("id", "missing").Single().Get(context.Background(), &row)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestRestInsertUniqueViolation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint \"patients_mrn_key\""}`))
	}))

	err := c.Rest.From("patients").Insert(context.Background(), map[string]any{"mrn": "GEN25000001"}, nil)
	if !errors.Is(err, ErrUniqueViolation) {
		t.Fatalf("error = %v, want ErrUniqueViolation", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "23505" {
		t.Fatalf("error = %v, want APIError with code 23505", err)
	}
}

func TestRestCount(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Prefer"); got != "count=exact" {
			t.Errorf("Prefer = %q", got)
		}
		w.Header().Set("Content-Range", "0-0/42")
		w.Write([]byte(`[]`))
	}))

	n, err := c.Rest.From("notifications").Eq("is_read", false).Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 42 {
		t.Errorf("Count = %d, want 42", n)
	}
}

func TestRestUpdateReturnsRepresentation(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %q, want PATCH", r.Method)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Prefer = %q", got)
		}
		w.Write([]byte(`[{"id":"n1","is_read":true}]`))
	}))

	var rows []map[string]any
	err := c.Rest.From("notifications").
		Eq("id", "n1").
		Update(context.Background(), map[string]any{"is_read": true}, &rows)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestRestTimeoutRespectsContext(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out []map[string]any
	err := c.Rest.From("patients").Get(ctx, &out)
	if err == nil {
		t.Fatal("expected context deadline error")
	}
}
