package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/supabase"
)

const notFoundBody = `{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`

// fakeSupabase records every request so tests can assert on the
// consent workflow's store access.
type fakeSupabase struct {
	mu       sync.Mutex
	requests []string // "METHOD path"
	handler  http.HandlerFunc
}

func (f *fakeSupabase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeSupabase) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newTestService(t *testing.T, fake *fakeSupabase) Service {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	sb := supabase.New(config.SupabaseConfig{
		URL:            srv.URL,
		AnonKey:        "anon",
		ServiceRoleKey: "service",
		TimeoutSeconds: 5,
	})
	return New(sb, nil)
}

func TestRequestAccessFilesPendingRequest(t *testing.T) {
	var requestInsert map[string]any

	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/patients":
			json.NewEncoder(w).Encode(map[string]any{"id": "pat-1"})

		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/llm_conversations":
			json.NewEncoder(w).Encode(map[string]any{"doctor_id": "doc-1", "patient_id": "pat-1"})

		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/chat_access_requests":
			_ = json.NewDecoder(r.Body).Decode(&requestInsert)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`[{"id":"req-1","patient_id":"pat-1","request_status":"pending"}]`))

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}

	svc := newTestService(t, fake)

	created, err := svc.RequestAccess(context.Background(), RequestAccessRequest{
		ConversationID:  "conv-1",
		RequesterUserID: "user-pat-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "req-1", created.ID)
	assert.Equal(t, model.AccessRequestPending, created.RequestStatus)

	require.NotNil(t, requestInsert)
	assert.Equal(t, "pat-1", requestInsert["patient_id"], "request must carry the profile ID, not the identity ID")
	assert.Equal(t, model.AccessRequestPending, requestInsert["request_status"])
	assert.EqualValues(t, defaultAccessHrs, requestInsert["requested_duration_hours"],
		"missing duration should fall back to the default window")
}

func TestRequestAccessRequiresPatientProfile(t *testing.T) {
	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/rest/v1/patients" {
			w.WriteHeader(http.StatusNotAcceptable)
			w.Write([]byte(notFoundBody))
			return
		}
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}

	svc := newTestService(t, fake)

	_, err := svc.RequestAccess(context.Background(), RequestAccessRequest{
		ConversationID:  "conv-1",
		RequesterUserID: "user-doc-1",
	})
	require.ErrorIs(t, err, ErrNotPatient)
}

func TestRequestAccessRejectsForeignConversation(t *testing.T) {
	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/patients":
			json.NewEncoder(w).Encode(map[string]any{"id": "pat-1"})
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/llm_conversations":
			json.NewEncoder(w).Encode(map[string]any{"doctor_id": "doc-1", "patient_id": "pat-other"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}

	svc := newTestService(t, fake)

	_, err := svc.RequestAccess(context.Background(), RequestAccessRequest{
		ConversationID:  "conv-1",
		RequesterUserID: "user-pat-1",
	})
	require.ErrorIs(t, err, ErrNotYourConversation)

	for _, call := range fake.calls() {
		assert.NotEqual(t, "POST /rest/v1/chat_access_requests", call,
			"no request row may be written for someone else's conversation")
	}
}

func TestRespondAccessApprovalWritesPermission(t *testing.T) {
	var permissionInsert map[string]any
	var requestPatch map[string]any

	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/doctors":
			json.NewEncoder(w).Encode(map[string]any{"id": "doc-1"})

		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/chat_access_requests":
			json.NewEncoder(w).Encode(map[string]any{
				"id":              "req-1",
				"patient_id":      "pat-1",
				"conversation_id": "conv-1",
				"doctor_id":       "doc-1",
				"request_status":  "pending",
			})

		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/chat_access_permissions":
			_ = json.NewDecoder(r.Body).Decode(&permissionInsert)
			w.WriteHeader(http.StatusCreated)

		case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/chat_access_requests":
			_ = json.NewDecoder(r.Body).Decode(&requestPatch)
			w.Write([]byte(`[{"id":"req-1","request_status":"approved"}]`))

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}

	svc := newTestService(t, fake)

	updated, err := svc.RespondAccess(context.Background(), RespondAccessRequest{
		RequestID:            "req-1",
		ResponderUserID:      "user-doc-1",
		Approved:             true,
		GrantedDurationHours: 48,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AccessRequestApproved, updated.RequestStatus)

	require.NotNil(t, permissionInsert, "approval must write a permission row")
	assert.Equal(t, "read_only", permissionInsert["access_level"])
	assert.Equal(t, true, permissionInsert["is_active"])
	assert.Equal(t, "pat-1", permissionInsert["patient_id"])
	assert.Equal(t, "doc-1", permissionInsert["granted_by_doctor_id"])

	require.NotNil(t, requestPatch)
	assert.Equal(t, model.AccessRequestApproved, requestPatch["request_status"])
	assert.EqualValues(t, 48, requestPatch["granted_duration_hours"])
	assert.NotEmpty(t, requestPatch["expires_at"])
}

func TestRespondAccessRejectionSkipsPermission(t *testing.T) {
	var requestPatch map[string]any

	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/doctors":
			json.NewEncoder(w).Encode(map[string]any{"id": "doc-1"})
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/chat_access_requests":
			json.NewEncoder(w).Encode(map[string]any{
				"id":             "req-1",
				"patient_id":     "pat-1",
				"doctor_id":      "doc-1",
				"request_status": "pending",
			})
		case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/chat_access_requests":
			_ = json.NewDecoder(r.Body).Decode(&requestPatch)
			w.Write([]byte(`[{"id":"req-1","request_status":"rejected"}]`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}

	svc := newTestService(t, fake)

	notes := "not appropriate for this case"
	updated, err := svc.RespondAccess(context.Background(), RespondAccessRequest{
		RequestID:       "req-1",
		ResponderUserID: "user-doc-1",
		Approved:        false,
		ResponseNotes:   &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AccessRequestRejected, updated.RequestStatus)

	require.NotNil(t, requestPatch)
	assert.Equal(t, model.AccessRequestRejected, requestPatch["request_status"])
	assert.Equal(t, notes, requestPatch["response_notes"])
	_, hasExpiry := requestPatch["expires_at"]
	assert.False(t, hasExpiry, "rejections carry no expiry")

	for _, call := range fake.calls() {
		assert.NotEqual(t, "POST /rest/v1/chat_access_permissions", call)
	}
}

func TestRespondAccessRejectsForeignRequest(t *testing.T) {
	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/doctors":
			json.NewEncoder(w).Encode(map[string]any{"id": "doc-2"})
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/chat_access_requests":
			json.NewEncoder(w).Encode(map[string]any{
				"id":             "req-1",
				"doctor_id":      "doc-1",
				"request_status": "pending",
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}

	svc := newTestService(t, fake)

	_, err := svc.RespondAccess(context.Background(), RespondAccessRequest{
		RequestID:       "req-1",
		ResponderUserID: "user-doc-2",
		Approved:        true,
	})
	require.ErrorIs(t, err, ErrNotYourRequest)
}

func TestRespondAccessGuardsDoubleResponse(t *testing.T) {
	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/doctors":
			json.NewEncoder(w).Encode(map[string]any{"id": "doc-1"})
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/chat_access_requests":
			json.NewEncoder(w).Encode(map[string]any{
				"id":             "req-1",
				"doctor_id":      "doc-1",
				"request_status": "approved",
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}

	svc := newTestService(t, fake)

	_, err := svc.RespondAccess(context.Background(), RespondAccessRequest{
		RequestID:       "req-1",
		ResponderUserID: "user-doc-1",
		Approved:        true,
	})
	require.ErrorIs(t, err, ErrAlreadyResponded)
}

func TestGenerateResponsePicksDomainAnswer(t *testing.T) {
	assert.Contains(t, generateResponse("what does my ECG show?"), "cardiac")
	assert.Contains(t, generateResponse("is the brain MRI worrying?"), "segmentation")
	assert.Contains(t, generateResponse("can I change my medication?"), "medication")
	assert.Contains(t, generateResponse("hello"), "medical AI assistant")
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, estimateTokens(""))
	assert.Equal(t, 6, estimateTokens("three short words"))
}
