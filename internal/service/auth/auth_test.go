package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/pkg/authorize"
	"github.com/biointellect/hospital_backend/pkg/supabase"
	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

// fakeSupabase records every request so tests can assert on the
// provisioning sequence.
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

func newTestService(t *testing.T, fake *fakeSupabase, onRoleFailure string) Service {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	sb := supabase.New(config.SupabaseConfig{
		URL:            srv.URL,
		AnonKey:        "anon",
		ServiceRoleKey: "service",
		TimeoutSeconds: 5,
	})

	enforcer, err := authorize.NewEnforcer("")
	require.NoError(t, err)
	authz, err := authorize.NewAuthorization(enforcer)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Codes.DefaultHospitalCode = "GEN"
	cfg.Authentication.Provisioning.OnRoleFailure = onRoleFailure

	return New(sb, authz, nil, cfg)
}

func TestSignUpRejectsDoctorWithoutLicense(t *testing.T) {
	fake := &fakeSupabase{handler: func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}}
	svc := newTestService(t, fake, "warn")

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "doc@example.com",
		Password: "longenough",
		Role:     "doctor",
	})
	require.ErrorIs(t, err, ErrLicenseRequired)
	assert.Empty(t, fake.calls(), "validation failures must not touch the backend")
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	fake := &fakeSupabase{handler: func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}}
	svc := newTestService(t, fake, "warn")

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "p@example.com",
		Password: "short",
		Role:     "patient",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestSignUpPatientProvisionsProfile(t *testing.T) {
	var profileInsert map[string]any

	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			meta, _ := body["user_metadata"].(map[string]any)
			if meta["role"] != "patient" {
				t.Errorf("identity metadata role = %v, want patient", meta["role"])
			}
			json.NewEncoder(w).Encode(map[string]any{"id": "user-1", "email": body["email"]})

		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/user_roles":
			w.WriteHeader(http.StatusCreated)

		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/patients":
			w.Write([]byte(`[]`))

		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/patients":
			_ = json.NewDecoder(r.Body).Decode(&profileInsert)
			w.WriteHeader(http.StatusCreated)

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}

	svc := newTestService(t, fake, "warn")

	result, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:     "Amina@Example.com",
		Password:  "longenough",
		Role:      "patient",
		FirstName: "Amina",
		LastName:  "Hassan",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, roles.Patient, result.Role)
	assert.Empty(t, result.Warning)

	require.NotNil(t, profileInsert, "patient profile row should be inserted")
	assert.Equal(t, "amina@example.com", profileInsert["email"], "email must be lowercased")
	mrn, _ := profileInsert["mrn"].(string)
	assert.True(t, strings.HasPrefix(mrn, "GEN"), "mrn %q should fall back to the default hospital code", mrn)
}

func TestSignUpSkipsProfileInsertWhenTriggerCreatedIt(t *testing.T) {
	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
			json.NewEncoder(w).Encode(map[string]any{"id": "user-2"})
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/user_roles":
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/patients":
			w.Write([]byte(`[{"id":"existing-profile"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/patients":
			t.Error("profile insert should be skipped when the row already exists")
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}

	svc := newTestService(t, fake, "warn")

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "p2@example.com",
		Password: "longenough",
		Role:     "patient",
	})
	require.NoError(t, err)
}

func TestSignUpWarnPolicyKeepsIdentity(t *testing.T) {
	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
			json.NewEncoder(w).Encode(map[string]any{"id": "user-3"})
		case r.URL.Path == "/rest/v1/user_roles":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}

	svc := newTestService(t, fake, "warn")

	result, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "p3@example.com",
		Password: "longenough",
		Role:     "patient",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-3", result.UserID)
	assert.NotEmpty(t, result.Warning)

	for _, call := range fake.calls() {
		assert.NotEqual(t, "DELETE /auth/v1/admin/users/user-3", call,
			"warn policy must not delete the identity")
	}
}

func TestSignUpCompensatePolicyRollsBack(t *testing.T) {
	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/v1/admin/users":
			json.NewEncoder(w).Encode(map[string]any{"id": "user-4"})
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/user_roles":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}

	svc := newTestService(t, fake, "compensate")

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "p4@example.com",
		Password: "longenough",
		Role:     "patient",
	})
	require.ErrorIs(t, err, ErrProvisionFailed)

	assert.Contains(t, fake.calls(), "DELETE /auth/v1/admin/users/user-4",
		"compensation must remove the orphaned identity")
	assert.Contains(t, fake.calls(), "DELETE /rest/v1/user_roles")
	assert.Contains(t, fake.calls(), "DELETE /rest/v1/patients")
}

func TestSignUpMapsEmailExists(t *testing.T) {
	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error_code":"email_exists","msg":"A user with this email address has already been registered"}`))
	}

	svc := newTestService(t, fake, "warn")

	_, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:    "dup@example.com",
		Password: "longenough",
		Role:     "patient",
	})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestSignInMapsInvalidCredentials(t *testing.T) {
	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"msg":"Invalid login credentials"}`))
	}

	svc := newTestService(t, fake, "warn")

	_, err := svc.SignIn(context.Background(), "p@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRequestPasswordResetNeverFails(t *testing.T) {
	fake := &fakeSupabase{}
	fake.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"msg":"rate limited"}`))
	}

	svc := newTestService(t, fake, "warn")

	err := svc.RequestPasswordReset(context.Background(), "anyone@example.com")
	assert.NoError(t, err, "reset requests must not leak account existence")
}
