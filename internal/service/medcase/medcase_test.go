package medcase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/supabase"
)

func newTestService(t *testing.T, handler http.HandlerFunc) Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sb := supabase.New(config.SupabaseConfig{
		URL:            srv.URL,
		AnonKey:        "anon",
		ServiceRoleKey: "service",
		TimeoutSeconds: 5,
	})
	cfg := &config.Config{}
	cfg.Codes.DefaultHospitalCode = "GEN"
	return New(sb, cfg)
}

func TestCreateInheritsHospitalAndNumbersCase(t *testing.T) {
	var caseInsert map[string]any

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/patients":
			json.NewEncoder(w).Encode(map[string]any{
				"hospital_id": "hosp-1",
				"hospitals":   map[string]any{"hospital_code": "KFH"},
			})

		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/doctors":
			w.WriteHeader(http.StatusNotAcceptable)
			w.Write([]byte(`{"code":"PGRST116","message":"no rows"}`))

		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/medical_cases":
			_ = json.NewDecoder(r.Body).Decode(&caseInsert)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`[{"id":"case-1","status":"open"}]`))

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	created, err := svc.Create(context.Background(), CreateRequest{
		PatientID:     "pat-1",
		CreatorUserID: "user-nurse-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "case-1", created.ID)

	require.NotNil(t, caseInsert)
	assert.Equal(t, "hosp-1", caseInsert["hospital_id"], "case must inherit the patient's hospital")
	assert.Equal(t, model.CaseStatusOpen, caseInsert["status"])
	assert.Equal(t, model.CasePriorityNormal, caseInsert["priority"], "missing priority defaults to normal")
	caseNumber, _ := caseInsert["case_number"].(string)
	assert.True(t, strings.HasPrefix(caseNumber, "KFH"),
		"case number %q should be prefixed with the hospital code", caseNumber)
	_, hasCreator := caseInsert["created_by_doctor_id"]
	assert.False(t, hasCreator, "non-doctor creators leave the doctor attribution empty")
}

func TestCreateRejectsUnknownPriority(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	_, err := svc.Create(context.Background(), CreateRequest{
		PatientID: "pat-1",
		Priority:  "urgent-ish",
	})
	require.ErrorIs(t, err, ErrInvalidPriority)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	bogus := "resolved"
	_, err := svc.Update(context.Background(), "case-1", UpdateRequest{Status: &bogus})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateRequiresAtLeastOneField(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	_, err := svc.Update(context.Background(), "case-1", UpdateRequest{})
	require.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestUpdateMapsMissingCase(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	status := model.CaseStatusClosed
	_, err := svc.Update(context.Background(), "missing", UpdateRequest{Status: &status})
	require.ErrorIs(t, err, ErrCaseNotFound)
}

func TestArchiveSetsArchivedStatus(t *testing.T) {
	var patch map[string]any

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/rest/v1/medical_cases" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&patch)
		w.Write([]byte(`[{"id":"case-1","status":"archived","is_archived":true}]`))
	})

	archived, err := svc.Archive(context.Background(), "case-1")
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)

	require.NotNil(t, patch)
	assert.Equal(t, true, patch["is_archived"])
	assert.Equal(t, model.CaseStatusArchived, patch["status"])
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	_, err := svc.List(context.Background(), ListRequest{Status: "resolved"})
	require.ErrorIs(t, err, ErrInvalidStatus)
}
