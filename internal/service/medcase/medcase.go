package medcase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biointellect/hospital_backend/config"
	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/supabase"
	"github.com/biointellect/hospital_backend/pkg/util/codes"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

var validStatuses = map[string]bool{
	model.CaseStatusOpen:          true,
	model.CaseStatusInProgress:    true,
	model.CaseStatusPendingReview: true,
	model.CaseStatusClosed:        true,
	model.CaseStatusArchived:      true,
}

var validPriorities = map[string]bool{
	model.CasePriorityLow:      true,
	model.CasePriorityNormal:   true,
	model.CasePriorityHigh:     true,
	model.CasePriorityCritical: true,
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	PatientID        string
	AssignedDoctorID string
	HospitalID       string
	Status           string
	Priority         string
	IsArchived       bool
	Limit            int
	Offset           int
}

type ListResult struct {
	Data  []model.MedicalCase
	Count int
}

type CreateRequest struct {
	PatientID        string
	AssignedDoctorID *string
	// CreatorUserID is the identity of the caller; when it resolves to
	// a doctor profile, that doctor is recorded as the case creator.
	CreatorUserID  string
	Priority       string
	ChiefComplaint *string
	Diagnosis      *string
	TreatmentPlan  *string
	Notes          *string
	Tags           []string
}

type UpdateRequest struct {
	AssignedDoctorID *string
	Status           *string
	Priority         *string
	ChiefComplaint   *string
	Diagnosis        *string
	DiagnosisICD10   *string
	TreatmentPlan    *string
	Notes            *string
	Tags             []string
	FollowUpDate     *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	GetByID(ctx context.Context, caseID string) (*model.MedicalCase, error)
	Create(ctx context.Context, req CreateRequest) (*model.MedicalCase, error)
	Update(ctx context.Context, caseID string, req UpdateRequest) (*model.MedicalCase, error)
	Archive(ctx context.Context, caseID string) (*model.MedicalCase, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type caseService struct {
	sb  *supabase.Client
	cfg *config.Config
}

func New(sb *supabase.Client, cfg *config.Config) Service {
	return &caseService{sb: sb, cfg: cfg}
}

func (s *caseService) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	limit := req.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	q := s.sb.Rest.From("medical_cases").
		Select("*, patients(id, mrn, first_name, last_name), doctors!medical_cases_assigned_doctor_id_fkey(id, first_name, last_name)").
		Eq("is_archived", req.IsArchived)

	if req.PatientID != "" {
		q.Eq("patient_id", req.PatientID)
	}
	if req.AssignedDoctorID != "" {
		q.Eq("assigned_doctor_id", req.AssignedDoctorID)
	}
	if req.HospitalID != "" {
		q.Eq("hospital_id", req.HospitalID)
	}
	if req.Status != "" {
		if !validStatuses[req.Status] {
			return nil, ErrInvalidStatus
		}
		q.Eq("status", req.Status)
	}
	if req.Priority != "" {
		if !validPriorities[req.Priority] {
			return nil, ErrInvalidPriority
		}
		q.Eq("priority", req.Priority)
	}

	var cases []model.MedicalCase
	if err := q.Order("created_at", true).Limit(limit).Offset(req.Offset).Get(ctx, &cases); err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return &ListResult{Data: cases, Count: len(cases)}, nil
}

func (s *caseService) GetByID(ctx context.Context, caseID string) (*model.MedicalCase, error) {
	var mc model.MedicalCase
	err := s.sb.Rest.From("medical_cases").
		Select("*, patients(*), doctors!medical_cases_assigned_doctor_id_fkey(*), hospitals(*)").
		Eq("id", caseID).
		Single().
		Get(ctx, &mc)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		return nil, fmt.Errorf("get case: %w", err)
	}

	var files []model.MedicalFile
	err = s.sb.Rest.From("medical_files").
		Eq("case_id", caseID).
		Eq("is_deleted", false).
		Get(ctx, &files)
	if err != nil {
		return nil, fmt.Errorf("list case files: %w", err)
	}
	mc.Files = files

	return &mc, nil
}

func (s *caseService) Create(ctx context.Context, req CreateRequest) (*model.MedicalCase, error) {
	if req.Priority == "" {
		req.Priority = model.CasePriorityNormal
	}
	if !validPriorities[req.Priority] {
		return nil, ErrInvalidPriority
	}

	// The case inherits the patient's hospital; the hospital code
	// prefixes the case number.
	var patient struct {
		HospitalID string `json:"hospital_id"`
		Hospital   *struct {
			HospitalCode string `json:"hospital_code"`
		} `json:"hospitals"`
	}
	err := s.sb.Rest.From("patients").
		Select("hospital_id, hospitals(hospital_code)").
		Eq("id", req.PatientID).
		Single().
		Get(ctx, &patient)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	hospitalCode := ""
	if patient.Hospital != nil {
		hospitalCode = patient.Hospital.HospitalCode
	}

	row := model.MedicalCase{
		PatientID:        req.PatientID,
		HospitalID:       patient.HospitalID,
		AssignedDoctorID: req.AssignedDoctorID,
		Status:           model.CaseStatusOpen,
		Priority:         req.Priority,
		ChiefComplaint:   req.ChiefComplaint,
		Diagnosis:        req.Diagnosis,
		TreatmentPlan:    req.TreatmentPlan,
		Notes:            req.Notes,
		Tags:             req.Tags,
		IsArchived:       false,
	}

	if doctorID := s.doctorIDForUser(ctx, req.CreatorUserID); doctorID != "" {
		row.CreatedByDoctorID = &doctorID
	}

	// Case numbers are random draws, so a unique conflict gets one
	// retry with a fresh draw.
	var created []model.MedicalCase
	for attempt := 0; ; attempt++ {
		caseNumber, err := codes.GenerateCaseNumber(hospitalCode, s.cfg.Codes.DefaultHospitalCode, time.Now())
		if err != nil {
			return nil, fmt.Errorf("generate case number: %w", err)
		}
		row.CaseNumber = caseNumber

		err = s.sb.Rest.From("medical_cases").Insert(ctx, row, &created)
		if err == nil {
			break
		}
		if errors.Is(err, supabase.ErrUniqueViolation) && attempt == 0 {
			continue
		}
		return nil, fmt.Errorf("create case: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create case: empty response")
	}
	return &created[0], nil
}

func (s *caseService) Update(ctx context.Context, caseID string, req UpdateRequest) (*model.MedicalCase, error) {
	patch := map[string]any{}
	if req.AssignedDoctorID != nil {
		patch["assigned_doctor_id"] = *req.AssignedDoctorID
	}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return nil, ErrInvalidStatus
		}
		patch["status"] = *req.Status
	}
	if req.Priority != nil {
		if !validPriorities[*req.Priority] {
			return nil, ErrInvalidPriority
		}
		patch["priority"] = *req.Priority
	}
	if req.ChiefComplaint != nil {
		patch["chief_complaint"] = *req.ChiefComplaint
	}
	if req.Diagnosis != nil {
		patch["diagnosis"] = *req.Diagnosis
	}
	if req.DiagnosisICD10 != nil {
		patch["diagnosis_icd10"] = *req.DiagnosisICD10
	}
	if req.TreatmentPlan != nil {
		patch["treatment_plan"] = *req.TreatmentPlan
	}
	if req.Notes != nil {
		patch["notes"] = *req.Notes
	}
	if req.Tags != nil {
		patch["tags"] = req.Tags
	}
	if req.FollowUpDate != nil {
		patch["follow_up_date"] = *req.FollowUpDate
	}
	if len(patch) == 0 {
		return nil, ErrNothingToUpdate
	}

	var updated []model.MedicalCase
	if err := s.sb.Rest.From("medical_cases").Eq("id", caseID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("update case: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrCaseNotFound
	}
	return &updated[0], nil
}

func (s *caseService) Archive(ctx context.Context, caseID string) (*model.MedicalCase, error) {
	patch := map[string]any{
		"is_archived": true,
		"status":      model.CaseStatusArchived,
	}
	var updated []model.MedicalCase
	if err := s.sb.Rest.From("medical_cases").Eq("id", caseID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("archive case: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrCaseNotFound
	}
	return &updated[0], nil
}

// doctorIDForUser resolves an identity to its doctor profile ID, empty
// when the caller is not a doctor.
func (s *caseService) doctorIDForUser(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}
	var doc struct {
		ID string `json:"id"`
	}
	if err := s.sb.Rest.From("doctors").Select("id").Eq("user_id", userID).Single().Get(ctx, &doc); err != nil {
		return ""
	}
	return doc.ID
}
