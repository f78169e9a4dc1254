// Package report manages generated clinical reports: drafting from
// analysis results, review, approval, and digital signing.
package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/supabase"
	"github.com/biointellect/hospital_backend/pkg/util/codes"
	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

const (
	defaultLimit = 50
	maxLimit     = 100

	generatorModel   = "Report-Generator-V1"
	generatorVersion = "1.0.0"
)

var validTypes = map[string]bool{
	model.ReportTypeECGAnalysis:   true,
	model.ReportTypeMRIAnalysis:   true,
	model.ReportTypeComprehensive: true,
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	PatientID  string
	CaseID     string
	ReportType string
	Status     string
	DoctorID   string
	Limit      int
	Offset     int
}

type ListResult struct {
	Data  []model.Report
	Count int
}

type CreateRequest struct {
	PatientID     string
	CaseID        *string
	ReportType    string
	ECGResultID   *string
	MRIResultID   *string
	Title         string
	Summary       *string
	Content       *model.ReportContent
	CreatorUserID string
	CreatorRole   roles.Role
}

type UpdateRequest struct {
	Title         *string
	Summary       *string
	Content       *model.ReportContent
	Status        *string
	ApprovalNotes *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	GetByID(ctx context.Context, reportID string) (*model.Report, error)
	Create(ctx context.Context, req CreateRequest) (*model.Report, error)
	Update(ctx context.Context, reportID string, req UpdateRequest) (*model.Report, error)
	Approve(ctx context.Context, reportID, approverUserID string, notes *string) (*model.Report, error)
	Sign(ctx context.Context, reportID, signerUserID string) (*model.Report, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type reportService struct {
	sb *supabase.Client
}

func New(sb *supabase.Client) Service {
	return &reportService{sb: sb}
}

func (s *reportService) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	limit := req.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	q := s.sb.Rest.From("generated_reports").
		Select("*, patients(id, mrn, first_name, last_name), doctors(id, first_name, last_name)")

	if req.PatientID != "" {
		q.Eq("patient_id", req.PatientID)
	}
	if req.CaseID != "" {
		q.Eq("case_id", req.CaseID)
	}
	if req.ReportType != "" {
		q.Eq("report_type", req.ReportType)
	}
	if req.Status != "" {
		q.Eq("status", req.Status)
	}
	if req.DoctorID != "" {
		q.Eq("doctor_id", req.DoctorID)
	}

	var reports []model.Report
	if err := q.Order("created_at", true).Limit(limit).Offset(req.Offset).Get(ctx, &reports); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return &ListResult{Data: reports, Count: len(reports)}, nil
}

func (s *reportService) GetByID(ctx context.Context, reportID string) (*model.Report, error) {
	var r model.Report
	err := s.sb.Rest.From("generated_reports").
		Select("*, patients(*), doctors(*), medical_cases(*), ecg_results(*), mri_segmentation_results(*)").
		Eq("id", reportID).
		Single().
		Get(ctx, &r)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &r, nil
}

// Create drafts a report. When no content is supplied it is assembled
// from the referenced analysis results.
func (s *reportService) Create(ctx context.Context, req CreateRequest) (*model.Report, error) {
	if !validTypes[req.ReportType] {
		return nil, ErrInvalidType
	}

	var doctorID *string
	if req.CreatorRole == roles.Doctor {
		if id, err := s.doctorIDForUser(ctx, req.CreatorUserID); err == nil {
			doctorID = &id
		}
	}

	content := req.Content
	if content == nil {
		built, err := s.buildContent(ctx, req.ECGResultID, req.MRIResultID)
		if err != nil {
			return nil, err
		}
		content = built
	}

	row := model.Report{
		PatientID:        req.PatientID,
		CaseID:           req.CaseID,
		DoctorID:         doctorID,
		ReportType:       req.ReportType,
		ECGResultID:      req.ECGResultID,
		MRIResultID:      req.MRIResultID,
		Title:            req.Title,
		Summary:          req.Summary,
		Content:          content,
		GeneratedByModel: generatorModel,
		ModelVersion:     generatorVersion,
		Status:           model.ReportStatusDraft,
		IsFinal:          false,
		Version:          1,
	}

	// Report numbers are random draws, so a unique conflict gets one
	// retry with a fresh draw.
	var created []model.Report
	for attempt := 0; ; attempt++ {
		number, err := codes.GenerateReportNumber(req.ReportType, time.Now())
		if err != nil {
			return nil, fmt.Errorf("generate report number: %w", err)
		}
		row.ReportNumber = number

		err = s.sb.Rest.From("generated_reports").Insert(ctx, row, &created)
		if err == nil {
			break
		}
		if errors.Is(err, supabase.ErrUniqueViolation) && attempt == 0 {
			continue
		}
		return nil, fmt.Errorf("create report: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create report: empty response")
	}
	slog.Info("report created", "report_number", created[0].ReportNumber)
	return &created[0], nil
}

func (s *reportService) buildContent(ctx context.Context, ecgResultID, mriResultID *string) (*model.ReportContent, error) {
	content := &model.ReportContent{
		Sections:        []model.ReportSection{},
		Findings:        []any{},
		Recommendations: []string{},
	}

	if ecgResultID != nil {
		var ecg model.ECGResult
		err := s.sb.Rest.From("ecg_results").Eq("id", *ecgResultID).Single().Get(ctx, &ecg)
		if err != nil && !errors.Is(err, supabase.ErrNotFound) {
			return nil, fmt.Errorf("load ecg result: %w", err)
		}
		if err == nil {
			content.Sections = append(content.Sections, model.ReportSection{
				Title:    "ECG Analysis Results",
				Content:  strOrEmpty(ecg.AIInterpretation),
				Findings: ecg.DetectedConditions,
			})
			content.Recommendations = append(content.Recommendations, ecg.AIRecommendations...)
		}
	}

	if mriResultID != nil {
		var mri model.MRIResult
		err := s.sb.Rest.From("mri_segmentation_results").Eq("id", *mriResultID).Single().Get(ctx, &mri)
		if err != nil && !errors.Is(err, supabase.ErrNotFound) {
			return nil, fmt.Errorf("load mri result: %w", err)
		}
		if err == nil {
			content.Sections = append(content.Sections, model.ReportSection{
				Title:    "MRI Segmentation Results",
				Content:  strOrEmpty(mri.AIInterpretation),
				Findings: mri.DetectedAbnormalities,
			})
			content.Recommendations = append(content.Recommendations, mri.AIRecommendations...)
		}
	}

	return content, nil
}

func (s *reportService) Update(ctx context.Context, reportID string, req UpdateRequest) (*model.Report, error) {
	patch := map[string]any{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Summary != nil {
		patch["summary"] = *req.Summary
	}
	if req.Content != nil {
		patch["content"] = req.Content
	}
	if req.Status != nil {
		patch["status"] = *req.Status
	}
	if req.ApprovalNotes != nil {
		patch["approval_notes"] = *req.ApprovalNotes
	}
	if len(patch) == 0 {
		return nil, ErrNothingToUpdate
	}

	var updated []model.Report
	if err := s.sb.Rest.From("generated_reports").Eq("id", reportID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrReportNotFound
	}
	return &updated[0], nil
}

func (s *reportService) Approve(ctx context.Context, reportID, approverUserID string, notes *string) (*model.Report, error) {
	doctorID, err := s.doctorIDForUser(ctx, approverUserID)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{
		"status":                model.ReportStatusApproved,
		"approved_by_doctor_id": doctorID,
		"approved_at":           time.Now().UTC().Format(time.RFC3339),
		"is_final":              true,
	}
	if notes != nil {
		patch["approval_notes"] = *notes
	}

	var updated []model.Report
	if err := s.sb.Rest.From("generated_reports").Eq("id", reportID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("approve report: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrReportNotFound
	}
	slog.Info("report approved", "report_id", reportID)
	return &updated[0], nil
}

// Sign stamps the report with a hash over the report, doctor, and
// timestamp. A stand-in for proper PKI signing.
func (s *reportService) Sign(ctx context.Context, reportID, signerUserID string) (*model.Report, error) {
	doctorID, err := s.doctorIDForUser(ctx, signerUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s", reportID, doctorID, now.Format(time.RFC3339))))

	patch := map[string]any{
		"digital_signature":   hex.EncodeToString(digest[:]),
		"signature_timestamp": now.Format(time.RFC3339),
		"signed_by_doctor_id": doctorID,
		"status":              model.ReportStatusApproved,
		"is_final":            true,
	}

	var updated []model.Report
	if err := s.sb.Rest.From("generated_reports").Eq("id", reportID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("sign report: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrReportNotFound
	}
	slog.Info("report signed", "report_id", reportID)
	return &updated[0], nil
}

func (s *reportService) doctorIDForUser(ctx context.Context, userID string) (string, error) {
	var doc struct {
		ID string `json:"id"`
	}
	err := s.sb.Rest.From("doctors").Select("id").Eq("user_id", userID).Single().Get(ctx, &doc)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return "", ErrNotDoctor
		}
		return "", fmt.Errorf("load doctor: %w", err)
	}
	return doc.ID, nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
