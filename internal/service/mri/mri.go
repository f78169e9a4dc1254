package mri

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/constants"
	"github.com/biointellect/hospital_backend/pkg/supabase"
)

const (
	defaultLimit = 50
	maxLimit     = 100

	defaultModelName    = "MRI-Segmentation-V1"
	defaultModelVersion = "1.0.0"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateScanRequest struct {
	FileID           string
	PatientID        string
	CaseID           *string
	ScanType         string
	SequenceType     string
	BodyPart         *string
	SliceCount       *int
	SliceThicknessMM *float64
	FieldStrength    float64
	ScanDate         string
	DeviceInfo       map[string]any
	DicomMetadata    map[string]any
}

type AnalyzeRequest struct {
	ScanID       string
	PatientID    string
	CaseID       *string
	ModelName    string
	ModelVersion string
}

type ListResultsRequest struct {
	PatientID      string
	CaseID         string
	AnalysisStatus string
	IsReviewed     *bool
	Limit          int
	Offset         int
}

type ListResultsResult struct {
	Data  []model.MRIResult
	Count int
}

type UpdateResultRequest struct {
	SegmentationMaskPath  *string
	SegmentedRegions      []model.SegmentedRegion
	DetectedAbnormalities []map[string]any
	Measurements          map[string]any
	AIInterpretation      *string
	AIRecommendations     []string
	SeverityScore         *float64
	AnalysisStatus        *string
}

type ReviewRequest struct {
	ReviewerUserID     string
	DoctorNotes        *string
	DoctorAgreesWithAI *bool
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	CreateScan(ctx context.Context, req CreateScanRequest) (*model.MRIScan, error)
	Analyze(ctx context.Context, req AnalyzeRequest) (*model.MRIResult, error)
	ListResults(ctx context.Context, req ListResultsRequest) (*ListResultsResult, error)
	GetResult(ctx context.Context, resultID string) (*model.MRIResult, error)
	UpdateResult(ctx context.Context, resultID string, req UpdateResultRequest) (*model.MRIResult, error)
	Review(ctx context.Context, resultID string, req ReviewRequest) (*model.MRIResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type mriService struct {
	sb *supabase.Client
	nc *nats.Conn
}

func New(sb *supabase.Client, nc *nats.Conn) Service {
	return &mriService{sb: sb, nc: nc}
}

func (s *mriService) CreateScan(ctx context.Context, req CreateScanRequest) (*model.MRIScan, error) {
	row := model.MRIScan{
		FileID:           req.FileID,
		PatientID:        req.PatientID,
		CaseID:           req.CaseID,
		ScanType:         orDefault(req.ScanType, "brain"),
		SequenceType:     orDefault(req.SequenceType, "T1"),
		BodyPart:         req.BodyPart,
		SliceCount:       req.SliceCount,
		SliceThicknessMM: req.SliceThicknessMM,
		FieldStrength:    req.FieldStrength,
		ScanDate:         req.ScanDate,
		DeviceInfo:       req.DeviceInfo,
		DicomMetadata:    req.DicomMetadata,
	}
	if row.FieldStrength == 0 {
		row.FieldStrength = 1.5
	}
	if row.ScanDate == "" {
		row.ScanDate = time.Now().UTC().Format(time.RFC3339)
	}

	var created []model.MRIScan
	if err := s.sb.Rest.From("mri_scans").Insert(ctx, row, &created); err != nil {
		return nil, fmt.Errorf("create mri scan: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create mri scan: empty response")
	}
	return &created[0], nil
}

// Analyze records a pending result, runs the segmentation model, and
// persists the completed analysis. The segmentation output is a
// stand-in until the model serving endpoint is wired.
func (s *mriService) Analyze(ctx context.Context, req AnalyzeRequest) (*model.MRIResult, error) {
	row := model.MRIResult{
		ScanID:          req.ScanID,
		PatientID:       req.PatientID,
		CaseID:          req.CaseID,
		AnalyzedByModel: orDefault(req.ModelName, defaultModelName),
		ModelVersion:    orDefault(req.ModelVersion, defaultModelVersion),
		AnalysisStatus:  model.AnalysisStatusProcessing,
	}

	var created []model.MRIResult
	if err := s.sb.Rest.From("mri_segmentation_results").Insert(ctx, row, &created); err != nil {
		return nil, fmt.Errorf("create mri result: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create mri result: empty response")
	}
	resultID := created[0].ID

	analysis := simulatedSegmentation()

	var updated []model.MRIResult
	if err := s.sb.Rest.From("mri_segmentation_results").Eq("id", resultID).Update(ctx, analysis, &updated); err != nil {
		return nil, fmt.Errorf("store mri analysis: %w", err)
	}

	s.markFileAnalyzed(ctx, req.ScanID)
	s.publishCompleted(resultID, req)

	if len(updated) > 0 {
		return &updated[0], nil
	}
	return &created[0], nil
}

func simulatedSegmentation() map[string]any {
	return map[string]any{
		"segmented_regions": []model.SegmentedRegion{
			{Region: "whole_tumor", VolumeML: 42.5, AreaCM2: 15.8},
			{Region: "enhancing_core", VolumeML: 21.0, AreaCM2: 8.2},
			{Region: "peritumoral_edema", VolumeML: 15.2, AreaCM2: 5.6},
			{Region: "necrotic_core", VolumeML: 6.3, AreaCM2: 2.0},
		},
		"detected_abnormalities": []map[string]any{
			{
				"finding":    "High-grade glioma",
				"location":   "Right frontal lobe",
				"size_mm":    []int{45, 38, 32},
				"confidence": 0.92,
				"who_grade":  "IV",
			},
		},
		"measurements": map[string]any{
			"total_tumor_volume": 42.5,
			"edema_volume":       15.2,
			"enhancing_volume":   21.0,
			"necrosis_volume":    6.3,
			"midline_shift_mm":   3.2,
		},
		"ai_interpretation": "MRI brain scan reveals a heterogeneous mass in the right frontal lobe consistent with high-grade glioma (WHO Grade IV). The tumor demonstrates irregular enhancement with central necrosis and significant peritumoral edema. Mild mass effect with 3.2mm midline shift.",
		"ai_recommendations": []string{
			"Urgent neurosurgical consultation recommended",
			"Consider stereotactic biopsy for histopathological confirmation",
			"Multidisciplinary tumor board review advised",
			"Follow-up MRI in 4-6 weeks post-treatment",
		},
		"severity_score":     85.0,
		"analysis_status":    model.AnalysisStatusCompleted,
		"processing_time_ms": 4500,
	}
}

func (s *mriService) ListResults(ctx context.Context, req ListResultsRequest) (*ListResultsResult, error) {
	limit := req.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	q := s.sb.Rest.From("mri_segmentation_results").
		Select("*, mri_scans(*), patients(id, mrn, first_name, last_name), doctors!mri_segmentation_results_reviewed_by_doctor_id_fkey(first_name, last_name)")

	if req.PatientID != "" {
		q.Eq("patient_id", req.PatientID)
	}
	if req.CaseID != "" {
		q.Eq("case_id", req.CaseID)
	}
	if req.AnalysisStatus != "" {
		q.Eq("analysis_status", req.AnalysisStatus)
	}
	if req.IsReviewed != nil {
		q.Eq("is_reviewed", *req.IsReviewed)
	}

	var results []model.MRIResult
	if err := q.Order("created_at", true).Limit(limit).Offset(req.Offset).Get(ctx, &results); err != nil {
		return nil, fmt.Errorf("list mri results: %w", err)
	}
	return &ListResultsResult{Data: results, Count: len(results)}, nil
}

func (s *mriService) GetResult(ctx context.Context, resultID string) (*model.MRIResult, error) {
	var r model.MRIResult
	err := s.sb.Rest.From("mri_segmentation_results").
		Select("*, mri_scans(*), patients(*), medical_cases(*)").
		Eq("id", resultID).
		Single().
		Get(ctx, &r)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("get mri result: %w", err)
	}
	return &r, nil
}

func (s *mriService) UpdateResult(ctx context.Context, resultID string, req UpdateResultRequest) (*model.MRIResult, error) {
	patch := map[string]any{}
	if req.SegmentationMaskPath != nil {
		patch["segmentation_mask_path"] = *req.SegmentationMaskPath
	}
	if req.SegmentedRegions != nil {
		patch["segmented_regions"] = req.SegmentedRegions
	}
	if req.DetectedAbnormalities != nil {
		patch["detected_abnormalities"] = req.DetectedAbnormalities
	}
	if req.Measurements != nil {
		patch["measurements"] = req.Measurements
	}
	if req.AIInterpretation != nil {
		patch["ai_interpretation"] = *req.AIInterpretation
	}
	if req.AIRecommendations != nil {
		patch["ai_recommendations"] = req.AIRecommendations
	}
	if req.SeverityScore != nil {
		patch["severity_score"] = *req.SeverityScore
	}
	if req.AnalysisStatus != nil {
		patch["analysis_status"] = *req.AnalysisStatus
	}
	if len(patch) == 0 {
		return nil, ErrNothingToUpdate
	}

	var updated []model.MRIResult
	if err := s.sb.Rest.From("mri_segmentation_results").Eq("id", resultID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("update mri result: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrResultNotFound
	}
	return &updated[0], nil
}

func (s *mriService) Review(ctx context.Context, resultID string, req ReviewRequest) (*model.MRIResult, error) {
	doctorID, err := s.doctorIDForUser(ctx, req.ReviewerUserID)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{
		"is_reviewed":           true,
		"reviewed_by_doctor_id": doctorID,
		"reviewed_at":           time.Now().UTC().Format(time.RFC3339),
	}
	if req.DoctorNotes != nil {
		patch["doctor_notes"] = *req.DoctorNotes
	}
	if req.DoctorAgreesWithAI != nil {
		patch["doctor_agrees_with_ai"] = *req.DoctorAgreesWithAI
	}

	var updated []model.MRIResult
	if err := s.sb.Rest.From("mri_segmentation_results").Eq("id", resultID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("review mri result: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrResultNotFound
	}
	return &updated[0], nil
}

func (s *mriService) doctorIDForUser(ctx context.Context, userID string) (string, error) {
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

func (s *mriService) markFileAnalyzed(ctx context.Context, scanID string) {
	var scan struct {
		FileID string `json:"file_id"`
	}
	if err := s.sb.Rest.From("mri_scans").Select("file_id").Eq("id", scanID).Single().Get(ctx, &scan); err != nil {
		slog.Warn("mri: scan lookup for file flag failed", "scan_id", scanID, "err", err)
		return
	}
	patch := map[string]any{
		"is_analyzed": true,
		"analyzed_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.sb.Rest.From("medical_files").Eq("id", scan.FileID).Update(ctx, patch, nil); err != nil {
		slog.Warn("mri: mark file analyzed failed", "file_id", scan.FileID, "err", err)
	}
}

func (s *mriService) publishCompleted(resultID string, req AnalyzeRequest) {
	if s.nc == nil {
		return
	}
	event := map[string]any{
		"modality":   "mri",
		"result_id":  resultID,
		"patient_id": req.PatientID,
	}
	if req.CaseID != nil {
		event["case_id"] = *req.CaseID
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.nc.Publish(constants.SubjectAnalysisComplete, payload); err != nil {
		slog.Warn("mri: publish analysis.completed failed", "result_id", resultID, "err", err)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
