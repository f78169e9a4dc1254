package ecg

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

	defaultModelName    = "ECG-Classifier-V1"
	defaultModelVersion = "1.0.0"
)

var defaultLeads = []string{"I", "II", "III", "aVR", "aVL", "aVF", "V1", "V2", "V3", "V4", "V5", "V6"}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateSignalRequest struct {
	FileID          string
	PatientID       string
	CaseID          *string
	SignalData      map[string]any
	SamplingRate    int
	DurationSeconds float64
	LeadCount       int
	LeadsAvailable  []string
	RecordingDate   string
	DeviceInfo      map[string]any
	QualityScore    *float64
}

type AnalyzeRequest struct {
	SignalID     string
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
	Data  []model.ECGResult
	Count int
}

type UpdateResultRequest struct {
	HeartRate            *int
	HeartRateVariability *float64
	RhythmClassification *string
	RhythmConfidence     *float64
	DetectedConditions   []model.ECGCondition
	PRInterval           *int
	QRSDuration          *int
	QTInterval           *int
	QTcInterval          *int
	AIInterpretation     *string
	AIRecommendations    []string
	RiskScore            *float64
	AnalysisStatus       *string
}

type ReviewRequest struct {
	ReviewerUserID     string
	DoctorNotes        *string
	DoctorAgreesWithAI *bool
}

// AnalysisCompletedEvent is published after a result reaches the
// completed state.
type AnalysisCompletedEvent struct {
	Modality  string `json:"modality"`
	ResultID  string `json:"result_id"`
	PatientID string `json:"patient_id"`
	CaseID    string `json:"case_id,omitempty"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	CreateSignal(ctx context.Context, req CreateSignalRequest) (*model.ECGSignal, error)
	Analyze(ctx context.Context, req AnalyzeRequest) (*model.ECGResult, error)
	ListResults(ctx context.Context, req ListResultsRequest) (*ListResultsResult, error)
	GetResult(ctx context.Context, resultID string) (*model.ECGResult, error)
	UpdateResult(ctx context.Context, resultID string, req UpdateResultRequest) (*model.ECGResult, error)
	Review(ctx context.Context, resultID string, req ReviewRequest) (*model.ECGResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type ecgService struct {
	sb *supabase.Client
	nc *nats.Conn
}

func New(sb *supabase.Client, nc *nats.Conn) Service {
	return &ecgService{sb: sb, nc: nc}
}

func (s *ecgService) CreateSignal(ctx context.Context, req CreateSignalRequest) (*model.ECGSignal, error) {
	row := model.ECGSignal{
		FileID:          req.FileID,
		PatientID:       req.PatientID,
		CaseID:          req.CaseID,
		SignalData:      req.SignalData,
		SamplingRate:    orDefaultInt(req.SamplingRate, 500),
		DurationSeconds: orDefaultFloat(req.DurationSeconds, 10.0),
		LeadCount:       orDefaultInt(req.LeadCount, 12),
		LeadsAvailable:  req.LeadsAvailable,
		RecordingDate:   req.RecordingDate,
		DeviceInfo:      req.DeviceInfo,
		QualityScore:    req.QualityScore,
		Metadata:        map[string]any{},
	}
	if len(row.LeadsAvailable) == 0 {
		row.LeadsAvailable = defaultLeads
	}
	if row.RecordingDate == "" {
		row.RecordingDate = time.Now().UTC().Format(time.RFC3339)
	}

	var created []model.ECGSignal
	if err := s.sb.Rest.From("ecg_signals").Insert(ctx, row, &created); err != nil {
		return nil, fmt.Errorf("create ecg signal: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create ecg signal: empty response")
	}
	return &created[0], nil
}

// Analyze records a pending result, runs the classifier, and persists
// the completed analysis. The classifier is a stand-in until the model
// serving endpoint is wired.
func (s *ecgService) Analyze(ctx context.Context, req AnalyzeRequest) (*model.ECGResult, error) {
	row := model.ECGResult{
		SignalID:        req.SignalID,
		PatientID:       req.PatientID,
		CaseID:          req.CaseID,
		AnalyzedByModel: orDefaultStr(req.ModelName, defaultModelName),
		ModelVersion:    orDefaultStr(req.ModelVersion, defaultModelVersion),
		AnalysisStatus:  model.AnalysisStatusProcessing,
	}

	var created []model.ECGResult
	if err := s.sb.Rest.From("ecg_results").Insert(ctx, row, &created); err != nil {
		return nil, fmt.Errorf("create ecg result: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create ecg result: empty response")
	}
	resultID := created[0].ID

	analysis := simulatedAnalysis()

	var updated []model.ECGResult
	if err := s.sb.Rest.From("ecg_results").Eq("id", resultID).Update(ctx, analysis, &updated); err != nil {
		return nil, fmt.Errorf("store ecg analysis: %w", err)
	}

	s.markFileAnalyzed(ctx, req.SignalID)
	s.publishCompleted(resultID, req)

	if len(updated) > 0 {
		return &updated[0], nil
	}
	return &created[0], nil
}

func simulatedAnalysis() map[string]any {
	return map[string]any{
		"heart_rate":             78,
		"heart_rate_variability": 0.045,
		"rhythm_classification":  "Normal Sinus Rhythm",
		"rhythm_confidence":      0.94,
		"detected_conditions": []model.ECGCondition{
			{Condition: "Normal Sinus Rhythm", Confidence: 0.94, Severity: "none"},
		},
		"pr_interval":        160,
		"qrs_duration":       90,
		"qt_interval":        380,
		"qtc_interval":       410,
		"ai_interpretation":  "Normal ECG. Regular sinus rhythm with normal intervals. No significant ST changes or arrhythmias detected.",
		"ai_recommendations": []string{"Continue routine monitoring", "No immediate intervention required"},
		"risk_score":         15.0,
		"analysis_status":    model.AnalysisStatusCompleted,
		"processing_time_ms": 2500,
	}
}

func (s *ecgService) ListResults(ctx context.Context, req ListResultsRequest) (*ListResultsResult, error) {
	limit := req.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	q := s.sb.Rest.From("ecg_results").
		Select("*, ecg_signals(*), patients(id, mrn, first_name, last_name), doctors!ecg_results_reviewed_by_doctor_id_fkey(first_name, last_name)")

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

	var results []model.ECGResult
	if err := q.Order("created_at", true).Limit(limit).Offset(req.Offset).Get(ctx, &results); err != nil {
		return nil, fmt.Errorf("list ecg results: %w", err)
	}
	return &ListResultsResult{Data: results, Count: len(results)}, nil
}

func (s *ecgService) GetResult(ctx context.Context, resultID string) (*model.ECGResult, error) {
	var r model.ECGResult
	err := s.sb.Rest.From("ecg_results").
		Select("*, ecg_signals(*), patients(*), medical_cases(*)").
		Eq("id", resultID).
		Single().
		Get(ctx, &r)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("get ecg result: %w", err)
	}
	return &r, nil
}

func (s *ecgService) UpdateResult(ctx context.Context, resultID string, req UpdateResultRequest) (*model.ECGResult, error) {
	patch := map[string]any{}
	if req.HeartRate != nil {
		patch["heart_rate"] = *req.HeartRate
	}
	if req.HeartRateVariability != nil {
		patch["heart_rate_variability"] = *req.HeartRateVariability
	}
	if req.RhythmClassification != nil {
		patch["rhythm_classification"] = *req.RhythmClassification
	}
	if req.RhythmConfidence != nil {
		patch["rhythm_confidence"] = *req.RhythmConfidence
	}
	if req.DetectedConditions != nil {
		patch["detected_conditions"] = req.DetectedConditions
	}
	if req.PRInterval != nil {
		patch["pr_interval"] = *req.PRInterval
	}
	if req.QRSDuration != nil {
		patch["qrs_duration"] = *req.QRSDuration
	}
	if req.QTInterval != nil {
		patch["qt_interval"] = *req.QTInterval
	}
	if req.QTcInterval != nil {
		patch["qtc_interval"] = *req.QTcInterval
	}
	if req.AIInterpretation != nil {
		patch["ai_interpretation"] = *req.AIInterpretation
	}
	if req.AIRecommendations != nil {
		patch["ai_recommendations"] = req.AIRecommendations
	}
	if req.RiskScore != nil {
		patch["risk_score"] = *req.RiskScore
	}
	if req.AnalysisStatus != nil {
		patch["analysis_status"] = *req.AnalysisStatus
	}
	if len(patch) == 0 {
		return nil, ErrNothingToUpdate
	}

	var updated []model.ECGResult
	if err := s.sb.Rest.From("ecg_results").Eq("id", resultID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("update ecg result: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrResultNotFound
	}
	return &updated[0], nil
}

func (s *ecgService) Review(ctx context.Context, resultID string, req ReviewRequest) (*model.ECGResult, error) {
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

	var updated []model.ECGResult
	if err := s.sb.Rest.From("ecg_results").Eq("id", resultID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("review ecg result: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrResultNotFound
	}
	return &updated[0], nil
}

func (s *ecgService) doctorIDForUser(ctx context.Context, userID string) (string, error) {
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

func (s *ecgService) markFileAnalyzed(ctx context.Context, signalID string) {
	var sig struct {
		FileID string `json:"file_id"`
	}
	if err := s.sb.Rest.From("ecg_signals").Select("file_id").Eq("id", signalID).Single().Get(ctx, &sig); err != nil {
		slog.Warn("ecg: signal lookup for file flag failed", "signal_id", signalID, "err", err)
		return
	}
	patch := map[string]any{
		"is_analyzed": true,
		"analyzed_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.sb.Rest.From("medical_files").Eq("id", sig.FileID).Update(ctx, patch, nil); err != nil {
		slog.Warn("ecg: mark file analyzed failed", "file_id", sig.FileID, "err", err)
	}
}

func (s *ecgService) publishCompleted(resultID string, req AnalyzeRequest) {
	if s.nc == nil {
		return
	}
	event := AnalysisCompletedEvent{
		Modality:  "ecg",
		ResultID:  resultID,
		PatientID: req.PatientID,
	}
	if req.CaseID != nil {
		event.CaseID = *req.CaseID
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.nc.Publish(constants.SubjectAnalysisComplete, payload); err != nil {
		slog.Warn("ecg: publish analysis.completed failed", "result_id", resultID, "err", err)
	}
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orDefaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
