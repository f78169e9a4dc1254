package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/internal/service/ecg"
)

type ECGHandler struct {
	svc ecg.Service
}

func NewECGHandler(svc ecg.Service) *ECGHandler {
	return &ECGHandler{svc: svc}
}

func mapECGError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ecg.ErrSignalNotFound),
		errors.Is(err, ecg.ErrResultNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, ecg.ErrNotDoctor):
		return forbidden(c, err.Error())
	case errors.Is(err, ecg.ErrNothingToUpdate):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// POST /api/v1/ecg/signals
func (h *ECGHandler) CreateSignal(c fiber.Ctx) error {
	var body struct {
		FileID          string         `json:"file_id"`
		PatientID       string         `json:"patient_id"`
		CaseID          *string        `json:"case_id"`
		SignalData      map[string]any `json:"signal_data"`
		SamplingRate    int            `json:"sampling_rate"`
		DurationSeconds float64        `json:"duration_seconds"`
		LeadCount       int            `json:"lead_count"`
		LeadsAvailable  []string       `json:"leads_available"`
		RecordingDate   string         `json:"recording_date"`
		DeviceInfo      map[string]any `json:"device_info"`
		QualityScore    *float64       `json:"quality_score"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.FileID == "" || body.PatientID == "" {
		return badRequest(c, "file_id and patient_id are required")
	}

	signal, err := h.svc.CreateSignal(c.Context(), ecg.CreateSignalRequest{
		FileID:          body.FileID,
		PatientID:       body.PatientID,
		CaseID:          body.CaseID,
		SignalData:      body.SignalData,
		SamplingRate:    body.SamplingRate,
		DurationSeconds: body.DurationSeconds,
		LeadCount:       body.LeadCount,
		LeadsAvailable:  body.LeadsAvailable,
		RecordingDate:   body.RecordingDate,
		DeviceInfo:      body.DeviceInfo,
		QualityScore:    body.QualityScore,
	})
	if err != nil {
		return mapECGError(c, err)
	}
	return created(c, signal)
}

// POST /api/v1/ecg/analyze
func (h *ECGHandler) Analyze(c fiber.Ctx) error {
	var body struct {
		SignalID     string  `json:"signal_id"`
		PatientID    string  `json:"patient_id"`
		CaseID       *string `json:"case_id"`
		ModelName    string  `json:"model_name"`
		ModelVersion string  `json:"model_version"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.SignalID == "" || body.PatientID == "" {
		return badRequest(c, "signal_id and patient_id are required")
	}

	result, err := h.svc.Analyze(c.Context(), ecg.AnalyzeRequest{
		SignalID:     body.SignalID,
		PatientID:    body.PatientID,
		CaseID:       body.CaseID,
		ModelName:    body.ModelName,
		ModelVersion: body.ModelVersion,
	})
	if err != nil {
		return mapECGError(c, err)
	}
	return created(c, result)
}

// GET /api/v1/ecg/results
func (h *ECGHandler) ListResults(c fiber.Ctx) error {
	var q struct {
		PatientID      string `query:"patient_id"`
		CaseID         string `query:"case_id"`
		AnalysisStatus string `query:"analysis_status"`
		IsReviewed     *bool  `query:"is_reviewed"`
		Limit          int    `query:"limit"`
		Offset         int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	result, err := h.svc.ListResults(c.Context(), ecg.ListResultsRequest{
		PatientID:      q.PatientID,
		CaseID:         q.CaseID,
		AnalysisStatus: q.AnalysisStatus,
		IsReviewed:     q.IsReviewed,
		Limit:          q.Limit,
		Offset:         q.Offset,
	})
	if err != nil {
		return mapECGError(c, err)
	}
	return okCount(c, result.Data, result.Count)
}

// GET /api/v1/ecg/results/:id
func (h *ECGHandler) GetResult(c fiber.Ctx) error {
	result, err := h.svc.GetResult(c.Context(), c.Params("id"))
	if err != nil {
		return mapECGError(c, err)
	}
	return ok(c, result)
}

// PUT /api/v1/ecg/results/:id
func (h *ECGHandler) UpdateResult(c fiber.Ctx) error {
	var body struct {
		HeartRate            *int                 `json:"heart_rate"`
		HeartRateVariability *float64             `json:"heart_rate_variability"`
		RhythmClassification *string              `json:"rhythm_classification"`
		RhythmConfidence     *float64             `json:"rhythm_confidence"`
		DetectedConditions   []model.ECGCondition `json:"detected_conditions"`
		PRInterval           *int                 `json:"pr_interval"`
		QRSDuration          *int                 `json:"qrs_duration"`
		QTInterval           *int                 `json:"qt_interval"`
		QTcInterval          *int                 `json:"qtc_interval"`
		AIInterpretation     *string              `json:"ai_interpretation"`
		AIRecommendations    []string             `json:"ai_recommendations"`
		RiskScore            *float64             `json:"risk_score"`
		AnalysisStatus       *string              `json:"analysis_status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.svc.UpdateResult(c.Context(), c.Params("id"), ecg.UpdateResultRequest{
		HeartRate:            body.HeartRate,
		HeartRateVariability: body.HeartRateVariability,
		RhythmClassification: body.RhythmClassification,
		RhythmConfidence:     body.RhythmConfidence,
		DetectedConditions:   body.DetectedConditions,
		PRInterval:           body.PRInterval,
		QRSDuration:          body.QRSDuration,
		QTInterval:           body.QTInterval,
		QTcInterval:          body.QTcInterval,
		AIInterpretation:     body.AIInterpretation,
		AIRecommendations:    body.AIRecommendations,
		RiskScore:            body.RiskScore,
		AnalysisStatus:       body.AnalysisStatus,
	})
	if err != nil {
		return mapECGError(c, err)
	}
	return ok(c, result)
}

// POST /api/v1/ecg/results/:id/review
func (h *ECGHandler) Review(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var body struct {
		DoctorNotes        *string `json:"doctor_notes"`
		DoctorAgreesWithAI *bool   `json:"doctor_agrees_with_ai"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.svc.Review(c.Context(), c.Params("id"), ecg.ReviewRequest{
		ReviewerUserID:     p.UserID,
		DoctorNotes:        body.DoctorNotes,
		DoctorAgreesWithAI: body.DoctorAgreesWithAI,
	})
	if err != nil {
		return mapECGError(c, err)
	}
	return ok(c, result)
}
