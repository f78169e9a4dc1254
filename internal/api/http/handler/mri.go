package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/internal/service/mri"
)

type MRIHandler struct {
	svc mri.Service
}

func NewMRIHandler(svc mri.Service) *MRIHandler {
	return &MRIHandler{svc: svc}
}

func mapMRIError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, mri.ErrScanNotFound),
		errors.Is(err, mri.ErrResultNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, mri.ErrNotDoctor):
		return forbidden(c, err.Error())
	case errors.Is(err, mri.ErrNothingToUpdate):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// POST /api/v1/mri/scans
func (h *MRIHandler) CreateScan(c fiber.Ctx) error {
	var body struct {
		FileID           string         `json:"file_id"`
		PatientID        string         `json:"patient_id"`
		CaseID           *string        `json:"case_id"`
		ScanType         string         `json:"scan_type"`
		SequenceType     string         `json:"sequence_type"`
		BodyPart         *string        `json:"body_part"`
		SliceCount       *int           `json:"slice_count"`
		SliceThicknessMM *float64       `json:"slice_thickness_mm"`
		FieldStrength    float64        `json:"field_strength"`
		ScanDate         string         `json:"scan_date"`
		DeviceInfo       map[string]any `json:"device_info"`
		DicomMetadata    map[string]any `json:"dicom_metadata"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.FileID == "" || body.PatientID == "" {
		return badRequest(c, "file_id and patient_id are required")
	}

	scan, err := h.svc.CreateScan(c.Context(), mri.CreateScanRequest{
		FileID:           body.FileID,
		PatientID:        body.PatientID,
		CaseID:           body.CaseID,
		ScanType:         body.ScanType,
		SequenceType:     body.SequenceType,
		BodyPart:         body.BodyPart,
		SliceCount:       body.SliceCount,
		SliceThicknessMM: body.SliceThicknessMM,
		FieldStrength:    body.FieldStrength,
		ScanDate:         body.ScanDate,
		DeviceInfo:       body.DeviceInfo,
		DicomMetadata:    body.DicomMetadata,
	})
	if err != nil {
		return mapMRIError(c, err)
	}
	return created(c, scan)
}

// POST /api/v1/mri/analyze
func (h *MRIHandler) Analyze(c fiber.Ctx) error {
	var body struct {
		ScanID       string  `json:"scan_id"`
		PatientID    string  `json:"patient_id"`
		CaseID       *string `json:"case_id"`
		ModelName    string  `json:"model_name"`
		ModelVersion string  `json:"model_version"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.ScanID == "" || body.PatientID == "" {
		return badRequest(c, "scan_id and patient_id are required")
	}

	result, err := h.svc.Analyze(c.Context(), mri.AnalyzeRequest{
		ScanID:       body.ScanID,
		PatientID:    body.PatientID,
		CaseID:       body.CaseID,
		ModelName:    body.ModelName,
		ModelVersion: body.ModelVersion,
	})
	if err != nil {
		return mapMRIError(c, err)
	}
	return created(c, result)
}

// GET /api/v1/mri/results
func (h *MRIHandler) ListResults(c fiber.Ctx) error {
	var q struct {
		PatientID      string `query:"patient_id"`
		CaseID         string `query:"case_id"`
		AnalysisStatus string `query:"analysis_status"`
		IsReviewed     *bool  `query:"is_reviewed"`
		Limit          int    `query:"limit"`
		Offset         int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	result, err := h.svc.ListResults(c.Context(), mri.ListResultsRequest{
		PatientID:      q.PatientID,
		CaseID:         q.CaseID,
		AnalysisStatus: q.AnalysisStatus,
		IsReviewed:     q.IsReviewed,
		Limit:          q.Limit,
		Offset:         q.Offset,
	})
	if err != nil {
		return mapMRIError(c, err)
	}
	return okCount(c, result.Data, result.Count)
}

// GET /api/v1/mri/results/:id
func (h *MRIHandler) GetResult(c fiber.Ctx) error {
	result, err := h.svc.GetResult(c.Context(), c.Params("id"))
	if err != nil {
		return mapMRIError(c, err)
	}
	return ok(c, result)
}

// PUT /api/v1/mri/results/:id
func (h *MRIHandler) UpdateResult(c fiber.Ctx) error {
	var body struct {
		SegmentationMaskPath  *string                 `json:"segmentation_mask_path"`
		SegmentedRegions      []model.SegmentedRegion `json:"segmented_regions"`
		DetectedAbnormalities []map[string]any        `json:"detected_abnormalities"`
		Measurements          map[string]any          `json:"measurements"`
		AIInterpretation      *string                 `json:"ai_interpretation"`
		AIRecommendations     []string                `json:"ai_recommendations"`
		SeverityScore         *float64                `json:"severity_score"`
		AnalysisStatus        *string                 `json:"analysis_status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.svc.UpdateResult(c.Context(), c.Params("id"), mri.UpdateResultRequest{
		SegmentationMaskPath:  body.SegmentationMaskPath,
		SegmentedRegions:      body.SegmentedRegions,
		DetectedAbnormalities: body.DetectedAbnormalities,
		Measurements:          body.Measurements,
		AIInterpretation:      body.AIInterpretation,
		AIRecommendations:     body.AIRecommendations,
		SeverityScore:         body.SeverityScore,
		AnalysisStatus:        body.AnalysisStatus,
	})
	if err != nil {
		return mapMRIError(c, err)
	}
	return ok(c, result)
}

// POST /api/v1/mri/results/:id/review
func (h *MRIHandler) Review(c fiber.Ctx) error {
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

	result, err := h.svc.Review(c.Context(), c.Params("id"), mri.ReviewRequest{
		ReviewerUserID:     p.UserID,
		DoctorNotes:        body.DoctorNotes,
		DoctorAgreesWithAI: body.DoctorAgreesWithAI,
	})
	if err != nil {
		return mapMRIError(c, err)
	}
	return ok(c, result)
}
