package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/internal/service/report"
)

type ReportHandler struct {
	svc report.Service
}

func NewReportHandler(svc report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

func mapReportError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, report.ErrReportNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, report.ErrNotDoctor):
		return forbidden(c, err.Error())
	case errors.Is(err, report.ErrInvalidType),
		errors.Is(err, report.ErrNothingToUpdate):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /api/v1/reports
func (h *ReportHandler) List(c fiber.Ctx) error {
	var q struct {
		PatientID  string `query:"patient_id"`
		CaseID     string `query:"case_id"`
		ReportType string `query:"report_type"`
		Status     string `query:"status"`
		DoctorID   string `query:"doctor_id"`
		Limit      int    `query:"limit"`
		Offset     int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	result, err := h.svc.List(c.Context(), report.ListRequest{
		PatientID:  q.PatientID,
		CaseID:     q.CaseID,
		ReportType: q.ReportType,
		Status:     q.Status,
		DoctorID:   q.DoctorID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return mapReportError(c, err)
	}
	return okCount(c, result.Data, result.Count)
}

// GET /api/v1/reports/:id
func (h *ReportHandler) Get(c fiber.Ctx) error {
	r, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapReportError(c, err)
	}
	return ok(c, r)
}

// POST /api/v1/reports
func (h *ReportHandler) Create(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var body struct {
		PatientID   string               `json:"patient_id"`
		CaseID      *string              `json:"case_id"`
		ReportType  string               `json:"report_type"`
		ECGResultID *string              `json:"ecg_result_id"`
		MRIResultID *string              `json:"mri_result_id"`
		Title       string               `json:"title"`
		Summary     *string              `json:"summary"`
		Content     *model.ReportContent `json:"content"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.PatientID == "" || body.ReportType == "" {
		return badRequest(c, "patient_id and report_type are required")
	}

	r, err := h.svc.Create(c.Context(), report.CreateRequest{
		PatientID:     body.PatientID,
		CaseID:        body.CaseID,
		ReportType:    body.ReportType,
		ECGResultID:   body.ECGResultID,
		MRIResultID:   body.MRIResultID,
		Title:         body.Title,
		Summary:       body.Summary,
		Content:       body.Content,
		CreatorUserID: p.UserID,
		CreatorRole:   p.Role,
	})
	if err != nil {
		return mapReportError(c, err)
	}
	return created(c, r)
}

// PUT /api/v1/reports/:id
func (h *ReportHandler) Update(c fiber.Ctx) error {
	var body struct {
		Title         *string              `json:"title"`
		Summary       *string              `json:"summary"`
		Content       *model.ReportContent `json:"content"`
		Status        *string              `json:"status"`
		ApprovalNotes *string              `json:"approval_notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	r, err := h.svc.Update(c.Context(), c.Params("id"), report.UpdateRequest{
		Title:         body.Title,
		Summary:       body.Summary,
		Content:       body.Content,
		Status:        body.Status,
		ApprovalNotes: body.ApprovalNotes,
	})
	if err != nil {
		return mapReportError(c, err)
	}
	return ok(c, r)
}

// POST /api/v1/reports/:id/approve
func (h *ReportHandler) Approve(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var body struct {
		Notes *string `json:"notes"`
	}
	_ = c.Bind().JSON(&body)

	r, err := h.svc.Approve(c.Context(), c.Params("id"), p.UserID, body.Notes)
	if err != nil {
		return mapReportError(c, err)
	}
	return ok(c, r)
}

// POST /api/v1/reports/:id/sign
func (h *ReportHandler) Sign(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	r, err := h.svc.Sign(c.Context(), c.Params("id"), p.UserID)
	if err != nil {
		return mapReportError(c, err)
	}
	return ok(c, r)
}
