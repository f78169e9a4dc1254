package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/service/medcase"
)

type CaseHandler struct {
	svc medcase.Service
}

func NewCaseHandler(svc medcase.Service) *CaseHandler {
	return &CaseHandler{svc: svc}
}

func mapCaseError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, medcase.ErrCaseNotFound),
		errors.Is(err, medcase.ErrPatientNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, medcase.ErrInvalidStatus),
		errors.Is(err, medcase.ErrInvalidPriority),
		errors.Is(err, medcase.ErrNothingToUpdate):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /api/v1/cases
func (h *CaseHandler) List(c fiber.Ctx) error {
	var q struct {
		PatientID        string `query:"patient_id"`
		AssignedDoctorID string `query:"assigned_doctor_id"`
		Status           string `query:"status"`
		Priority         string `query:"priority"`
		IsArchived       bool   `query:"is_archived"`
		Limit            int    `query:"limit"`
		Offset           int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	result, err := h.svc.List(c.Context(), medcase.ListRequest{
		PatientID:        q.PatientID,
		AssignedDoctorID: q.AssignedDoctorID,
		HospitalID:       middleware.HospitalIDFromFiber(c),
		Status:           q.Status,
		Priority:         q.Priority,
		IsArchived:       q.IsArchived,
		Limit:            q.Limit,
		Offset:           q.Offset,
	})
	if err != nil {
		return mapCaseError(c, err)
	}
	return okCount(c, result.Data, result.Count)
}

// GET /api/v1/cases/:id
func (h *CaseHandler) Get(c fiber.Ctx) error {
	mc, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapCaseError(c, err)
	}
	return ok(c, mc)
}

// POST /api/v1/cases
func (h *CaseHandler) Create(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var body struct {
		PatientID        string   `json:"patient_id"`
		AssignedDoctorID *string  `json:"assigned_doctor_id"`
		Priority         string   `json:"priority"`
		ChiefComplaint   *string  `json:"chief_complaint"`
		Diagnosis        *string  `json:"diagnosis"`
		TreatmentPlan    *string  `json:"treatment_plan"`
		Notes            *string  `json:"notes"`
		Tags             []string `json:"tags"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.PatientID == "" {
		return badRequest(c, "patient_id is required")
	}

	mc, err := h.svc.Create(c.Context(), medcase.CreateRequest{
		PatientID:        body.PatientID,
		AssignedDoctorID: body.AssignedDoctorID,
		CreatorUserID:    p.UserID,
		Priority:         body.Priority,
		ChiefComplaint:   body.ChiefComplaint,
		Diagnosis:        body.Diagnosis,
		TreatmentPlan:    body.TreatmentPlan,
		Notes:            body.Notes,
		Tags:             body.Tags,
	})
	if err != nil {
		return mapCaseError(c, err)
	}
	return created(c, mc)
}

// PUT /api/v1/cases/:id
func (h *CaseHandler) Update(c fiber.Ctx) error {
	var body struct {
		AssignedDoctorID *string  `json:"assigned_doctor_id"`
		Status           *string  `json:"status"`
		Priority         *string  `json:"priority"`
		ChiefComplaint   *string  `json:"chief_complaint"`
		Diagnosis        *string  `json:"diagnosis"`
		DiagnosisICD10   *string  `json:"diagnosis_icd10"`
		TreatmentPlan    *string  `json:"treatment_plan"`
		Notes            *string  `json:"notes"`
		Tags             []string `json:"tags"`
		FollowUpDate     *string  `json:"follow_up_date"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	mc, err := h.svc.Update(c.Context(), c.Params("id"), medcase.UpdateRequest{
		AssignedDoctorID: body.AssignedDoctorID,
		Status:           body.Status,
		Priority:         body.Priority,
		ChiefComplaint:   body.ChiefComplaint,
		Diagnosis:        body.Diagnosis,
		DiagnosisICD10:   body.DiagnosisICD10,
		TreatmentPlan:    body.TreatmentPlan,
		Notes:            body.Notes,
		Tags:             body.Tags,
		FollowUpDate:     body.FollowUpDate,
	})
	if err != nil {
		return mapCaseError(c, err)
	}
	return ok(c, mc)
}

// DELETE /api/v1/cases/:id
func (h *CaseHandler) Archive(c fiber.Ctx) error {
	mc, err := h.svc.Archive(c.Context(), c.Params("id"))
	if err != nil {
		return mapCaseError(c, err)
	}
	return ok(c, mc)
}
