package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/service/analytics"
)

type AnalyticsHandler struct {
	svc analytics.Service
}

func NewAnalyticsHandler(svc analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func mapAnalyticsError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, analytics.ErrAdminOnly):
		return forbidden(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /api/v1/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c fiber.Ctx) error {
	stats, err := h.svc.Dashboard(c.Context(), middleware.HospitalIDFromFiber(c))
	if err != nil {
		return mapAnalyticsError(c, err)
	}
	return ok(c, stats)
}

// GET /api/v1/analytics/patients/trends
func (h *AnalyticsHandler) PatientTrends(c fiber.Ctx) error {
	var q struct {
		Days int `query:"days"`
	}
	_ = c.Bind().Query(&q)

	trends, err := h.svc.PatientTrends(c.Context(), middleware.HospitalIDFromFiber(c), q.Days)
	if err != nil {
		return mapAnalyticsError(c, err)
	}
	return ok(c, trends)
}

// GET /api/v1/analytics/analyses/summary
func (h *AnalyticsHandler) AnalysisSummary(c fiber.Ctx) error {
	var q struct {
		Days int `query:"days"`
	}
	_ = c.Bind().Query(&q)

	summary, err := h.svc.AnalysisSummary(c.Context(), q.Days)
	if err != nil {
		return mapAnalyticsError(c, err)
	}
	return ok(c, summary)
}

// GET /api/v1/analytics/audit-logs
func (h *AnalyticsHandler) AuditLogs(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var q struct {
		UserID       string `query:"user_id"`
		Action       string `query:"action"`
		ResourceType string `query:"resource_type"`
		PatientID    string `query:"patient_id"`
		IsSensitive  *bool  `query:"is_sensitive"`
		Limit        int    `query:"limit"`
		Offset       int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	result, err := h.svc.AuditLogs(c.Context(), analytics.AuditLogsRequest{
		CallerRole:   p.Role,
		UserID:       q.UserID,
		Action:       q.Action,
		ResourceType: q.ResourceType,
		PatientID:    q.PatientID,
		IsSensitive:  q.IsSensitive,
		Limit:        q.Limit,
		Offset:       q.Offset,
	})
	if err != nil {
		return mapAnalyticsError(c, err)
	}
	return okCount(c, result.Data, result.Count)
}
