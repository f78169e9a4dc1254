package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func (r *Router) registerAnalyticsRoutes(
	api fiber.Router,
	h *handler.AnalyticsHandler,
	authRequired fiber.Handler,
	hospitalScope fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	analytics := api.Group("/analytics", authRequired, hospitalScope)

	analytics.Get("/dashboard", requirePerm(authorize.ResourceAnalytics, authorize.ActionRead), h.Dashboard)
	analytics.Get("/patients/trends", requirePerm(authorize.ResourceAnalytics, authorize.ActionRead), h.PatientTrends)
	analytics.Get("/analyses/summary", requirePerm(authorize.ResourceAnalytics, authorize.ActionRead), h.AnalysisSummary)
	analytics.Get("/audit-logs", requirePerm(authorize.ResourceAudit, authorize.ActionList), h.AuditLogs)
}
