package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func (r *Router) registerReportRoutes(
	api fiber.Router,
	h *handler.ReportHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	reports := api.Group("/reports", authRequired)

	reports.Get("/", requirePerm(authorize.ResourceReport, authorize.ActionList), h.List)
	reports.Post("/", requirePerm(authorize.ResourceReport, authorize.ActionCreate), h.Create)

	rep := reports.Group("/:id")
	rep.Get("/", requirePerm(authorize.ResourceReport, authorize.ActionRead), h.Get)
	rep.Put("/", requirePerm(authorize.ResourceReport, authorize.ActionUpdate), h.Update)
	rep.Post("/approve", requirePerm(authorize.ResourceReport, authorize.ActionUpdate), h.Approve)
	rep.Post("/sign", requirePerm(authorize.ResourceReport, authorize.ActionUpdate), h.Sign)
}
