package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func (r *Router) registerECGRoutes(
	api fiber.Router,
	h *handler.ECGHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	ecg := api.Group("/ecg", authRequired)

	ecg.Post("/signals", requirePerm(authorize.ResourceECGResult, authorize.ActionCreate), h.CreateSignal)
	ecg.Post("/analyze", requirePerm(authorize.ResourceECGResult, authorize.ActionExecute), h.Analyze)

	results := ecg.Group("/results")
	results.Get("/", requirePerm(authorize.ResourceECGResult, authorize.ActionList), h.ListResults)
	results.Get("/:id", requirePerm(authorize.ResourceECGResult, authorize.ActionRead), h.GetResult)
	results.Put("/:id", requirePerm(authorize.ResourceECGResult, authorize.ActionUpdate), h.UpdateResult)
	results.Post("/:id/review", requirePerm(authorize.ResourceECGResult, authorize.ActionUpdate), h.Review)
}
