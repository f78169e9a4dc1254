package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func (r *Router) registerMRIRoutes(
	api fiber.Router,
	h *handler.MRIHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	mri := api.Group("/mri", authRequired)

	mri.Post("/scans", requirePerm(authorize.ResourceMRIResult, authorize.ActionCreate), h.CreateScan)
	mri.Post("/analyze", requirePerm(authorize.ResourceMRIResult, authorize.ActionExecute), h.Analyze)

	results := mri.Group("/results")
	results.Get("/", requirePerm(authorize.ResourceMRIResult, authorize.ActionList), h.ListResults)
	results.Get("/:id", requirePerm(authorize.ResourceMRIResult, authorize.ActionRead), h.GetResult)
	results.Put("/:id", requirePerm(authorize.ResourceMRIResult, authorize.ActionUpdate), h.UpdateResult)
	results.Post("/:id/review", requirePerm(authorize.ResourceMRIResult, authorize.ActionUpdate), h.Review)
}
