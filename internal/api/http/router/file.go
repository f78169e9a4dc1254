package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func (r *Router) registerFileRoutes(
	api fiber.Router,
	h *handler.FileHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	files := api.Group("/files", authRequired)

	files.Post("/upload", requirePerm(authorize.ResourceMedicalFile, authorize.ActionCreate), h.Upload)
	files.Get("/:id", requirePerm(authorize.ResourceMedicalFile, authorize.ActionRead), h.Get)
	files.Get("/:id/download", requirePerm(authorize.ResourceMedicalFile, authorize.ActionRead), h.Download)
	files.Delete("/:id", requirePerm(authorize.ResourceMedicalFile, authorize.ActionDelete), h.Delete)
}
