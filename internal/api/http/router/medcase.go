package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func (r *Router) registerCaseRoutes(
	api fiber.Router,
	ch *handler.CaseHandler,
	fh *handler.FileHandler,
	authRequired fiber.Handler,
	hospitalScope fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	cases := api.Group("/cases", authRequired, hospitalScope)

	cases.Get("/", requirePerm(authorize.ResourceCase, authorize.ActionList), ch.List)
	cases.Post("/", requirePerm(authorize.ResourceCase, authorize.ActionCreate), ch.Create)

	c := cases.Group("/:id")
	c.Get("/", requirePerm(authorize.ResourceCase, authorize.ActionRead), ch.Get)
	c.Put("/", requirePerm(authorize.ResourceCase, authorize.ActionUpdate), ch.Update)
	c.Delete("/", requirePerm(authorize.ResourceCase, authorize.ActionArchive), ch.Archive)

	// Files attached to a case
	c.Get("/files", requirePerm(authorize.ResourceMedicalFile, authorize.ActionList), fh.ListCaseFiles)
}
