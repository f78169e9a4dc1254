package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func (r *Router) registerUserRoutes(
	api fiber.Router,
	h *handler.UserHandler,
	authRequired fiber.Handler,
	hospitalScope fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	users := api.Group("/users", authRequired)

	users.Put("/me/profile", h.UpdateProfile)
	users.Get("/specialties", h.ListSpecialties)

	staff := users.Group("/", hospitalScope)
	staff.Get("/doctors", requirePerm(authorize.ResourceDoctor, authorize.ActionList), h.ListDoctors)
	staff.Get("/doctors/:id", requirePerm(authorize.ResourceDoctor, authorize.ActionRead), h.GetDoctor)
	staff.Get("/nurses", requirePerm(authorize.ResourceNurse, authorize.ActionList), h.ListNurses)
	staff.Get("/administrators", requirePerm(authorize.ResourceAdministrator, authorize.ActionList), h.ListAdministrators)
}
