package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func (r *Router) registerGeoRoutes(
	api fiber.Router,
	h *handler.GeoHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	geo := api.Group("/geo", authRequired)

	geo.Get("/countries", h.ListCountries)
	geo.Get("/countries/:id", h.GetCountry)
	geo.Get("/regions", h.ListRegions)
	geo.Get("/regions/:id", h.GetRegion)

	hospitals := geo.Group("/hospitals")
	hospitals.Get("/", h.ListHospitals)
	hospitals.Get("/:id", h.GetHospital)
	hospitals.Post("/", requirePerm(authorize.ResourceGeography, authorize.ActionCreate), h.CreateHospital)
	hospitals.Put("/:id", requirePerm(authorize.ResourceGeography, authorize.ActionUpdate), h.UpdateHospital)
}
