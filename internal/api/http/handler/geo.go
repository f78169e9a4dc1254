package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/service/geo"
)

type GeoHandler struct {
	svc geo.Service
}

func NewGeoHandler(svc geo.Service) *GeoHandler {
	return &GeoHandler{svc: svc}
}

func mapGeoError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, geo.ErrCountryNotFound),
		errors.Is(err, geo.ErrRegionNotFound),
		errors.Is(err, geo.ErrHospitalNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, geo.ErrDuplicateCode):
		return conflict(c, err.Error())
	case errors.Is(err, geo.ErrNothingToUpdate):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

func activeFlag(c fiber.Ctx) bool {
	var q struct {
		IsActive *bool `query:"is_active"`
	}
	_ = c.Bind().Query(&q)
	if q.IsActive != nil {
		return *q.IsActive
	}
	return true
}

// GET /api/v1/geo/countries
func (h *GeoHandler) ListCountries(c fiber.Ctx) error {
	countries, err := h.svc.ListCountries(c.Context(), activeFlag(c))
	if err != nil {
		return mapGeoError(c, err)
	}
	return okCount(c, countries, len(countries))
}

// GET /api/v1/geo/countries/:id
func (h *GeoHandler) GetCountry(c fiber.Ctx) error {
	country, err := h.svc.GetCountry(c.Context(), c.Params("id"))
	if err != nil {
		return mapGeoError(c, err)
	}
	return ok(c, country)
}

// GET /api/v1/geo/regions
func (h *GeoHandler) ListRegions(c fiber.Ctx) error {
	regions, err := h.svc.ListRegions(c.Context(), c.Query("country_id"), activeFlag(c))
	if err != nil {
		return mapGeoError(c, err)
	}
	return okCount(c, regions, len(regions))
}

// GET /api/v1/geo/regions/:id
func (h *GeoHandler) GetRegion(c fiber.Ctx) error {
	region, err := h.svc.GetRegion(c.Context(), c.Params("id"))
	if err != nil {
		return mapGeoError(c, err)
	}
	return ok(c, region)
}

// GET /api/v1/geo/hospitals
func (h *GeoHandler) ListHospitals(c fiber.Ctx) error {
	var q struct {
		RegionID string `query:"region_id"`
		IsActive *bool  `query:"is_active"`
		Search   string `query:"search"`
		Limit    int    `query:"limit"`
		Offset   int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	result, err := h.svc.ListHospitals(c.Context(), geo.ListHospitalsRequest{
		RegionID: q.RegionID,
		IsActive: q.IsActive,
		Search:   q.Search,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return mapGeoError(c, err)
	}
	return okCount(c, result.Data, result.Count)
}

// GET /api/v1/geo/hospitals/:id
func (h *GeoHandler) GetHospital(c fiber.Ctx) error {
	hospital, err := h.svc.GetHospital(c.Context(), c.Params("id"))
	if err != nil {
		return mapGeoError(c, err)
	}
	return ok(c, hospital)
}

// POST /api/v1/geo/hospitals
func (h *GeoHandler) CreateHospital(c fiber.Ctx) error {
	var body struct {
		RegionID       string  `json:"region_id"`
		HospitalCode   string  `json:"hospital_code"`
		HospitalNameEN string  `json:"hospital_name_en"`
		HospitalNameAR string  `json:"hospital_name_ar"`
		Address        *string `json:"address"`
		Phone          *string `json:"phone"`
		Email          *string `json:"email"`
		LicenseNumber  *string `json:"license_number"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.RegionID == "" || body.HospitalCode == "" || body.HospitalNameEN == "" {
		return badRequest(c, "region_id, hospital_code and hospital_name_en are required")
	}

	hospital, err := h.svc.CreateHospital(c.Context(), geo.CreateHospitalRequest{
		RegionID:       body.RegionID,
		HospitalCode:   body.HospitalCode,
		HospitalNameEN: body.HospitalNameEN,
		HospitalNameAR: body.HospitalNameAR,
		Address:        body.Address,
		Phone:          body.Phone,
		Email:          body.Email,
		LicenseNumber:  body.LicenseNumber,
	})
	if err != nil {
		return mapGeoError(c, err)
	}
	return created(c, hospital)
}

// PUT /api/v1/geo/hospitals/:id
func (h *GeoHandler) UpdateHospital(c fiber.Ctx) error {
	var body struct {
		HospitalNameEN *string `json:"hospital_name_en"`
		HospitalNameAR *string `json:"hospital_name_ar"`
		Address        *string `json:"address"`
		Phone          *string `json:"phone"`
		Email          *string `json:"email"`
		LicenseNumber  *string `json:"license_number"`
		IsActive       *bool   `json:"is_active"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	hospital, err := h.svc.UpdateHospital(c.Context(), c.Params("id"), geo.UpdateHospitalRequest{
		HospitalNameEN: body.HospitalNameEN,
		HospitalNameAR: body.HospitalNameAR,
		Address:        body.Address,
		Phone:          body.Phone,
		Email:          body.Email,
		LicenseNumber:  body.LicenseNumber,
		IsActive:       body.IsActive,
	})
	if err != nil {
		return mapGeoError(c, err)
	}
	return ok(c, hospital)
}
