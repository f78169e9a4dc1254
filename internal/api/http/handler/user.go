package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/service/user"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrDoctorNotFound),
		errors.Is(err, user.ErrProfileNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, user.ErrInvalidPhone),
		errors.Is(err, user.ErrNothingToUpdate):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

func staffQuery(c fiber.Ctx) user.ListStaffRequest {
	var q struct {
		HospitalID string `query:"hospital_id"`
		IsActive   *bool  `query:"is_active"`
		Limit      int    `query:"limit"`
		Offset     int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	hospitalID := middleware.HospitalIDFromFiber(c)
	if hospitalID == "" {
		hospitalID = q.HospitalID
	}

	return user.ListStaffRequest{
		HospitalID: hospitalID,
		IsActive:   q.IsActive,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
}

// GET /api/v1/users/doctors
func (h *UserHandler) ListDoctors(c fiber.Ctx) error {
	req := user.ListDoctorsRequest{
		ListStaffRequest: staffQuery(c),
		SpecialtyCode:    c.Query("specialty"),
	}

	doctors, err := h.svc.ListDoctors(c.Context(), req)
	if err != nil {
		return mapUserError(c, err)
	}
	return okCount(c, doctors, len(doctors))
}

// GET /api/v1/users/doctors/:id
func (h *UserHandler) GetDoctor(c fiber.Ctx) error {
	d, err := h.svc.GetDoctor(c.Context(), c.Params("id"))
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, d)
}

// GET /api/v1/users/nurses
func (h *UserHandler) ListNurses(c fiber.Ctx) error {
	nurses, err := h.svc.ListNurses(c.Context(), staffQuery(c))
	if err != nil {
		return mapUserError(c, err)
	}
	return okCount(c, nurses, len(nurses))
}

// GET /api/v1/users/administrators
func (h *UserHandler) ListAdministrators(c fiber.Ctx) error {
	admins, err := h.svc.ListAdministrators(c.Context(), staffQuery(c))
	if err != nil {
		return mapUserError(c, err)
	}
	return okCount(c, admins, len(admins))
}

// GET /api/v1/users/specialties
func (h *UserHandler) ListSpecialties(c fiber.Ctx) error {
	var q struct {
		Category string `query:"category"`
		IsActive *bool  `query:"is_active"`
	}
	_ = c.Bind().Query(&q)

	active := true
	if q.IsActive != nil {
		active = *q.IsActive
	}

	specialties, err := h.svc.ListSpecialties(c.Context(), q.Category, active)
	if err != nil {
		return mapUserError(c, err)
	}
	return okCount(c, specialties, len(specialties))
}

// PUT /api/v1/users/me/profile
func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var body struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Phone     *string `json:"phone"`
		Address   *string `json:"address"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	profile, err := h.svc.UpdateProfile(c.Context(), user.UpdateProfileRequest{
		UserID:    p.UserID,
		Role:      p.Role,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Phone:     body.Phone,
		Address:   body.Address,
	})
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, profile)
}
