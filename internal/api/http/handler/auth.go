package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/service/auth"
)

type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrLicenseRequired),
		errors.Is(err, auth.ErrInvalidPhone),
		errors.Is(err, auth.ErrPasswordTooShort):
		return badRequest(c, err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		return conflict(c, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return unauthorized(c)
	case errors.Is(err, auth.ErrProfileNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, auth.ErrProvisionFailed):
		return failure(c, fiber.StatusInternalServerError, err.Error())
	default:
		return internalError(c)
	}
}

// POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var body struct {
		Email         string `json:"email"`
		Password      string `json:"password"`
		Role          string `json:"role"`
		FirstName     string `json:"first_name"`
		LastName      string `json:"last_name"`
		Phone         string `json:"phone"`
		HospitalID    string `json:"hospital_id"`
		LicenseNumber string `json:"license_number"`
		Specialty     string `json:"specialty"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "email and password are required")
	}

	result, err := h.svc.SignUp(c.Context(), auth.SignUpRequest{
		Email:         body.Email,
		Password:      body.Password,
		Role:          body.Role,
		FirstName:     body.FirstName,
		LastName:      body.LastName,
		Phone:         body.Phone,
		HospitalID:    body.HospitalID,
		LicenseNumber: body.LicenseNumber,
		Specialty:     body.Specialty,
	})
	if err != nil {
		return mapAuthError(c, err)
	}

	resp := fiber.Map{
		"user_id": result.UserID,
		"role":    result.Role,
	}
	if result.Warning != "" {
		resp["warning"] = result.Warning
	}
	return created(c, resp)
}

// POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "email and password are required")
	}

	result, err := h.svc.SignIn(c.Context(), body.Email, body.Password)
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, fiber.Map{
		"user_id":             result.UserID,
		"email":               result.Email,
		"role":                result.Role,
		"profile":             result.Profile,
		"must_reset_password": result.MustResetPassword,
		"session": fiber.Map{
			"access_token":  result.Session.AccessToken,
			"refresh_token": result.Session.RefreshToken,
			"expires_at":    result.Session.ExpiresAt,
		},
	})
}

// POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}
	if err := h.svc.SignOut(c.Context(), p.AccessToken); err != nil {
		return mapAuthError(c, err)
	}
	return okMessage(c, "signed out")
}

// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.RefreshToken == "" {
		return badRequest(c, "refresh_token is required")
	}

	tokens, err := h.svc.Refresh(c.Context(), body.RefreshToken)
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.ExpiresAt,
	})
}

// POST /api/v1/auth/password-reset
//
// Always succeeds so the endpoint cannot be used to probe which emails
// have accounts.
func (h *AuthHandler) RequestPasswordReset(c fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Email == "" {
		return badRequest(c, "email is required")
	}

	_ = h.svc.RequestPasswordReset(c.Context(), body.Email)
	return okMessage(c, "if the email exists, a reset link has been sent")
}

// POST /api/v1/auth/update-password
func (h *AuthHandler) UpdatePassword(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var body struct {
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.svc.UpdatePassword(c.Context(), p.UserID, body.NewPassword); err != nil {
		return mapAuthError(c, err)
	}
	return okMessage(c, "password updated")
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	me, err := h.svc.Me(c.Context(), p.UserID, p.Role)
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, fiber.Map{
		"user_id": me.UserID,
		"email":   me.Email,
		"role":    me.Role,
		"profile": me.Profile,
	})
}
