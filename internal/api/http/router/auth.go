package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler, authRequired fiber.Handler) {
	group := api.Group("/auth")
	group.Post("/signup", h.SignUp)
	group.Post("/signin", h.SignIn)
	group.Post("/refresh", h.Refresh)
	group.Post("/password-reset", h.RequestPasswordReset)
	group.Post("/signout", authRequired, h.SignOut)
	group.Post("/update-password", authRequired, h.UpdatePassword)
	group.Get("/me", authRequired, h.Me)
}
