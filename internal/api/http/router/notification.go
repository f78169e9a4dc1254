package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
)

func (r *Router) registerNotificationRoutes(
	api fiber.Router,
	h *handler.NotificationHandler,
	authRequired fiber.Handler,
) {
	notifs := api.Group("/notifications", authRequired)

	notifs.Get("/", h.List)
	notifs.Get("/unread-count", h.UnreadCount)
	notifs.Post("/", h.Create)
	notifs.Post("/mark-all-read", h.MarkAllRead)
	notifs.Get("/:id", h.Get)
	notifs.Put("/:id", h.Update)
	notifs.Delete("/:id", h.Archive)
}
