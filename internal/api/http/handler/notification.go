package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/service/notification"
)

type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func mapNotificationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, notification.ErrNotificationNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, notification.ErrNothingToUpdate):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /api/v1/notifications
func (h *NotificationHandler) List(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var q struct {
		IsRead           *bool  `query:"is_read"`
		IsArchived       bool   `query:"is_archived"`
		NotificationType string `query:"notification_type"`
		Priority         string `query:"priority"`
		Limit            int    `query:"limit"`
		Offset           int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	result, err := h.svc.List(c.Context(), notification.ListRequest{
		UserID:           p.UserID,
		IsRead:           q.IsRead,
		IsArchived:       q.IsArchived,
		NotificationType: q.NotificationType,
		Priority:         q.Priority,
		Limit:            q.Limit,
		Offset:           q.Offset,
	})
	if err != nil {
		return mapNotificationError(c, err)
	}
	return okCount(c, result.Data, result.Count)
}

// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	count, err := h.svc.UnreadCount(c.Context(), p.UserID)
	if err != nil {
		return mapNotificationError(c, err)
	}
	return ok(c, fiber.Map{"unread_count": count})
}

// GET /api/v1/notifications/:id
func (h *NotificationHandler) Get(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	n, err := h.svc.GetByID(c.Context(), c.Params("id"), p.UserID)
	if err != nil {
		return mapNotificationError(c, err)
	}
	return ok(c, n)
}

// POST /api/v1/notifications
func (h *NotificationHandler) Create(c fiber.Ctx) error {
	var body struct {
		UserID           string     `json:"user_id"`
		NotificationType string     `json:"notification_type"`
		Title            string     `json:"title"`
		Message          string     `json:"message"`
		ResourceType     *string    `json:"resource_type"`
		ResourceID       *string    `json:"resource_id"`
		ActionURL        *string    `json:"action_url"`
		Priority         string     `json:"priority"`
		ExpiresAt        *time.Time `json:"expires_at"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.UserID == "" || body.Title == "" || body.Message == "" {
		return badRequest(c, "user_id, title and message are required")
	}

	n, err := h.svc.Create(c.Context(), notification.CreateRequest{
		UserID:           body.UserID,
		NotificationType: body.NotificationType,
		Title:            body.Title,
		Message:          body.Message,
		ResourceType:     body.ResourceType,
		ResourceID:       body.ResourceID,
		ActionURL:        body.ActionURL,
		Priority:         body.Priority,
		ExpiresAt:        body.ExpiresAt,
	})
	if err != nil {
		return mapNotificationError(c, err)
	}
	return created(c, n)
}

// PUT /api/v1/notifications/:id
func (h *NotificationHandler) Update(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var body struct {
		IsRead     *bool `json:"is_read"`
		IsArchived *bool `json:"is_archived"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	n, err := h.svc.Update(c.Context(), c.Params("id"), p.UserID, notification.UpdateRequest{
		IsRead:     body.IsRead,
		IsArchived: body.IsArchived,
	})
	if err != nil {
		return mapNotificationError(c, err)
	}
	return ok(c, n)
}

// POST /api/v1/notifications/mark-all-read
func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	if err := h.svc.MarkAllRead(c.Context(), p.UserID); err != nil {
		return mapNotificationError(c, err)
	}
	return okMessage(c, "all notifications marked read")
}

// DELETE /api/v1/notifications/:id
func (h *NotificationHandler) Archive(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	if err := h.svc.Archive(c.Context(), c.Params("id"), p.UserID); err != nil {
		return mapNotificationError(c, err)
	}
	return okMessage(c, "notification archived")
}
