package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/handler"
	"github.com/biointellect/hospital_backend/pkg/authorize"
)

func (r *Router) registerLLMRoutes(
	api fiber.Router,
	h *handler.LLMHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	llm := api.Group("/llm", authRequired)

	convs := llm.Group("/conversations")
	convs.Get("/", requirePerm(authorize.ResourceConversation, authorize.ActionList), h.ListConversations)
	convs.Post("/", requirePerm(authorize.ResourceConversation, authorize.ActionCreate), h.CreateConversation)
	convs.Get("/:id", requirePerm(authorize.ResourceConversation, authorize.ActionRead), h.GetConversation)
	convs.Get("/:id/messages", requirePerm(authorize.ResourceMessage, authorize.ActionList), h.GetMessages)
	convs.Post("/:id/messages", requirePerm(authorize.ResourceMessage, authorize.ActionCreate), h.SendMessage)

	access := llm.Group("/access-requests")
	access.Post("/", requirePerm(authorize.ResourceAccessRequest, authorize.ActionCreate), h.RequestAccess)
	access.Post("/:id/respond", requirePerm(authorize.ResourceAccessRequest, authorize.ActionGrant), h.RespondAccess)
}
