package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/api/http/middleware"
	"github.com/biointellect/hospital_backend/internal/service/llm"
)

type LLMHandler struct {
	svc llm.Service
}

func NewLLMHandler(svc llm.Service) *LLMHandler {
	return &LLMHandler{svc: svc}
}

func mapLLMError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, llm.ErrConversationNotFound),
		errors.Is(err, llm.ErrPatientNotFound),
		errors.Is(err, llm.ErrRequestNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, llm.ErrNotPatient),
		errors.Is(err, llm.ErrNotDoctor),
		errors.Is(err, llm.ErrNotYourConversation),
		errors.Is(err, llm.ErrNotYourRequest):
		return forbidden(c, err.Error())
	case errors.Is(err, llm.ErrAlreadyResponded):
		return conflict(c, err.Error())
	default:
		return internalError(c)
	}
}

// POST /api/v1/llm/conversations
func (h *LLMHandler) CreateConversation(c fiber.Ctx) error {
	var body struct {
		ConversationType string  `json:"conversation_type"`
		PatientID        string  `json:"patient_id"`
		DoctorID         *string `json:"doctor_id"`
		CaseID           *string `json:"case_id"`
		Title            string  `json:"title"`
		SystemPrompt     *string `json:"system_prompt"`
		LLMModel         string  `json:"llm_model"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.PatientID == "" {
		return badRequest(c, "patient_id is required")
	}

	conv, err := h.svc.CreateConversation(c.Context(), llm.CreateConversationRequest{
		ConversationType: body.ConversationType,
		PatientID:        body.PatientID,
		DoctorID:         body.DoctorID,
		CaseID:           body.CaseID,
		Title:            body.Title,
		SystemPrompt:     body.SystemPrompt,
		LLMModel:         body.LLMModel,
	})
	if err != nil {
		return mapLLMError(c, err)
	}
	return created(c, conv)
}

// POST /api/v1/llm/conversations/:id/messages
func (h *LLMHandler) SendMessage(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var body struct {
		Content     string           `json:"content"`
		MessageType string           `json:"message_type"`
		Attachments []map[string]any `json:"attachments"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Content == "" {
		return badRequest(c, "content is required")
	}

	result, err := h.svc.SendMessage(c.Context(), llm.SendMessageRequest{
		ConversationID: c.Params("id"),
		SenderUserID:   p.UserID,
		SenderRole:     p.Role,
		Content:        body.Content,
		MessageType:    body.MessageType,
		Attachments:    body.Attachments,
	})
	if err != nil {
		return mapLLMError(c, err)
	}

	return created(c, fiber.Map{
		"user_message": result.UserMessage,
		"llm_response": result.LLMResponse,
	})
}

// GET /api/v1/llm/conversations
func (h *LLMHandler) ListConversations(c fiber.Ctx) error {
	var q struct {
		PatientID string `query:"patient_id"`
		DoctorID  string `query:"doctor_id"`
		IsActive  *bool  `query:"is_active"`
		Limit     int    `query:"limit"`
		Offset    int    `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	result, err := h.svc.ListConversations(c.Context(), llm.ListConversationsRequest{
		PatientID: q.PatientID,
		DoctorID:  q.DoctorID,
		IsActive:  q.IsActive,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return mapLLMError(c, err)
	}
	return okCount(c, result.Data, result.Count)
}

// GET /api/v1/llm/conversations/:id
func (h *LLMHandler) GetConversation(c fiber.Ctx) error {
	conv, err := h.svc.GetConversation(c.Context(), c.Params("id"))
	if err != nil {
		return mapLLMError(c, err)
	}
	return ok(c, conv)
}

// GET /api/v1/llm/conversations/:id/messages
func (h *LLMHandler) GetMessages(c fiber.Ctx) error {
	var q struct {
		Limit  int `query:"limit"`
		Offset int `query:"offset"`
	}
	_ = c.Bind().Query(&q)

	msgs, err := h.svc.GetMessages(c.Context(), c.Params("id"), q.Limit, q.Offset)
	if err != nil {
		return mapLLMError(c, err)
	}
	return okCount(c, msgs, len(msgs))
}

// POST /api/v1/llm/access-requests
func (h *LLMHandler) RequestAccess(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var body struct {
		ConversationID         string  `json:"conversation_id"`
		RequestReason          *string `json:"request_reason"`
		RequestedDurationHours int     `json:"requested_duration_hours"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.ConversationID == "" {
		return badRequest(c, "conversation_id is required")
	}

	req, err := h.svc.RequestAccess(c.Context(), llm.RequestAccessRequest{
		ConversationID:         body.ConversationID,
		RequesterUserID:        p.UserID,
		RequestReason:          body.RequestReason,
		RequestedDurationHours: body.RequestedDurationHours,
	})
	if err != nil {
		return mapLLMError(c, err)
	}
	return created(c, req)
}

// POST /api/v1/llm/access-requests/:id/respond
func (h *LLMHandler) RespondAccess(c fiber.Ctx) error {
	p, okAuth := middleware.PrincipalFromFiber(c)
	if !okAuth {
		return unauthorized(c)
	}

	var body struct {
		Approved             bool    `json:"approved"`
		ResponseNotes        *string `json:"response_notes"`
		GrantedDurationHours int     `json:"granted_duration_hours"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req, err := h.svc.RespondAccess(c.Context(), llm.RespondAccessRequest{
		RequestID:            c.Params("id"),
		ResponderUserID:      p.UserID,
		Approved:             body.Approved,
		ResponseNotes:        body.ResponseNotes,
		GrantedDurationHours: body.GrantedDurationHours,
	})
	if err != nil {
		return mapLLMError(c, err)
	}
	return ok(c, req)
}
