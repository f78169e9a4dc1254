// Package llm manages assistant conversations between patients,
// doctors, and the medical model, including the consent workflow a
// patient goes through to read a doctor's conversation about them.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/biointellect/hospital_backend/internal/model"
	"github.com/biointellect/hospital_backend/pkg/constants"
	"github.com/biointellect/hospital_backend/pkg/supabase"
	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

const (
	defaultLimit     = 50
	maxLimit         = 100
	defaultMsgLimit  = 100
	maxMsgLimit      = 500
	defaultLLMModel  = "gpt-4"
	defaultTitle     = "Medical Consultation"
	defaultAccessHrs = 24
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateConversationRequest struct {
	ConversationType string
	PatientID        string
	DoctorID         *string
	CaseID           *string
	Title            string
	SystemPrompt     *string
	LLMModel         string
}

type SendMessageRequest struct {
	ConversationID string
	SenderUserID   string // identity-store user ID
	SenderRole     roles.Role
	Content        string
	MessageType    string
	Attachments    []map[string]any
}

type SendMessageResult struct {
	UserMessage *model.Message
	LLMResponse *model.Message
}

type ListConversationsRequest struct {
	PatientID string
	DoctorID  string
	IsActive  *bool
	Limit     int
	Offset    int
}

type ListConversationsResult struct {
	Data  []model.Conversation
	Count int
}

type RequestAccessRequest struct {
	ConversationID         string
	RequesterUserID        string // must resolve to a patient profile
	RequestReason          *string
	RequestedDurationHours int
}

type RespondAccessRequest struct {
	RequestID            string
	ResponderUserID      string // must resolve to a doctor profile
	Approved             bool
	ResponseNotes        *string
	GrantedDurationHours int
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	CreateConversation(ctx context.Context, req CreateConversationRequest) (*model.Conversation, error)
	SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error)
	ListConversations(ctx context.Context, req ListConversationsRequest) (*ListConversationsResult, error)
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	GetMessages(ctx context.Context, conversationID string, limit, offset int) ([]model.Message, error)
	RequestAccess(ctx context.Context, req RequestAccessRequest) (*model.AccessRequest, error)
	RespondAccess(ctx context.Context, req RespondAccessRequest) (*model.AccessRequest, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type llmService struct {
	sb *supabase.Client
	nc *nats.Conn
}

func New(sb *supabase.Client, nc *nats.Conn) Service {
	return &llmService{sb: sb, nc: nc}
}

func (s *llmService) CreateConversation(ctx context.Context, req CreateConversationRequest) (*model.Conversation, error) {
	// The conversation inherits its hospital from the patient.
	var patient struct {
		HospitalID string `json:"hospital_id"`
	}
	err := s.sb.Rest.From("patients").Select("hospital_id").Eq("id", req.PatientID).Single().Get(ctx, &patient)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	row := model.Conversation{
		ConversationType: orDefault(req.ConversationType, model.ConversationTypePatientLLM),
		PatientID:        req.PatientID,
		DoctorID:         req.DoctorID,
		CaseID:           req.CaseID,
		HospitalID:       patient.HospitalID,
		Title:            orDefault(req.Title, defaultTitle),
		SystemPrompt:     req.SystemPrompt,
		LLMModel:         orDefault(req.LLMModel, defaultLLMModel),
		IsActive:         true,
		IsArchived:       false,
		MessageCount:     0,
		TotalTokensUsed:  0,
	}

	var created []model.Conversation
	if err := s.sb.Rest.From("llm_conversations").Insert(ctx, row, &created); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create conversation: empty response")
	}
	return &created[0], nil
}

// SendMessage stores the caller's message, generates the assistant's
// reply, stores that too, and bumps the conversation counters. Both
// messages carry the same clinical context snapshot.
func (s *llmService) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResult, error) {
	var conv model.Conversation
	err := s.sb.Rest.From("llm_conversations").Eq("id", req.ConversationID).Single().Get(ctx, &conv)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	senderType := model.SenderTypePatient
	if req.SenderRole == roles.Doctor || req.SenderRole == roles.Administrator || req.SenderRole == roles.SuperAdmin {
		senderType = model.SenderTypeDoctor
	}
	senderID := s.profileIDForSender(ctx, senderType, req.SenderUserID)

	snapshot := s.buildPatientContext(ctx, conv.PatientID)

	userMsg := model.Message{
		ConversationID:     req.ConversationID,
		SenderType:         senderType,
		SenderID:           senderID,
		MessageContent:     req.Content,
		MessageType:        orDefault(req.MessageType, "text"),
		Attachments:        req.Attachments,
		LLMContextSnapshot: snapshot,
	}
	if userMsg.Attachments == nil {
		userMsg.Attachments = []map[string]any{}
	}

	var storedUser []model.Message
	if err := s.sb.Rest.From("llm_messages").Insert(ctx, userMsg, &storedUser); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	modelName := orDefault(conv.LLMModel, defaultLLMModel)
	replyText := generateResponse(req.Content)
	tokens := estimateTokens(replyText)
	reply := model.Message{
		ConversationID:     req.ConversationID,
		SenderType:         model.SenderTypeLLM,
		MessageContent:     replyText,
		MessageType:        "text",
		LLMModelUsed:       &modelName,
		TokensUsed:         &tokens,
		LLMContextSnapshot: snapshot,
	}

	var storedReply []model.Message
	if err := s.sb.Rest.From("llm_messages").Insert(ctx, reply, &storedReply); err != nil {
		return nil, fmt.Errorf("store reply: %w", err)
	}

	stats := map[string]any{
		"message_count":     conv.MessageCount + 2,
		"total_tokens_used": conv.TotalTokensUsed + tokens,
		"last_message_at":   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.sb.Rest.From("llm_conversations").Eq("id", req.ConversationID).Update(ctx, stats, nil); err != nil {
		slog.Warn("llm: conversation stats update failed", "conversation_id", req.ConversationID, "err", err)
	}

	result := &SendMessageResult{}
	if len(storedUser) > 0 {
		result.UserMessage = &storedUser[0]
	}
	if len(storedReply) > 0 {
		result.LLMResponse = &storedReply[0]
	}
	return result, nil
}

func (s *llmService) ListConversations(ctx context.Context, req ListConversationsRequest) (*ListConversationsResult, error) {
	limit := req.Limit
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	q := s.sb.Rest.From("llm_conversations").
		Select("*, patients(id, first_name, last_name), doctors(id, first_name, last_name)").
		Eq("is_active", active).
		Eq("is_archived", false)

	if req.PatientID != "" {
		q.Eq("patient_id", req.PatientID)
	}
	if req.DoctorID != "" {
		q.Eq("doctor_id", req.DoctorID)
	}

	var conversations []model.Conversation
	if err := q.Order("last_message_at", true).Limit(limit).Offset(req.Offset).Get(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return &ListConversationsResult{Data: conversations, Count: len(conversations)}, nil
}

func (s *llmService) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.sb.Rest.From("llm_conversations").
		Select("*, patients(id, first_name, last_name), doctors(id, first_name, last_name)").
		Eq("id", conversationID).
		Single().
		Get(ctx, &conv)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	messages, err := s.GetMessages(ctx, conversationID, maxMsgLimit, 0)
	if err != nil {
		return nil, err
	}
	conv.Messages = messages
	return &conv, nil
}

func (s *llmService) GetMessages(ctx context.Context, conversationID string, limit, offset int) ([]model.Message, error) {
	if limit < 1 || limit > maxMsgLimit {
		limit = defaultMsgLimit
	}
	var messages []model.Message
	err := s.sb.Rest.From("llm_messages").
		Eq("conversation_id", conversationID).
		Eq("is_deleted", false).
		Order("created_at", false).
		Limit(limit).
		Offset(offset).
		Get(ctx, &messages)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// RequestAccess files a patient's request to read a doctor-led
// conversation about them. Only the subject patient may file one.
func (s *llmService) RequestAccess(ctx context.Context, req RequestAccessRequest) (*model.AccessRequest, error) {
	var patient struct {
		ID string `json:"id"`
	}
	err := s.sb.Rest.From("patients").Select("id").Eq("user_id", req.RequesterUserID).Single().Get(ctx, &patient)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrNotPatient
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	var conv struct {
		DoctorID  *string `json:"doctor_id"`
		PatientID string  `json:"patient_id"`
	}
	err = s.sb.Rest.From("llm_conversations").Select("doctor_id, patient_id").Eq("id", req.ConversationID).Single().Get(ctx, &conv)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conv.PatientID != patient.ID {
		return nil, ErrNotYourConversation
	}

	hours := req.RequestedDurationHours
	if hours <= 0 {
		hours = defaultAccessHrs
	}
	row := model.AccessRequest{
		PatientID:              patient.ID,
		ConversationID:         req.ConversationID,
		DoctorID:               conv.DoctorID,
		RequestReason:          req.RequestReason,
		RequestedDurationHours: hours,
		RequestStatus:          model.AccessRequestPending,
	}

	var created []model.AccessRequest
	if err := s.sb.Rest.From("chat_access_requests").Insert(ctx, row, &created); err != nil {
		return nil, fmt.Errorf("create access request: %w", err)
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("create access request: empty response")
	}

	s.publishAccessEvent(constants.SubjectAccessRequested, map[string]any{
		"request_id":      created[0].ID,
		"patient_id":      patient.ID,
		"conversation_id": req.ConversationID,
		"doctor_id":       conv.DoctorID,
	})
	return &created[0], nil
}

// RespondAccess records the doctor's decision. Approval also writes a
// read-only permission row that expires after the granted window.
func (s *llmService) RespondAccess(ctx context.Context, req RespondAccessRequest) (*model.AccessRequest, error) {
	var doctor struct {
		ID string `json:"id"`
	}
	err := s.sb.Rest.From("doctors").Select("id").Eq("user_id", req.ResponderUserID).Single().Get(ctx, &doctor)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrNotDoctor
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	var accessReq model.AccessRequest
	err = s.sb.Rest.From("chat_access_requests").Eq("id", req.RequestID).Single().Get(ctx, &accessReq)
	if err != nil {
		if errors.Is(err, supabase.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("load access request: %w", err)
	}
	if accessReq.DoctorID == nil || *accessReq.DoctorID != doctor.ID {
		return nil, ErrNotYourRequest
	}
	if accessReq.RequestStatus != model.AccessRequestPending {
		return nil, ErrAlreadyResponded
	}

	now := time.Now().UTC()
	patch := map[string]any{
		"request_status": model.AccessRequestRejected,
		"responded_at":   now.Format(time.RFC3339),
	}
	if req.ResponseNotes != nil {
		patch["response_notes"] = *req.ResponseNotes
	}

	if req.Approved {
		hours := req.GrantedDurationHours
		if hours <= 0 {
			hours = defaultAccessHrs
		}
		expiresAt := now.Add(time.Duration(hours) * time.Hour)
		patch["request_status"] = model.AccessRequestApproved
		patch["granted_duration_hours"] = hours
		patch["expires_at"] = expiresAt.Format(time.RFC3339)

		permission := model.AccessPermission{
			PatientID:         accessReq.PatientID,
			ConversationID:    accessReq.ConversationID,
			GrantedByDoctorID: doctor.ID,
			RequestID:         req.RequestID,
			AccessLevel:       "read_only",
			ValidUntil:        expiresAt,
			IsActive:          true,
		}
		if err := s.sb.Rest.From("chat_access_permissions").Insert(ctx, permission, nil); err != nil {
			return nil, fmt.Errorf("create access permission: %w", err)
		}
	}

	var updated []model.AccessRequest
	if err := s.sb.Rest.From("chat_access_requests").Eq("id", req.RequestID).Update(ctx, patch, &updated); err != nil {
		return nil, fmt.Errorf("update access request: %w", err)
	}
	if len(updated) == 0 {
		return nil, ErrRequestNotFound
	}

	s.publishAccessEvent(constants.SubjectAccessResponded, map[string]any{
		"request_id":      req.RequestID,
		"patient_id":      accessReq.PatientID,
		"conversation_id": accessReq.ConversationID,
		"doctor_id":       doctor.ID,
		"approved":        req.Approved,
	})
	return &updated[0], nil
}

func (s *llmService) profileIDForSender(ctx context.Context, senderType, userID string) *string {
	table := "patients"
	if senderType == model.SenderTypeDoctor {
		table = "doctors"
	}
	var profile struct {
		ID string `json:"id"`
	}
	if err := s.sb.Rest.From(table).Select("id").Eq("user_id", userID).Single().Get(ctx, &profile); err != nil {
		slog.Warn("llm: sender profile lookup failed", "table", table, "user_id", userID, "err", err)
		return nil
	}
	return &profile.ID
}

func (s *llmService) publishAccessEvent(subject string, event map[string]any) {
	if s.nc == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.nc.Publish(subject, payload); err != nil {
		slog.Warn("llm: publish access event failed", "subject", subject, "err", err)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
