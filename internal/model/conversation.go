package model

import "time"

// Conversation types.
const (
	ConversationTypePatientLLM       = "patient_llm"
	ConversationTypeDoctorLLM        = "doctor_llm"
	ConversationTypeDoctorPatientLLM = "doctor_patient_llm"
)

// Message sender types.
const (
	SenderTypePatient = "patient"
	SenderTypeDoctor  = "doctor"
	SenderTypeLLM     = "llm"
)

// Conversation is a row in the llm_conversations table.
type Conversation struct {
	ID               string      `json:"id,omitzero"`
	ConversationType string      `json:"conversation_type,omitzero"`
	PatientID        string      `json:"patient_id,omitzero"`
	DoctorID         *string     `json:"doctor_id,omitempty"`
	CaseID           *string     `json:"case_id,omitempty"`
	HospitalID       string      `json:"hospital_id,omitzero"`
	Title            string      `json:"title,omitzero"`
	SystemPrompt     *string     `json:"system_prompt,omitempty"`
	LLMModel         string      `json:"llm_model,omitzero"`
	IsActive         bool        `json:"is_active"`
	IsArchived       bool        `json:"is_archived"`
	MessageCount     int         `json:"message_count"`
	TotalTokensUsed  int         `json:"total_tokens_used"`
	LastMessageAt    *time.Time  `json:"last_message_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at,omitzero"`
	Patient          *PatientRef `json:"patients,omitempty"`
	Doctor           *DoctorRef  `json:"doctors,omitempty"`

	Messages []Message `json:"messages,omitempty"`
}

// Message is a row in the llm_messages table.
type Message struct {
	ID                 string           `json:"id,omitzero"`
	ConversationID     string           `json:"conversation_id,omitzero"`
	SenderType         string           `json:"sender_type,omitzero"`
	SenderID           *string          `json:"sender_id,omitempty"`
	MessageContent     string           `json:"message_content,omitzero"`
	MessageType        string           `json:"message_type,omitzero"`
	Attachments        []map[string]any `json:"attachments,omitempty"`
	LLMModelUsed       *string          `json:"llm_model_used,omitempty"`
	TokensUsed         *int             `json:"tokens_used,omitempty"`
	LLMContextSnapshot map[string]any   `json:"llm_context_snapshot,omitempty"`
	IsDeleted          bool             `json:"is_deleted"`
	CreatedAt          time.Time        `json:"created_at,omitzero"`
}
