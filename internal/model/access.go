package model

import "time"

// Access request statuses.
const (
	AccessRequestPending  = "pending"
	AccessRequestApproved = "approved"
	AccessRequestRejected = "rejected"
)

// AccessRequest is a row in the chat_access_requests table.
type AccessRequest struct {
	ID                     string     `json:"id,omitzero"`
	PatientID              string     `json:"patient_id,omitzero"`
	ConversationID         string     `json:"conversation_id,omitzero"`
	DoctorID               *string    `json:"doctor_id,omitempty"`
	RequestReason          *string    `json:"request_reason,omitempty"`
	RequestedDurationHours int        `json:"requested_duration_hours,omitzero"`
	RequestStatus          string     `json:"request_status,omitzero"`
	GrantedDurationHours   *int       `json:"granted_duration_hours,omitempty"`
	ResponseNotes          *string    `json:"response_notes,omitempty"`
	RespondedAt            *time.Time `json:"responded_at,omitempty"`
	ExpiresAt              *time.Time `json:"expires_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at,omitzero"`
}

// AccessPermission is a row in the chat_access_permissions table. One is
// written per approved request, never for rejections.
type AccessPermission struct {
	ID                string    `json:"id,omitzero"`
	PatientID         string    `json:"patient_id,omitzero"`
	ConversationID    string    `json:"conversation_id,omitzero"`
	GrantedByDoctorID string    `json:"granted_by_doctor_id,omitzero"`
	RequestID         string    `json:"request_id,omitzero"`
	AccessLevel       string    `json:"access_level,omitzero"`
	ValidUntil        time.Time `json:"valid_until,omitzero"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at,omitzero"`
}
