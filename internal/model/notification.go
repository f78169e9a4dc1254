package model

import "time"

// Notification priorities.
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
	NotificationPriorityUrgent = "urgent"
)

// Notification is a row in the notifications table. UserID is the
// identity-store user ID, not a profile row ID.
type Notification struct {
	ID               string     `json:"id,omitzero"`
	UserID           string     `json:"user_id,omitzero"`
	NotificationType string     `json:"notification_type,omitzero"`
	Title            string     `json:"title,omitzero"`
	Message          string     `json:"message,omitzero"`
	ResourceType     *string    `json:"resource_type,omitempty"`
	ResourceID       *string    `json:"resource_id,omitempty"`
	ActionURL        *string    `json:"action_url,omitempty"`
	Priority         string     `json:"priority,omitzero"`
	IsRead           bool       `json:"is_read"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	IsArchived       bool       `json:"is_archived"`
	ArchivedAt       *time.Time `json:"archived_at,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at,omitzero"`
}
