package model

import "time"

// AuditLog is a row in the audit_logs table.
type AuditLog struct {
	ID           string         `json:"id,omitzero"`
	UserID       *string        `json:"user_id,omitempty"`
	Action       string         `json:"action,omitzero"`
	ResourceType string         `json:"resource_type,omitzero"`
	ResourceID   *string        `json:"resource_id,omitempty"`
	PatientID    *string        `json:"patient_id,omitempty"`
	IsSensitive  bool           `json:"is_sensitive"`
	Details      map[string]any `json:"details,omitempty"`
	IPAddress    *string        `json:"ip_address,omitempty"`
	UserAgent    *string        `json:"user_agent,omitempty"`
	CreatedAt    time.Time      `json:"created_at,omitzero"`
}

// UserRole is a row in the user_roles table. It mirrors the identity
// store's role metadata so role lookups never need an auth round trip.
type UserRole struct {
	ID         string    `json:"id,omitzero"`
	UserID     string    `json:"user_id,omitzero"`
	Role       string    `json:"role,omitzero"`
	HospitalID *string   `json:"hospital_id,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}
