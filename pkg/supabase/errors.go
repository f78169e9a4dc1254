package supabase

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("supabase: row not found")
	ErrUniqueViolation     = errors.New("supabase: unique constraint violated")
	ErrForeignKeyViolation = errors.New("supabase: foreign key constraint violated")
	ErrInvalidCredentials  = errors.New("supabase: invalid login credentials")
	ErrEmailExists         = errors.New("supabase: email already registered")
	ErrInvalidToken        = errors.New("supabase: invalid or expired token")
	ErrUnexpectedResponse  = errors.New("supabase: unexpected response from store")
)

// APIError carries the raw error payload returned by GoTrue or PostgREST
// for callers that need the store's own code and message.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (code=%s, status=%d)", e.Message, e.Code, e.Status)
	}
	return fmt.Sprintf("supabase: %s (status=%d)", e.Message, e.Status)
}

// Unwrap maps well-known Postgres and PostgREST codes onto package
// sentinels so callers can use errors.Is without parsing codes.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "23505":
		return ErrUniqueViolation
	case "23503":
		return ErrForeignKeyViolation
	case "PGRST116":
		return ErrNotFound
	}
	if e.Status == 404 {
		return ErrNotFound
	}
	return nil
}
