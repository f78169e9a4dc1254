package reqctx

import (
	"context"

	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

// Principal is the authenticated caller, resolved from the bearer token
// by auth middleware on every request. The identity store is the source
// of truth; nothing here is decoded locally from the token.
type Principal struct {
	// UserID is the identity store's user ID (UUID string).
	UserID string

	// Email is the identity's email address.
	Email string

	// Role is the caller's normalized role.
	Role roles.Role

	// HospitalID scopes the caller to a hospital, empty for super admins.
	HospitalID string

	// FullName comes from identity metadata, may be empty.
	FullName string

	// AccessToken is the raw bearer token, kept for sign-out and other
	// operations performed on the caller's behalf.
	AccessToken string
}

// WithPrincipal stores the authenticated caller in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, keyPrincipal, p)
}

// PrincipalFromContext retrieves the authenticated caller.
// Returns nil if the request is not authenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	v := ctx.Value(keyPrincipal)
	if v == nil {
		return nil
	}
	p, ok := v.(*Principal)
	if !ok {
		return nil
	}
	return p
}

// MustPrincipal retrieves the caller from the context.
// Panics if not set. Use only behind auth middleware.
func MustPrincipal(ctx context.Context) *Principal {
	p := PrincipalFromContext(ctx)
	if p == nil {
		panic("reqctx: principal not found in context")
	}
	return p
}

// IsAuthenticated returns true if a principal exists in the context.
func IsAuthenticated(ctx context.Context) bool {
	return PrincipalFromContext(ctx) != nil
}

// UserIDFromContext extracts the user ID from the principal.
// Returns empty string and false if not authenticated.
func UserIDFromContext(ctx context.Context) (string, bool) {
	p := PrincipalFromContext(ctx)
	if p == nil {
		return "", false
	}
	return p.UserID, true
}
