package authorize

import (
	"context"
	"errors"

	"github.com/biointellect/hospital_backend/pkg/reqctx"
)

var (
	ErrNoSubjectInContext = errors.New("no subject found in context")
)

// SubjectFromContext extracts the GroupSubject (user ID) from the
// request principal.
func SubjectFromContext(ctx context.Context) (GroupSubject, error) {
	p := reqctx.PrincipalFromContext(ctx)
	if p == nil || p.UserID == "" {
		return "", ErrNoSubjectInContext
	}
	return GroupSubject(p.UserID), nil
}

// MustSubjectFromContext extracts the GroupSubject from context or panics.
// Use only behind auth middleware.
func MustSubjectFromContext(ctx context.Context) GroupSubject {
	subject, err := SubjectFromContext(ctx)
	if err != nil {
		panic(err)
	}
	return subject
}

// DomainFromContext picks the enforcement domain for the caller:
// the caller's hospital when assigned, otherwise the sys domain.
func DomainFromContext(ctx context.Context) (Domain, error) {
	p := reqctx.PrincipalFromContext(ctx)
	if p == nil || p.UserID == "" {
		return "", ErrNoSubjectInContext
	}
	if p.HospitalID != "" {
		return HospitalDomain(p.HospitalID), nil
	}
	return DomainSys, nil
}

// UserSelfDomain returns the user's private domain for self-owned resources.
func UserSelfDomain(userID string) Domain {
	return UserDomain(userID)
}
