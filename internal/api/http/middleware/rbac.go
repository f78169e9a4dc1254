package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/pkg/authorize"
)

// RequirePermission checks the caller's permission on resource/action.
// The domain is the caller's hospital when they have one, otherwise sys
// so super admins keep working.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		p, ok := PrincipalFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		domain := authorize.DomainSys
		if p.HospitalID != "" {
			domain = authorize.HospitalDomain(p.HospitalID)
		}

		subject := authorize.GroupSubject(p.UserID)
		if err := auth.MustEnforce(c.Context(), subject, domain, resource, action); err != nil {
			if errors.Is(err, authorize.ErrForbidden) {
				return fiber.ErrForbidden
			}
			return err
		}

		return c.Next()
	}
}
