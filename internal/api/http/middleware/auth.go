package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/biointellect/hospital_backend/internal/service/auth"
	"github.com/biointellect/hospital_backend/pkg/reqctx"
	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

const LocalsPrincipal = "principal"

// AuthRequired resolves the Bearer token against the identity store and
// stores the resulting *reqctx.Principal in locals and on the request
// context. Tokens are never decoded locally.
func AuthRequired(authSvc auth.Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		h := c.Get("Authorization")
		if h == "" {
			return fiber.ErrUnauthorized
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.ErrUnauthorized
		}
		token := strings.TrimSpace(parts[1])

		u, err := authSvc.VerifyToken(c.Context(), token)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		p := &reqctx.Principal{
			UserID:      u.ID,
			Email:       u.Email,
			Role:        roles.NormalizeLenient(u.MetadataString("role")),
			HospitalID:  u.MetadataString("hospital_id"),
			FullName:    strings.TrimSpace(u.MetadataString("first_name") + " " + u.MetadataString("last_name")),
			AccessToken: token,
		}

		c.Locals(LocalsPrincipal, p)
		c.SetContext(reqctx.WithPrincipal(c.Context(), p))
		return c.Next()
	}
}

// PrincipalFromFiber retrieves the authenticated caller from locals.
func PrincipalFromFiber(c fiber.Ctx) (*reqctx.Principal, bool) {
	p, ok := c.Locals(LocalsPrincipal).(*reqctx.Principal)
	return p, ok && p != nil
}
