package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/biointellect/hospital_backend/pkg/supabase"
	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

const LocalsHospitalID = "hospital_id"

// HospitalScope resolves the hospital a request operates in. Regular
// staff are pinned to the hospital in their identity metadata; super
// admins may select one via the X-Hospital-ID header. The resolved ID
// lands in Locals for handlers that filter by hospital.
func HospitalScope(sb *supabase.Client) fiber.Handler {
	return func(c fiber.Ctx) error {
		p, ok := PrincipalFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		hospitalID := p.HospitalID
		if header := c.Get("X-Hospital-ID"); header != "" {
			if p.Role != roles.SuperAdmin {
				return fiber.NewError(fiber.StatusForbidden, "only super admins may select a hospital")
			}
			if _, err := uuid.Parse(header); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid X-Hospital-ID value")
			}

			var h struct {
				ID string `json:"id"`
			}
			err := sb.Rest.From("hospitals").
				Select("id").
				Eq("id", header).
				Eq("is_active", true).
				Single().
				Get(c.Context(), &h)
			if err != nil {
				if errors.Is(err, supabase.ErrNotFound) {
					return fiber.ErrNotFound
				}
				return err
			}
			hospitalID = h.ID
		}

		c.Locals(LocalsHospitalID, hospitalID)
		return c.Next()
	}
}

// HospitalIDFromFiber retrieves the resolved hospital scope, empty for
// super admins who did not select one.
func HospitalIDFromFiber(c fiber.Ctx) string {
	s, _ := c.Locals(LocalsHospitalID).(string)
	return s
}
