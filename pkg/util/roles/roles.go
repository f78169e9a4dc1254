// Package roles canonicalizes the role strings that arrive from signup
// payloads and identity metadata, and maps roles to their profile tables.
package roles

import (
	"errors"
	"fmt"
	"strings"
)

type Role string

const (
	Administrator Role = "administrator"
	SuperAdmin    Role = "super_admin"
	Doctor        Role = "doctor"
	Nurse         Role = "nurse"
	Patient       Role = "patient"
)

var ErrUnknownRole = errors.New("unknown role")

// aliases maps every accepted input spelling to its canonical role.
// Canonical names map to themselves so Normalize is idempotent.
var aliases = map[string]Role{
	"admin":         Administrator,
	"administrator": Administrator,
	"super_admin":   SuperAdmin,
	"doctor":        Doctor,
	"nurse":         Nurse,
	"patient":       Patient,
}

// profileTables routes each role to the table holding its profile row.
// Super admins share the administrators table.
var profileTables = map[Role]string{
	Administrator: "administrators",
	SuperAdmin:    "administrators",
	Doctor:        "doctors",
	Nurse:         "nurses",
	Patient:       "patients",
}

// Normalize canonicalizes s, rejecting anything it does not recognize.
// Used on signup input so typos fail loudly instead of silently
// provisioning a patient.
func Normalize(s string) (Role, error) {
	r, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// NormalizeLenient canonicalizes s, falling back to patient for
// unrecognized input. Only for roles already persisted in identity
// metadata, where failing would lock the account out.
func NormalizeLenient(s string) Role {
	if r, err := Normalize(s); err == nil {
		return r
	}
	return Patient
}

// ProfileTable returns the relational store table that holds profile
// rows for r.
func ProfileTable(r Role) string {
	return profileTables[r]
}

// Known reports whether r is one of the canonical roles.
func Known(r Role) bool {
	_, ok := profileTables[r]
	return ok
}

// All returns the canonical roles in a stable order.
func All() []Role {
	return []Role{Administrator, SuperAdmin, Doctor, Nurse, Patient}
}

func (r Role) String() string { return string(r) }
