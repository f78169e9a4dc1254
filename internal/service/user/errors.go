package user

import "errors"

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidPhone    = errors.New("invalid phone number for the specified region")
	ErrNothingToUpdate = errors.New("no fields to update")
)
