package auth

import "errors"

var (
	ErrInvalidRole        = errors.New("unknown role")
	ErrLicenseRequired    = errors.New("license number required for doctors")
	ErrInvalidPhone       = errors.New("invalid phone number format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProvisionFailed    = errors.New("user provisioning failed")
)
