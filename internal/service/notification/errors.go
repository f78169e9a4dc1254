package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNothingToUpdate      = errors.New("no fields to update")
)
