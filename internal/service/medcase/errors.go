package medcase

import "errors"

var (
	ErrCaseNotFound    = errors.New("medical case not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalidStatus   = errors.New("invalid case status")
	ErrInvalidPriority = errors.New("invalid case priority")
	ErrNothingToUpdate = errors.New("no fields to update")
)
