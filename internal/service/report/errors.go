package report

import "errors"

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrInvalidType     = errors.New("invalid report type")
	ErrNotDoctor       = errors.New("only doctors can perform this action")
	ErrNothingToUpdate = errors.New("no fields to update")
)
