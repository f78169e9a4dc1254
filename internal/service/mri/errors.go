package mri

import "errors"

var (
	ErrScanNotFound    = errors.New("mri scan not found")
	ErrResultNotFound  = errors.New("mri result not found")
	ErrNotDoctor       = errors.New("only doctors can review results")
	ErrNothingToUpdate = errors.New("no fields to update")
)
