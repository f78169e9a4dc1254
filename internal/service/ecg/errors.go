package ecg

import "errors"

var (
	ErrSignalNotFound  = errors.New("ecg signal not found")
	ErrResultNotFound  = errors.New("ecg result not found")
	ErrNotDoctor       = errors.New("only doctors can review results")
	ErrNothingToUpdate = errors.New("no fields to update")
)
