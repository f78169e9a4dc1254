package patient

import "errors"

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrHospitalNotFound = errors.New("hospital not found")
	ErrDuplicatePatient = errors.New("patient already exists")
	ErrNothingToUpdate  = errors.New("no fields to update")
	ErrInvalidFilter    = errors.New("invalid filter value")
)
