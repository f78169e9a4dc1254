package geo

import "errors"

var (
	ErrCountryNotFound  = errors.New("country not found")
	ErrRegionNotFound   = errors.New("region not found")
	ErrHospitalNotFound = errors.New("hospital not found")
	ErrDuplicateCode    = errors.New("hospital code already exists")
	ErrNothingToUpdate  = errors.New("no fields to update")
)
