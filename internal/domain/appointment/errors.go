package appointment

import "errors"

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalid         = errors.New("invalid appointment")
)
