package followup

import "errors"

var (
	ErrNotFound        = errors.New("follow-up not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalid         = errors.New("invalid follow-up")
)
