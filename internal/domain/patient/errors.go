package patient

import "errors"

var (
	ErrNotFound = errors.New("patient not found")
	ErrInvalid  = errors.New("invalid input")
)
