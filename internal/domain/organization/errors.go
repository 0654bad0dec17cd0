package organization

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrCodeTaken          = errors.New("company code already in use")
	ErrInvalidCode        = errors.New("invalid company code")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrSelfRemoval        = errors.New("cannot remove yourself")
	ErrInvalid            = errors.New("invalid input")
)
