package ladder

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidPin          = errors.New("invalid pin")
	ErrNameTaken           = errors.New("name already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid state")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUndoUnsupported     = errors.New("undo is not supported")
)
