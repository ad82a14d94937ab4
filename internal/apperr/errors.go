package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrSearchDisabled = errors.New("search disabled")
)
