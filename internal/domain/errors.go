package domain

import "errors"

// Domain errors returned by the API service; the handler layer maps them to
// HTTP status codes.
var (
	ErrNotFound        = errors.New("not found")
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("conflict")
	ErrUnknownResource = errors.New("unknown resource")
)
