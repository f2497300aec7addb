package models

import "errors"

// Sentinel errors returned by the service layer and mapped to HTTP
// statuses by handlers. NotFound means the referenced resource does not
// exist; Forbidden means it exists but the caller lacks the required
// relationship or role.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)
