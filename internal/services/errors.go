package services

import "errors"

// Domain error taxonomy. Validation and invariant checks run before any
// mutating store call; none of these errors can leave corrupted state
// behind. Handlers map them to HTTP status codes. There is no retry
// policy anywhere in the services - retries are a caller decision.
var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateCredential = errors.New("credential already in use")
	ErrProductNotFound     = errors.New("product not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInvalidBackupFormat = errors.New("invalid backup format")
	ErrLastAdminProtected  = errors.New("cannot delete the last admin")
)
