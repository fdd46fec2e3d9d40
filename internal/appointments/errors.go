package appointments

import "errors"

var (
	ErrMissingPatient  = errors.New("patient is required")
	ErrMissingDoctor   = errors.New("doctor is required")
	ErrMissingSchedule = errors.New("scheduled time is required")
	ErrMissingSex      = errors.New("sex is required")
	ErrMissingReason   = errors.New("reason is required")

	ErrNotFound          = errors.New("appointment not found")
	ErrUnknownDoctor     = errors.New("doctor not found")
	ErrInvalidStatus     = errors.New("invalid appointment status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)
