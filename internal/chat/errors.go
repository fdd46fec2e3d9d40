package chat

import "errors"

var (
	ErrNotFound           = errors.New("chat not found")
	ErrDuplicateChat      = errors.New("chat already exists for appointment")
	ErrEmptyMessage       = errors.New("message content is required")
	ErrMissingAppointment = errors.New("appointment is required")
)
