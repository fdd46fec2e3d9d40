package users

import "errors"

var (
	// ErrMissingName is returned when the name is absent
	ErrMissingName = errors.New("name is required")

	// ErrMissingEmail is returned when the email is absent
	ErrMissingEmail = errors.New("email is required")

	// ErrMissingPassword is returned when the password is absent
	ErrMissingPassword = errors.New("password is required")

	// ErrMissingSpecialization is returned when a doctor signup lacks a specialization
	ErrMissingSpecialization = errors.New("specialization is required")

	// ErrMissingPhone is returned when a doctor signup lacks a phone number
	ErrMissingPhone = errors.New("phone is required")

	// ErrDuplicateEmail is returned when an account already exists for the email/role pair
	ErrDuplicateEmail = errors.New("account already exists")

	// ErrNotFound is returned when no account matches
	ErrNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned when the password does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDoctorNotApproved is returned when an unapproved doctor attempts to log in
	ErrDoctorNotApproved = errors.New("account pending admin approval")

	// ErrAccountSuspended is returned when a suspended account attempts to log in
	ErrAccountSuspended = errors.New("account suspended")
)
