package users

import (
	"strings"
	"time"

	"github.com/carelinkhq/carelink-api/internal/auth"
)

// User is an account record. One collection holds all three roles; the
// doctor-only fields stay zero for patients and admins.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         auth.Role `json:"role" bson:"role"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	StatusReason string    `json:"status_reason,omitempty" bson:"status_reason,omitempty"`

	// Doctor profile.
	Specialization string  `json:"specialization,omitempty" bson:"specialization,omitempty"`
	IsApproved     bool    `json:"is_approved" bson:"is_approved"`
	Rating         float64 `json:"rating" bson:"rating"`
	TotalReviews   int     `json:"total_reviews" bson:"total_reviews"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// SignupRequest is the request body for account registration.
type SignupRequest struct {
	Role           auth.Role `json:"-"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"password"`
	Phone          string    `json:"phone"`
	Specialization string    `json:"specialization"`
}

// Validate checks required fields. Doctors additionally need a
// specialization and a contact phone before an admin can vet them.
func (r *SignupRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	if r.Password == "" {
		return ErrMissingPassword
	}
	if r.Role == auth.RoleDoctor {
		if strings.TrimSpace(r.Specialization) == "" {
			return ErrMissingSpecialization
		}
		if strings.TrimSpace(r.Phone) == "" {
			return ErrMissingPhone
		}
	}
	return nil
}

// NormalizedEmail returns the lowercase, trimmed email used as the
// uniqueness key.
func (r *SignupRequest) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(r.Email))
}

// LoginRequest is the request body for authentication.
type LoginRequest struct {
	Role     auth.Role `json:"-"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
}

// ProfileUpdate carries the mutable profile fields. Approval, rating,
// review counts and credentials are never updatable through this path.
type ProfileUpdate struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Specialization *string `json:"specialization"`
}

// DoctorFilter scopes public doctor-directory listings.
type DoctorFilter struct {
	Specialization string
	Approved       *bool
	MinRating      float64
	Search         string
}

// ListFilter scopes admin user listings.
type ListFilter struct {
	Role   auth.Role
	Active *bool
	Search string
	Page   int
	Limit  int
}
