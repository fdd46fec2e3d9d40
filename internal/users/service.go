package users

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/carelinkhq/carelink-api/internal/auth"
	"github.com/carelinkhq/carelink-api/pkg/logging"
)

// TokenIssuer mints session tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(userID string, role auth.Role) (string, error)
}

// Service implements signup and login for all three roles.
type Service struct {
	repo   Repository
	tokens TokenIssuer
	logger *logging.Logger
}

// NewService creates an identity service.
func NewService(repo Repository, tokens TokenIssuer, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Signup registers a new account. Doctors start unapproved and cannot
// log in until an admin approves them.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := req.NormalizedEmail()
	if _, err := s.repo.GetByEmail(ctx, req.Role, email); err == nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}

	user := &User{
		Name:           req.Name,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           req.Role,
		Phone:          req.Phone,
		IsActive:       true,
		Specialization: req.Specialization,
		IsApproved:     req.Role != auth.RoleDoctor,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("account registered", "id", user.ID, "role", user.Role, "email", user.Email)
	return user, nil
}

// Login validates credentials and returns the account with a session
// token. Unapproved doctors and suspended accounts are rejected even
// with a correct password.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, string, error) {
	if req.Email == "" || req.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, req.Role, normalizeEmail(req.Email))
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", ErrAccountSuspended
	}
	if user.Role == auth.RoleDoctor && !user.IsApproved {
		return nil, "", ErrDoctorNotApproved
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("users: issue token: %w", err)
	}

	s.logger.Info("login succeeded", "id", user.ID, "role", user.Role)
	return user, token, nil
}

func normalizeEmail(email string) string {
	req := SignupRequest{Email: email}
	return req.NormalizedEmail()
}
