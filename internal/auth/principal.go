package auth

import "context"

// Role identifies the account type carried in a token.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ParseRole normalizes a role string and reports whether it is known.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RolePatient, RoleDoctor, RoleAdmin:
		return Role(raw), true
	default:
		return "", false
	}
}

// Principal is the verified identity attached to a request. It is
// produced once by the auth middleware and passed down via context so
// handlers never re-parse tokens or re-derive roles.
type Principal struct {
	ID   string
	Role Role
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the given principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the request principal if present.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
