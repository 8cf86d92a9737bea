package domain

import (
	"context"
	"time"
)

// Role codes. A user may hold several role rows.
const (
	RoleAdmin       = "admin"
	RolePresenter   = "presenter"
	RoleParticipant = "participant"
)

// ValidRoleCode reports whether code is one of the fixed role enumeration.
func ValidRoleCode(code string) bool {
	switch code {
	case RoleAdmin, RolePresenter, RoleParticipant:
		return true
	}
	return false
}

// User represents a member account.
// swagger:model User
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Salt             string     `json:"-"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	LastSignInAt     *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewUser returns a new User. ID is set by the repository on create.
func NewUser(email, passwordHash, salt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Role represents an application role row.
type Role struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// HasRole reports whether roles contains the given code.
func HasRole(roles []*Role, code string) bool {
	for _, r := range roles {
		if r != nil && r.Code == code {
			return true
		}
	}
	return false
}

// RoleCodes returns the codes of the given roles, in order.
func RoleCodes(roles []*Role) []string {
	codes := make([]string, len(roles))
	for i, r := range roles {
		codes[i] = r.Code
	}
	return codes
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	TouchLastSignIn(ctx context.Context, userID string, at time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string, params PaginationParams) ([]*User, int, error)
	AssignRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}

// RoleRepository defines the interface for role storage
type RoleRepository interface {
	GetByCode(ctx context.Context, code string) (*Role, error)
	ListByUserID(ctx context.Context, userID string) ([]*Role, error)
}

// Identity bundles everything a client needs to resolve the current
// member in a single response: account, profile, role set, and the
// derived flags computed server-side so callers never re-derive them.
type Identity struct {
	User        *User    `json:"user"`
	Profile     *Profile `json:"profile"`
	Roles       []string `json:"roles"`
	IsAdmin     bool     `json:"is_admin"`
	IsPresenter bool     `json:"is_presenter"`
}

// AuthService defines authentication and identity resolution.
type AuthService interface {
	// AcceptInvitation consumes the invitation token exactly once,
	// creates the account with the invitation's role, and signs in.
	// The invitation's address wins; email is only used when the
	// invitation carries none, and is then required.
	AcceptInvitation(ctx context.Context, token, email, password, firstName, lastName string) (jwt string, identity *Identity, err error)
	Login(ctx context.Context, email, password string) (jwt string, identity *Identity, err error)
	// Resolve returns the identity for an authenticated user ID.
	Resolve(ctx context.Context, userID string) (*Identity, error)
}

// UserAdminService defines privileged account operations. Every
// implementation must be wired behind an admin role check performed
// server-side; the caller's self-reported role is never trusted.
type UserAdminService interface {
	ListUsers(ctx context.Context, search string, params PaginationParams) ([]*UserWithProfile, int, error)
	DeleteUser(ctx context.Context, userID string) error
}

// UserWithProfile bundles an account with its profile and role codes
// for admin listings.
type UserWithProfile struct {
	User    *User    `json:"user"`
	Profile *Profile `json:"profile"`
	Roles   []string `json:"roles"`
}
