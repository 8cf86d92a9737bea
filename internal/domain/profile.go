package domain

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DefaultDisplayName is shown when a profile has no usable name parts.
const DefaultDisplayName = "Sans nom"

// Profile is the application-level record keyed by the user ID.
// Created lazily on first write; presenter profiles are never deleted,
// removal only clears the presenter flag.
// swagger:model Profile
type Profile struct {
	UserID      string    `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Bio         string    `json:"bio"`
	Background  string    `json:"background"`
	AvatarURL   string    `json:"avatar_url"`
	IsPresenter bool      `json:"is_presenter"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName returns "first last" with edge and interior whitespace
// collapsed, falling back to whichever part is present, and to
// DefaultDisplayName when the profile is absent or both parts empty.
func (p *Profile) DisplayName() string {
	if p == nil {
		return DefaultDisplayName
	}
	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	}
	return DefaultDisplayName
}

// Initials returns the uppercase first letters of the name parts
// ("JD"), a single letter when only one part is present, or "?" when
// neither is.
func (p *Profile) Initials() string {
	if p == nil {
		return "?"
	}
	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	var b strings.Builder
	if first != "" {
		r, _ := utf8.DecodeRuneInString(first)
		b.WriteRune(unicode.ToUpper(r))
	}
	if last != "" {
		r, _ := utf8.DecodeRuneInString(last)
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// PresenterEligible is the single place the presenter OR is computed:
// a member may present when they hold the presenter role or their
// profile carries the presenter flag. Callers must not re-derive this.
func PresenterEligible(roles []*Role, profile *Profile) bool {
	if HasRole(roles, RolePresenter) {
		return true
	}
	return profile != nil && profile.IsPresenter
}

// ProfileRepository defines the interface for profile storage.
// Upsert implements the lazy creation semantics: insert when missing,
// update otherwise.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	ListPresenters(ctx context.Context) ([]*Profile, error)
	SetPresenterFlag(ctx context.Context, userID string, isPresenter bool) error
	// Delete removes the row; deleting a missing profile is a no-op.
	Delete(ctx context.Context, userID string) error
}

// ProfileService defines profile operations.
type ProfileService interface {
	GetOwn(ctx context.Context, userID string) (*Profile, error)
	UpdateOwn(ctx context.Context, profile *Profile) (*Profile, error)
	// UpdateAny is the admin path; it may also toggle the presenter flag.
	UpdateAny(ctx context.Context, profile *Profile) (*Profile, error)
	ListPresenters(ctx context.Context) ([]*Profile, error)
	// RemovePresenter clears the presenter flag; the profile row stays.
	RemovePresenter(ctx context.Context, userID string) error
	SetAvatarURL(ctx context.Context, userID, url string) error
}
