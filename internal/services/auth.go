package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cerclepartages/internal/domain"
)

const minPasswordLen = 8

type authService struct {
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	profileRepo    domain.ProfileRepository
	invitationRepo domain.InvitationRepository
	hasher         domain.PasswordHasher
	issuer         domain.TokenIssuer
	tokenExpiry    time.Duration
	contextTimeout time.Duration
	now            func() time.Time
}

// NewAuthService creates an AuthService. The now func is injectable
// for tests; pass time.Now in production wiring.
func NewAuthService(
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	profileRepo domain.ProfileRepository,
	invitationRepo domain.InvitationRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	timeout time.Duration,
	now func() time.Time,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		profileRepo:    profileRepo,
		invitationRepo: invitationRepo,
		hasher:         hasher,
		issuer:         issuer,
		tokenExpiry:    tokenExpiry,
		contextTimeout: timeout,
		now:            now,
	}
}

// AcceptInvitation consumes the token exactly once. When Consume loses
// the row is re-read to report whether the token was used, expired, or
// unknown.
func (s *authService) AcceptInvitation(ctx context.Context, token, email, password, firstName, lastName string) (string, *domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(password) < minPasswordLen {
		return "", nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	inv, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrNotFound
		}
		return "", nil, fmt.Errorf("get invitation: %w", err)
	}

	// The invitation's address is authoritative; only open invitations
	// take the address from the request. Checked before Consume so a
	// missing address does not burn the token.
	accountEmail := strings.TrimSpace(strings.ToLower(inv.Email))
	if accountEmail == "" {
		accountEmail = strings.TrimSpace(strings.ToLower(email))
	}
	if accountEmail == "" {
		return "", nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	now := s.now()
	consumed, err := s.invitationRepo.Consume(ctx, token, now)
	if err != nil {
		return "", nil, fmt.Errorf("consume invitation: %w", err)
	}
	if !consumed {
		if inv.Status == domain.InvitationStatusUsed {
			return "", nil, domain.ErrInvitationUsed
		}
		if inv.Expired(now) {
			if err := s.invitationRepo.MarkExpired(ctx, inv.ID); err != nil {
				return "", nil, fmt.Errorf("mark expired: %w", err)
			}
			return "", nil, domain.ErrInvitationExpired
		}
		// Lost a race with another acceptance of the same token.
		return "", nil, domain.ErrInvitationUsed
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return "", nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(accountEmail, hash, salt, now, now)
	user.EmailConfirmedAt = &now
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, err
	}

	roleCode := inv.Role
	if !domain.ValidRoleCode(roleCode) {
		roleCode = domain.RoleParticipant
	}
	role, err := s.roleRepo.GetByCode(ctx, roleCode)
	if err != nil {
		return "", nil, fmt.Errorf("get role: %w", err)
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return "", nil, fmt.Errorf("assign role: %w", err)
	}

	profile := &domain.Profile{
		UserID:    user.ID,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     accountEmail,
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return "", nil, fmt.Errorf("create profile: %w", err)
	}

	return s.signIn(ctx, user)
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUserNotFound
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrUserNotFound
	}

	now := s.now()
	if err := s.userRepo.TouchLastSignIn(ctx, user.ID, now); err != nil {
		return "", nil, fmt.Errorf("touch last sign in: %w", err)
	}
	user.LastSignInAt = &now

	return s.signIn(ctx, user)
}

func (s *authService) Resolve(ctx context.Context, userID string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.buildIdentity(ctx, user)
}

func (s *authService) signIn(ctx context.Context, user *domain.User) (string, *domain.Identity, error) {
	identity, err := s.buildIdentity(ctx, user)
	if err != nil {
		return "", nil, err
	}
	token, err := s.issuer.Issue(user.ID, user.Email, identity.Roles, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, identity, nil
}

func (s *authService) buildIdentity(ctx context.Context, user *domain.User) (*domain.Identity, error) {
	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &domain.Identity{
		User:        user,
		Profile:     profile,
		Roles:       domain.RoleCodes(roles),
		IsAdmin:     domain.HasRole(roles, domain.RoleAdmin),
		IsPresenter: domain.PresenterEligible(roles, profile),
	}, nil
}
