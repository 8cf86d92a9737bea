package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cerclepartages/internal/domain"
)

type userAdminService struct {
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	profileRepo    domain.ProfileRepository
	contextTimeout time.Duration
}

func NewUserAdminService(
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	profileRepo domain.ProfileRepository,
	timeout time.Duration,
) domain.UserAdminService {
	return &userAdminService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		profileRepo:    profileRepo,
		contextTimeout: timeout,
	}
}

func (s *userAdminService) ListUsers(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.UserWithProfile, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, total, err := s.userRepo.List(ctx, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	out := make([]*domain.UserWithProfile, 0, len(users))
	for _, user := range users {
		profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, 0, fmt.Errorf("get profile: %w", err)
		}
		roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("list roles: %w", err)
		}
		out = append(out, &domain.UserWithProfile{
			User:    user,
			Profile: profile,
			Roles:   domain.RoleCodes(roles),
		})
	}
	return out, total, nil
}

// DeleteUser removes the account; registrations and role rows follow
// by cascade. Presenter-eligible profiles are never hard-deleted: the
// row survives with the flag cleared so past events hold on to their
// presenter. Other profiles are removed with the account.
func (s *userAdminService) DeleteUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	roles, err := s.roleRepo.ListByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get profile: %w", err)
	}

	switch {
	case domain.PresenterEligible(roles, profile):
		// The row stays detached so past events keep their presenter;
		// the flag is cleared like a presenter removal.
		if profile != nil && profile.IsPresenter {
			if err := s.profileRepo.SetPresenterFlag(ctx, userID, false); err != nil {
				return fmt.Errorf("clear presenter flag: %w", err)
			}
		}
	case profile != nil:
		if err := s.profileRepo.Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
	}

	return s.userRepo.Delete(ctx, userID)
}
