package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cerclepartages/internal/domain"
)

type profileService struct {
	profileRepo    domain.ProfileRepository
	contextTimeout time.Duration
}

func NewProfileService(profileRepo domain.ProfileRepository, timeout time.Duration) domain.ProfileService {
	return &profileService{
		profileRepo:    profileRepo,
		contextTimeout: timeout,
	}
}

func (s *profileService) GetOwn(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Lazy creation: absent profile reads as an empty one.
			return &domain.Profile{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// UpdateOwn never touches the presenter flag; members cannot promote
// themselves.
func (s *profileService) UpdateOwn(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.profileRepo.GetByUserID(ctx, profile.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if existing != nil {
		profile.IsPresenter = existing.IsPresenter
		if profile.AvatarURL == "" {
			profile.AvatarURL = existing.AvatarURL
		}
	} else {
		profile.IsPresenter = false
	}
	return s.upsert(ctx, profile)
}

func (s *profileService) UpdateAny(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.upsert(ctx, profile)
}

func (s *profileService) upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	profile.FirstName = strings.TrimSpace(profile.FirstName)
	profile.LastName = strings.TrimSpace(profile.LastName)
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) ListPresenters(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profiles, err := s.profileRepo.ListPresenters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presenters: %w", err)
	}
	return profiles, nil
}

func (s *profileService) RemovePresenter(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.profileRepo.SetPresenterFlag(ctx, userID, false)
}

func (s *profileService) SetAvatarURL(ctx context.Context, userID, url string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get profile: %w", err)
		}
		profile = &domain.Profile{UserID: userID}
	}
	profile.AvatarURL = url
	return s.profileRepo.Upsert(ctx, profile)
}
