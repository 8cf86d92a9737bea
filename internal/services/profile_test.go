package services

import (
	"context"
	"testing"
	"time"

	"cerclepartages/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture() (domain.ProfileService, *fakeProfileRepo) {
	repo := newFakeProfileRepo()
	return NewProfileService(repo, 5*time.Second), repo
}

func TestProfileService_GetOwn(t *testing.T) {
	t.Run("existing profile", func(t *testing.T) {
		svc, repo := newProfileFixture()
		repo.byUserID["user-1"] = &domain.Profile{UserID: "user-1", FirstName: "Jean", LastName: "Dupont"}

		p, err := svc.GetOwn(context.Background(), "user-1")

		require.NoError(t, err)
		assert.Equal(t, "Jean", p.FirstName)
	})

	t.Run("absent profile reads as empty", func(t *testing.T) {
		svc, _ := newProfileFixture()

		p, err := svc.GetOwn(context.Background(), "user-9")

		require.NoError(t, err)
		assert.Equal(t, "user-9", p.UserID)
		assert.Empty(t, p.FirstName)
	})
}

func TestProfileService_UpdateOwn(t *testing.T) {
	t.Run("keeps presenter flag and avatar", func(t *testing.T) {
		svc, repo := newProfileFixture()
		repo.byUserID["user-1"] = &domain.Profile{
			UserID:      "user-1",
			FirstName:   "Jean",
			IsPresenter: true,
			AvatarURL:   "https://cdn.example.org/a.png",
		}

		p, err := svc.UpdateOwn(context.Background(), &domain.Profile{
			UserID:      "user-1",
			FirstName:   "  Jean ",
			LastName:    "Dupont",
			IsPresenter: false,
		})

		require.NoError(t, err)
		assert.True(t, p.IsPresenter, "members cannot clear their own presenter flag")
		assert.Equal(t, "https://cdn.example.org/a.png", p.AvatarURL)
		assert.Equal(t, "Jean", p.FirstName, "names are trimmed")
	})

	t.Run("first write never grants presenter", func(t *testing.T) {
		svc, repo := newProfileFixture()

		p, err := svc.UpdateOwn(context.Background(), &domain.Profile{
			UserID:      "user-2",
			FirstName:   "Marie",
			IsPresenter: true,
		})

		require.NoError(t, err)
		assert.False(t, p.IsPresenter)
		assert.False(t, repo.byUserID["user-2"].IsPresenter)
	})
}

func TestProfileService_UpdateAny(t *testing.T) {
	svc, repo := newProfileFixture()
	repo.byUserID["user-1"] = &domain.Profile{UserID: "user-1", FirstName: "Jean"}

	p, err := svc.UpdateAny(context.Background(), &domain.Profile{
		UserID:      "user-1",
		FirstName:   "Jean",
		IsPresenter: true,
	})

	require.NoError(t, err)
	assert.True(t, p.IsPresenter, "admin path may toggle the flag")
}

func TestProfileService_RemovePresenter(t *testing.T) {
	t.Run("clears the flag", func(t *testing.T) {
		svc, repo := newProfileFixture()
		repo.byUserID["user-1"] = &domain.Profile{UserID: "user-1", IsPresenter: true}

		require.NoError(t, svc.RemovePresenter(context.Background(), "user-1"))
		assert.False(t, repo.byUserID["user-1"].IsPresenter)
	})

	t.Run("unknown profile", func(t *testing.T) {
		svc, _ := newProfileFixture()
		assert.ErrorIs(t, svc.RemovePresenter(context.Background(), "ghost"), domain.ErrNotFound)
	})
}

func TestProfileService_SetAvatarURL(t *testing.T) {
	t.Run("existing profile", func(t *testing.T) {
		svc, repo := newProfileFixture()
		repo.byUserID["user-1"] = &domain.Profile{UserID: "user-1", FirstName: "Jean"}

		require.NoError(t, svc.SetAvatarURL(context.Background(), "user-1", "https://cdn.example.org/new.png"))
		assert.Equal(t, "https://cdn.example.org/new.png", repo.byUserID["user-1"].AvatarURL)
		assert.Equal(t, "Jean", repo.byUserID["user-1"].FirstName, "other fields untouched")
	})

	t.Run("creates the profile row when absent", func(t *testing.T) {
		svc, repo := newProfileFixture()

		require.NoError(t, svc.SetAvatarURL(context.Background(), "user-3", "https://cdn.example.org/p.png"))
		require.Contains(t, repo.byUserID, "user-3")
		assert.Equal(t, "https://cdn.example.org/p.png", repo.byUserID["user-3"].AvatarURL)
	})
}

func TestProfileService_ListPresenters(t *testing.T) {
	svc, repo := newProfileFixture()
	repo.byUserID["user-1"] = &domain.Profile{UserID: "user-1", IsPresenter: true}
	repo.byUserID["user-2"] = &domain.Profile{UserID: "user-2"}

	out, err := svc.ListPresenters(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "user-1", out[0].UserID)
}
