package services

import (
	"context"
	"testing"
	"time"

	"cerclepartages/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
}

func newAuthServiceForTest(userRepo *fakeUserRepo, roleRepo *fakeRoleRepo, profileRepo *fakeProfileRepo, invRepo *fakeInvitationRepo) domain.AuthService {
	return NewAuthService(userRepo, roleRepo, profileRepo, invRepo,
		fakePasswordHasher{}, fakeTokenIssuer{}, 24*time.Hour, 5*time.Second, fixedNow)
}

func TestAuthService_AcceptInvitation(t *testing.T) {
	ctx := context.Background()

	pendingInvitation := func(invRepo *fakeInvitationRepo) *domain.Invitation {
		inv := &domain.Invitation{
			Token:     "tok-1",
			Email:     "Jean@Example.com",
			Role:      domain.RolePresenter,
			Status:    domain.InvitationStatusPending,
			ExpiresAt: fixedNow().Add(24 * time.Hour),
		}
		require.NoError(t, invRepo.Create(ctx, inv))
		return inv
	}

	t.Run("creates account with invitation role and signs in", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		roleRepo := newFakeRoleRepo()
		profileRepo := newFakeProfileRepo()
		invRepo := newFakeInvitationRepo()
		pendingInvitation(invRepo)
		svc := newAuthServiceForTest(userRepo, roleRepo, profileRepo, invRepo)

		token, identity, err := svc.AcceptInvitation(ctx, "tok-1", "", "motdepasse8", "Jean", "Dupont")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		require.NotNil(t, identity)
		assert.Equal(t, "jean@example.com", identity.User.Email)
		assert.NotNil(t, identity.User.EmailConfirmedAt)
		assert.Equal(t, "Jean Dupont", identity.Profile.DisplayName())

		// Token is spent.
		inv, err := invRepo.GetByToken(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, domain.InvitationStatusUsed, inv.Status)

		// Presenter role was assigned.
		assert.Equal(t, []string{roleRepo.byCode[domain.RolePresenter].ID}, userRepo.roles[identity.User.ID])
	})

	t.Run("used token", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		invRepo := newFakeInvitationRepo()
		inv := pendingInvitation(invRepo)
		invRepo.byToken[inv.Token].Status = domain.InvitationStatusUsed
		svc := newAuthServiceForTest(userRepo, newFakeRoleRepo(), newFakeProfileRepo(), invRepo)

		_, _, err := svc.AcceptInvitation(ctx, "tok-1", "", "motdepasse8", "Jean", "Dupont")
		assert.ErrorIs(t, err, domain.ErrInvitationUsed)
		assert.Empty(t, userRepo.byID)
	})

	t.Run("expired token is lazily marked", func(t *testing.T) {
		invRepo := newFakeInvitationRepo()
		inv := pendingInvitation(invRepo)
		invRepo.byToken[inv.Token].ExpiresAt = fixedNow().Add(-time.Hour)
		svc := newAuthServiceForTest(newFakeUserRepo(), newFakeRoleRepo(), newFakeProfileRepo(), invRepo)

		_, _, err := svc.AcceptInvitation(ctx, "tok-1", "", "motdepasse8", "Jean", "Dupont")
		assert.ErrorIs(t, err, domain.ErrInvitationExpired)
		assert.Equal(t, domain.InvitationStatusExpired, invRepo.byToken[inv.Token].Status)
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := newAuthServiceForTest(newFakeUserRepo(), newFakeRoleRepo(), newFakeProfileRepo(), newFakeInvitationRepo())
		_, _, err := svc.AcceptInvitation(ctx, "absent", "", "motdepasse8", "", "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("short password rejected before consuming", func(t *testing.T) {
		invRepo := newFakeInvitationRepo()
		inv := pendingInvitation(invRepo)
		svc := newAuthServiceForTest(newFakeUserRepo(), newFakeRoleRepo(), newFakeProfileRepo(), invRepo)

		_, _, err := svc.AcceptInvitation(ctx, "tok-1", "", "court", "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, domain.InvitationStatusPending, invRepo.byToken[inv.Token].Status)
	})

	t.Run("invitation address wins over the request", func(t *testing.T) {
		invRepo := newFakeInvitationRepo()
		pendingInvitation(invRepo)
		svc := newAuthServiceForTest(newFakeUserRepo(), newFakeRoleRepo(), newFakeProfileRepo(), invRepo)

		_, identity, err := svc.AcceptInvitation(ctx, "tok-1", "autre@example.com", "motdepasse8", "Jean", "Dupont")
		require.NoError(t, err)
		assert.Equal(t, "jean@example.com", identity.User.Email)
	})

	t.Run("open invitation takes the address from the request", func(t *testing.T) {
		invRepo := newFakeInvitationRepo()
		require.NoError(t, invRepo.Create(ctx, &domain.Invitation{
			Token:     "tok-open",
			Role:      domain.RoleParticipant,
			Status:    domain.InvitationStatusPending,
			ExpiresAt: fixedNow().Add(24 * time.Hour),
		}))
		svc := newAuthServiceForTest(newFakeUserRepo(), newFakeRoleRepo(), newFakeProfileRepo(), invRepo)

		_, identity, err := svc.AcceptInvitation(ctx, "tok-open", "Nouveau@Example.com", "motdepasse8", "Marie", "Curie")
		require.NoError(t, err)
		assert.Equal(t, "nouveau@example.com", identity.User.Email)
		assert.Equal(t, "nouveau@example.com", identity.Profile.Email)
	})

	t.Run("open invitation without an address is rejected before consuming", func(t *testing.T) {
		invRepo := newFakeInvitationRepo()
		require.NoError(t, invRepo.Create(ctx, &domain.Invitation{
			Token:     "tok-open",
			Role:      domain.RoleParticipant,
			Status:    domain.InvitationStatusPending,
			ExpiresAt: fixedNow().Add(24 * time.Hour),
		}))
		userRepo := newFakeUserRepo()
		svc := newAuthServiceForTest(userRepo, newFakeRoleRepo(), newFakeProfileRepo(), invRepo)

		_, _, err := svc.AcceptInvitation(ctx, "tok-open", "", "motdepasse8", "", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, domain.InvitationStatusPending, invRepo.byToken["tok-open"].Status)
		assert.Empty(t, userRepo.byID)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeUserRepo, *fakeRoleRepo, *fakeProfileRepo, domain.AuthService) {
		userRepo := newFakeUserRepo()
		roleRepo := newFakeRoleRepo()
		profileRepo := newFakeProfileRepo()
		user := &domain.User{ID: "user-1", Email: "jean@example.com", Salt: "salt", PasswordHash: "hash-salt-motdepasse8"}
		userRepo.add(user)
		svc := newAuthServiceForTest(userRepo, roleRepo, profileRepo, newFakeInvitationRepo())
		return userRepo, roleRepo, profileRepo, svc
	}

	t.Run("success touches last sign in", func(t *testing.T) {
		userRepo, roleRepo, profileRepo, svc := setup()
		roleRepo.listByUID["user-1"] = []*domain.Role{roleRepo.byCode[domain.RoleAdmin]}
		profileRepo.byUserID["user-1"] = &domain.Profile{UserID: "user-1", FirstName: "Jean"}

		token, identity, err := svc.Login(ctx, "Jean@Example.com ", "motdepasse8")
		require.NoError(t, err)
		assert.Equal(t, "token-user-1", token)
		assert.True(t, identity.IsAdmin)
		assert.False(t, identity.IsPresenter)
		assert.NotNil(t, userRepo.byID["user-1"].LastSignInAt)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, svc := setup()
		_, _, err := svc.Login(ctx, "jean@example.com", "mauvais-mdp")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, svc := setup()
		_, _, err := svc.Login(ctx, "absent@example.com", "motdepasse8")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestAuthService_Resolve(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	profileRepo := newFakeProfileRepo()
	userRepo.add(&domain.User{ID: "user-1", Email: "marie@example.com"})
	// Presenter via profile flag only, no presenter role.
	profileRepo.byUserID["user-1"] = &domain.Profile{UserID: "user-1", IsPresenter: true}
	svc := newAuthServiceForTest(userRepo, roleRepo, profileRepo, newFakeInvitationRepo())

	identity, err := svc.Resolve(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, identity.IsAdmin)
	assert.True(t, identity.IsPresenter)

	_, err = svc.Resolve(ctx, "absent")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
