package services

import (
	"context"
	"testing"
	"time"

	"cerclepartages/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserAdminService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("regular member loses account and profile", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		roleRepo := newFakeRoleRepo()
		profileRepo := newFakeProfileRepo()
		userRepo.add(&domain.User{ID: "user-1", Email: "jean@example.com"})
		roleRepo.listByUID["user-1"] = []*domain.Role{roleRepo.byCode[domain.RoleParticipant]}
		profileRepo.byUserID["user-1"] = &domain.Profile{UserID: "user-1", FirstName: "Jean"}
		svc := NewUserAdminService(userRepo, roleRepo, profileRepo, 5*time.Second)

		require.NoError(t, svc.DeleteUser(ctx, "user-1"))
		assert.Empty(t, userRepo.byID)
		assert.Empty(t, profileRepo.byUserID)
	})

	t.Run("flagged presenter keeps the profile with the flag cleared", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		roleRepo := newFakeRoleRepo()
		profileRepo := newFakeProfileRepo()
		userRepo.add(&domain.User{ID: "user-1", Email: "anne@example.com"})
		roleRepo.listByUID["user-1"] = []*domain.Role{roleRepo.byCode[domain.RoleParticipant]}
		profileRepo.byUserID["user-1"] = &domain.Profile{UserID: "user-1", FirstName: "Anne", IsPresenter: true}
		svc := NewUserAdminService(userRepo, roleRepo, profileRepo, 5*time.Second)

		require.NoError(t, svc.DeleteUser(ctx, "user-1"))
		assert.Empty(t, userRepo.byID)
		kept, err := profileRepo.GetByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.False(t, kept.IsPresenter)
		assert.Equal(t, "Anne", kept.FirstName)
	})

	t.Run("role-only presenter keeps the profile", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		roleRepo := newFakeRoleRepo()
		profileRepo := newFakeProfileRepo()
		userRepo.add(&domain.User{ID: "user-1", Email: "luc@example.com"})
		roleRepo.listByUID["user-1"] = []*domain.Role{roleRepo.byCode[domain.RolePresenter]}
		profileRepo.byUserID["user-1"] = &domain.Profile{UserID: "user-1", FirstName: "Luc"}
		svc := NewUserAdminService(userRepo, roleRepo, profileRepo, 5*time.Second)

		require.NoError(t, svc.DeleteUser(ctx, "user-1"))
		assert.Empty(t, userRepo.byID)
		kept, err := profileRepo.GetByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Luc", kept.FirstName)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewUserAdminService(newFakeUserRepo(), newFakeRoleRepo(), newFakeProfileRepo(), 5*time.Second)
		assert.ErrorIs(t, svc.DeleteUser(ctx, "ghost"), domain.ErrNotFound)
	})
}
