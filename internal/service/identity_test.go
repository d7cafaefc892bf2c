package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"promptdesk/internal/auth"
	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
)

func TestResolveRejectsBadIdentities(t *testing.T) {
	env := newTestEnv()
	env.addUser(t, "alice", "Alice", models.RoleUser)

	inactive := env.addUser(t, "idle", "Idle", models.RoleUser)
	inactive.IsActive = false
	require.NoError(t, env.users.Update(context.Background(), inactive))

	gone := env.addUser(t, "gone", "Gone", models.RoleUser)
	now := time.Now()
	gone.DeletedAt = &now
	require.NoError(t, env.users.Update(context.Background(), gone))

	tests := []struct {
		name   string
		userID string
		wantOK bool
	}{
		{"active user resolves", "alice", true},
		{"empty id rejected", "", false},
		{"unknown id rejected", "nobody", false},
		{"inactive user rejected", "idle", false},
		{"deleted user rejected", "gone", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := env.identity.Resolve(context.Background(), tt.userID)
			if tt.wantOK {
				require.NoError(t, err)
				assert.Equal(t, tt.userID, user.ID)
				return
			}
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestResolveLoadsGrants(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser(t, "admin", "Admin", models.RoleSuperAdmin)
	env.addUser(t, "bob", "Bob", models.RoleUser)

	dept := env.addDepartment(t, "IT", admin.ID)
	env.grant(t, "bob", dept.ID)

	bob, err := env.identity.Resolve(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, bob.HasGrantOn(dept.ID))
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	hash, err := auth.HashPassword("opensesame1")
	require.NoError(t, err)
	require.NoError(t, env.users.Create(ctx, &models.User{
		ID:           "carol",
		Email:        "carol@example.com",
		FullName:     "Carol",
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}))

	user, err := env.identity.Login(ctx, "carol@example.com", "opensesame1")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.ID)

	_, err = env.identity.Login(ctx, "carol@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.identity.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = env.identity.Login(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
