package services

import (
	"context"

	"promptdesk/internal/domain/models"
)

// IdentityResolver maps an authenticated session subject to a persisted user
// record with its role and full grant set. Every access-sensitive operation
// resolves identity through this interface before doing anything else.
type IdentityResolver interface {
	// Resolve returns the active user for the given subject id.
	// Unknown, inactive or soft-deleted users yield ErrUnauthorized.
	Resolve(ctx context.Context, userID string) (*models.User, error)

	// Login verifies credentials and returns the matching active user.
	// The caller turns the identity into a session token.
	Login(ctx context.Context, email, password string) (*models.User, error)
}
