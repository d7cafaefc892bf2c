package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"promptdesk/internal/auth"
	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/repositories"
	"promptdesk/internal/domain/services"
)

type identityService struct {
	userRepo  repositories.UserRepository
	grantRepo repositories.GrantRepository
	logger    *slog.Logger
}

// NewIdentityService creates a new identity resolver
func NewIdentityService(
	userRepo repositories.UserRepository,
	grantRepo repositories.GrantRepository,
	logger *slog.Logger,
) services.IdentityResolver {
	return &identityService{
		userRepo:  userRepo,
		grantRepo: grantRepo,
		logger:    logger,
	}
}

// Resolve returns the active user for the given subject id with the full
// grant set loaded. Unknown, inactive or soft-deleted users are rejected.
func (s *identityService) Resolve(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, &domain.UnauthorizedError{Message: "missing identity"}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.UnauthorizedError{Message: "unknown identity"}
		}
		return nil, err
	}

	if user.DeletedAt != nil || !user.IsActive {
		return nil, &domain.UnauthorizedError{Message: "account is disabled"}
	}

	grants, err := s.grantRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load grants: %w", err)
	}
	user.Grants = grants

	return user, nil
}

// Login verifies credentials and returns the matching active user.
func (s *identityService) Login(ctx context.Context, email, password string) (*models.User, error) {
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.Email),
		"password": validation.Validate(password, validation.Required),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.UnauthorizedError{Message: "invalid credentials"}
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, &domain.UnauthorizedError{Message: "account is disabled"}
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Info("login rejected", "email", email)
		return nil, &domain.UnauthorizedError{Message: "invalid credentials"}
	}

	grants, err := s.grantRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load grants: %w", err)
	}
	user.Grants = grants

	s.logger.Info("login", "user_id", user.ID, "role", user.Role)
	return user, nil
}
