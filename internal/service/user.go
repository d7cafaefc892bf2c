package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"promptdesk/internal/auth"
	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/repositories"
	"promptdesk/internal/domain/services"
)

type userAdminService struct {
	identity   services.IdentityResolver
	userRepo   repositories.UserRepository
	folderRepo repositories.FolderRepository
	grantRepo  repositories.GrantRepository
	audit      services.AuditRecorder
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewUserAdminService creates a new user administration service
func NewUserAdminService(
	identity services.IdentityResolver,
	userRepo repositories.UserRepository,
	folderRepo repositories.FolderRepository,
	grantRepo repositories.GrantRepository,
	audit services.AuditRecorder,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.UserAdminService {
	return &userAdminService{
		identity:   identity,
		userRepo:   userRepo,
		folderRepo: folderRepo,
		grantRepo:  grantRepo,
		audit:      audit,
		txManager:  txManager,
		logger:     logger,
	}
}

// List returns every non-deleted user with their department grants.
func (s *userAdminService) List(ctx context.Context, actorID string) ([]services.UserSummary, error) {
	if _, err := s.resolveAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]services.UserSummary, 0, len(users))
	for _, u := range users {
		grants, err := s.grantRepo.ListByUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(grants))
		for _, g := range grants {
			ids = append(ids, g.FolderID)
		}
		departments, err := s.folderRepo.ListByIDs(ctx, ids, models.FolderDepartment)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, services.UserSummary{
			ID:          u.ID,
			Name:        u.FullName,
			Email:       u.Email,
			Role:        u.Role,
			IsActive:    u.IsActive,
			Departments: departments,
		})
	}

	return summaries, nil
}

// Create provisions a user, their personal folder, and initial department
// grants in one transaction.
func (s *userAdminService) Create(ctx context.Context, actorID string, req *services.CreateUserRequest) (*models.User, error) {
	actor, err := s.resolveAdmin(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		if _, err := s.folderRepo.EnsurePersonal(txCtx, user); err != nil {
			return err
		}
		if len(req.DepartmentIDs) > 0 {
			if err := s.grantRepo.ReplaceDepartmentGrants(txCtx, user.ID, req.DepartmentIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", "id", user.ID, "email", user.Email, "role", user.Role)
	s.audit.Record(ctx, actor.ID, ActionCreateUser, &user.ID, models.NewUserDetails(user.Email, "created"))

	return user, nil
}

// Update changes a user's role and replaces their department grant set.
func (s *userAdminService) Update(ctx context.Context, actorID, userID string, req *services.UpdateUserRequest) error {
	actor, err := s.resolveAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if req.Role != "" && req.Role != models.RoleUser && req.Role != models.RoleSuperAdmin {
		return &domain.ValidationError{Message: fmt.Sprintf("unknown role %q", req.Role)}
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		if user.DeletedAt != nil {
			return &domain.NotFoundError{Message: "user not found"}
		}

		if req.Role != "" {
			user.Role = req.Role
		}
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return err
		}
		if err := s.grantRepo.ReplaceDepartmentGrants(txCtx, user.ID, req.DepartmentIDs); err != nil {
			return err
		}

		s.audit.Record(txCtx, actor.ID, ActionUpdateUser, &user.ID, models.NewUserDetails(user.Email, "updated"))
		return nil
	})
}

// ToggleActive flips a user's active flag. Admins cannot toggle themselves.
func (s *userAdminService) ToggleActive(ctx context.Context, actorID, userID string) error {
	actor, err := s.resolveAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if actorID == userID {
		return &domain.ValidationError{Message: "cannot change your own active state"}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.DeletedAt != nil {
		return &domain.NotFoundError{Message: "user not found"}
	}

	user.IsActive = !user.IsActive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	change := "deactivated"
	if user.IsActive {
		change = "activated"
	}
	s.audit.Record(ctx, actor.ID, ActionToggleUser, &user.ID, models.NewUserDetails(user.Email, change))

	return nil
}

// Delete soft-deletes a user and rewrites their email to free it for reuse.
// The rewrite destroys the original identity on purpose: a deleted account
// can never be resurrected by re-registering the same address.
func (s *userAdminService) Delete(ctx context.Context, actorID, userID string) error {
	actor, err := s.resolveAdmin(ctx, actorID)
	if err != nil {
		return err
	}
	if actorID == userID {
		return &domain.ValidationError{Message: "cannot delete your own account"}
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		user, err := s.userRepo.GetByID(txCtx, userID)
		if err != nil {
			return err
		}
		if user.DeletedAt != nil {
			return &domain.NotFoundError{Message: "user not found"}
		}

		originalEmail := user.Email
		now := time.Now()
		user.DeletedAt = &now
		user.IsActive = false
		user.Email = fmt.Sprintf("deleted_%s_%d", user.ID, now.Unix())
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return err
		}

		s.logger.Info("user deleted", "id", user.ID, "email", originalEmail)
		s.audit.Record(txCtx, actor.ID, ActionDeleteUser, &user.ID, models.NewUserDetails(originalEmail, "deleted"))
		return nil
	})
}

// ListDepartments lists every active department folder.
func (s *userAdminService) ListDepartments(ctx context.Context) ([]models.Folder, error) {
	return s.folderRepo.ListByType(ctx, models.FolderDepartment)
}

func (s *userAdminService) resolveAdmin(ctx context.Context, actorID string) (*models.User, error) {
	actor, err := s.identity.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, &domain.ForbiddenError{Message: "user administration requires administrator role"}
	}
	return actor, nil
}

func (s *userAdminService) validateCreateRequest(req *services.CreateUserRequest) error {
	err := validation.Errors{
		"full_name": validation.Validate(req.FullName, validation.Required, validation.Length(1, 200)),
		"email":     validation.Validate(req.Email, validation.Required, is.Email),
		"password":  validation.Validate(req.Password, validation.Required, validation.Length(8, 128)),
		"role": validation.Validate(string(req.Role), validation.In(
			"", string(models.RoleUser), string(models.RoleSuperAdmin),
		)),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
