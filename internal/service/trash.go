package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/repositories"
	"promptdesk/internal/domain/services"
)

type trashService struct {
	identity   services.IdentityResolver
	folderRepo repositories.FolderRepository
	promptRepo repositories.PromptRepository
	audit      services.AuditRecorder
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewTrashService creates a new trash service
func NewTrashService(
	identity services.IdentityResolver,
	folderRepo repositories.FolderRepository,
	promptRepo repositories.PromptRepository,
	audit services.AuditRecorder,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.TrashService {
	return &trashService{
		identity:   identity,
		folderRepo: folderRepo,
		promptRepo: promptRepo,
		audit:      audit,
		txManager:  txManager,
		logger:     logger,
	}
}

// List merges soft-deleted folders and prompts into one feed, newest deletion
// first. Privileged only.
func (s *trashService) List(ctx context.Context, userID string) ([]services.TrashItem, error) {
	if _, err := s.resolveAdmin(ctx, userID); err != nil {
		return nil, err
	}

	folders, err := s.folderRepo.ListDeleted(ctx)
	if err != nil {
		return nil, err
	}
	prompts, err := s.promptRepo.ListDeleted(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]services.TrashItem, 0, len(folders)+len(prompts))
	for _, f := range folders {
		items = append(items, services.TrashItem{
			ID:        f.ID,
			Kind:      models.KindFolder,
			Name:      f.Name,
			DeletedAt: *f.DeletedAt,
		})
	}
	for _, p := range prompts {
		items = append(items, services.TrashItem{
			ID:        p.ID,
			Kind:      models.KindFile,
			Name:      p.Title,
			DeletedAt: *p.DeletedAt,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].DeletedAt.After(items[j].DeletedAt)
	})

	return items, nil
}

// Restore clears an item's soft-delete timestamp. The read and the
// transition run in one transaction so a concurrent purge cannot interleave.
func (s *trashService) Restore(ctx context.Context, userID, id string, kind models.ItemKind) error {
	user, err := s.resolveAdmin(ctx, userID)
	if err != nil {
		return err
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		switch kind {
		case models.KindFolder:
			folder, err := s.folderRepo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if folder.DeletedAt == nil {
				return &domain.ValidationError{Message: "folder is not in the trash"}
			}
			folder.DeletedAt = nil
			folder.IsActive = true
			if err := s.folderRepo.Update(txCtx, folder); err != nil {
				return err
			}
			s.audit.Record(txCtx, user.ID, ActionRestore, &folder.ID, models.NewRestoreDetails(models.KindFolder, folder.Name))
			return nil

		case models.KindFile:
			prompt, err := s.promptRepo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if prompt.DeletedAt == nil {
				return &domain.ValidationError{Message: "prompt is not in the trash"}
			}
			prompt.DeletedAt = nil
			if err := s.promptRepo.Update(txCtx, prompt); err != nil {
				return err
			}
			s.audit.Record(txCtx, user.ID, ActionRestore, &prompt.ID, models.NewRestoreDetails(models.KindFile, prompt.Title))
			return nil
		}

		return &domain.ValidationError{Message: fmt.Sprintf("unknown item kind %q", kind)}
	})
}

// Purge permanently removes an item. Irreversible; children are orphaned,
// never cascaded.
func (s *trashService) Purge(ctx context.Context, userID, id string, kind models.ItemKind) error {
	user, err := s.resolveAdmin(ctx, userID)
	if err != nil {
		return err
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		switch kind {
		case models.KindFolder:
			folder, err := s.folderRepo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if folder.DeletedAt == nil {
				return &domain.ValidationError{Message: "only trashed folders can be purged"}
			}
			if err := s.folderRepo.Delete(txCtx, id); err != nil {
				return err
			}
			s.logger.Info("folder purged", "id", id, "name", folder.Name)
			s.audit.Record(txCtx, user.ID, ActionPurge, &id, models.NewPurgeDetails(models.KindFolder, folder.Name))
			return nil

		case models.KindFile:
			prompt, err := s.promptRepo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			if prompt.DeletedAt == nil {
				return &domain.ValidationError{Message: "only trashed prompts can be purged"}
			}
			if err := s.promptRepo.Delete(txCtx, id); err != nil {
				return err
			}
			s.logger.Info("prompt purged", "id", id, "title", prompt.Title)
			s.audit.Record(txCtx, user.ID, ActionPurge, &id, models.NewPurgeDetails(models.KindFile, prompt.Title))
			return nil
		}

		return &domain.ValidationError{Message: fmt.Sprintf("unknown item kind %q", kind)}
	})
}

func (s *trashService) resolveAdmin(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, &domain.ForbiddenError{Message: "trash requires administrator role"}
	}
	return user, nil
}
