package service

import (
	"context"
	"log/slog"

	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/repositories"
	"promptdesk/internal/domain/services"
	"promptdesk/internal/service/access"
)

// initialVersionNote is the fixed change note stamped on a prompt's first
// version record.
const initialVersionNote = "initial version"

type promptService struct {
	identity   services.IdentityResolver
	promptRepo repositories.PromptRepository
	folderRepo repositories.FolderRepository
	evaluator  *access.Evaluator
	audit      services.AuditRecorder
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewPromptService creates a new prompt service
func NewPromptService(
	identity services.IdentityResolver,
	promptRepo repositories.PromptRepository,
	folderRepo repositories.FolderRepository,
	evaluator *access.Evaluator,
	audit services.AuditRecorder,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.PromptService {
	return &promptService{
		identity:   identity,
		promptRepo: promptRepo,
		folderRepo: folderRepo,
		evaluator:  evaluator,
		audit:      audit,
		txManager:  txManager,
		logger:     logger,
	}
}

// Save creates or updates a prompt and appends exactly one version row. The
// write and its version record commit together.
func (s *promptService) Save(ctx context.Context, userID string, req *services.SavePromptRequest) (*models.Prompt, bool, error) {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if err := validateName(req.Title); err != nil {
		return nil, false, err
	}

	var prompt *models.Prompt
	created := req.ID == ""

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if created {
			var err error
			prompt, err = s.createPrompt(txCtx, user, req)
			return err
		}
		var err error
		prompt, err = s.updatePrompt(txCtx, user, req)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	versions, err := s.promptRepo.CountVersions(ctx, prompt.ID)
	if err != nil {
		s.logger.Warn("count versions failed", "prompt_id", prompt.ID, "error", err)
	}
	s.audit.Record(ctx, user.ID, ActionSavePrompt, &prompt.ID, models.NewSaveDetails(prompt.Title, created, versions))

	return prompt, created, nil
}

func (s *promptService) createPrompt(ctx context.Context, user *models.User, req *services.SavePromptRequest) (*models.Prompt, error) {
	folderID := req.TargetFolderID
	if folderID == "" || folderID == models.PersonalRootRef {
		personal, err := s.folderRepo.EnsurePersonal(ctx, user)
		if err != nil {
			return nil, err
		}
		folderID = personal.ID
	} else {
		folder, err := s.folderRepo.GetByID(ctx, folderID)
		if err != nil {
			return nil, err
		}
		if folder.DeletedAt != nil {
			return nil, &domain.NotFoundError{Message: "target folder not found"}
		}
		if err := s.evaluator.CanAccess(ctx, user, folder); err != nil {
			return nil, err
		}
	}

	prompt := &models.Prompt{
		Title:       req.Title,
		Objective:   req.Objective,
		Content:     req.Sections,
		BaseInput:   req.BaseInput,
		FolderID:    &folderID,
		CreatedByID: user.ID,
	}
	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, err
	}

	version := &models.PromptVersion{
		PromptID:    prompt.ID,
		Content:     prompt.Content,
		ChangeNote:  initialVersionNote,
		CreatedByID: user.ID,
	}
	if err := s.promptRepo.AddVersion(ctx, version); err != nil {
		return nil, err
	}

	s.logger.Info("prompt created", "id", prompt.ID, "title", prompt.Title, "folder_id", folderID)
	return prompt, nil
}

func (s *promptService) updatePrompt(ctx context.Context, user *models.User, req *services.SavePromptRequest) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if prompt.DeletedAt != nil {
		return nil, &domain.NotFoundError{Message: "prompt not found"}
	}
	if !access.CanModify(user, prompt.CreatedByID) {
		return nil, &domain.ForbiddenError{Message: "only the creator or an administrator can edit this prompt"}
	}

	if req.TargetFolderID != "" && (prompt.FolderID == nil || *prompt.FolderID != req.TargetFolderID) {
		folder, err := s.folderRepo.GetByID(ctx, req.TargetFolderID)
		if err != nil {
			return nil, err
		}
		if folder.DeletedAt != nil {
			return nil, &domain.NotFoundError{Message: "target folder not found"}
		}
		if err := s.evaluator.CanAccess(ctx, user, folder); err != nil {
			return nil, err
		}
		prompt.FolderID = &folder.ID
	}

	prompt.Title = req.Title
	prompt.Objective = req.Objective
	prompt.Content = req.Sections
	prompt.BaseInput = req.BaseInput
	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return nil, err
	}

	version := &models.PromptVersion{
		PromptID:    prompt.ID,
		Content:     prompt.Content,
		ChangeNote:  req.ChangeNote,
		CreatedByID: user.ID,
	}
	if err := s.promptRepo.AddVersion(ctx, version); err != nil {
		return nil, err
	}

	s.logger.Info("prompt updated", "id", prompt.ID, "title", prompt.Title)
	return prompt, nil
}

// ListOwn lists the actor's prompts, newest first.
func (s *promptService) ListOwn(ctx context.Context, userID string) ([]models.Prompt, error) {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.promptRepo.ListByCreator(ctx, user.ID)
}

// ListVersions lists a prompt's version history, oldest first. Readable by
// anyone who can modify the prompt or reach its owning folder.
func (s *promptService) ListVersions(ctx context.Context, userID, promptID string) ([]models.PromptVersion, error) {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}

	if !access.CanModify(user, prompt.CreatedByID) {
		if prompt.FolderID == nil {
			return nil, &domain.ForbiddenError{Message: "no access to this prompt"}
		}
		folder, err := s.folderRepo.GetByID(ctx, *prompt.FolderID)
		if err != nil {
			return nil, err
		}
		if err := s.evaluator.CanAccess(ctx, user, folder); err != nil {
			return nil, err
		}
	}

	return s.promptRepo.ListVersions(ctx, promptID)
}

// ListAvailableFolders lists the folders the actor may use as a save or move
// destination.
func (s *promptService) ListAvailableFolders(ctx context.Context, userID string) ([]models.Folder, error) {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.folderRepo.ListWritable(ctx, user.ID, grantedFolderIDs(user), user.IsAdmin())
}
