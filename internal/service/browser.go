package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/repositories"
	"promptdesk/internal/domain/services"
	"promptdesk/internal/service/access"
)

type browserService struct {
	identity   services.IdentityResolver
	folderRepo repositories.FolderRepository
	promptRepo repositories.PromptRepository
	evaluator  *access.Evaluator
	audit      services.AuditRecorder
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewBrowserService creates a new browser service
func NewBrowserService(
	identity services.IdentityResolver,
	folderRepo repositories.FolderRepository,
	promptRepo repositories.PromptRepository,
	evaluator *access.Evaluator,
	audit services.AuditRecorder,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.BrowserService {
	return &browserService{
		identity:   identity,
		folderRepo: folderRepo,
		promptRepo: promptRepo,
		evaluator:  evaluator,
		audit:      audit,
		txManager:  txManager,
		logger:     logger,
	}
}

// ResolveFolder translates a folder reference into an access-checked view.
func (s *browserService) ResolveFolder(ctx context.Context, userID, ref string) (*services.FolderView, error) {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	if ref == "" {
		ref = models.PersonalRootRef
	}

	switch ref {
	case models.PersonalRootRef:
		return s.resolvePersonalRoot(ctx, user)
	case models.DepartmentRootRef:
		return s.resolveDepartmentRoot(ctx, user)
	case models.AdminRootRef:
		return s.resolveAdminRoot(ctx, user)
	case models.AllPersonalRef:
		return s.resolveAllPersonal(ctx, user)
	}

	folder, err := s.folderRepo.GetByID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if folder.DeletedAt != nil {
		return nil, &domain.NotFoundError{Message: "folder not found"}
	}

	if err := s.evaluator.CanAccess(ctx, user, folder); err != nil {
		return nil, err
	}

	view := &services.FolderView{Folder: folder}
	if folder.ParentID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *folder.ParentID)
		if err == nil && parent.DeletedAt == nil {
			view.Parent = parent
		}
	}

	view.Folders, err = s.folderRepo.ListChildren(ctx, folder.ID)
	if err != nil {
		return nil, err
	}
	view.Files, err = s.promptRepo.ListByFolder(ctx, folder.ID)
	if err != nil {
		return nil, err
	}

	return view, nil
}

// resolvePersonalRoot provisions the personal folder on first access. The
// ensure-and-link runs in one transaction so concurrent first touches
// converge on a single row.
func (s *browserService) resolvePersonalRoot(ctx context.Context, user *models.User) (*services.FolderView, error) {
	var personal *models.Folder
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		personal, err = s.folderRepo.EnsurePersonal(txCtx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	view := &services.FolderView{Folder: personal}
	view.Folders, err = s.folderRepo.ListChildren(ctx, personal.ID)
	if err != nil {
		return nil, err
	}
	view.Files, err = s.promptRepo.ListByFolder(ctx, personal.ID)
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (s *browserService) resolveDepartmentRoot(ctx context.Context, user *models.User) (*services.FolderView, error) {
	var departments []models.Folder
	var err error
	if user.IsAdmin() {
		departments, err = s.folderRepo.ListByType(ctx, models.FolderDepartment)
	} else {
		departments, err = s.folderRepo.ListByIDs(ctx, grantedFolderIDs(user), models.FolderDepartment)
	}
	if err != nil {
		return nil, err
	}

	return &services.FolderView{
		Folder:  virtualFolder(models.DepartmentRootRef, "Departments"),
		Folders: departments,
		Files:   []models.Prompt{},
		Virtual: true,
	}, nil
}

func (s *browserService) resolveAdminRoot(ctx context.Context, user *models.User) (*services.FolderView, error) {
	if !user.IsAdmin() {
		return nil, &domain.ForbiddenError{Message: "global root requires administrator role"}
	}

	departments, err := s.folderRepo.ListByType(ctx, models.FolderDepartment)
	if err != nil {
		return nil, err
	}

	return &services.FolderView{
		Folder:  virtualFolder(models.AdminRootRef, "All departments"),
		Folders: departments,
		Files:   []models.Prompt{},
		Virtual: true,
	}, nil
}

func (s *browserService) resolveAllPersonal(ctx context.Context, user *models.User) (*services.FolderView, error) {
	if !user.IsAdmin() {
		return nil, &domain.ForbiddenError{Message: "personal spaces overview requires administrator role"}
	}

	personals, err := s.folderRepo.ListByType(ctx, models.FolderPersonal)
	if err != nil {
		return nil, err
	}
	for i := range personals {
		if personals[i].OwnerName != "" {
			personals[i].Name = fmt.Sprintf("%s (%s)", personals[i].Name, personals[i].OwnerName)
		}
	}

	return &services.FolderView{
		Folder:  virtualFolder(models.AllPersonalRef, "Personal spaces"),
		Folders: personals,
		Files:   []models.Prompt{},
		Virtual: true,
	}, nil
}

// CreateSubfolder creates a PROJECT folder under a resolvable parent. The
// admin root token reroutes to department creation.
func (s *browserService) CreateSubfolder(ctx context.Context, userID, parentRef, name string) (*models.Folder, error) {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	if parentRef == models.AdminRootRef {
		return s.createDepartment(ctx, user, name)
	}

	parent, err := s.resolveParent(ctx, user, parentRef)
	if err != nil {
		return nil, err
	}
	if err := s.evaluator.CanAccess(ctx, user, parent); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		Name:        name,
		Type:        models.FolderProject,
		ParentID:    &parent.ID,
		CreatedByID: user.ID,
		IsActive:    true,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("subfolder created", "id", folder.ID, "name", folder.Name, "parent_id", parent.ID)
	details := models.NewCreateFolderDetails(folder.Name, folder.Type, parent.ID)
	s.audit.Record(ctx, user.ID, ActionCreateFolder, &folder.ID, details)

	return folder, nil
}

// CreateDepartment creates a DEPARTMENT root folder. Privileged only.
func (s *browserService) CreateDepartment(ctx context.Context, userID, name string) (*models.Folder, error) {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	return s.createDepartment(ctx, user, name)
}

func (s *browserService) createDepartment(ctx context.Context, user *models.User, name string) (*models.Folder, error) {
	if !user.IsAdmin() {
		return nil, &domain.ForbiddenError{Message: "creating departments requires administrator role"}
	}

	// The department label is fixed at creation; renames change the display
	// name only.
	label := name
	folder := &models.Folder{
		Name:        name,
		Type:        models.FolderDepartment,
		Department:  &label,
		CreatedByID: user.ID,
		IsActive:    true,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("department created", "id", folder.ID, "name", folder.Name)
	details := models.NewCreateFolderDetails(folder.Name, folder.Type, "")
	s.audit.Record(ctx, user.ID, ActionCreateDepartment, &folder.ID, details)

	return folder, nil
}

// RenameItem updates a folder's display name or a prompt's title.
func (s *browserService) RenameItem(ctx context.Context, userID string, req *services.RenameRequest) error {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return err
	}
	if err := validateName(req.NewName); err != nil {
		return err
	}

	switch req.Kind {
	case models.KindFolder:
		folder, err := s.folderRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !access.CanModify(user, folder.CreatedByID) {
			return &domain.ForbiddenError{Message: "only the creator or an administrator can rename this folder"}
		}
		oldName := folder.Name
		folder.Name = req.NewName
		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return err
		}
		s.audit.Record(ctx, user.ID, ActionRename, &folder.ID, models.NewRenameDetails(models.KindFolder, oldName, req.NewName))
		return nil

	case models.KindFile:
		prompt, err := s.promptRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !access.CanModify(user, prompt.CreatedByID) {
			return &domain.ForbiddenError{Message: "only the creator or an administrator can rename this prompt"}
		}
		oldName := prompt.Title
		prompt.Title = req.NewName
		if err := s.promptRepo.Update(ctx, prompt); err != nil {
			return err
		}
		s.audit.Record(ctx, user.ID, ActionRename, &prompt.ID, models.NewRenameDetails(models.KindFile, oldName, req.NewName))
		return nil
	}

	return &domain.ValidationError{Message: fmt.Sprintf("unknown item kind %q", req.Kind)}
}

// MoveItem reparents a folder or reassigns a prompt's owning folder.
func (s *browserService) MoveItem(ctx context.Context, userID string, req *services.MoveRequest) error {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return err
	}

	dest, err := s.resolveParent(ctx, user, req.NewParentID)
	if err != nil {
		return err
	}
	if err := s.evaluator.CanAccess(ctx, user, dest); err != nil {
		return err
	}

	destName := req.DestinationName
	if destName == "" {
		destName = dest.Name
	}

	switch req.Kind {
	case models.KindFolder:
		folder, err := s.folderRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !access.CanModify(user, folder.CreatedByID) {
			return &domain.ForbiddenError{Message: "only the creator or an administrator can move this folder"}
		}
		if folder.Type == models.FolderDepartment && !user.IsAdmin() {
			return &domain.ForbiddenError{Message: "moving departments requires administrator role"}
		}
		if err := s.checkNotDescendant(ctx, folder.ID, dest); err != nil {
			return err
		}
		folder.ParentID = &dest.ID
		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return err
		}
		s.audit.Record(ctx, user.ID, ActionMove, &folder.ID, models.NewMoveDetails(models.KindFolder, folder.Name, dest.ID, destName))
		return nil

	case models.KindFile:
		prompt, err := s.promptRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !access.CanModify(user, prompt.CreatedByID) {
			return &domain.ForbiddenError{Message: "only the creator or an administrator can move this prompt"}
		}
		prompt.FolderID = &dest.ID
		if err := s.promptRepo.Update(ctx, prompt); err != nil {
			return err
		}
		s.audit.Record(ctx, user.ID, ActionMove, &prompt.ID, models.NewMoveDetails(models.KindFile, prompt.Title, dest.ID, destName))
		return nil
	}

	return &domain.ValidationError{Message: fmt.Sprintf("unknown item kind %q", req.Kind)}
}

// checkNotDescendant rejects a move whose destination is the folder itself or
// lives in the folder's subtree. The walk goes upward from the destination.
func (s *browserService) checkNotDescendant(ctx context.Context, folderID string, dest *models.Folder) error {
	if dest.ID == folderID {
		return &domain.ConflictError{
			Message:      "cannot move a folder into itself",
			ResourceType: "folder",
			ResourceID:   folderID,
		}
	}

	seen := map[string]bool{dest.ID: true}
	current := dest
	for current.ParentID != nil {
		if *current.ParentID == folderID {
			return &domain.ConflictError{
				Message:      "cannot move a folder into its own subtree",
				ResourceType: "folder",
				ResourceID:   folderID,
			}
		}
		parent, err := s.folderRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			return fmt.Errorf("walk ancestors: %w", err)
		}
		if seen[parent.ID] {
			break
		}
		seen[parent.ID] = true
		current = parent
	}

	return nil
}

// DeleteItem soft-deletes a folder or prompt. Children are left in place.
func (s *browserService) DeleteItem(ctx context.Context, userID, id string, kind models.ItemKind) error {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return err
	}

	now := time.Now()

	switch kind {
	case models.KindFolder:
		folder, err := s.folderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if folder.DeletedAt != nil {
			return &domain.NotFoundError{Message: "folder not found"}
		}
		if !access.CanModify(user, folder.CreatedByID) {
			return &domain.ForbiddenError{Message: "only the creator or an administrator can delete this folder"}
		}
		folder.DeletedAt = &now
		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return err
		}
		s.audit.Record(ctx, user.ID, ActionDelete, &folder.ID, models.NewDeleteDetails(models.KindFolder, folder.Name))
		return nil

	case models.KindFile:
		prompt, err := s.promptRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if prompt.DeletedAt != nil {
			return &domain.NotFoundError{Message: "prompt not found"}
		}
		if !access.CanModify(user, prompt.CreatedByID) {
			return &domain.ForbiddenError{Message: "only the creator or an administrator can delete this prompt"}
		}
		prompt.DeletedAt = &now
		if err := s.promptRepo.Update(ctx, prompt); err != nil {
			return err
		}
		s.audit.Record(ctx, user.ID, ActionDelete, &prompt.ID, models.NewDeleteDetails(models.KindFile, prompt.Title))
		return nil
	}

	return &domain.ValidationError{Message: fmt.Sprintf("unknown item kind %q", kind)}
}

// ToggleFolderActive flips a folder's active flag. Deactivating also stamps
// the soft-delete timestamp; reactivating clears it.
func (s *browserService) ToggleFolderActive(ctx context.Context, userID, folderID string, active bool) error {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return &domain.ForbiddenError{Message: "toggling folder state requires administrator role"}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		folder, err := s.folderRepo.GetByID(txCtx, folderID)
		if err != nil {
			return err
		}
		folder.IsActive = active
		if active {
			folder.DeletedAt = nil
		} else {
			now := time.Now()
			folder.DeletedAt = &now
		}
		if err := s.folderRepo.Update(txCtx, folder); err != nil {
			return err
		}
		s.audit.Record(txCtx, user.ID, ActionToggleActive, &folder.ID, models.NewActiveDetails(folder.Name, active))
		return nil
	})
	return err
}

// ListSidebar returns the departments visible to the actor.
func (s *browserService) ListSidebar(ctx context.Context, userID string) (*services.SidebarData, error) {
	user, err := s.identity.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	var departments []models.Folder
	if user.IsAdmin() {
		departments, err = s.folderRepo.ListByType(ctx, models.FolderDepartment)
	} else {
		departments, err = s.folderRepo.ListByIDs(ctx, grantedFolderIDs(user), models.FolderDepartment)
	}
	if err != nil {
		return nil, err
	}

	return &services.SidebarData{Departments: departments, IsAdmin: user.IsAdmin()}, nil
}

// resolveParent resolves a mutation's parent/destination reference. An empty
// reference or the personal root token lands in the actor's personal folder,
// provisioning it if needed.
func (s *browserService) resolveParent(ctx context.Context, user *models.User, ref string) (*models.Folder, error) {
	if ref == "" || ref == models.PersonalRootRef {
		var personal *models.Folder
		err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			var err error
			personal, err = s.folderRepo.EnsurePersonal(txCtx, user)
			return err
		})
		if err != nil {
			return nil, err
		}
		return personal, nil
	}

	if models.IsPseudoRoot(ref) {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("%s is not a valid destination", ref)}
	}

	folder, err := s.folderRepo.GetByID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if folder.DeletedAt != nil {
		return nil, &domain.NotFoundError{Message: "folder not found"}
	}
	return folder, nil
}

func grantedFolderIDs(user *models.User) []string {
	ids := make([]string, 0, len(user.Grants))
	for _, g := range user.Grants {
		ids = append(ids, g.FolderID)
	}
	return ids
}

func virtualFolder(ref, name string) *models.Folder {
	return &models.Folder{ID: ref, Name: name, IsActive: true}
}

func validateName(name string) error {
	if err := validation.Validate(name, validation.Required, validation.Length(1, 200)); err != nil {
		return fmt.Errorf("%w: name %v", domain.ErrValidation, err)
	}
	return nil
}
