package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/repositories"
)

// In-memory repository fakes. They mirror the persistence semantics the
// services rely on: soft-delete filters, name ordering, orphaning on hard
// delete, and the one-personal-folder-per-user guarantee.

type memUserRepo struct {
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*models.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return &domain.ConflictError{Message: "email taken", ResourceType: "user"}
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "user not found"}
	}
	c := *u
	return &c, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.DeletedAt == nil {
			c := *u
			return &c, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "user not found"}
}

func (r *memUserRepo) List(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.DeletedAt == nil {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return &domain.NotFoundError{Message: "user not found"}
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return &domain.ConflictError{Message: "email taken", ResourceType: "user"}
		}
	}
	c := *user
	c.CreatedAt = stored.CreatedAt
	c.UpdatedAt = time.Now()
	r.users[user.ID] = &c
	return nil
}

type memFolderRepo struct {
	folders    map[string]*models.Folder
	ownerNames map[string]string
}

func newMemFolderRepo() *memFolderRepo {
	return &memFolderRepo{folders: map[string]*models.Folder{}, ownerNames: map[string]string{}}
}

func (r *memFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = folder.CreatedAt
	c := *folder
	r.folders[folder.ID] = &c
	return nil
}

func (r *memFolderRepo) GetByID(_ context.Context, id string) (*models.Folder, error) {
	f, ok := r.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "folder not found"}
	}
	c := *f
	return &c, nil
}

func (r *memFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	stored, ok := r.folders[folder.ID]
	if !ok {
		return &domain.NotFoundError{Message: "folder not found"}
	}
	// The department label is not writable, matching the SQL statement.
	stored.Name = folder.Name
	stored.ParentID = folder.ParentID
	stored.IsActive = folder.IsActive
	stored.DeletedAt = folder.DeletedAt
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memFolderRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.folders[id]; !ok {
		return &domain.NotFoundError{Message: "folder not found"}
	}
	delete(r.folders, id)
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == id {
			f.ParentID = nil
		}
	}
	return nil
}

func (r *memFolderRepo) ListChildren(_ context.Context, parentID string) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == parentID && f.DeletedAt == nil {
			out = append(out, *f)
		}
	}
	sortFoldersByName(out)
	return out, nil
}

func (r *memFolderRepo) ListByType(_ context.Context, folderType models.FolderType) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.Type == folderType && f.DeletedAt == nil {
			c := *f
			c.OwnerName = r.ownerNames[f.CreatedByID]
			out = append(out, c)
		}
	}
	sortFoldersByName(out)
	return out, nil
}

func (r *memFolderRepo) ListByIDs(_ context.Context, ids []string, folderType models.FolderType) ([]models.Folder, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Folder
	for _, f := range r.folders {
		if want[f.ID] && f.Type == folderType && f.DeletedAt == nil {
			out = append(out, *f)
		}
	}
	sortFoldersByName(out)
	return out, nil
}

func (r *memFolderRepo) ListWritable(_ context.Context, userID string, grantedIDs []string, allDepartments bool) ([]models.Folder, error) {
	granted := map[string]bool{}
	for _, id := range grantedIDs {
		granted[id] = true
	}
	var out []models.Folder
	for _, f := range r.folders {
		if f.DeletedAt != nil {
			continue
		}
		if f.CreatedByID == userID || granted[f.ID] || (allDepartments && f.Type == models.FolderDepartment) {
			out = append(out, *f)
		}
	}
	sortFoldersByName(out)
	return out, nil
}

func (r *memFolderRepo) ListDeleted(_ context.Context) ([]models.Folder, error) {
	var out []models.Folder
	for _, f := range r.folders {
		if f.DeletedAt != nil {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out, nil
}

func (r *memFolderRepo) EnsurePersonal(_ context.Context, user *models.User) (*models.Folder, error) {
	for _, f := range r.folders {
		if f.Type == models.FolderPersonal && f.CreatedByID == user.ID {
			c := *f
			user.PersonalFolderID = &c.ID
			return &c, nil
		}
	}
	folder := &models.Folder{
		ID:          uuid.New().String(),
		Name:        fmt.Sprintf("Personal area of %s", user.FullName),
		Type:        models.FolderPersonal,
		CreatedByID: user.ID,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.folders[folder.ID] = folder
	user.PersonalFolderID = &folder.ID
	c := *folder
	return &c, nil
}

func sortFoldersByName(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
}

type memPromptRepo struct {
	prompts  map[string]*models.Prompt
	versions []models.PromptVersion
}

func newMemPromptRepo() *memPromptRepo {
	return &memPromptRepo{prompts: map[string]*models.Prompt{}}
}

func (r *memPromptRepo) Create(_ context.Context, prompt *models.Prompt) error {
	if prompt.ID == "" {
		prompt.ID = uuid.New().String()
	}
	prompt.CreatedAt = time.Now()
	prompt.UpdatedAt = prompt.CreatedAt
	c := *prompt
	r.prompts[prompt.ID] = &c
	return nil
}

func (r *memPromptRepo) GetByID(_ context.Context, id string) (*models.Prompt, error) {
	p, ok := r.prompts[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "prompt not found"}
	}
	c := *p
	return &c, nil
}

func (r *memPromptRepo) Update(_ context.Context, prompt *models.Prompt) error {
	stored, ok := r.prompts[prompt.ID]
	if !ok {
		return &domain.NotFoundError{Message: "prompt not found"}
	}
	stored.Title = prompt.Title
	stored.Objective = prompt.Objective
	stored.Content = prompt.Content
	stored.BaseInput = prompt.BaseInput
	stored.FolderID = prompt.FolderID
	stored.DeletedAt = prompt.DeletedAt
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memPromptRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.prompts[id]; !ok {
		return &domain.NotFoundError{Message: "prompt not found"}
	}
	delete(r.prompts, id)
	kept := r.versions[:0]
	for _, v := range r.versions {
		if v.PromptID != id {
			kept = append(kept, v)
		}
	}
	r.versions = kept
	return nil
}

func (r *memPromptRepo) ListByFolder(_ context.Context, folderID string) ([]models.Prompt, error) {
	var out []models.Prompt
	for _, p := range r.prompts {
		if p.FolderID != nil && *p.FolderID == folderID && p.DeletedAt == nil {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *memPromptRepo) ListByCreator(_ context.Context, userID string) ([]models.Prompt, error) {
	var out []models.Prompt
	for _, p := range r.prompts {
		if p.CreatedByID == userID && p.DeletedAt == nil {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memPromptRepo) ListDeleted(_ context.Context) ([]models.Prompt, error) {
	var out []models.Prompt
	for _, p := range r.prompts {
		if p.DeletedAt != nil {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })
	return out, nil
}

func (r *memPromptRepo) AddVersion(_ context.Context, version *models.PromptVersion) error {
	if version.ID == "" {
		version.ID = uuid.New().String()
	}
	version.CreatedAt = time.Now()
	r.versions = append(r.versions, *version)
	return nil
}

func (r *memPromptRepo) ListVersions(_ context.Context, promptID string) ([]models.PromptVersion, error) {
	var out []models.PromptVersion
	for _, v := range r.versions {
		if v.PromptID == promptID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memPromptRepo) CountVersions(_ context.Context, promptID string) (int, error) {
	count := 0
	for _, v := range r.versions {
		if v.PromptID == promptID {
			count++
		}
	}
	return count, nil
}

type memGrantRepo struct {
	grants  []models.AccessGrant
	folders *memFolderRepo
}

func newMemGrantRepo(folders *memFolderRepo) *memGrantRepo {
	return &memGrantRepo{folders: folders}
}

func (r *memGrantRepo) Create(_ context.Context, grant *models.AccessGrant) error {
	for _, g := range r.grants {
		if g.UserID == grant.UserID && g.FolderID == grant.FolderID {
			return &domain.ConflictError{Message: "grant exists", ResourceType: "grant"}
		}
	}
	if grant.ID == "" {
		grant.ID = uuid.New().String()
	}
	grant.CreatedAt = time.Now()
	r.grants = append(r.grants, *grant)
	return nil
}

func (r *memGrantRepo) ListByUser(_ context.Context, userID string) ([]models.AccessGrant, error) {
	var out []models.AccessGrant
	for _, g := range r.grants {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *memGrantRepo) ReplaceDepartmentGrants(ctx context.Context, userID string, folderIDs []string) error {
	kept := r.grants[:0]
	for _, g := range r.grants {
		f, ok := r.folders.folders[g.FolderID]
		if g.UserID == userID && ok && f.Type == models.FolderDepartment {
			continue
		}
		kept = append(kept, g)
	}
	r.grants = kept
	for _, id := range folderIDs {
		if err := r.Create(ctx, &models.AccessGrant{UserID: userID, FolderID: id, AccessLevel: models.AccessWrite}); err != nil {
			return err
		}
	}
	return nil
}

type memAuditRepo struct {
	entries []models.AuditEntry
	failErr error
}

func (r *memAuditRepo) Append(_ context.Context, entry *models.AuditEntry) error {
	if r.failErr != nil {
		return r.failErr
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAuditRepo) ListRecent(_ context.Context, limit int) ([]models.AuditEntry, error) {
	out := make([]models.AuditEntry, len(r.entries))
	copy(out, r.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// nopTxManager runs the function directly; the fakes have no transactions.
type nopTxManager struct{}

func (nopTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}
