package access

import (
	"context"
	"errors"
	"testing"

	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
)

type fakeFolderGetter struct {
	folders map[string]*models.Folder
}

func (f *fakeFolderGetter) GetByID(_ context.Context, id string) (*models.Folder, error) {
	folder, ok := f.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "folder not found"}
	}
	return folder, nil
}

func strPtr(s string) *string { return &s }

func TestCanAccess(t *testing.T) {
	admin := &models.User{ID: "admin", Role: models.RoleSuperAdmin}
	owner := &models.User{ID: "owner", Role: models.RoleUser}
	granted := &models.User{
		ID:     "granted",
		Role:   models.RoleUser,
		Grants: []models.AccessGrant{{UserID: "granted", FolderID: "dept-it"}},
	}
	stranger := &models.User{ID: "stranger", Role: models.RoleUser}

	personal := &models.Folder{ID: "personal-owner", Type: models.FolderPersonal, CreatedByID: "owner"}
	department := &models.Folder{
		ID:          "dept-it",
		Name:        "IT Department",
		Type:        models.FolderDepartment,
		Department:  strPtr("IT"),
		CreatedByID: "admin",
	}
	project := &models.Folder{
		ID:          "proj",
		Type:        models.FolderProject,
		CreatedByID: "owner",
		ParentID:    &department.ID,
	}

	tests := []struct {
		name       string
		user       *models.User
		folder     *models.Folder
		wantErr    error
		wantDenial string
	}{
		{name: "admin reaches personal space of another user", user: admin, folder: personal},
		{name: "admin reaches department without grant", user: admin, folder: department},
		{name: "creator reaches own personal folder", user: owner, folder: personal},
		{name: "grant admits user to department", user: granted, folder: department},
		{
			name:       "stranger denied on personal folder",
			user:       stranger,
			folder:     personal,
			wantErr:    domain.ErrForbidden,
			wantDenial: "personal folders are private to their owner",
		},
		{
			name:       "stranger denied on department with specific reason",
			user:       stranger,
			folder:     department,
			wantErr:    domain.ErrForbidden,
			wantDenial: "no access to this department",
		},
		{name: "stranger admitted to project subfolder under trust-parent", user: stranger, folder: project},
	}

	evaluator := NewEvaluator(SubfolderTrustParent, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := evaluator.CanAccess(context.Background(), tt.user, tt.folder)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CanAccess() = %v, want allowed", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CanAccess() = %v, want %v", err, tt.wantErr)
			}
			if err.Error() != tt.wantDenial {
				t.Errorf("denial message = %q, want %q", err.Error(), tt.wantDenial)
			}
		})
	}
}

func TestCanAccessRequireChain(t *testing.T) {
	deptID := "dept-sales"
	midID := "mid"
	personalID := "personal-alice"

	folders := &fakeFolderGetter{folders: map[string]*models.Folder{
		deptID: {
			ID:          deptID,
			Name:        "Sales",
			Type:        models.FolderDepartment,
			Department:  strPtr("SALES"),
			CreatedByID: "admin",
		},
		midID: {
			ID:          midID,
			Type:        models.FolderProject,
			CreatedByID: "bob",
			ParentID:    &deptID,
		},
		personalID: {
			ID:          personalID,
			Type:        models.FolderPersonal,
			CreatedByID: "alice",
		},
	}}

	deepUnderDept := &models.Folder{ID: "deep", Type: models.FolderProject, CreatedByID: "bob", ParentID: &midID}
	underPersonal := &models.Folder{ID: "nested", Type: models.FolderProject, CreatedByID: "alice", ParentID: &personalID}

	evaluator := NewEvaluator(SubfolderRequireChain, folders)

	t.Run("department ancestor requires grant", func(t *testing.T) {
		stranger := &models.User{ID: "stranger", Role: models.RoleUser}
		err := evaluator.CanAccess(context.Background(), stranger, deepUnderDept)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("CanAccess() = %v, want forbidden", err)
		}
		if err.Error() != "no access to this department" {
			t.Errorf("denial message = %q, want department-specific reason", err.Error())
		}
	})

	t.Run("grant on department ancestor admits through the chain", func(t *testing.T) {
		granted := &models.User{
			ID:     "granted",
			Role:   models.RoleUser,
			Grants: []models.AccessGrant{{UserID: "granted", FolderID: deptID}},
		}
		if err := evaluator.CanAccess(context.Background(), granted, deepUnderDept); err != nil {
			t.Fatalf("CanAccess() = %v, want allowed", err)
		}
	})

	t.Run("personal ancestor stays private", func(t *testing.T) {
		stranger := &models.User{ID: "stranger", Role: models.RoleUser}
		err := evaluator.CanAccess(context.Background(), stranger, underPersonal)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("CanAccess() = %v, want forbidden", err)
		}
	})

	t.Run("owner of personal ancestor admitted to nested subfolder", func(t *testing.T) {
		alice := &models.User{ID: "alice", Role: models.RoleUser}
		if err := evaluator.CanAccess(context.Background(), alice, underPersonal); err != nil {
			t.Fatalf("CanAccess() = %v, want allowed", err)
		}
	})
}

func TestCanModify(t *testing.T) {
	admin := &models.User{ID: "admin", Role: models.RoleSuperAdmin}
	user := &models.User{ID: "user", Role: models.RoleUser}

	if !CanModify(admin, "someone-else") {
		t.Error("admin should modify anything")
	}
	if !CanModify(user, "user") {
		t.Error("creator should modify own entity")
	}
	if CanModify(user, "someone-else") {
		t.Error("non-owner without role should not modify")
	}
}
