// Package access decides folder read/write eligibility from ownership,
// explicit grants, role and folder type. The evaluation is a pure function
// over the user and the folder chain; how far up the chain it looks for
// project subfolders is a named policy, not a byproduct of navigation order.
package access

import (
	"context"
	"fmt"

	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
)

// SubfolderPolicy names the propagation rule applied to PROJECT folders.
type SubfolderPolicy int

const (
	// SubfolderTrustParent admits any project subfolder once its parent was
	// reachable. This mirrors how navigation worked historically and is the
	// default.
	SubfolderTrustParent SubfolderPolicy = iota

	// SubfolderRequireChain walks every ancestor up to the root and applies
	// the same ownership/grant rules at each level.
	SubfolderRequireChain
)

// FolderGetter is the single lookup the chain walk needs.
type FolderGetter interface {
	GetByID(ctx context.Context, id string) (*models.Folder, error)
}

// Evaluator applies the layered permission model. Rules run in priority
// order: privileged role, folder creator, explicit grant, then a per-type
// default (personal folders are private, departments need a grant, project
// subfolders follow the configured policy).
type Evaluator struct {
	policy  SubfolderPolicy
	folders FolderGetter
}

// NewEvaluator creates an evaluator. The folder getter is only consulted
// under SubfolderRequireChain and may be nil otherwise.
func NewEvaluator(policy SubfolderPolicy, folders FolderGetter) *Evaluator {
	return &Evaluator{policy: policy, folders: folders}
}

// CanAccess reports whether the user may read and write the folder. A nil
// return means allowed; otherwise the error carries the denial kind.
func (e *Evaluator) CanAccess(ctx context.Context, user *models.User, folder *models.Folder) error {
	if user.IsAdmin() {
		return nil
	}
	if folder.CreatedByID == user.ID {
		return nil
	}
	if user.HasGrantOn(folder.ID) {
		return nil
	}

	switch folder.Type {
	case models.FolderPersonal:
		return &domain.ForbiddenError{Message: "personal folders are private to their owner"}
	case models.FolderDepartment:
		return &domain.DepartmentAccessError{Department: departmentLabel(folder)}
	case models.FolderProject:
		if e.policy == SubfolderTrustParent {
			return nil
		}
		return e.checkChain(ctx, user, folder)
	}

	return &domain.ForbiddenError{Message: "no access to this folder"}
}

// CanModify reports whether the user may mutate an entity created by
// createdByID. Mutations are owner-or-admin; grants convey no modify right
// over someone else's entity.
func CanModify(user *models.User, createdByID string) bool {
	return user.IsAdmin() || user.ID == createdByID
}

// checkChain walks the ancestor chain and lets the first personal or
// department ancestor decide. Ownership or a grant anywhere on the way up
// admits the user.
func (e *Evaluator) checkChain(ctx context.Context, user *models.User, folder *models.Folder) error {
	seen := map[string]bool{folder.ID: true}
	current := folder

	for current.ParentID != nil {
		parent, err := e.folders.GetByID(ctx, *current.ParentID)
		if err != nil {
			return fmt.Errorf("load ancestor %s: %w", *current.ParentID, err)
		}
		if seen[parent.ID] {
			break
		}
		seen[parent.ID] = true

		if parent.CreatedByID == user.ID || user.HasGrantOn(parent.ID) {
			return nil
		}
		switch parent.Type {
		case models.FolderPersonal:
			return &domain.ForbiddenError{Message: "personal folders are private to their owner"}
		case models.FolderDepartment:
			return &domain.DepartmentAccessError{Department: departmentLabel(parent)}
		}

		current = parent
	}

	return &domain.ForbiddenError{Message: "no access to this folder"}
}

func departmentLabel(folder *models.Folder) string {
	if folder.Department != nil {
		return *folder.Department
	}
	return folder.Name
}
