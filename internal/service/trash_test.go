package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
	"promptdesk/internal/domain/services"
)

func TestTrashRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	env.addUser(t, "bob", "Bob", models.RoleUser)
	ctx := context.Background()

	_, err := env.trash.List(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	err = env.trash.Restore(ctx, "bob", "whatever", models.KindFolder)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	err = env.trash.Purge(ctx, "bob", "whatever", models.KindFolder)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTrashListMergesBothKinds(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser(t, "admin", "Admin", models.RoleSuperAdmin)
	ctx := context.Background()

	folder, err := env.browser.CreateSubfolder(ctx, admin.ID, models.PersonalRootRef, "Old")
	require.NoError(t, err)
	saved, _, err := env.prompt.Save(ctx, admin.ID, &services.SavePromptRequest{Title: "Stale"})
	require.NoError(t, err)

	require.NoError(t, env.browser.DeleteItem(ctx, admin.ID, folder.ID, models.KindFolder))
	require.NoError(t, env.browser.DeleteItem(ctx, admin.ID, saved.ID, models.KindFile))

	items, err := env.trash.List(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	kinds := map[models.ItemKind]bool{}
	for _, item := range items {
		kinds[item.Kind] = true
	}
	assert.True(t, kinds[models.KindFolder])
	assert.True(t, kinds[models.KindFile])
	assert.False(t, items[0].DeletedAt.Before(items[1].DeletedAt), "newest deletion first")
}

func TestRestoreRoundTrip(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser(t, "admin", "Admin", models.RoleSuperAdmin)
	ctx := context.Background()

	parent, err := env.browser.CreateSubfolder(ctx, admin.ID, models.PersonalRootRef, "Parent")
	require.NoError(t, err)
	child, err := env.browser.CreateSubfolder(ctx, admin.ID, parent.ID, "Child")
	require.NoError(t, err)

	require.NoError(t, env.browser.DeleteItem(ctx, admin.ID, child.ID, models.KindFolder))
	require.NoError(t, env.trash.Restore(ctx, admin.ID, child.ID, models.KindFolder))

	restored, err := env.folders.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.True(t, restored.IsActive)

	// Back in its original parent's listing.
	children, err := env.folders.ListChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	items, err := env.trash.List(ctx, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRestoreRejectsLiveItem(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser(t, "admin", "Admin", models.RoleSuperAdmin)
	ctx := context.Background()

	folder, err := env.browser.CreateSubfolder(ctx, admin.ID, models.PersonalRootRef, "Live")
	require.NoError(t, err)

	err = env.trash.Restore(ctx, admin.ID, folder.ID, models.KindFolder)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPurgeIsIrreversible(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser(t, "admin", "Admin", models.RoleSuperAdmin)
	ctx := context.Background()

	folder, err := env.browser.CreateSubfolder(ctx, admin.ID, models.PersonalRootRef, "Doomed")
	require.NoError(t, err)

	// Purge requires the item to be in the trash first.
	err = env.trash.Purge(ctx, admin.ID, folder.ID, models.KindFolder)
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, env.browser.DeleteItem(ctx, admin.ID, folder.ID, models.KindFolder))
	require.NoError(t, env.trash.Purge(ctx, admin.ID, folder.ID, models.KindFolder))

	_, err = env.browser.ResolveFolder(ctx, admin.ID, folder.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err := env.trash.List(ctx, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPurgeFolderOrphansChildren(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser(t, "admin", "Admin", models.RoleSuperAdmin)
	ctx := context.Background()

	parent, err := env.browser.CreateSubfolder(ctx, admin.ID, models.PersonalRootRef, "Parent")
	require.NoError(t, err)
	child, err := env.browser.CreateSubfolder(ctx, admin.ID, parent.ID, "Child")
	require.NoError(t, err)

	require.NoError(t, env.browser.DeleteItem(ctx, admin.ID, parent.ID, models.KindFolder))
	require.NoError(t, env.trash.Purge(ctx, admin.ID, parent.ID, models.KindFolder))

	orphan, err := env.folders.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.ParentID, "children are orphaned, never cascaded")
	assert.Nil(t, orphan.DeletedAt)
}
