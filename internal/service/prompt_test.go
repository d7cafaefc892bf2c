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

func TestSaveAppendsOneVersionPerSave(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser(t, "alice", "Alice", models.RoleUser)
	ctx := context.Background()

	saved, created, err := env.prompt.Save(ctx, alice.ID, &services.SavePromptRequest{
		Title:    "Draft",
		Sections: models.PromptSections{Instruction: "x"},
	})
	require.NoError(t, err)
	assert.True(t, created)

	versions, err := env.prompt.ListVersions(ctx, alice.ID, saved.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "initial version", versions[0].ChangeNote)
	assert.Equal(t, "x", versions[0].Content.Instruction)

	_, created, err = env.prompt.Save(ctx, alice.ID, &services.SavePromptRequest{
		ID:         saved.ID,
		Title:      "Draft",
		Sections:   models.PromptSections{Instruction: "y"},
		ChangeNote: "tightened the instruction",
	})
	require.NoError(t, err)
	assert.False(t, created)

	versions, err = env.prompt.ListVersions(ctx, alice.ID, saved.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "x", versions[0].Content.Instruction, "first version is never mutated")
	assert.Equal(t, "tightened the instruction", versions[1].ChangeNote)

	current, err := env.prompts.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "y", current.Content.Instruction)
}

func TestSaveWithoutTargetLandsInPersonalFolder(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser(t, "alice", "Alice", models.RoleUser)
	ctx := context.Background()

	saved, _, err := env.prompt.Save(ctx, alice.ID, &services.SavePromptRequest{Title: "Note"})
	require.NoError(t, err)
	require.NotNil(t, saved.FolderID)

	personal, err := env.folders.GetByID(ctx, *saved.FolderID)
	require.NoError(t, err)
	assert.Equal(t, models.FolderPersonal, personal.Type)
	assert.Equal(t, alice.ID, personal.CreatedByID)
}

func TestSaveIntoDepartmentRequiresAccess(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser(t, "admin", "Admin", models.RoleSuperAdmin)
	env.addUser(t, "bob", "Bob", models.RoleUser)
	ctx := context.Background()

	dept := env.addDepartment(t, "IT", admin.ID)

	_, _, err := env.prompt.Save(ctx, "bob", &services.SavePromptRequest{
		Title: "Runbook", TargetFolderID: dept.ID,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	env.grant(t, "bob", dept.ID)
	saved, _, err := env.prompt.Save(ctx, "bob", &services.SavePromptRequest{
		Title: "Runbook", TargetFolderID: dept.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, dept.ID, *saved.FolderID)
}

func TestSaveUpdateByStrangerForbidden(t *testing.T) {
	env := newTestEnv()
	alice := env.addUser(t, "alice", "Alice", models.RoleUser)
	env.addUser(t, "mallory", "Mallory", models.RoleUser)
	ctx := context.Background()

	saved, _, err := env.prompt.Save(ctx, alice.ID, &services.SavePromptRequest{Title: "Secret"})
	require.NoError(t, err)

	_, _, err = env.prompt.Save(ctx, "mallory", &services.SavePromptRequest{
		ID: saved.ID, Title: "Hijacked",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListAvailableFolders(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser(t, "admin", "Admin", models.RoleSuperAdmin)
	env.addUser(t, "bob", "Bob", models.RoleUser)
	ctx := context.Background()

	it := env.addDepartment(t, "IT", admin.ID)
	env.addDepartment(t, "SALES", admin.ID)
	env.grant(t, "bob", it.ID)

	_, err := env.browser.ResolveFolder(ctx, "bob", models.PersonalRootRef)
	require.NoError(t, err)

	folders, err := env.prompt.ListAvailableFolders(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, folders, 2, "personal folder plus the granted department")

	ids := map[string]bool{}
	for _, f := range folders {
		ids[f.ID] = true
	}
	assert.True(t, ids[it.ID])
}
