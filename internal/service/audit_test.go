package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"promptdesk/internal/domain"
	"promptdesk/internal/domain/models"
)

func TestRecordNoOpsWithoutActor(t *testing.T) {
	env := newTestEnv()

	env.audit.Record(context.Background(), "", ActionRename, nil, models.NewRenameDetails(models.KindFolder, "a", "b"))

	assert.Empty(t, env.auditRepo.entries)
}

func TestRecordSwallowsStorageFailure(t *testing.T) {
	env := newTestEnv()
	env.auditRepo.failErr = errors.New("storage down")

	// Must not panic or propagate; the caller never sees audit failures.
	env.audit.Record(context.Background(), "alice", ActionDelete, nil, models.NewDeleteDetails(models.KindFile, "draft"))

	assert.Empty(t, env.auditRepo.entries)
}

func TestRecordSerializesTypedDetails(t *testing.T) {
	env := newTestEnv()
	id := "folder-1"

	env.audit.Record(context.Background(), "alice", ActionMove, &id,
		models.NewMoveDetails(models.KindFolder, "Docs", "dest-1", "Archive"))

	require.Len(t, env.auditRepo.entries, 1)
	entry := env.auditRepo.entries[0]
	assert.Equal(t, ActionMove, entry.Action)
	require.NotNil(t, entry.EntityID)
	assert.Equal(t, id, *entry.EntityID)

	var payload models.MoveDetails
	require.NoError(t, json.Unmarshal(entry.Details, &payload))
	assert.Equal(t, "move", payload.Kind)
	assert.Equal(t, "Archive", payload.DestinationName)
}

func TestListRecentRequiresAdmin(t *testing.T) {
	env := newTestEnv()
	admin := env.addUser(t, "admin", "Admin", models.RoleSuperAdmin)
	env.addUser(t, "bob", "Bob", models.RoleUser)
	ctx := context.Background()

	_, err := env.audit.ListRecent(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	env.audit.Record(ctx, "bob", ActionRename, nil, models.NewRenameDetails(models.KindFile, "a", "b"))

	entries, err := env.audit.ListRecent(ctx, admin.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
