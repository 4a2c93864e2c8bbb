package inmemory_test

import (
	"context"
	"testing"
	"time"

	"orgBoard/internal/models/comment"
	"orgBoard/internal/models/person"
	"orgBoard/internal/repository"
	"orgBoard/internal/repository/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDirectoryStorage_HasWriteAccess тестирует правила доступа на запись
func TestDirectoryStorage_HasWriteAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewDirectoryStorage()

	orgID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()
	strangerID := uuid.New()

	storage.AddOrganization(&person.Organization{
		ID:            orgID,
		Name:          "Bright Tutors",
		OwnerID:       ownerID,
		MemberGroupID: uuid.New(),
	})
	storage.GrantWriteAccess(orgID, memberID)

	ok, err := storage.HasWriteAccess(ctx, orgID, ownerID)
	require.NoError(t, err)
	assert.True(t, ok, "владелец пишет всегда")

	ok, err = storage.HasWriteAccess(ctx, orgID, memberID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = storage.HasWriteAccess(ctx, orgID, strangerID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = storage.HasWriteAccess(ctx, uuid.New(), ownerID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestDirectoryStorage_ListGroupEdges тестирует подтягивание имён на рёбра
func TestDirectoryStorage_ListGroupEdges(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewDirectoryStorage()

	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	ghost := uuid.New() // в справочнике людей отсутствует

	storage.AddPerson(&person.Person{ID: alice, DisplayName: "Alice"})
	storage.AddPerson(&person.Person{ID: bob, DisplayName: "Bob"})
	storage.AddEdge(groupID, alice, bob)
	storage.AddEdge(groupID, bob, ghost)

	edges, err := storage.ListGroupEdges(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "Alice", edges[0].SourceName)
	assert.Equal(t, "Bob", edges[0].TargetName)
	assert.Equal(t, "", edges[1].TargetName, "неизвестный человек остаётся без имени")
}

// TestCommentStorage_Ordering тестирует порядок треда
func TestCommentStorage_Ordering(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewCommentStorage()
	taskID := uuid.New()
	base := time.Now()

	// записываем вперемешку
	for _, c := range []*comment.Comment{
		{UUID: uuid.New(), TaskID: taskID, Text: "second", CreatedAt: base.Add(time.Second)},
		{UUID: uuid.New(), TaskID: taskID, Text: "first", CreatedAt: base},
		{UUID: uuid.New(), TaskID: taskID, Text: "third", CreatedAt: base.Add(2 * time.Second)},
	} {
		require.NoError(t, storage.CreateComment(ctx, c))
	}

	comments, err := storage.ListCommentsByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "second", comments[1].Text)
	assert.Equal(t, "third", comments[2].Text)

	empty, err := storage.ListCommentsByTask(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
