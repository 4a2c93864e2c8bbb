package service_test

import (
	"context"
	"errors"
	"testing"

	"orgBoard/internal/models/person"
	"orgBoard/internal/repository"
	"orgBoard/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestMemberService_ResolveOrganisationMembers тестирует сборку участников
// из владельца и двусторонних связей группы
func TestMemberService_ResolveOrganisationMembers(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	ownerID := uuid.New()
	groupID := uuid.New()

	org := &person.Organization{
		ID:            orgID,
		Name:          "Bright Tutors",
		OwnerID:       ownerID,
		MemberGroupID: groupID,
	}

	t.Run("owner and both edge endpoints, deduplicated", func(t *testing.T) {
		alice := uuid.New()
		bob := uuid.New()

		mockDir := new(MockDirectoryRepository)
		mockDir.On("GetOrganization", mock.Anything, orgID).Return(org, nil)
		mockDir.On("GetPerson", mock.Anything, ownerID).
			Return(&person.Person{ID: ownerID, DisplayName: "Olga"}, nil)
		mockDir.On("ListGroupEdges", mock.Anything, groupID).Return([]*person.ConnectionEdge{
			{ID: uuid.New(), GroupID: groupID, SourceID: alice, SourceName: "Alice", TargetID: bob, TargetName: "Bob"},
			// владелец встречается и в связи: дубликат схлопывается
			{ID: uuid.New(), GroupID: groupID, SourceID: bob, SourceName: "Bob", TargetID: ownerID, TargetName: "Olga"},
		}, nil)

		svc := service.NewMemberService(mockDir)
		members, err := svc.ResolveOrganisationMembers(ctx, orgID)

		assert.NoError(t, err)
		assert.Len(t, members, 3)
		names := []string{}
		for _, m := range members {
			names = append(names, m.DisplayName)
		}
		assert.Equal(t, []string{"Alice", "Bob", "Olga"}, names)
		mockDir.AssertExpectations(t)
	})

	t.Run("repeated calls give identical order", func(t *testing.T) {
		sameName1 := uuid.New()
		sameName2 := uuid.New()

		mockDir := new(MockDirectoryRepository)
		mockDir.On("GetOrganization", mock.Anything, orgID).Return(org, nil)
		mockDir.On("GetPerson", mock.Anything, ownerID).
			Return(&person.Person{ID: ownerID, DisplayName: "Olga"}, nil)
		mockDir.On("ListGroupEdges", mock.Anything, groupID).Return([]*person.ConnectionEdge{
			{ID: uuid.New(), GroupID: groupID, SourceID: sameName1, SourceName: "Anna", TargetID: sameName2, TargetName: "Anna"},
		}, nil)

		svc := service.NewMemberService(mockDir)
		first, err := svc.ResolveOrganisationMembers(ctx, orgID)
		assert.NoError(t, err)
		second, err := svc.ResolveOrganisationMembers(ctx, orgID)
		assert.NoError(t, err)

		// при равных именах порядок добивается по id
		assert.Equal(t, first, second)
	})

	t.Run("missing owner does not fail the listing", func(t *testing.T) {
		carol := uuid.New()
		dave := uuid.New()

		mockDir := new(MockDirectoryRepository)
		mockDir.On("GetOrganization", mock.Anything, orgID).Return(org, nil)
		mockDir.On("GetPerson", mock.Anything, ownerID).Return(nil, repository.ErrNotFound)
		mockDir.On("ListGroupEdges", mock.Anything, groupID).Return([]*person.ConnectionEdge{
			{ID: uuid.New(), GroupID: groupID, SourceID: carol, SourceName: "Carol", TargetID: dave, TargetName: "Dave"},
		}, nil)

		svc := service.NewMemberService(mockDir)
		members, err := svc.ResolveOrganisationMembers(ctx, orgID)

		assert.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("edge listing failure returns partial result", func(t *testing.T) {
		mockDir := new(MockDirectoryRepository)
		mockDir.On("GetOrganization", mock.Anything, orgID).Return(org, nil)
		mockDir.On("GetPerson", mock.Anything, ownerID).
			Return(&person.Person{ID: ownerID, DisplayName: "Olga"}, nil)
		mockDir.On("ListGroupEdges", mock.Anything, groupID).
			Return(nil, errors.New("graph store timeout"))

		svc := service.NewMemberService(mockDir)
		members, err := svc.ResolveOrganisationMembers(ctx, orgID)

		assert.NoError(t, err)
		assert.Len(t, members, 1)
		assert.Equal(t, ownerID, members[0].ID)
	})

	t.Run("error - organisation not found", func(t *testing.T) {
		mockDir := new(MockDirectoryRepository)
		mockDir.On("GetOrganization", mock.Anything, orgID).Return(nil, repository.ErrNotFound)

		svc := service.NewMemberService(mockDir)
		_, err := svc.ResolveOrganisationMembers(ctx, orgID)

		assert.Error(t, err)
		assert.Equal(t, "NOT_FOUND", businessCode(t, err))
	})
}
