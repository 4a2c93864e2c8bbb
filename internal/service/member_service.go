package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"orgBoard/internal/logger"
	"orgBoard/internal/models/person"
	rep "orgBoard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MemberService собирает участников организации обходом графа связей,
// а не по плоской таблице членства: владелец плюс обе стороны каждой
// двусторонней связи, записанной на группу участников.
type MemberService struct {
	directory DirectoryRepository
}

func NewMemberService(directory DirectoryRepository) MemberService {
	return MemberService{
		directory: directory,
	}
}

// ResolveOrganisationMembers: результат кормит выпадающий список
// исполнителей в UI, поэтому сборка "по возможности": недоступный
// владелец или связи не валят весь ответ.
func (s *MemberService) ResolveOrganisationMembers(ctx context.Context, orgID uuid.UUID) ([]*person.Member, error) {
	org, err := s.directory.GetOrganization(ctx, orgID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound("организация", orgID.String())
		}
		return nil, fmt.Errorf("получение организации: %w", err)
	}

	seen := make(map[uuid.UUID]*person.Member)

	owner, err := s.directory.GetPerson(ctx, org.OwnerID)
	if err != nil {
		logger.Warn("Service: Владелец не найден, продолжаем без него",
			zap.String("org_id", orgID.String()),
			zap.String("owner_id", org.OwnerID.String()),
			zap.Error(err))
	} else {
		seen[owner.ID] = &person.Member{ID: owner.ID, DisplayName: owner.DisplayName}
	}

	edges, err := s.directory.ListGroupEdges(ctx, org.MemberGroupID)
	if err != nil {
		logger.Warn("Service: Связи группы недоступны, отдаём собранное",
			zap.String("group_id", org.MemberGroupID.String()),
			zap.Error(err))
		return sortMembers(seen), nil
	}

	// Связь симметрична: в участники попадают обе стороны,
	// независимо от того, кто её инициировал.
	for _, e := range edges {
		if _, ok := seen[e.SourceID]; !ok {
			seen[e.SourceID] = &person.Member{ID: e.SourceID, DisplayName: e.SourceName}
		}
		if _, ok := seen[e.TargetID]; !ok {
			seen[e.TargetID] = &person.Member{ID: e.TargetID, DisplayName: e.TargetName}
		}
	}

	return sortMembers(seen), nil
}

// sortMembers: сортировка по имени с учётом локали; при равных именах
// добивка по id, чтобы порядок был воспроизводимым.
func sortMembers(seen map[uuid.UUID]*person.Member) []*person.Member {
	members := make([]*person.Member, 0, len(seen))
	for _, m := range seen {
		members = append(members, m)
	}

	c := collate.New(language.English)
	sort.SliceStable(members, func(i, j int) bool {
		cmp := c.CompareString(members[i].DisplayName, members[j].DisplayName)
		if cmp != 0 {
			return cmp < 0
		}
		return members[i].ID.String() < members[j].ID.String()
	})
	return members
}
