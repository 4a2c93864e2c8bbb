package inmemory

import (
	"context"
	"sync"
	"time"

	"orgBoard/internal/models/person"
	repo "orgBoard/internal/repository"

	"github.com/google/uuid"
)

// DirectoryStorage: справочник организаций, людей и связей.
// Имена на рёбрах заполняются при чтении из таблицы людей, как это
// делает join в postgres-реализации.
type DirectoryStorage struct {
	mtx     sync.RWMutex
	orgs    map[uuid.UUID]*person.Organization
	persons map[uuid.UUID]*person.Person
	edges   map[uuid.UUID][]*person.ConnectionEdge
	access  map[uuid.UUID]map[uuid.UUID]bool
}

func NewDirectoryStorage() *DirectoryStorage {
	return &DirectoryStorage{
		orgs:    make(map[uuid.UUID]*person.Organization),
		persons: make(map[uuid.UUID]*person.Person),
		edges:   make(map[uuid.UUID][]*person.ConnectionEdge),
		access:  make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (s *DirectoryStorage) AddOrganization(org *person.Organization) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	cp := *org
	s.orgs[org.ID] = &cp
}

func (s *DirectoryStorage) AddPerson(p *person.Person) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	cp := *p
	s.persons[p.ID] = &cp
}

func (s *DirectoryStorage) AddEdge(groupID, sourceID, targetID uuid.UUID) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.edges[groupID] = append(s.edges[groupID], &person.ConnectionEdge{
		ID:        uuid.New(),
		GroupID:   groupID,
		SourceID:  sourceID,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	})
}

func (s *DirectoryStorage) GrantWriteAccess(orgID, personID uuid.UUID) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.access[orgID] == nil {
		s.access[orgID] = make(map[uuid.UUID]bool)
	}
	s.access[orgID][personID] = true
}

func (s *DirectoryStorage) GetOrganization(ctx context.Context, id uuid.UUID) (*person.Organization, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	org, ok := s.orgs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *org
	return &cp, nil
}

func (s *DirectoryStorage) GetPerson(ctx context.Context, id uuid.UUID) (*person.Person, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.persons[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *DirectoryStorage) ListGroupEdges(ctx context.Context, groupID uuid.UUID) ([]*person.ConnectionEdge, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	edges := s.edges[groupID]
	res := make([]*person.ConnectionEdge, 0, len(edges))
	for _, e := range edges {
		cp := *e
		if p, ok := s.persons[e.SourceID]; ok {
			cp.SourceName = p.DisplayName
		}
		if p, ok := s.persons[e.TargetID]; ok {
			cp.TargetName = p.DisplayName
		}
		res = append(res, &cp)
	}
	return res, nil
}

// HasWriteAccess: владелец пишет всегда, остальным доступ выдаётся явно.
func (s *DirectoryStorage) HasWriteAccess(ctx context.Context, orgID, personID uuid.UUID) (bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	org, ok := s.orgs[orgID]
	if !ok {
		return false, repo.ErrNotFound
	}
	if org.OwnerID == personID {
		return true, nil
	}
	return s.access[orgID][personID], nil
}
