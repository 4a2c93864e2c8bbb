package postgres

import (
	"context"
	"errors"
	"fmt"

	"orgBoard/internal/logger"
	"orgBoard/internal/models/person"
	repo "orgBoard/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// GetOrganization читает организацию вместе с владельцем. Связь 1:1,
// но исторически данные бывают грязными и join может дать несколько строк,
// нормализуем здесь, берём первую, дальше по коду связь всегда одиночная.
func (s *Storage) GetOrganization(ctx context.Context, id uuid.UUID) (*person.Organization, error) {
	query := `SELECT id, name, owner_id, member_group_id
			FROM organisations
			WHERE id = $1
			LIMIT 1`

	org := &person.Organization{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&org.OwnerID,
		&org.MemberGroupID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить организацию", err)
		return nil, fmt.Errorf("получение организации: %w", err)
	}
	return org, nil
}

func (s *Storage) GetPerson(ctx context.Context, id uuid.UUID) (*person.Person, error) {
	query := `SELECT id, display_name FROM persons WHERE id = $1`

	p := &person.Person{}
	err := s.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить человека", err)
		return nil, fmt.Errorf("получение человека: %w", err)
	}
	return p, nil
}

// ListGroupEdges: двусторонние связи группы с подтянутыми именами обеих сторон.
func (s *Storage) ListGroupEdges(ctx context.Context, groupID uuid.UUID) ([]*person.ConnectionEdge, error) {
	query := `SELECT e.id, e.group_id,
				e.source_id, COALESCE(sp.display_name, ''),
				e.target_id, COALESCE(tp.display_name, ''),
				e.created_at
			FROM connection_edges e
			LEFT JOIN persons sp ON sp.id = e.source_id
			LEFT JOIN persons tp ON tp.id = e.target_id
			WHERE e.group_id = $1
			ORDER BY e.created_at`

	rows, err := s.pool.Query(ctx, query, groupID)
	if err != nil {
		logger.Error("Repository: Не удалось получить связи группы", err)
		return nil, fmt.Errorf("получение связей: %w", err)
	}
	defer rows.Close()

	edges := []*person.ConnectionEdge{}
	for rows.Next() {
		e := &person.ConnectionEdge{}
		err := rows.Scan(&e.ID, &e.GroupID, &e.SourceID, &e.SourceName,
			&e.TargetID, &e.TargetName, &e.CreatedAt)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования связи", zap.Error(err))
			continue
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return edges, nil
}

func (s *Storage) HasWriteAccess(ctx context.Context, orgID, personID uuid.UUID) (bool, error) {
	org, err := s.GetOrganization(ctx, orgID)
	if err != nil {
		return false, err
	}
	if org.OwnerID == personID {
		return true, nil
	}

	var exists bool
	err = s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM org_access WHERE org_id = $1 AND person_id = $2)`,
		orgID, personID,
	).Scan(&exists)
	if err != nil {
		logger.Error("Repository: Не удалось проверить доступ", err)
		return false, fmt.Errorf("проверка доступа: %w", err)
	}
	return exists, nil
}
