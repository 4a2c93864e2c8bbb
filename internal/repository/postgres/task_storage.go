package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orgBoard/internal/logger"
	"orgBoard/internal/models/audit"
	"orgBoard/internal/models/task"
	repo "orgBoard/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const taskColumns = `uuid,
				org_id,
				title,
				description,
				stage,
				priority,
				category,
				due_date,
				requires_approval,
				creator_id,
				assignee_id,
				client_id,
				created_at,
				updated_at,
				completed_at,
				version`

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.UUID,
		&t.OrgID,
		&t.Title,
		&t.Description,
		&t.Stage,
		&t.Priority,
		&t.Category,
		&t.DueDate,
		&t.RequiresApproval,
		&t.CreatorID,
		&t.AssigneeID,
		&t.ClientID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.CompletedAt,
		&t.Version,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(uuid, org_id, title, description, stage, priority, category,
				 due_date, requires_approval, creator_id, assignee_id, client_id,
				 created_at, version)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), 1)
				RETURNING created_at, version`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.UUID,
		taskToCreate.OrgID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Stage,
		taskToCreate.Priority,
		taskToCreate.Category,
		taskToCreate.DueDate,
		taskToCreate.RequiresApproval,
		taskToCreate.CreatorID,
		taskToCreate.AssigneeID,
		taskToCreate.ClientID,
	).Scan(&taskToCreate.CreatedAt, &taskToCreate.Version)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

// Update: перезапись редактируемых полей с проверкой версии.
// Этап намеренно не входит в SET: он меняется только процедурой Transition.
func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				priority = $3,
				category = $4,
				due_date = $5,
				requires_approval = $6,
				client_id = $7,
				version = version + 1,
				updated_at = NOW()
			WHERE uuid = $8 AND version = $9
			RETURNING updated_at, version`

	err := s.pool.QueryRow(ctx, query,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Priority,
		taskToUpdate.Category,
		taskToUpdate.DueDate,
		taskToUpdate.RequiresApproval,
		taskToUpdate.ClientID,
		taskToUpdate.UUID,
		taskToUpdate.Version,
	).Scan(&taskToUpdate.UpdatedAt, &taskToUpdate.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, checkErr := s.taskExists(ctx, taskToUpdate.UUID)
			if checkErr == nil && !exists {
				return repo.ErrNotFound
			}
			logger.Warn("Repository: Конфликт версий при обновлении задачи",
				zap.String("task_id", taskToUpdate.UUID.String()),
				zap.Int("expected_version", taskToUpdate.Version))
			return repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) taskExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE uuid = $1)`, id).Scan(&exists)
	return exists, err
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE uuid = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return t, nil
}

func (s *Storage) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE org_id = $1 ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return tasks, nil
}

// Transition: перевод этапа одной транзакцией: блокировка строки,
// проверка версии, запись этапа с бухгалтерией completed_at и строка аудита.
func (s *Storage) Transition(ctx context.Context, req task.TransitionRequest) (*task.Task, error) {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return nil, fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentStage task.Stage
	var currentVersion int
	err = tx.QueryRow(ctx,
		`SELECT stage, version FROM tasks WHERE uuid = $1 FOR UPDATE`,
		req.TaskID,
	).Scan(&currentStage, &currentVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось заблокировать задачу", err)
		return nil, fmt.Errorf("блокировка задачи: %w", err)
	}

	if req.ExpectedVersion != 0 && currentVersion != req.ExpectedVersion {
		logger.Warn("Repository: Конфликт версий при переводе этапа",
			zap.String("task_id", req.TaskID.String()),
			zap.Int("expected_version", req.ExpectedVersion),
			zap.Int("actual_version", currentVersion))
		return nil, repo.ErrVersionConflict
	}

	// Перевод в текущий этап не пишет ни задачу, ни аудит.
	if currentStage == req.NewStage {
		t, err := scanTask(tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE uuid = $1`, req.TaskID))
		if err != nil {
			return nil, fmt.Errorf("получение задачи: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("фиксация транзакции: %w", err)
		}
		return t, nil
	}

	t, err := scanTask(tx.QueryRow(ctx,
		`UPDATE tasks
		SET stage = $1,
			completed_at = CASE WHEN $1 = 'done' THEN NOW() ELSE NULL END,
			updated_at = NOW(),
			version = version + 1
		WHERE uuid = $2
		RETURNING `+taskColumns,
		req.NewStage, req.TaskID,
	))
	if err != nil {
		logger.Error("Repository: Не удалось перевести этап", err)
		return nil, fmt.Errorf("перевод этапа: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO task_audit
			(uuid, task_id, kind, from_stage, to_stage, actor_id, notes, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		uuid.New(), req.TaskID, audit.KindStageTransition,
		string(currentStage), string(req.NewStage),
		req.PerformedBy, req.Notes, req.Metadata,
	)
	if err != nil {
		logger.Error("Repository: Не удалось записать аудит перевода", err)
		return nil, fmt.Errorf("запись аудита: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось зафиксировать перевод", err)
		return nil, fmt.Errorf("фиксация транзакции: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return t, nil
}

// Assign: переназначение той же схемой: транзакция плюс отдельная строка аудита.
func (s *Storage) Assign(ctx context.Context, req task.AssignRequest) (*task.Task, error) {
	start := time.Now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		logger.Error("Repository: Не удалось открыть транзакцию", err)
		return nil, fmt.Errorf("открытие транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentAssignee *uuid.UUID
	var currentVersion int
	err = tx.QueryRow(ctx,
		`SELECT assignee_id, version FROM tasks WHERE uuid = $1 FOR UPDATE`,
		req.TaskID,
	).Scan(&currentAssignee, &currentVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось заблокировать задачу", err)
		return nil, fmt.Errorf("блокировка задачи: %w", err)
	}

	if req.ExpectedVersion != 0 && currentVersion != req.ExpectedVersion {
		logger.Warn("Repository: Конфликт версий при переназначении",
			zap.String("task_id", req.TaskID.String()),
			zap.Int("expected_version", req.ExpectedVersion),
			zap.Int("actual_version", currentVersion))
		return nil, repo.ErrVersionConflict
	}

	t, err := scanTask(tx.QueryRow(ctx,
		`UPDATE tasks
		SET assignee_id = $1,
			updated_at = NOW(),
			version = version + 1
		WHERE uuid = $2
		RETURNING `+taskColumns,
		req.AssigneeID, req.TaskID,
	))
	if err != nil {
		logger.Error("Repository: Не удалось переназначить задачу", err)
		return nil, fmt.Errorf("переназначение задачи: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO task_audit
			(uuid, task_id, kind, from_assignee, to_assignee, actor_id, notes, metadata, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		uuid.New(), req.TaskID, audit.KindReassignment,
		currentAssignee, req.AssigneeID,
		req.PerformedBy, req.Notes, req.Metadata,
	)
	if err != nil {
		logger.Error("Repository: Не удалось записать аудит переназначения", err)
		return nil, fmt.Errorf("запись аудита: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error("Repository: Не удалось зафиксировать переназначение", err)
		return nil, fmt.Errorf("фиксация транзакции: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return t, nil
}

func (s *Storage) ListAudit(ctx context.Context, taskID uuid.UUID) ([]*audit.Record, error) {
	start := time.Now()

	query := `SELECT uuid, task_id, kind, from_stage, to_stage,
				from_assignee, to_assignee, actor_id, notes, metadata, created_at
			FROM task_audit
			WHERE task_id = $1
			ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, taskID)
	if err != nil {
		logger.Error("Repository: Не удалось получить аудит", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение аудита: %w", err)
	}
	defer rows.Close()

	records := []*audit.Record{}
	for rows.Next() {
		rec := &audit.Record{}
		err := rows.Scan(
			&rec.UUID,
			&rec.TaskID,
			&rec.Kind,
			&rec.FromStage,
			&rec.ToStage,
			&rec.FromAssignee,
			&rec.ToAssignee,
			&rec.ActorID,
			&rec.Notes,
			&rec.Metadata,
			&rec.CreatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования аудита", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return records, nil
}
