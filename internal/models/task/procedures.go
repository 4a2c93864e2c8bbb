package task

import "github.com/google/uuid"

// TransitionRequest: параметры процедуры перевода этапа. Запись этапа,
// completed_at и строка аудита применяются одной атомарной операцией.
type TransitionRequest struct {
	TaskID      uuid.UUID
	NewStage    Stage
	PerformedBy uuid.UUID
	Notes       string
	Metadata    map[string]string
	// ExpectedVersion: версия, прочитанная вызывающей стороной.
	// 0 отключает проверку.
	ExpectedVersion int
}

// AssignRequest: параметры процедуры переназначения. Выделена отдельно,
// чтобы смена исполнителя попадала в аудит независимо от обычных правок.
type AssignRequest struct {
	TaskID      uuid.UUID
	AssigneeID  *uuid.UUID
	PerformedBy uuid.UUID
	Notes       string
	Metadata    map[string]string
	ExpectedVersion int
}
