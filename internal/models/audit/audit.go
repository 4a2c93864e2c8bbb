package audit

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const KindStageTransition Kind = "stage_transition"
const KindReassignment Kind = "reassignment"

// Record: строка журнала по задаче. Пишется той же процедурой,
// что и сам перевод этапа или переназначение, отдельной записи нет.
type Record struct {
	UUID         uuid.UUID         `json:"uuid" db:"uuid"`
	TaskID       uuid.UUID         `json:"task_id" db:"task_id"`
	Kind         Kind              `json:"kind" db:"kind"`
	FromStage    *string           `json:"from_stage,omitempty" db:"from_stage"`
	ToStage      *string           `json:"to_stage,omitempty" db:"to_stage"`
	FromAssignee *uuid.UUID        `json:"from_assignee,omitempty" db:"from_assignee"`
	ToAssignee   *uuid.UUID        `json:"to_assignee,omitempty" db:"to_assignee"`
	ActorID      uuid.UUID         `json:"actor_id" db:"actor_id"`
	Notes        string            `json:"notes,omitempty" db:"notes"`
	Metadata     map[string]string `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}
