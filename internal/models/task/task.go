package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID             uuid.UUID  `json:"uuid" db:"uuid"`
	OrgID            uuid.UUID  `json:"org_id" db:"org_id"`
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description"`
	Stage            Stage      `json:"stage" db:"stage"`
	Priority         Priority   `json:"priority" db:"priority"`
	Category         Category   `json:"category" db:"category"`
	DueDate          *time.Time `json:"due_date,omitempty" db:"due_date"`
	RequiresApproval bool       `json:"requires_approval" db:"requires_approval"`
	CreatorID        uuid.UUID  `json:"creator_id" db:"creator_id"`
	AssigneeID       *uuid.UUID `json:"assignee_id,omitempty" db:"assignee_id"`
	ClientID         *uuid.UUID `json:"client_id,omitempty" db:"client_id"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Version          int        `json:"version" db:"version"`
}

// Clone возвращает независимую копию задачи (для оптимистичного кэша доски).
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.AssigneeID != nil {
		a := *t.AssigneeID
		c.AssigneeID = &a
	}
	if t.ClientID != nil {
		cl := *t.ClientID
		c.ClientID = &cl
	}
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		c.UpdatedAt = &u
	}
	if t.CompletedAt != nil {
		d := *t.CompletedAt
		c.CompletedAt = &d
	}
	return &c
}
