package person

import (
	"time"

	"github.com/google/uuid"
)

type Person struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
}

// Organization: организация на площадке: владелец плюс группа участников,
// к которой привязаны двусторонние связи.
type Organization struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	OwnerID       uuid.UUID `json:"owner_id" db:"owner_id"`
	MemberGroupID uuid.UUID `json:"member_group_id" db:"member_group_id"`
}

// ConnectionEdge: двусторонняя связь между двумя людьми, записанная
// на группу участников организации. Имена подтягиваются на уровне
// репозитория, чтобы сервису не ходить за каждым человеком отдельно.
type ConnectionEdge struct {
	ID         uuid.UUID `json:"id" db:"id"`
	GroupID    uuid.UUID `json:"group_id" db:"group_id"`
	SourceID   uuid.UUID `json:"source_id" db:"source_id"`
	SourceName string    `json:"source_name" db:"source_name"`
	TargetID   uuid.UUID `json:"target_id" db:"target_id"`
	TargetName string    `json:"target_name" db:"target_name"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Member: вычисленный участник организации, не хранится в БД.
type Member struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}
