package comment

import (
	"time"

	"github.com/google/uuid"
)

// Comment: запись в треде задачи. Только добавление: редактирования
// и удаления существующих комментариев нет.
type Comment struct {
	UUID      uuid.UUID `json:"uuid" db:"uuid"`
	TaskID    uuid.UUID `json:"task_id" db:"task_id"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
