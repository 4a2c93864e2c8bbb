package attachment

import (
	"time"

	"github.com/google/uuid"
)

// MaxSizeBytes: предел размера загружаемого файла (10 МиБ).
const MaxSizeBytes int64 = 10_485_760

type Attachment struct {
	UUID       uuid.UUID `json:"uuid" db:"uuid"`
	TaskID     uuid.UUID `json:"task_id" db:"task_id"`
	FileName   string    `json:"file_name" db:"file_name"`
	Size       int64     `json:"size" db:"size"`
	MimeType   string    `json:"mime_type,omitempty" db:"mime_type"`
	StorageKey string    `json:"-" db:"storage_key"`
	UploaderID uuid.UUID `json:"uploader_id" db:"uploader_id"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}
