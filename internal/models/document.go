package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document представляет загруженный файл, привязанный к клиенту,
// полису или страховому случаю (ровно одна привязка по контексту загрузки)
// При удалении сначала best-effort удаляется объект в хранилище,
// затем авторитетно удаляется строка
type Document struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID    string    `json:"client_id,omitempty" gorm:"type:uuid;index"`
	PolicyID    string    `json:"policy_id,omitempty" gorm:"type:uuid;index"`
	ClaimID     string    `json:"claim_id,omitempty" gorm:"type:uuid;index"`
	FileName    string    `json:"file_name" gorm:"type:varchar(255);not null"`
	MimeType    string    `json:"mime_type" gorm:"type:varchar(100)"`
	SizeBytes   int64     `json:"size_bytes" gorm:"default:0"`
	URL         string    `json:"url" gorm:"type:varchar(500)"`          // Публичная ссылка
	StoragePath string    `json:"storage_path" gorm:"type:varchar(500)"` // Внутренний путь в бакете
	DocType     string    `json:"doc_type" gorm:"type:varchar(50)"`      // policy, claim, id, other
	Description string    `json:"description" gorm:"type:varchar(500)"`
	UploadedBy  string    `json:"uploaded_by" gorm:"type:uuid"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate генерирует UUID
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
