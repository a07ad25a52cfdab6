package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadStage представляет колонку канбан-доски продаж
type LeadStage string

const (
	LeadStageNew         LeadStage = "new"
	LeadStageContacted   LeadStage = "contacted"
	LeadStageQuoted      LeadStage = "quoted"
	LeadStageNegotiation LeadStage = "negotiation"
	LeadStageWon         LeadStage = "won"
	LeadStageLost        LeadStage = "lost"
)

// ValidLeadStage проверяет, что этап существует на доске
func ValidLeadStage(s LeadStage) bool {
	switch s {
	case LeadStageNew, LeadStageContacted, LeadStageQuoted,
		LeadStageNegotiation, LeadStageWon, LeadStageLost:
		return true
	}
	return false
}

// Lead представляет карточку потенциального клиента на канбан-доске
type Lead struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string    `json:"name" gorm:"type:varchar(255);not null"`
	Email          string    `json:"email" gorm:"type:varchar(255)"`
	Phone          string    `json:"phone" gorm:"type:varchar(50)"`
	PolicyType     string    `json:"policy_type" gorm:"type:varchar(100)"` // Интересующий продукт
	Stage          LeadStage `json:"stage" gorm:"type:varchar(20);default:'new';index"`
	Position       int       `json:"position" gorm:"default:0"` // Порядок внутри колонки
	EstimatedValue float64   `json:"estimated_value" gorm:"type:decimal(15,2);default:0"`
	Notes          string    `json:"notes" gorm:"type:text"`
	AssignedTo     string    `json:"assigned_to" gorm:"type:uuid"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы
func (Lead) TableName() string {
	return "leads"
}

// BeforeCreate генерирует UUID
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Stage == "" {
		l.Stage = LeadStageNew
	}
	return nil
}
