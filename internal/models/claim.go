package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimStatus представляет статус страхового случая
type ClaimStatus string

const (
	ClaimStatusOpen     ClaimStatus = "open"
	ClaimStatusInReview ClaimStatus = "in_review"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
	ClaimStatusPaid     ClaimStatus = "paid"
)

// Claim представляет страховой случай по полису
type Claim struct {
	ID           string      `json:"id" gorm:"type:uuid;primaryKey"`
	PolicyID     string      `json:"policy_id" gorm:"type:uuid;not null;index"`
	Policy       *Policy     `json:"policy,omitempty" gorm:"foreignKey:PolicyID"`
	ClientID     string      `json:"client_id" gorm:"type:uuid;not null;index"`
	ClaimNumber  string      `json:"claim_number" gorm:"type:varchar(100)"`
	Description  string      `json:"description" gorm:"type:text"`
	Status       ClaimStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`
	Amount       float64     `json:"amount" gorm:"type:decimal(15,2);default:0"`
	IncidentDate *time.Time  `json:"incident_date"`
	CreatedBy    string      `json:"created_by" gorm:"type:uuid"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы
func (Claim) TableName() string {
	return "claims"
}

// BeforeCreate генерирует UUID
func (c *Claim) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = ClaimStatusOpen
	}
	return nil
}
