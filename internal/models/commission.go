package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommissionStatus представляет статус комиссии агента
type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusPaid    CommissionStatus = "paid"
)

// Commission представляет начисленную комиссию агента по полису
// Не более одной комиссии на полис — контролируется задачей генерации
type Commission struct {
	ID         string           `json:"id" gorm:"type:uuid;primaryKey"`
	PolicyID   string           `json:"policy_id" gorm:"type:uuid;not null;index"`
	Policy     *Policy          `json:"policy,omitempty" gorm:"foreignKey:PolicyID"`
	AgentName  string           `json:"agent_name" gorm:"type:varchar(255)"`
	BaseAmount float64          `json:"base_amount" gorm:"type:decimal(15,2);default:0"`
	Percentage float64          `json:"percentage" gorm:"type:decimal(5,2);default:0"`
	Amount     float64          `json:"amount" gorm:"type:decimal(15,2);default:0"` // base * pct / 100, округление до 2 знаков
	Status     CommissionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt  time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы
func (Commission) TableName() string {
	return "commissions"
}

// BeforeCreate генерирует UUID
func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = CommissionStatusPending
	}
	return nil
}

// CommissionRule представляет правило расчета комиссии
// Company пустая = wildcard (правило действует для любой компании)
// При нескольких подходящих правилах побеждает первое по порядку создания
type CommissionRule struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	PolicyType string    `json:"policy_type" gorm:"type:varchar(100);not null;index"`
	Company    string    `json:"company" gorm:"type:varchar(255)"` // Пустая строка = любая компания
	Percentage float64   `json:"percentage" gorm:"type:decimal(5,2);not null"`
	AgentName  string    `json:"agent_name" gorm:"type:varchar(255)"`
	Active     bool      `json:"active" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы
func (CommissionRule) TableName() string {
	return "commission_rules"
}

// BeforeCreate генерирует UUID
func (r *CommissionRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// Matches проверяет, применимо ли правило к полису
// strict=true требует точного совпадения компании
func (r *CommissionRule) Matches(p *Policy, strict bool) bool {
	if r.PolicyType != p.PolicyType {
		return false
	}
	if strict {
		return r.Company == p.Company
	}
	return r.Company == ""
}
