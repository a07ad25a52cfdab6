package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStatus представляет статус платежа по полису
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Payment представляет один плановый платеж по полису
// Не более одного платежа на полис в календарный месяц —
// контролируется задачей генерации платежей
type Payment struct {
	ID            string        `json:"id" gorm:"type:uuid;primaryKey"`
	PolicyID      string        `json:"policy_id" gorm:"type:uuid;not null;index"`
	Policy        *Policy       `json:"policy,omitempty" gorm:"foreignKey:PolicyID"`
	Amount        float64       `json:"amount" gorm:"type:decimal(15,2);default:0"`
	DueDate       time.Time     `json:"due_date" gorm:"not null;index"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentMethod string        `json:"payment_method" gorm:"type:varchar(50)"` // Пустой до оплаты
	PaymentLink   string        `json:"payment_link" gorm:"type:varchar(500)"`
	CreatedAt     time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate генерирует UUID
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = PaymentStatusPending
	}
	return nil
}
