package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PersonType представляет тип клиента
type PersonType string

const (
	PersonTypeFisica PersonType = "fisica" // Физическое лицо
	PersonTypeMoral  PersonType = "moral"  // Юридическое лицо
)

// Client представляет клиента агентства (держателя полисов)
// Дедупликация при импорте: tax_id → email → (name, last_name)
// Жестких constraint-ов уникальности нет, дедупликация best-effort
type Client struct {
	ID         string     `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string     `json:"name" gorm:"type:varchar(255);not null"` // Для юрлиц — юридическое название
	LastName   string     `json:"last_name" gorm:"type:varchar(255)"`
	TaxID      string     `json:"tax_id" gorm:"type:varchar(20);index"` // RFC (уникальность best-effort, поле опционально)
	Email      string     `json:"email" gorm:"type:varchar(255);index"`
	Phone      string     `json:"phone" gorm:"type:varchar(50)"`
	PersonType PersonType `json:"person_type" gorm:"type:varchar(20);default:'fisica'"`

	// Почтовый адрес
	Street     string `json:"street" gorm:"type:varchar(255)"`
	City       string `json:"city" gorm:"type:varchar(100)"`
	State      string `json:"state" gorm:"type:varchar(100)"`
	PostalCode string `json:"postal_code" gorm:"type:varchar(10)"`

	Metadata  datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	CreatedBy string            `json:"created_by" gorm:"type:uuid"`
	CreatedAt time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы
func (Client) TableName() string {
	return "clients"
}

// BeforeCreate генерирует UUID
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.PersonType == "" {
		c.PersonType = PersonTypeFisica
	}
	return nil
}

// FullName возвращает полное имя клиента
func (c *Client) FullName() string {
	if c.LastName == "" {
		return c.Name
	}
	return c.Name + " " + c.LastName
}
