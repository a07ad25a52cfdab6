package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PolicyStatus представляет статус полиса
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "active"    // Действующий
	PolicyStatusExpired   PolicyStatus = "expired"   // Истек
	PolicyStatusCancelled PolicyStatus = "cancelled" // Отменен
	PolicyStatusRenewed   PolicyStatus = "renewed"   // Продлен (заменен новым полисом)
)

// PaymentFrequency представляет периодичность оплаты полиса
type PaymentFrequency string

const (
	FrequencyMonthly    PaymentFrequency = "monthly"
	FrequencyQuarterly  PaymentFrequency = "quarterly"
	FrequencySemiannual PaymentFrequency = "semiannual"
	FrequencyAnnual     PaymentFrequency = "annual"
	FrequencySingle     PaymentFrequency = "single"
)

// MetadataKeyDocumentURL ключ в metadata полиса, куда импорт кладет
// ссылку на загруженный PDF документ
const MetadataKeyDocumentURL = "document_url"

// Policy представляет страховой полис
// Amount дублирует PremiumTotal (плоское поле для обратной совместимости),
// писатели обязаны держать их синхронными
type Policy struct {
	ID           string       `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID     string       `json:"client_id" gorm:"type:uuid;not null;index"`
	Client       *Client      `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	PolicyNumber string       `json:"policy_number" gorm:"type:varchar(100);not null"`
	Company      string       `json:"company" gorm:"type:varchar(255);not null"` // Страховая компания
	PolicyType   string       `json:"policy_type" gorm:"type:varchar(100);not null;index"` // Autos, Vida, GMM, Hogar...
	Status       PolicyStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`

	StartDate        time.Time        `json:"start_date" gorm:"not null"`
	EndDate          time.Time        `json:"end_date" gorm:"not null;index"`
	PaymentFrequency PaymentFrequency `json:"payment_frequency" gorm:"type:varchar(20);default:'annual'"`

	// Финансовая разбивка премии
	Amount       float64 `json:"amount" gorm:"type:decimal(15,2);default:0"` // = PremiumTotal
	PremiumNet   float64 `json:"premium_net" gorm:"type:decimal(15,2);default:0"`
	PremiumTax   float64 `json:"premium_tax" gorm:"type:decimal(15,2);default:0"`
	PremiumTotal float64 `json:"premium_total" gorm:"type:decimal(15,2);default:0"`
	Currency     string  `json:"currency" gorm:"type:varchar(3);default:'MXN'"`

	NextPaymentDate *time.Time `json:"next_payment_date"`
	ContractMonth   string     `json:"contract_month" gorm:"type:varchar(20)"` // Название месяца начала действия (исп.)
	RenewedFrom     string     `json:"renewed_from,omitempty" gorm:"type:uuid"` // Полис-предшественник при продлении

	Metadata  datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	CreatedBy string            `json:"created_by" gorm:"type:uuid"`
	CreatedAt time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы
func (Policy) TableName() string {
	return "policies"
}

// BeforeCreate генерирует UUID
func (p *Policy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = PolicyStatusActive
	}
	if p.PaymentFrequency == "" {
		p.PaymentFrequency = FrequencyAnnual
	}
	return nil
}

// BaseAmount возвращает базу для расчета комиссий и платежей:
// премия итого, иначе плоское поле Amount
func (p *Policy) BaseAmount() float64 {
	if p.PremiumTotal > 0 {
		return p.PremiumTotal
	}
	return p.Amount
}
