package services

import (
	"fmt"
	"time"
)

// ImportConfirmation подтвержденные ревьюером данные импорта полиса
// ClientID непустой = привязка к существующему клиенту без поиска
type ImportConfirmation struct {
	ClientID string          `json:"client_id,omitempty"`
	Client   ExtractedClient `json:"client"`
	Policy   ExtractedPolicy `json:"policy"`
}

// minTaxIDLength минимальная длина RFC для импортированных полисов
// Жестче, чем опциональный tax_id у самой сущности Client — осознанно:
// импорт без налогового идентификатора не подтверждается
const minTaxIDLength = 10

var validFrequencies = map[string]bool{
	"monthly":    true,
	"quarterly":  true,
	"semiannual": true,
	"annual":     true,
	"single":     true,
}

var validCurrencies = map[string]bool{
	"MXN": true,
	"USD": true,
	"EUR": true,
	"UDI": true,
}

// ReviewService валидирует данные импорта перед сохранением
type ReviewService struct{}

// NewReviewService создает сервис проверки данных импорта
func NewReviewService() *ReviewService {
	return &ReviewService{}
}

// Validate проверяет подтвержденные данные
// Возвращает map поле → сообщение; пустая map = данные валидны
// Ошибки локализованы по полям, ревьюер исправляет и отправляет повторно
func (rs *ReviewService) Validate(conf ImportConfirmation) map[string]string {
	errs := make(map[string]string)

	// Клиент
	if conf.Client.PersonType != "fisica" && conf.Client.PersonType != "moral" {
		errs["client.person_type"] = "tipo de persona inválido (fisica o moral)"
	}
	if conf.Client.Name == "" {
		errs["client.name"] = "el nombre es obligatorio"
	}
	if len(conf.Client.TaxID) < minTaxIDLength {
		errs["client.tax_id"] = fmt.Sprintf("el RFC debe tener al menos %d caracteres", minTaxIDLength)
	}

	// Полис
	if conf.Policy.PolicyNumber == "" {
		errs["policy.policy_number"] = "el número de póliza es obligatorio"
	}
	if conf.Policy.Company == "" {
		errs["policy.company"] = "la aseguradora es obligatoria"
	}
	if conf.Policy.PolicyType == "" {
		errs["policy.policy_type"] = "el tipo de póliza es obligatorio"
	}
	if !validFrequencies[conf.Policy.PaymentFrequency] {
		errs["policy.payment_frequency"] = "frecuencia de pago inválida"
	}

	startDate, startErr := parseImportDate(conf.Policy.StartDate)
	if startErr != nil {
		errs["policy.start_date"] = "fecha de inicio inválida (YYYY-MM-DD)"
	}
	endDate, endErr := parseImportDate(conf.Policy.EndDate)
	if endErr != nil {
		errs["policy.end_date"] = "fecha de fin inválida (YYYY-MM-DD)"
	}
	if startErr == nil && endErr == nil && endDate.Before(startDate) {
		errs["policy.end_date"] = "la fecha de fin no puede ser anterior al inicio"
	}

	// Финансы
	if conf.Policy.Financial.NetPremium < 0 {
		errs["policy.financial.net_premium"] = "la prima neta no puede ser negativa"
	}
	if conf.Policy.Financial.TaxAmount < 0 {
		errs["policy.financial.tax_amount"] = "el impuesto no puede ser negativo"
	}
	if conf.Policy.Financial.TotalPremium < 0 {
		errs["policy.financial.total_premium"] = "la prima total no puede ser negativa"
	}
	if !validCurrencies[conf.Policy.Financial.Currency] {
		errs["policy.financial.currency"] = "moneda inválida (MXN, USD, EUR, UDI)"
	}

	return errs
}

// parseImportDate парсит дату в формате YYYY-MM-DD (UTC)
func parseImportDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	return time.ParseInLocation("2006-01-02", value, time.UTC)
}
