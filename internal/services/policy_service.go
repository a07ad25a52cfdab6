package services

import (
	"fmt"
	"log"
	"time"

	"polizacrm/server/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PolicyService управляет полисами
type PolicyService struct {
	db *gorm.DB
}

// NewPolicyService создает новый экземпляр PolicyService
func NewPolicyService(db *gorm.DB) *PolicyService {
	return &PolicyService{db: db}
}

// GetAllPolicies получает полисы, опционально фильтруя по статусу и клиенту
func (s *PolicyService) GetAllPolicies(status, clientID string) ([]models.Policy, error) {
	var policies []models.Policy
	query := s.db.Preload("Client").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if err := query.Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

// GetPolicyByID получает полис по ID
func (s *PolicyService) GetPolicyByID(id string) (*models.Policy, error) {
	var policy models.Policy
	if err := s.db.Preload("Client").First(&policy, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

// CreatePolicy создает полис (ручной ввод)
// Писатель обязан держать Amount и PremiumTotal синхронными
func (s *PolicyService) CreatePolicy(policy *models.Policy) error {
	if policy.PremiumTotal > 0 {
		policy.Amount = policy.PremiumTotal
	}
	if policy.ContractMonth == "" && !policy.StartDate.IsZero() {
		policy.ContractMonth = SpanishMonth(policy.StartDate)
	}
	if policy.NextPaymentDate == nil && !policy.StartDate.IsZero() {
		next := policy.StartDate
		policy.NextPaymentDate = &next
	}
	return s.db.Create(policy).Error
}

// UpdatePolicy обновляет полис
func (s *PolicyService) UpdatePolicy(id string, policy *models.Policy) error {
	if policy.PremiumTotal > 0 {
		policy.Amount = policy.PremiumTotal
	}
	return s.db.Model(&models.Policy{}).Where("id = ?", id).Updates(policy).Error
}

// RenewPolicy продлевает полис: создает новый на следующий период
// и переводит предшественника в статус renewed, в одной транзакции
func (s *PolicyService) RenewPolicy(id string, startDate, endDate time.Time) (*models.Policy, error) {
	var renewed *models.Policy

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var old models.Policy
		if err := tx.First(&old, "id = ?", id).Error; err != nil {
			return fmt.Errorf("policy not found: %w", err)
		}
		if old.Status != models.PolicyStatusActive && old.Status != models.PolicyStatusExpired {
			return fmt.Errorf("policy %s cannot be renewed from status %s", id, old.Status)
		}

		next := startDate
		newPolicy := &models.Policy{
			ClientID:         old.ClientID,
			PolicyNumber:     old.PolicyNumber,
			Company:          old.Company,
			PolicyType:       old.PolicyType,
			Status:           models.PolicyStatusActive,
			StartDate:        startDate,
			EndDate:          endDate,
			PaymentFrequency: old.PaymentFrequency,
			Amount:           old.Amount,
			PremiumNet:       old.PremiumNet,
			PremiumTax:       old.PremiumTax,
			PremiumTotal:     old.PremiumTotal,
			Currency:         old.Currency,
			NextPaymentDate:  &next,
			ContractMonth:    SpanishMonth(startDate),
			RenewedFrom:      old.ID,
			Metadata:         datatypes.JSONMap{},
			CreatedBy:        old.CreatedBy,
		}
		if err := tx.Create(newPolicy).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Policy{}).Where("id = ?", old.ID).
			Update("status", models.PolicyStatusRenewed).Error; err != nil {
			return err
		}

		renewed = newPolicy
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Полис %s продлен, новый полис %s", id, renewed.ID)
	return renewed, nil
}

// ExpirePolicies переводит активные полисы с истекшей датой окончания
// в статус expired; возвращает количество обновленных строк
func (s *PolicyService) ExpirePolicies() (int, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	result := s.db.Model(&models.Policy{}).
		Where("status = ? AND end_date < ?", models.PolicyStatusActive, today).
		Update("status", models.PolicyStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("✅ Статусы: %d полисов переведено в expired", result.RowsAffected)
	}
	return int(result.RowsAffected), nil
}
