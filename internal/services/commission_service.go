package services

import (
	"fmt"
	"log"
	"time"

	"polizacrm/server/internal/models"
	"polizacrm/server/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const commissionLockKey = "jobs:commissions"

// CommissionService генерирует комиссии агентов по активным полисам
// Задача идемпотентна: не более одной комиссии на полис
type CommissionService struct {
	db        *gorm.DB
	redis     *utils.RedisClient
	publisher *EventPublisher
}

// NewCommissionService создает сервис комиссий
func NewCommissionService(db *gorm.DB) *CommissionService {
	return &CommissionService{db: db}
}

// SetRedisUtil подключает Redis для advisory-лока запусков
func (s *CommissionService) SetRedisUtil(redis *utils.RedisClient) {
	s.redis = redis
}

// SetEventPublisher подключает публикацию событий в Kafka
func (s *CommissionService) SetEventPublisher(publisher *EventPublisher) {
	s.publisher = publisher
}

// GenerateCommissions создает комиссии для активных полисов без комиссии
// Возвращает количество созданных записей
// Повторный запуск не создает дубликатов; пересекающиеся запуски
// исключаются Redis-локом (без Redis полагаемся на единственный шедулер)
func (s *CommissionService) GenerateCommissions() (int, error) {
	if s.redis != nil {
		if !s.redis.AcquireLock(commissionLockKey, 10*time.Minute) {
			log.Printf("⏭️ Комиссии: запуск пропущен, лок занят другим запуском")
			return 0, nil
		}
		defer s.redis.ReleaseLock(commissionLockKey)
	}

	var policies []models.Policy
	if err := s.db.Where("status = ?", models.PolicyStatusActive).Find(&policies).Error; err != nil {
		return 0, fmt.Errorf("failed to load active policies: %w", err)
	}

	// Anti-join одним запросом вместо проверки по каждому полису
	var existingIDs []string
	if err := s.db.Model(&models.Commission{}).Distinct("policy_id").Pluck("policy_id", &existingIDs).Error; err != nil {
		return 0, fmt.Errorf("failed to load existing commissions: %w", err)
	}
	existing := make(map[string]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}

	// Правила в порядке создания — при нескольких подходящих побеждает первое
	var rules []models.CommissionRule
	if err := s.db.Where("active = ?", true).Order("created_at, id").Find(&rules).Error; err != nil {
		return 0, fmt.Errorf("failed to load commission rules: %w", err)
	}

	var newCommissions []models.Commission
	for i := range policies {
		policy := &policies[i]
		if existing[policy.ID] {
			continue
		}

		rule := matchRule(rules, policy)
		if rule == nil {
			continue
		}

		base := policy.BaseAmount()
		amount := roundMoney(base * rule.Percentage / 100)

		newCommissions = append(newCommissions, models.Commission{
			PolicyID:   policy.ID,
			AgentName:  rule.AgentName,
			BaseAmount: base,
			Percentage: rule.Percentage,
			Amount:     amount,
			Status:     models.CommissionStatusPending,
		})
	}

	if len(newCommissions) == 0 {
		log.Printf("✅ Комиссии: новых начислений нет")
		return 0, nil
	}

	// Единая батч-вставка; существующие записи не трогаем
	if err := s.db.Create(&newCommissions).Error; err != nil {
		return 0, fmt.Errorf("failed to insert commissions: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish("commission.generated", map[string]interface{}{
			"count": len(newCommissions),
		})
	}

	log.Printf("✅ Комиссии: создано %d начислений", len(newCommissions))
	return len(newCommissions), nil
}

// MarkPaid помечает комиссию оплаченной
func (s *CommissionService) MarkPaid(id string) error {
	result := s.db.Model(&models.Commission{}).Where("id = ?", id).
		Update("status", models.CommissionStatusPaid)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetCommissions возвращает комиссии, опционально по статусу
func (s *CommissionService) GetCommissions(status string) ([]models.Commission, error) {
	var commissions []models.Commission
	query := s.db.Preload("Policy").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

// matchRule выбирает правило для полиса:
// сперва правило с точным совпадением компании, затем wildcard-правило
// только по типу продукта; в обоих проходах побеждает первое по порядку
func matchRule(rules []models.CommissionRule, policy *models.Policy) *models.CommissionRule {
	for i := range rules {
		if rules[i].Matches(policy, true) {
			return &rules[i]
		}
	}
	for i := range rules {
		if rules[i].Matches(policy, false) {
			return &rules[i]
		}
	}
	return nil
}

// roundMoney округляет сумму до 2 знаков (half away from zero)
func roundMoney(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}
