package services

import (
	"fmt"
	"log"
	"time"

	"polizacrm/server/internal/models"
	"polizacrm/server/internal/utils"

	"gorm.io/gorm"
)

const paymentLockKey = "jobs:payments"

// PaymentService генерирует плановые платежи по активным полисам
// Задача идемпотентна в рамках календарного месяца
type PaymentService struct {
	db         *gorm.DB
	redis      *utils.RedisClient
	publisher  *EventPublisher
	linkClient *PaymentLinkClient
	now        func() time.Time // Подменяется в тестах
}

// NewPaymentService создает сервис платежей
func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db, now: time.Now}
}

// SetRedisUtil подключает Redis для advisory-лока запусков
func (s *PaymentService) SetRedisUtil(redis *utils.RedisClient) {
	s.redis = redis
}

// SetEventPublisher подключает публикацию событий в Kafka
func (s *PaymentService) SetEventPublisher(publisher *EventPublisher) {
	s.publisher = publisher
}

// SetPaymentLinkClient подключает провайдера платежных ссылок
func (s *PaymentService) SetPaymentLinkClient(client *PaymentLinkClient) {
	s.linkClient = client
}

// installmentDivisor возвращает число платежей в год по периодичности
func installmentDivisor(freq models.PaymentFrequency) int {
	switch freq {
	case models.FrequencyMonthly:
		return 12
	case models.FrequencyQuarterly:
		return 4
	case models.FrequencySemiannual:
		return 2
	default:
		return 1
	}
}

// monthWindow возвращает границы текущего календарного месяца [start, end)
// time.Date нормализует перенос месяца, февраль и високосные годы корректны
func monthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// projectIntoMonth переносит день месяца якорной даты в окно [start, end)
// День за пределами месяца (31-е в феврале) прижимается к последнему дню
func projectIntoMonth(anchor, start, end time.Time) time.Time {
	day := anchor.Day()
	if lastDay := end.AddDate(0, 0, -1).Day(); day > lastDay {
		day = lastDay
	}
	return time.Date(start.Year(), start.Month(), day, 0, 0, 0, 0, time.UTC)
}

// GeneratePayments создает по одному платежу на активный полис,
// у которого еще нет платежа со сроком в текущем календарном месяце
// Возвращает количество созданных записей
func (s *PaymentService) GeneratePayments() (int, error) {
	if s.redis != nil {
		if !s.redis.AcquireLock(paymentLockKey, 10*time.Minute) {
			log.Printf("⏭️ Платежи: запуск пропущен, лок занят другим запуском")
			return 0, nil
		}
		defer s.redis.ReleaseLock(paymentLockKey)
	}

	var policies []models.Policy
	if err := s.db.Where("status = ?", models.PolicyStatusActive).Find(&policies).Error; err != nil {
		return 0, fmt.Errorf("failed to load active policies: %w", err)
	}

	monthStart, monthEnd := monthWindow(s.now().UTC())

	// Полисы, у которых платеж в этом месяце уже есть — одним запросом
	var existingIDs []string
	if err := s.db.Model(&models.Payment{}).
		Where("due_date >= ? AND due_date < ?", monthStart, monthEnd).
		Distinct("policy_id").
		Pluck("policy_id", &existingIDs).Error; err != nil {
		return 0, fmt.Errorf("failed to load existing payments: %w", err)
	}
	existing := make(map[string]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}

	var newPayments []models.Payment
	for i := range policies {
		policy := &policies[i]
		if existing[policy.ID] {
			continue
		}

		// Якорь срока: сохраненная дата следующего платежа, иначе дата начала
		anchor := policy.StartDate
		if policy.NextPaymentDate != nil {
			anchor = *policy.NextPaymentDate
		}
		// День якоря проецируется в текущий месяц, чтобы срок попадал
		// в то же окно, по которому работает anti-join выше
		dueDate := projectIntoMonth(anchor, monthStart, monthEnd)

		divisor := installmentDivisor(policy.PaymentFrequency)
		amount := roundMoney(policy.BaseAmount() / float64(divisor))

		newPayments = append(newPayments, models.Payment{
			PolicyID: policy.ID,
			Amount:   amount,
			DueDate:  dueDate,
			Status:   models.PaymentStatusPending,
			// PaymentMethod остается пустым до оплаты
		})
	}

	if len(newPayments) == 0 {
		log.Printf("✅ Платежи: новых платежей нет")
		return 0, nil
	}

	if err := s.db.Create(&newPayments).Error; err != nil {
		return 0, fmt.Errorf("failed to insert payments: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish("payment.generated", map[string]interface{}{
			"count": len(newPayments),
		})
	}

	log.Printf("✅ Платежи: создано %d платежей", len(newPayments))
	return len(newPayments), nil
}

// GetPayments возвращает платежи, опционально по статусу
func (s *PaymentService) GetPayments(status string) ([]models.Payment, error) {
	var payments []models.Payment
	query := s.db.Preload("Policy").Order("due_date")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// CreatePaymentLink создает платежную ссылку для платежа и сохраняет ее
func (s *PaymentService) CreatePaymentLink(paymentID string) (string, error) {
	if s.linkClient == nil {
		return "", fmt.Errorf("payment link provider is not configured")
	}

	var payment models.Payment
	if err := s.db.Preload("Policy").First(&payment, "id = ?", paymentID).Error; err != nil {
		return "", fmt.Errorf("payment not found: %w", err)
	}

	currency := "MXN"
	if payment.Policy != nil && payment.Policy.Currency != "" {
		currency = payment.Policy.Currency
	}

	url, err := s.linkClient.CreateLink(payment.Amount, currency, payment.ID)
	if err != nil {
		return "", fmt.Errorf("failed to create payment link: %w", err)
	}

	if err := s.db.Model(&models.Payment{}).Where("id = ?", payment.ID).
		Update("payment_link", url).Error; err != nil {
		return "", err
	}

	return url, nil
}

// MarkPaid помечает платеж оплаченным с указанием способа оплаты
func (s *PaymentService) MarkPaid(id, method string) error {
	result := s.db.Model(&models.Payment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         models.PaymentStatusPaid,
		"payment_method": method,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
