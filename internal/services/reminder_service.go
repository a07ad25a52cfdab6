package services

import (
	"fmt"
	"log"
	"time"

	"polizacrm/server/internal/models"

	"gorm.io/gorm"
)

// renewalWindowDays за сколько дней до окончания полиса шлем напоминание
const renewalWindowDays = 30

// ReminderService рассылает клиентам напоминания о продлении полисов
type ReminderService struct {
	db     *gorm.DB
	mailer Mailer
}

// NewReminderService создает сервис напоминаний
func NewReminderService(db *gorm.DB, mailer Mailer) *ReminderService {
	return &ReminderService{db: db, mailer: mailer}
}

// SendRenewalReminders отправляет письма по активным полисам,
// истекающим в ближайшие 30 дней; возвращает число отправленных писем
// Сбой одного письма логируется и не прерывает рассылку
func (s *ReminderService) SendRenewalReminders() (int, error) {
	if s.mailer == nil {
		return 0, fmt.Errorf("mailer is not configured")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	deadline := today.AddDate(0, 0, renewalWindowDays)

	var policies []models.Policy
	if err := s.db.Preload("Client").
		Where("status = ? AND end_date >= ? AND end_date < ?", models.PolicyStatusActive, today, deadline).
		Find(&policies).Error; err != nil {
		return 0, fmt.Errorf("failed to load expiring policies: %w", err)
	}

	sent := 0
	for i := range policies {
		policy := &policies[i]
		if policy.Client == nil || policy.Client.Email == "" {
			continue
		}

		subject := fmt.Sprintf("Tu póliza %s vence el %s", policy.PolicyNumber, policy.EndDate.Format("02/01/2006"))
		body := fmt.Sprintf(
			"<p>Hola %s,</p>"+
				"<p>Tu póliza <b>%s</b> (%s, %s) vence el <b>%s</b>. "+
				"Contáctanos para renovarla y mantener tu cobertura sin interrupciones.</p>"+
				"<p>— Tu agencia de seguros</p>",
			policy.Client.FullName(), policy.PolicyNumber, policy.PolicyType,
			policy.Company, policy.EndDate.Format("02/01/2006"),
		)

		if err := s.mailer.Send(policy.Client.Email, subject, body); err != nil {
			log.Printf("⚠️ Напоминания: письмо для %s не отправлено: %v", policy.Client.Email, err)
			continue
		}
		sent++
	}

	log.Printf("✅ Напоминания: отправлено %d писем (полисов в окне: %d)", sent, len(policies))
	return sent, nil
}
