package services

import (
	"log"
	"time"
)

// JobRunner объединяет фоновые задачи для планировщика
type JobRunner struct {
	Commissions *CommissionService
	Payments    *PaymentService
	Policies    *PolicyService
	Reminders   *ReminderService
}

// RunDaily выполняет дневной цикл задач по порядку:
// сначала актуализируем статусы, затем деривации, затем напоминания
func (j *JobRunner) RunDaily() {
	if j.Policies != nil {
		if _, err := j.Policies.ExpirePolicies(); err != nil {
			log.Printf("⚠️ Задача статусов завершилась с ошибкой: %v", err)
		}
	}
	if j.Commissions != nil {
		if _, err := j.Commissions.GenerateCommissions(); err != nil {
			log.Printf("⚠️ Задача комиссий завершилась с ошибкой: %v", err)
		}
	}
	if j.Payments != nil {
		if _, err := j.Payments.GeneratePayments(); err != nil {
			log.Printf("⚠️ Задача платежей завершилась с ошибкой: %v", err)
		}
	}
	if j.Reminders != nil {
		if _, err := j.Reminders.SendRenewalReminders(); err != nil {
			log.Printf("⚠️ Задача напоминаний завершилась с ошибкой: %v", err)
		}
	}
}

// StartScheduler запускает фоновый планировщик
// Тикер раз в минуту, задачи срабатывают раз в день в hourUTC:00
func StartScheduler(runner *JobRunner, hourUTC int) {
	go func() {
		log.Printf("⏰ Планировщик запущен (ежедневный запуск в %02d:00 UTC)", hourUTC)
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now().UTC()
			if now.Hour() == hourUTC && now.Minute() == 0 {
				log.Printf("⏰ Запуск ежедневных задач [%02d:00 UTC]...", hourUTC)
				runner.RunDaily()
			}
		}
	}()
}
