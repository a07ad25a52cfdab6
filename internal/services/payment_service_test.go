package services

import (
	"testing"
	"time"

	"polizacrm/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPaymentPolicy(t *testing.T, db *gorm.DB, freq models.PaymentFrequency, total float64, start time.Time) models.Policy {
	t.Helper()
	client := models.Client{Name: "Cliente"}
	require.NoError(t, db.Create(&client).Error)

	next := start
	policy := models.Policy{
		ClientID:         client.ID,
		PolicyNumber:     "POL-" + string(freq),
		Company:          "GNP Seguros",
		PolicyType:       "Autos",
		Status:           models.PolicyStatusActive,
		StartDate:        start,
		EndDate:          start.AddDate(1, 0, 0),
		PaymentFrequency: freq,
		PremiumTotal:     total,
		Amount:           total,
		NextPaymentDate:  &next,
	}
	require.NoError(t, db.Create(&policy).Error)
	return policy
}

func TestGeneratePaymentsInstallmentAmounts(t *testing.T) {
	tests := []struct {
		freq   models.PaymentFrequency
		total  float64
		amount float64
	}{
		{models.FrequencyMonthly, 12000.00, 1000.00},
		{models.FrequencyQuarterly, 12000.00, 3000.00},
		{models.FrequencySemiannual, 12000.00, 6000.00},
		{models.FrequencyAnnual, 12000.00, 12000.00},
		{models.FrequencySingle, 12000.00, 12000.00},
		{models.FrequencyMonthly, 10000.00, 833.33}, // 10000/12 = 833.333... → 2 знака
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			db := setupTestDB(t)
			svc := NewPaymentService(db)
			svc.now = func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }

			policy := seedPaymentPolicy(t, db, tt.freq, tt.total, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

			count, err := svc.GeneratePayments()
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			var payment models.Payment
			require.NoError(t, db.First(&payment, "policy_id = ?", policy.ID).Error)
			assert.Equal(t, tt.amount, payment.Amount)
			assert.Equal(t, models.PaymentStatusPending, payment.Status)
			assert.Empty(t, payment.PaymentMethod)
		})
	}
}

func TestGeneratePaymentsMonthScopedIdempotency(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)

	// Март: первый запуск создает платеж, повторный в том же месяце — нет
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC) }
	policy := seedPaymentPolicy(t, db, models.FrequencyMonthly, 12000.00, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	first, err := svc.GeneratePayments()
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := svc.GeneratePayments()
	require.NoError(t, err)
	assert.Equal(t, 0, second)

	// Апрель: ровно один новый платеж на тот же полис
	svc.now = func() time.Time { return time.Date(2025, 4, 2, 6, 0, 0, 0, time.UTC) }
	third, err := svc.GeneratePayments()
	require.NoError(t, err)
	assert.Equal(t, 1, third)

	fourth, err := svc.GeneratePayments()
	require.NoError(t, err)
	assert.Equal(t, 0, fourth)

	var payments []models.Payment
	require.NoError(t, db.Order("due_date").Find(&payments, "policy_id = ?", policy.ID).Error)
	require.Len(t, payments, 2)
	// День срока наследуется от next_payment_date, месяц — от запуска
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), payments[0].DueDate)
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC), payments[1].DueDate)
}

func TestGeneratePaymentsClampsDayToMonthLength(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	// Февраль невисокосного года, якорь на 31-е число
	svc.now = func() time.Time { return time.Date(2025, 2, 5, 6, 0, 0, 0, time.UTC) }

	policy := seedPaymentPolicy(t, db, models.FrequencyMonthly, 12000.00, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))

	count, err := svc.GeneratePayments()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var payment models.Payment
	require.NoError(t, db.First(&payment, "policy_id = ?", policy.ID).Error)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), payment.DueDate)
}

func TestGeneratePaymentsSkipsInactivePolicies(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC) }

	policy := seedPaymentPolicy(t, db, models.FrequencyMonthly, 12000.00, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, db.Model(&models.Policy{}).Where("id = ?", policy.ID).
		Update("status", models.PolicyStatusCancelled).Error)

	count, err := svc.GeneratePayments()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMonthWindow(t *testing.T) {
	start, end := monthWindow(time.Date(2024, 2, 14, 23, 59, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	// Високосный февраль: окно закрывается 1 марта, не "31 февраля"
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), end)

	start, end = monthWindow(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMarkPaymentPaid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db)

	payment := models.Payment{
		PolicyID: "00000000-0000-0000-0000-000000000001",
		Amount:   1000,
		DueDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&payment).Error)

	require.NoError(t, svc.MarkPaid(payment.ID, "transferencia"))

	var saved models.Payment
	require.NoError(t, db.First(&saved, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentStatusPaid, saved.Status)
	assert.Equal(t, "transferencia", saved.PaymentMethod)

	assert.Error(t, svc.MarkPaid("no-such-id", "efectivo"))
}
