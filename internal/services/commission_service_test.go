package services

import (
	"testing"
	"time"

	"polizacrm/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCommissionsMatchesSpecificRuleFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)

	client := models.Client{Name: "Cliente"}
	require.NoError(t, db.Create(&client).Error)

	policy := models.Policy{
		ClientID:     client.ID,
		PolicyNumber: "POL-1",
		Company:      "GNP Seguros",
		PolicyType:   "Autos",
		Status:       models.PolicyStatusActive,
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PremiumTotal: 10344.83,
		Amount:       10344.83,
	}
	require.NoError(t, db.Create(&policy).Error)

	// Wildcard-правило создано раньше, но проигрывает точному совпадению компании
	wildcard := models.CommissionRule{PolicyType: "Autos", Company: "", Percentage: 10, AgentName: "Genérico", Active: true}
	specific := models.CommissionRule{PolicyType: "Autos", Company: "GNP Seguros", Percentage: 15, AgentName: "Especialista GNP", Active: true}
	require.NoError(t, db.Create(&wildcard).Error)
	require.NoError(t, db.Create(&specific).Error)

	count, err := svc.GenerateCommissions()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var commission models.Commission
	require.NoError(t, db.First(&commission, "policy_id = ?", policy.ID).Error)
	assert.Equal(t, "Especialista GNP", commission.AgentName)
	assert.Equal(t, 15.0, commission.Percentage)
	assert.Equal(t, 10344.83, commission.BaseAmount)
	assert.Equal(t, 1551.72, commission.Amount) // 10344.83 * 15% = 1551.7245 → округление
	assert.Equal(t, models.CommissionStatusPending, commission.Status)
}

func TestGenerateCommissionsWildcardFallback(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)

	client := models.Client{Name: "Cliente"}
	require.NoError(t, db.Create(&client).Error)

	// Правило без фильтра по компании применяется к AXA
	rule := models.CommissionRule{PolicyType: "Autos", Company: "", Percentage: 10, AgentName: "Genérico", Active: true}
	require.NoError(t, db.Create(&rule).Error)

	policy := models.Policy{
		ClientID:     client.ID,
		PolicyNumber: "POL-2",
		Company:      "AXA",
		PolicyType:   "Autos",
		Status:       models.PolicyStatusActive,
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PremiumTotal: 12000.00,
		Amount:       12000.00,
	}
	require.NoError(t, db.Create(&policy).Error)

	count, err := svc.GenerateCommissions()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var commission models.Commission
	require.NoError(t, db.First(&commission, "policy_id = ?", policy.ID).Error)
	assert.Equal(t, 1200.00, commission.Amount)
}

func TestGenerateCommissionsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)

	client := models.Client{Name: "Cliente"}
	require.NoError(t, db.Create(&client).Error)

	rule := models.CommissionRule{PolicyType: "Vida", Company: "", Percentage: 12.5, AgentName: "Agente", Active: true}
	require.NoError(t, db.Create(&rule).Error)

	policy := models.Policy{
		ClientID:     client.ID,
		PolicyNumber: "POL-3",
		Company:      "MetLife",
		PolicyType:   "Vida",
		Status:       models.PolicyStatusActive,
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PremiumTotal: 8000.00,
		Amount:       8000.00,
	}
	require.NoError(t, db.Create(&policy).Error)

	first, err := svc.GenerateCommissions()
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := svc.GenerateCommissions()
	require.NoError(t, err)
	assert.Equal(t, 0, second)

	var count int64
	db.Model(&models.Commission{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGenerateCommissionsSkipsUnmatchedAndInactive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)

	client := models.Client{Name: "Cliente"}
	require.NoError(t, db.Create(&client).Error)

	// Правило по другому типу продукта и деактивированное правило по нужному
	otherType := models.CommissionRule{PolicyType: "Hogar", Company: "", Percentage: 10, Active: true}
	inactive := models.CommissionRule{PolicyType: "Autos", Company: "", Percentage: 10, Active: false}
	require.NoError(t, db.Create(&otherType).Error)
	require.NoError(t, db.Create(&inactive).Error)

	policy := models.Policy{
		ClientID:     client.ID,
		PolicyNumber: "POL-4",
		Company:      "AXA",
		PolicyType:   "Autos",
		Status:       models.PolicyStatusActive,
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PremiumTotal: 5000.00,
	}
	expired := models.Policy{
		ClientID:     client.ID,
		PolicyNumber: "POL-5",
		Company:      "AXA",
		PolicyType:   "Hogar",
		Status:       models.PolicyStatusExpired,
		StartDate:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PremiumTotal: 5000.00,
	}
	require.NoError(t, db.Create(&policy).Error)
	require.NoError(t, db.Create(&expired).Error)

	count, err := svc.GenerateCommissions()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMarkCommissionPaid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)

	commission := models.Commission{PolicyID: "00000000-0000-0000-0000-000000000001", Amount: 100}
	require.NoError(t, db.Create(&commission).Error)

	require.NoError(t, svc.MarkPaid(commission.ID))

	var saved models.Commission
	require.NoError(t, db.First(&saved, "id = ?", commission.ID).Error)
	assert.Equal(t, models.CommissionStatusPaid, saved.Status)

	assert.Error(t, svc.MarkPaid("no-such-id"))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 1551.72, roundMoney(1551.7245))
	assert.Equal(t, 1034.48, roundMoney(10344.83*10/100))
	assert.Equal(t, 0.13, roundMoney(0.125)) // half away from zero
	assert.Equal(t, -0.13, roundMoney(-0.125))
}
