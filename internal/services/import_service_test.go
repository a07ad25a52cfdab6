package services

import (
	"testing"
	"time"

	"polizacrm/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanishMonth(t *testing.T) {
	assert.Equal(t, "enero", SpanishMonth(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "marzo", SpanishMonth(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "diciembre", SpanishMonth(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestConfirmImportCreatesClientAndPolicy(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImportService(db, nil, nil)

	conf := validConfirmation()
	conf.Policy.StartDate = "2025-03-01"
	conf.Policy.EndDate = "2026-03-01"
	conf.Policy.Financial = ExtractedFinancial{
		NetPremium:   19509.07,
		TaxAmount:    3385.45,
		TotalPremium: 24544.52,
		Currency:     "MXN",
	}

	policy, importErr := svc.ConfirmImport(conf, nil, "", "", "agent-1")
	require.Nil(t, importErr)
	require.NotNil(t, policy)

	// Финансовая разбивка сохраняется без искажений,
	// плоское поле amount дублирует итоговую премию
	assert.Equal(t, 24544.52, policy.Amount)
	assert.Equal(t, 19509.07, policy.PremiumNet)
	assert.Equal(t, 3385.45, policy.PremiumTax)
	assert.Equal(t, 24544.52, policy.PremiumTotal)
	assert.Equal(t, "MXN", policy.Currency)

	// Дата следующего платежа = дата начала, метка месяца — испанская
	require.NotNil(t, policy.NextPaymentDate)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *policy.NextPaymentDate)
	assert.Equal(t, "marzo", policy.ContractMonth)
	assert.Equal(t, models.PolicyStatusActive, policy.Status)

	var clientCount, policyCount int64
	db.Model(&models.Client{}).Count(&clientCount)
	db.Model(&models.Policy{}).Count(&policyCount)
	assert.Equal(t, int64(1), clientCount)
	assert.Equal(t, int64(1), policyCount)

	var client models.Client
	require.NoError(t, db.First(&client, "id = ?", policy.ClientID).Error)
	assert.Equal(t, "LOHM900412XY8", client.TaxID)
	assert.Equal(t, "agent-1", client.CreatedBy)
}

func TestConfirmImportResolutionPriority(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImportService(db, nil, nil)

	byTaxID := models.Client{Name: "Cliente", LastName: "Por RFC", TaxID: "AAAA800101AA1"}
	byEmail := models.Client{Name: "Cliente", LastName: "Por Email", Email: "shared@example.com"}
	require.NoError(t, db.Create(&byTaxID).Error)
	require.NoError(t, db.Create(&byEmail).Error)

	// RFC указывает на одного клиента, email — на другого: побеждает RFC
	conf := validConfirmation()
	conf.Client.TaxID = "AAAA800101AA1"
	conf.Client.Email = "shared@example.com"

	policy, importErr := svc.ConfirmImport(conf, nil, "", "", "")
	require.Nil(t, importErr)
	assert.Equal(t, byTaxID.ID, policy.ClientID)

	// Новый клиент не создавался
	var clientCount int64
	db.Model(&models.Client{}).Count(&clientCount)
	assert.Equal(t, int64(2), clientCount)
}

func TestConfirmImportFallsBackToEmailThenName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImportService(db, nil, nil)

	byName := models.Client{Name: "María", LastName: "López Hernández"}
	require.NoError(t, db.Create(&byName).Error)

	conf := validConfirmation()
	conf.Client.TaxID = "ZZZZ990101ZZ9" // Никому не принадлежит
	conf.Client.Email = ""

	policy, importErr := svc.ConfirmImport(conf, nil, "", "", "")
	require.Nil(t, importErr)
	assert.Equal(t, byName.ID, policy.ClientID)
}

func TestConfirmImportExplicitClientID(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImportService(db, nil, nil)

	existing := models.Client{Name: "Empresa", PersonType: models.PersonTypeMoral}
	require.NoError(t, db.Create(&existing).Error)

	conf := validConfirmation()
	conf.ClientID = existing.ID
	conf.Client = ExtractedClient{} // Фрагмент игнорируется при явной привязке

	policy, importErr := svc.ConfirmImport(conf, nil, "", "", "")
	require.Nil(t, importErr)
	assert.Equal(t, existing.ID, policy.ClientID)
}

func TestConfirmImportUnknownClientIDFails(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImportService(db, nil, nil)

	conf := validConfirmation()
	conf.ClientID = "00000000-0000-0000-0000-000000000000"

	policy, importErr := svc.ConfirmImport(conf, nil, "", "", "")
	require.NotNil(t, importErr)
	assert.Nil(t, policy)
	assert.Equal(t, StageClientLookup, importErr.Stage)

	var policyCount int64
	db.Model(&models.Policy{}).Count(&policyCount)
	assert.Equal(t, int64(0), policyCount)
}

func TestConfirmImportStoresDocument(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	svc := NewImportService(db, store, nil)

	file := []byte("%PDF-1.4 póliza")
	policy, importErr := svc.ConfirmImport(validConfirmation(), file, "poliza.pdf", "application/pdf", "agent-1")
	require.Nil(t, importErr)

	url, ok := policy.Metadata[models.MetadataKeyDocumentURL].(string)
	require.True(t, ok, "policy metadata must carry the document URL")
	assert.Contains(t, url, "poliza.pdf")
	assert.Len(t, store.objects, 1)

	var doc models.Document
	require.NoError(t, db.First(&doc, "policy_id = ?", policy.ID).Error)
	assert.Equal(t, "poliza.pdf", doc.FileName)
	assert.Equal(t, int64(len(file)), doc.SizeBytes)
	assert.Equal(t, url, doc.URL)
}

func TestConfirmImportUploadFailureIsNotFatal(t *testing.T) {
	db := setupTestDB(t)
	store := newFakeStore()
	store.failPut = true
	svc := NewImportService(db, store, nil)

	policy, importErr := svc.ConfirmImport(validConfirmation(), []byte("pdf"), "poliza.pdf", "application/pdf", "")
	require.Nil(t, importErr)
	require.NotNil(t, policy)

	// Полис сохранен без ссылки на документ, строки документа нет
	_, ok := policy.Metadata[models.MetadataKeyDocumentURL]
	assert.False(t, ok)

	var docCount int64
	db.Model(&models.Document{}).Count(&docCount)
	assert.Equal(t, int64(0), docCount)
}

func TestConfirmImportRollsBackClientOnPolicyFailure(t *testing.T) {
	db := setupTestDB(t)
	svc := NewImportService(db, nil, nil)

	// Ломаем вставку полиса: без таблицы insert гарантированно падает
	require.NoError(t, db.Migrator().DropTable(&models.Policy{}))

	policy, importErr := svc.ConfirmImport(validConfirmation(), nil, "", "", "")
	require.NotNil(t, importErr)
	assert.Nil(t, policy)
	assert.Equal(t, StagePolicyCreate, importErr.Stage)

	// Созданный в этом же вызове клиент откатился вместе с транзакцией
	var clientCount int64
	db.Model(&models.Client{}).Count(&clientCount)
	assert.Equal(t, int64(0), clientCount)
}

func TestConfirmImportEndToEndFromFallback(t *testing.T) {
	db := setupTestDB(t)
	rs := NewReviewService()
	svc := NewImportService(db, nil, nil)

	// Модель недоступна: ревьюер получает демо-данные с confidence 0
	extracted := NewGeminiClient("").ExtractPolicyData([]byte("pdf"), "application/pdf")
	require.Equal(t, 0.0, extracted.Confidence)

	conf := ImportConfirmation{
		Client: extracted.Client,
		Policy: extracted.Policy,
	}
	require.Empty(t, rs.Validate(conf), "fallback data edited by the reviewer must pass validation")

	policy, importErr := svc.ConfirmImport(conf, nil, "", "", "agent-1")
	require.Nil(t, importErr)

	require.NotNil(t, policy.NextPaymentDate)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *policy.NextPaymentDate)
	assert.Equal(t, "enero", policy.ContractMonth)

	var clientCount, policyCount int64
	db.Model(&models.Client{}).Count(&clientCount)
	db.Model(&models.Policy{}).Count(&policyCount)
	assert.Equal(t, int64(1), clientCount)
	assert.Equal(t, int64(1), policyCount)
}
