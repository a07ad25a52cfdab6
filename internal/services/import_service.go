package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"polizacrm/server/internal/models"
	"polizacrm/server/internal/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Стадии ошибок реконсилятора, видимые вызывающему
// Сбой загрузки документа сюда не входит — он не фатален
const (
	StageClientLookup = "client-lookup-failed"
	StageClientCreate = "client-create-failed"
	StagePolicyCreate = "policy-create-failed"
)

// ImportError структурированная ошибка импорта с указанием стадии
type ImportError struct {
	Stage string
	Err   error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// spanishMonths полные названия месяцев (локаль агентства — es-MX)
// Явная таблица, не зависим от локали ОС
var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// SpanishMonth возвращает название месяца даты
func SpanishMonth(t time.Time) string {
	return spanishMonths[int(t.Month())-1]
}

// ImportService сохраняет подтвержденные данные импорта:
// находит или создает клиента, загружает документ, создает полис
type ImportService struct {
	db        *gorm.DB
	store     storage.Store
	publisher *EventPublisher
}

// NewImportService создает сервис импорта полисов
func NewImportService(db *gorm.DB, store storage.Store, publisher *EventPublisher) *ImportService {
	return &ImportService{db: db, store: store, publisher: publisher}
}

// ConfirmImport выполняет реконсиляцию подтвержденных данных
// Клиент и полис создаются в одной транзакции: если вставка полиса
// не удалась, созданный в этом же вызове клиент откатывается
// Загрузка документа best-effort: ее сбой не блокирует создание полиса
func (s *ImportService) ConfirmImport(conf ImportConfirmation, file []byte, fileName, mimeType, actorID string) (*models.Policy, *ImportError) {
	var policy *models.Policy
	var importErr *ImportError

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		// Шаг 1 — разрешение клиента
		client, stage, err := s.resolveClient(tx, conf, actorID)
		if err != nil {
			importErr = &ImportError{Stage: stage, Err: err}
			return err
		}

		// Шаг 2 — загрузка документа (только если файл передан)
		documentURL := ""
		storagePath := ""
		if len(file) > 0 && s.store != nil {
			// Путь неймспейсится по клиенту и времени, коллизии исключены
			storagePath = fmt.Sprintf("clients/%s/%d_%s", client.ID, time.Now().Unix(), fileName)
			url, err := s.store.Put(context.Background(), storagePath, file, mimeType)
			if err != nil {
				// Не фатально: полис сохраняется без ссылки на документ
				log.Printf("⚠️ Импорт: загрузка документа не удалась, полис будет без вложения: %v", err)
				storagePath = ""
			} else {
				documentURL = url
			}
		}

		// Шаг 3 — создание полиса
		startDate, _ := parseImportDate(conf.Policy.StartDate)
		endDate, _ := parseImportDate(conf.Policy.EndDate)

		metadata := datatypes.JSONMap{}
		if documentURL != "" {
			metadata[models.MetadataKeyDocumentURL] = documentURL
		}

		nextPayment := startDate
		p := &models.Policy{
			ClientID:         client.ID,
			PolicyNumber:     conf.Policy.PolicyNumber,
			Company:          conf.Policy.Company,
			PolicyType:       conf.Policy.PolicyType,
			Status:           models.PolicyStatusActive,
			StartDate:        startDate,
			EndDate:          endDate,
			PaymentFrequency: models.PaymentFrequency(conf.Policy.PaymentFrequency),
			Amount:           conf.Policy.Financial.TotalPremium,
			PremiumNet:       conf.Policy.Financial.NetPremium,
			PremiumTax:       conf.Policy.Financial.TaxAmount,
			PremiumTotal:     conf.Policy.Financial.TotalPremium,
			Currency:         conf.Policy.Financial.Currency,
			NextPaymentDate:  &nextPayment,
			ContractMonth:    SpanishMonth(startDate),
			Metadata:         metadata,
			CreatedBy:        actorID,
		}

		if err := tx.Create(p).Error; err != nil {
			importErr = &ImportError{Stage: StagePolicyCreate, Err: err}
			return err
		}

		// Строка метаданных документа — только при успешной загрузке
		if documentURL != "" {
			doc := &models.Document{
				ClientID:    client.ID,
				PolicyID:    p.ID,
				FileName:    fileName,
				MimeType:    mimeType,
				SizeBytes:   int64(len(file)),
				URL:         documentURL,
				StoragePath: storagePath,
				DocType:     "policy",
				UploadedBy:  actorID,
			}
			if err := tx.Create(doc).Error; err != nil {
				// Строка документа вторична, полис важнее
				log.Printf("⚠️ Импорт: не удалось сохранить метаданные документа: %v", err)
			}
		}

		policy = p
		return nil
	})

	if txErr != nil {
		if importErr == nil {
			importErr = &ImportError{Stage: StagePolicyCreate, Err: txErr}
		}
		return nil, importErr
	}

	if s.publisher != nil {
		s.publisher.Publish("policy.imported", map[string]interface{}{
			"policy_id":     policy.ID,
			"client_id":     policy.ClientID,
			"policy_number": policy.PolicyNumber,
			"company":       policy.Company,
			"amount":        policy.Amount,
		})
	}

	log.Printf("✅ Импорт: полис %s создан для клиента %s", policy.PolicyNumber, policy.ClientID)
	return policy, nil
}

// resolveClient находит клиента в приоритете tax_id → email → (имя, фамилия),
// первый найденный побеждает, поля не мерджатся; если никто не найден —
// создает нового клиента из фрагмента
func (s *ImportService) resolveClient(tx *gorm.DB, conf ImportConfirmation, actorID string) (*models.Client, string, error) {
	// Явно указанный существующий клиент
	if conf.ClientID != "" {
		var client models.Client
		if err := tx.First(&client, "id = ?", conf.ClientID).Error; err != nil {
			return nil, StageClientLookup, fmt.Errorf("client %s not found: %w", conf.ClientID, err)
		}
		return &client, "", nil
	}

	lookups := []struct {
		query string
		args  []interface{}
		skip  bool
	}{
		{"tax_id = ?", []interface{}{conf.Client.TaxID}, conf.Client.TaxID == ""},
		{"email = ?", []interface{}{conf.Client.Email}, conf.Client.Email == ""},
		{"name = ? AND last_name = ?", []interface{}{conf.Client.Name, conf.Client.LastName}, conf.Client.Name == ""},
	}

	for _, l := range lookups {
		if l.skip {
			continue
		}
		var client models.Client
		err := tx.Where(l.query, l.args...).First(&client).Error
		if err == nil {
			return &client, "", nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, StageClientLookup, err
		}
	}

	// Никто не найден — создаем нового клиента из фрагмента
	client := &models.Client{
		Name:       conf.Client.Name,
		LastName:   conf.Client.LastName,
		TaxID:      conf.Client.TaxID,
		Email:      conf.Client.Email,
		Phone:      conf.Client.Phone,
		PersonType: models.PersonType(conf.Client.PersonType),
		CreatedBy:  actorID,
	}
	if err := tx.Create(client).Error; err != nil {
		return nil, StageClientCreate, err
	}

	log.Printf("✅ Импорт: создан новый клиент %s (%s)", client.FullName(), client.ID)
	return client, "", nil
}
