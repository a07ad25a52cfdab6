package services

import (
	"context"
	"fmt"
	"testing"

	"polizacrm/server/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// fakeStore замена хранилища документов в тестах
// Как и настоящее хранилище, отказывается перезаписывать существующий путь
type fakeStore struct {
	objects map[string][]byte
	failPut bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if f.failPut {
		return "", fmt.Errorf("bucket unavailable")
	}
	if _, ok := f.objects[path]; ok {
		return "", fmt.Errorf("object already exists at %s", path)
	}
	f.objects[path] = data
	return "https://files.test/" + path, nil
}

func (f *fakeStore) Delete(ctx context.Context, path string) error {
	delete(f.objects, path)
	return nil
}

// fakeMailer собирает отправленные письма вместо реального SMTP
type fakeMailer struct {
	sent    []string // Адресаты в порядке отправки
	failFor map[string]bool
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.failFor[to] {
		return fmt.Errorf("mailbox unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}
