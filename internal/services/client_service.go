package services

import (
	"fmt"

	"polizacrm/server/internal/models"

	"gorm.io/gorm"
)

// ClientService управляет клиентами агентства
type ClientService struct {
	db *gorm.DB
}

// NewClientService создает новый экземпляр ClientService
func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// GetAllClients получает список всех клиентов
func (s *ClientService) GetAllClients() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// GetClientByID получает клиента по ID
func (s *ClientService) GetClientByID(id string) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateClient создает нового клиента
func (s *ClientService) CreateClient(client *models.Client) error {
	// Проверяем уникальность RFC (best-effort, поле опционально)
	if client.TaxID != "" {
		var existing models.Client
		if err := s.db.Where("tax_id = ?", client.TaxID).First(&existing).Error; err == nil {
			return fmt.Errorf("cliente con RFC %s ya existe", client.TaxID)
		}
	}

	return s.db.Create(client).Error
}

// UpdateClient обновляет данные клиента
func (s *ClientService) UpdateClient(id string, client *models.Client) error {
	if client.TaxID != "" {
		var existing models.Client
		if err := s.db.Where("tax_id = ? AND id != ?", client.TaxID, id).First(&existing).Error; err == nil {
			return fmt.Errorf("cliente con RFC %s ya existe", client.TaxID)
		}
	}

	return s.db.Model(&models.Client{}).Where("id = ?", id).Updates(client).Error
}

// DeleteClient удаляет клиента
func (s *ClientService) DeleteClient(id string) error {
	return s.db.Delete(&models.Client{}, "id = ?", id).Error
}
