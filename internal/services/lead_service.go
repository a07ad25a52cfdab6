package services

import (
	"fmt"

	"polizacrm/server/internal/models"

	"gorm.io/gorm"
)

// LeadService управляет карточками канбан-доски продаж
type LeadService struct {
	db *gorm.DB
}

// NewLeadService создает новый экземпляр LeadService
func NewLeadService(db *gorm.DB) *LeadService {
	return &LeadService{db: db}
}

// GetBoard возвращает все карточки, сгруппированные по этапам
func (s *LeadService) GetBoard() (map[models.LeadStage][]models.Lead, error) {
	var leads []models.Lead
	if err := s.db.Order("stage, position, created_at").Find(&leads).Error; err != nil {
		return nil, err
	}

	board := make(map[models.LeadStage][]models.Lead)
	for _, lead := range leads {
		board[lead.Stage] = append(board[lead.Stage], lead)
	}
	return board, nil
}

// GetLeadByID получает карточку по ID
func (s *LeadService) GetLeadByID(id string) (*models.Lead, error) {
	var lead models.Lead
	if err := s.db.First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// CreateLead создает карточку
func (s *LeadService) CreateLead(lead *models.Lead) error {
	if lead.Stage != "" && !models.ValidLeadStage(lead.Stage) {
		return fmt.Errorf("unknown board stage: %s", lead.Stage)
	}
	return s.db.Create(lead).Error
}

// UpdateLead обновляет карточку
func (s *LeadService) UpdateLead(id string, lead *models.Lead) error {
	return s.db.Model(&models.Lead{}).Where("id = ?", id).Updates(lead).Error
}

// MoveLead перемещает карточку на другой этап/позицию доски
func (s *LeadService) MoveLead(id string, stage models.LeadStage, position int) (*models.Lead, error) {
	if !models.ValidLeadStage(stage) {
		return nil, fmt.Errorf("unknown board stage: %s", stage)
	}

	if err := s.db.Model(&models.Lead{}).Where("id = ?", id).Updates(map[string]interface{}{
		"stage":    stage,
		"position": position,
	}).Error; err != nil {
		return nil, err
	}

	return s.GetLeadByID(id)
}

// DeleteLead удаляет карточку
func (s *LeadService) DeleteLead(id string) error {
	return s.db.Delete(&models.Lead{}, "id = ?", id).Error
}
