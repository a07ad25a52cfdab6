package services

import (
	"polizacrm/server/internal/models"

	"gorm.io/gorm"
)

// ClaimService управляет страховыми случаями
type ClaimService struct {
	db *gorm.DB
}

// NewClaimService создает новый экземпляр ClaimService
func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{db: db}
}

// GetAllClaims получает страховые случаи, опционально по статусу
func (s *ClaimService) GetAllClaims(status string) ([]models.Claim, error) {
	var claims []models.Claim
	query := s.db.Preload("Policy").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

// GetClaimByID получает страховой случай по ID
func (s *ClaimService) GetClaimByID(id string) (*models.Claim, error) {
	var claim models.Claim
	if err := s.db.Preload("Policy").First(&claim, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &claim, nil
}

// CreateClaim создает страховой случай
func (s *ClaimService) CreateClaim(claim *models.Claim) error {
	return s.db.Create(claim).Error
}

// UpdateClaim обновляет страховой случай
func (s *ClaimService) UpdateClaim(id string, claim *models.Claim) error {
	return s.db.Model(&models.Claim{}).Where("id = ?", id).Updates(claim).Error
}

// DeleteClaim удаляет страховой случай
func (s *ClaimService) DeleteClaim(id string) error {
	return s.db.Delete(&models.Claim{}, "id = ?", id).Error
}
