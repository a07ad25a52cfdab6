package api

import (
	"errors"
	"net/http"

	"polizacrm/server/internal/models"
	"polizacrm/server/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CommissionController управляет API endpoints комиссий и их правил
type CommissionController struct {
	db      *gorm.DB
	service *services.CommissionService
}

// NewCommissionController создает контроллер комиссий
func NewCommissionController(db *gorm.DB, service *services.CommissionService) *CommissionController {
	return &CommissionController{db: db, service: service}
}

// GetCommissions получает комиссии
// GET /api/v1/commissions?status=pending
func (cc *CommissionController) GetCommissions(c *gin.Context) {
	commissions, err := cc.service.GetCommissions(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al obtener las comisiones",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"commissions": commissions,
		"count":       len(commissions),
	})
}

// MarkPaid помечает комиссию оплаченной
// PUT /api/v1/commissions/:id/paid
func (cc *CommissionController) MarkPaid(c *gin.Context) {
	id := c.Param("id")
	if err := cc.service.MarkPaid(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Comisión no encontrada",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al marcar la comisión",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paid": id})
}

// GetRules получает правила начисления комиссий
// GET /api/v1/commissions/rules
func (cc *CommissionController) GetRules(c *gin.Context) {
	var rules []models.CommissionRule
	if err := cc.db.Order("created_at, id").Find(&rules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al obtener las reglas",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rules": rules,
		"count": len(rules),
	})
}

// CreateRule создает правило начисления
// POST /api/v1/commissions/rules
func (cc *CommissionController) CreateRule(c *gin.Context) {
	var req models.CommissionRule
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	if req.AgentName == "" || req.Percentage <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "agent_name y percentage (> 0) son obligatorios",
		})
		return
	}

	if err := cc.db.Create(&req).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al crear la regla",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, req)
}

// DeleteRule деактивирует правило (записи остаются для истории)
// DELETE /api/v1/commissions/rules/:id
func (cc *CommissionController) DeleteRule(c *gin.Context) {
	id := c.Param("id")
	result := cc.db.Model(&models.CommissionRule{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al desactivar la regla",
			"details": result.Error.Error(),
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Regla no encontrada",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deactivated": id})
}
