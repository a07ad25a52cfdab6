package api

import (
	"net/http"
	"time"

	"polizacrm/server/internal/models"
	"polizacrm/server/internal/services"

	"github.com/gin-gonic/gin"
)

// PolicyController управляет API endpoints для полисов
type PolicyController struct {
	service *services.PolicyService
}

// NewPolicyController создает новый контроллер полисов
func NewPolicyController(service *services.PolicyService) *PolicyController {
	return &PolicyController{service: service}
}

// GetPolicies получает список полисов
// GET /api/v1/policies?status=active&client_id=...
func (pc *PolicyController) GetPolicies(c *gin.Context) {
	policies, err := pc.service.GetAllPolicies(c.Query("status"), c.Query("client_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al obtener las pólizas",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"policies": policies,
		"count":    len(policies),
	})
}

// GetPolicy получает полис по ID
// GET /api/v1/policies/:id
func (pc *PolicyController) GetPolicy(c *gin.Context) {
	id := c.Param("id")
	policy, err := pc.service.GetPolicyByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Póliza no encontrada",
		})
		return
	}

	c.JSON(http.StatusOK, policy)
}

// CreatePolicy создает полис (ручной ввод)
// POST /api/v1/policies
func (pc *PolicyController) CreatePolicy(c *gin.Context) {
	var req models.Policy
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	if req.ClientID == "" || req.PolicyNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "client_id y policy_number son obligatorios",
		})
		return
	}

	if actorID, ok := c.Get("userID"); ok {
		req.CreatedBy = actorID.(string)
	}

	if err := pc.service.CreatePolicy(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al crear la póliza",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, req)
}

// UpdatePolicy обновляет полис
// PUT /api/v1/policies/:id
func (pc *PolicyController) UpdatePolicy(c *gin.Context) {
	id := c.Param("id")

	var req models.Policy
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	if err := pc.service.UpdatePolicy(id, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al actualizar la póliza",
			"details": err.Error(),
		})
		return
	}

	policy, err := pc.service.GetPolicyByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error al obtener la póliza actualizada",
		})
		return
	}

	c.JSON(http.StatusOK, policy)
}

// RenewPolicyRequest представляет запрос на продление полиса
type RenewPolicyRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`   // YYYY-MM-DD
}

// RenewPolicy продлевает полис на новый период
// POST /api/v1/policies/:id/renew
func (pc *PolicyController) RenewPolicy(c *gin.Context) {
	id := c.Param("id")

	var req RenewPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "start_date inválida (YYYY-MM-DD)",
		})
		return
	}
	endDate, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "end_date inválida (YYYY-MM-DD)",
		})
		return
	}

	renewed, err := pc.service.RenewPolicy(id, startDate, endDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al renovar la póliza",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, renewed)
}
