package api

import (
	"net/http"

	"polizacrm/server/internal/models"
	"polizacrm/server/internal/services"

	"github.com/gin-gonic/gin"
)

// ClaimController управляет API endpoints страховых случаев
type ClaimController struct {
	service *services.ClaimService
}

// NewClaimController создает контроллер страховых случаев
func NewClaimController(service *services.ClaimService) *ClaimController {
	return &ClaimController{service: service}
}

// GetClaims получает страховые случаи
// GET /api/v1/claims?status=open
func (cc *ClaimController) GetClaims(c *gin.Context) {
	claims, err := cc.service.GetAllClaims(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al obtener los siniestros",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"claims": claims,
		"count":  len(claims),
	})
}

// GetClaim получает страховой случай по ID
// GET /api/v1/claims/:id
func (cc *ClaimController) GetClaim(c *gin.Context) {
	id := c.Param("id")
	claim, err := cc.service.GetClaimByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Siniestro no encontrado",
		})
		return
	}

	c.JSON(http.StatusOK, claim)
}

// CreateClaim регистрирует страховой случай
// POST /api/v1/claims
func (cc *ClaimController) CreateClaim(c *gin.Context) {
	var req models.Claim
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	if req.PolicyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "policy_id es obligatorio",
		})
		return
	}

	if actorID, ok := c.Get("userID"); ok {
		req.CreatedBy = actorID.(string)
	}

	if err := cc.service.CreateClaim(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al registrar el siniestro",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, req)
}

// UpdateClaim обновляет страховой случай
// PUT /api/v1/claims/:id
func (cc *ClaimController) UpdateClaim(c *gin.Context) {
	id := c.Param("id")

	var req models.Claim
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	if err := cc.service.UpdateClaim(id, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al actualizar el siniestro",
			"details": err.Error(),
		})
		return
	}

	claim, err := cc.service.GetClaimByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error al obtener el siniestro actualizado",
		})
		return
	}

	c.JSON(http.StatusOK, claim)
}

// DeleteClaim удаляет страховой случай
// DELETE /api/v1/claims/:id
func (cc *ClaimController) DeleteClaim(c *gin.Context) {
	id := c.Param("id")
	if err := cc.service.DeleteClaim(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al eliminar el siniestro",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
