package api

import (
	"net/http"

	"polizacrm/server/internal/models"
	"polizacrm/server/internal/services"

	"github.com/gin-gonic/gin"
)

// LeadController управляет API endpoints канбан-доски продаж
type LeadController struct {
	service *services.LeadService
	hub     *Hub
}

// NewLeadController создает контроллер доски продаж
func NewLeadController(service *services.LeadService, hub *Hub) *LeadController {
	return &LeadController{service: service, hub: hub}
}

// GetBoard возвращает доску, сгруппированную по этапам
// GET /api/v1/leads/board
func (lc *LeadController) GetBoard(c *gin.Context) {
	board, err := lc.service.GetBoard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al obtener el tablero",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"board": board})
}

// CreateLead создает карточку
// POST /api/v1/leads
func (lc *LeadController) CreateLead(c *gin.Context) {
	var req models.Lead
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "El nombre del prospecto es obligatorio",
		})
		return
	}

	if actorID, ok := c.Get("userID"); ok && req.AssignedTo == "" {
		req.AssignedTo = actorID.(string)
	}

	if err := lc.service.CreateLead(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al crear el prospecto",
			"details": err.Error(),
		})
		return
	}

	if lc.hub != nil {
		lc.hub.BroadcastEvent("lead.created", req)
	}

	c.JSON(http.StatusCreated, req)
}

// UpdateLead обновляет карточку
// PUT /api/v1/leads/:id
func (lc *LeadController) UpdateLead(c *gin.Context) {
	id := c.Param("id")

	var req models.Lead
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	if err := lc.service.UpdateLead(id, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al actualizar el prospecto",
			"details": err.Error(),
		})
		return
	}

	lead, err := lc.service.GetLeadByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error al obtener el prospecto actualizado",
		})
		return
	}

	c.JSON(http.StatusOK, lead)
}

// MoveLeadRequest представляет перемещение карточки по доске
type MoveLeadRequest struct {
	Stage    string `json:"stage" binding:"required"`
	Position int    `json:"position"`
}

// MoveLead перемещает карточку на другой этап доски
// PUT /api/v1/leads/:id/move
func (lc *LeadController) MoveLead(c *gin.Context) {
	id := c.Param("id")

	var req MoveLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	lead, err := lc.service.MoveLead(id, models.LeadStage(req.Stage), req.Position)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al mover el prospecto",
			"details": err.Error(),
		})
		return
	}

	// Остальные открытые доски видят движение сразу
	if lc.hub != nil {
		lc.hub.BroadcastEvent("lead.moved", lead)
	}

	c.JSON(http.StatusOK, lead)
}

// DeleteLead удаляет карточку
// DELETE /api/v1/leads/:id
func (lc *LeadController) DeleteLead(c *gin.Context) {
	id := c.Param("id")
	if err := lc.service.DeleteLead(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al eliminar el prospecto",
			"details": err.Error(),
		})
		return
	}

	if lc.hub != nil {
		lc.hub.BroadcastEvent("lead.deleted", gin.H{"id": id})
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
