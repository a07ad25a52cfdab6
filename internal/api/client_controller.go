package api

import (
	"net/http"

	"polizacrm/server/internal/models"
	"polizacrm/server/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientController управляет API endpoints для клиентов
type ClientController struct {
	service *services.ClientService
}

// NewClientController создает новый контроллер клиентов
func NewClientController(service *services.ClientService) *ClientController {
	return &ClientController{service: service}
}

// GetClients получает список всех клиентов
// GET /api/v1/clients
func (cc *ClientController) GetClients(c *gin.Context) {
	clients, err := cc.service.GetAllClients()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al obtener los clientes",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"count":   len(clients),
	})
}

// GetClient получает клиента по ID
// GET /api/v1/clients/:id
func (cc *ClientController) GetClient(c *gin.Context) {
	id := c.Param("id")
	client, err := cc.service.GetClientByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cliente no encontrado",
		})
		return
	}

	c.JSON(http.StatusOK, client)
}

// CreateClient создает нового клиента
// POST /api/v1/clients
func (cc *ClientController) CreateClient(c *gin.Context) {
	var req models.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "El nombre del cliente es obligatorio",
		})
		return
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if actorID, ok := c.Get("userID"); ok {
		req.CreatedBy = actorID.(string)
	}

	if err := cc.service.CreateClient(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al crear el cliente",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, req)
}

// UpdateClient обновляет данные клиента
// PUT /api/v1/clients/:id
func (cc *ClientController) UpdateClient(c *gin.Context) {
	id := c.Param("id")

	var req models.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Datos inválidos",
			"details": err.Error(),
		})
		return
	}

	if err := cc.service.UpdateClient(id, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al actualizar el cliente",
			"details": err.Error(),
		})
		return
	}

	client, err := cc.service.GetClientByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error al obtener el cliente actualizado",
		})
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient удаляет клиента
// DELETE /api/v1/clients/:id
func (cc *ClientController) DeleteClient(c *gin.Context) {
	id := c.Param("id")
	if err := cc.service.DeleteClient(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al eliminar el cliente",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
