package api

import (
	"errors"
	"net/http"

	"polizacrm/server/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PaymentController управляет API endpoints платежей
type PaymentController struct {
	service *services.PaymentService
}

// NewPaymentController создает контроллер платежей
func NewPaymentController(service *services.PaymentService) *PaymentController {
	return &PaymentController{service: service}
}

// GetPayments получает платежи
// GET /api/v1/payments?status=pending
func (pc *PaymentController) GetPayments(c *gin.Context) {
	payments, err := pc.service.GetPayments(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al obtener los pagos",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}

// CreatePaymentLink создает платежную ссылку для платежа
// POST /api/v1/payments/:id/link
func (pc *PaymentController) CreatePaymentLink(c *gin.Context) {
	id := c.Param("id")

	url, err := pc.service.CreatePaymentLink(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Error al crear el enlace de pago",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_link": url})
}

// MarkPaidRequest представляет отметку об оплате
type MarkPaidRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// MarkPaid помечает платеж оплаченным
// PUT /api/v1/payments/:id/paid
func (pc *PaymentController) MarkPaid(c *gin.Context) {
	id := c.Param("id")

	var req MarkPaidRequest
	_ = c.ShouldBindJSON(&req)

	if err := pc.service.MarkPaid(id, req.PaymentMethod); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Pago no encontrado",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al marcar el pago",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paid": id})
}
