package api

import (
	"net/http"

	"polizacrm/server/internal/services"

	"github.com/gin-gonic/gin"
)

// JobsController запускает фоновые задачи вручную через API
// Те же задачи выполняет планировщик раз в день
type JobsController struct {
	runner *services.JobRunner
}

// NewJobsController создает контроллер задач
func NewJobsController(runner *services.JobRunner) *JobsController {
	return &JobsController{runner: runner}
}

// RunCommissions запускает генерацию комиссий
// POST /api/v1/jobs/commissions/run
func (jc *JobsController) RunCommissions(c *gin.Context) {
	count, err := jc.runner.Commissions.GenerateCommissions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al generar las comisiones",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": count})
}

// RunPayments запускает генерацию платежей
// POST /api/v1/jobs/payments/run
func (jc *JobsController) RunPayments(c *gin.Context) {
	count, err := jc.runner.Payments.GeneratePayments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al generar los pagos",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": count})
}

// RunExpire запускает актуализацию статусов полисов
// POST /api/v1/jobs/expire/run
func (jc *JobsController) RunExpire(c *gin.Context) {
	count, err := jc.runner.Policies.ExpirePolicies()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al actualizar los estados",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expired": count})
}

// RunReminders запускает рассылку напоминаний о продлении
// POST /api/v1/jobs/reminders/run
func (jc *JobsController) RunReminders(c *gin.Context) {
	count, err := jc.runner.Reminders.SendRenewalReminders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al enviar los recordatorios",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": count})
}
