package api

import (
	"fmt"
	"net/http"
	"time"

	"polizacrm/server/internal/services"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController выгружает отчеты в Excel
type ReportController struct {
	service *services.ReportService
}

// NewReportController создает контроллер отчетов
func NewReportController(service *services.ReportService) *ReportController {
	return &ReportController{service: service}
}

// ExportPolicies отдает xlsx со всеми полисами
// GET /api/v1/reports/policies.xlsx
func (rc *ReportController) ExportPolicies(c *gin.Context) {
	buf, err := rc.service.ExportPolicies()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al generar el reporte",
			"details": err.Error(),
		})
		return
	}

	fileName := fmt.Sprintf("polizas_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportCommissions отдает xlsx с начисленными комиссиями
// GET /api/v1/reports/commissions.xlsx
func (rc *ReportController) ExportCommissions(c *gin.Context) {
	buf, err := rc.service.ExportCommissions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al generar el reporte",
			"details": err.Error(),
		})
		return
	}

	fileName := fmt.Sprintf("comisiones_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
