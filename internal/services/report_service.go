package services

import (
	"bytes"
	"fmt"

	"polizacrm/server/internal/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportService выгружает отчеты в Excel
type ReportService struct {
	db *gorm.DB
}

// NewReportService создает сервис отчетов
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ExportPolicies формирует xlsx со всеми полисами
func (s *ReportService) ExportPolicies() (*bytes.Buffer, error) {
	var policies []models.Policy
	if err := s.db.Preload("Client").Order("created_at").Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{
		"Póliza", "Cliente", "RFC", "Aseguradora", "Tipo", "Estado",
		"Inicio", "Fin", "Frecuencia", "Prima neta", "Impuesto", "Prima total", "Moneda",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range policies {
		clientName := ""
		taxID := ""
		if p.Client != nil {
			clientName = p.Client.FullName()
			taxID = p.Client.TaxID
		}

		values := []interface{}{
			p.PolicyNumber, clientName, taxID, p.Company, p.PolicyType, string(p.Status),
			p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"),
			string(p.PaymentFrequency), p.PremiumNet, p.PremiumTax, p.PremiumTotal, p.Currency,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f.WriteToBuffer()
}

// ExportCommissions формирует xlsx с начисленными комиссиями
func (s *ReportService) ExportCommissions() (*bytes.Buffer, error) {
	var commissions []models.Commission
	if err := s.db.Preload("Policy").Order("created_at").Find(&commissions).Error; err != nil {
		return nil, fmt.Errorf("failed to load commissions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	headers := []string{"Póliza", "Agente", "Base", "Porcentaje", "Comisión", "Estado"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, c := range commissions {
		policyNumber := ""
		if c.Policy != nil {
			policyNumber = c.Policy.PolicyNumber
		}
		values := []interface{}{
			policyNumber, c.AgentName, c.BaseAmount, c.Percentage, c.Amount, string(c.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f.WriteToBuffer()
}
