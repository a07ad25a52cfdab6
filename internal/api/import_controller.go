package api

import (
	"encoding/json"
	"io"
	"net/http"

	"polizacrm/server/internal/services"

	"github.com/gin-gonic/gin"
)

// ImportController управляет пайплайном импорта полисов из PDF:
// извлечение данных моделью → проверка ревьюером → сохранение
type ImportController struct {
	gemini        *services.GeminiClient
	reviewService *services.ReviewService
	importService *services.ImportService
}

// NewImportController создает контроллер импорта
func NewImportController(gemini *services.GeminiClient, review *services.ReviewService, importSvc *services.ImportService) *ImportController {
	return &ImportController{
		gemini:        gemini,
		reviewService: review,
		importService: importSvc,
	}
}

// Extract принимает документ и возвращает кандидатные данные
// Всегда отвечает 200 с данными для ревью: при сбое модели это
// демо-данные с confidence 0 — пользователь продолжает работу
// POST /api/v1/import/extract (multipart: file)
func (ic *ImportController) Extract(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No se recibió el archivo",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "No se pudo leer el archivo",
			"details": err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "No se pudo leer el archivo",
			"details": err.Error(),
		})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	extracted := ic.gemini.ExtractPolicyData(data, mimeType)
	c.JSON(http.StatusOK, extracted)
}

// Confirm принимает проверенные ревьюером данные и сохраняет их
// multipart: payload (JSON ImportConfirmation) + file (опционально)
// 422 с ошибками по полям — ревьюер исправляет и повторяет
// POST /api/v1/import/confirm
func (ic *ImportController) Confirm(c *gin.Context) {
	payload := c.PostForm("payload")
	if payload == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Falta el campo payload",
		})
		return
	}

	var conf services.ImportConfirmation
	if err := json.Unmarshal([]byte(payload), &conf); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "payload inválido",
			"details": err.Error(),
		})
		return
	}

	// Валидация по полям: ошибки не фатальны, форма переспрашивает
	if errs := ic.reviewService.Validate(conf); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"errors": errs,
		})
		return
	}

	// Исходный документ может прийти повторно для прикрепления к полису
	var fileData []byte
	fileName := ""
	mimeType := ""
	if fileHeader, err := c.FormFile("file"); err == nil {
		if file, err := fileHeader.Open(); err == nil {
			fileData, _ = io.ReadAll(file)
			file.Close()
			fileName = fileHeader.Filename
			mimeType = fileHeader.Header.Get("Content-Type")
			if mimeType == "" {
				mimeType = "application/pdf"
			}
		}
	}

	actorID := ""
	if id, ok := c.Get("userID"); ok {
		actorID = id.(string)
	}

	policy, importErr := ic.importService.ConfirmImport(conf, fileData, fileName, mimeType, actorID)
	if importErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al guardar la póliza importada",
			"stage":   importErr.Stage,
			"details": importErr.Err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, policy)
}
