package api

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"polizacrm/server/internal/models"
	"polizacrm/server/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DocumentController управляет загрузкой и удалением документов
type DocumentController struct {
	db    *gorm.DB
	store storage.Store
}

// NewDocumentController создает контроллер документов
func NewDocumentController(db *gorm.DB, store storage.Store) *DocumentController {
	return &DocumentController{db: db, store: store}
}

// GetDocuments получает документы по клиенту, полису или страховому случаю
// GET /api/v1/documents?client_id=...&policy_id=...&claim_id=...
func (dc *DocumentController) GetDocuments(c *gin.Context) {
	query := dc.db.Order("created_at DESC")
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if policyID := c.Query("policy_id"); policyID != "" {
		query = query.Where("policy_id = ?", policyID)
	}
	if claimID := c.Query("claim_id"); claimID != "" {
		query = query.Where("claim_id = ?", claimID)
	}

	var documents []models.Document
	if err := query.Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al obtener los documentos",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"count":     len(documents),
	})
}

// UploadDocument загружает файл в хранилище и создает строку метаданных
// multipart: file + client_id/policy_id/claim_id (ровно один) + doc_type + description
// POST /api/v1/documents
func (dc *DocumentController) UploadDocument(c *gin.Context) {
	if dc.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "El almacenamiento de documentos no está configurado",
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No se recibió el archivo",
		})
		return
	}

	clientID := c.PostForm("client_id")
	policyID := c.PostForm("policy_id")
	claimID := c.PostForm("claim_id")
	if clientID == "" && policyID == "" && claimID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Se requiere client_id, policy_id o claim_id",
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
		mimeType = "application/octet-stream"
	}

	owner := clientID
	prefix := "clients"
	if owner == "" {
		owner = policyID
		prefix = "policies"
	}
	if owner == "" {
		owner = claimID
		prefix = "claims"
	}
	path := fmt.Sprintf("%s/%s/%d_%s", prefix, owner, time.Now().Unix(), fileHeader.Filename)

	url, err := dc.store.Put(context.Background(), path, data, mimeType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al subir el documento",
			"details": err.Error(),
		})
		return
	}

	doc := models.Document{
		ClientID:    clientID,
		PolicyID:    policyID,
		ClaimID:     claimID,
		FileName:    fileHeader.Filename,
		MimeType:    mimeType,
		SizeBytes:   fileHeader.Size,
		URL:         url,
		StoragePath: path,
		DocType:     c.PostForm("doc_type"),
		Description: c.PostForm("description"),
	}
	if actorID, ok := c.Get("userID"); ok {
		doc.UploadedBy = actorID.(string)
	}

	if err := dc.db.Create(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al guardar los metadatos del documento",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// DeleteDocument удаляет документ: объект best-effort, строка авторитетно
// DELETE /api/v1/documents/:id
func (dc *DocumentController) DeleteDocument(c *gin.Context) {
	id := c.Param("id")

	var doc models.Document
	if err := dc.db.First(&doc, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Documento no encontrado",
		})
		return
	}

	// Объект в хранилище удаляем best-effort
	if dc.store != nil && doc.StoragePath != "" {
		if err := dc.store.Delete(context.Background(), doc.StoragePath); err != nil {
			log.Printf("⚠️ Документы: объект %s не удален из хранилища: %v", doc.StoragePath, err)
		}
	}

	// Строка метаданных удаляется авторитетно
	if err := dc.db.Delete(&models.Document{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Error al eliminar el documento",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
