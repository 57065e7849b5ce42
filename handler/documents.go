package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trust2025gb/contractkit/middleware"
	"github.com/trust2025gb/contractkit/model"
)

// ListDocuments returns a contract's documents in upload order.
func (h *ContractHandler) ListDocuments(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	docs, ok := h.store.Documents(tenant, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	if docs == nil {
		docs = []model.ContractDocument{}
	}
	c.JSON(http.StatusOK, docs)
}

// AddDocument uploads one document: a file field plus a type field, and an
// optional description.
func (h *ContractHandler) AddDocument(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	contractID := c.Param("id")

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	docType := model.DocumentType(c.PostForm("type"))
	if docType == "" {
		docType = model.DocumentAttachment
	}
	if !docType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document type"})
		return
	}

	up, err := readUpload(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	name := header.Filename
	if name == "" {
		name = "document"
	}

	doc, ok := h.store.AddDocument(tenant, contractID, model.ContractDocument{
		Name:        name,
		Description: c.PostForm("description"),
		Type:        docType,
		MimeType:    up.contentType,
	}, up.data)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// DeleteDocument removes one document and acknowledges with {success}.
func (h *ContractHandler) DeleteDocument(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	if !h.store.DeleteDocument(tenant, c.Param("id"), c.Param("documentId")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DocumentContent streams the raw uploaded bytes of a document.
func (h *ContractHandler) DocumentContent(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	docs, ok := h.store.Documents(tenant, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	documentID := c.Param("documentId")
	for _, doc := range docs {
		if doc.ID != documentID {
			continue
		}
		data, ok := h.store.FileData(documentID)
		if !ok {
			break
		}
		contentType := doc.MimeType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, data)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
}
