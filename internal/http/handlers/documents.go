package handlers

import (
	"net/http"

	"fxportal/internal/domain"

	"github.com/gin-gonic/gin"
)

type uploadDocumentRequest struct {
	Type     string `json:"type"`
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
}

// UploadDocument registers an uploaded verification document for review.
// File storage happens upstream; only the reference lands here.
func (h *Handler) UploadDocument(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req uploadDocumentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	doc, err := h.Documents.Submit(c.Request.Context(), userID, domain.DocumentType(req.Type), req.FileName, req.FileURL)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) ListDocuments(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	docs, err := h.Documents.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// VerificationStatus reports the caller's verification gate state.
func (h *Handler) VerificationStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := h.Verification.Status(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}
