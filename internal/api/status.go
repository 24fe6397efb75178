package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/model"
)

// Version is the service version reported by the status endpoint.
const Version = "1.2.0"

// GetStatus reports service health and the number of stored runs.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	count, err := h.store.CountExtractions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"version":     Version,
		"extractions": count,
	})
}

// ListFields exposes the closed field catalog for UI consumption.
// GET /api/fields
func (h *Handler) ListFields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": model.FieldCatalog()})
}
