package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/store"
)

// Handler serves the extraction API.
type Handler struct {
	store       *store.Store
	maxUploadMB int
}

// NewHandler creates the API handler.
func NewHandler(st *store.Store, maxUploadMB int) *Handler {
	return &Handler{
		store:       st,
		maxUploadMB: maxUploadMB,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.GET("/fields", h.ListFields)

	router.POST("/extractions", h.CreateExtraction)
	router.GET("/extractions", h.ListExtractions)
	router.GET("/extractions/:id", h.GetExtraction)
	router.DELETE("/extractions/:id", h.DeleteExtraction)
}
