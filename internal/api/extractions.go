package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/importer"
)

// CreateExtraction accepts a multipart upload and streams extraction
// progress as SSE events. The terminal "done" event carries the run summary.
// POST /api/extractions
func (h *Handler) CreateExtraction(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing upload file"})
		return
	}

	maxBytes := int64(h.maxUploadMB) << 20
	if fileHeader.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds %d MB limit", h.maxUploadMB),
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	if int64(len(data)) > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds %d MB limit", h.maxUploadMB),
		})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	coordinator := importer.NewCoordinator(h.store)
	progressChan := coordinator.Extract(importer.ExtractOptions{
		Filename: fileHeader.Filename,
		Data:     data,
	})

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// ListExtractions returns all persisted runs, newest first.
// GET /api/extractions
func (h *Handler) ListExtractions(c *gin.Context) {
	extractions, err := h.store.ListExtractions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"extractions": extractions})
}

// GetExtraction returns one run with its per-period records.
// GET /api/extractions/:id
func (h *Handler) GetExtraction(c *gin.Context) {
	detail, err := h.store.GetExtraction(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "extraction not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// DeleteExtraction removes one run.
// DELETE /api/extractions/:id
func (h *Handler) DeleteExtraction(c *gin.Context) {
	detail, err := h.store.GetExtraction(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "extraction not found"})
		return
	}
	if err := h.store.DeleteExtraction(detail.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": detail.ID})
}
