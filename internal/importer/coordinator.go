package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/model"
	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/parser"
	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/store"
)

// Coordinator turns an uploaded template file into a persisted extraction.
type Coordinator struct {
	store   *store.Store
	ruleset parser.Ruleset
}

// NewCoordinator creates an extraction coordinator.
func NewCoordinator(st *store.Store) *Coordinator {
	return &Coordinator{
		store:   st,
		ruleset: parser.DefaultRuleset(),
	}
}

// ExtractOptions describes one upload.
type ExtractOptions struct {
	Filename string
	Data     []byte
}

// ProgressEvent is one step of an extraction, streamed to the client.
type ProgressEvent struct {
	Type      string      `json:"type"` // start/parsing/warning/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Extract runs the pipeline asynchronously and returns its progress channel.
// The channel closes after the terminal done/error event.
func (c *Coordinator) Extract(opts ExtractOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doExtract(opts, progressChan)
	}()

	return progressChan
}

func (c *Coordinator) doExtract(opts ExtractOptions, progressChan chan ProgressEvent) {
	c.sendProgress(progressChan, ProgressEvent{
		Type:      "start",
		Message:   fmt.Sprintf("extracting %q", opts.Filename),
		Data:      map[string]interface{}{"filename": opts.Filename, "size": len(opts.Data)},
		Timestamp: time.Now(),
	})

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "parsing",
		Message:   "decoding workbook",
		Timestamp: time.Now(),
	})

	result, err := parser.Parse(c.ruleset, opts.Data)
	if err != nil {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("extraction failed: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	for _, w := range result.Warnings {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   w,
			Timestamp: time.Now(),
		})
	}

	hash := sha256.Sum256(opts.Data)
	ext := model.Extraction{
		ID:          uuid.New().String(),
		Filename:    opts.Filename,
		FileHash:    hex.EncodeToString(hash[:]),
		SheetName:   result.SheetName,
		PeriodCount: result.DetectedPeriodCount,
		Status:      "completed",
		Warnings:    result.Warnings,
	}

	if err := c.store.SaveExtraction(ext, result.Periods); err != nil {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("failed to persist extraction: %v", err),
			Timestamp: time.Now(),
		})
		return
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "done",
		Message: fmt.Sprintf("extracted %d period(s) from sheet %q", result.DetectedPeriodCount, result.SheetName),
		Data: map[string]interface{}{
			"extractionId": ext.ID,
			"sheetName":    result.SheetName,
			"periodCount":  result.DetectedPeriodCount,
			"warnings":     result.Warnings,
			"hasData":      result.HasNumericData(),
		},
		Timestamp: time.Now(),
	})
}

// sendProgress drops events when the channel is full; a slow client never
// stalls the extraction.
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
	}
}
