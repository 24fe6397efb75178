package model

import "time"

// PeriodRecord maps every catalog field to its extracted value for one period.
// Unresolved fields are present with a nil value, never absent.
type PeriodRecord map[FieldKey]*float64

// ParseResult is the outcome of extracting one uploaded workbook.
type ParseResult struct {
	SheetName           string         `json:"sheetName"`
	DetectedPeriodCount int            `json:"detectedPeriodCount"`
	Periods             []PeriodRecord `json:"periods"`
	Warnings            []string       `json:"warnings"`
}

// HasNumericData reports whether any field in any period resolved to a number.
func (r *ParseResult) HasNumericData() bool {
	for _, rec := range r.Periods {
		for _, v := range rec {
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Extraction is one persisted extraction run.
type Extraction struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	FileHash    string    `json:"fileHash"`
	SheetName   string    `json:"sheetName"`
	PeriodCount int       `json:"periodCount"`
	Status      string    `json:"status"` // completed/failed
	Warnings    []string  `json:"warnings"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ExtractionDetail bundles a run with its per-period records.
type ExtractionDetail struct {
	Extraction
	Periods []PeriodRecord `json:"periods"`
}
