// Package parser extracts normalized per-period financial field values from
// user-edited spreadsheet templates. The template layout is not rigid, so
// worksheet selection, period-count detection, and cell eligibility all run
// layered fallback heuristics with explicit precedence.
package parser

import (
	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/model"
)

// Parse decodes raw xlsx bytes and extracts a ParseResult. Parsing is a pure
// function of the input: no state survives between invocations, and soft
// conditions never abort. The best-effort result always comes back unless
// decoding fails or the workbook holds no worksheets.
func Parse(rs Ruleset, data []byte) (*model.ParseResult, error) {
	wb, err := Decode(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return ParseWorkbook(rs, wb)
}

// ParseWorkbook runs the extraction stages over an already-decoded workbook.
func ParseWorkbook(rs Ruleset, wb *Workbook) (*model.ParseResult, error) {
	ws, warnings, err := SelectWorksheet(rs, wb)
	if err != nil {
		return nil, err
	}

	periodCount, detectWarnings := DetectPeriodCount(rs, ws)
	warnings = append(warnings, detectWarnings...)

	records, assembleWarnings := AssembleRecords(rs, ws, periodCount, model.FieldCatalog())
	warnings = append(warnings, assembleWarnings...)

	if warnings == nil {
		warnings = []string{}
	}
	return &model.ParseResult{
		SheetName:           ws.Name,
		DetectedPeriodCount: periodCount,
		Periods:             records,
		Warnings:            warnings,
	}, nil
}
