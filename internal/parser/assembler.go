package parser

import (
	"strings"

	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/model"
)

// AssembleRecords walks every data row of the worksheet and builds one
// complete PeriodRecord per detected period. Column 1 must hold a catalog
// key exactly; unrecognized rows are expected noise and skipped silently.
// Hidden rows are processed like any other. Every record is closed over the
// full catalog afterwards, so unresolved fields are explicit nils.
func AssembleRecords(rs Ruleset, ws *Worksheet, periodCount int, catalog []model.FieldDefinition) ([]model.PeriodRecord, []string) {
	records := make([]model.PeriodRecord, periodCount)
	for i := range records {
		records[i] = make(model.PeriodRecord, len(catalog))
	}

	defsByKey := make(map[string]model.FieldDefinition, len(catalog))
	for _, def := range catalog {
		defsByKey[string(def.Key)] = def
	}

	ws.EachRow(func(index int, row *Row) bool {
		if index == 1 {
			return true
		}

		key := strings.TrimSpace(row.Cell(1).DisplayText())
		def, ok := defsByKey[key]
		if !ok {
			return true
		}

		for p := 0; p < periodCount; p++ {
			cell := row.Cell(firstPeriodColumn + p)
			records[p][def.Key] = ResolveCellValue(rs, cell, def, p)
		}
		return true
	})

	// Close every record over the catalog.
	hasData := false
	for _, rec := range records {
		for _, def := range catalog {
			if _, ok := rec[def.Key]; !ok {
				rec[def.Key] = nil
			} else if rec[def.Key] != nil {
				hasData = true
			}
		}
	}

	var warnings []string
	if !hasData {
		warnings = append(warnings, "no numeric data found in worksheet \""+ws.Name+"\"")
	}
	return records, warnings
}
