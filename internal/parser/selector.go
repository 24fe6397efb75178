package parser

import "strings"

// selectStrategy proposes a worksheet, or nil to pass to the next strategy.
type selectStrategy func(rs Ruleset, wb *Workbook) *Worksheet

// selectStrategies are tried in order; the first non-nil candidate wins.
var selectStrategies = []selectStrategy{
	selectByHeaderPattern,
	selectByDataSheetName,
	selectByNonInstructionName,
	selectFirstSheet,
}

// SelectWorksheet picks the worksheet most likely to hold the data-entry
// table. It always returns a candidate for a non-empty workbook; when the
// header-pattern strategy did not decide, a soft warning is returned so the
// caller can surface that the selection fell back to a name heuristic.
func SelectWorksheet(rs Ruleset, wb *Workbook) (*Worksheet, []string, error) {
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, nil, ErrNoWorksheet
	}

	var warnings []string
	for i, strategy := range selectStrategies {
		ws := strategy(rs, wb)
		if ws == nil {
			continue
		}
		if i > 0 {
			warnings = append(warnings, "no worksheet header matched known patterns; selected \""+ws.Name+"\" by sheet-name heuristic")
		}
		return ws, warnings, nil
	}

	// Unreachable: selectFirstSheet always answers for a non-empty workbook.
	return wb.Sheets[0], warnings, nil
}

// selectByHeaderPattern matches row 1 cell values against the header allow-list.
func selectByHeaderPattern(rs Ruleset, wb *Workbook) *Worksheet {
	for _, ws := range wb.Sheets {
		header := ws.HeaderRow()
		if header == nil {
			continue
		}
		for _, cell := range header.Cells {
			if rs.matchesAnyHeaderPattern(cell.DisplayText()) {
				return ws
			}
		}
	}
	return nil
}

// selectByDataSheetName picks the first sheet named like a data sheet ("dados").
func selectByDataSheetName(rs Ruleset, wb *Workbook) *Worksheet {
	for _, ws := range wb.Sheets {
		if strings.Contains(strings.ToLower(ws.Name), rs.DataSheetMarker) {
			return ws
		}
	}
	return nil
}

// selectByNonInstructionName skips instruction/help sheets by name.
func selectByNonInstructionName(rs Ruleset, wb *Workbook) *Worksheet {
	for _, ws := range wb.Sheets {
		if !strings.Contains(strings.ToLower(ws.Name), rs.InstructionMarker) {
			return ws
		}
	}
	return nil
}

func selectFirstSheet(rs Ruleset, wb *Workbook) *Worksheet {
	return wb.Sheets[0]
}
