package parser

import (
	"strconv"
	"strings"

	"github.com/rodaquino-OMNI/EnterpriseCashFlow-sub002/internal/model"
)

// ResolveCellValue converts one raw cell into the extracted value for the
// given field and period, or nil when the cell yields nothing. Rules apply
// in order: firstPeriodOnly nulling, the "[Não Aplicável]" sentinel, fill
// eligibility, then numeric coercion (with formula results substituted).
func ResolveCellValue(rs Ruleset, cell Cell, def model.FieldDefinition, periodIndex int) *float64 {
	if def.FirstPeriodOnly && periodIndex > 0 {
		return nil
	}

	if strings.TrimSpace(cell.DisplayText()) == rs.NotApplicableSentinel {
		return nil
	}

	if !rs.cellEligible(cell) {
		return nil
	}

	var raw string
	switch cell.Kind {
	case CellNumber:
		v := cell.Number
		return &v
	case CellFormula:
		raw = cell.Result
	case CellText:
		raw = cell.Text
	default:
		return nil
	}

	n, err := parseNumber(raw)
	if err != nil {
		return nil
	}
	return &n
}

// cellEligible decides whether a cell is a data-entry cell. Absence of a
// solid fill is treated permissively: templates with stripped formatting
// still extract, and a plain value in an unfilled cell always qualifies.
// A solid fill must match the recognized input colors; label and locked
// cells (the template greys) fail here and resolve to nil.
func (rs Ruleset) cellEligible(cell Cell) bool {
	if cell.Fill == nil || cell.Fill.ARGB == "" {
		return true
	}
	return rs.isFillableColor(cell.Fill.ARGB)
}

// parseNumber coerces numeric text, tolerating thousands separators and the
// Brazilian decimal comma ("1.234,56").
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}

	if strings.Contains(s, ",") {
		// Comma as decimal separator; dots before it are grouping.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	return strconv.ParseFloat(s, 64)
}
