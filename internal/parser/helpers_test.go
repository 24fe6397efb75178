package parser_test

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// defaultHeader is the standard template header row.
var defaultHeader = []interface{}{"Campo", "Descrição", "Período 1", "Período 2", "Período 3"}

func newWorkbookFile(t *testing.T, sheetNames ...string) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	defaultSheet := wb.GetSheetName(wb.GetActiveSheetIndex())

	for _, name := range sheetNames {
		if _, err := wb.NewSheet(name); err != nil {
			t.Fatalf("NewSheet %s failed: %v", name, err)
		}
	}
	if len(sheetNames) > 0 && defaultSheet != "" {
		if err := wb.DeleteSheet(defaultSheet); err != nil {
			t.Fatalf("DeleteSheet %s failed: %v", defaultSheet, err)
		}
	}
	return wb
}

func setRow(t *testing.T, wb *excelize.File, sheet, cell string, values []interface{}) {
	t.Helper()
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		t.Fatalf("SetSheetRow %s!%s failed: %v", sheet, cell, err)
	}
}

func setSolidFill(t *testing.T, wb *excelize.File, sheet, cell, argb string) {
	t.Helper()
	styleID, err := wb.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{argb}},
	})
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}
	if err := wb.SetCellStyle(sheet, cell, cell, styleID); err != nil {
		t.Fatalf("SetCellStyle %s failed: %v", cell, err)
	}
}

func workbookBytes(t *testing.T, wb *excelize.File) []byte {
	t.Helper()
	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}

// buildTemplateBytes builds a one-sheet template workbook with the default
// header and the given data rows starting at row 2.
func buildTemplateBytes(t *testing.T, sheetName string, dataRows [][]interface{}) []byte {
	t.Helper()

	wb := newWorkbookFile(t, sheetName)
	setRow(t, wb, sheetName, "A1", defaultHeader)
	for i, row := range dataRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		setRow(t, wb, sheetName, cell, row)
	}
	return workbookBytes(t, wb)
}

func floatPtrEq(p *float64, want float64) bool {
	return p != nil && *p == want
}
