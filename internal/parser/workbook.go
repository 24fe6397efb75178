package parser

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellKind tags the decoded value of a cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellFormula
)

// FillInfo captures the background fill of a cell, when it has one.
type FillInfo struct {
	PatternType string // "pattern" for solid fills
	ARGB        string // solid fill color, e.g. "FFD9D9D9"
}

// Cell is one decoded cell: a tagged value plus formatting metadata.
type Cell struct {
	Kind    CellKind
	Number  float64 // valid when Kind == CellNumber
	Text    string  // raw text for CellText; formatted result text otherwise
	Formula string  // formula expression, valid when Kind == CellFormula
	Result  string  // cached/calculated formula result, valid when Kind == CellFormula
	Fill    *FillInfo
	Hidden  bool // the owning row is hidden; hidden rows are still processed
}

// Row is one worksheet row. Cells is sparse: trailing empties are absent
// and Cell(col) returns an empty cell for any gap.
type Row struct {
	Index  int // 1-based row number
	Cells  []Cell
	Hidden bool
}

// Cell returns the cell at the 1-based column, or an empty cell beyond the row end.
func (r *Row) Cell(col int) Cell {
	if col < 1 || col > len(r.Cells) {
		return Cell{}
	}
	return r.Cells[col-1]
}

// Values returns the row as a snapshot of cell display texts, 1-based semantics
// preserved by position (index 0 holds column 1).
func (r *Row) Values() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.DisplayText()
	}
	return out
}

// DisplayText renders the cell the way header matching sees it.
func (c Cell) DisplayText() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellFormula:
		return c.Result
	default:
		return c.Text
	}
}

// IsEmpty reports whether the cell holds no value at all.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty && strings.TrimSpace(c.Text) == ""
}

// Worksheet is a read-only view of one sheet. Rows materialize lazily on
// first access and are cached for the rest of the parse.
type Worksheet struct {
	Name string

	file   *excelize.File
	styles *styleCache

	loaded bool
	rows   []*Row
	header *Row
}

// Workbook is the decoded spreadsheet document.
type Workbook struct {
	Sheets []*Worksheet

	file   *excelize.File
	styles *styleCache
}

// Decode opens raw xlsx bytes into a Workbook. Malformed input yields a *DecodeError.
func Decode(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	wb := &Workbook{
		file:   f,
		styles: newStyleCache(f),
	}
	for _, name := range f.GetSheetList() {
		wb.Sheets = append(wb.Sheets, &Worksheet{
			Name:   name,
			file:   f,
			styles: wb.styles,
		})
	}
	return wb, nil
}

// Close releases the underlying workbook.
func (wb *Workbook) Close() error {
	if wb.file != nil {
		return wb.file.Close()
	}
	return nil
}

// HeaderRow returns row 1, or nil when the sheet is empty.
func (ws *Worksheet) HeaderRow() *Row {
	ws.load()
	return ws.header
}

// EachRow walks every row in file order, calling fn with the 1-based row
// index. Returning false stops the walk. The sequence is finite and is
// consumed within a single parse.
func (ws *Worksheet) EachRow(fn func(index int, row *Row) bool) {
	ws.load()
	for _, row := range ws.rows {
		if !fn(row.Index, row) {
			return
		}
	}
}

func (ws *Worksheet) load() {
	if ws.loaded {
		return
	}
	ws.loaded = true

	raw, err := ws.file.GetRows(ws.Name, excelize.Options{RawCellValue: true})
	if err != nil {
		return
	}

	ws.rows = make([]*Row, 0, len(raw))
	for i, rawRow := range raw {
		rowIdx := i + 1
		hidden := ws.rowHidden(rowIdx)
		row := &Row{
			Index:  rowIdx,
			Cells:  make([]Cell, len(rawRow)),
			Hidden: hidden,
		}
		for j, rawVal := range rawRow {
			row.Cells[j] = ws.decodeCell(rowIdx, j+1, rawVal, hidden)
		}
		ws.rows = append(ws.rows, row)
		if rowIdx == 1 {
			ws.header = row
		}
	}
}

func (ws *Worksheet) rowHidden(rowIdx int) bool {
	visible, err := ws.file.GetRowVisible(ws.Name, rowIdx)
	if err != nil {
		return false
	}
	return !visible
}

func (ws *Worksheet) decodeCell(rowIdx, colIdx int, rawVal string, hidden bool) Cell {
	addr, err := excelize.CoordinatesToCellName(colIdx, rowIdx)
	if err != nil {
		return Cell{}
	}

	cell := Cell{
		Hidden: hidden,
		Fill:   ws.styles.fillFor(ws.Name, addr),
	}

	if formula, _ := ws.file.GetCellFormula(ws.Name, addr); formula != "" {
		cell.Kind = CellFormula
		cell.Formula = formula
		cell.Result = strings.TrimSpace(rawVal)
		if cell.Result == "" {
			// No cached result in the file; calculate best-effort.
			if v, err := ws.file.CalcCellValue(ws.Name, addr); err == nil {
				cell.Result = strings.TrimSpace(v)
			}
		}
		return cell
	}

	trimmed := strings.TrimSpace(rawVal)
	if trimmed == "" {
		return cell
	}

	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		cell.Kind = CellNumber
		cell.Number = n
		cell.Text = trimmed
		return cell
	}

	cell.Kind = CellText
	cell.Text = trimmed
	return cell
}

// styleCache memoizes fill lookups per style ID; workbooks reuse a handful
// of styles across thousands of cells.
type styleCache struct {
	file  *excelize.File
	fills map[int]*FillInfo
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{
		file:  f,
		fills: make(map[int]*FillInfo),
	}
}

func (sc *styleCache) fillFor(sheet, addr string) *FillInfo {
	styleID, err := sc.file.GetCellStyle(sheet, addr)
	if err != nil || styleID == 0 {
		return nil
	}
	if fill, ok := sc.fills[styleID]; ok {
		return fill
	}

	var fill *FillInfo
	if style, err := sc.file.GetStyle(styleID); err == nil && style != nil {
		if style.Fill.Type == "pattern" && style.Fill.Pattern == 1 && len(style.Fill.Color) > 0 {
			color := strings.TrimPrefix(strings.ToUpper(style.Fill.Color[0]), "#")
			if color != "" {
				fill = &FillInfo{PatternType: style.Fill.Type, ARGB: color}
			}
		}
	}
	sc.fills[styleID] = fill
	return fill
}
