package parser

// dataRowSampleSize bounds strategy 3: only rows 2..5 are inspected.
const dataRowSampleSize = 4

// DetectPeriodCount determines how many period columns the worksheet holds.
// Three strategies run in strict order: explicit period labels in the header
// row win with any match; otherwise the structural column span is tried, then
// sampled data rows. A candidate that is still <= 1 after all three falls back
// to DefaultPeriodCount, with a warning so callers know the count was assumed
// rather than detected. The result is always within [1, MaxPeriods].
func DetectPeriodCount(rs Ruleset, ws *Worksheet) (int, []string) {
	if n := countPeriodLabels(ws); n >= 1 {
		return clampPeriods(n), nil
	}

	if n := countByColumnSpan(rs, ws); n > 1 {
		return clampPeriods(n), nil
	}

	if n := countByDataRows(ws); n > 1 {
		return clampPeriods(n), nil
	}

	return DefaultPeriodCount, []string{"period count could not be detected; defaulted to 2"}
}

func clampPeriods(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxPeriods {
		return MaxPeriods
	}
	return n
}

// countPeriodLabels counts header cells that advertise a period column
// ("Período 1", "P3", or any period-indicating text).
func countPeriodLabels(ws *Worksheet) int {
	header := ws.HeaderRow()
	if header == nil {
		return 0
	}
	count := 0
	for _, cell := range header.Cells {
		if matchesPeriodLabel(cell.DisplayText()) {
			count++
		}
	}
	return count
}

// countByColumnSpan assumes the structural layout
// [key, description, period 1..N, notes?] and measures the header span from
// column 3, excluding a trailing notes region when one is marked.
func countByColumnSpan(rs Ruleset, ws *Worksheet) int {
	header := ws.HeaderRow()
	if header == nil {
		return 0
	}

	end := len(header.Cells)
	for col := firstPeriodColumn; col <= len(header.Cells); col++ {
		if rs.isNotesMarker(header.Cell(col).DisplayText()) {
			end = col - 1
			break
		}
	}

	if end < firstPeriodColumn {
		return 0
	}
	return end - firstPeriodColumn + 1
}

// countByDataRows samples rows 2..5 and takes the longest run of consecutive
// non-empty cells from column 3 onward, maximized across the sampled rows.
// A gap resets the run rather than ending the scan, so a blank first period
// cell does not hide a filled row.
func countByDataRows(ws *Worksheet) int {
	best := 0
	ws.EachRow(func(index int, row *Row) bool {
		if index == 1 {
			return true
		}
		if index > 1+dataRowSampleSize {
			return false
		}

		run := 0
		for i, cell := range row.Cells {
			if i+1 < firstPeriodColumn {
				continue
			}
			if cell.IsEmpty() {
				run = 0
				continue
			}
			run++
			if run > best {
				best = run
			}
		}
		return true
	})
	return best
}
