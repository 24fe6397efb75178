package parser

import (
	"regexp"
	"strings"
)

// MaxPeriods is the hard ceiling on detected period columns.
const MaxPeriods = 6

// DefaultPeriodCount is used when every detection strategy comes up empty.
// Ambiguous templates get two periods rather than a degenerate single one.
const DefaultPeriodCount = 2

// Template column layout: [field key, description, period 1..N, notes?].
const firstPeriodColumn = 3

// Ruleset carries the fixed allow-lists the engine matches against.
// It is immutable configuration data: build one with DefaultRuleset
// (or a custom one in tests) and pass it to Parse.
type Ruleset struct {
	// HeaderPatterns are case-insensitive substrings that identify the
	// data-entry sheet by its header row (field/description column titles).
	HeaderPatterns []string

	// FillableARGB lists background colors that mark editable input cells.
	// Matched exactly or by suffix, tolerating a missing alpha channel.
	FillableARGB []string

	// NotesMarkers flag trailing header cells as the notes region.
	NotesMarkers []string

	// DataSheetMarker tags data sheets by name ("dados" convention).
	DataSheetMarker string

	// InstructionMarker excludes instruction/help sheets by name.
	InstructionMarker string

	// NotApplicableSentinel is the cell text meaning "no value here".
	NotApplicableSentinel string
}

// DefaultRuleset returns the production constants for the standard template family.
func DefaultRuleset() Ruleset {
	return Ruleset{
		HeaderPatterns:        []string{"campo", "descrição", "descricao", "indicador", "driver"},
		FillableARGB:          []string{"FFFFF2CC", "FFFFFF00", "FFDDEBF7", "FFD9E1F2", "FFE2EFDA", "FFFCE4D6"},
		NotesMarkers:          []string{"nota", "instruç", "instruc"},
		DataSheetMarker:       "dados",
		InstructionMarker:     "instru",
		NotApplicableSentinel: "[Não Aplicável]",
	}
}

var (
	periodExactRe = regexp.MustCompile(`(?i)^per[íi]odo\s*[1-9]$`)
	periodLooseRe = regexp.MustCompile(`(?i)^p[1-9]$`)
)

// matchesPeriodLabel reports whether a header cell advertises a period column.
func matchesPeriodLabel(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if periodExactRe.MatchString(text) || periodLooseRe.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	return strings.Contains(lower, "período") || strings.Contains(lower, "periodo")
}

// matchesAnyHeaderPattern checks a header cell against the allow-list.
func (rs Ruleset) matchesAnyHeaderPattern(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	for _, p := range rs.HeaderPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// isNotesMarker reports whether a header cell opens the notes region.
func (rs Ruleset) isNotesMarker(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}
	for _, m := range rs.NotesMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// isFillableColor matches an ARGB code against the allow-list, by exact
// value or by suffix so "FFF2CC" and "FFFFF2CC" both qualify.
func (rs Ruleset) isFillableColor(argb string) bool {
	argb = strings.ToUpper(strings.TrimSpace(argb))
	if argb == "" {
		return false
	}
	for _, allowed := range rs.FillableARGB {
		if argb == allowed || strings.HasSuffix(allowed, argb) || strings.HasSuffix(argb, allowed) {
			return true
		}
	}
	return false
}
