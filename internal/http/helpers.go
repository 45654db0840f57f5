package http

import (
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseSortKey falls back to newest-first for unknown values.
func parseSortKey(v string) report.SortKey {
	switch key := report.SortKey(v); key {
	case report.SortDateDesc, report.SortDateAsc, report.SortAmountDesc, report.SortCategoryAsc:
		return key
	default:
		return report.SortDateDesc
	}
}

// displayDate renders a date for list rows; unparseable persisted dates show
// as a placeholder instead of a junk value.
func displayDate(d core.Date) string {
	if d.IsZero() {
		return "—"
	}
	return d.String()
}
