package parser

import (
	"strings"

	"capacity-recon/internal/workbook"
)

var serialKeywords = []string{"s.no", "s. no", "sl no", "priority", "spv"}

// SelectSheet picks the sheet to extract: the first whose name mentions both
// "summary" and "linked", otherwise the first sheet
func SelectSheet(names []string) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "summary") && strings.Contains(lower, "linked") {
			return name, true
		}
	}
	return names[0], true
}

// LocateHeader returns the index of the first row that looks like the
// column header: it names a project, a capacity and a serial/SPV column
func LocateHeader(rows []workbook.Row) (int, bool) {
	for i, row := range rows {
		if IsHeaderRow(row) {
			return i, true
		}
	}
	return -1, false
}

// IsHeaderRow applies the header predicate to a single row
func IsHeaderRow(row workbook.Row) bool {
	text := strings.ToLower(row.Join(0))
	if !strings.Contains(text, "project") {
		return false
	}
	if !strings.Contains(text, "capacity") && !strings.Contains(text, "mw") {
		return false
	}
	return containsAny(text, serialKeywords...)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
