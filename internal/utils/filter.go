package utils

import "strings"

// placeholders are values spreadsheets and CSV exports leave in name cells
// when the cell is logically empty
var placeholders = map[string]bool{
	"nan":   true,
	"none":  true,
	"null":  true,
	"n/a":   true,
	"s.no":  true,
	"s.no.": true,
}

// IsNoise determines if a project name cell should be treated as empty.
// Names must be longer than two characters once trimmed.
func IsNoise(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) <= 2 {
		return true
	}

	return placeholders[strings.ToLower(trimmed)]
}
