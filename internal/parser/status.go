package parser

import (
	"math"
	"strconv"
	"strings"

	"capacity-recon/internal/model"
	"capacity-recon/internal/workbook"
)

// ClassifyStatus maps the plan/actual cell text to a status lane. Rephase is
// checked first, then actual/forecast, then plan.
func ClassifyStatus(text string) (model.Status, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "rephase"):
		return model.StatusRephase, true
	case strings.Contains(lower, "actual"), strings.Contains(lower, "fcst"):
		return model.StatusActual, true
	case strings.Contains(lower, "plan"):
		return model.StatusPlan, true
	}
	return "", false
}

var numberCleaner = strings.NewReplacer(",", "", "%", "", " ", "", "\u00a0", "")

// ParseNumber reads a nullable number from a cell. Empty cells, dates and
// text that does not parse after removing separators yield nil; zero is kept.
func ParseNumber(c workbook.Cell) *float64 {
	switch c.Kind {
	case workbook.CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return nil
		}
		return model.Float(c.Number)
	case workbook.CellText:
		return ParseNumberText(c.Text)
	default:
		return nil
	}
}

// ParseNumberText parses locale-formatted numeric text such as "1,250.5"
// or "12%"
func ParseNumberText(s string) *float64 {
	clean := numberCleaner.Replace(strings.TrimSpace(s))
	if clean == "" {
		return nil
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
