package exporter

import (
	"capacity-recon/internal/model"

	"github.com/xuri/excelize/v2"
)

// Styler handles Excel styling
type Styler struct {
	File *excelize.File

	// Pre-defined styles
	HeaderStyle   int
	SectionStyle  int
	PlanStyle     int
	RephaseStyle  int
	ActualStyle   int
	ExcludedStyle int
	DefaultStyle  int
}

// numberFormat renders capacities with two decimals and thousands separators
const numberFormat = 4

// NewStyler creates a new Styler and explicitly registers styles
func NewStyler(f *excelize.File) (*Styler, error) {
	s := &Styler{File: f}
	var err error

	// Header Style: Bold, Gray Background, Center Aligned
	s.HeaderStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#000000"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	// Section Style: Blue bold separator between banner groups
	s.SectionStyle, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#0000FF"},
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	// Plan Style: Default Black
	s.PlanStyle, err = f.NewStyle(&excelize.Style{
		NumFmt:    numberFormat,
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	// Rephase Style: Amber fill
	s.RephaseStyle, err = f.NewStyle(&excelize.Style{
		NumFmt:    numberFormat,
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFF4E0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	// Actual Style: Green text
	s.ActualStyle, err = f.NewStyle(&excelize.Style{
		NumFmt:    numberFormat,
		Font:      &excelize.Font{Color: "#2E7D32"},
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	// Excluded Style: Gray Italic (not counted in totals)
	s.ExcludedStyle, err = f.NewStyle(&excelize.Style{
		NumFmt:    numberFormat,
		Font:      &excelize.Font{Color: "#757575", Italic: true},
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	// Default Style
	s.DefaultStyle, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    createBorder(),
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// RecordStyle picks the row style for a record
func (s *Styler) RecordStyle(rec *model.ProjectRecord) int {
	if !rec.IncludedInTotal {
		return s.ExcludedStyle
	}
	switch rec.PlanActual {
	case model.StatusRephase:
		return s.RephaseStyle
	case model.StatusActual:
		return s.ActualStyle
	default:
		return s.PlanStyle
	}
}

func createBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "D4D4D4", Style: 1},
		{Type: "top", Color: "D4D4D4", Style: 1},
		{Type: "bottom", Color: "D4D4D4", Style: 1},
		{Type: "right", Color: "D4D4D4", Style: 1},
	}
}
