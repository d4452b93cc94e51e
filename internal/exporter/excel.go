package exporter

import (
	"fmt"
	"strings"

	"capacity-recon/internal/config"
	"capacity-recon/internal/exporter/common"
	"capacity-recon/internal/model"
	"capacity-recon/internal/utils"

	"github.com/xuri/excelize/v2"
)

const (
	overviewSheet = "Overview"
	projectsSheet = "Projects"
)

// projectHeaders is the column layout of the Projects sheet
var projectHeaders = []string{
	"Category", "Section", "In Total", "S.No", "Project Name", "SPV", "Type", "Plot / Location",
	"Capacity (MW)", "Plan / Actual",
	"Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec", "Jan", "Feb", "Mar",
	"Total Capacity", "Cumm Till Period", "Q1", "Q2", "Q3", "Q4",
	"Source Sheet", "Source Row",
}

// ExcelExporter handles the Excel generation
type ExcelExporter struct {
	// Stateless
}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel report
func (e *ExcelExporter) Export(report *model.Report, cfg *config.Config) error {
	outputFile := cfg.GetOutputPath(".xlsx")
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	// 1. Create Overview Sheet
	if err := e.writeOverview(f, styler, report); err != nil {
		return err
	}

	// 2. Create Projects Sheet
	if err := e.writeProjects(f, styler, report.Projects); err != nil {
		return err
	}

	// Remove default "Sheet1"
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}
	if idx, err := f.GetSheetIndex(overviewSheet); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}

	// Save
	if err := f.SaveAs(outputFile); err != nil {
		return fmt.Errorf("failed to save %s: %w", outputFile, err)
	}

	return nil
}

// --- Overview Sheet Logic ---

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := overviewSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	// Section A: Import Summary
	row := 1
	e.writeRow(f, sheet, row, []string{"Metric", "Value"}, s.HeaderStyle)
	row++

	metrics := []struct {
		Key string
		Val interface{}
	}{
		{"Batch ID", report.BatchID},
		{"Fiscal Year", report.FiscalYear},
		{"Generated At", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Sources", len(report.Sources)},
		{"Failed Sources", report.FailedSources()},
		{"Records Extracted", report.Stats.Records + report.Stats.Duplicates},
		{"Records Kept", report.Stats.Records},
		{"Projects", report.Stats.Projects},
		{"Duplicates Dropped", report.Stats.Duplicates},
		{"Categories", report.Stats.Categories},
		{"Project Types", report.Stats.Types},
		{"SPVs", report.Stats.SPVs},
		{"Sections", report.Stats.Sections},
	}

	for _, m := range metrics {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Val)
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), s.DefaultStyle)
		row++
	}

	row += 2 // Spacer

	// Section B: Per-source results
	headersB := []string{"No", "Source", "Sheet Used", "Header Row", "Records", "Warnings", "Errors"}
	e.writeRow(f, sheet, row, headersB, s.HeaderStyle)
	row++

	for i, src := range report.Sources {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), src.Path)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), src.SheetUsed)
		if src.HeaderRow > 0 {
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), src.HeaderRow)
		}
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), src.Records)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), len(src.Warnings))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), strings.Join(src.Errors, "; "))

		style := s.DefaultStyle
		if len(src.Errors) > 0 {
			style = s.ExcludedStyle
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), style)
		row++
	}

	// Adjust column widths
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 45)
	f.SetColWidth(sheet, "C", "C", 25)
	f.SetColWidth(sheet, "G", "G", 50)

	return nil
}

// --- Projects Sheet Logic ---

func (e *ExcelExporter) writeProjects(f *excelize.File, s *Styler, records []model.ProjectRecord) error {
	sheet := projectsSheet
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	e.writeRow(f, sheet, 1, projectHeaders, s.HeaderStyle)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	lastCol, _ := excelize.ColumnNumberToName(len(projectHeaders))

	// Use Shared Sorter Logic
	mainStream, excludedStream := common.SortRecords(records)

	row := 2
	for _, group := range mainStream {
		for i := range group.Records {
			if !isExportable(&group.Records[i]) {
				continue
			}
			e.writeRecordRow(f, sheet, row, &group.Records[i], s)
			row++
		}
	}

	// Separator & informational sections
	if len(excludedStream) > 0 {
		if len(mainStream) > 0 {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Not counted in totals")
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), s.SectionStyle)
			row++
		}
		for _, group := range excludedStream {
			for i := range group.Records {
				if !isExportable(&group.Records[i]) {
					continue
				}
				e.writeRecordRow(f, sheet, row, &group.Records[i], s)
				row++
			}
		}
	}

	if row > 2 {
		f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", lastCol, row-1), nil)
	}

	f.SetColWidth(sheet, "A", "B", 18) // Category / Section
	f.SetColWidth(sheet, "E", "E", 40) // Project Name
	f.SetColWidth(sheet, "F", "H", 18) // SPV / Type / Location
	f.SetColWidth(sheet, "I", "J", 14) // Capacity / Status
	f.SetColWidth(sheet, "AC", "AC", 20)

	return nil
}

func (e *ExcelExporter) writeRecordRow(f *excelize.File, sheet string, row int, rec *model.ProjectRecord, s *Styler) {
	values := []interface{}{
		rec.Category,
		rec.Section,
		yesNo(rec.IncludedInTotal),
		rec.SNo,
		rec.ProjectName,
		rec.SPV,
		rec.ProjectType,
		rec.PlotLocation,
		rec.Capacity,
		string(rec.PlanActual),
	}
	for _, m := range rec.Months() {
		values = append(values, m)
	}
	values = append(values,
		rec.TotalCapacity, rec.CummTillPeriod,
		rec.Q1, rec.Q2, rec.Q3, rec.Q4,
		rec.SourceSheet,
	)
	if rec.SourceRow > 0 {
		values = append(values, rec.SourceRow)
	} else {
		values = append(values, nil)
	}

	for i, val := range values {
		if !hasValue(val) {
			continue // null stays blank, zero is written
		}
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		switch v := val.(type) {
		case *float64:
			f.SetCellFloat(sheet, cell, *v, -1, 64)
		default:
			f.SetCellValue(sheet, cell, v)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(projectHeaders))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), s.RecordStyle(rec))
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []string, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

// hasValue reports whether a cell should be written
func hasValue(val interface{}) bool {
	switch v := val.(type) {
	case nil:
		return false
	case *float64:
		return v != nil
	case string:
		return v != ""
	default:
		return true
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// isExportable determines if a record should be included in the report
func isExportable(rec *model.ProjectRecord) bool {
	// Records always carry a name; guard against hand-built reports
	return !utils.IsNoise(rec.ProjectName)
}
