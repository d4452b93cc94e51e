package e2e

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"capacity-recon/internal/config"
	"capacity-recon/internal/dedup"
	"capacity-recon/internal/exporter"
	"capacity-recon/internal/model"
	"capacity-recon/internal/parser"
	"capacity-recon/internal/store"
	"capacity-recon/internal/workbook"

	"github.com/xuri/excelize/v2"
)

// writeSummaryWorkbook writes a two-section summary sheet behind a cover sheet
func writeSummaryWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Cover")
	f.SetCellValue("Cover", "A1", "Commissioning Plan FY 25-26")

	sheet := "Solar Summary Linked"
	f.NewSheet(sheet)
	rows := [][]interface{}{
		{"Commissioning Status"},
		{"S.No", "Project Name", "SPV", "Type", "Plot No", "Capacity (MW)", "Plan / Actual", "Apr-25", "May-25", "Jun-25", "Total Capacity", "Q1"},
		{nil, "A. Khavda Solar Projects"},
		{1, "Khavda Phase 1", "AGE25A", "Solar", "P-01", 250, "Plan", 50, 0, 100, 150, 150},
		{nil, nil, nil, nil, nil, nil, "Rephase", 40, 10},
		{nil, nil, nil, nil, nil, nil, "Actual / Fcst", 45},
		{nil, "Subtotal Section A", nil, nil, nil, nil, nil, 135},
		{nil, "D1. Khavda Solar Projects (Additional)"},
		{2, "Khavda Phase 9", "AGE25B", "Solar", "P-09", 100, "Plan", nil, nil, 30},
		{nil, "nan", nil, nil, nil, nil, "Actual", nil, nil, 10},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save %s: %v", path, err)
	}
}

func TestEndToEndFlow(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(inputDir, "fy26", "archive"), 0755); err != nil {
		t.Fatal(err)
	}
	writeSummaryWorkbook(t, filepath.Join(inputDir, "fy26", "solar.xlsx"))
	// Same workbook twice: every record is a duplicate of the first copy
	writeSummaryWorkbook(t, filepath.Join(inputDir, "fy26", "solar-copy.xlsx"))
	writeSummaryWorkbook(t, filepath.Join(inputDir, "fy26", "archive", "old.xlsx"))
	if err := os.WriteFile(filepath.Join(inputDir, "fy26", "notes.csv"), []byte("just,some,notes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// 1. Configure
	cfg := &config.Config{
		Input: config.InputConfig{
			RootDir:     inputDir,
			ExcludeDirs: []string{"**/archive/**"},
		},
		Import: config.ImportConfig{FiscalYear: "FY_25-26", Workers: 2},
		Output: config.OutputConfig{
			Dir:      outputDir,
			FileName: "e2e_report",
			Formats:  []string{"excel", "json", "word"},
		},
	}

	// 2. Scan & Parse
	files, err := workbook.ScanDirectory(cfg.Input.RootDir, cfg.ShouldExclude)
	if err != nil {
		t.Fatalf("Scanning failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 files (archive excluded), got %d: %v", len(files), files)
	}

	var results []*model.ParseResult
	var sources []model.SourceSummary
	for _, path := range files {
		res, _ := parser.ParseFile(path)
		results = append(results, res)
		sources = append(sources, model.SourceSummary{
			Path: path, SheetUsed: res.SheetUsed, HeaderRow: res.HeaderRow,
			Records: len(res.Projects), Errors: res.Errors, Warnings: res.Warnings,
		})

		if filepath.Ext(path) == ".csv" {
			if !res.Failed() {
				t.Errorf("Expected notes.csv to fail, got %d records", len(res.Projects))
			}
			continue
		}
		if res.Failed() {
			t.Fatalf("%s failed: %v", path, res.Errors)
		}
		if res.SheetUsed != "Solar Summary Linked" || res.HeaderRow != 2 {
			t.Errorf("%s: unexpected sheet %q / header row %d", path, res.SheetUsed, res.HeaderRow)
		}
		if len(res.Projects) != 5 {
			t.Errorf("%s: expected 5 records, got %d", path, len(res.Projects))
		}
	}

	// 3. Merge
	merged := dedup.MergeResults(results)
	if merged.Stats.Records != 5 || merged.Stats.Duplicates != 5 {
		t.Fatalf("Unexpected merge stats: %+v", merged.Stats)
	}

	excluded := 0
	for _, rec := range merged.Records {
		if !rec.IncludedInTotal {
			excluded++
			if rec.ProjectName != "Khavda Phase 9" || rec.Section != "D1" {
				t.Errorf("Unexpected excluded record: %+v", rec)
			}
		}
	}
	if excluded != 2 {
		t.Errorf("Expected 2 records outside totals, got %d", excluded)
	}

	// 4. Store
	st := store.NewMemoryStore()
	summary, err := st.ReplaceFiscalYear(context.Background(), cfg.Import.FiscalYear, merged.Records)
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if summary.Inserted != 5 {
		t.Errorf("Expected 5 inserted, got %d", summary.Inserted)
	}

	// 5. Export
	report := &model.Report{
		BatchID:     "e2e",
		FiscalYear:  cfg.Import.FiscalYear,
		GeneratedAt: time.Now(),
		Sources:     sources,
		Projects:    merged.Records,
		Stats:       merged.Stats,
		Options:     store.DeriveOptions(cfg.Import.FiscalYear, merged.Records),
	}

	for _, exp := range exporter.GetExporters(cfg.Output.Formats) {
		if err := exp.Export(report, cfg); err != nil {
			t.Errorf("Export failed: %v", err)
		}
	}

	// 6. Verify Outputs
	for _, ext := range []string{".xlsx", ".json", ".docx"} {
		path := cfg.GetOutputPath(ext)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Expected output file missing: %s", path)
		} else {
			t.Logf("✅ Verified output: %s", filepath.Base(path))
		}
	}

	data, err := os.ReadFile(cfg.GetOutputPath(".json"))
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Invalid JSON report: %v", err)
	}
	if len(decoded.Projects) != 5 || decoded.FailedSources() != 1 {
		t.Errorf("Unexpected JSON report: %d projects, %d failed sources", len(decoded.Projects), decoded.FailedSources())
	}

	f, err := excelize.OpenFile(cfg.GetOutputPath(".xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows("Projects")
	if err != nil {
		t.Fatal(err)
	}
	// Header, 3 counted rows, separator, 2 excluded rows
	if len(rows) != 7 {
		t.Errorf("Expected 7 rows in Projects sheet, got %d", len(rows))
	}
}
