package exporter

import (
	"os"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExcelExport(t *testing.T) {
	cfg := testConfig(t.TempDir())
	report := sampleReport()

	exporter := NewExcelExporter()
	if err := exporter.Export(report, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	outputFile := cfg.GetOutputPath(".xlsx")
	if _, err := os.Stat(outputFile); os.IsNotExist(err) {
		t.Fatal("Output file was not created")
	}

	f, err := excelize.OpenFile(outputFile)
	if err != nil {
		t.Fatalf("Failed to open generated Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != overviewSheet || sheets[1] != projectsSheet {
		t.Fatalf("Unexpected sheets: %v", sheets)
	}

	t.Run("overview", func(t *testing.T) {
		rows, err := f.GetRows(overviewSheet)
		if err != nil {
			t.Fatal(err)
		}
		found := map[string]string{}
		for _, row := range rows {
			if len(row) >= 2 {
				found[row[0]] = row[1]
			}
		}
		if found["Batch ID"] != "batch-1" || found["Fiscal Year"] != "FY_25-26" {
			t.Errorf("Missing batch metrics: %v", found)
		}
		if found["Failed Sources"] != "1" || found["Duplicates Dropped"] != "1" {
			t.Errorf("Unexpected counts: %v", found)
		}
	})

	t.Run("projects order and blanks", func(t *testing.T) {
		rows, err := f.GetRows(projectsSheet)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 5 {
			t.Fatalf("Expected header, 2 counted rows, separator and 1 excluded row; got %d rows", len(rows))
		}
		if rows[0][4] != "Project Name" {
			t.Errorf("Unexpected header row: %v", rows[0])
		}

		// Counted sections come first, excluded ones after the separator
		if rows[1][4] != "Khavda Phase 1" || rows[1][9] != "Plan" {
			t.Errorf("Unexpected first record: %v", rows[1])
		}
		if rows[3][0] != "Not counted in totals" {
			t.Errorf("Expected separator row, got %v", rows[3])
		}
		if rows[4][4] != "Kutch Wind Extension" || rows[4][2] != "No" {
			t.Errorf("Unexpected excluded record: %v", rows[4])
		}

		// Zero is written, null stays blank
		apr, _ := f.GetCellValue(projectsSheet, "K2")
		if apr == "" {
			t.Error("Expected zero month value to be written")
		}
		aprActual, _ := f.GetCellValue(projectsSheet, "K3")
		if aprActual != "" {
			t.Errorf("Expected blank month for null value, got %q", aprActual)
		}
	})

	t.Run("frozen header", func(t *testing.T) {
		panes, err := f.GetPanes(projectsSheet)
		if err != nil {
			t.Fatal(err)
		}
		if !panes.Freeze || panes.YSplit != 1 {
			t.Errorf("Expected frozen header row, got %+v", panes)
		}
	})
}

func TestExcelExportEmptyReport(t *testing.T) {
	cfg := testConfig(t.TempDir())
	report := sampleReport()
	report.Projects = nil

	if err := NewExcelExporter().Export(report, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, err := excelize.OpenFile(cfg.GetOutputPath(".xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, _ := f.GetRows(projectsSheet)
	if len(rows) != 1 {
		t.Errorf("Expected header only, got %d rows", len(rows))
	}
}
