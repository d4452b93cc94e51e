package workbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T, build func(f *excelize.File)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	build(f)

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save fixture: %v", err)
	}
	return path
}

func TestReadXLSXCellKinds(t *testing.T) {
	path := writeFixture(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Project Name")
		f.SetCellValue("Sheet1", "B1", 150.5)
		f.SetCellValue("Sheet1", "C1", time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))
		f.SetCellValue("Sheet1", "D1", 45748)
		f.SetCellValue("Sheet1", "E1", "   ")

		style, err := f.NewStyle(&excelize.Style{NumFmt: 17})
		if err != nil {
			t.Fatal(err)
		}
		f.SetCellValue("Sheet1", "F1", 45778)
		f.SetCellStyle("Sheet1", "F1", "F1", style)
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(wb.Sheets) != 1 || wb.Sheets[0].Name != "Sheet1" {
		t.Fatalf("unexpected sheets: %v", wb.SheetNames())
	}

	row := wb.Sheets[0].Rows[0]
	tests := []struct {
		col  int
		kind CellKind
	}{
		{0, CellText},
		{1, CellNumber},
		{2, CellDate},
		{3, CellNumber},
		{4, CellEmpty},
		{5, CellDate},
	}
	for _, tt := range tests {
		if got := row.At(tt.col).Kind; got != tt.kind {
			t.Errorf("column %d: expected kind %d, got %d (%q)", tt.col, tt.kind, got, row.At(tt.col).String())
		}
	}

	if row.At(2).Date.Month() != time.April {
		t.Errorf("expected April date, got %v", row.At(2).Date)
	}
	if row.At(5).Date.Month() != time.May {
		t.Errorf("expected May date from styled serial, got %v", row.At(5).Date)
	}
	if row.At(3).Number != 45748 {
		t.Errorf("expected raw serial to stay numeric, got %v", row.At(3).Number)
	}
}

func TestReadCSV(t *testing.T) {
	t.Run("utf8 with BOM", func(t *testing.T) {
		input := "\xef\xbb\xbfS.No,Project Name,Capacity\n1,Khavda Solar,\"1,250\"\n"
		wb, err := ReadCSV(strings.NewReader(input), "plan.csv")
		if err != nil {
			t.Fatalf("ReadCSV failed: %v", err)
		}
		if len(wb.Sheets) != 1 || wb.Sheets[0].Name != CSVSheetName {
			t.Fatalf("expected single %q sheet, got %v", CSVSheetName, wb.SheetNames())
		}
		rows := wb.Sheets[0].Rows
		if rows[0].At(0).Text != "S.No" {
			t.Errorf("BOM not stripped: %q", rows[0].At(0).Text)
		}
		if rows[1].At(0).Kind != CellNumber {
			t.Errorf("expected numeric S.No cell")
		}
		if rows[1].At(2).Kind != CellText {
			t.Errorf("expected thousands-separated value to stay text")
		}
	})

	t.Run("windows-1252", func(t *testing.T) {
		input := []byte("Project,Location\nCaf\xe9 Park,R\xe9gion\n")
		wb, err := ReadCSV(strings.NewReader(string(input)), "legacy.csv")
		if err != nil {
			t.Fatalf("ReadCSV failed: %v", err)
		}
		if got := wb.Sheets[0].Rows[1].At(0).Text; got != "Café Park" {
			t.Errorf("expected decoded text, got %q", got)
		}
	})

	t.Run("placeholder tokens stay text", func(t *testing.T) {
		wb, err := ReadCSV(strings.NewReader("nan,Inf,12\n"), "x.csv")
		if err != nil {
			t.Fatal(err)
		}
		row := wb.Sheets[0].Rows[0]
		if row.At(0).Kind != CellText || row.At(1).Kind != CellText || row.At(2).Kind != CellNumber {
			t.Errorf("unexpected kinds: %v %v %v", row.At(0).Kind, row.At(1).Kind, row.At(2).Kind)
		}
	})
}

func TestReadUnsupported(t *testing.T) {
	if _, err := Read(strings.NewReader(""), "notes.txt"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	mustWrite := func(rel string) {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	mustWrite("fy26/summary.xlsx")
	mustWrite("fy26/~$summary.xlsx")
	mustWrite("fy26/notes.txt")
	mustWrite("legacy.csv")
	mustWrite("archive/old.xlsx")

	exclude := func(rel string) bool { return strings.HasPrefix(rel, "archive") }
	files, err := ScanDirectory(root, exclude)
	if err != nil {
		t.Fatalf("ScanDirectory failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
	for _, f := range files {
		if strings.Contains(f, "archive") || strings.Contains(f, "~$") {
			t.Errorf("unexpected file in scan: %s", f)
		}
	}
}

func TestRowJoin(t *testing.T) {
	row := Row{TextCell("A."), Cell{}, TextCell("Khavda"), NumberCell(2), TextCell("Solar"), TextCell("tail")}
	if got := row.Join(5); got != "A. Khavda 2 Solar" {
		t.Errorf("unexpected join: %q", got)
	}
	if got := row.Join(0); got != "A. Khavda 2 Solar tail" {
		t.Errorf("unexpected full join: %q", got)
	}
	if !(Row{Cell{}, TextCell(" ")}).IsBlank() {
		t.Error("expected blank row")
	}
}
