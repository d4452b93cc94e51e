package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"capacity-recon/internal/ui"
)

func TestParseAllKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "mundra.csv")
	content := "S.No,Project Name,SPV,Capacity (MW),Plan/Actual,Apr-25\n" +
		",C. Mundra Wind,,,,\n" +
		"1,Mundra Wind 76,AGE31,76,Plan,10\n"
	if err := os.WriteFile(good, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cover := filepath.Join(dir, "cover.csv")
	if err := os.WriteFile(cover, []byte("Cover page only\n"), 0644); err != nil {
		t.Fatal(err)
	}
	files := []string{cover, good, filepath.Join(dir, "missing.xlsx"), good}

	pipeline := ui.NewPipelineWithOutput(ui.ImportPhases, io.Discard)
	pipeline.NextPhase(1)
	bar := pipeline.NextPhase(len(files))

	results := parseAll(files, 2, bar)

	if len(results) != len(files) {
		t.Fatalf("expected %d results, got %d", len(files), len(results))
	}
	expectFailed := []bool{true, false, true, false}
	for i, res := range results {
		if res == nil {
			t.Fatalf("result %d is nil", i)
		}
		if res.Failed() != expectFailed[i] {
			t.Errorf("%s: Failed() = %v, expected %v (%v)", filepath.Base(files[i]), res.Failed(), expectFailed[i], res.Errors)
		}
	}
	if len(results[1].Projects) != 1 || results[1].Projects[0].ProjectName != "Mundra Wind 76" {
		t.Errorf("unexpected records for %s: %+v", files[1], results[1].Projects)
	}
	if bar.Failures() != 2 {
		t.Errorf("expected 2 failures on the progress bar, got %d", bar.Failures())
	}
}
