package word

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"capacity-recon/internal/config"
	"capacity-recon/internal/model"

	"github.com/nguyenthenguyen/docx"
)

//go:embed template.docx
var templateFS embed.FS

// Placeholders understood by the embedded template
const (
	PlaceholderDate       = "{{Date}}"
	PlaceholderFiscalYear = "{{FiscalYear}}"
	PlaceholderBatchID    = "{{BatchID}}"
	PlaceholderSources    = "{{TotalSources}}"
	PlaceholderRecords    = "{{TotalRecords}}"
	PlaceholderContent    = "{{Content}}"
)

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

// Export writes an import audit document: one block per source workbook with
// the sheet and header row used, record counts, warnings and errors
func (e *WordExporter) Export(report *model.Report, cfg *config.Config) error {
	// 1. Extract embedded template to temp file
	templateBytes, err := templateFS.ReadFile("template.docx")
	if err != nil {
		return fmt.Errorf("failed to read embedded template: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "capacity-recon-template-*.docx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(templateBytes); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write template to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	r, err := docx.ReadDocxFile(tmpFile.Name())
	if err != nil {
		return fmt.Errorf("failed to read docx from temp file: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	// 2. Replace Summary Placeholders
	replacements := []struct{ key, val string }{
		{PlaceholderDate, report.GeneratedAt.Format("2006-01-02 15:04")},
		{PlaceholderFiscalYear, report.FiscalYear},
		{PlaceholderBatchID, report.BatchID},
		{PlaceholderSources, fmt.Sprintf("%d", len(report.Sources))},
		{PlaceholderRecords, fmt.Sprintf("%d", report.Stats.Records)},
		{PlaceholderContent, BuildAuditText(report)},
	}
	for _, rep := range replacements {
		if err := doc.Replace(rep.key, rep.val, -1); err != nil {
			return fmt.Errorf("failed to replace %s: %w", rep.key, err)
		}
	}

	outFile := cfg.GetOutputPath(".docx")
	if err := doc.WriteToFile(outFile); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}

	return nil
}

// BuildAuditText renders the per-source audit as plain text
// (the docx library handles the XML encoding)
func BuildAuditText(report *model.Report) string {
	var sb strings.Builder

	sb.WriteString("IMPORT AUDIT\n\n")
	sb.WriteString("Summary Overview:\n")
	sb.WriteString(fmt.Sprintf("  • Sources: %d (%d failed)\n", len(report.Sources), report.FailedSources()))
	sb.WriteString(fmt.Sprintf("  • Records extracted: %d\n", report.Stats.Records+report.Stats.Duplicates))
	sb.WriteString(fmt.Sprintf("  • Records kept: %d\n", report.Stats.Records))
	sb.WriteString(fmt.Sprintf("  • Projects: %d\n", report.Stats.Projects))
	sb.WriteString(fmt.Sprintf("  • Duplicates dropped: %d\n\n", report.Stats.Duplicates))
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	for i, src := range report.Sources {
		buildSourceText(&sb, &src)

		if i < len(report.Sources)-1 {
			sb.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
	}

	return sb.String()
}

// buildSourceText writes the audit block of one source workbook
func buildSourceText(sb *strings.Builder, src *model.SourceSummary) {
	sb.WriteString(fmt.Sprintf("[%s] %s\n", sourceStatus(src), src.Path))

	if src.SheetUsed != "" {
		sb.WriteString(fmt.Sprintf("Sheet: %s\n", src.SheetUsed))
	}
	if src.HeaderRow > 0 {
		sb.WriteString(fmt.Sprintf("Header row: %d\n", src.HeaderRow))
	}
	sb.WriteString(fmt.Sprintf("Records: %d\n", src.Records))

	if len(src.Warnings) > 0 {
		sb.WriteString("\nWARNINGS:\n")
		for _, w := range src.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", truncate(w, 200)))
		}
	}

	if len(src.Errors) > 0 {
		sb.WriteString("\nERRORS:\n")
		for _, e := range src.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", truncate(e, 200)))
		}
	}
}

func sourceStatus(src *model.SourceSummary) string {
	switch {
	case len(src.Errors) > 0:
		return "FAILED"
	case len(src.Warnings) > 0:
		return "WARN"
	default:
		return "OK"
	}
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
