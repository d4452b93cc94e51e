package jsonreport

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"capacity-recon/internal/config"
	"capacity-recon/internal/model"
)

// JSONExporter writes the import report in the same shape the upload API returns
type JSONExporter struct{}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export writes <file_name>.json into the output directory
func (b *JSONExporter) Export(report *model.Report, cfg *config.Config) error {
	outputFile := cfg.GetOutputPath(".json")

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputFile, err)
	}
	defer file.Close()

	if err := Write(file, report); err != nil {
		return err
	}
	return file.Close()
}

// Write encodes the report with stable indentation. Projects is never null.
func Write(w io.Writer, report *model.Report) error {
	out := *report
	if out.Projects == nil {
		out.Projects = []model.ProjectRecord{}
	}
	if out.Sources == nil {
		out.Sources = []model.SourceSummary{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&out); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
