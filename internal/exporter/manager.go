package exporter

import (
	"strings"

	"capacity-recon/internal/exporter/jsonreport"
	"capacity-recon/internal/exporter/word"
)

// GetExporters returns a list of Exporters based on requested formats.
// Unknown formats are ignored; the caller decides what an empty list means.
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = normalizeFormat(fmtStr)
		if fmtStr == "" || seen[fmtStr] {
			continue
		}
		seen[fmtStr] = true

		switch fmtStr {
		case "excel":
			exporters = append(exporters, NewExcelExporter())
		case "word":
			exporters = append(exporters, word.NewWordExporter())
		case "json":
			exporters = append(exporters, jsonreport.NewJSONExporter())
		}
	}

	return exporters
}

// normalizeFormat folds format aliases so "xlsx" and "excel" are not exported twice
func normalizeFormat(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "excel", "xlsx":
		return "excel"
	case "word", "docx":
		return "word"
	case "json":
		return "json"
	default:
		return ""
	}
}
