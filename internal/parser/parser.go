// Package parser extracts commissioning records from a summary worksheet.
//
// Extraction runs in fixed stages: pick the sheet, locate the header row,
// map header cells to fields, then fold the remaining rows left to right
// carrying the current section banner and the current project identity.
package parser

import (
	"fmt"
	"io"
	"path/filepath"

	"capacity-recon/internal/logger"
	"capacity-recon/internal/model"
	"capacity-recon/internal/workbook"
)

// Parse extracts records from an already-read workbook. Fatal conditions are
// reported through the result's Errors, never as a panic.
func Parse(wb workbook.Workbook) *model.ParseResult {
	names := wb.SheetNames()

	sheetName, ok := SelectSheet(names)
	if !ok {
		return model.NewFailedResult(names, &ParseError{File: wb.Name, Err: ErrNoSheets})
	}
	sheet, _ := wb.Sheet(sheetName)

	result := &model.ParseResult{
		Projects:    []model.ProjectRecord{},
		Errors:      []string{},
		SheetsFound: names,
		SheetUsed:   sheetName,
	}

	headerIdx, ok := LocateHeader(sheet.Rows)
	if !ok {
		result.Fail(&ParseError{File: wb.Name, Sheet: sheetName, Err: ErrHeaderNotFound})
		return result
	}
	result.HeaderRow = headerIdx + 1

	log := logger.ForSheet(wb.Name, sheetName)

	columns := MapColumns(sheet.Rows[headerIdx])
	for _, c := range columns.Conflicts {
		result.Warnings = append(result.Warnings, c.String())
		log.Warn("%s", c)
	}
	log.Debug("header at row %d, %d columns mapped", headerIdx+1, columns.Len())

	records, stats := Extract(sheet, headerIdx, columns)
	log.Debug("%d rows, %d banners, %d skipped, %d orphan, %d without status, %d before any section, %d records",
		stats.Rows, stats.Banners, stats.Skipped, stats.Orphans, stats.NoStatus, stats.Unsectioned, stats.Records)

	if len(records) == 0 {
		result.Fail(&ParseError{File: wb.Name, Sheet: sheetName, Err: ErrNoRecords})
		return result
	}

	result.Projects = records
	return result
}

// ParseFile reads and extracts a workbook from disk. The returned error is
// set only when the file could not be read; the result always describes the
// failure as well.
func ParseFile(path string) (*model.ParseResult, error) {
	wb, err := workbook.Open(path)
	if err != nil {
		logger.LogSourceError(path, err, "read")
		return model.NewFailedResult(nil, fmt.Errorf("failed to process file: %w", err)), err
	}
	return Parse(wb), nil
}

// ParseReader extracts a workbook from a stream; name selects the format
func ParseReader(r io.Reader, name string) (*model.ParseResult, error) {
	wb, err := workbook.Read(r, filepath.Base(name))
	if err != nil {
		logger.LogSourceError(name, err, "read")
		return model.NewFailedResult(nil, fmt.Errorf("failed to process file: %w", err)), err
	}
	return Parse(wb), nil
}
