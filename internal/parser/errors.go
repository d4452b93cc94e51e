package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSheets is returned when a workbook contains no worksheets
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrHeaderNotFound is returned when no row qualifies as the header
	ErrHeaderNotFound = errors.New("header row not found")

	// ErrNoRecords is returned when the sheet yields zero project records
	ErrNoRecords = errors.New("no projects identified in summary sheet")
)

// ParseError carries the file and sheet a fatal condition was raised for
type ParseError struct {
	File  string
	Sheet string
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Sheet != "" && e.File != "":
		return fmt.Sprintf("%s [%s]: %v", e.File, e.Sheet, e.Err)
	case e.Sheet != "":
		return fmt.Sprintf("sheet %q: %v", e.Sheet, e.Err)
	case e.File != "":
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
