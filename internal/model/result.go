package model

import (
	"errors"
	"time"
)

// ParseResult is the outcome of extracting one workbook
type ParseResult struct {
	Projects    []ProjectRecord `json:"projects"`
	Errors      []string        `json:"errors"`
	Warnings    []string        `json:"warnings,omitempty"`
	SheetsFound []string        `json:"sheets_found"`
	SheetUsed   string          `json:"sheet_used,omitempty"`
	HeaderRow   int             `json:"header_row,omitempty"` // 1-based, 0 when not located

	fatal error
}

// NewFailedResult builds a result carrying a single fatal error
func NewFailedResult(sheets []string, err error) *ParseResult {
	if sheets == nil {
		sheets = []string{}
	}
	r := &ParseResult{
		Projects:    []ProjectRecord{},
		SheetsFound: sheets,
	}
	r.Fail(err)
	return r
}

// Fail marks the result as failed, dropping any records collected so far
func (r *ParseResult) Fail(err error) {
	r.fatal = err
	r.Projects = []ProjectRecord{}
	r.Errors = []string{err.Error()}
}

// Failed reports whether extraction produced a fatal error
func (r *ParseResult) Failed() bool {
	return len(r.Errors) > 0
}

// Err returns the fatal error, if any
func (r *ParseResult) Err() error {
	if r.fatal != nil {
		return r.fatal
	}
	if len(r.Errors) > 0 {
		return errors.New(r.Errors[0])
	}
	return nil
}

// SourceSummary records what happened to one input workbook
type SourceSummary struct {
	Path      string   `json:"path"`
	SheetUsed string   `json:"sheet_used"`
	HeaderRow int      `json:"header_row"`
	Records   int      `json:"records"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// Stats counts the vocabulary observed in a merged record set
type Stats struct {
	Projects   int `json:"projects"`
	Records    int `json:"records"`
	Duplicates int `json:"duplicates_dropped"`
	Categories int `json:"categories"`
	Types      int `json:"types"`
	SPVs       int `json:"spvs"`
	Sections   int `json:"sections"`
}

// DropdownOption is one selectable value derived from imported records
type DropdownOption struct {
	OptionType  string `json:"option_type" db:"option_type"`
	OptionValue string `json:"option_value" db:"option_value"`
	FiscalYear  string `json:"fiscal_year" db:"fiscal_year"`
}

// Report is the input handed to exporters after an import run
type Report struct {
	BatchID     string           `json:"batch_id"`
	FiscalYear  string           `json:"fiscal_year"`
	GeneratedAt time.Time        `json:"generated_at"`
	Sources     []SourceSummary  `json:"sources"`
	Projects    []ProjectRecord  `json:"projects"`
	Stats       Stats            `json:"stats"`
	Options     []DropdownOption `json:"options,omitempty"`
}

// FailedSources returns the number of sources that produced no records
func (r *Report) FailedSources() int {
	n := 0
	for _, s := range r.Sources {
		if len(s.Errors) > 0 {
			n++
		}
	}
	return n
}
