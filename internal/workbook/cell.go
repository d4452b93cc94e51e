package workbook

import (
	"strconv"
	"strings"
	"time"
)

// CellKind tags the variant held by a Cell
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is a single worksheet value. Exactly one of Text, Number or Date is
// meaningful, selected by Kind.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

// Row is an ordered list of cells; it may be shorter than the header
type Row []Cell

// Sheet is one named worksheet
type Sheet struct {
	Name string
	Rows []Row
}

// Workbook is an ordered list of sheets read from one file
type Workbook struct {
	Name   string
	Sheets []Sheet
}

// SheetNames returns the sheet names in workbook order
func (w Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Sheet looks a sheet up by exact name
func (w Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// TextCell builds a text cell; whitespace-only input becomes empty
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell builds a numeric cell
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// DateCell builds a date cell
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellDate, Date: t}
}

// IsEmpty reports whether the cell carries no value
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String returns the textual form of the cell used for matching
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Date.Format("2006-01-02")
	default:
		return ""
	}
}

// At returns the cell at index i, or an empty cell when the row is short
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// IsBlank reports whether every cell in the row is empty
func (r Row) IsBlank() bool {
	for _, c := range r {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Join concatenates the textual form of the first n cells (all when n <= 0)
// with single spaces, skipping empty cells
func (r Row) Join(n int) string {
	if n <= 0 || n > len(r) {
		n = len(r)
	}
	parts := make([]string, 0, n)
	for _, c := range r[:n] {
		if s := c.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
