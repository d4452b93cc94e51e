package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// builtInDateFormats are the excelize number format IDs that render as dates
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// ReadXLSX reads every sheet of an xlsx/xlsm stream into typed cells
func ReadXLSX(r io.Reader, name string) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to open workbook %s: %w", name, err)
	}
	defer f.Close()

	wb := Workbook{Name: name}
	dates := &dateStyles{file: f, cache: make(map[int]bool)}

	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return Workbook{}, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}

		sheet := Sheet{Name: sheetName, Rows: make([]Row, 0, len(rows))}
		for rowIdx, raw := range rows {
			row := make(Row, len(raw))
			for colIdx, value := range raw {
				if strings.TrimSpace(value) == "" {
					continue
				}
				ref, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					return Workbook{}, err
				}
				row[colIdx] = typedCell(f, dates, sheetName, ref, value)
			}
			sheet.Rows = append(sheet.Rows, row)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}

// typedCell converts a raw cell value into the tagged variant using the
// stored cell type and, for numbers, the applied number format
func typedCell(f *excelize.File, dates *dateStyles, sheet, ref, value string) Cell {
	cellType, err := f.GetCellType(sheet, ref)
	if err != nil {
		return TextCell(value)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula,
		excelize.CellTypeBool, excelize.CellTypeError:
		return TextCell(value)
	case excelize.CellTypeDate:
		if t, ok := parseISODate(value); ok {
			return DateCell(t)
		}
		return TextCell(value)
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return TextCell(value)
	}

	if dates.isDate(sheet, ref) {
		if t, err := excelize.ExcelDateToTime(n, false); err == nil {
			return DateCell(t)
		}
	}
	return NumberCell(n)
}

func parseISODate(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateStyles memoises whether a style ID formats numbers as dates
type dateStyles struct {
	file  *excelize.File
	cache map[int]bool
}

func (d *dateStyles) isDate(sheet, ref string) bool {
	styleID, err := d.file.GetCellStyle(sheet, ref)
	if err != nil || styleID == 0 {
		return false
	}
	if v, ok := d.cache[styleID]; ok {
		return v
	}

	isDate := false
	if style, err := d.file.GetStyle(styleID); err == nil && style != nil {
		isDate = builtInDateFormats[style.NumFmt]
		if !isDate && style.CustomNumFmt != nil {
			isDate = IsDateLayout(*style.CustomNumFmt)
		}
	}
	d.cache[styleID] = isDate
	return isDate
}

// IsDateLayout reports whether a custom number format renders a date.
// Quoted literals and bracketed sections (colours, locales) are ignored.
func IsDateLayout(format string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	clean := b.String()
	return strings.ContainsAny(clean, "yd") || strings.Contains(clean, "mmm")
}
