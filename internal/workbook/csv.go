package workbook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVSheetName is the sheet name given to the single sheet of a CSV input
const CSVSheetName = "Summary Linked"

// ReadCSV reads a CSV stream as a one-sheet workbook. UTF-8 (with or without
// BOM) is used when valid, Windows-1252 otherwise.
func ReadCSV(r io.Reader, name string) (Workbook, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to read %s: %w", name, err)
	}

	text, err := decodeText(raw)
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to decode %s: %w", name, err)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return Workbook{}, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	sheet := Sheet{Name: CSVSheetName, Rows: make([]Row, 0, len(records))}
	for _, record := range records {
		row := make(Row, len(record))
		for i, value := range record {
			row[i] = csvCell(value)
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return Workbook{Name: name, Sheets: []Sheet{sheet}}, nil
}

func decodeText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		if err != nil {
			return "", err
		}
		return string(decoded), nil
	}

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return string(raw), err
	}
	return string(bytes.ToValidUTF8(decoded, []byte("�"))), nil
}

// csvCell keeps plain numbers numeric so header serials and capacities
// behave the same as in xlsx input; everything else stays text
func csvCell(value string) Cell {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Cell{}
	}
	if isPlainNumber(trimmed) {
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return NumberCell(n)
		}
	}
	return TextCell(value)
}

// isPlainNumber rejects forms ParseFloat accepts but a spreadsheet would
// show as text, such as "NaN", "Inf" or hex literals
func isPlainNumber(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return false
		}
	}
	return true
}
