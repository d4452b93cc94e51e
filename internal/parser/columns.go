package parser

import (
	"fmt"
	"regexp"
	"strings"

	"capacity-recon/internal/model"
	"capacity-recon/internal/workbook"

	"github.com/xuri/excelize/v2"
)

// Field is a canonical column name
type Field string

const (
	FieldSNo            Field = "sno"
	FieldProjectName    Field = "projectName"
	FieldSPV            Field = "spv"
	FieldProjectType    Field = "projectType"
	FieldPlotLocation   Field = "plotLocation"
	FieldCapacity       Field = "capacity"
	FieldPlanActual     Field = "planActual"
	FieldTotalCapacity  Field = "totalCapacity"
	FieldCummTillPeriod Field = "cummTillPeriod"
	FieldQ1             Field = "q1"
	FieldQ2             Field = "q2"
	FieldQ3             Field = "q3"
	FieldQ4             Field = "q4"
)

// MonthField returns the field for a fiscal month position (0 = April)
func MonthField(i int) Field {
	return Field(model.MonthKeys[i])
}

// Excel serials inside this open interval are read as month headers
const (
	minHeaderSerial = 40000
	maxHeaderSerial = 50000
)

var monthToken = regexp.MustCompile(`(?:^|[^a-z])(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t|tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)(?:[^a-z]|$)`)

var calendarMonth = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Conflict records a field claimed by more than one header cell
type Conflict struct {
	Field    Field
	Previous int
	Current  int
}

func (c Conflict) String() string {
	return fmt.Sprintf("column %q mapped twice (column %d replaced by column %d)", c.Field, c.Previous+1, c.Current+1)
}

// ColumnMap maps canonical fields to zero-based column indices
type ColumnMap struct {
	index     map[Field]int
	Conflicts []Conflict
}

// Index returns the column of a field
func (m ColumnMap) Index(f Field) (int, bool) {
	i, ok := m.index[f]
	return i, ok
}

// Has reports whether the field was mapped
func (m ColumnMap) Has(f Field) bool {
	_, ok := m.index[f]
	return ok
}

// Len returns the number of mapped fields
func (m ColumnMap) Len() int {
	return len(m.index)
}

// Cell fetches the cell for a field from a row; unmapped fields are empty
func (m ColumnMap) Cell(row workbook.Row, f Field) workbook.Cell {
	i, ok := m.index[f]
	if !ok {
		return workbook.Cell{}
	}
	return row.At(i)
}

func (m *ColumnMap) set(f Field, col int) {
	if prev, ok := m.index[f]; ok && prev != col {
		m.Conflicts = append(m.Conflicts, Conflict{Field: f, Previous: prev, Current: col})
	}
	m.index[f] = col
}

// fieldRule is one header-text rule; rules are tried in order, first match wins
type fieldRule struct {
	field Field
	match func(text string) bool
}

var fieldRules = []fieldRule{
	{FieldCummTillPeriod, func(t string) bool { return containsAny(t, "cumm", "cumulative") }},
	{FieldSNo, func(t string) bool { return containsAny(t, "s.no", "s. no", "sl no") || t == "priority" }},
	{FieldProjectName, func(t string) bool {
		return (strings.Contains(t, "project") && strings.Contains(t, "name")) || t == "project"
	}},
	{FieldSPV, func(t string) bool { return t == "spv" }},
	{FieldProjectType, func(t string) bool { return t == "type" || t == "project type" }},
	{FieldPlotLocation, func(t string) bool { return containsAny(t, "plot", "location", "pss") }},
	{FieldCapacity, func(t string) bool { return strings.Contains(t, "capacity") && !strings.Contains(t, "total") }},
	{FieldPlanActual, func(t string) bool {
		return strings.Contains(t, "plan") && containsAny(t, "actual", "status")
	}},
	{FieldTotalCapacity, func(t string) bool { return strings.Contains(t, "total") && strings.Contains(t, "capacity") }},
	{FieldQ1, func(t string) bool { return isQuarter(t, "q1") }},
	{FieldQ2, func(t string) bool { return isQuarter(t, "q2") }},
	{FieldQ3, func(t string) bool { return isQuarter(t, "q3") }},
	{FieldQ4, func(t string) bool { return isQuarter(t, "q4") }},
}

// MapColumns builds the column map from the header row. When two cells claim
// the same field the later one wins and a Conflict is recorded.
func MapColumns(header workbook.Row) ColumnMap {
	m := ColumnMap{index: make(map[Field]int)}

	for col, cell := range header {
		switch cell.Kind {
		case workbook.CellEmpty:
			continue
		case workbook.CellDate:
			m.set(MonthField(model.MonthIndex(int(cell.Date.Month()))), col)
			continue
		case workbook.CellNumber:
			if cell.Number > minHeaderSerial && cell.Number < maxHeaderSerial {
				if t, err := excelize.ExcelDateToTime(cell.Number, false); err == nil {
					m.set(MonthField(model.MonthIndex(int(t.Month()))), col)
					continue
				}
			}
		}

		text := normalizeHeader(cell.String())
		if text == "" {
			continue
		}

		if f, ok := matchField(text); ok {
			m.set(f, col)
			continue
		}

		if containsAny(text, "cumm", "cumulative", "total") {
			continue
		}
		if month, ok := textMonth(text); ok {
			m.set(MonthField(model.MonthIndex(month)), col)
		}
	}

	return m
}

func matchField(text string) (Field, bool) {
	for _, rule := range fieldRules {
		if rule.match(text) {
			return rule.field, true
		}
	}
	return "", false
}

// textMonth finds the leftmost standalone month abbreviation in a header
// such as "Apr-25", "Apr 2025" or "APR"
func textMonth(text string) (int, bool) {
	match := monthToken.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	return calendarMonth[match[1][:3]], true
}

// isQuarter accepts "q1" alone or followed by a qualifier such as "q1 (apr-jun)"
func isQuarter(text, q string) bool {
	if !strings.HasPrefix(text, q) {
		return false
	}
	rest := text[len(q):]
	return rest == "" || strings.ContainsAny(rest[:1], " (-_:")
}

func normalizeHeader(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}
