package model

import "strings"

// Status is the lane a data row belongs to within a project's block
type Status string

const (
	StatusPlan    Status = "Plan"
	StatusRephase Status = "Rephase"
	StatusActual  Status = "Actual"
)

// MonthKeys lists fiscal-year months in column order (April first)
var MonthKeys = [12]string{"apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec", "jan", "feb", "mar"}

// MonthIndex returns the fiscal position of a calendar month (1 = January)
func MonthIndex(calendarMonth int) int {
	if calendarMonth < 1 || calendarMonth > 12 {
		return -1
	}
	return (calendarMonth + 8) % 12
}

// SectionContext describes the banner a data row sits under
type SectionContext struct {
	Category        string `json:"category"`
	Section         string `json:"section"`
	IncludedInTotal bool   `json:"included_in_total"`
}

// Identity holds the project attributes that are only filled on the first row
// of a project block and carried down to its remaining rows
type Identity struct {
	SNo          string
	ProjectName  string
	SPV          string
	ProjectType  string
	PlotLocation string
	Capacity     *float64
}

// ProjectRecord is one status row of one project
type ProjectRecord struct {
	SNo          string   `json:"sno" db:"sno"`
	ProjectName  string   `json:"project_name" db:"project_name"`
	SPV          string   `json:"spv" db:"spv"`
	ProjectType  string   `json:"project_type" db:"project_type"`
	PlotLocation string   `json:"plot_location" db:"plot_location"`
	Capacity     *float64 `json:"capacity" db:"capacity"`
	PlanActual   Status   `json:"plan_actual" db:"plan_actual"`

	Category        string `json:"category" db:"category"`
	Section         string `json:"section" db:"section"`
	IncludedInTotal bool   `json:"included_in_total" db:"included_in_total"`

	Apr *float64 `json:"apr" db:"apr"`
	May *float64 `json:"may" db:"may"`
	Jun *float64 `json:"jun" db:"jun"`
	Jul *float64 `json:"jul" db:"jul"`
	Aug *float64 `json:"aug" db:"aug"`
	Sep *float64 `json:"sep" db:"sep"`
	Oct *float64 `json:"oct" db:"oct"`
	Nov *float64 `json:"nov" db:"nov"`
	Dec *float64 `json:"dec" db:"dec"`
	Jan *float64 `json:"jan" db:"jan"`
	Feb *float64 `json:"feb" db:"feb"`
	Mar *float64 `json:"mar" db:"mar"`

	TotalCapacity  *float64 `json:"total_capacity" db:"total_capacity"`
	CummTillPeriod *float64 `json:"cumm_till_period" db:"cumm_till_oct"`
	Q1             *float64 `json:"q1" db:"q1"`
	Q2             *float64 `json:"q2" db:"q2"`
	Q3             *float64 `json:"q3" db:"q3"`
	Q4             *float64 `json:"q4" db:"q4"`

	SourceSheet string `json:"source_sheet,omitempty" db:"-"`
	SourceRow   int    `json:"source_row,omitempty" db:"-"`
}

// Months returns the twelve month values in fiscal order
func (r *ProjectRecord) Months() [12]*float64 {
	return [12]*float64{r.Apr, r.May, r.Jun, r.Jul, r.Aug, r.Sep, r.Oct, r.Nov, r.Dec, r.Jan, r.Feb, r.Mar}
}

// MonthSlot returns the field backing the given fiscal month position
func (r *ProjectRecord) MonthSlot(i int) **float64 {
	switch i {
	case 0:
		return &r.Apr
	case 1:
		return &r.May
	case 2:
		return &r.Jun
	case 3:
		return &r.Jul
	case 4:
		return &r.Aug
	case 5:
		return &r.Sep
	case 6:
		return &r.Oct
	case 7:
		return &r.Nov
	case 8:
		return &r.Dec
	case 9:
		return &r.Jan
	case 10:
		return &r.Feb
	case 11:
		return &r.Mar
	}
	return nil
}

// FilledMonths counts month fields that carry a value (zero included)
func (r *ProjectRecord) FilledMonths() int {
	n := 0
	for _, v := range r.Months() {
		if v != nil {
			n++
		}
	}
	return n
}

// Key identifies records that describe the same project lane
type Key struct {
	ProjectName string
	SPV         string
	PlanActual  Status
	Section     string
	Category    string
}

// Key returns the deduplication key of the record
func (r *ProjectRecord) Key() Key {
	return Key{
		ProjectName: r.ProjectName,
		SPV:         r.SPV,
		PlanActual:  r.PlanActual,
		Section:     r.Section,
		Category:    r.Category,
	}
}

// String renders the key for logs
func (k Key) String() string {
	return strings.Join([]string{k.ProjectName, k.SPV, string(k.PlanActual), k.Section, k.Category}, " | ")
}

// Float is a helper for building nullable numeric fields
func Float(v float64) *float64 {
	return &v
}
