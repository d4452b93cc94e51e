package parser

import (
	"strings"

	"capacity-recon/internal/model"
	"capacity-recon/internal/utils"
	"capacity-recon/internal/workbook"
)

// ExtractStats counts what the row fold did with each row after the header
type ExtractStats struct {
	Rows        int
	Banners     int
	Skipped     int
	Orphans     int // data rows seen before any project name
	NoStatus    int // rows whose status cell matched no lane
	Unsectioned int // lane rows seen before any banner
	Records     int
}

// accumulator is the state threaded through the row fold. It is passed and
// returned by value; only the records slice grows.
type accumulator struct {
	identity *model.Identity
	context  *model.SectionContext // nil until a banner or the sheet name sets it
	records  []model.ProjectRecord
	stats    ExtractStats
}

// extractor holds the per-sheet inputs that do not change between rows
type extractor struct {
	sheet   string
	columns ColumnMap
}

// Extract folds the rows below the header into project records
func Extract(sheet workbook.Sheet, headerIdx int, columns ColumnMap) ([]model.ProjectRecord, ExtractStats) {
	x := extractor{sheet: sheet.Name, columns: columns}
	var acc accumulator
	if ctx, ok := InitialContext(sheet.Name); ok {
		acc.context = &ctx
	}

	for i := headerIdx + 1; i < len(sheet.Rows); i++ {
		acc = x.step(acc, sheet.Rows[i], i+1)
	}

	acc.stats.Records = len(acc.records)
	return acc.records, acc.stats
}

// step processes one row: banner and skip rows first, then the sticky
// identity update, then status classification and record building
func (x extractor) step(acc accumulator, row workbook.Row, rowNum int) accumulator {
	acc.stats.Rows++

	class := ClassifyRow(row)
	switch class.Kind {
	case RowBanner:
		ctx := class.Context
		acc.context = &ctx
		acc.stats.Banners++
		return acc
	case RowSkip:
		acc.stats.Skipped++
		return acc
	}

	if id, ok := x.identityFrom(row); ok {
		acc.identity = id
	}
	if acc.identity == nil {
		acc.stats.Orphans++
		return acc
	}

	status, ok := ClassifyStatus(x.columns.Cell(row, FieldPlanActual).String())
	if !ok {
		acc.stats.NoStatus++
		return acc
	}
	if acc.context == nil {
		acc.stats.Unsectioned++
		return acc
	}

	acc.records = append(acc.records, x.build(row, rowNum, *acc.identity, *acc.context, status))
	return acc
}

// identityFrom starts a new project identity when the name cell holds a real name
func (x extractor) identityFrom(row workbook.Row) (*model.Identity, bool) {
	name := strings.TrimSpace(x.columns.Cell(row, FieldProjectName).String())
	if utils.IsNoise(name) {
		return nil, false
	}

	return &model.Identity{
		SNo:          x.text(row, FieldSNo),
		ProjectName:  name,
		SPV:          x.text(row, FieldSPV),
		ProjectType:  x.text(row, FieldProjectType),
		PlotLocation: x.text(row, FieldPlotLocation),
		Capacity:     ParseNumber(x.columns.Cell(row, FieldCapacity)),
	}, true
}

func (x extractor) build(row workbook.Row, rowNum int, id model.Identity, ctx model.SectionContext, status model.Status) model.ProjectRecord {
	rec := model.ProjectRecord{
		SNo:             id.SNo,
		ProjectName:     id.ProjectName,
		SPV:             id.SPV,
		ProjectType:     id.ProjectType,
		PlotLocation:    id.PlotLocation,
		Capacity:        copyFloat(id.Capacity),
		PlanActual:      status,
		Category:        ctx.Category,
		Section:         ctx.Section,
		IncludedInTotal: ctx.IncludedInTotal,
		TotalCapacity:   x.number(row, FieldTotalCapacity),
		CummTillPeriod:  x.number(row, FieldCummTillPeriod),
		Q1:              x.number(row, FieldQ1),
		Q2:              x.number(row, FieldQ2),
		Q3:              x.number(row, FieldQ3),
		Q4:              x.number(row, FieldQ4),
		SourceSheet:     x.sheet,
		SourceRow:       rowNum,
	}
	for i := range model.MonthKeys {
		*rec.MonthSlot(i) = x.number(row, MonthField(i))
	}
	return rec
}

func (x extractor) text(row workbook.Row, f Field) string {
	return strings.TrimSpace(x.columns.Cell(row, f).String())
}

func (x extractor) number(row workbook.Row, f Field) *float64 {
	return ParseNumber(x.columns.Cell(row, f))
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
