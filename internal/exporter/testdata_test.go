package exporter

import (
	"time"

	"capacity-recon/internal/config"
	"capacity-recon/internal/model"
)

func sampleReport() *model.Report {
	solarA := model.SectionContext{Category: "Khavda Solar Projects", Section: "A", IncludedInTotal: true}
	windD := model.SectionContext{Category: "Wind Projects", Section: "D", IncludedInTotal: false}

	rec := func(ctx model.SectionContext, name string, status model.Status, apr *float64) model.ProjectRecord {
		return model.ProjectRecord{
			SNo:             "1",
			ProjectName:     name,
			SPV:             "AGE25A",
			ProjectType:     "Solar",
			PlotLocation:    "Khavda",
			Capacity:        model.Float(250),
			PlanActual:      status,
			Category:        ctx.Category,
			Section:         ctx.Section,
			IncludedInTotal: ctx.IncludedInTotal,
			Apr:             apr,
			SourceSheet:     "Summary Linked",
			SourceRow:       5,
		}
	}

	return &model.Report{
		BatchID:     "batch-1",
		FiscalYear:  "FY_25-26",
		GeneratedAt: time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC),
		Sources: []model.SourceSummary{
			{Path: "summary.xlsx", SheetUsed: "Summary Linked", HeaderRow: 3, Records: 3},
			{Path: "broken.xlsx", Errors: []string{"could not locate header row"}},
		},
		Projects: []model.ProjectRecord{
			rec(windD, "Kutch Wind Extension", model.StatusPlan, model.Float(5)),
			rec(solarA, "Khavda Phase 1", model.StatusPlan, model.Float(0)),
			rec(solarA, "Khavda Phase 1", model.StatusActual, nil),
		},
		Stats: model.Stats{Projects: 2, Records: 3, Duplicates: 1, Categories: 2, Types: 1, SPVs: 1, Sections: 2},
	}
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Output: config.OutputConfig{
			Dir:      dir,
			FileName: "test_report",
		},
	}
}
