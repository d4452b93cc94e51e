package common

import (
	"testing"

	"capacity-recon/internal/model"
)

func TestSortRecords(t *testing.T) {
	rec := func(category, section string, included bool, name string, status model.Status) model.ProjectRecord {
		return model.ProjectRecord{
			ProjectName: name, PlanActual: status,
			Category: category, Section: section, IncludedInTotal: included,
		}
	}

	records := []model.ProjectRecord{
		rec("Wind Projects", "A", true, "Wind One", model.StatusPlan),
		rec("Khavda Solar Projects", "B", true, "Solar Two", model.StatusPlan),
		rec("Khavda Solar Projects", "D1", false, "Solar Extra", model.StatusPlan),
		rec("Khavda Solar Projects", "A", true, "Solar One", model.StatusPlan),
		rec("Khavda Solar Projects", "A", true, "Solar One", model.StatusActual),
	}

	main, excluded := SortRecords(records)

	if len(main) != 3 {
		t.Fatalf("Expected 3 counted groups, got %d", len(main))
	}
	if len(excluded) != 1 || excluded[0].Context.Section != "D1" {
		t.Fatalf("Unexpected excluded groups: %+v", excluded)
	}

	wantOrder := []string{"A", "B", "A"}
	for i, g := range main {
		if g.Context.Section != wantOrder[i] {
			t.Errorf("Group %d: expected section %s, got %s", i, wantOrder[i], g.Context.Section)
		}
	}

	// Lanes of a project stay in incoming order
	first := main[0].Records
	if len(first) != 2 || first[0].PlanActual != model.StatusPlan || first[1].PlanActual != model.StatusActual {
		t.Errorf("Unexpected lanes in first group: %+v", first)
	}

	if records[0].ProjectName != "Wind One" {
		t.Error("Input slice was modified")
	}
}
