package common

import (
	"sort"

	"capacity-recon/internal/model"
)

// SectionGroup is a run of records sharing one banner context
type SectionGroup struct {
	Context model.SectionContext
	Records []model.ProjectRecord
}

// SortRecords separates records into the sections counted toward totals
// (mainStream) and the informational ones (excludedStream).
//
// Logic:
//   - Groups are keyed by (category, section, included) and ordered by
//     category then section
//   - Within a group, records keep their incoming order so each project's
//     Plan / Rephase / Actual lanes stay together
//   - Input is not modified
func SortRecords(records []model.ProjectRecord) (mainStream []SectionGroup, excludedStream []SectionGroup) {
	index := make(map[model.SectionContext]int)
	var groups []SectionGroup

	for _, rec := range records {
		ctx := model.SectionContext{
			Category:        rec.Category,
			Section:         rec.Section,
			IncludedInTotal: rec.IncludedInTotal,
		}
		i, ok := index[ctx]
		if !ok {
			i = len(groups)
			index[ctx] = i
			groups = append(groups, SectionGroup{Context: ctx})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Context, groups[j].Context
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Section < b.Section
	})

	for _, g := range groups {
		if g.Context.IncludedInTotal {
			mainStream = append(mainStream, g)
		} else {
			excludedStream = append(excludedStream, g)
		}
	}

	return mainStream, excludedStream
}
