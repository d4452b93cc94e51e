package dedup

import (
	"capacity-recon/internal/logger"
	"capacity-recon/internal/model"
)

// Result is the merged record set plus what was observed while merging
type Result struct {
	Records []model.ProjectRecord
	Stats   model.Stats
}

// Merge deduplicates records from any number of parse results. Grouping
// happens over the full input before any record is chosen.
func Merge(records []model.ProjectRecord) Result {
	pool := NewRecordPool()
	pool.Add(records...)

	merged := pool.Reduce()
	if dropped := pool.Len() - len(merged); dropped > 0 {
		logger.Debug("dedup: %d duplicate records dropped across %d keys", dropped, len(merged))
	}

	stats := Observe(merged)
	stats.Duplicates = pool.Len() - len(merged)

	return Result{Records: merged, Stats: stats}
}

// MergeResults deduplicates the records of several successful parse results
// in input order
func MergeResults(results []*model.ParseResult) Result {
	var all []model.ProjectRecord
	for _, r := range results {
		if r == nil || r.Failed() {
			continue
		}
		all = append(all, r.Projects...)
	}
	return Merge(all)
}

// Observe counts distinct vocabulary in a record set. Blank values are not
// counted.
func Observe(records []model.ProjectRecord) model.Stats {
	projects := make(map[string]struct{})
	categories := make(map[string]struct{})
	types := make(map[string]struct{})
	spvs := make(map[string]struct{})
	sections := make(map[string]struct{})

	add := func(set map[string]struct{}, v string) {
		if v != "" {
			set[v] = struct{}{}
		}
	}

	for _, rec := range records {
		add(projects, rec.ProjectName)
		add(categories, rec.Category)
		add(types, rec.ProjectType)
		add(spvs, rec.SPV)
		add(sections, rec.Section)
	}

	return model.Stats{
		Projects:   len(projects),
		Records:    len(records),
		Categories: len(categories),
		Types:      len(types),
		SPVs:       len(spvs),
		Sections:   len(sections),
	}
}
