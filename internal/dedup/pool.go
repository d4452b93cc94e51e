// Package dedup collapses duplicate project lanes gathered from one or more
// workbooks.
package dedup

import (
	"capacity-recon/internal/model"
)

// RecordPool groups records by their deduplication key, remembering the
// order in which keys were first seen
type RecordPool struct {
	// Groups: key -> records in insertion order
	Groups map[model.Key][]model.ProjectRecord

	order []model.Key
	total int
}

// NewRecordPool creates a new empty pool
func NewRecordPool() *RecordPool {
	return &RecordPool{
		Groups: make(map[model.Key][]model.ProjectRecord),
	}
}

// Add appends records to their groups
func (p *RecordPool) Add(records ...model.ProjectRecord) {
	for _, rec := range records {
		key := rec.Key()
		if _, seen := p.Groups[key]; !seen {
			p.order = append(p.order, key)
		}
		p.Groups[key] = append(p.Groups[key], rec)
		p.total++
	}
}

// Len returns the number of records added
func (p *RecordPool) Len() int {
	return p.total
}

// Keys returns the distinct keys in first-seen order
func (p *RecordPool) Keys() []model.Key {
	keys := make([]model.Key, len(p.order))
	copy(keys, p.order)
	return keys
}

// Reduce keeps one record per key: the one with the most filled months,
// the earliest on ties. Output follows first-seen key order.
func (p *RecordPool) Reduce() []model.ProjectRecord {
	out := make([]model.ProjectRecord, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, best(p.Groups[key]))
	}
	return out
}

func best(group []model.ProjectRecord) model.ProjectRecord {
	winner := 0
	most := group[0].FilledMonths()
	for i := 1; i < len(group); i++ {
		if n := group[i].FilledMonths(); n > most {
			winner, most = i, n
		}
	}
	return group[winner]
}
