package store

import (
	"context"
	"sync"

	"capacity-recon/internal/model"
)

// MemoryStore keeps imports in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string][]model.ProjectRecord
	options  map[string][]model.DropdownOption
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string][]model.ProjectRecord),
		options:  make(map[string][]model.DropdownOption),
	}
}

// ReplaceFiscalYear swaps the stored records of a fiscal year for records
func (s *MemoryStore) ReplaceFiscalYear(ctx context.Context, fiscalYear string, records []model.ProjectRecord) (ImportSummary, error) {
	if err := ctx.Err(); err != nil {
		return ImportSummary{}, err
	}
	fiscalYear = fiscalYearOrDefault(fiscalYear)

	stored := make([]model.ProjectRecord, len(records))
	copy(stored, records)
	options := DeriveOptions(fiscalYear, records)

	s.mu.Lock()
	defer s.mu.Unlock()

	summary := ImportSummary{
		FiscalYear: fiscalYear,
		Deleted:    len(s.projects[fiscalYear]),
		Inserted:   len(stored),
		Options:    len(options),
	}
	s.projects[fiscalYear] = stored
	s.options[fiscalYear] = options
	return summary, nil
}

// Projects returns the records stored for a fiscal year
func (s *MemoryStore) Projects(ctx context.Context, fiscalYear string) ([]model.ProjectRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.projects[fiscalYearOrDefault(fiscalYear)]
	out := make([]model.ProjectRecord, len(src))
	copy(out, src)
	return out, nil
}

// Options returns the dropdown options stored for a fiscal year
func (s *MemoryStore) Options(ctx context.Context, fiscalYear string) ([]model.DropdownOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.options[fiscalYearOrDefault(fiscalYear)]
	out := make([]model.DropdownOption, len(src))
	copy(out, src)
	return out, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
