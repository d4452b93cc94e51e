// Package store persists imported commissioning records per fiscal year.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"capacity-recon/internal/model"
)

// DefaultFiscalYear is used when an import does not name one
const DefaultFiscalYear = "FY_25-26"

// Option types written alongside every import
const (
	OptionCategories = "categories"
	OptionTypes      = "types"
	OptionSPV        = "spv"
	OptionSections   = "sections"
)

// ErrUnknownDriver is returned by Open for an unsupported store driver
var ErrUnknownDriver = errors.New("unknown store driver")

// ImportSummary describes a completed full replace
type ImportSummary struct {
	FiscalYear string `json:"fiscal_year"`
	Deleted    int    `json:"deleted"`
	Inserted   int    `json:"inserted"`
	Options    int    `json:"options"`
}

// Store is the persistence collaborator for imports. ReplaceFiscalYear
// removes every record and option of the fiscal year and writes the new set
// as one unit.
type Store interface {
	ReplaceFiscalYear(ctx context.Context, fiscalYear string, records []model.ProjectRecord) (ImportSummary, error)
	Projects(ctx context.Context, fiscalYear string) ([]model.ProjectRecord, error)
	Options(ctx context.Context, fiscalYear string) ([]model.DropdownOption, error)
	Close() error
}

// Config selects and configures a store implementation
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Open creates the store named by cfg.Driver. "none" returns nil.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryStore(), nil
	case "postgres", "postgresql":
		s, err := OpenPostgres(ctx, cfg.DSN, cfg.MaxOpenConns)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

// DeriveOptions builds the dropdown option lists for a record set:
// categories collapse to Solar or Wind where the category names one,
// sections use the full category name. Values are de-duplicated, sorted and
// blanks dropped.
func DeriveOptions(fiscalYear string, records []model.ProjectRecord) []model.DropdownOption {
	sets := map[string]map[string]struct{}{
		OptionCategories: {},
		OptionTypes:      {},
		OptionSPV:        {},
		OptionSections:   {},
	}
	add := func(kind, value string) {
		if value = strings.TrimSpace(value); value != "" {
			sets[kind][value] = struct{}{}
		}
	}

	for _, rec := range records {
		add(OptionCategories, categoryGroup(rec.Category))
		add(OptionTypes, rec.ProjectType)
		add(OptionSPV, rec.SPV)
		add(OptionSections, rec.Category)
	}

	var options []model.DropdownOption
	for _, kind := range []string{OptionCategories, OptionTypes, OptionSPV, OptionSections} {
		values := make([]string, 0, len(sets[kind]))
		for v := range sets[kind] {
			values = append(values, v)
		}
		sort.Strings(values)
		for _, v := range values {
			options = append(options, model.DropdownOption{OptionType: kind, OptionValue: v, FiscalYear: fiscalYear})
		}
	}
	return options
}

func categoryGroup(category string) string {
	lower := strings.ToLower(category)
	switch {
	case strings.Contains(lower, "solar"):
		return "Solar"
	case strings.Contains(lower, "wind"):
		return "Wind"
	default:
		return category
	}
}

func fiscalYearOrDefault(fy string) string {
	if strings.TrimSpace(fy) == "" {
		return DefaultFiscalYear
	}
	return fy
}
