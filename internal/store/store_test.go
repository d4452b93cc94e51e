package store

import (
	"context"
	"os"
	"sync"
	"testing"

	"capacity-recon/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []model.ProjectRecord {
	return []model.ProjectRecord{
		{ProjectName: "Khavda Phase 1", SPV: "AGE23L", ProjectType: "Solar", PlanActual: model.StatusPlan,
			Category: "Khavda Solar", Section: "A", IncludedInTotal: true, Capacity: model.Float(250), Apr: model.Float(50)},
		{ProjectName: "Khavda Phase 1", SPV: "AGE23L", ProjectType: "Solar", PlanActual: model.StatusActual,
			Category: "Khavda Solar", Section: "A", IncludedInTotal: true, Capacity: model.Float(250), May: model.Float(0)},
		{ProjectName: "Khavda Wind 1", SPV: "AGE26", ProjectType: "Wind", PlanActual: model.StatusPlan,
			Category: "Khavda Wind Internal 421MW", Section: "B"},
		{ProjectName: "Misc Plant", SPV: "", ProjectType: "", PlanActual: model.StatusPlan,
			Category: "Other", Section: "A", IncludedInTotal: true},
	}
}

func optionValues(options []model.DropdownOption, kind string) []string {
	var values []string
	for _, o := range options {
		if o.OptionType == kind {
			values = append(values, o.OptionValue)
		}
	}
	return values
}

func TestDeriveOptions(t *testing.T) {
	options := DeriveOptions("FY_25-26", sampleRecords())

	assert.Equal(t, []string{"Other", "Solar", "Wind"}, optionValues(options, OptionCategories))
	assert.Equal(t, []string{"Solar", "Wind"}, optionValues(options, OptionTypes))
	assert.Equal(t, []string{"AGE23L", "AGE26"}, optionValues(options, OptionSPV))
	assert.Equal(t, []string{"Khavda Solar", "Khavda Wind Internal 421MW", "Other"}, optionValues(options, OptionSections))

	for _, o := range options {
		assert.Equal(t, "FY_25-26", o.FiscalYear)
	}
}

func TestMemoryStoreReplaceFiscalYear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	summary, err := s.ReplaceFiscalYear(ctx, "FY_25-26", sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Deleted)
	assert.Equal(t, 4, summary.Inserted)

	_, err = s.ReplaceFiscalYear(ctx, "FY_24-25", sampleRecords()[:1])
	require.NoError(t, err)

	summary, err = s.ReplaceFiscalYear(ctx, "FY_25-26", sampleRecords()[2:])
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Deleted)
	assert.Equal(t, 2, summary.Inserted)

	current, err := s.Projects(ctx, "FY_25-26")
	require.NoError(t, err)
	require.Len(t, current, 2)
	assert.Equal(t, "Khavda Wind 1", current[0].ProjectName)

	previous, err := s.Projects(ctx, "FY_24-25")
	require.NoError(t, err)
	assert.Len(t, previous, 1, "other fiscal years must be untouched")

	options, err := s.Options(ctx, "FY_25-26")
	require.NoError(t, err)
	assert.NotContains(t, optionValues(options, OptionSPV), "AGE23L")
}

func TestMemoryStoreDefaultFiscalYear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	summary, err := s.ReplaceFiscalYear(ctx, "", sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, DefaultFiscalYear, summary.FiscalYear)

	records, err := s.Projects(ctx, DefaultFiscalYear)
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestMemoryStoreConcurrentReplace(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	records := sampleRecords()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.ReplaceFiscalYear(ctx, "FY_25-26", records[:n%len(records)+1])
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := s.Projects(ctx, "FY_25-26")
	require.NoError(t, err)
	assert.NotEmpty(t, stored)
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().ReplaceFiscalYear(ctx, "FY_25-26", sampleRecords())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenDrivers(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, Config{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(ctx, Config{Driver: "sqlite"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

// TestPostgresStore runs against a live database when CAPACITY_TEST_DSN is set
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("CAPACITY_TEST_DSN")
	if dsn == "" {
		t.Skip("CAPACITY_TEST_DSN not set")
	}

	ctx := context.Background()
	s, err := OpenPostgres(ctx, dsn, 2)
	require.NoError(t, err)
	defer s.Close()

	const fy = "FY_TEST"
	_, err = s.ReplaceFiscalYear(ctx, fy, sampleRecords())
	require.NoError(t, err)

	summary, err := s.ReplaceFiscalYear(ctx, fy, sampleRecords()[:2])
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Deleted)

	records, err := s.Projects(ctx, fy)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.StatusActual, records[1].PlanActual)
	require.NotNil(t, records[1].May)
	assert.Equal(t, 0.0, *records[1].May)
	assert.Nil(t, records[1].Apr)

	options, err := s.Options(ctx, fy)
	require.NoError(t, err)
	assert.Equal(t, []string{"Solar"}, optionValues(options, OptionCategories))

	_, err = s.ReplaceFiscalYear(ctx, fy, nil)
	require.NoError(t, err)
}
