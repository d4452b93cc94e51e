package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"capacity-recon/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// insertBatchSize keeps a multi-row insert well under the PostgreSQL
// bind-parameter limit
const insertBatchSize = 500

const schema = `
CREATE TABLE IF NOT EXISTS commissioning_projects (
	id SERIAL PRIMARY KEY,
	fiscal_year VARCHAR(50) NOT NULL,
	sno TEXT NOT NULL DEFAULT '',
	project_name TEXT NOT NULL,
	spv TEXT NOT NULL DEFAULT '',
	project_type TEXT NOT NULL DEFAULT '',
	plot_location TEXT NOT NULL DEFAULT '',
	capacity REAL,
	plan_actual TEXT NOT NULL,
	apr REAL, may REAL, jun REAL, jul REAL, aug REAL, sep REAL,
	oct REAL, nov REAL, dec REAL, jan REAL, feb REAL, mar REAL,
	total_capacity REAL,
	cumm_till_oct REAL,
	q1 REAL, q2 REAL, q3 REAL, q4 REAL,
	category TEXT NOT NULL,
	section TEXT NOT NULL DEFAULT 'A',
	included_in_total BOOLEAN DEFAULT TRUE,
	is_deleted BOOLEAN DEFAULT FALSE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_cp_fiscal_year ON commissioning_projects(fiscal_year);
CREATE TABLE IF NOT EXISTS dropdown_options (
	id SERIAL PRIMARY KEY,
	option_type TEXT NOT NULL,
	option_value TEXT NOT NULL,
	fiscal_year VARCHAR(50) NOT NULL,
	is_deleted BOOLEAN DEFAULT FALSE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_do_fiscal_year ON dropdown_options(fiscal_year);
`

var projectColumns = []string{
	"fiscal_year", "sno", "project_name", "spv", "project_type", "plot_location", "capacity", "plan_actual",
	"apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec", "jan", "feb", "mar",
	"total_capacity", "cumm_till_oct", "q1", "q2", "q3", "q4",
	"category", "section", "included_in_total",
}

// projectRow is a ProjectRecord bound to its fiscal year for persistence
type projectRow struct {
	FiscalYear string `db:"fiscal_year"`
	model.ProjectRecord
}

// PostgresStore persists imports in PostgreSQL
type PostgresStore struct {
	db *sqlx.DB
	mu sync.Mutex // serializes replaces issued by this process
}

// OpenPostgres connects, pings and ensures the schema exists
func OpenPostgres(ctx context.Context, dsn string, maxOpenConns int) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}

	s := NewPostgresStore(db)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore wraps an existing connection pool
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the tables and indexes when missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// ReplaceFiscalYear deletes and re-inserts a fiscal year inside one transaction
func (s *PostgresStore) ReplaceFiscalYear(ctx context.Context, fiscalYear string, records []model.ProjectRecord) (ImportSummary, error) {
	fiscalYear = fiscalYearOrDefault(fiscalYear)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM commissioning_projects WHERE fiscal_year = $1`, fiscalYear)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("failed to clear projects for %s: %w", fiscalYear, err)
	}
	deleted, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dropdown_options WHERE fiscal_year = $1`, fiscalYear); err != nil {
		return ImportSummary{}, fmt.Errorf("failed to clear options for %s: %w", fiscalYear, err)
	}

	rows := make([]projectRow, len(records))
	for i, rec := range records {
		rows[i] = projectRow{FiscalYear: fiscalYear, ProjectRecord: rec}
	}
	insertProjects := fmt.Sprintf(`INSERT INTO commissioning_projects (%s) VALUES (:%s)`,
		strings.Join(projectColumns, ", "), strings.Join(projectColumns, ", :"))
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		if _, err := tx.NamedExecContext(ctx, insertProjects, rows[start:end]); err != nil {
			return ImportSummary{}, fmt.Errorf("failed to insert projects: %w", err)
		}
	}

	options := DeriveOptions(fiscalYear, records)
	if len(options) > 0 {
		const insertOptions = `INSERT INTO dropdown_options (option_type, option_value, fiscal_year)
			VALUES (:option_type, :option_value, :fiscal_year)`
		if _, err := tx.NamedExecContext(ctx, insertOptions, options); err != nil {
			return ImportSummary{}, fmt.Errorf("failed to insert options: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportSummary{}, fmt.Errorf("failed to commit import: %w", err)
	}

	return ImportSummary{
		FiscalYear: fiscalYear,
		Deleted:    int(deleted),
		Inserted:   len(records),
		Options:    len(options),
	}, nil
}

// Projects returns the stored records of a fiscal year in insertion order
func (s *PostgresStore) Projects(ctx context.Context, fiscalYear string) ([]model.ProjectRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM commissioning_projects
		WHERE fiscal_year = $1 AND is_deleted = FALSE ORDER BY id`, strings.Join(projectColumns, ", "))

	var rows []projectRow
	if err := s.db.SelectContext(ctx, &rows, query, fiscalYearOrDefault(fiscalYear)); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	records := make([]model.ProjectRecord, len(rows))
	for i, row := range rows {
		records[i] = row.ProjectRecord
	}
	return records, nil
}

// Options returns the stored dropdown options of a fiscal year
func (s *PostgresStore) Options(ctx context.Context, fiscalYear string) ([]model.DropdownOption, error) {
	const query = `SELECT option_type, option_value, fiscal_year FROM dropdown_options
		WHERE fiscal_year = $1 AND is_deleted = FALSE ORDER BY option_type, option_value`

	var options []model.DropdownOption
	if err := s.db.SelectContext(ctx, &options, query, fiscalYearOrDefault(fiscalYear)); err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	return options, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
