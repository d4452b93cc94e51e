package server

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"capacity-recon/internal/dedup"
	"capacity-recon/internal/logger"
	"capacity-recon/internal/model"
	"capacity-recon/internal/parser"
	"capacity-recon/internal/workbook"

	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temp files
const multipartMemory = 8 << 20

// UploadResponse is returned after a successful import
type UploadResponse struct {
	Success           bool     `json:"success"`
	BatchID           string   `json:"batch_id"`
	FiscalYear        string   `json:"fiscal_year"`
	InsertedProjects  int      `json:"inserted_projects"`
	DeletedProjects   int      `json:"deleted_projects"`
	DuplicatesDropped int      `json:"duplicates_dropped"`
	SheetsFound       []string `json:"sheets_found"`
	SheetUsed         string   `json:"sheet_used"`
	Warnings          []string `json:"warnings"`
}

// UploadFailure is returned when a workbook yields no records. It keeps the
// extraction error contract so clients can show the sheets that were seen.
type UploadFailure struct {
	Error       string   `json:"error"`
	Errors      []string `json:"errors"`
	SheetsFound []string `json:"sheets_found"`
}

type healthResponse struct {
	Status string `json:"status"`
	Store  bool   `json:"store"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, healthResponse{Status: "ok", Store: s.store != nil})
}

// handleUpload parses one workbook and replaces the fiscal year with its
// deduplicated records
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		render.Render(w, r, ErrStoreUnavailable)
		return
	}

	limit := s.cfg.MaxUploadBytes()
	if r.ContentLength > limit {
		render.Render(w, r, ErrUploadTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.Render(w, r, ErrUploadTooLarge)
			return
		}
		render.Render(w, r, InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, ErrMissingFile)
		return
	}
	defer file.Close()

	if !workbook.IsSupported(header.Filename) {
		render.Render(w, r, ErrUnsupportedInput)
		return
	}

	fiscalYear := strings.TrimSpace(r.FormValue("fiscalYear"))
	if fiscalYear == "" {
		fiscalYear = s.cfg.Import.FiscalYear
	}

	result, _ := parser.ParseReader(file, header.Filename)
	if result.Failed() {
		logger.Warn("Upload %s rejected: %v", header.Filename, result.Err())
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, UploadFailure{
			Error:       result.Errors[0],
			Errors:      result.Errors,
			SheetsFound: result.SheetsFound,
		})
		return
	}

	merged := dedup.Merge(result.Projects)

	summary, err := s.store.ReplaceFiscalYear(r.Context(), fiscalYear, merged.Records)
	if err != nil {
		logger.Error("Import of %s into %s failed: %v", header.Filename, fiscalYear, err)
		render.Render(w, r, StoreError("import", err))
		return
	}

	batchID := uuid.NewString()
	logger.Info("Batch %s: %s -> %s, %d inserted, %d replaced, %d duplicates dropped",
		batchID, header.Filename, summary.FiscalYear, summary.Inserted, summary.Deleted, merged.Stats.Duplicates)

	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	render.JSON(w, r, UploadResponse{
		Success:           true,
		BatchID:           batchID,
		FiscalYear:        summary.FiscalYear,
		InsertedProjects:  summary.Inserted,
		DeletedProjects:   summary.Deleted,
		DuplicatesDropped: merged.Stats.Duplicates,
		SheetsFound:       result.SheetsFound,
		SheetUsed:         result.SheetUsed,
		Warnings:          warnings,
	})
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		render.Render(w, r, ErrStoreUnavailable)
		return
	}

	projects, err := s.store.Projects(r.Context(), s.fiscalYear(r))
	if err != nil {
		render.Render(w, r, StoreError("list projects", err))
		return
	}
	if projects == nil {
		projects = []model.ProjectRecord{}
	}

	render.JSON(w, r, projects)
}

// handleOptions returns option values grouped by option type
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		render.Render(w, r, ErrStoreUnavailable)
		return
	}

	options, err := s.store.Options(r.Context(), s.fiscalYear(r))
	if err != nil {
		render.Render(w, r, StoreError("list options", err))
		return
	}

	render.JSON(w, r, GroupOptions(options))
}

// GroupOptions folds option rows into option type -> sorted values
func GroupOptions(options []model.DropdownOption) map[string][]string {
	grouped := make(map[string][]string)
	for _, opt := range options {
		grouped[opt.OptionType] = append(grouped[opt.OptionType], opt.OptionValue)
	}
	for _, values := range grouped {
		sort.Strings(values)
	}
	return grouped
}

func (s *Server) fiscalYear(r *http.Request) string {
	if fy := strings.TrimSpace(r.URL.Query().Get("fiscalYear")); fy != "" {
		return fy
	}
	return s.cfg.Import.FiscalYear
}
