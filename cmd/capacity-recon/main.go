package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"capacity-recon/internal/config"
	"capacity-recon/internal/dedup"
	"capacity-recon/internal/exporter"
	"capacity-recon/internal/logger"
	"capacity-recon/internal/model"
	"capacity-recon/internal/parser"
	"capacity-recon/internal/store"
	"capacity-recon/internal/ui"
	"capacity-recon/internal/workbook"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	appName    = "Capacity Recon"
	appVersion = "1.0.0"
	appDesc    = "Extracts commissioning capacity records from summary workbooks"
)

var (
	configPath  string
	verbose     bool
	showVersion bool
	noWait      bool
	outputDir   string
	formats     string
	fiscalYear  string
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&noWait, "no-wait", false, "Exit without waiting for Enter")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.StringVar(&formats, "format", "", "Comma-separated output formats (excel,json,word); defaults to output.formats")
	flag.StringVar(&fiscalYear, "fy", "", "Fiscal year to replace in the store (e.g. FY_25-26)")
}

func main() {
	exitCode := 1

	// Ensure "Press Enter to Exit" runs even on panic or error
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ PANIC: %v\n", r)
		}
		if !noWait {
			waitForEnter()
		}
		os.Exit(exitCode)
	}()

	exitCode = run()
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	// 1. Initialize
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}

	if outputDir != "" {
		abs, err := filepath.Abs(outputDir)
		if err != nil {
			fmt.Printf("❌ Invalid output directory: %v\n", err)
			return 1
		}
		cfg.Output.Dir = abs
		if err := cfg.EnsureOutputDir(); err != nil {
			fmt.Printf("❌ %v\n", err)
			return 1
		}
	}
	if formats != "" {
		cfg.Output.Formats = strings.Split(formats, ",")
	}
	if fiscalYear != "" {
		cfg.Import.FiscalYear = fiscalYear
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		return 1
	}

	if err := logger.Init(os.Stdout, cfg.GetLogPath(), verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if verbose {
		cfg.Print()
	}

	report, err := runImport(context.Background(), cfg, flag.Args())
	if err != nil {
		logger.Error("Import failed: %v", err)
		logger.InfoClean("Details: %s", logger.GetLogFilePath())
		return 1
	}

	logger.Info("✅ Import Complete. %d records from %d workbooks (%d failed). Check [%s] directory.",
		report.Stats.Records, len(report.Sources), report.FailedSources(), cfg.Output.Dir)
	return 0
}

// waitForEnter pauses execution and waits for user to press Enter
// This prevents the console window from closing immediately when double-clicked
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func runImport(ctx context.Context, cfg *config.Config, args []string) (*model.Report, error) {
	pipeline := ui.NewPipeline(ui.ImportPhases)
	if logger.IsVerbose() {
		pipeline.Disable()
	}

	// --- Phase 1: Scanning ---
	logger.Info("Phase 1: Scanning for workbooks...")
	scanBar := pipeline.NextPhase(1)
	files, err := collectInputs(cfg, args)
	if err != nil {
		return nil, err
	}
	scanBar.Finish()
	if len(files) == 0 {
		return nil, fmt.Errorf("no .xlsx, .xlsm or .csv files found")
	}
	logger.Info("Found %d workbook(s)", len(files))

	// --- Phase 2: Parsing ---
	logger.Info("Phase 2: Extracting records...")
	parseBar := pipeline.NextPhase(len(files))
	results := parseAll(files, cfg.Import.Workers, parseBar)
	parseBar.Finish()

	sources := make([]model.SourceSummary, len(files))
	succeeded := 0
	for i, res := range results {
		sources[i] = model.SourceSummary{
			Path:      files[i],
			SheetUsed: res.SheetUsed,
			HeaderRow: res.HeaderRow,
			Records:   len(res.Projects),
			Errors:    res.Errors,
			Warnings:  res.Warnings,
		}
		if res.Failed() {
			logger.Warn("%s: %s", filepath.Base(files[i]), strings.Join(res.Errors, "; "))
			continue
		}
		succeeded++
	}

	// --- Phase 3: Merging ---
	logger.Info("Phase 3: Removing duplicates...")
	mergeBar := pipeline.NextPhase(1)
	merged := dedup.MergeResults(results)
	mergeBar.Finish()
	logger.Info("Kept %d records, dropped %d duplicates", merged.Stats.Records, merged.Stats.Duplicates)

	report := &model.Report{
		BatchID:     uuid.NewString(),
		FiscalYear:  cfg.Import.FiscalYear,
		GeneratedAt: time.Now(),
		Sources:     sources,
		Projects:    merged.Records,
		Stats:       merged.Stats,
		Options:     store.DeriveOptions(cfg.Import.FiscalYear, merged.Records),
	}

	// --- Phase 4: Storing ---
	storeBar := pipeline.NextPhase(1)
	if succeeded > 0 {
		if err := persist(ctx, cfg, merged.Records); err != nil {
			return nil, err
		}
	} else {
		logger.Warn("No workbook produced records; store left unchanged")
	}
	storeBar.Finish()

	// --- Phase 5: Exporting ---
	logger.Info("Phase 5: Generating Reports...")
	exporters := exporter.GetExporters(cfg.Output.Formats)
	genBar := pipeline.NextPhase(len(exporters))

	var exportErrors []error
	for _, exp := range exporters {
		if err := exp.Export(report, cfg); err != nil {
			logger.Error("Export failed: %v", err)
			exportErrors = append(exportErrors, err)
		}
		genBar.Increment()
	}
	genBar.Finish()

	pipeline.Finish()

	for _, src := range sources {
		status := "✔"
		if len(src.Errors) > 0 {
			status = "✘"
		}
		logger.InfoClean("  %s %-40s %4d records  %s", status, filepath.Base(src.Path), src.Records, src.SheetUsed)
	}
	pipeline.PrintSummary(fmt.Sprintf("Batch %s: %d records kept, %d duplicates dropped", report.BatchID, merged.Stats.Records, merged.Stats.Duplicates))

	if len(exportErrors) > 0 {
		return nil, fmt.Errorf("one or more exports failed: %d errors", len(exportErrors))
	}
	if succeeded == 0 {
		return nil, fmt.Errorf("none of the %d workbook(s) produced records", len(files))
	}

	return report, nil
}

// collectInputs expands positional arguments (files or directories) into a
// workbook list, falling back to input.root_dir
func collectInputs(cfg *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		if err := cfg.ValidateInput(); err != nil {
			return nil, err
		}
		return workbook.ScanDirectory(cfg.Input.RootDir, cfg.ShouldExclude)
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read input %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := workbook.ScanDirectory(arg, cfg.ShouldExclude)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// parseAll extracts every file with at most workers in flight. Results keep
// input order; a failed file yields a failed result, never an error.
func parseAll(files []string, workers int, bar *ui.ProgressBar) []*model.ParseResult {
	results := make([]*model.ParseResult, len(files))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range files {
		g.Go(func() error {
			res, _ := parser.ParseFile(path)
			results[i] = res
			if res.Failed() {
				bar.Fail(filepath.Base(path))
				return nil
			}
			bar.Describe(filepath.Base(path))
			bar.Increment()
			return nil
		})
	}
	g.Wait()

	return results
}

// persist replaces the configured fiscal year in the store, if one is configured
func persist(ctx context.Context, cfg *config.Config, records []model.ProjectRecord) error {
	st, err := store.Open(ctx, store.Config{
		Driver:       cfg.Store.Driver,
		DSN:          cfg.Store.DSN,
		MaxOpenConns: cfg.Store.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	if st == nil {
		logger.Debug("Store driver %q: skipping persistence", cfg.Store.Driver)
		return nil
	}
	defer st.Close()

	logger.Info("Phase 4: Replacing %s in %s store...", cfg.Import.FiscalYear, cfg.Store.Driver)
	summary, err := st.ReplaceFiscalYear(ctx, cfg.Import.FiscalYear, records)
	if err != nil {
		return fmt.Errorf("store import failed: %w", err)
	}
	logger.Info("Stored %d records (%d replaced), %d options", summary.Inserted, summary.Deleted, summary.Options)
	return nil
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                   CAPACITY RECON v1.0.0                   ║
║       Commissioning Capacity Workbook Extraction          ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
