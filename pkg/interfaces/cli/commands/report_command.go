package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/replenish/pkg/application/services/orchestration"
	"github.com/vsinha/replenish/pkg/application/services/sales"
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/infrastructure/config"
	"github.com/vsinha/replenish/pkg/infrastructure/events"
	"github.com/vsinha/replenish/pkg/infrastructure/logging"
	"github.com/vsinha/replenish/pkg/infrastructure/repositories/spreadsheet"
	"github.com/vsinha/replenish/pkg/infrastructure/storage"
	"github.com/vsinha/replenish/pkg/infrastructure/workbook"
	"github.com/vsinha/replenish/pkg/interfaces/cli/output"
)

// Input kinds, also the file name stems looked up in a scenario directory
const (
	KindSuggestions = "suggestions"
	KindInventory   = "inventory"
	KindTransit     = "transit"
	KindTransfers   = "transfers"
)

// BranchFiles are the input paths given for one branch
type BranchFiles struct {
	Suggestions string
	Inventory   string
	Transit     string
	Transfers   string
}

// ReportConfig holds configuration for the report command
type ReportConfig struct {
	ConfigFile   string
	ScenarioDir  string
	Files        map[string]BranchFiles
	SalesDir     string
	OutputDir    string
	Format       string
	IncludeClean bool
	PreviewRows  int
	NoPublish    bool
	Verbose      bool
	Help         bool

	// Stdout receives the summary; nil means os.Stdout
	Stdout io.Writer
}

// ReportCommand builds and publishes the two-branch purchasing report
type ReportCommand struct {
	config ReportConfig
	now    func() time.Time
}

// NewReportCommand creates a new report command with the given configuration
func NewReportCommand(config ReportConfig) *ReportCommand {
	if config.Stdout == nil {
		config.Stdout = os.Stdout
	}
	return &ReportCommand{
		config: config,
		now:    time.Now,
	}
}

// Execute runs the report command
func (c *ReportCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	cfg, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.config.SalesDir != "" {
		cfg.Sales.Dir = c.config.SalesDir
	}
	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	branches := cfg.BranchList()
	inputs, err := c.resolveInputFiles(branches)
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	journal, err := newJournal(logger)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		c.printHeader(cfg, branches, inputs)
	}

	loader := spreadsheet.NewLoader(logger, journalWarnings(journal))
	source := spreadsheet.NewSalesMasterSource(cfg.Sales.Dir, cfg.Sales.Marker, loader)
	aggregator := sales.NewAggregator(source, c.now, logger)

	store, closeStore, err := c.openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open report storage: %w", err)
	}
	defer closeStore()

	pipeline, err := orchestration.NewPipeline(branches, loader, aggregator, workbook.NewWriter(), store, orchestration.Options{
		Root:       cfg.Storage.Root,
		Completion: cfg.Completion(),
		Now:        c.now,
		Logger:     logger,
		Journal:    journal,
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintln(c.config.Stdout, "🔄 Building purchasing report...")
	}

	startTime := time.Now()
	result, err := pipeline.Run(ctx, inputs)
	if err != nil {
		return fmt.Errorf("error building report: %w", err)
	}
	elapsed := time.Since(startTime)

	if c.config.Verbose {
		fmt.Fprintf(c.config.Stdout, "✅ Report built in %v\n\n", elapsed)
	}

	return output.Generate(c.config.Stdout, result, output.Config{
		Format:      c.config.Format,
		PreviewRows: c.config.PreviewRows,
		Verbose:     c.config.Verbose,
		Elapsed:     elapsed,
	})
}

// validateInputs checks flags that do not depend on the configuration
func (c *ReportCommand) validateInputs() error {
	if c.config.ScenarioDir != "" {
		if info, err := os.Stat(c.config.ScenarioDir); err != nil || !info.IsDir() {
			return fmt.Errorf("scenario directory does not exist: %s", c.config.ScenarioDir)
		}
	}
	switch c.config.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid format: %s (expected: text or json)", c.config.Format)
	}
	if c.config.PreviewRows < 0 {
		return fmt.Errorf("preview rows must not be negative")
	}
	return nil
}

// resolveInputFiles merges explicit file flags over the scenario directory.
// A scenario directory is searched for <code>_<kind>.{xlsx,xls,csv}.
func (c *ReportCommand) resolveInputFiles(branches []entities.Branch) (orchestration.Inputs, error) {
	inputs := orchestration.Inputs{
		Branches:     make(map[string]orchestration.BranchInputs, len(branches)),
		OutputDir:    c.config.OutputDir,
		IncludeClean: c.config.IncludeClean,
	}

	for _, b := range branches {
		given := c.filesFor(b.Code)
		files := orchestration.BranchInputs{
			Suggestions: given.Suggestions,
			Inventory:   given.Inventory,
			Transit:     given.Transit,
			Transfers:   given.Transfers,
		}

		if c.config.ScenarioDir != "" {
			for kind, target := range map[string]*string{
				KindSuggestions: &files.Suggestions,
				KindInventory:   &files.Inventory,
				KindTransit:     &files.Transit,
				KindTransfers:   &files.Transfers,
			} {
				if *target != "" {
					continue
				}
				found, err := findScenarioFile(c.config.ScenarioDir, b.Code, kind)
				if err != nil {
					return inputs, err
				}
				*target = found
			}
		}

		for _, path := range []string{files.Suggestions, files.Inventory, files.Transit, files.Transfers} {
			if path == "" {
				continue
			}
			if _, err := os.Stat(path); err != nil && !os.IsNotExist(err) {
				return inputs, fmt.Errorf("cannot access %s: %w", path, err)
			}
		}
		inputs.Branches[b.Code] = files
	}
	return inputs, nil
}

// filesFor looks up the files given for a branch code, ignoring case
func (c *ReportCommand) filesFor(code string) BranchFiles {
	if f, ok := c.config.Files[code]; ok {
		return f
	}
	for k, f := range c.config.Files {
		if strings.EqualFold(k, code) {
			return f
		}
	}
	return BranchFiles{}
}

func findScenarioFile(dir, code, kind string) (string, error) {
	for _, ext := range []string{".xlsx", ".xls", ".csv"} {
		path := filepath.Join(dir, code+"_"+kind+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("cannot access %s: %w", path, err)
		}
	}
	return "", nil
}

// openStore creates the folder store for the configured provider. The
// returned close function is always safe to call.
func (c *ReportCommand) openStore(ctx context.Context, cfg *config.Config) (storage.FolderStore, func(), error) {
	noop := func() {}
	if c.config.NoPublish {
		return nil, noop, nil
	}

	switch cfg.Storage.Provider {
	case storage.ProviderGCS:
		client, err := storage.NewGCSClient(ctx, cfg.Storage.CredentialsJSON)
		if err != nil {
			return nil, noop, err
		}
		return storage.NewGCSStore(client, cfg.Storage.Bucket), func() { _ = client.Close() }, nil
	case storage.ProviderLocal:
		return storage.NewLocalStore(cfg.Storage.LocalDir), noop, nil
	default:
		return nil, noop, nil
	}
}

// newJournal starts the event journal of one run and logs every event
func newJournal(logger *logrus.Logger) (*events.Journal, error) {
	store := events.NewInMemoryEventStore()
	if err := store.Subscribe([]string{events.AllEvents}, events.NewLogHandler(logger)); err != nil {
		return nil, fmt.Errorf("failed to subscribe log handler: %w", err)
	}
	return events.NewJournal(store, events.NewRunID()), nil
}

func journalWarnings(journal *events.Journal) spreadsheet.WarningFunc {
	return func(file, message string) {
		_ = journal.Record(events.WarningRaisedEvent, events.WarningRaised{File: file, Message: message})
	}
}

// printHeader prints the header information
func (c *ReportCommand) printHeader(cfg *config.Config, branches []entities.Branch, inputs orchestration.Inputs) {
	w := c.config.Stdout
	fmt.Fprintln(w, "🛒 Purchasing Reconciliation")
	fmt.Fprintln(w, "============================")
	for _, b := range branches {
		files := inputs.Branches[b.Code]
		fmt.Fprintf(w, "%s:\n", b.Name)
		fmt.Fprintf(w, "  Suggestions: %s\n", orNone(files.Suggestions))
		fmt.Fprintf(w, "  Inventory:   %s\n", orNone(files.Inventory))
		fmt.Fprintf(w, "  Transit:     %s\n", orNone(files.Transit))
		fmt.Fprintf(w, "  Transfers:   %s\n", orNone(files.Transfers))
	}
	fmt.Fprintf(w, "Sales masters: %s\n", orNone(cfg.Sales.Dir))
	fmt.Fprintf(w, "Storage: %s\n", cfg.Storage.Provider)
	fmt.Fprintln(w)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// showHelp displays help information
func (c *ReportCommand) showHelp() {
	fmt.Fprintln(c.config.Stdout, `Purchasing Reconciliation Report

USAGE:
    replenish report [OPTIONS]

OPTIONS:
    -config <file>               YAML configuration (default: $REPLENISH_CONFIG)
    -scenario <dir>              Directory holding <branch>_<kind>.{xlsx,xls,csv}
    -<branch>-suggestions <file> Suggested-order baseline of a branch (required)
    -<branch>-inventory <file>   Inventory export of a branch (required)
    -<branch>-transit <file>     In-transit table (optional)
    -<branch>-transfers <file>   Transfer ledger (optional)
    -input <branch>:<kind>=<file> Any input of any configured branch (repeatable)
    -sales <dir>                 Sales master directory (default: $SALES_MASTER_DIR)
    -output <dir>                Directory for the local copy (default: .)
    -format <format>             Summary format: text, json (default: text)
    -include-clean               Add the cleaned inventory sheets
    -preview <n>                 Rows to preview per branch (default: 5)
    -no-publish                  Skip uploading the workbook
    -verbose                     Enable verbose output
    -help                        Show this help message

BRANCHES:
    cuautitlan, tultitlan

ENVIRONMENT:
    STORAGE_PROVIDER, GCS_BUCKET, GCS_CREDENTIALS_JSON, REPORT_ROOT,
    LOCAL_STORE_DIR, SALES_MASTER_DIR, SALES_MARKER, COMPLETION_DEFAULT,
    LOG_LEVEL, LOG_FORMAT

EXAMPLES:
    replenish report -scenario ./inputs -sales ./ventas -output ./reportes
    replenish report -cuautitlan-suggestions sug_c.xlsx -cuautitlan-inventory inv_c.xlsx \
                     -tultitlan-suggestions sug_t.xlsx -tultitlan-inventory inv_t.xlsx`)
}
