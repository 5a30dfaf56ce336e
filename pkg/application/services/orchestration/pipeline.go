package orchestration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/replenish/pkg/application/dto"
	"github.com/vsinha/replenish/pkg/application/services/report"
	"github.com/vsinha/replenish/pkg/application/services/sales"
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/table"
	"github.com/vsinha/replenish/pkg/infrastructure/events"
	"github.com/vsinha/replenish/pkg/infrastructure/logging"
	"github.com/vsinha/replenish/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/replenish/pkg/infrastructure/repositories/spreadsheet"
	"github.com/vsinha/replenish/pkg/infrastructure/storage"
	"github.com/vsinha/replenish/pkg/infrastructure/workbook"
)

// ErrMissingInput is returned when a branch lacks a required file
var ErrMissingInput = errors.New("missing required input")

// BranchInputs are the files of one branch. Suggestions and Inventory are
// required; the others may be empty.
type BranchInputs struct {
	Suggestions string
	Inventory   string
	Transit     string
	Transfers   string
}

// Inputs are the files of one run, keyed by branch code
type Inputs struct {
	Branches map[string]BranchInputs
	// OutputDir receives a local copy of the report; empty skips it
	OutputDir string
	// IncludeClean appends the normalized inventories as extra sheets
	IncludeClean bool
}

// Options tune a pipeline
type Options struct {
	Root       string
	Completion table.Default
	Now        func() time.Time
	Logger     *logrus.Logger
	Journal    *events.Journal
}

// Pipeline runs one reconciliation: load, aggregate, compose, write, publish
type Pipeline struct {
	branches   [2]entities.Branch
	loader     *spreadsheet.Loader
	aggregator *sales.Aggregator
	writer     *workbook.Writer
	store      storage.FolderStore
	root       string
	completion table.Default
	now        func() time.Time
	logger     *logrus.Logger
	journal    *events.Journal
}

// NewPipeline creates a pipeline over exactly two branches. store may be nil
// to skip publishing.
func NewPipeline(
	branches []entities.Branch,
	loader *spreadsheet.Loader,
	aggregator *sales.Aggregator,
	writer *workbook.Writer,
	store storage.FolderStore,
	opts Options,
) (*Pipeline, error) {
	if len(branches) != 2 {
		return nil, fmt.Errorf("pipeline needs exactly 2 branches, got %d", len(branches))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Journal == nil {
		opts.Journal = events.NewJournal(events.NewInMemoryEventStore(), events.NewRunID())
	}
	return &Pipeline{
		branches:   [2]entities.Branch{branches[0], branches[1]},
		loader:     loader,
		aggregator: aggregator,
		writer:     writer,
		store:      store,
		root:       opts.Root,
		completion: opts.Completion,
		now:        opts.Now,
		logger:     opts.Logger,
		journal:    opts.Journal,
	}, nil
}

// branchData is what was loaded for one branch
type branchData struct {
	suggestions *memory.SuggestionRepository
	inventory   *memory.InventoryRepository
	parts       []*entities.PartRecord
	metrics     *memory.MetricsRepository
	transit     *memory.QuantityRepository
	transfers   *memory.QuantityRepository
}

// Run executes the pipeline. Missing or unreadable baselines and missing
// inventories abort the run; every other source degrades to defaults. A
// failed upload is reported in the result, not as an error.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*dto.RunResult, error) {
	now := p.now()
	log := p.logger.WithContext(ctx).WithField("run_id", p.journal.RunID())

	result := &dto.RunResult{
		RunID:       p.journal.RunID(),
		GeneratedAt: now,
		FileName:    storage.ReportFileName(now),
	}

	for _, b := range p.branches {
		files := in.Branches[b.Code]
		if files.Suggestions == "" {
			return nil, fmt.Errorf("%w: suggestion baseline for %s", ErrMissingInput, b.Name)
		}
		if files.Inventory == "" {
			return nil, fmt.Errorf("%w: inventory for %s", ErrMissingInput, b.Name)
		}
	}

	var data [2]*branchData
	for i, b := range p.branches {
		d, err := p.load(ctx, b, in.Branches[b.Code], result)
		if err != nil {
			return nil, err
		}
		data[i] = d
	}

	var sheets []workbook.Sheet
	for i, local := range p.branches {
		foreign := p.branches[1-i]
		br, sheet, err := p.compose(ctx, local, foreign, data[i], data[1-i])
		if err != nil {
			return nil, err
		}
		result.Branches = append(result.Branches, *br)
		sheets = append(sheets, sheet)
	}
	if in.IncludeClean {
		for i, b := range p.branches {
			if data[i].parts == nil {
				continue
			}
			sheets = append(sheets, workbook.Sheet{
				Name:  "Base Limpia " + b.ShortName,
				Table: report.InventoryTable(data[i].parts),
			})
		}
	}

	wb, err := p.writer.Write(sheets)
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	result.Workbook = wb

	if in.OutputDir != "" {
		path := filepath.Join(in.OutputDir, result.FileName)
		if err := os.MkdirAll(in.OutputDir, 0o755); err != nil {
			return result, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(path, wb, 0o644); err != nil {
			return result, fmt.Errorf("failed to save report: %w", err)
		}
		result.LocalPath = path
		p.record(events.ReportWrittenEvent, events.ReportWritten{Path: path, Bytes: len(wb)})
	}

	if p.store != nil {
		published, err := storage.Publish(ctx, p.store, p.root, now, wb)
		if err != nil {
			logging.LogError(p.logger, "orchestration", "Run", "publish report", result.FileName, err)
			result.PublishError = err
			p.record(events.ReportPublishFailedEvent, events.ReportPublishFailed{Error: err.Error()})
		} else {
			result.RemoteURI = published.URI
			p.record(events.ReportPublishedEvent, events.ReportPublished{URI: published.URI})
		}
	}

	for _, w := range p.journal.Warnings() {
		msg := w.Message
		if w.File != "" {
			msg = fmt.Sprintf("%s: %s", filepath.Base(w.File), w.Message)
		}
		result.Warnings = append(result.Warnings, msg)
	}

	log.WithFields(logrus.Fields{
		"file":      result.FileName,
		"bytes":     len(wb),
		"warnings":  len(result.Warnings),
		"published": result.RemoteURI != "",
	}).Info("run finished")

	return result, nil
}

func (p *Pipeline) load(ctx context.Context, b entities.Branch, files BranchInputs, result *dto.RunResult) (*branchData, error) {
	d := &branchData{}

	suggestions, headers, err := p.loader.LoadSuggestions(files.Suggestions)
	if err != nil {
		p.outcome(result, b, dto.SourceSuggestions, files.Suggestions, entities.SourceUnavailable, 0, err.Error())
		return nil, fmt.Errorf("failed to load suggestion baseline for %s: %w", b.Name, err)
	}
	d.suggestions = memory.NewSuggestionRepository(headers)
	if err := d.suggestions.LoadSuggestions(suggestions); err != nil {
		return nil, err
	}
	p.outcome(result, b, dto.SourceSuggestions, files.Suggestions, statusFor(len(suggestions)), len(suggestions), "")

	parts, err := p.loader.LoadInventory(files.Inventory)
	if err != nil {
		p.outcome(result, b, dto.SourceInventory, files.Inventory, entities.SourceUnavailable, 0,
			fmt.Sprintf("%v; inventory columns left at defaults", err))
	} else {
		d.parts = parts
		d.inventory = memory.NewInventoryRepository(len(parts))
		if err := d.inventory.LoadParts(parts); err != nil {
			return nil, err
		}
		p.outcome(result, b, dto.SourceInventory, files.Inventory, statusFor(len(parts)), d.inventory.Len(), "")
	}

	d.transit = p.loadQuantities(result, b, dto.SourceTransit, files.Transit, p.loader.LoadTransit)
	d.transfers = p.loadQuantities(result, b, dto.SourceTransfers, files.Transfers, func(path string) (map[entities.PartID]decimal.Decimal, error) {
		return p.loader.LoadTransfers(path, b.TransferIn)
	})

	salesResult := p.aggregator.Aggregate(ctx, b)
	if len(salesResult.Metrics) > 0 || salesResult.Status != entities.SourceUnavailable {
		d.metrics = memory.NewMetricsRepository()
		if err := d.metrics.LoadMetrics(salesResult.Metrics); err != nil {
			return nil, err
		}
	}
	msg := ""
	if salesResult.Status != entities.SourceLoaded && len(salesResult.Problems) > 0 {
		msg = salesResult.Problems[0]
	}
	p.outcome(result, b, dto.SourceSales, "", salesResult.Status, len(salesResult.Metrics), msg)
	for _, problem := range salesResult.Problems {
		p.record(events.WarningRaisedEvent, events.WarningRaised{Branch: b.Code, Message: problem})
	}

	return d, nil
}

func (p *Pipeline) loadQuantities(
	result *dto.RunResult,
	b entities.Branch,
	source, path string,
	load func(string) (map[entities.PartID]decimal.Decimal, error),
) *memory.QuantityRepository {
	if path == "" {
		p.outcome(result, b, source, "", entities.SourceSkipped, 0, "no file given; defaults to 0")
		return nil
	}
	quantities, err := load(path)
	if err != nil {
		p.outcome(result, b, source, path, entities.SourceUnavailable, 0, fmt.Sprintf("%v; defaults to 0", err))
		return nil
	}
	repo := memory.NewQuantityRepository()
	_ = repo.LoadQuantities(quantities)
	p.outcome(result, b, source, path, statusFor(repo.Len()), repo.Len(), "")
	return repo
}

func (p *Pipeline) compose(ctx context.Context, local, foreign entities.Branch, mine, theirs *branchData) (*dto.BranchResult, workbook.Sheet, error) {
	layout, err := report.NewLayout(local, foreign)
	if err != nil {
		return nil, workbook.Sheet{}, err
	}

	src := report.Sources{Suggestions: mine.suggestions}
	// nil concrete repositories must stay nil interfaces
	if mine.inventory != nil {
		src.LocalInventory = mine.inventory
	}
	if theirs.inventory != nil {
		src.ForeignInventory = theirs.inventory
	}
	if mine.metrics != nil {
		src.LocalSales = mine.metrics
	}
	if theirs.metrics != nil {
		src.ForeignSales = theirs.metrics
	}
	if mine.transit != nil {
		src.Transit = mine.transit
	}
	if mine.transfers != nil {
		src.Transfers = mine.transfers
	}

	t, err := report.NewComposer(layout, p.completion, p.logger).Compose(ctx, src)
	if err != nil {
		return nil, workbook.Sheet{}, fmt.Errorf("failed to compose %s: %w", layout.SheetName(), err)
	}
	p.record(events.SheetComposedEvent, events.SheetComposed{
		Branch:  local.Code,
		Sheet:   layout.SheetName(),
		Rows:    t.Len(),
		Columns: len(t.Columns()),
	})

	formulas := make(map[string]string, len(layout.Formulas))
	for _, f := range layout.Formulas {
		formulas[f.Column] = f.Template
	}

	br := &dto.BranchResult{
		Branch:  local,
		Sheet:   layout.SheetName(),
		Headers: layout.ExportHeaders(),
		Table:   t,
	}
	sheet := workbook.Sheet{
		Name:     layout.SheetName(),
		Headers:  br.Headers,
		Table:    t,
		Formulas: formulas,
	}
	return br, sheet, nil
}

func (p *Pipeline) outcome(result *dto.RunResult, b entities.Branch, source, file string, status entities.SourceStatus, records int, message string) {
	o := dto.SourceOutcome{
		Branch:  b.Code,
		Source:  source,
		File:    file,
		Status:  status,
		Records: records,
		Message: message,
	}
	result.Sources = append(result.Sources, o)
	p.record(events.SourceEventType(status), events.SourceRecorded{
		Branch:  o.Branch,
		Source:  o.Source,
		File:    o.File,
		Status:  o.Status,
		Records: o.Records,
		Message: o.Message,
	})
}

func (p *Pipeline) record(eventType string, data interface{}) {
	if err := p.journal.Record(eventType, data); err != nil {
		p.logger.WithError(err).WithField("event", eventType).Warn("journal handler failed")
	}
}

func statusFor(records int) entities.SourceStatus {
	if records == 0 {
		return entities.SourceEmpty
	}
	return entities.SourceLoaded
}
