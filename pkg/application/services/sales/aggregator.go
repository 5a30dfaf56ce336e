package sales

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

// Source finds and reads sales master files
type Source interface {
	Discover(branchToken string, years []int) ([]string, error)
	ReadSales(path string) (*entities.SalesSheet, error)
}

// Result is the sales aggregation of one branch over the trailing window
type Result struct {
	Branch   entities.Branch
	Window   entities.Window
	Files    []string
	RawRows  int
	InWindow int
	Metrics  []entities.HitsAverage
	Status   entities.SourceStatus
	Problems []string
}

// PartAudit reproduces the aggregation of a single part for manual review
type PartAudit struct {
	Branch   entities.Branch
	PartID   entities.PartID
	Window   entities.Window
	Files    []string
	RawRows  int
	InWindow int
	Events   []entities.SalesEvent
	Metrics  entities.HitsAverage
	Found    bool
	Problems []string
}

// Aggregator computes hits and monthly averages from sales masters
type Aggregator struct {
	source Source
	now    func() time.Time
	logger *logrus.Logger
}

// NewAggregator creates an aggregator. now is the run clock; the window is
// derived from it on every call.
func NewAggregator(source Source, now func() time.Time, logger *logrus.Logger) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{source: source, now: now, logger: logger}
}

// Aggregate computes the metrics of every part sold by a branch in the
// window. Missing files, unusable sheets and empty windows give an empty
// result with Status Empty or Unavailable, never an error.
func (a *Aggregator) Aggregate(ctx context.Context, branch entities.Branch) *Result {
	window := entities.NewWindow(a.now())
	c := a.collect(ctx, branch, window)

	inWindow := FilterWindow(c.events, window)
	result := &Result{
		Branch:   branch,
		Window:   window,
		Files:    c.files,
		RawRows:  len(c.events),
		InWindow: len(inWindow),
		Metrics:  Summarize(inWindow),
		Problems: c.problems,
	}

	switch {
	case len(result.Metrics) > 0:
		result.Status = entities.SourceLoaded
	case c.unavailable:
		result.Status = entities.SourceUnavailable
	default:
		result.Status = entities.SourceEmpty
	}

	a.logger.WithContext(ctx).WithFields(logrus.Fields{
		"branch":    branch.Code,
		"window":    window.String(),
		"files":     len(c.files),
		"raw_rows":  result.RawRows,
		"in_window": result.InWindow,
		"parts":     len(result.Metrics),
		"status":    result.Status.String(),
	}).Info("sales aggregation finished")

	return result
}

// Audit traces one part through the same collection, window filter and
// summary as Aggregate
func (a *Aggregator) Audit(ctx context.Context, branch entities.Branch, partID entities.PartID) *PartAudit {
	window := entities.NewWindow(a.now())
	c := a.collect(ctx, branch, window)

	partID = entities.NormalizePartID(string(partID))
	mine := lo.Filter(c.events, func(e entities.SalesEvent, _ int) bool {
		return e.PartID == partID
	})
	inWindow := FilterWindow(mine, window)

	audit := &PartAudit{
		Branch:   branch,
		PartID:   partID,
		Window:   window,
		Files:    c.files,
		RawRows:  len(mine),
		InWindow: len(inWindow),
		Events:   inWindow,
		Metrics:  entities.HitsAverage{PartID: partID, NetQuantity: decimal.Zero, MonthlyAverage: decimal.Zero},
		Problems: c.problems,
	}
	if summary := Summarize(inWindow); len(summary) == 1 {
		audit.Metrics = summary[0]
		audit.Found = true
	}
	return audit
}

type collection struct {
	events      []entities.SalesEvent
	files       []string
	problems    []string
	unavailable bool
}

// collect discovers and reads every file of the branch for the window's
// years. Unreadable files are reported as problems and skipped.
func (a *Aggregator) collect(ctx context.Context, branch entities.Branch, window entities.Window) collection {
	log := a.logger.WithContext(ctx).WithField("branch", branch.Code)

	var c collection
	files, err := a.source.Discover(branch.SalesToken, window.Years())
	if err != nil {
		log.WithError(err).Warn("sales masters unavailable")
		c.problems = append(c.problems, err.Error())
		c.unavailable = true
		return c
	}
	if len(files) == 0 {
		log.WithField("years", window.Years()).Warn("no sales master files found")
		c.problems = append(c.problems, fmt.Sprintf("no sales master files for %s in %v", branch.Name, window.Years()))
		return c
	}

	c.files = files
	readOK := 0
	for _, file := range files {
		sheet, err := a.source.ReadSales(file)
		if err != nil {
			log.WithError(err).WithField("file", filepath.Base(file)).Warn("skipping sales master")
			c.problems = append(c.problems, describe(file, err))
			continue
		}
		readOK++
		c.events = append(c.events, Periodize(sheet)...)
	}
	c.unavailable = readOK == 0
	return c
}

func describe(file string, err error) string {
	base := filepath.Base(file)
	if strings.Contains(err.Error(), base) {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", base, err)
}

// Periodize turns raw sheet rows into events with their year*100+month
// period. Rows without a usable date or month get period 0.
func Periodize(sheet *entities.SalesSheet) []entities.SalesEvent {
	events := make([]entities.SalesEvent, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		ev := entities.SalesEvent{
			PartID:   r.PartID,
			Quantity: r.Quantity,
			Mode:     sheet.Mode,
			Date:     r.Date,
		}
		switch sheet.Mode {
		case entities.SalesByDate:
			if r.Date.Valid() {
				ev.Period = entities.PeriodOf(r.Date.Time.Year(), int(r.Date.Time.Month()))
			}
		case entities.SalesByYearMonth:
			if m := MonthNumber(r.Month); m > 0 && r.Year > 0 {
				ev.Period = entities.PeriodOf(r.Year, m)
			}
		}
		events = append(events, ev)
	}
	return events
}

// FilterWindow keeps the events inside the half-open window. Date mode
// events are tested by date, year/month events by period.
func FilterWindow(events []entities.SalesEvent, window entities.Window) []entities.SalesEvent {
	return lo.Filter(events, func(e entities.SalesEvent, _ int) bool {
		if e.Mode == entities.SalesByDate {
			return e.Date.Valid() && window.ContainsDate(e.Date.Time)
		}
		return window.ContainsPeriod(e.Period)
	})
}

// Summarize computes hits and monthly average per part, sorted by part
func Summarize(events []entities.SalesEvent) []entities.HitsAverage {
	byPart := make(map[entities.PartID]*entities.HitsAverage)
	for _, e := range events {
		m, ok := byPart[e.PartID]
		if !ok {
			m = &entities.HitsAverage{PartID: e.PartID, NetQuantity: decimal.Zero}
			byPart[e.PartID] = m
		}
		m.TotalEvents++
		if e.Quantity.IsNegative() {
			m.NegativeEvents++
		}
		m.NetQuantity = m.NetQuantity.Add(e.Quantity)
	}

	ids := lo.Keys(byPart)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]entities.HitsAverage, 0, len(ids))
	for _, id := range ids {
		m := byPart[id]
		m.Hits = entities.ComputeHits(m.TotalEvents, m.NegativeEvents)
		m.MonthlyAverage = entities.MonthlyAverage(m.NetQuantity)
		out = append(out, *m)
	}
	return out
}
