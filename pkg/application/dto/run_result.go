package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/table"
)

// Source names used in outcomes
const (
	SourceSuggestions = "suggestions"
	SourceInventory   = "inventory"
	SourceTransit     = "transit"
	SourceTransfers   = "transfers"
	SourceSales       = "sales"
)

// SourceOutcome records what happened to one input of a branch
type SourceOutcome struct {
	Branch  string
	Source  string
	File    string
	Status  entities.SourceStatus
	Records int
	Message string
}

// BranchResult is the composed sheet of one branch
type BranchResult struct {
	Branch entities.Branch
	Sheet  string
	// Headers are the exported column labels, aligned with Table's columns
	Headers []string
	Table   *table.Table
}

// RunResult contains the complete output of one reconciliation run
type RunResult struct {
	RunID       string
	GeneratedAt time.Time
	Branches    []BranchResult
	Sources     []SourceOutcome
	Warnings    []string

	// Workbook holds the serialized report; it stays available when
	// publishing fails
	Workbook     []byte
	FileName     string
	LocalPath    string
	RemoteURI    string
	PublishError error
}

// Outcome returns the outcome of one source of a branch
func (r *RunResult) Outcome(branch, source string) (SourceOutcome, bool) {
	for _, o := range r.Sources {
		if o.Branch == branch && o.Source == source {
			return o, true
		}
	}
	return SourceOutcome{}, false
}

// GetSummary returns a formatted summary of the run
func (r *RunResult) GetSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s (%s)\n", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04:05"))
	for _, br := range r.Branches {
		fmt.Fprintf(&b, "  %s: %d parts, %d columns\n", br.Sheet, br.Table.Len(), len(br.Headers))
	}
	degraded := 0
	for _, o := range r.Sources {
		if o.Status != entities.SourceLoaded {
			degraded++
		}
	}
	fmt.Fprintf(&b, "  Sources: %d loaded, %d degraded, %d warnings\n", len(r.Sources)-degraded, degraded, len(r.Warnings))
	if r.LocalPath != "" {
		fmt.Fprintf(&b, "  Saved: %s\n", r.LocalPath)
	}
	switch {
	case r.RemoteURI != "":
		fmt.Fprintf(&b, "  Published: %s", r.RemoteURI)
	case r.PublishError != nil:
		fmt.Fprintf(&b, "  Publish failed: %v", r.PublishError)
	default:
		b.WriteString("  Published: no")
	}
	return b.String()
}
