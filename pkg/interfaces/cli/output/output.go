package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/replenish/pkg/application/dto"
	"github.com/vsinha/replenish/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format      string
	PreviewRows int
	Verbose     bool
	Elapsed     time.Duration
}

// Positions of the preview columns in a branch sheet
var previewColumns = []int{0, 1, 4, 8, 10, 11, 12, 14, 16, 17, 18, 19}

// Generate writes the run summary in the requested format
func Generate(w io.Writer, result *dto.RunResult, config Config) error {
	switch config.Format {
	case "", "text":
		return generateTextOutput(w, result, config)
	case "json":
		return generateJSONOutput(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(w io.Writer, result *dto.RunResult, config Config) error {
	fmt.Fprintf(w, "📊 Purchasing Analysis %s\n", result.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "=====================================\n\n")
	if config.Verbose {
		fmt.Fprintf(w, "Run: %s\n", result.RunID)
		fmt.Fprintf(w, "Elapsed: %v\n\n", config.Elapsed)
	}

	PrintSources(w, result.Sources)

	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, "⚠️  Warnings:\n")
		for _, msg := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
		fmt.Fprintln(w)
	}

	for _, br := range result.Branches {
		PrintPreview(w, br, config.PreviewRows)
	}

	if result.LocalPath != "" {
		fmt.Fprintf(w, "💾 Report saved to: %s\n", result.LocalPath)
	}
	switch {
	case result.RemoteURI != "":
		fmt.Fprintf(w, "☁️  Report published to: %s\n", result.RemoteURI)
	case result.PublishError != nil:
		fmt.Fprintf(w, "❌ Publishing failed: %v\n", result.PublishError)
		fmt.Fprintf(w, "   The report above is complete; check the storage credentials and permissions, then upload %s manually.\n", result.FileName)
	}
	return nil
}

// PrintSources prints the outcome of every input
func PrintSources(w io.Writer, sources []dto.SourceOutcome) {
	fmt.Fprintf(w, "📂 Sources:\n")
	fmt.Fprintf(w, "%-12s %-12s %-12s %-8s %s\n", "Branch", "Source", "Status", "Records", "Detail")
	fmt.Fprintf(w, "%-12s %-12s %-12s %-8s %s\n", "------------", "------------", "------------", "--------", "------")
	for _, s := range sources {
		detail := s.Message
		if detail == "" && s.File != "" {
			detail = filepath.Base(s.File)
		}
		fmt.Fprintf(w, "%-12s %-12s %-12s %-8d %s\n", s.Branch, s.Source, statusIcon(s.Status)+s.Status.String(), s.Records, detail)
	}
	fmt.Fprintln(w)
}

// PrintPreview prints the first rows of a branch sheet under its export headers
func PrintPreview(w io.Writer, br dto.BranchResult, rows int) {
	if rows <= 0 || br.Table == nil {
		return
	}
	if rows > br.Table.Len() {
		rows = br.Table.Len()
	}
	columns := br.Table.Columns()

	fmt.Fprintf(w, "📋 Preview: %s (%d of %d rows)\n", br.Sheet, rows, br.Table.Len())
	var header, rule []string
	for _, i := range previewColumns {
		if i >= len(columns) {
			continue
		}
		header = append(header, fmt.Sprintf("%-14s", truncate(br.Headers[i], 14)))
		rule = append(rule, strings.Repeat("-", 14))
	}
	fmt.Fprintln(w, strings.Join(header, " "))
	fmt.Fprintln(w, strings.Join(rule, " "))

	for r := 0; r < rows; r++ {
		var cells []string
		for _, i := range previewColumns {
			if i >= len(columns) {
				continue
			}
			cells = append(cells, fmt.Sprintf("%-14s", truncate(FormatValue(br.Table.Value(r, columns[i])), 14)))
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
	fmt.Fprintln(w)
}

// FormatValue renders a table cell for the terminal
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		if x.IsInteger() {
			return x.String()
		}
		return x.StringFixed(2)
	case time.Time:
		return x.Format("02/01/2006")
	default:
		return fmt.Sprint(x)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func statusIcon(s entities.SourceStatus) string {
	switch s {
	case entities.SourceLoaded:
		return "✅ "
	case entities.SourceEmpty, entities.SourceSkipped:
		return "➖ "
	default:
		return "❌ "
	}
}

type jsonSource struct {
	Branch  string `json:"branch"`
	Source  string `json:"source"`
	File    string `json:"file,omitempty"`
	Status  string `json:"status"`
	Records int    `json:"records"`
	Message string `json:"message,omitempty"`
}

type jsonBranch struct {
	Code  string `json:"code"`
	Sheet string `json:"sheet"`
	Rows  int    `json:"rows"`
}

type jsonRun struct {
	RunID        string       `json:"run_id"`
	GeneratedAt  time.Time    `json:"generated_at"`
	FileName     string       `json:"file_name"`
	LocalPath    string       `json:"local_path,omitempty"`
	RemoteURI    string       `json:"remote_uri,omitempty"`
	PublishError string       `json:"publish_error,omitempty"`
	Branches     []jsonBranch `json:"branches"`
	Sources      []jsonSource `json:"sources"`
	Warnings     []string     `json:"warnings"`
}

// generateJSONOutput creates JSON output
func generateJSONOutput(w io.Writer, result *dto.RunResult) error {
	run := jsonRun{
		RunID:       result.RunID,
		GeneratedAt: result.GeneratedAt,
		FileName:    result.FileName,
		LocalPath:   result.LocalPath,
		RemoteURI:   result.RemoteURI,
		Warnings:    result.Warnings,
	}
	if result.PublishError != nil {
		run.PublishError = result.PublishError.Error()
	}
	for _, br := range result.Branches {
		run.Branches = append(run.Branches, jsonBranch{Code: br.Branch.Code, Sheet: br.Sheet, Rows: br.Table.Len()})
	}
	for _, s := range result.Sources {
		run.Sources = append(run.Sources, jsonSource{
			Branch:  s.Branch,
			Source:  s.Source,
			File:    s.File,
			Status:  s.Status.String(),
			Records: s.Records,
			Message: s.Message,
		})
	}

	jsonData, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
