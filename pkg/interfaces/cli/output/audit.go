package output

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/vsinha/replenish/pkg/application/services/sales"
)

// PrintAudit prints the trace of one part through the sales aggregation
func PrintAudit(w io.Writer, audit *sales.PartAudit, showEvents bool) {
	fmt.Fprintf(w, "🔍 Sales audit: part %s at %s\n", audit.PartID, audit.Branch.Name)
	fmt.Fprintf(w, "Window: %s\n", audit.Window)
	fmt.Fprintf(w, "Files:\n")
	if len(audit.Files) == 0 {
		fmt.Fprintf(w, "  (none)\n")
	}
	for _, f := range audit.Files {
		fmt.Fprintf(w, "  - %s\n", filepath.Base(f))
	}
	for _, p := range audit.Problems {
		fmt.Fprintf(w, "⚠️  %s\n", p)
	}

	fmt.Fprintf(w, "\nRows for part: %d\n", audit.RawRows)
	fmt.Fprintf(w, "Rows in window: %d\n", audit.InWindow)
	if !audit.Found {
		fmt.Fprintf(w, "No sales in window: HITS 0, PROMEDIO 0\n")
		return
	}

	m := audit.Metrics
	fmt.Fprintf(w, "Events: %d (negative: %d)\n", m.TotalEvents, m.NegativeEvents)
	fmt.Fprintf(w, "HITS: %d\n", m.Hits)
	fmt.Fprintf(w, "Net quantity: %s\n", FormatValue(m.NetQuantity))
	fmt.Fprintf(w, "PROMEDIO: %s\n", m.MonthlyAverage.StringFixed(4))

	if showEvents {
		fmt.Fprintf(w, "\n%-12s %-10s %-10s\n", "Date/Period", "Quantity", "Mode")
		fmt.Fprintf(w, "%-12s %-10s %-10s\n", "------------", "----------", "----------")
		for _, e := range audit.Events {
			when := fmt.Sprintf("%d", e.Period)
			if e.Date.Valid() {
				when = e.Date.Time.Format("02/01/2006")
			}
			fmt.Fprintf(w, "%-12s %-10s %-10s\n", when, FormatValue(e.Quantity), e.Mode)
		}
	}
}
