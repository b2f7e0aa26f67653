// Package report renders the human-readable console reports: the per-meat
// summary table and the list of observations lacking a standard error.
package report

import (
	"fmt"
	"io"

	"elastiplot/internal/elasticity"
)

// Writer renders reports to a destination, usually stdout.
type Writer struct {
	out io.Writer
}

// NewWriter creates a report writer targeting out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// PrintSummaryTable writes the per-meat-type summary statistics.
func (w *Writer) PrintSummaryTable(summaries []elasticity.SummaryRecord) {
	fmt.Fprintln(w.out, "\n=== ELASTICITY SUMMARY BY MEAT TYPE ===")
	fmt.Fprintln(w.out, "Meat    | Studies | With SE |    Mean |  Median |     Min |     Max")
	fmt.Fprintln(w.out, "--------|---------|---------|---------|---------|---------|--------")
	for _, s := range summaries {
		fmt.Fprintf(w.out, "%-7s | %7d | %7d | %7.3f | %7.3f | %7.3f | %7.3f\n",
			s.MeatType, s.NStudies, s.NWithSE,
			s.MeanElasticity, s.MedianElasticity, s.MinElasticity, s.MaxElasticity)
	}
}

// PrintMissingSE writes the observations that carry no standard error, in the
// order ListMissingSE produced them.
func (w *Writer) PrintMissingSE(missing []elasticity.ObservationRecord) {
	fmt.Fprintln(w.out, "\n=== OBSERVATIONS WITHOUT STANDARD ERROR ===")
	if len(missing) == 0 {
		fmt.Fprintln(w.out, "(none)")
		return
	}
	fmt.Fprintln(w.out, "Meat    | Study                | Elasticity")
	fmt.Fprintln(w.out, "--------|----------------------|-----------")
	for _, obs := range missing {
		fmt.Fprintf(w.out, "%-7s | %-20s | %10.3f\n",
			obs.MeatType, obs.StudyLabel, obs.Elasticity)
	}
}
