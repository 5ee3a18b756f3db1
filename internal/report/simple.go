package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// SimpleWriter outputs the status as plain text for terminals.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteStatus outputs the status in plain text.
func (w *SimpleWriter) WriteStatus(status *Status) (int, error) {
	var b strings.Builder

	b.WriteString("Daily Note Status\n")
	b.WriteString("=================\n\n")

	state := status.State
	last := state.LastPublishDate
	if last == "" {
		last = "(never)"
	}
	fmt.Fprintf(&b, "Last publish:  %s\n", last)
	fmt.Fprintf(&b, "Total notes:   %d\n", state.TotalNotes)
	if len(state.Topics) > 0 {
		fmt.Fprintf(&b, "Topics:        %s\n", strings.Join(state.Topics, ", "))
	}

	if len(state.MonthlyStats) > 0 {
		b.WriteString("\nNotes per month:\n")
		for _, month := range sortedMonths(state.MonthlyStats) {
			fmt.Fprintf(&b, "  %s  %d\n", month, state.MonthlyStats[month])
		}
	}

	if len(status.Recent) > 0 {
		b.WriteString("\nRecent notes:\n")
		for _, note := range status.Recent {
			fmt.Fprintf(&b, "  %s  [%s]  %s\n", note.Date, TagHeading(note.Tag), note.Title)
		}
	}

	return w.output.Write([]byte(b.String()))
}

// sortedMonths returns the map keys in descending order, newest month
// first. YYYY-MM keys sort correctly as strings.
func sortedMonths(stats map[string]int) []string {
	months := make([]string, 0, len(stats))
	for month := range stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}
