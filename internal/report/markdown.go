package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs the status in Markdown format.
// This format is designed for sharing and CI job summaries.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables and lists
// 3. GitHub-flavored markdown output
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteStatus outputs the status in Markdown format.
func (w *MarkdownWriter) WriteStatus(status *Status) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, status)
	w.writeMonthly(md, status)
	w.writeRecent(md, status)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the aggregate state table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, status *Status) {
	md.H1("Daily Note Status")
	md.PlainText("")

	state := status.State
	last := state.LastPublishDate
	if last == "" {
		last = "(never)"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Last Publish", last},
			{"Total Notes", strconv.Itoa(state.TotalNotes)},
			{"Topics", strings.Join(state.Topics, ", ")},
		},
	})
	md.PlainText("")
}

// writeMonthly writes the notes-per-month table.
func (w *MarkdownWriter) writeMonthly(md *markdown.Markdown, status *Status) {
	if len(status.State.MonthlyStats) == 0 {
		return
	}

	md.H2("Notes per Month")
	md.PlainText("")

	rows := make([][]string, 0, len(status.State.MonthlyStats))
	for _, month := range sortedMonths(status.State.MonthlyStats) {
		rows = append(rows, []string{month, strconv.Itoa(status.State.MonthlyStats[month])})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Month", "Notes"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeRecent writes the recent note table, newest first.
func (w *MarkdownWriter) writeRecent(md *markdown.Markdown, status *Status) {
	if len(status.Recent) == 0 {
		return
	}

	md.H2("Recent Notes")
	md.PlainText("")

	rows := make([][]string, 0, len(status.Recent))
	for _, note := range status.Recent {
		rows = append(rows, []string{note.Date, TagHeading(note.Tag), note.Title})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Date", "Tag", "Title"},
		Rows:   rows,
	})
}
