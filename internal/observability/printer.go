// Package observability provides formatted run summaries for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/takumi/hellowork-collector/internal/detail"
	"github.com/takumi/hellowork-collector/internal/harvest"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// Printer handles formatted summary output.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer that writes to the given writer.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintHarvestSummary outputs a human-readable summary of a pagination
// run, including every saved artifact path and whether a further page is
// believed to exist.
func (p *Printer) PrintHarvestSummary(res *harvest.RunResult) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pages saved:   %d\n", res.PagesSaved))
	sb.WriteString(fmt.Sprintf("Records:       %d\n", res.Records))
	sb.WriteString(fmt.Sprintf("More pages:    %v\n", res.MorePages))
	sb.WriteString("\n")
	for _, path := range res.SavedFiles {
		sb.WriteString(fmt.Sprintf("  %s\n", path))
	}

	p.printBox("Harvest Summary", strings.TrimRight(sb.String(), "\n"))
}

// PrintDetailSummary outputs the per-row outcome counts of a detail or
// enrichment run and the artifacts it wrote.
func (p *Printer) PrintDetailSummary(title string, stats *detail.Stats, savedFiles ...string) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fetched:        %d\n", stats.Fetched))
	sb.WriteString(fmt.Sprintf("Skipped:        %d\n", stats.Skipped))
	sb.WriteString(fmt.Sprintf("No identifier:  %d\n", stats.NoIdentifier))
	sb.WriteString(fmt.Sprintf("Failed:         %d\n", stats.Failed))
	if len(savedFiles) > 0 {
		sb.WriteString("\n")
		for _, path := range savedFiles {
			sb.WriteString(fmt.Sprintf("  %s\n", path))
		}
	}

	p.printBox(title, strings.TrimRight(sb.String(), "\n"))
}

// PrintMergeSummary outputs the merged batch's shape and output path.
func (p *Printer) PrintMergeSummary(rows, columns int, outputPath string) {
	content := fmt.Sprintf("Rows:     %d\nColumns:  %d\n\n  %s", rows, columns, outputPath)
	p.printBox("Merge Summary", content)
}
