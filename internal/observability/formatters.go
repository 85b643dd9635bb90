// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/faculty-enricher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxBiodataChars is how much of a biography a record box shows
	maxBiodataChars = 120
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
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

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// PrintDiscoveredURLs outputs the faculty URLs found on a listing page.
func (p *Printer) PrintDiscoveredURLs(listingURL string, urls []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Listing: %s\n", listingURL))
	sb.WriteString(fmt.Sprintf("Found:   %d faculty pages\n", len(urls)))
	if len(urls) > 0 {
		sb.WriteString("\n")
	}
	count := min(len(urls), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", urls[i]))
	}
	if len(urls) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(urls)-maxItemsToShow))
	}
	p.printBox("Discovered Faculty", sb.String())
}

// PrintRecord outputs a human-readable summary of one faculty record.
func (p *Printer) PrintRecord(rec *types.FacultyRecord) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:       %s\n", orDash(rec.FacultyName)))
	sb.WriteString(fmt.Sprintf("Department: %s\n", orDash(rec.FacultyDepartmentName)))
	sb.WriteString(fmt.Sprintf("University: %s\n", orDash(rec.FacultyUniversityName)))
	sb.WriteString(fmt.Sprintf("Location:   %s\n", rec.FacultyLocation))
	sb.WriteString(fmt.Sprintf("Phone:      %s\n", orDash(rec.FacultyPhone)))
	sb.WriteString(fmt.Sprintf("Email:      %s\n", orDash(rec.FacultyEmail)))
	sb.WriteString(fmt.Sprintf("Homepage:   %s\n", rec.FacultyHomepageURL))

	if rec.FacultyExpertise != nil && *rec.FacultyExpertise != "" {
		sb.WriteString("\nExpertise:\n")
		words := strings.Fields(*rec.FacultyExpertise)
		count := min(len(words), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", words[i]))
		}
		if len(words) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(words)-maxItemsToShow))
		}
	}

	if rec.FacultyBiodata != nil && *rec.FacultyBiodata != "" {
		bio := []rune(*rec.FacultyBiodata)
		sb.WriteString(fmt.Sprintf("\nBiodata: %d chars\n", len(bio)))
		if len(bio) > maxBiodataChars {
			bio = append(bio[:maxBiodataChars], []rune("...")...)
		}
		sb.WriteString(string(bio))
		sb.WriteString("\n")
	}

	p.printBox("Faculty Record", sb.String())
}

// RunSummary is the data shown by PrintRunSummary.
type RunSummary struct {
	DepartmentURL string
	Discovered    int
	Extracted     int
	Failed        int
	Duration      time.Duration
	Sinks         []string
}

// PrintRunSummary outputs the totals of a department run.
func (p *Printer) PrintRunSummary(s RunSummary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Department: %s\n", s.DepartmentURL))
	sb.WriteString(fmt.Sprintf("Discovered: %d\n", s.Discovered))
	sb.WriteString(fmt.Sprintf("Extracted:  %d\n", s.Extracted))
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", s.Failed))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", s.Duration.Round(time.Millisecond)))
	if len(s.Sinks) > 0 {
		sb.WriteString(fmt.Sprintf("Sinks:      %s\n", strings.Join(s.Sinks, ", ")))
	}
	p.printBox("Run Summary", sb.String())
}

// PrintRecordTable outputs one line per record: name, email and homepage.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRecordTable(records []types.FacultyRecord) {
	if len(records) == 0 {
		fmt.Fprintln(p.out, "No records.")
		return
	}
	fmt.Fprintf(p.out, "%-28s %-32s %s\n", "NAME", "EMAIL", "HOMEPAGE")
	for _, r := range records {
		fmt.Fprintf(p.out, "%-28s %-32s %s\n", orDash(r.FacultyName), orDash(r.FacultyEmail), r.FacultyHomepageURL)
	}
}
