// internal/report/report.go
// Package report aggregates per-file decompilation statistics for a batch
// run and renders the end-of-run summary.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Sunnie-Evergale/stcm2l-psv/internal/util"
)

// FileStats records the outcome of one input file.
type FileStats struct {
	File       string `json:"file"`
	Format     string `json:"format"`
	Scanned    int    `json:"scanned"`
	Accepted   int    `json:"accepted"`
	Lines      int    `json:"lines"`
	ChoiceSets int    `json:"choiceSets"`
	Error      string `json:"error,omitempty"`
}

// Failed reports whether this file produced an error.
func (f FileStats) Failed() bool {
	return f.Error != ""
}

// Summary accumulates the statistics of a whole run.
type Summary struct {
	Files []FileStats `json:"files"`
}

// Add appends one file's statistics.
func (s *Summary) Add(stats FileStats) {
	s.Files = append(s.Files, stats)
}

// FailureCount returns how many files errored.
func (s *Summary) FailureCount() int {
	n := 0
	for _, f := range s.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

// Totals sums the counters across every successfully processed file.
func (s *Summary) Totals() (scanned, accepted, lines, choiceSets int) {
	for _, f := range s.Files {
		if f.Failed() {
			continue
		}
		scanned += f.Scanned
		accepted += f.Accepted
		lines += f.Lines
		choiceSets += f.ChoiceSets
	}
	return scanned, accepted, lines, choiceSets
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	fileStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	totalStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
)

// Render formats the run summary for the terminal.
func (s *Summary) Render() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-24s %-9s %8s %9s %6s %8s",
		"FILE", "FORMAT", "SCANNED", "ACCEPTED", "LINES", "CHOICES")))
	b.WriteString("\n")

	for _, f := range s.Files {
		if f.Failed() {
			b.WriteString(failureStyle.Render(fmt.Sprintf("%-24s %s",
				util.TruncateRunes(f.File, 24), f.Error)))
			b.WriteString("\n")
			continue
		}
		b.WriteString(fileStyle.Render(fmt.Sprintf("%-24s %-9s %8d %9d %6d %8d",
			util.TruncateRunes(f.File, 24), f.Format, f.Scanned, f.Accepted, f.Lines, f.ChoiceSets)))
		b.WriteString("\n")
	}

	scanned, accepted, lines, choiceSets := s.Totals()
	b.WriteString(totalStyle.Render(fmt.Sprintf("%d files (%d failed), %d records scanned, %d accepted, %d lines, %d choice sets",
		len(s.Files), s.FailureCount(), scanned, accepted, lines, choiceSets)))
	b.WriteString("\n")
	return b.String()
}

// WriteJSON exports the summary for downstream tooling.
func (s *Summary) WriteJSON(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := util.WriteFile(path, append(data, '\n')); err != nil {
		return fmt.Errorf("writing summary %q: %w", path, err)
	}
	return nil
}
