package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/mehmetkoksal-w/resilience-theater/internal/patterns"
	"github.com/mehmetkoksal-w/resilience-theater/internal/verdict"
)

// Formatter renders a report for one output surface.
type Formatter interface {
	Format(w io.Writer, rep *DetectionReport) error
}

// NewFormatter returns the formatter for a format name.
func NewFormatter(name string, colorize bool) (Formatter, error) {
	switch name {
	case "", "text":
		return TextFormatter{Color: colorize}, nil
	case "json":
		return JSONFormatter{}, nil
	case "markdown", "md":
		return MarkdownFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json or markdown)", name)
	}
}

// JSONFormatter writes the report as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Format(w io.Writer, rep *DetectionReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// TextFormatter writes the human terminal rendering.
type TextFormatter struct {
	Color bool
}

func (f TextFormatter) Format(w io.Writer, rep *DetectionReport) error {
	bold := f.sprint(color.Bold)
	dim := f.sprint(color.Faint)

	fmt.Fprintf(w, "%s\n", bold("resilience theater report"))
	fmt.Fprintf(w, "  root:       %s\n", rep.Root)
	fmt.Fprintf(w, "  scan:       %s\n", rep.ScanID)
	fmt.Fprintf(w, "  generated:  %s\n", rep.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  files:      %d scanned, %d lines\n", rep.FilesScanned, rep.TotalLines)
	if len(rep.Languages) > 0 {
		fmt.Fprintf(w, "  languages:  %s\n", languageSummary(rep.Languages))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-20s %9s %11s %11s %14s\n", "category", "detected", "deliberate", "suppressed", "inconclusive")
	for _, cr := range rep.Categories {
		fmt.Fprintf(w, "  %-20s %9d %11d %11d %14d\n",
			cr.Category, cr.TriggerCount, cr.QualityCount, cr.FalsePositiveCount, cr.InconclusiveFiles)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  theater ratio: %s\n", formatRatio(rep.Metrics))
	fmt.Fprintf(w, "  complexity:    %.1f (%s)\n", rep.Complexity.Score, rep.Complexity.Source)
	vs := f.verdictSprint(rep.Verdict)
	fmt.Fprintf(w, "\n  verdict: %s %s\n", vs(string(rep.Verdict)), dim("("+rep.Verdict.Description()+")"))

	if len(rep.Warnings) > 0 {
		fmt.Fprintf(w, "\n  warnings (%d):\n", len(rep.Warnings))
		for _, wrn := range rep.Warnings {
			fmt.Fprintf(w, "    %s: %s\n", wrn.Path, wrn.Reason)
		}
	}
	return nil
}

func (f TextFormatter) sprint(attrs ...color.Attribute) func(...any) string {
	if !f.Color {
		return fmt.Sprint
	}
	return color.New(attrs...).SprintFunc()
}

func (f TextFormatter) verdictSprint(v verdict.Verdict) func(...any) string {
	if !f.Color {
		return fmt.Sprint
	}
	switch v {
	case verdict.VerdictBattleHardened:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	case verdict.VerdictCargoCult:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case verdict.VerdictOverengineered:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgCyan, color.Bold).SprintFunc()
	}
}

// MarkdownFormatter writes the report as a markdown document.
type MarkdownFormatter struct{}

func (MarkdownFormatter) Format(w io.Writer, rep *DetectionReport) error {
	fmt.Fprintf(w, "# Resilience theater report\n\n")
	fmt.Fprintf(w, "- Root: `%s`\n", rep.Root)
	fmt.Fprintf(w, "- Scan: `%s`\n", rep.ScanID)
	fmt.Fprintf(w, "- Generated: %s\n", rep.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "- Files scanned: %d (%d lines)\n\n", rep.FilesScanned, rep.TotalLines)

	fmt.Fprintf(w, "| Category | Detected | Deliberate | Suppressed | Inconclusive files |\n")
	fmt.Fprintf(w, "|---|---:|---:|---:|---:|\n")
	for _, cr := range rep.Categories {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d |\n",
			cr.Category, cr.TriggerCount, cr.QualityCount, cr.FalsePositiveCount, cr.InconclusiveFiles)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Theater ratio: %s. Complexity: %.1f (%s).\n\n", formatRatio(rep.Metrics), rep.Complexity.Score, rep.Complexity.Source)
	fmt.Fprintf(w, "**Verdict: %s**: %s.\n", rep.Verdict, rep.Verdict.Description())

	if samples := topFindings(rep, 5); len(samples) > 0 {
		fmt.Fprintf(w, "\n## Findings\n\n")
		for _, s := range samples {
			fmt.Fprintf(w, "- `%s:%d` (%s, %s): `%s`\n", s.Path, s.Line, s.Category, s.Grade, strings.TrimSpace(s.Text))
		}
	}
	if len(rep.Warnings) > 0 {
		fmt.Fprintf(w, "\n## Warnings\n\n")
		for _, wrn := range rep.Warnings {
			fmt.Fprintf(w, "- `%s`: %s\n", wrn.Path, wrn.Reason)
		}
	}
	return nil
}

// topFindings picks up to n kept samples in report order.
func topFindings(rep *DetectionReport, n int) []patterns.ClassifiedMatch {
	var out []patterns.ClassifiedMatch
	for _, cr := range rep.Categories {
		for _, s := range cr.Samples {
			if s.Disposition != patterns.DispositionKept {
				continue
			}
			out = append(out, s)
			if len(out) == n {
				return out
			}
		}
	}
	return out
}

func formatRatio(m verdict.TheaterMetrics) string {
	if math.IsInf(m.TheaterRatio, 1) {
		return fmt.Sprintf("undefined (%d detected, none deliberate)", m.PatternsDetected)
	}
	return fmt.Sprintf("%.2f (%d detected / %d deliberate)", m.TheaterRatio, m.PatternsDetected, m.PatternsCorrect)
}

func languageSummary(langs map[string]int) string {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(langs))
	for n, c := range langs {
		entries = append(entries, entry{n, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s %d", e.name, e.count)
	}
	return strings.Join(parts, ", ")
}
