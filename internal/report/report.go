// Package report assembles, persists and renders detection reports.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mehmetkoksal-w/resilience-theater/internal/collect"
	"github.com/mehmetkoksal-w/resilience-theater/internal/complexity"
	"github.com/mehmetkoksal-w/resilience-theater/internal/patterns"
	"github.com/mehmetkoksal-w/resilience-theater/internal/validate"
	"github.com/mehmetkoksal-w/resilience-theater/internal/verdict"
	"github.com/mehmetkoksal-w/resilience-theater/schemas"
)

// SchemaVersion identifies the report shape; bump it when the JSON
// layout changes incompatibly.
const SchemaVersion = 1

// DetectionReport is the durable result of one scan. It carries the
// thresholds it was judged against so a stored verdict stays
// interpretable after defaults move.
type DetectionReport struct {
	SchemaVersion int                       `json:"schema_version"`
	ScanID        string                    `json:"scan_id"`
	Root          string                    `json:"root"`
	GeneratedAt   time.Time                 `json:"generated_at"`
	DurationMs    int64                     `json:"duration_ms"`
	FilesScanned  int                       `json:"files_scanned"`
	TotalLines    int                       `json:"total_lines"`
	Languages     map[string]int            `json:"languages,omitempty"`
	Categories    []patterns.CategoryResult `json:"categories"`
	Metrics       verdict.TheaterMetrics    `json:"metrics"`
	Complexity    complexity.Signal         `json:"complexity"`
	Verdict       verdict.Verdict           `json:"verdict"`
	Thresholds    verdict.Thresholds        `json:"thresholds"`
	Warnings      []patterns.Warning        `json:"warnings,omitempty"`
}

// BuildInput carries everything a report is assembled from.
type BuildInput struct {
	Root       string
	Categories []patterns.Category
	Outcome    *patterns.Outcome
	Collected  *collect.Result
	Complexity complexity.Signal
	Thresholds verdict.Thresholds
	Duration   time.Duration
}

// Build folds a scan outcome into a report, computing the metrics and
// the verdict on the way. Categories sets the report order.
func Build(in BuildInput) *DetectionReport {
	rep := &DetectionReport{
		SchemaVersion: SchemaVersion,
		ScanID:        uuid.NewString(),
		Root:          in.Root,
		GeneratedAt:   time.Now().UTC(),
		DurationMs:    in.Duration.Milliseconds(),
		Categories:    make([]patterns.CategoryResult, 0, len(in.Categories)),
		Complexity:    in.Complexity,
		Thresholds:    in.Thresholds,
	}

	for _, cat := range in.Categories {
		if cr := in.Outcome.Results[cat]; cr != nil {
			rep.Categories = append(rep.Categories, *cr)
		} else {
			rep.Categories = append(rep.Categories, patterns.CategoryResult{Category: cat})
		}
	}

	rep.FilesScanned = in.Outcome.FilesScanned
	if in.Collected != nil {
		rep.TotalLines = in.Collected.TotalLines
		rep.Languages = in.Collected.Languages
		rep.Warnings = append(rep.Warnings, in.Collected.Warnings...)
	}
	rep.Warnings = append(rep.Warnings, in.Outcome.Warnings...)

	rep.Metrics = verdict.Compute(in.Outcome.Results)
	rep.Verdict = verdict.Classify(rep.Metrics, in.Complexity.Score, in.Thresholds)
	return rep
}

// Result returns the category's entry, nil when the report has none.
func (r *DetectionReport) Result(cat patterns.Category) *patterns.CategoryResult {
	for i := range r.Categories {
		if r.Categories[i].Category == cat {
			return &r.Categories[i]
		}
	}
	return nil
}

// WriteJSON validates the report against the embedded schema and writes
// it to path, creating parent directories as needed.
func WriteJSON(path string, rep *DetectionReport) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if err := validate.Bytes(data, schemas.Report); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads and validates a stored report.
func LoadJSON(path string) (*DetectionReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses a report from raw JSON, validating it first.
func Decode(data []byte) (*DetectionReport, error) {
	if err := validate.Bytes(data, schemas.Report); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	var rep DetectionReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &rep, nil
}
