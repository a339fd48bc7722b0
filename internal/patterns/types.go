// Package patterns implements the resilience-theater detection core: the
// pattern catalog, the generic category scan, false-positive filtering,
// quality grading and corpus aggregation.
package patterns

import (
	"github.com/mehmetkoksal-w/resilience-theater/internal/analysis"
)

// Category identifies one family of resilience idioms.
type Category string

// Built-in categories.
const (
	CategoryRetry             Category = "retry"
	CategoryTimeout           Category = "timeout"
	CategoryCircuitBreaker    Category = "circuit-breaker"
	CategoryExceptionHandling Category = "exception-handling"
	CategoryLibrarySoup       Category = "library-soup"
)

// AllCategories returns the built-in categories in report order.
func AllCategories() []Category {
	return []Category{
		CategoryRetry,
		CategoryTimeout,
		CategoryCircuitBreaker,
		CategoryExceptionHandling,
		CategoryLibrarySoup,
	}
}

// Grade is the quality grade of a kept match.
type Grade string

const (
	// GradeTriggerOnly marks a match with no quality indicator nearby.
	GradeTriggerOnly Grade = "trigger_only"
	// GradeQualityConfirmed marks a match with at least one quality
	// indicator in its context window.
	GradeQualityConfirmed Grade = "quality_confirmed"
)

// Disposition is the filter decision for a raw match.
type Disposition string

const (
	DispositionKept          Disposition = "kept"
	DispositionFalsePositive Disposition = "false_positive"
)

// FilterReason records which rule discarded a match.
type FilterReason string

const (
	ReasonComment           FilterReason = "comment"
	ReasonPatternDefinition FilterReason = "pattern_definition"
	ReasonExpressionLiteral FilterReason = "expression_literal"
)

// File is one unit of corpus input. The collector owns reading and
// decoding; content arriving here is treated as text.
type File struct {
	Path     string
	Language analysis.Language
	Content  string
	// PatternSource marks files that define pattern tables themselves,
	// which get the extra-conservative filter treatment.
	PatternSource bool
}

// RawMatch is a single trigger occurrence before filtering.
type RawMatch struct {
	Path     string   `json:"path"`
	Category Category `json:"category"`
	Line     int      `json:"line"`
	// Start and End are byte offsets into the file content.
	Start   int                  `json:"start"`
	End     int                  `json:"end"`
	Text    string               `json:"text"`
	Context analysis.LineContext `json:"-"`
}

// ClassifiedMatch is a RawMatch after filtering and, when kept, grading.
type ClassifiedMatch struct {
	RawMatch
	Disposition Disposition  `json:"disposition"`
	Reason      FilterReason `json:"reason,omitempty"`
	Grade       Grade        `json:"grade,omitempty"`
}

// CategoryResult accumulates one category's counts, per file or per
// corpus. Counts obey quality <= trigger; false positives and
// inconclusive files contribute to neither.
type CategoryResult struct {
	Category           Category          `json:"category"`
	TriggerCount       int               `json:"trigger_count"`
	QualityCount       int               `json:"quality_count"`
	FalsePositiveCount int               `json:"false_positive_count"`
	InconclusiveFiles  int               `json:"inconclusive_files"`
	Samples            []ClassifiedMatch `json:"samples,omitempty"`
}

// Warning records a file the scan skipped and why.
type Warning struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// FileResult is the outcome of scanning a single file. Results for
// different files never depend on each other.
type FileResult struct {
	Path string
	// Results holds one entry per catalog category unless that category
	// went inconclusive for this file.
	Results map[Category]*CategoryResult
	// Inconclusive lists categories whose scan exceeded the file budget.
	Inconclusive []Category
	// Skipped is set when the content was not scannable text.
	Skipped *Warning
}
