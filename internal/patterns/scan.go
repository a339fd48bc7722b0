package patterns

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mehmetkoksal-w/resilience-theater/internal/analysis"
)

// scanFile runs every catalog category over one file. The returned error
// is non-nil only when ctx is done; every other failure mode (binary
// leftovers, malformed text, budget overruns) degrades into the result.
func scanFile(ctx context.Context, f File, catalog *Catalog, cfg Config) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &FileResult{Path: f.Path, Results: make(map[Category]*CategoryResult)}
	if !scannable(f.Content) {
		res.Skipped = &Warning{Path: f.Path, Reason: "content is not valid UTF-8 text"}
		return res, nil
	}

	index := analysis.NewLineIndex(f.Content)
	contexts := analysis.ClassifyLines(f.Content, f.Language)

	var deadline time.Time
	if cfg.FileBudget > 0 {
		deadline = time.Now().Add(cfg.FileBudget)
	}

	cats := catalog.Categories()
	for ci, cat := range cats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		def := catalog.Lookup(cat, f.Language)
		cr, ok := scanCategory(f, def, index, contexts, deadline, cfg)
		if !ok {
			res.Inconclusive = append(res.Inconclusive, cats[ci:]...)
			break
		}
		res.Results[cat] = cr
	}
	return res, nil
}

// scanCategory collects, filters and grades one category's matches. ok is
// false when the file budget ran out mid-category; the partial matches
// are dropped so a truncated scan never masquerades as a complete one.
//
// Counts cover every match; Samples keep the first MaxSamples classified
// matches in scan order, suppressed ones included so a report can show
// what was filtered and why.
func scanCategory(f File, def Definition, index *analysis.LineIndex, contexts []analysis.LineContext, deadline time.Time, cfg Config) (*CategoryResult, bool) {
	cr := &CategoryResult{Category: def.Category}
	var keptLines []int

	for _, re := range def.Triggers {
		if overBudget(deadline) {
			return nil, false
		}
		for _, loc := range re.FindAllStringIndex(f.Content, -1) {
			line := index.LineAt(loc[0])
			start := index.LineStart(line)
			cm := ClassifiedMatch{RawMatch: RawMatch{
				Path:     f.Path,
				Category: def.Category,
				Line:     line,
				Start:    loc[0],
				End:      loc[1],
				Text:     f.Content[loc[0]:loc[1]],
				Context:  contexts[line-1],
			}}
			lineText := f.Content[start:index.LineEnd(line)]
			cm.Disposition, cm.Reason = classifyMatch(cm.Context, lineText, loc[0]-start, f.PatternSource)
			if cm.Disposition == DispositionFalsePositive {
				cr.FalsePositiveCount++
			} else {
				keptLines = append(keptLines, line)
			}
			if cfg.MaxSamples <= 0 || len(cr.Samples) < cfg.MaxSamples {
				cr.Samples = append(cr.Samples, cm)
			}
		}
	}

	if len(keptLines) > 0 {
		qlines, ok := qualityLines(def, f.Content, index, deadline)
		if !ok {
			return nil, false
		}
		for _, ln := range keptLines {
			if nearQuality(qlines, ln, cfg.Window) {
				cr.QualityCount++
			}
		}
		for i := range cr.Samples {
			if cr.Samples[i].Disposition != DispositionKept {
				continue
			}
			if nearQuality(qlines, cr.Samples[i].Line, cfg.Window) {
				cr.Samples[i].Grade = GradeQualityConfirmed
			} else {
				cr.Samples[i].Grade = GradeTriggerOnly
			}
		}
	}

	cr.TriggerCount = len(keptLines)
	return cr, true
}

// scannable rejects content the line scanner cannot make sense of:
// NUL bytes mean a binary slipped past collection, and invalid UTF-8
// would corrupt column arithmetic.
func scannable(content string) bool {
	return !strings.ContainsRune(content, 0) && utf8.ValidString(content)
}

func overBudget(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}
