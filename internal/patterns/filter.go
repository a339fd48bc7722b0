package patterns

import "github.com/mehmetkoksal-w/resilience-theater/internal/analysis"

// classifyMatch applies the suppression rules in order; the first rule
// that fires decides the disposition. A match no rule claims is kept.
//
// Rule 1 drops matches on comment lines. Rule 2 drops matches on
// pattern-definition lines, whatever their comment state. Rule 3 applies
// only to files collected as pattern sources and drops matches sitting
// inside a string literal, where detector tables keep their expressions.
func classifyMatch(lineCtx analysis.LineContext, line string, col int, patternSource bool) (Disposition, FilterReason) {
	if lineCtx.Label != analysis.LabelCode {
		return DispositionFalsePositive, ReasonComment
	}
	if lineCtx.PatternDef {
		return DispositionFalsePositive, ReasonPatternDefinition
	}
	if patternSource && analysis.InsideStringLiteral(line, col) {
		return DispositionFalsePositive, ReasonExpressionLiteral
	}
	return DispositionKept, ""
}
