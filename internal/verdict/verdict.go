// Package verdict turns scan results into the theater metrics and the
// final quadrant verdict.
package verdict

// Verdict places a codebase in one of four quadrants spanned by pattern
// substance and code complexity.
type Verdict string

const (
	// VerdictBattleHardened: enough patterns, mostly deliberate,
	// complexity under control.
	VerdictBattleHardened Verdict = "BATTLE_HARDENED"

	// VerdictOverengineered: high complexity for the resilience
	// substance it carries.
	VerdictOverengineered Verdict = "OVERENGINEERED"

	// VerdictCargoCult: resilience patterns without the craft that
	// makes them work.
	VerdictCargoCult Verdict = "CARGO_CULT"

	// VerdictSimple: little resilience machinery and little
	// complexity.
	VerdictSimple Verdict = "SIMPLE"
)

// Description is the one-line reading of a verdict for human output.
func (v Verdict) Description() string {
	switch v {
	case VerdictBattleHardened:
		return "resilience patterns look deliberate and proportionate"
	case VerdictOverengineered:
		return "heavy machinery for the substance it delivers"
	case VerdictCargoCult:
		return "resilience theater: patterns without the craft behind them"
	case VerdictSimple:
		return "plain code with little resilience machinery"
	default:
		return "unknown verdict"
	}
}

// Thresholds are the tunable cutoffs of the classification. They ship
// with defaults and travel inside every report so a stored verdict stays
// interpretable after the defaults move.
type Thresholds struct {
	// CargoCultRatio is the theater ratio above which detections are
	// classified as cargo cult. Strictly greater fires the rule.
	CargoCultRatio float64 `json:"cargo_cult_ratio"`

	// MinPatterns is the detection count below which a codebase is too
	// quiet to judge on pattern substance.
	MinPatterns int `json:"min_patterns"`

	// HighComplexity is the complexity score at or above which a
	// codebase counts as complex.
	HighComplexity float64 `json:"high_complexity"`
}

// DefaultThresholds returns the shipped cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CargoCultRatio: 1.5,
		MinPatterns:    3,
		HighComplexity: 65.0,
	}
}

// Classify maps metrics plus a complexity score onto a verdict. The rules
// apply in order and the first match wins, so every input lands in
// exactly one quadrant:
//
//  1. patterns detected but none confirmed
//  2. theater ratio above CargoCultRatio
//  3. fewer than MinPatterns detections, split by complexity
//  4. otherwise split by complexity
func Classify(m TheaterMetrics, complexity float64, th Thresholds) Verdict {
	if m.PatternsDetected > 0 && m.PatternsCorrect == 0 {
		return VerdictCargoCult
	}
	if m.TheaterRatio > th.CargoCultRatio {
		return VerdictCargoCult
	}
	if m.PatternsDetected < th.MinPatterns {
		if complexity >= th.HighComplexity {
			return VerdictOverengineered
		}
		return VerdictSimple
	}
	if complexity >= th.HighComplexity {
		return VerdictOverengineered
	}
	return VerdictBattleHardened
}
