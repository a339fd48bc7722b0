package verdict

import (
	"encoding/json"
	"math"

	"github.com/mehmetkoksal-w/resilience-theater/internal/patterns"
)

// TheaterMetrics summarizes a scan: how many resilience patterns were
// attempted, how many of them look deliberate, and the ratio between the
// two. A ratio above 1 means attempts outnumber deliberate
// implementations.
//
// When patterns were detected but none confirmed, the ratio is +Inf; a
// scan with no detections at all carries the neutral ratio 1.
type TheaterMetrics struct {
	PatternsDetected int     `json:"patterns_detected"`
	PatternsCorrect  int     `json:"patterns_correct"`
	TheaterRatio     float64 `json:"theater_ratio"`
}

// Compute folds per-category scan results into scan-level metrics.
func Compute(results map[patterns.Category]*patterns.CategoryResult) TheaterMetrics {
	var m TheaterMetrics
	for _, cr := range results {
		if cr == nil {
			continue
		}
		m.PatternsDetected += cr.TriggerCount
		m.PatternsCorrect += cr.QualityCount
	}
	m.TheaterRatio = ratio(m.PatternsDetected, m.PatternsCorrect)
	return m
}

func ratio(detected, correct int) float64 {
	switch {
	case detected == 0:
		return 1
	case correct == 0:
		return math.Inf(1)
	default:
		return float64(detected) / float64(correct)
	}
}

// metricsJSON is the wire shape: JSON has no infinity, so an undefined
// ratio is serialized as null and reconstructed on the way back in.
type metricsJSON struct {
	PatternsDetected int      `json:"patterns_detected"`
	PatternsCorrect  int      `json:"patterns_correct"`
	TheaterRatio     *float64 `json:"theater_ratio"`
}

func (m TheaterMetrics) MarshalJSON() ([]byte, error) {
	out := metricsJSON{
		PatternsDetected: m.PatternsDetected,
		PatternsCorrect:  m.PatternsCorrect,
	}
	if !math.IsInf(m.TheaterRatio, 0) {
		r := m.TheaterRatio
		out.TheaterRatio = &r
	}
	return json.Marshal(out)
}

func (m *TheaterMetrics) UnmarshalJSON(data []byte) error {
	var in metricsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.PatternsDetected = in.PatternsDetected
	m.PatternsCorrect = in.PatternsCorrect
	switch {
	case in.TheaterRatio != nil:
		m.TheaterRatio = *in.TheaterRatio
	case in.PatternsDetected > 0:
		m.TheaterRatio = math.Inf(1)
	default:
		m.TheaterRatio = 1
	}
	return nil
}
