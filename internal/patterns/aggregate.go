package patterns

// Add folds another result for the same category into r. Counts are
// summed, which keeps the merged totals independent of the order files
// were scanned in; samples are appended up to maxSamples (zero or
// negative means unlimited).
func (r *CategoryResult) Add(other *CategoryResult, maxSamples int) {
	if other == nil {
		return
	}
	r.TriggerCount += other.TriggerCount
	r.QualityCount += other.QualityCount
	r.FalsePositiveCount += other.FalsePositiveCount
	r.InconclusiveFiles += other.InconclusiveFiles
	for _, s := range other.Samples {
		if maxSamples > 0 && len(r.Samples) >= maxSamples {
			break
		}
		r.Samples = append(r.Samples, s)
	}
}
