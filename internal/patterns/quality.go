package patterns

import (
	"sort"
	"time"

	"github.com/mehmetkoksal-w/resilience-theater/internal/analysis"
)

// qualityLines returns the sorted set of lines where any quality
// indicator of the definition appears. Quality indicators confirm craft
// by proximity, so they are matched against the raw content without the
// suppression rules. ok is false on budget exhaustion.
func qualityLines(def Definition, content string, index *analysis.LineIndex, deadline time.Time) ([]int, bool) {
	seen := make(map[int]bool)
	for _, re := range def.Quality {
		if overBudget(deadline) {
			return nil, false
		}
		for _, loc := range re.FindAllStringIndex(content, -1) {
			seen[index.LineAt(loc[0])] = true
		}
	}
	lines := make([]int, 0, len(seen))
	for ln := range seen {
		lines = append(lines, ln)
	}
	sort.Ints(lines)
	return lines, true
}

// nearQuality reports whether any quality line falls within the window
// centered on line.
func nearQuality(lines []int, line, window int) bool {
	if window < 0 {
		window = 0
	}
	i := sort.SearchInts(lines, line-window)
	return i < len(lines) && lines[i] <= line+window
}
