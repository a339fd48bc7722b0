// Package complexity produces the score that positions a scan on the
// complexity axis of the verdict quadrant.
package complexity

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/mehmetkoksal-w/resilience-theater/internal/logger"
)

// SourceSizeProxy marks a score derived from codebase size instead of a
// configured scorer.
const SourceSizeProxy = "size-proxy"

// Signal is a complexity score plus where it came from, so a report
// reader knows whether a real analyzer or the size proxy produced it.
type Signal struct {
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// Measure resolves the complexity signal for a scan: the configured
// command when one is set and succeeds, the size proxy otherwise.
func Measure(ctx context.Context, command []string, dir string, files, lines int) Signal {
	if len(command) > 0 {
		score, err := Run(ctx, command, dir)
		if err == nil {
			return Signal{Score: score, Source: command[0]}
		}
		logger.Warn("complexity command failed, falling back to size proxy: %v", err)
	}
	return Signal{Score: SizeProxy(files, lines), Source: SourceSizeProxy}
}

// Run executes the scorer in dir and reads the last number on its
// stdout. Reading only the final number lets anything from a one-line
// wc pipeline to a full analyzer serve as the scorer.
func Run(ctx context.Context, command []string, dir string) (float64, error) {
	if len(command) == 0 {
		return 0, errors.New("no complexity command configured")
	}
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("complexity command %q: %w", command[0], err)
	}
	score, err := lastNumber(string(out))
	if err != nil {
		return 0, fmt.Errorf("complexity command %q: %w", command[0], err)
	}
	return score, nil
}

var numberRe = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)

func lastNumber(s string) (float64, error) {
	hits := numberRe.FindAllString(s, -1)
	if len(hits) == 0 {
		return 0, errors.New("output carries no number")
	}
	return strconv.ParseFloat(hits[len(hits)-1], 64)
}

// SizeProxy maps raw codebase size onto a bounded 0-100 score. Files
// weigh more than lines because sprawl across files tracks structural
// complexity better than long files do; the scale is anchored so 25k
// weighted lines land at 50.
func SizeProxy(files, lines int) float64 {
	if files <= 0 && lines <= 0 {
		return 0
	}
	weighted := float64(lines) + 200*float64(files)
	return 100 * weighted / (weighted + 25000)
}
