// Package collect walks a codebase and gathers the source files a scan
// will run over, tagging each with its language and its pattern-source
// role.
package collect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mehmetkoksal-w/resilience-theater/internal/analysis"
	"github.com/mehmetkoksal-w/resilience-theater/internal/fsutil"
	"github.com/mehmetkoksal-w/resilience-theater/internal/logger"
	"github.com/mehmetkoksal-w/resilience-theater/internal/patterns"
)

// DefaultMaxFileSize caps how much of a single file a scan will take on.
const DefaultMaxFileSize = 1 << 20

// DefaultSkipDirs are directory names never worth descending into.
func DefaultSkipDirs() map[string]bool {
	return map[string]bool{
		".git":         true,
		".hg":          true,
		".svn":         true,
		".theater":     true,
		"node_modules": true,
		"vendor":       true,
		"__pycache__":  true,
		".venv":        true,
		"dist":         true,
		"build":        true,
		"target":       true,
		".next":        true,
	}
}

// DefaultPatternSources are the path globs that mark a file as part of a
// detector's own pattern tables, which switches on the string-literal
// suppression rule for it.
func DefaultPatternSources() []string {
	return []string{
		"**/*pattern*",
		"**/*catalog*",
		"**/patterns/**",
	}
}

// Options controls collect behavior.
type Options struct {
	// Include keeps only matching paths when non-empty.
	Include []string

	// Exclude drops matching paths.
	Exclude []string

	// PatternSources mark detector pattern tables; nil means the
	// defaults.
	PatternSources []string

	// MaxFileSize drops larger files; zero means DefaultMaxFileSize,
	// negative disables the cap.
	MaxFileSize int64

	// SkipDirs overrides the directory names to prune; nil means the
	// defaults.
	SkipDirs map[string]bool
}

// Result is a collected file set plus what was learned on the way.
type Result struct {
	Files      []patterns.File
	Languages  map[string]int
	TotalLines int
	Warnings   []patterns.Warning
}

// Collect walks root and loads every source file that passes the
// filters. Paths in the result are slash-separated and relative to
// root. Unreadable, oversized or binary files turn into warnings, not
// errors; only a failed walk aborts the collection.
func Collect(root string, opts Options) (*Result, error) {
	skip := opts.SkipDirs
	if skip == nil {
		skip = DefaultSkipDirs()
	}
	sources := opts.PatternSources
	if sources == nil {
		sources = DefaultPatternSources()
	}
	maxSize := opts.MaxFileSize
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}

	paths, err := fsutil.ListFiles(root, skip)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	res := &Result{Languages: make(map[string]int)}
	for _, rel := range paths {
		if len(opts.Include) > 0 && !fsutil.MatchesAny(rel, opts.Include) {
			continue
		}
		if fsutil.MatchesAny(rel, opts.Exclude) {
			continue
		}
		if !analysis.IsSource(rel) {
			continue
		}

		abs := filepath.Join(root, filepath.FromSlash(rel))
		info, err := os.Stat(abs)
		if err != nil {
			res.Warnings = append(res.Warnings, patterns.Warning{Path: rel, Reason: "stat failed: " + err.Error()})
			continue
		}
		if maxSize > 0 && info.Size() > maxSize {
			res.Warnings = append(res.Warnings, patterns.Warning{Path: rel, Reason: fmt.Sprintf("file exceeds %d bytes", maxSize)})
			continue
		}

		content, err := os.ReadFile(abs)
		if err != nil {
			res.Warnings = append(res.Warnings, patterns.Warning{Path: rel, Reason: "read failed: " + err.Error()})
			continue
		}
		if fsutil.IsBinary(content) {
			res.Warnings = append(res.Warnings, patterns.Warning{Path: rel, Reason: "binary content"})
			continue
		}

		lang := analysis.DetectLanguage(rel)
		res.Files = append(res.Files, patterns.File{
			Path:          rel,
			Language:      lang,
			Content:       string(content),
			PatternSource: fsutil.MatchesAny(rel, sources),
		})
		res.Languages[string(lang)]++
		res.TotalLines += countLines(content)
	}

	logger.Debug("collected %d files (%d warnings) under %s", len(res.Files), len(res.Warnings), root)
	return res, nil
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := strings.Count(string(content), "\n")
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
