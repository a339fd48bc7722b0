// Package config loads the theater.jsonc workspace configuration and
// resolves its defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mehmetkoksal-w/resilience-theater/internal/collect"
	"github.com/mehmetkoksal-w/resilience-theater/internal/jsonc"
	"github.com/mehmetkoksal-w/resilience-theater/internal/patterns"
	"github.com/mehmetkoksal-w/resilience-theater/internal/validate"
	"github.com/mehmetkoksal-w/resilience-theater/internal/verdict"
	"github.com/mehmetkoksal-w/resilience-theater/schemas"
	"github.com/mehmetkoksal-w/resilience-theater/starter"
)

// FileName is the configuration file looked up under the scan root.
const FileName = "theater.jsonc"

// WorkDirName is the tool's workspace directory under the scan root.
const WorkDirName = ".theater"

// Defaults applied when the file or a field is absent.
const (
	DefaultFileBudget = 2 * time.Second
	DefaultMaxSamples = 10
)

// Config mirrors theater.jsonc. Fields whose zero value is a meaningful
// setting are pointers so that absent and explicit-zero stay apart.
type Config struct {
	Scan       ScanConfig       `json:"scan"`
	Verdict    VerdictConfig    `json:"verdict"`
	Complexity ComplexityConfig `json:"complexity"`
	History    HistoryConfig    `json:"history"`
}

type ScanConfig struct {
	MaxWorkers            int      `json:"maxWorkers"`
	FileBudgetMs          *int     `json:"fileBudgetMs"`
	QualityWindow         *int     `json:"qualityWindow"`
	MaxSamplesPerCategory *int     `json:"maxSamplesPerCategory"`
	Include               []string `json:"include"`
	Exclude               []string `json:"exclude"`
	PatternSources        []string `json:"patternSources"`
	MaxFileSizeBytes      int64    `json:"maxFileSizeBytes"`
}

type VerdictConfig struct {
	CargoCultRatio *float64 `json:"cargoCultRatio"`
	MinPatterns    *int     `json:"minPatterns"`
	HighComplexity *float64 `json:"highComplexity"`
}

type ComplexityConfig struct {
	Command []string `json:"command"`
}

type HistoryConfig struct {
	Enabled *bool  `json:"enabled"`
	Path    string `json:"path"`
}

// Load reads the configuration for root. An explicit path must exist;
// the implicit theater.jsonc under root may be absent, which yields the
// defaults. Present files are schema-validated before use.
func Load(root, explicit string) (*Config, error) {
	path := explicit
	if path == "" {
		path = filepath.Join(root, FileName)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return &Config{}, nil
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}
	if err := validate.JSONC(path, schemas.Config); err != nil {
		return nil, err
	}
	var cfg Config
	if err := jsonc.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EngineConfig resolves the scan section into engine tunables.
func (c *Config) EngineConfig() patterns.Config {
	cfg := patterns.Config{
		Workers:    c.Scan.MaxWorkers,
		Window:     patterns.DefaultWindow,
		MaxSamples: DefaultMaxSamples,
		FileBudget: DefaultFileBudget,
	}
	if c.Scan.QualityWindow != nil {
		cfg.Window = *c.Scan.QualityWindow
	}
	if c.Scan.MaxSamplesPerCategory != nil {
		cfg.MaxSamples = *c.Scan.MaxSamplesPerCategory
	}
	if c.Scan.FileBudgetMs != nil {
		cfg.FileBudget = time.Duration(*c.Scan.FileBudgetMs) * time.Millisecond
	}
	return cfg
}

// CollectOptions resolves the scan section into collection filters.
func (c *Config) CollectOptions() collect.Options {
	return collect.Options{
		Include:        c.Scan.Include,
		Exclude:        c.Scan.Exclude,
		PatternSources: c.Scan.PatternSources,
		MaxFileSize:    c.Scan.MaxFileSizeBytes,
	}
}

// Thresholds resolves the verdict section over the shipped defaults.
func (c *Config) Thresholds() verdict.Thresholds {
	th := verdict.DefaultThresholds()
	if c.Verdict.CargoCultRatio != nil {
		th.CargoCultRatio = *c.Verdict.CargoCultRatio
	}
	if c.Verdict.MinPatterns != nil {
		th.MinPatterns = *c.Verdict.MinPatterns
	}
	if c.Verdict.HighComplexity != nil {
		th.HighComplexity = *c.Verdict.HighComplexity
	}
	return th
}

// ComplexityCommand returns the configured scorer argv, nil when unset.
func (c *Config) ComplexityCommand() []string {
	return c.Complexity.Command
}

// HistoryEnabled reports whether scans are recorded; the default is on.
func (c *Config) HistoryEnabled() bool {
	if c.History.Enabled != nil {
		return *c.History.Enabled
	}
	return true
}

// HistoryPath resolves the history database location under root.
func (c *Config) HistoryPath(root string) string {
	p := c.History.Path
	if p == "" {
		p = filepath.Join(WorkDirName, "history.db")
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return p
}

// EnsureLayout creates the workspace directory tree under root.
func EnsureLayout(root string) (string, error) {
	dir := filepath.Join(root, WorkDirName)
	dirs := []string{
		dir,
		filepath.Join(dir, "reports"),
		filepath.Join(dir, "schemas"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", d, err)
		}
	}
	return dir, nil
}

// WriteStarter writes the starter theater.jsonc unless one exists.
func WriteStarter(root string, allowOverwrite bool) error {
	dest := filepath.Join(root, FileName)
	if _, err := os.Stat(dest); err == nil && !allowOverwrite {
		return nil
	}
	contents := starter.Config(time.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(dest, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}

// CopySchemas exports the embedded schemas into .theater/schemas so the
// validated shapes are inspectable. The embedded copies stay canonical.
func CopySchemas(root string) error {
	schemaDir := filepath.Join(root, WorkDirName, "schemas")
	if err := os.MkdirAll(schemaDir, 0o755); err != nil {
		return fmt.Errorf("ensure schema dir: %w", err)
	}
	schemaMap, err := schemas.List()
	if err != nil {
		return err
	}
	for name, data := range schemaMap {
		dest := filepath.Join(schemaDir, fmt.Sprintf("%s.schema.json", name))
		if existing, err := os.ReadFile(dest); err == nil && string(existing) == string(data) {
			continue
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
	}
	return nil
}
