// Package cli implements the theater command surface.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mehmetkoksal-w/resilience-theater/internal/collect"
	"github.com/mehmetkoksal-w/resilience-theater/internal/complexity"
	"github.com/mehmetkoksal-w/resilience-theater/internal/config"
	"github.com/mehmetkoksal-w/resilience-theater/internal/logger"
	"github.com/mehmetkoksal-w/resilience-theater/internal/patterns"
	"github.com/mehmetkoksal-w/resilience-theater/internal/report"
	"github.com/mehmetkoksal-w/resilience-theater/internal/store"
)

// Run dispatches the given command line arguments.
func Run(args []string) error {
	if len(args) == 0 {
		return usage()
	}
	switch args[0] {
	case "version", "--version", "-v":
		return cmdVersion()
	case "init":
		return cmdInit(args[1:])
	case "scan":
		return cmdScan(args[1:])
	case "report":
		return cmdReport(args[1:])
	case "history":
		return cmdHistory(args[1:])
	case "catalog":
		return cmdCatalog(args[1:])
	case "help", "-h", "--help":
		return usage()
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage() error {
	fmt.Println(`theater commands: scan | report | history | init | catalog | version

Flags go before the path argument.

Examples:
  theater init
  theater scan
  theater scan --format markdown ./services/api
  theater report 3f2a91c4
  theater report .theater/reports/<scan-id>.json
  theater history --limit 5
  theater catalog`)
	return nil
}

func applyLogLevel(verbose, debug bool) {
	switch {
	case debug:
		logger.SetLevel(logger.LevelDebug)
	case verbose:
		logger.SetLevel(logger.LevelInfo)
	}
}

func cmdScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	configPath := fs.String("config", "", "explicit config file (default <root>/theater.jsonc)")
	format := fs.String("format", "text", "output format: text, json or markdown")
	jsonOut := fs.Bool("json", false, "shorthand for --format json")
	workers := fs.Int("workers", 0, "parallel file scanners (overrides config)")
	noHistory := fs.Bool("no-history", false, "do not record this scan in the history database")
	noColor := fs.Bool("no-color", false, "disable colored output")
	verbose := fs.Bool("verbose", false, "log scan progress to stderr")
	debug := fs.Bool("debug", false, "log per-file detection detail to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	applyLogLevel(*verbose, *debug)

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	rootPath, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	cfg, err := config.Load(rootPath, *configPath)
	if err != nil {
		return err
	}
	engineCfg := cfg.EngineConfig()
	if *workers > 0 {
		engineCfg.Workers = *workers
	}

	started := time.Now()
	collected, err := collect.Collect(rootPath, cfg.CollectOptions())
	if err != nil {
		return err
	}
	logger.Info("collected %d files (%d lines) under %s", len(collected.Files), collected.TotalLines, rootPath)

	catalog := patterns.Default()
	engine := patterns.NewEngine(catalog, engineCfg)
	outcome, err := engine.Scan(context.Background(), collected.Files)
	if err != nil {
		return err
	}

	signal := complexity.Measure(context.Background(), cfg.ComplexityCommand(), rootPath, len(collected.Files), collected.TotalLines)

	rep := report.Build(report.BuildInput{
		Root:       rootPath,
		Categories: catalog.Categories(),
		Outcome:    outcome,
		Collected:  collected,
		Complexity: signal,
		Thresholds: cfg.Thresholds(),
		Duration:   time.Since(started),
	})

	if _, err := config.EnsureLayout(rootPath); err != nil {
		return err
	}
	artifact := filepath.Join(rootPath, config.WorkDirName, "reports", rep.ScanID+".json")
	if err := report.WriteJSON(artifact, rep); err != nil {
		return err
	}
	logger.Info("report written to %s", artifact)

	if cfg.HistoryEnabled() && !*noHistory {
		st, err := store.Open(cfg.HistoryPath(rootPath))
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer st.Close()
		if err := st.SaveScan(rep); err != nil {
			return fmt.Errorf("record scan: %w", err)
		}
	}

	name := *format
	if *jsonOut {
		name = "json"
	}
	formatter, err := report.NewFormatter(name, !*noColor)
	if err != nil {
		return err
	}
	return formatter.Format(os.Stdout, rep)
}

func cmdReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	root := fs.String("root", ".", "workspace root for scan-id lookups")
	configPath := fs.String("config", "", "explicit config file (default <root>/theater.jsonc)")
	format := fs.String("format", "text", "output format: text, json or markdown")
	noColor := fs.Bool("no-color", false, "disable colored output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: theater report <report.json | scan-id>")
	}

	rep, err := loadReportTarget(fs.Arg(0), *root, *configPath)
	if err != nil {
		return err
	}
	formatter, err := report.NewFormatter(*format, !*noColor)
	if err != nil {
		return err
	}
	return formatter.Format(os.Stdout, rep)
}

// loadReportTarget resolves the report argument: an existing file (or
// anything ending in .json) is read directly, everything else is
// treated as a scan id in the history database.
func loadReportTarget(target, root, configPath string) (*report.DetectionReport, error) {
	if _, err := os.Stat(target); err == nil || filepath.Ext(target) == ".json" {
		return report.LoadJSON(target)
	}

	rootPath, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(rootPath, configPath)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.HistoryPath(rootPath))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer st.Close()
	return st.Get(target)
}

func cmdHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	root := fs.String("root", ".", "workspace root")
	configPath := fs.String("config", "", "explicit config file (default <root>/theater.jsonc)")
	limit := fs.Int("limit", 10, "maximum scans listed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rootPath, err := filepath.Abs(*root)
	if err != nil {
		return err
	}
	cfg, err := config.Load(rootPath, *configPath)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.HistoryPath(rootPath))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer st.Close()

	entries, err := st.List(*limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no scans recorded; run theater scan first")
		return nil
	}
	renderHistory(os.Stdout, entries)
	return nil
}

func renderHistory(w io.Writer, entries []store.Entry) {
	fmt.Fprintf(w, "%-10s %-17s %6s %9s %8s %7s %s\n", "scan", "recorded", "files", "detected", "correct", "ratio", "verdict")
	for _, e := range entries {
		fmt.Fprintf(w, "%-10s %-17s %6d %9d %8d %7s %s\n",
			shortID(e.ScanID),
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.FilesScanned,
			e.Detected,
			e.Correct,
			ratioCell(e.TheaterRatio),
			e.Verdict)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func ratioCell(r float64) string {
	if math.IsInf(r, 1) {
		return "undef"
	}
	return strconv.FormatFloat(r, 'f', 2, 64)
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	root := fs.String("root", ".", "workspace root")
	force := fs.Bool("force", false, "overwrite an existing theater.jsonc")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rootPath, err := filepath.Abs(*root)
	if err != nil {
		return err
	}
	if _, err := config.EnsureLayout(rootPath); err != nil {
		return err
	}
	if err := config.WriteStarter(rootPath, *force); err != nil {
		return err
	}
	if err := config.CopySchemas(rootPath); err != nil {
		return err
	}
	fmt.Printf("initialized theater workspace in %s\n", filepath.Join(rootPath, config.WorkDirName))
	return nil
}

func cmdCatalog(args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	renderCatalog(os.Stdout, patterns.Default())
	return nil
}

func renderCatalog(w io.Writer, catalog *patterns.Catalog) {
	for _, cat := range catalog.Categories() {
		fmt.Fprintf(w, "%s\n", cat)
		for _, lang := range catalog.Languages(cat) {
			def := catalog.Lookup(cat, lang)
			fmt.Fprintf(w, "  %-12s %2d triggers, %d quality indicators\n", lang, len(def.Triggers), len(def.Quality))
		}
	}
}
