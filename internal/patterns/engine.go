package patterns

import (
	"context"
	"runtime"
	"sync"
	"time"
)

const maxWorkers = 8

// Config carries the scan tunables. The zero value is usable: Workers
// picks a worker count from the machine, Window and MaxSamples fall back
// to their defaults, and FileBudget zero disables the per-file budget.
type Config struct {
	// Workers is the parallel file scanner count. Zero or negative
	// means NumCPU, capped at maxWorkers.
	Workers int

	// Window is the quality proximity half-width in lines: a kept match
	// is quality-confirmed when an indicator lands within Window lines
	// of it, same line included.
	Window int

	// MaxSamples caps the classified matches retained per category.
	// Zero or negative keeps them all.
	MaxSamples int

	// FileBudget bounds the scan time spent on a single file. When the
	// budget runs out mid-file, the unfinished categories are reported
	// as inconclusive for that file instead of blocking the scan.
	FileBudget time.Duration
}

// DefaultWindow is the quality proximity half-width used when Config
// leaves Window unset.
const DefaultWindow = 8

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	return c
}

// Engine scans file sets against a catalog. It is stateless between
// scans and safe for concurrent use.
type Engine struct {
	catalog *Catalog
	cfg     Config
}

// NewEngine builds an engine over the given catalog; nil means the
// built-in one.
func NewEngine(catalog *Catalog, cfg Config) *Engine {
	if catalog == nil {
		catalog = Default()
	}
	return &Engine{catalog: catalog, cfg: cfg.withDefaults()}
}

// Catalog returns the catalog the engine scans with.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Outcome is the aggregate of one scan: per-category totals over every
// file, plus the warnings for files that could not be scanned at all.
type Outcome struct {
	Results      map[Category]*CategoryResult
	Warnings     []Warning
	FilesScanned int
}

// Scan runs every catalog category over every file and merges the
// per-file results in input order. On cancellation it returns the merge
// of whatever completed alongside the context error, so a partial scan
// still yields a well-formed outcome.
func (e *Engine) Scan(ctx context.Context, files []File) (*Outcome, error) {
	out := &Outcome{Results: make(map[Category]*CategoryResult)}
	for _, cat := range e.catalog.Categories() {
		out.Results[cat] = &CategoryResult{Category: cat}
	}
	if len(files) == 0 {
		return out, ctx.Err()
	}

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers > maxWorkers {
			workers = maxWorkers
		}
	}
	// Pool startup is not worth it for a handful of files.
	if len(files) < workers*2 {
		workers = 1
	}

	results := make([]*FileResult, len(files))

	if workers == 1 {
		for i, f := range files {
			fr, err := scanFile(ctx, f, e.catalog, e.cfg)
			if err != nil {
				e.merge(out, results)
				return out, err
			}
			results[i] = fr
		}
		e.merge(out, results)
		return out, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int, len(files))
	for i := range files {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	var scanErr error
	var errOnce sync.Once

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fr, err := scanFile(ctx, files[i], e.catalog, e.cfg)
				if err != nil {
					errOnce.Do(func() {
						scanErr = err
						cancel()
					})
					return
				}
				results[i] = fr
			}
		}()
	}
	wg.Wait()

	e.merge(out, results)
	return out, scanErr
}

// merge folds completed per-file results into the outcome, skipping the
// slots of files that never finished.
func (e *Engine) merge(out *Outcome, results []*FileResult) {
	for _, fr := range results {
		if fr == nil {
			continue
		}
		if fr.Skipped != nil {
			out.Warnings = append(out.Warnings, *fr.Skipped)
			continue
		}
		out.FilesScanned++
		for cat, cr := range fr.Results {
			out.Results[cat].Add(cr, e.cfg.MaxSamples)
		}
		for _, cat := range fr.Inconclusive {
			out.Results[cat].InconclusiveFiles++
		}
	}
}
