package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/mehmetkoksal-w/resilience-theater/internal/analysis"
)

// DefinitionSpec is the uncompiled form of a pattern definition: trigger
// expressions that signal an attempted resilience idiom, and quality
// indicators whose presence near a trigger signals a deliberate
// implementation.
type DefinitionSpec struct {
	Triggers []string
	Quality  []string
}

// Definition is the compiled pattern set for one (category, language)
// pair. Lookup returns these by value; the regexp slices are shared and
// must not be mutated.
type Definition struct {
	Category Category
	Language analysis.Language
	Triggers []*regexp.Regexp
	Quality  []*regexp.Regexp
}

// Catalog is an immutable table of pattern definitions keyed by category
// and language. Build one with NewCatalog (or use Default) and pass it
// explicitly to every scan; learning new patterns means building a new
// Catalog, never mutating a shared one.
type Catalog struct {
	defs  map[Category]map[analysis.Language]Definition
	order []Category
}

// NewCatalog compiles specs into a Catalog. Every category must carry a
// LangGeneric entry so that no language is ever silently unscanned.
func NewCatalog(specs map[Category]map[analysis.Language]DefinitionSpec) (*Catalog, error) {
	defs := make(map[Category]map[analysis.Language]Definition, len(specs))
	for cat, byLang := range specs {
		if _, ok := byLang[analysis.LangGeneric]; !ok {
			return nil, fmt.Errorf("category %s has no generic pattern set", cat)
		}
		compiled := make(map[analysis.Language]Definition, len(byLang))
		for lang, spec := range byLang {
			def := Definition{Category: cat, Language: lang}
			for _, expr := range spec.Triggers {
				re, err := regexp.Compile(expr)
				if err != nil {
					return nil, fmt.Errorf("category %s language %s trigger %q: %w", cat, lang, expr, err)
				}
				def.Triggers = append(def.Triggers, re)
			}
			for _, expr := range spec.Quality {
				re, err := regexp.Compile(expr)
				if err != nil {
					return nil, fmt.Errorf("category %s language %s quality %q: %w", cat, lang, expr, err)
				}
				def.Quality = append(def.Quality, re)
			}
			compiled[lang] = def
		}
		defs[cat] = compiled
	}
	return &Catalog{defs: defs, order: categoryOrder(defs)}, nil
}

// categoryOrder lists built-in categories first, then any extras sorted.
func categoryOrder(defs map[Category]map[analysis.Language]Definition) []Category {
	var order []Category
	seen := make(map[Category]bool, len(defs))
	for _, cat := range AllCategories() {
		if _, ok := defs[cat]; ok {
			order = append(order, cat)
			seen[cat] = true
		}
	}
	var extras []Category
	for cat := range defs {
		if !seen[cat] {
			extras = append(extras, cat)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i] < extras[j] })
	return append(order, extras...)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog, compiled once per process.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := NewCatalog(builtinSpecs)
		if err != nil {
			panic("patterns: invalid built-in catalog: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Lookup returns the definition for a category and language, falling back
// to the category's generic entry when the language has no dedicated one.
// Unknown categories return an empty definition that matches nothing.
func (c *Catalog) Lookup(cat Category, lang analysis.Language) Definition {
	byLang, ok := c.defs[cat]
	if !ok {
		return Definition{Category: cat, Language: lang}
	}
	if def, ok := byLang[lang]; ok {
		return def
	}
	return byLang[analysis.LangGeneric]
}

// Categories returns the catalog's categories in report order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.order))
	copy(out, c.order)
	return out
}

// Languages returns the languages with a dedicated entry for a category,
// sorted, generic last.
func (c *Catalog) Languages(cat Category) []analysis.Language {
	byLang, ok := c.defs[cat]
	if !ok {
		return nil
	}
	var langs []analysis.Language
	for lang := range byLang {
		if lang != analysis.LangGeneric {
			langs = append(langs, lang)
		}
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return append(langs, analysis.LangGeneric)
}

// Shared script-language specs: TypeScript scans with the JavaScript
// tables.
var (
	retryScript = DefinitionSpec{
		Triggers: []string{
			`(?:require\(|from\s+)['"](?:p-retry|async-retry|promise-retry|axios-retry)['"]`,
			`\.retry\s*\(`,
			`(?i)\bretries\s*[:=]`,
			`for\s*\(\s*(?:let|var|const)?\s*\w*(?:attempt|retry)\w*\s*=`,
			`(?i)\bmaxretries\b`,
		},
		Quality: []string{
			`(?i)backoff`,
			`(?i)jitter`,
			`(?i)exponential`,
			`(?i)\bfactor\s*:`,
			`(?i)\bmax(?:retries|attempts|timeout)\b`,
			`(?i)\bmintimeout\b`,
		},
	}
	timeoutScript = DefinitionSpec{
		Triggers: []string{
			`setTimeout\s*\(`,
			`\bAbortController\b`,
			`(?i)\btimeout\s*[:=]`,
			`\.timeout\s*\(`,
		},
		Quality: []string{
			`clearTimeout`,
			`(?i)\babort\b`,
			`\bsignal\s*:`,
			`finally`,
			`(?i)cleanup`,
		},
	}
	breakerScript = DefinitionSpec{
		Triggers: []string{
			`(?i)\bopossum\b`,
			`(?i)\bcockatiel\b`,
			`(?i)\bcircuit[_-]?breaker`,
			`CircuitBreaker\s*\(`,
		},
		Quality: []string{
			`(?i)halfopen|half_open`,
			`errorThresholdPercentage`,
			`resetTimeout`,
			`(?i)fallback`,
			`rollingCount`,
		},
	}
	exceptionScript = DefinitionSpec{
		Triggers: []string{
			`catch\s*\(\s*(?:e|err|error|_)?\s*\)`,
			`catch\s*\{`,
			`\.catch\s*\(`,
		},
		Quality: []string{
			`console\.(?:error|warn)`,
			`(?i)\blogger?\b`,
			`\bthrow\b`,
			`(?i)rethrow`,
			`instanceof\s+\w*Error`,
			`captureException`,
		},
	}
	soupScript = DefinitionSpec{
		Triggers: []string{
			`(?:require\(|from\s+)['"](?:p-retry|async-retry|opossum|cockatiel|promise-retry|axios-retry)['"]`,
		},
		Quality: []string{
			`(?i)\bretries\s*:`,
			`(?i)\bfactor\s*:`,
			`(?i)\bmintimeout\b`,
			`(?i)\bmaxtimeout\b`,
			`errorThresholdPercentage`,
			`resetTimeout`,
		},
	}
)

// builtinSpecs is the built-in pattern table. Entries are data only:
// adding a language or category here never touches detection logic.
var builtinSpecs = map[Category]map[analysis.Language]DefinitionSpec{
	CategoryRetry: {
		analysis.LangPython: {
			Triggers: []string{
				`@\s*(?:\w+\.)?retry\b`,
				`@backoff\.on_exception`,
				`(?i)\bmax_retries\s*=`,
				`for\s+\w*(?:attempt|retry|try)\w*\s+in\s+range\s*\(`,
				`\btenacity\.`,
				`(?i)\bretry_(?:count|attempts|delay|policy)\b`,
			},
			Quality: []string{
				`(?i)backoff`,
				`(?i)jitter`,
				`(?i)exponential`,
				`stop_after_attempt`,
				`(?i)max_(?:attempts?|tries|delay)`,
				`(?i)give_?up`,
			},
		},
		analysis.LangGo: {
			Triggers: []string{
				`backoff\.(?:Retry|RetryNotify|WithMaxRetries)`,
				`retry\.Do\s*\(`,
				`for\s+\w*(?:attempt|retry)\w*\s*:?=`,
				`(?i)\bmaxretries\b`,
				`(?i)\bretry(?:count|attempts|limit)\b`,
			},
			Quality: []string{
				`(?i)backoff`,
				`(?i)jitter`,
				`(?i)exponential`,
				`(?i)max_?(?:attempts?|retries|elapsed)`,
				`time\.Sleep\([^)]*\*`,
				`math\.Pow`,
			},
		},
		analysis.LangJavaScript: retryScript,
		analysis.LangTypeScript: retryScript,
		analysis.LangJava: {
			Triggers: []string{
				`@Retryable\b`,
				`\bRetryTemplate\b`,
				`\bRetryPolicy\b`,
				`\bRetryer\b`,
				`for\s*\(\s*int\s+\w*(?:attempt|retry)\w*\s*=`,
				`(?i)\bmaxretries\b`,
			},
			Quality: []string{
				`@Backoff\b`,
				`(?i)backoff`,
				`(?i)exponential`,
				`(?i)jitter`,
				`\bmaxAttempts\b`,
				`\bmultiplier\b`,
			},
		},
		analysis.LangGeneric: {
			Triggers: []string{
				`(?i)\bretr(?:y|ies|ying)\b`,
				`(?i)\bmax_?attempts?\b`,
				`(?i)\battempt_?(?:count|limit)\b`,
			},
			Quality: []string{
				`(?i)backoff`,
				`(?i)jitter`,
				`(?i)exponential`,
				`(?i)max_?(?:attempts?|retries|tries)`,
				`(?i)give_?up`,
			},
		},
	},
	CategoryTimeout: {
		analysis.LangPython: {
			Triggers: []string{
				`(?i)\btimeout\s*=`,
				`socket\.settimeout`,
				`signal\.alarm`,
				`asyncio\.wait_for`,
			},
			Quality: []string{
				`(?i)\bcancel`,
				`finally\s*:`,
				`(?i)grace`,
				`TimeoutError`,
				`on_timeout`,
			},
		},
		analysis.LangGo: {
			Triggers: []string{
				`context\.WithTimeout`,
				`context\.WithDeadline`,
				`time\.After\s*\(`,
				`\.Set(?:Read|Write)?Deadline\s*\(`,
				`\bTimeout:\s*`,
			},
			Quality: []string{
				`defer\s+cancel\s*\(`,
				`ctx\.Err\(\)`,
				`context\.DeadlineExceeded`,
				`(?i)grace`,
				`select\s*\{`,
			},
		},
		analysis.LangJavaScript: timeoutScript,
		analysis.LangTypeScript: timeoutScript,
		analysis.LangJava: {
			Triggers: []string{
				`@Timeout\b`,
				`set(?:Connect|Read|So)Timeout`,
				`\borTimeout\s*\(`,
				`(?i)\btimeout\s*[=(]`,
			},
			Quality: []string{
				`TimeoutException`,
				`(?i)\bcancel`,
				`finally`,
				`(?i)fallback`,
			},
		},
		analysis.LangGeneric: {
			Triggers: []string{
				`(?i)\btime_?out\b`,
				`(?i)\bdeadline\b`,
			},
			Quality: []string{
				`(?i)\bcancel`,
				`(?i)clean_?up`,
				`(?i)grace`,
				`finally`,
			},
		},
	},
	CategoryCircuitBreaker: {
		analysis.LangPython: {
			Triggers: []string{
				`(?i)\bcircuit_?breaker`,
				`\bpybreaker\b`,
				`@circuit\b`,
				`CircuitBreaker\s*\(`,
			},
			Quality: []string{
				`(?i)half_?open`,
				`(?i)fail(?:ure)?_?(?:threshold|max)`,
				`(?i)reset_?timeout`,
				`(?i)recovery`,
				`(?i)fallback`,
			},
		},
		analysis.LangGo: {
			Triggers: []string{
				`gobreaker`,
				`hystrix\.(?:Do|Go|Configure)`,
				`(?i)\bcircuit_?breaker`,
				`\b(?:New)?CircuitBreaker\b`,
			},
			Quality: []string{
				`(?i)half_?open`,
				`ReadyToTrip`,
				`(?i)failure_?(?:ratio|threshold)`,
				`(?i)max_?requests`,
				`(?i)fallback`,
				`(?i)reset_?timeout`,
			},
		},
		analysis.LangJavaScript: breakerScript,
		analysis.LangTypeScript: breakerScript,
		analysis.LangJava: {
			Triggers: []string{
				`@CircuitBreaker\b`,
				`resilience4j`,
				`HystrixCommand`,
				`CircuitBreaker(?:Factory|Registry|Config)`,
				`(?i)\bcircuit_?breaker`,
			},
			Quality: []string{
				`(?i)half_?open`,
				`failureRateThreshold`,
				`waitDurationInOpenState`,
				`(?i)fallback(?:Method)?`,
				`slidingWindow`,
			},
		},
		analysis.LangGeneric: {
			Triggers: []string{
				`(?i)\bcircuit[\s_-]?breaker`,
				`(?i)\bbreaker\b`,
			},
			Quality: []string{
				`(?i)half[\s_-]?open`,
				`(?i)threshold`,
				`(?i)fallback`,
				`(?i)reset`,
				`(?i)recovery`,
			},
		},
	},
	CategoryExceptionHandling: {
		analysis.LangPython: {
			Triggers: []string{
				`except\s*:`,
				`except\s+(?:Exception|BaseException)\b`,
				`except\s*\(\s*Exception`,
			},
			Quality: []string{
				`(?i)\blog(?:ger|ging)?\b`,
				`\braise\b`,
				`exc_info`,
				`\btraceback\b`,
				`except\s+\w+Error\b`,
			},
		},
		analysis.LangGo: {
			Triggers: []string{
				`\brecover\s*\(\s*\)`,
				`\b_\s*=\s*err\b`,
				`if\s+err\s*!=\s*nil\s*\{\s*\}`,
			},
			Quality: []string{
				`log\.|\blogger\b`,
				`fmt\.Errorf`,
				`errors\.(?:Is|As|Join|Wrap)`,
				`return\s+(?:err\b|fmt\.Errorf)`,
				`%w`,
			},
		},
		analysis.LangJavaScript: exceptionScript,
		analysis.LangTypeScript: exceptionScript,
		analysis.LangJava: {
			Triggers: []string{
				`catch\s*\(\s*(?:Exception|Throwable|RuntimeException)\b`,
				`catch\s*\([^)]*\)\s*\{\s*\}`,
			},
			Quality: []string{
				`(?i)\blog(?:ger)?\b`,
				`\bthrow\b`,
				`(?i)rethrow`,
				`catch\s*\(\s*\w+(?:Exception|Error)\b`,
			},
		},
		analysis.LangGeneric: {
			Triggers: []string{
				`(?i)\bcatch\b`,
				`(?i)\bexcept\b`,
				`(?i)\brescue\b`,
			},
			Quality: []string{
				`(?i)\blog\b`,
				`(?i)\braise\b`,
				`(?i)\bthrow\b`,
				`(?i)rethrow`,
			},
		},
	},
	CategoryLibrarySoup: {
		analysis.LangPython: {
			Triggers: []string{
				`(?:from|import)\s+(?:tenacity|retrying|backoff|pybreaker|circuitbreaker|timeout_decorator)\b`,
			},
			Quality: []string{
				`stop_after_attempt`,
				`wait_exponential`,
				`\bexpo\b`,
				`max_tries`,
				`fail_max`,
				`reset_timeout`,
			},
		},
		analysis.LangGo: {
			Triggers: []string{
				`"github\.com/(?:cenkalti/backoff|avast/retry-go|sony/gobreaker|afex/hystrix-go|eapache/go-resiliency)[^"]*"`,
			},
			Quality: []string{
				`WithMaxRetries`,
				`MaxElapsedTime`,
				`ReadyToTrip`,
				`MaxRequests`,
				`NewExponentialBackOff`,
			},
		},
		analysis.LangJavaScript: soupScript,
		analysis.LangTypeScript: soupScript,
		analysis.LangJava: {
			Triggers: []string{
				`import\s+(?:io\.github\.resilience4j|com\.netflix\.hystrix|org\.springframework\.retry|net\.jodah\.failsafe)`,
			},
			Quality: []string{
				`RetryConfig`,
				`CircuitBreakerConfig`,
				`RateLimiterConfig`,
				`\.custom\(\)`,
				`\bmaxAttempts\b`,
				`\bwaitDuration\b`,
			},
		},
		analysis.LangGeneric: {
			Triggers: []string{
				`(?i)\b(?:resilience4j|hystrix|tenacity|pybreaker|opossum|cockatiel|failsafe|polly)\b`,
			},
			Quality: []string{
				`(?i)\bconfig(?:ured)?\b`,
				`(?i)\bpolicy\b`,
				`(?i)\bbuilder\b`,
			},
		},
	},
}
