package patterns

import (
	"testing"

	"github.com/mehmetkoksal-w/resilience-theater/internal/analysis"
)

func TestDefaultCatalogCategories(t *testing.T) {
	c := Default()
	got := c.Categories()
	want := AllCategories()
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCatalogGenericFallback(t *testing.T) {
	c := Default()
	for _, cat := range c.Categories() {
		def := c.Lookup(cat, analysis.Language("fortran"))
		if def.Language != analysis.LangGeneric {
			t.Errorf("%s: fallback language = %s, want %s", cat, def.Language, analysis.LangGeneric)
		}
		if len(def.Triggers) == 0 {
			t.Errorf("%s: generic definition has no triggers", cat)
		}
	}
}

func TestCatalogExactLookup(t *testing.T) {
	c := Default()
	py := c.Lookup(CategoryRetry, analysis.LangPython)
	if py.Language != analysis.LangPython {
		t.Fatalf("python lookup fell back to %s", py.Language)
	}
	generic := c.Lookup(CategoryRetry, analysis.LangGeneric)
	if py.Triggers[0].String() == generic.Triggers[0].String() {
		t.Error("python retry triggers should differ from generic")
	}
}

func TestCatalogTypeScriptSharesJavaScript(t *testing.T) {
	c := Default()
	js := c.Lookup(CategoryTimeout, analysis.LangJavaScript)
	ts := c.Lookup(CategoryTimeout, analysis.LangTypeScript)
	if len(js.Triggers) != len(ts.Triggers) {
		t.Fatalf("trigger count mismatch: js=%d ts=%d", len(js.Triggers), len(ts.Triggers))
	}
	for i := range js.Triggers {
		if js.Triggers[i].String() != ts.Triggers[i].String() {
			t.Errorf("trigger %d differs: %s vs %s", i, js.Triggers[i], ts.Triggers[i])
		}
	}
}

func TestCatalogUnknownCategory(t *testing.T) {
	c := Default()
	def := c.Lookup(Category("bulkhead"), analysis.LangGo)
	if len(def.Triggers) != 0 || len(def.Quality) != 0 {
		t.Errorf("unknown category returned %d triggers, %d quality patterns", len(def.Triggers), len(def.Quality))
	}
}

func TestNewCatalogRequiresGeneric(t *testing.T) {
	specs := map[Category]map[analysis.Language]DefinitionSpec{
		CategoryRetry: {
			analysis.LangPython: {Triggers: []string{`retry`}},
		},
	}
	if _, err := NewCatalog(specs); err == nil {
		t.Fatal("expected error for category without generic entry")
	}
}

func TestNewCatalogRejectsBadExpression(t *testing.T) {
	specs := map[Category]map[analysis.Language]DefinitionSpec{
		CategoryRetry: {
			analysis.LangGeneric: {Triggers: []string{`(unclosed`}},
		},
	}
	if _, err := NewCatalog(specs); err == nil {
		t.Fatal("expected error for invalid trigger expression")
	}
}

// Trigger expressions must hit attempted resilience idioms and stay quiet
// on ordinary code, including this tool's own identifiers.
func TestTriggerPrecision(t *testing.T) {
	c := Default()
	tests := []struct {
		name     string
		category Category
		language analysis.Language
		line     string
		hits     int
	}{
		{"python manual retry loop", CategoryRetry, analysis.LangPython, `for attempt in range(3):`, 1},
		{"python decorator", CategoryRetry, analysis.LangPython, `@retry(stop=stop_after_attempt(5), wait=wait_exponential(multiplier=1))`, 1},
		{"python plain call", CategoryRetry, analysis.LangPython, `result = fetch_data(url)`, 0},
		{"python bare except", CategoryExceptionHandling, analysis.LangPython, `except:`, 1},
		{"python typed except", CategoryExceptionHandling, analysis.LangPython, `except ValueError as e:`, 0},
		{"go context timeout", CategoryTimeout, analysis.LangGo, `ctx, cancel := context.WithTimeout(ctx, 5*time.Second)`, 1},
		{"go camelcase identifier", CategoryCircuitBreaker, analysis.LangGo, `CategoryCircuitBreaker Category = "circuit-breaker"`, 0},
		{"go breaker construction", CategoryCircuitBreaker, analysis.LangGo, `cb := gobreaker.NewCircuitBreaker(settings)`, 2},
		{"go unrelated identifier", CategoryCircuitBreaker, analysis.LangGo, `breakerScript = buildScript()`, 0},
		{"java annotation", CategoryRetry, analysis.LangJava, `@Retryable(maxAttempts = 3)`, 1},
		{"ruby rescue via generic", CategoryExceptionHandling, analysis.LangRuby, `rescue => e`, 1},
		{"js setTimeout", CategoryTimeout, analysis.LangJavaScript, `setTimeout(() => reject(new Error("timed out")), 5000)`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := c.Lookup(tt.category, tt.language)
			hits := 0
			for _, re := range def.Triggers {
				if re.MatchString(tt.line) {
					hits++
				}
			}
			if hits != tt.hits {
				t.Errorf("line %q: %d triggers matched, want %d", tt.line, hits, tt.hits)
			}
		})
	}
}
