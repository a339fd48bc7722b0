package collect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mehmetkoksal-w/resilience-theater/internal/analysis"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func fileByPath(res *Result, rel string) (idx int) {
	for i, f := range res.Files {
		if f.Path == rel {
			return i
		}
	}
	return -1
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "svc.py", "def fetch():\n    pass\n")
	writeFile(t, root, "web/app.js", "export const x = 1\n")
	writeFile(t, root, "README.md", "# docs\n")
	writeFile(t, root, ".git/config", "[core]\n")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}\n")
	writeFile(t, root, "patterns/tables.py", "RETRY = []\n")

	res, err := Collect(root, Options{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []string{"patterns/tables.py", "svc.py", "web/app.js"}
	if len(res.Files) != len(want) {
		t.Fatalf("collected %d files, want %d: %+v", len(res.Files), len(want), res.Files)
	}
	for _, rel := range want {
		if fileByPath(res, rel) < 0 {
			t.Errorf("missing %s", rel)
		}
	}

	if i := fileByPath(res, "svc.py"); res.Files[i].Language != analysis.LangPython {
		t.Errorf("svc.py language = %s", res.Files[i].Language)
	}
	if i := fileByPath(res, "patterns/tables.py"); !res.Files[i].PatternSource {
		t.Error("patterns/tables.py should be a pattern source")
	}
	if i := fileByPath(res, "svc.py"); res.Files[i].PatternSource {
		t.Error("svc.py should not be a pattern source")
	}

	if res.Languages["python"] != 2 || res.Languages["javascript"] != 1 {
		t.Errorf("language census = %v", res.Languages)
	}
	if res.TotalLines != 4 {
		t.Errorf("TotalLines = %d, want 4", res.TotalLines)
	}
}

func TestCollectIncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "x = 1\n")
	writeFile(t, root, "b.py", "y = 2\n")
	writeFile(t, root, "gen/c.py", "z = 3\n")

	res, err := Collect(root, Options{Include: []string{"*.py"}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(res.Files) != 2 {
		t.Errorf("include kept %d files, want 2", len(res.Files))
	}

	res, err = Collect(root, Options{Exclude: []string{"gen/**"}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(res.Files) != 2 || fileByPath(res, "gen/c.py") >= 0 {
		t.Errorf("exclude kept %+v", res.Files)
	}
}

func TestCollectWarnsAndSkips(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.py", "x = 1\n")
	writeFile(t, root, "blob.py", "head\x00tail")
	writeFile(t, root, "big.py", "print('0123456789')\n")

	res, err := Collect(root, Options{MaxFileSize: 10})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0].Path != "ok.py" {
		t.Fatalf("Files = %+v, want just ok.py", res.Files)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("Warnings = %+v, want 2", res.Warnings)
	}
	byPath := map[string]string{}
	for _, w := range res.Warnings {
		byPath[w.Path] = w.Reason
	}
	if _, ok := byPath["blob.py"]; !ok {
		t.Error("missing warning for binary blob.py")
	}
	if _, ok := byPath["big.py"]; !ok {
		t.Error("missing warning for oversized big.py")
	}
}

func TestCollectCustomPatternSources(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "detect/rules.py", "RULES = []\n")
	writeFile(t, root, "svc.py", "x = 1\n")

	res, err := Collect(root, Options{PatternSources: []string{"detect/**"}})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if i := fileByPath(res, "detect/rules.py"); !res.Files[i].PatternSource {
		t.Error("detect/rules.py should be a pattern source")
	}
	if i := fileByPath(res, "svc.py"); res.Files[i].PatternSource {
		t.Error("svc.py should not be a pattern source")
	}
}

func TestCollectMissingRoot(t *testing.T) {
	if _, err := Collect(filepath.Join(t.TempDir(), "absent"), Options{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}
