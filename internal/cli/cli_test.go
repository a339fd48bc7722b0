package cli

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mehmetkoksal-w/resilience-theater/internal/complexity"
	"github.com/mehmetkoksal-w/resilience-theater/internal/patterns"
	"github.com/mehmetkoksal-w/resilience-theater/internal/report"
	"github.com/mehmetkoksal-w/resilience-theater/internal/store"
	"github.com/mehmetkoksal-w/resilience-theater/internal/verdict"
)

func TestRunUnknownCommand(t *testing.T) {
	err := Run([]string{"teleport"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("Run(teleport) = %v, want unknown command error", err)
	}
}

func TestScanWritesArtifactAndHistory(t *testing.T) {
	root := t.TempDir()
	src := `import requests

def fetch(url):
    for attempt in range(3):
        try:
            return requests.get(url, timeout=5)
        except Exception:
            pass
`
	if err := os.WriteFile(filepath.Join(root, "client.py"), []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := Run([]string{"scan", "--format", "json", "--no-color", root}); err != nil {
		t.Fatalf("scan: %v", err)
	}

	reportsDir := filepath.Join(root, ".theater", "reports")
	files, err := os.ReadDir(reportsDir)
	if err != nil {
		t.Fatalf("reports dir: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("reports dir holds %d files, want 1", len(files))
	}
	rep, err := report.LoadJSON(filepath.Join(reportsDir, files[0].Name()))
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	if rep.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", rep.FilesScanned)
	}
	if cr := rep.Result(patterns.CategoryRetry); cr == nil || cr.TriggerCount == 0 {
		t.Errorf("retry result = %+v, want detections", cr)
	}

	st, err := store.Open(filepath.Join(root, ".theater", "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer st.Close()
	entries, err := st.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].ScanID != rep.ScanID {
		t.Errorf("history = %+v, want the one recorded scan %s", entries, rep.ScanID)
	}
}

func TestScanNoHistorySkipsDatabase(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := Run([]string{"scan", "--no-history", "--format", "json", root}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ".theater", "history.db")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("history database exists despite --no-history: %v", err)
	}
}

func TestInitScaffoldsWorkspace(t *testing.T) {
	root := t.TempDir()
	if err := Run([]string{"init", "--root", root}); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, p := range []string{
		"theater.jsonc",
		filepath.Join(".theater", "reports"),
		filepath.Join(".theater", "schemas", "report.schema.json"),
	} {
		if _, err := os.Stat(filepath.Join(root, p)); err != nil {
			t.Errorf("missing %s after init: %v", p, err)
		}
	}
}

func testStoredReport(detected, correct int) *report.DetectionReport {
	outcome := &patterns.Outcome{
		Results: map[patterns.Category]*patterns.CategoryResult{
			patterns.CategoryTimeout: {
				Category:     patterns.CategoryTimeout,
				TriggerCount: detected,
				QualityCount: correct,
			},
		},
		FilesScanned: 2,
	}
	return report.Build(report.BuildInput{
		Root:       "/work/app",
		Categories: patterns.AllCategories(),
		Outcome:    outcome,
		Complexity: complexity.Signal{Score: 5, Source: complexity.SourceSizeProxy},
		Thresholds: verdict.DefaultThresholds(),
	})
}

func TestLoadReportTarget(t *testing.T) {
	root := t.TempDir()
	rep := testStoredReport(3, 3)
	path := filepath.Join(root, "out.json")
	if err := report.WriteJSON(path, rep); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	byFile, err := loadReportTarget(path, root, "")
	if err != nil {
		t.Fatalf("loadReportTarget(file): %v", err)
	}
	if byFile.ScanID != rep.ScanID {
		t.Errorf("file target ScanID = %q, want %q", byFile.ScanID, rep.ScanID)
	}

	if _, err := loadReportTarget(filepath.Join(root, "absent.json"), root, ""); err == nil {
		t.Error("missing .json target did not error")
	}

	st, err := store.Open(filepath.Join(root, ".theater", "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	if err := st.SaveScan(rep); err != nil {
		t.Fatalf("SaveScan: %v", err)
	}
	st.Close()

	byID, err := loadReportTarget(rep.ScanID[:8], root, "")
	if err != nil {
		t.Fatalf("loadReportTarget(id): %v", err)
	}
	if byID.ScanID != rep.ScanID {
		t.Errorf("id target ScanID = %q, want %q", byID.ScanID, rep.ScanID)
	}

	if _, err := loadReportTarget("ffffffff", root, ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown id = %v, want ErrNotFound", err)
	}
}

func TestRenderHistory(t *testing.T) {
	entries := []store.Entry{
		{
			ScanID:       "0b5c2a91-aaaa-bbbb-cccc-ddddeeee0001",
			Root:         "/work/app",
			CreatedAt:    time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC),
			FilesScanned: 12,
			Detected:     7,
			Correct:      0,
			TheaterRatio: math.Inf(1),
			Verdict:      verdict.VerdictCargoCult,
		},
		{
			ScanID:       "77f10c3d-aaaa-bbbb-cccc-ddddeeee0002",
			CreatedAt:    time.Date(2026, 8, 24, 18, 2, 0, 0, time.UTC),
			FilesScanned: 12,
			Detected:     4,
			Correct:      4,
			TheaterRatio: 1,
			Verdict:      verdict.VerdictBattleHardened,
		},
	}
	var buf bytes.Buffer
	renderHistory(&buf, entries)
	out := buf.String()

	for _, want := range []string{"0b5c2a91", "undef", "CARGO_CULT", "77f10c3d", "1.00", "BATTLE_HARDENED", "2026-08-25 09:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCatalog(t *testing.T) {
	var buf bytes.Buffer
	renderCatalog(&buf, patterns.Default())
	out := buf.String()

	for _, cat := range patterns.AllCategories() {
		if !strings.Contains(out, string(cat)) {
			t.Errorf("catalog output missing category %q", cat)
		}
	}
	if !strings.Contains(out, "generic") || !strings.Contains(out, "triggers") {
		t.Errorf("catalog output missing language rows:\n%s", out)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0b5c2a91-aaaa"); got != "0b5c2a91" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(short) = %q", got)
	}
}

func TestRatioCell(t *testing.T) {
	if got := ratioCell(math.Inf(1)); got != "undef" {
		t.Errorf("ratioCell(inf) = %q", got)
	}
	if got := ratioCell(1.5); got != "1.50" {
		t.Errorf("ratioCell(1.5) = %q", got)
	}
}
