package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mehmetkoksal-w/resilience-theater/internal/fsutil"
)

func TestMatchesAnyEdgeCases(t *testing.T) {
	globs := []string{
		".git/**",
		"**/.git/**",
		"**/*.min.js",
		"**/testdata/**",
		"",
	}

	cases := []struct {
		path string
		want bool
	}{
		{path: ".git/config", want: true},
		{path: filepath.Join("nested", ".git", "config"), want: true},
		{path: filepath.Join("web", "app.min.js"), want: true},
		{path: filepath.Join("pkg", "testdata", "fix.py"), want: true},
		{path: filepath.Join("pkg", "scan.go"), want: false},
	}

	for _, tc := range cases {
		if got := fsutil.MatchesAny(tc.path, globs); got != tc.want {
			t.Fatalf("MatchesAny(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestIsBinary(t *testing.T) {
	if fsutil.IsBinary([]byte("plain text\nwith lines\n")) {
		t.Error("text content flagged as binary")
	}
	if !fsutil.IsBinary([]byte{0x7f, 'E', 'L', 'F', 0x00, 0x01}) {
		t.Error("NUL-bearing content not flagged as binary")
	}
	if fsutil.IsBinary(nil) {
		t.Error("empty content flagged as binary")
	}
}

func TestHashContentStable(t *testing.T) {
	a := fsutil.HashContent([]byte("retry"))
	b := fsutil.HashContent([]byte("retry"))
	c := fsutil.HashContent([]byte("timeout"))
	if a != b {
		t.Errorf("same content hashed differently: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different content produced identical hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestListFilesSkipsDirs(t *testing.T) {
	root := t.TempDir()
	mustWrite := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	mustWrite("svc/main.go", "package main")
	mustWrite("svc/retry.py", "import tenacity")
	mustWrite("node_modules/pkg/index.js", "module.exports = {}")
	mustWrite(".git/HEAD", "ref: refs/heads/main")

	files, err := fsutil.ListFiles(root, map[string]bool{"node_modules": true, ".git": true})
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	got := map[string]bool{}
	for _, f := range files {
		got[f] = true
	}
	if !got["svc/main.go"] || !got["svc/retry.py"] {
		t.Errorf("expected source files in listing, got %v", files)
	}
	if got["node_modules/pkg/index.js"] {
		t.Error("node_modules was not pruned")
	}
	if got[".git/HEAD"] {
		t.Error(".git was not pruned")
	}
}
