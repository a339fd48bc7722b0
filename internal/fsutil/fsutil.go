// Package fsutil holds small filesystem helpers shared by the collector
// and the history store.
package fsutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// binarySniffLen bounds how much of a file is inspected for binary content.
const binarySniffLen = 8 * 1024

// MatchesAny reports whether the slash-normalized path matches any of the
// globs. Empty and malformed globs are ignored rather than failing the scan.
func MatchesAny(path string, globs []string) bool {
	normalized := filepath.ToSlash(path)
	for _, g := range globs {
		if g == "" {
			continue
		}
		ok, err := doublestar.Match(g, normalized)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// IsBinary reports whether content looks like binary data. A NUL byte in
// the leading window is the signal; text files never carry one.
func IsBinary(content []byte) bool {
	window := content
	if len(window) > binarySniffLen {
		window = window[:binarySniffLen]
	}
	return bytes.IndexByte(window, 0) >= 0
}

// HashContent returns the hex sha256 of content. Scan fingerprints are
// built from these per-file hashes.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("%x", sum)
}

// ListFiles walks root and returns slash-normalized paths relative to it.
// Directories named in skipDirs are pruned wherever they appear. Symlinked
// directories are not followed; broken symlinks and permission errors are
// skipped rather than aborting the walk.
func ListFiles(root string, skipDirs map[string]bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.Type()&os.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return nil
			}
			if target.IsDir() {
				return filepath.SkipDir
			}
			files = append(files, rel)
			return nil
		}

		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
