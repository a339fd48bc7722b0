package analysis

import "sort"

// LineIndex resolves byte offsets in file content to 1-based line numbers.
// It is built once per file in O(n) and answers lookups in O(log n), so a
// file with many matches is never re-scanned from the start per match.
type LineIndex struct {
	// starts[i] is the byte offset of the first character of line i+1.
	starts []int
	size   int
}

// NewLineIndex builds the newline-offset index for content.
func NewLineIndex(content string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(content)}
}

// LineAt returns the 1-based line number containing the byte offset.
// Offsets past the end of content resolve to the last line.
func (ix *LineIndex) LineAt(offset int) int {
	if offset < 0 {
		return 1
	}
	// First line whose start lies beyond the offset; the offset belongs to
	// the line before it.
	i := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > offset })
	if i < 1 {
		return 1
	}
	return i
}

// LineCount returns the number of lines in the indexed content.
func (ix *LineIndex) LineCount() int {
	return len(ix.starts)
}

// LineStart returns the byte offset of the first character of the 1-based
// line. Out-of-range lines clamp to the nearest valid line.
func (ix *LineIndex) LineStart(line int) int {
	if line < 1 {
		line = 1
	}
	if line > len(ix.starts) {
		line = len(ix.starts)
	}
	return ix.starts[line-1]
}

// LineEnd returns the byte offset one past the last character of the
// 1-based line, excluding its newline.
func (ix *LineIndex) LineEnd(line int) int {
	if line < 1 {
		line = 1
	}
	if line >= len(ix.starts) {
		return ix.size
	}
	// The next line starts after this line's newline byte.
	return ix.starts[line] - 1
}
