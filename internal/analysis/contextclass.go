package analysis

import (
	"regexp"
	"strings"
)

// LineLabel classifies a single line of source text.
type LineLabel uint8

const (
	// LabelCode marks a line that executes (or declares) something.
	LabelCode LineLabel = iota
	// LabelLineComment marks a line whose first token opens a line comment.
	LabelLineComment
	// LabelBlockCommentBody marks a line inside a block comment or
	// docstring-like region, including the line carrying the closing
	// delimiter.
	LabelBlockCommentBody
)

// String returns the serialized form used in reports.
func (l LineLabel) String() string {
	switch l {
	case LabelLineComment:
		return "line_comment"
	case LabelBlockCommentBody:
		return "block_comment"
	default:
		return "code"
	}
}

// LineContext is the classification of one line: its comment label plus an
// independent flag for pattern-definition contexts (catalog assignments and
// expression-compilation calls).
type LineContext struct {
	Label      LineLabel
	PatternDef bool
}

// syntax carries the comment tokens of a language. blockCloses is parallel
// to blockOpens.
type syntax struct {
	lineMarkers []string
	blockOpens  []string
	blockCloses []string
	quoteChars  string
}

var (
	cStyleSyntax = syntax{
		lineMarkers: []string{"//"},
		blockOpens:  []string{"/*"},
		blockCloses: []string{"*/"},
		quoteChars:  `"'`,
	}
	pythonSyntax = syntax{
		lineMarkers: []string{"#"},
		blockOpens:  []string{`"""`, "'''"},
		blockCloses: []string{`"""`, "'''"},
		quoteChars:  `"'`,
	}
	goSyntax = syntax{
		lineMarkers: []string{"//"},
		blockOpens:  []string{"/*"},
		blockCloses: []string{"*/"},
		quoteChars:  "\"'`",
	}
	scriptSyntax = syntax{
		lineMarkers: []string{"//"},
		blockOpens:  []string{"/*"},
		blockCloses: []string{"*/"},
		quoteChars:  "\"'`",
	}
	rubySyntax = syntax{
		lineMarkers: []string{"#"},
		blockOpens:  []string{"=begin"},
		blockCloses: []string{"=end"},
		quoteChars:  `"'`,
	}
	shellSyntax = syntax{
		lineMarkers: []string{"#"},
		quoteChars:  `"'`,
	}
	sqlSyntax = syntax{
		lineMarkers: []string{"--"},
		blockOpens:  []string{"/*"},
		blockCloses: []string{"*/"},
		quoteChars:  `'`,
	}
	phpSyntax = syntax{
		lineMarkers: []string{"//", "#"},
		blockOpens:  []string{"/*"},
		blockCloses: []string{"*/"},
		quoteChars:  `"'`,
	}
	genericSyntax = syntax{
		lineMarkers: []string{"//", "#", "--"},
		blockOpens:  []string{"/*"},
		blockCloses: []string{"*/"},
		quoteChars:  `"'`,
	}
)

var syntaxByLanguage = map[Language]syntax{
	LangPython:     pythonSyntax,
	LangGo:         goSyntax,
	LangJavaScript: scriptSyntax,
	LangTypeScript: scriptSyntax,
	LangJava:       cStyleSyntax,
	LangRuby:       rubySyntax,
	LangRust:       cStyleSyntax,
	LangCSharp:     cStyleSyntax,
	LangC:          cStyleSyntax,
	LangCPP:        cStyleSyntax,
	LangPHP:        phpSyntax,
	LangKotlin:     cStyleSyntax,
	LangScala:      cStyleSyntax,
	LangSwift:      cStyleSyntax,
	LangShell:      shellSyntax,
	LangSQL:        sqlSyntax,
	LangGeneric:    genericSyntax,
}

func syntaxFor(lang Language) syntax {
	if syn, ok := syntaxByLanguage[lang]; ok {
		return syn
	}
	return genericSyntax
}

var (
	// Catalog-style assignment: an identifier that names pattern tables on
	// the left of =, := or :, with optional keyword/type prefixes and an
	// optional subscript. An optional leading comment marker keeps the flag
	// independent of comment state. The net is loose: a line that merely
	// names pattern tables gets flagged.
	patternAssignRe = regexp.MustCompile(`(?i)^\s*(?:(?://|#|--|/\*|\*)\s*)?(?:[\w<>,.$\[\]]+\s+)*[\w.]*(?:pattern|trigger|indicator|catalog|signature)s?\w*\s*(?:\[[^\]]*\]\s*)?(?::=|[:=])[^=]`)

	// Expression-compilation calls across the supported languages.
	compileCallRe = regexp.MustCompile(`(?:\bre\.compile|\bregexp\.MustCompile|\bregexp\.Compile|\bPattern\.compile|\bnew\s+RegExp)\s*\(`)
)

// IsPatternDefinitionLine reports whether a line looks like it constructs
// pattern tables or compiles an expression literal. Heuristic, not a parse.
func IsPatternDefinitionLine(line string) bool {
	return patternAssignRe.MatchString(line) || compileCallRe.MatchString(line)
}

// ClassifyLines labels every line of content in a single pass. The only
// state carried across lines is block-comment parity: a block delimiter
// toggles it each time an unescaped token is seen outside a single-line
// string. The classifier is reset per file and has no terminal state other
// than end of content.
func ClassifyLines(content string, lang Language) []LineContext {
	syn := syntaxFor(lang)
	rawLines := strings.Split(content, "\n")
	out := make([]LineContext, len(rawLines))

	inBlock := false
	closeTok := ""

	for i, line := range rawLines {
		startedInBlock := inBlock
		inBlock, closeTok = scanLineState(line, syn, inBlock, closeTok)

		out[i] = LineContext{
			Label:      labelFor(line, syn, startedInBlock),
			PatternDef: IsPatternDefinitionLine(line),
		}
	}
	return out
}

// labelFor decides a line's label from where it started and its first token.
func labelFor(line string, syn syntax, startedInBlock bool) LineLabel {
	if startedInBlock {
		return LabelBlockCommentBody
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return LabelCode
	}
	for _, m := range syn.lineMarkers {
		if strings.HasPrefix(trimmed, m) {
			return LabelLineComment
		}
	}
	for _, open := range syn.blockOpens {
		if strings.HasPrefix(trimmed, open) {
			return LabelBlockCommentBody
		}
	}
	return LabelCode
}

// scanLineState advances the block-comment state machine across one line.
func scanLineState(line string, syn syntax, inBlock bool, closeTok string) (bool, string) {
	i := 0
	for i < len(line) {
		if inBlock {
			if strings.HasPrefix(closeTok, "=") {
				// Column-zero closers (Ruby =end).
				if i == 0 && strings.HasPrefix(line, closeTok) {
					inBlock = false
					closeTok = ""
					i = len(line)
					continue
				}
				return true, closeTok
			}
			idx := indexUnescaped(line[i:], closeTok)
			if idx < 0 {
				return true, closeTok
			}
			i += idx + len(closeTok)
			inBlock = false
			closeTok = ""
			continue
		}

		// Block delimiters are matched before quote characters; a
		// triple-quote opener must not be read as three string quotes.
		if tok, closer := matchBlockOpen(line, i, syn); tok != "" {
			inBlock = true
			closeTok = closer
			i += len(tok)
			continue
		}

		if marker := matchLineMarker(line, i, syn); marker != "" {
			// Rest of the line is a comment; block state is unchanged.
			return inBlock, closeTok
		}

		c := line[i]
		if strings.IndexByte(syn.quoteChars, c) >= 0 && !escapedAt(line, i) {
			end := closingQuote(line, i)
			if end < 0 {
				// Unterminated single-line string; it cannot span lines.
				return inBlock, closeTok
			}
			i = end + 1
			continue
		}
		i++
	}
	return inBlock, closeTok
}

func matchBlockOpen(line string, i int, syn syntax) (tok, closer string) {
	for k, open := range syn.blockOpens {
		// Ruby's =begin/=end are only delimiters in column zero.
		if strings.HasPrefix(open, "=") && i != 0 {
			continue
		}
		if strings.HasPrefix(line[i:], open) && !escapedAt(line, i) {
			return open, syn.blockCloses[k]
		}
	}
	return "", ""
}

func matchLineMarker(line string, i int, syn syntax) string {
	for _, m := range syn.lineMarkers {
		if strings.HasPrefix(line[i:], m) && !escapedAt(line, i) {
			return m
		}
	}
	return ""
}

// indexUnescaped finds the first occurrence of tok in s not preceded by a
// backslash.
func indexUnescaped(s, tok string) int {
	from := 0
	for {
		idx := strings.Index(s[from:], tok)
		if idx < 0 {
			return -1
		}
		abs := from + idx
		if !escapedAt(s, abs) {
			return abs
		}
		from = abs + 1
	}
}

// closingQuote returns the index of the quote that closes the one opened at
// i, or -1 when the string runs to end of line.
func closingQuote(line string, i int) int {
	q := line[i]
	for j := i + 1; j < len(line); j++ {
		if line[j] == q && !escapedAt(line, j) {
			return j
		}
	}
	return -1
}

func escapedAt(s string, i int) bool {
	backslashes := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		backslashes++
	}
	return backslashes%2 == 1
}

// InsideStringLiteral reports whether the byte column of a line falls
// inside a single-line quoted literal. Used by the extra-conservative
// filter variant applied to pattern-source files.
func InsideStringLiteral(line string, col int) bool {
	if col < 0 || col > len(line) {
		return false
	}
	const quotes = "\"'`"
	open := byte(0)
	for i := 0; i < col && i < len(line); i++ {
		c := line[i]
		if open == 0 {
			if strings.IndexByte(quotes, c) >= 0 && !escapedAt(line, i) {
				open = c
			}
			continue
		}
		if c == open && !escapedAt(line, i) {
			open = 0
		}
	}
	return open != 0
}
