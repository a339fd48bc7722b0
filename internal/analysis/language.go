package analysis

import (
	"path/filepath"
	"strings"
)

// Language identifies the source language of a scanned file. The set is
// closed: anything the detector has no dedicated knowledge of maps to
// LangGeneric, which is always scannable through the generic pattern
// tables.
type Language string

// Supported languages.
const (
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJava       Language = "java"
	LangRuby       Language = "ruby"
	LangRust       Language = "rust"
	LangCSharp     Language = "csharp"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangPHP        Language = "php"
	LangKotlin     Language = "kotlin"
	LangScala      Language = "scala"
	LangSwift      Language = "swift"
	LangShell      Language = "shell"
	LangSQL        Language = "sql"
	LangGeneric    Language = "generic"
)

var extensionToLanguage = map[string]Language{
	// Python
	".py":  LangPython,
	".pyw": LangPython,
	".pyi": LangPython,
	// Go
	".go": LangGo,
	// JavaScript
	".js":  LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".jsx": LangJavaScript,
	// TypeScript
	".ts":  LangTypeScript,
	".tsx": LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
	// Java
	".java": LangJava,
	// Ruby
	".rb":   LangRuby,
	".rake": LangRuby,
	// Rust
	".rs": LangRust,
	// C#
	".cs": LangCSharp,
	// C
	".c": LangC,
	".h": LangC,
	// C++
	".cpp": LangCPP,
	".cc":  LangCPP,
	".cxx": LangCPP,
	".hpp": LangCPP,
	".hxx": LangCPP,
	".hh":  LangCPP,
	// PHP
	".php":   LangPHP,
	".phtml": LangPHP,
	// Kotlin
	".kt":  LangKotlin,
	".kts": LangKotlin,
	// Scala
	".scala": LangScala,
	".sc":    LangScala,
	// Swift
	".swift": LangSwift,
	// Shell
	".sh":   LangShell,
	".bash": LangShell,
	".zsh":  LangShell,
	// SQL
	".sql": LangSQL,
}

// filenameToLanguage maps well-known extensionless filenames.
var filenameToLanguage = map[string]Language{
	"Dockerfile":  LangShell,
	"dockerfile":  LangShell,
	"Makefile":    LangShell,
	"makefile":    LangShell,
	"GNUmakefile": LangShell,
	"Rakefile":    LangRuby,
	"Jenkinsfile": LangGeneric,
}

// DetectLanguage returns the language of a file based on its extension or
// filename. Unrecognized files return LangGeneric, never an error: the
// generic pattern tables apply to every file handed to the detector.
func DetectLanguage(filePath string) Language {
	ext := strings.ToLower(filepath.Ext(filePath))
	if lang, ok := extensionToLanguage[ext]; ok {
		return lang
	}

	filename := filepath.Base(filePath)
	if lang, ok := filenameToLanguage[filename]; ok {
		return lang
	}

	if strings.HasPrefix(filename, "Dockerfile.") || strings.HasPrefix(filename, "dockerfile.") {
		return LangShell
	}

	return LangGeneric
}

// IsSource reports whether a path carries a recognized source extension or
// filename. The collector uses this to keep data and markup files out of
// the corpus by default.
func IsSource(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	if _, ok := extensionToLanguage[ext]; ok {
		return true
	}
	filename := filepath.Base(filePath)
	if _, ok := filenameToLanguage[filename]; ok {
		return true
	}
	return strings.HasPrefix(filename, "Dockerfile.") || strings.HasPrefix(filename, "dockerfile.")
}

// SupportedExtensions returns every file extension with a dedicated
// language mapping.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionToLanguage))
	for ext := range extensionToLanguage {
		exts = append(exts, ext)
	}
	return exts
}
