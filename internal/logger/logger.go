// Package logger provides the verbose logging utility shared by the CLI.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Level controls how much the tool narrates on stderr.
type Level int

const (
	// LevelOff disables all logging.
	LevelOff Level = iota
	// LevelInfo shows scan progress.
	LevelInfo
	// LevelDebug shows per-file detection detail.
	LevelDebug
)

var (
	currentLevel = LevelOff
	startTime    = time.Now()
	out          io.Writer = os.Stderr
)

// SetLevel sets the global logging level and restarts the elapsed clock.
func SetLevel(level Level) {
	currentLevel = level
	startTime = time.Now()
}

// GetLevel returns the current logging level.
func GetLevel() Level {
	return currentLevel
}

// IsVerbose reports whether info-level logging is enabled.
func IsVerbose() bool {
	return currentLevel >= LevelInfo
}

// IsDebug reports whether debug-level logging is enabled.
func IsDebug() bool {
	return currentLevel >= LevelDebug
}

// SetOutput redirects log output. Used by tests.
func SetOutput(w io.Writer) {
	out = w
}

func logf(tag, format string, args ...any) {
	elapsed := time.Since(startTime).Round(time.Millisecond)
	if tag != "" {
		tag = " " + tag
	}
	fmt.Fprintf(out, fmt.Sprintf("[%s]%s ", elapsed, tag)+format+"\n", args...)
}

// Info logs scan progress (shown with --verbose).
func Info(format string, args ...any) {
	if currentLevel >= LevelInfo {
		logf("", format, args...)
	}
}

// Debug logs detection detail (shown with --debug).
func Debug(format string, args ...any) {
	if currentLevel >= LevelDebug {
		logf("[DEBUG]", format, args...)
	}
}

// Warn logs a recoverable problem, such as a file skipped mid-scan.
func Warn(format string, args ...any) {
	if currentLevel >= LevelInfo {
		logf("[WARN]", format, args...)
	}
}

// Error logs a failure that still lets the scan continue.
func Error(format string, args ...any) {
	if currentLevel >= LevelInfo {
		logf("[ERROR]", format, args...)
	}
}
