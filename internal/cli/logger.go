package cli

import (
	"fmt"
	"os"
)

// Logger writes human-readable diagnostics to stderr. Stdout is reserved for
// the rewritten line stream, so every level goes to stderr.
type Logger struct{}

// Info prints an informational message.
func (Logger) Info(msg string) {
	writeLog("[INFO]", msg)
}

// Warn prints a warning message.
func (Logger) Warn(msg string) {
	writeLog("[WARN]", msg)
}

// Error prints an error message.
func (Logger) Error(msg string) {
	writeLog("[ERROR]", msg)
}

func writeLog(level, msg string) {
	outputMu.Lock()
	defer outputMu.Unlock()
	fmt.Fprintln(os.Stderr, level, msg)
}
