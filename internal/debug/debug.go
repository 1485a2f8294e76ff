// Package debug provides env-gated diagnostic logging for the lw CLI.
package debug

import (
	"fmt"
	"os"
	"sync"
)

var (
	enabled     = os.Getenv("LW_DEBUG") != ""
	verboseMode = false
	quietMode   = false
	mu          sync.Mutex
)

// Enabled returns true when debug output is active.
func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet suppresses non-essential output.
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode
}

// Logf writes to stderr when debug output is active.
func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// PrintNormal prints informational output unless quiet mode is enabled.
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Printf(format, args...)
	}
}
