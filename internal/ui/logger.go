// Package ui provides terminal styling and logger setup for ragdex.
package ui

import (
	"os"

	"github.com/charmbracelet/log"
)

// InitLogger configures the process-wide charm logger. Output goes to
// stderr so command results on stdout stay pipeable.
func InitLogger() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	log.SetReportCaller(false)
	log.SetReportTimestamp(false)
}

// SetDebug toggles debug-level logging, reverting to info when disabled.
func SetDebug(enabled bool) {
	level := log.InfoLevel
	if enabled {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}
