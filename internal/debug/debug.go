// Package debug is the gated diagnostic log for openenc. Nothing is written
// unless debugging is switched on and an output has been set, and nothing is
// ever written while the MCP server owns stdio.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// EnableDebug can be set at build time:
// go build -ldflags "-X github.com/standardbeagle/openenc/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// MCPMode is set by the mcp command before serving.
var MCPMode = false

var (
	enabled     atomic.Bool
	debugOutput io.Writer
	debugFile   *os.File
	debugMutex  sync.Mutex
)

// SetMCPMode suppresses all output for the lifetime of an MCP session.
func SetMCPMode(on bool) {
	MCPMode = on
}

// SetEnabled switches debugging on at runtime (the --debug flag).
func SetEnabled(on bool) {
	enabled.Store(on)
}

// SetDebugOutput sets the writer for debug output. nil disables output.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// InitDebugLogFile sends debug output to a timestamped file under the
// temp directory and returns its path. Call CloseDebugLog when done.
func InitDebugLogFile() (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	logDir := filepath.Join(os.TempDir(), "openenc-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	name := fmt.Sprintf("debug-%s-%d.log", time.Now().Format("2006-01-02T150405"), os.Getpid())
	logPath := filepath.Join(logDir, name)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugFile = file
	debugOutput = file
	return logPath, nil
}

// CloseDebugLog closes the file opened by InitDebugLogFile, if any.
func CloseDebugLog() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if debugFile == nil {
		return nil
	}
	err := debugFile.Close()
	debugFile = nil
	debugOutput = nil
	return err
}

// IsDebugEnabled reports whether debug output is on. MCP mode always wins.
func IsDebugEnabled() bool {
	if MCPMode {
		return false
	}
	if EnableDebug == "true" || enabled.Load() {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

func write(prefix, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	debugMutex.Lock()
	defer debugMutex.Unlock()
	if debugOutput == nil {
		return
	}
	fmt.Fprintf(debugOutput, prefix+format, args...)
}

// Printf writes a debug line when enabled.
func Printf(format string, args ...interface{}) {
	write("[DEBUG] ", format, args...)
}

// Log writes a debug line tagged with a component name.
func Log(component, format string, args ...interface{}) {
	write("[DEBUG:"+component+"] ", format, args...)
}

func LogBatch(format string, args ...interface{}) {
	Log("BATCH", format, args...)
}

func LogConfig(format string, args ...interface{}) {
	Log("CONFIG", format, args...)
}

func LogMCP(format string, args ...interface{}) {
	Log("MCP", format, args...)
}
