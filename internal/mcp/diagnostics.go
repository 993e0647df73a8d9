package mcp

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DiagnosticLogger records server activity. While serving over stdio nothing
// may reach stdout or stderr, so in MCP mode it writes to a file under the
// temp directory instead.
type DiagnosticLogger struct {
	mu       sync.Mutex
	file     *os.File
	logger   *log.Logger
	filePath string
}

// NewDiagnosticLogger returns a file-backed logger when isMCP is set and a
// stderr logger otherwise. Failing to create the file disables logging
// rather than failing startup.
func NewDiagnosticLogger(isMCP bool) *DiagnosticLogger {
	if !isMCP {
		return &DiagnosticLogger{logger: log.New(os.Stderr, "[MCP] ", log.LstdFlags)}
	}
	return newFileLogger(filepath.Join(os.TempDir(), "openenc-mcp-logs"))
}

func newFileLogger(logDir string) *DiagnosticLogger {
	dl := &DiagnosticLogger{logger: log.New(io.Discard, "", 0)}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return dl
	}

	name := fmt.Sprintf("mcp-%s-%d.log", time.Now().Format("2006-01-02T150405"), os.Getpid())
	logPath := filepath.Join(logDir, name)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return dl
	}

	dl.file = file
	dl.filePath = logPath
	dl.logger = log.New(file, "[MCP] ", log.LstdFlags|log.Lshortfile)
	return dl
}

// Printf logs one diagnostic line.
func (dl *DiagnosticLogger) Printf(format string, v ...interface{}) {
	if dl == nil {
		return
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	_ = dl.logger.Output(2, fmt.Sprintf(format, v...))
}

// Path returns the log file path, or "" when not logging to a file.
func (dl *DiagnosticLogger) Path() string {
	if dl == nil {
		return ""
	}
	return dl.filePath
}

func (dl *DiagnosticLogger) Close() error {
	if dl == nil {
		return nil
	}
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file == nil {
		return nil
	}
	err := dl.file.Close()
	dl.file = nil
	dl.logger = log.New(io.Discard, "", 0)
	return err
}
