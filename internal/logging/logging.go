// Package logging configures optional file logging. The TUI owns the
// terminal, so diagnostics go to a log file or nowhere at all.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// New opens a dated log file under dir (created if missing) and returns a
// logger writing to it. The returned closer owns the file handle.
func New(dir string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("lanchat-%s.log", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
	})
	return logger, f, nil
}

// Discard returns a logger that drops everything; used when file logging is
// not requested.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
