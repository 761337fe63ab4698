package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"verune/internal/paths"
)

// New creates a logger that writes to a timestamped file inside the runtime
// root's logs directory. The returned closer should be closed when logging
// is no longer needed.
func New(root string) (*log.Logger, io.Closer, error) {
	logsDir := paths.LogsDir(root)
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405") + ".log"
	filePath := filepath.Join(logsDir, filename)
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.New(file, "", log.LstdFlags|log.Lmicroseconds)
	return logger, file, nil
}

// Discard returns a logger for when file logging is unavailable; commands
// keep working without a log destination.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
