// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/younwookim/stagehand/internal/infrastructure/config"
)

// New creates a logger writing to stderr
func New(cfg config.LogConfig) (*log.Logger, error) {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, cfg config.LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: cfg.Timestamp,
		ReportCaller:    cfg.Caller,
		TimeFormat:      time.RFC3339,
	}), nil
}

// Nop returns a logger that discards everything
func Nop() *log.Logger {
	return log.New(io.Discard)
}
