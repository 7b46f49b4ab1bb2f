package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/formatter"
)

// FileConfig holds configuration for the file sink
type FileConfig struct {
	// Path of the active log file (required)
	Path string
	// MaxSize in megabytes before rotation (default: 100)
	MaxSize int
	// MaxBackups is the number of rotated files to keep (0 keeps all)
	MaxBackups int
	// MaxAge in days to keep rotated files (0 keeps all)
	MaxAge int
	// Compress rotated files with gzip
	Compress bool
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
}

// FileSink writes entries to a size-rotated file.
type FileSink struct {
	writerBase
	rotator *lumberjack.Logger
}

// NewFile creates a file sink. The parent directory is created if needed.
func NewFile(cfg FileConfig) (*FileSink, error) {
	if cfg.Path == "" {
		return nil, errors.New("file sink: path is required")
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 100
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("file sink: %w", err)
	}

	s := &FileSink{
		rotator: &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		},
	}
	s.init(s.rotator, cfg.Formatter)
	return s, nil
}

// Dispatch implements Sink.
func (s *FileSink) Dispatch(entry *core.Entry) error {
	return s.write(entry)
}

// Path returns the active file name.
func (s *FileSink) Path() string {
	return s.rotator.Filename
}

// Rotate closes the active file and starts a new one.
func (s *FileSink) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotator.Rotate()
}

// Close closes the active file. Dispatch returns ErrClosed afterwards.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.rotator.Close()
}
