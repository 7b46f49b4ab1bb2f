package sink

import (
	"errors"
	"fmt"
	"sync"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"

	"github.com/philipp01105/logdispatch/core"
)

// BeatsConfig holds configuration for the beats sink
type BeatsConfig struct {
	// Addr is the host:port of the Logstash or Beats endpoint (required)
	Addr string
	// Timeout for connecting and for each acknowledged send (default: 3s)
	Timeout time.Duration
	// Compression level 0-9 (default: 0, uncompressed)
	Compression int
}

// BeatsSink ships entries as events over the lumberjack v2 protocol. The
// connection is opened on first use and reopened after a failed send.
type BeatsSink struct {
	cfg    BeatsConfig
	mu     sync.Mutex
	client *lumberjack.SyncClient
	closed bool
}

// NewBeats creates a beats sink. It does not connect.
func NewBeats(cfg BeatsConfig) (*BeatsSink, error) {
	if cfg.Addr == "" {
		return nil, errors.New("beats sink: addr is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.Compression < 0 || cfg.Compression > 9 {
		return nil, fmt.Errorf("beats sink: compression %d out of range 0-9", cfg.Compression)
	}
	return &BeatsSink{cfg: cfg}, nil
}

// Dispatch implements Sink.
func (s *BeatsSink) Dispatch(entry *core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.client == nil {
		client, err := lumberjack.SyncDial(s.cfg.Addr,
			lumberjack.CompressionLevel(s.cfg.Compression),
			lumberjack.Timeout(s.cfg.Timeout))
		if err != nil {
			return fmt.Errorf("failed connection to beats server: %w", err)
		}
		s.client = client
	}

	if _, err := s.client.Send([]interface{}{beatsEvent(entry)}); err != nil {
		_ = s.client.Close()
		s.client = nil
		return fmt.Errorf("beats send: %w", err)
	}
	return nil
}

// Close closes the connection.
func (s *BeatsSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func beatsEvent(entry *core.Entry) map[string]interface{} {
	event := map[string]interface{}{
		"@timestamp": entry.Time,
		"message":    entry.Message,
		"log": map[string]interface{}{
			"level":  entry.Level.String(),
			"logger": entry.Context,
			"type":   entry.MessageType(),
		},
		"process": map[string]interface{}{
			"thread": map[string]interface{}{
				"id": entry.Goroutine,
			},
		},
	}
	if entry.Caller.Defined {
		event["log"].(map[string]interface{})["origin"] = map[string]interface{}{
			"file": map[string]interface{}{
				"name": entry.Caller.File,
				"line": entry.Caller.Line,
			},
			"function": entry.Caller.Function,
		}
	}
	if len(entry.Fields) > 0 {
		fields := make(map[string]interface{}, len(entry.Fields))
		for _, f := range entry.Fields {
			fields[f.Key] = f.Value()
		}
		event["fields"] = fields
	}
	return event
}
