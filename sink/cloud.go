package sink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/logging"
	logpb "cloud.google.com/go/logging/apiv2/loggingpb"
	"google.golang.org/api/option"

	"github.com/philipp01105/logdispatch/core"
)

// CloudConfig holds configuration for the Cloud Logging sink
type CloudConfig struct {
	// Project is the GCP project ID (required)
	Project string
	// LogID names the log (default: "logdispatch")
	LogID string
	// Instance, when set, is attached as the instance_name label
	Instance string
	// UserAgent is the client user agent option
	UserAgent string
	// WithoutAuthentication disables credentials lookup
	WithoutAuthentication bool
	// DelayThreshold bounds how long entries are buffered before upload (default: 1s)
	DelayThreshold time.Duration
	// ClientOptions are appended to the derived options
	ClientOptions []option.ClientOption
}

// CloudSink writes entries to Google Cloud Logging. The client uploads in
// the background; upload errors are returned by the next Dispatch or Flush.
type CloudSink struct {
	client *logging.Client
	logger *logging.Logger

	mu      sync.Mutex
	lastErr error
}

// NewCloud creates the Cloud Logging client and logger.
func NewCloud(ctx context.Context, cfg CloudConfig) (*CloudSink, error) {
	if cfg.Project == "" {
		return nil, errors.New("cloud sink: project is required")
	}
	if cfg.LogID == "" {
		cfg.LogID = "logdispatch"
	}
	if cfg.DelayThreshold <= 0 {
		cfg.DelayThreshold = time.Second
	}

	var clientOptions []option.ClientOption
	if cfg.UserAgent != "" {
		clientOptions = append(clientOptions, option.WithUserAgent(cfg.UserAgent))
	}
	if cfg.WithoutAuthentication {
		clientOptions = append(clientOptions, option.WithoutAuthentication())
	}
	clientOptions = append(clientOptions, cfg.ClientOptions...)

	client, err := logging.NewClient(ctx, cfg.Project, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloud logging client: %w", err)
	}

	s := &CloudSink{client: client}
	client.OnError = s.recordErr

	loggerOptions := []logging.LoggerOption{logging.DelayThreshold(cfg.DelayThreshold)}
	if cfg.Instance != "" {
		loggerOptions = append(loggerOptions, logging.CommonLabels(map[string]string{
			"instance_name": cfg.Instance,
		}))
	}
	s.logger = client.Logger(cfg.LogID, loggerOptions...)
	return s, nil
}

func (s *CloudSink) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *CloudSink) takeErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.lastErr
	s.lastErr = nil
	return err
}

// Dispatch implements Sink.
func (s *CloudSink) Dispatch(entry *core.Entry) error {
	if err := s.takeErr(); err != nil {
		return fmt.Errorf("cloud logging: %w", err)
	}
	s.logger.Log(cloudEntry(entry))
	return nil
}

// Flush uploads buffered entries.
func (s *CloudSink) Flush() error {
	if err := s.logger.Flush(); err != nil {
		return fmt.Errorf("failed to flush cloud logging: %w", err)
	}
	return s.takeErr()
}

// Close flushes and closes the client.
func (s *CloudSink) Close() error {
	return s.client.Close()
}

var cloudSeverities = [...]logging.Severity{
	core.NoneLevel:    logging.Default,
	core.DebugLevel:   logging.Debug,
	core.InfoLevel:    logging.Info,
	core.WarnLevel:    logging.Warning,
	core.ProblemLevel: logging.Warning,
	core.ErrorLevel:   logging.Error,
	core.FatalLevel:   logging.Critical,
}

func cloudEntry(entry *core.Entry) logging.Entry {
	payload := map[string]interface{}{
		"message":   entry.Message,
		"type":      entry.MessageType(),
		"goroutine": entry.Goroutine,
	}
	if entry.Context != "" {
		payload["context"] = entry.Context
	}
	for _, f := range entry.Fields {
		payload[f.Key] = f.Value()
	}

	e := logging.Entry{
		Timestamp: entry.Time,
		Severity:  logging.Default,
		Payload:   payload,
	}
	if entry.Level.Valid() {
		e.Severity = cloudSeverities[entry.Level]
	}
	if entry.Caller.Defined {
		e.SourceLocation = &logpb.LogEntrySourceLocation{
			File:     entry.Caller.File,
			Line:     int64(entry.Caller.Line),
			Function: entry.Caller.Function,
		}
	}
	return e
}
