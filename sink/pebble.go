package sink

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/philipp01105/logdispatch/core"
	"github.com/philipp01105/logdispatch/formatter"
)

// PebbleConfig holds configuration for the pebble sink
type PebbleConfig struct {
	// Dir is the database directory (required)
	Dir string
	// Sync forces a WAL fsync on every write
	Sync bool
	// Options allows tuning Pebble. If nil, defaults are used.
	Options *pebble.Options
}

// PebbleSink spools entries into a local Pebble database as JSON values.
//
// Keys are the 8-byte big-endian creation time in unix nanoseconds followed
// by an 8-byte sequence number, so iteration yields entries in time order.
type PebbleSink struct {
	mu        sync.Mutex
	db        *pebble.DB
	wo        *pebble.WriteOptions
	formatter *formatter.JSONFormatter
	seq       uint64
	closed    bool
}

// NewPebble opens or creates the spool database.
func NewPebble(cfg PebbleConfig) (*PebbleSink, error) {
	if cfg.Dir == "" {
		return nil, errors.New("pebble sink: dir is required")
	}
	po := cfg.Options
	if po == nil {
		po = &pebble.Options{}
	}
	db, err := pebble.Open(cfg.Dir, po)
	if err != nil {
		return nil, fmt.Errorf("pebble sink: %w", err)
	}
	wo := pebble.NoSync
	if cfg.Sync {
		wo = pebble.Sync
	}
	return &PebbleSink{
		db:        db,
		wo:        wo,
		formatter: formatter.NewJSONFormatter(formatter.Config{IncludeCaller: true, IncludeGoroutine: true}),
	}, nil
}

// Dispatch implements Sink.
func (s *PebbleSink) Dispatch(entry *core.Entry) error {
	value, err := s.formatter.Format(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	var key [16]byte
	binary.BigEndian.PutUint64(key[:8], uint64(entry.Time.UnixNano()))
	binary.BigEndian.PutUint64(key[8:], s.seq)
	s.seq++
	return s.db.Set(key[:], value, s.wo)
}

// Replay calls fn with every spooled record in key order. The slices are
// only valid during the call.
func (s *PebbleSink) Replay(fn func(key, value []byte) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	iter, err := s.db.NewIter(nil)
	if err != nil {
		return err
	}
	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			_ = iter.Close()
			return err
		}
	}
	return iter.Close()
}

// Flush flushes the memtable to disk.
func (s *PebbleSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.db.Flush()
}

// Close closes the database.
func (s *PebbleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
