package sink

import "sync/atomic"

// Stats tracks write outcomes of a sink.
type Stats struct {
	processed atomic.Uint64
	failed    atomic.Uint64
}

// Snapshot is a point-in-time copy of Stats.
type Snapshot struct {
	Processed uint64
	Failed    uint64
}

func (s *Stats) record(err error) {
	if err != nil {
		s.failed.Add(1)
		return
	}
	s.processed.Add(1)
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Processed: s.processed.Load(),
		Failed:    s.failed.Load(),
	}
}

// StatsProvider is implemented by sinks that count their writes.
type StatsProvider interface {
	Stats() Snapshot
}
