// Package sink defines the destination contract of the delivery engine and
// provides the built-in sinks.
//
// A Sink receives one entry at a time through Dispatch and reports whether
// it was written. The engine never calls a single Sink concurrently, but
// the sinks in this package are safe to share between engines.
//
// Sinks may optionally implement Flusher and Closer; the engine calls them
// when it stops.
//
// Built-in sinks:
//
//	console  text or JSON to stdout/stderr, ANSI colors on terminals
//	file     rotating file (lumberjack)
//	zap      forwards to a zapcore.Core
//	zerolog  forwards to a zerolog.Logger
//	logrus   forwards to a logrus.Logger
//	beats    ships events to a Logstash/Beats endpoint (lumberjack v2 protocol)
//	pebble   durable local spool in a Pebble database
//	cloud    Google Cloud Logging
//	discard  drops everything
//
// Sinks are created from descriptors such as
//
//	console:color=auto;file:path=/var/log/app.log,maxsize=100
//
// through a Registry mapping each name to a Factory.
package sink
