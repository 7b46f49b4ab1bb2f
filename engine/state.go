package engine

// State is the lifecycle stage of an Engine.
type State int32

const (
	// Created engines have not started a worker
	Created State = iota
	// Running engines have a worker goroutine
	Running
	// Closing engines reject new entries
	Closing
	// Stopped engines have completed Stop
	Stopped
)

// String returns the name of the state
func (s State) String() string {
	switch s {
	case Created:
		return "CREATED"
	case Running:
		return "RUNNING"
	case Closing:
		return "CLOSING"
	case Stopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}
