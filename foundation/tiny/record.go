package tiny

import (
	"context"
	"time"
)

// Status is the outcome of one engine run
type Status string

const (
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusTerminated Status = "terminated"
	StatusFailed     Status = "failed"
)

// RunRecord summarizes a finished run for a Recorder
type RunRecord struct {
	ID        string
	Source    string
	StartedAt time.Time
	Duration  time.Duration
	Attempts  int
	Status    Status

	// Stage, Position, Line and Message describe the last diagnostic;
	// they are empty for accepted runs
	Stage    string
	Position int
	Line     int
	Message  string

	Tokens int
	Nodes  int
}

// Recorder persists run records, e.g. in the history store
type Recorder interface {
	Record(ctx context.Context, rec RunRecord) error
}
