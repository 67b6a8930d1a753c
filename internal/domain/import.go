package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportResult is the report of one pipeline run.
type ImportResult struct {
	RunID    uuid.UUID
	Table    string
	Zones    int
	Cities   int
	Skipped  int
	Batches  int
	Rows     int64
	Duration time.Duration
	DryRun   bool
}

// CompletedEvent converts the report into the event published after a run.
func (r *ImportResult) CompletedEvent(requestID *uuid.UUID, runErr error) *ImportCompletedEvent {
	event := &ImportCompletedEvent{
		RunID:      r.RunID,
		RequestID:  requestID,
		Table:      r.Table,
		Cities:     r.Cities,
		Skipped:    r.Skipped,
		Rows:       r.Rows,
		DurationMs: r.Duration.Milliseconds(),
		FinishedAt: time.Now().UTC(),
	}
	if runErr != nil {
		event.Error = runErr.Error()
	}
	return event
}
