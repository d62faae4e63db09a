// File: timer.go
// Title: Stage Timer
// Description: Measures how long a stage (load, scan, parse, store) takes
//              and logs the result through the owning logger.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with performance timing
// - 2026-10-19 v0.2.0: Reduced to Stop, StopWithError and Checkpoint

package log

import (
	"time"
)

// Timer represents a performance timer for measuring operation duration
type Timer struct {
	logger    *Logger
	operation string
	startTime time.Time
	fields    Fields
	level     Level
	stopped   bool
}

// NewTimer creates a new timer for the given operation
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		startTime: time.Now(),
		fields:    make(Fields),
		level:     LevelDebug,
	}
}

// WithLevel sets the log level for the timer completion message
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to be logged when the timer completes
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the elapsed time since the timer was started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Stop stops the timer and logs the elapsed time. A stopped timer returns 0.
func (t *Timer) Stop() time.Duration {
	return t.StopWithError(nil)
}

// StopWithError stops the timer; a non-nil err is logged as a warning
func (t *Timer) StopWithError(err error) time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true
	elapsed := t.Elapsed()

	if t.logger == nil {
		return elapsed
	}

	entry := NewEntry(t.level, t.operation+" completed")
	if err != nil {
		entry = NewEntry(LevelWarn, t.operation+" failed")
		entry.Error = err
	}
	if !entry.Level.ShouldLog(t.logger.level) {
		return elapsed
	}
	entry.Logger = t.logger.name
	entry.RunID = t.logger.runID
	entry.Duration = elapsed
	for k, v := range t.logger.contextFields {
		entry.Fields[k] = v
	}
	for k, v := range t.fields {
		entry.Fields[k] = v
	}
	entry.Fields["operation"] = t.operation
	entry.Fields["success"] = err == nil
	t.logger.write(entry)

	return elapsed
}

// Checkpoint logs an intermediate timing checkpoint at trace level
func (t *Timer) Checkpoint(name string, fields ...Fields) {
	if t.stopped || t.logger == nil {
		return
	}
	combined := Fields{
		"operation":  t.operation,
		"checkpoint": name,
		"elapsed":    t.Elapsed().String(),
	}
	for _, f := range fields {
		for k, v := range f {
			combined[k] = v
		}
	}
	t.logger.Trace(t.operation+" checkpoint: "+name, combined)
}

// IsRunning returns true if the timer is still running
func (t *Timer) IsRunning() bool {
	return !t.stopped
}
