// Package timer implements the stopwatch: elapsed seconds, running/paused
// status and the label (task or description) the time is tracked against.
package timer

import (
	"time"

	"github.com/Tiliavir/timelog/internal/model"
)

// DefaultMaxSnapshotAge is how old a persisted snapshot may be and still be
// restored.
const DefaultMaxSnapshotAge = time.Hour

// Engine is the in-memory timer. It is not safe for concurrent use.
type Engine struct {
	elapsed     int64
	running     bool
	taskID      *int64
	description string
	maxAge      time.Duration
}

// NewEngine returns a stopped engine. maxAge <= 0 selects
// DefaultMaxSnapshotAge.
func NewEngine(maxAge time.Duration) *Engine {
	if maxAge <= 0 {
		maxAge = DefaultMaxSnapshotAge
	}
	return &Engine{maxAge: maxAge}
}

// Start marks the engine running.
func (e *Engine) Start() { e.running = true }

// Pause stops the engine without touching elapsed time.
func (e *Engine) Pause() { e.running = false }

// Reset stops the engine and zeroes elapsed time. The label is kept.
func (e *Engine) Reset() {
	e.running = false
	e.elapsed = 0
}

// Tick advances elapsed time by one second while running.
func (e *Engine) Tick() {
	if e.running {
		e.elapsed++
	}
}

// Elapsed returns elapsed whole seconds.
func (e *Engine) Elapsed() int64 { return e.elapsed }

// Running reports whether ticks are being counted.
func (e *Engine) Running() bool { return e.running }

// TaskID returns the associated task, or nil.
func (e *Engine) TaskID() *int64 {
	if e.taskID == nil {
		return nil
	}
	id := *e.taskID
	return &id
}

// SetTask associates the timer with a task.
func (e *Engine) SetTask(id int64) { e.taskID = &id }

// ClearTask drops the task association.
func (e *Engine) ClearTask() { e.taskID = nil }

// ClearTaskIf drops the task association when it points at id and reports
// whether it did.
func (e *Engine) ClearTaskIf(id int64) bool {
	if e.taskID == nil || *e.taskID != id {
		return false
	}
	e.taskID = nil
	return true
}

// Description returns the free-text label.
func (e *Engine) Description() string { return e.description }

// SetDescription sets the free-text label.
func (e *Engine) SetDescription(s string) { e.description = s }

// Snapshot captures the state needed to resume the timer later.
func (e *Engine) Snapshot(now time.Time) model.TimerSnapshot {
	return model.TimerSnapshot{
		ElapsedSeconds: e.elapsed,
		TaskID:         e.TaskID(),
		Description:    e.description,
		LastUpdated:    now,
	}
}

// Fresh reports whether snap is young enough to restore at now.
func (e *Engine) Fresh(snap model.TimerSnapshot, now time.Time) bool {
	return snap.Age(now) < e.maxAge
}

// Restore loads snap into the engine if it is fresh. The engine is left
// paused. A stale snapshot is rejected and the engine is left untouched.
func (e *Engine) Restore(snap model.TimerSnapshot, now time.Time) bool {
	if !e.Fresh(snap, now) {
		return false
	}
	e.running = false
	e.elapsed = snap.ElapsedSeconds
	e.description = snap.Description
	e.taskID = nil
	if snap.TaskID != nil {
		e.SetTask(*snap.TaskID)
	}
	return true
}
