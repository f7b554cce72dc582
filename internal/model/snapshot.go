package model

import "time"

// TimerSnapshot is the minimal state needed to resume an in-progress timer
// across restarts. It is only persisted while ElapsedSeconds > 0.
type TimerSnapshot struct {
	ElapsedSeconds int64
	TaskID         *int64
	Description    string
	LastUpdated    time.Time
}

// Age returns how long ago the snapshot was written, relative to now.
func (s TimerSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.LastUpdated)
}
