package model

import "time"

// UntitledDescription labels description-variant entries saved without text.
const UntitledDescription = "Untitled entry"

// TimeEntry is one completed, saved timer interval.
// TaskID is nil for entries recorded with a free-text description.
type TimeEntry struct {
	ID          int64     `json:"id"`
	TaskID      *int64    `json:"taskId,omitempty"`
	Description string    `json:"description,omitempty"`
	Duration    int64     `json:"duration"`
	Timestamp   time.Time `json:"timestamp"`
	ExternalID  string    `json:"externalId,omitempty"`
}

// HasTask reports whether the entry references the task with the given id.
func (e TimeEntry) HasTask(id int64) bool {
	return e.TaskID != nil && *e.TaskID == id
}
