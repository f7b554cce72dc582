// Package export renders the time-entry log, joined with task names, as
// CSV, JSON or PDF.
package export

import (
	"time"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

// Variant selects how entries are labelled.
type Variant int

const (
	// VariantTask labels entries with their task name.
	VariantTask Variant = iota
	// VariantDescription labels entries with their free-text description.
	VariantDescription
)

// NoTaskLabel is shown for entries whose task no longer exists.
const NoTaskLabel = "No Task"

// DefaultTimeLayout renders entry timestamps.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// Options controls rendering.
type Options struct {
	Variant    Variant
	TimeLayout string
	Location   *time.Location
}

func (o Options) layout() string {
	if o.TimeLayout == "" {
		return DefaultTimeLayout
	}
	return o.TimeLayout
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Row is one exported entry with its label resolved.
type Row struct {
	EntryID         int64     `json:"id"`
	TaskID          *int64    `json:"taskId,omitempty"`
	Label           string    `json:"label"`
	DurationSeconds int64     `json:"durationSeconds"`
	Duration        string    `json:"duration"`
	Timestamp       time.Time `json:"timestamp"`
}

// Label resolves the display label of e.
func Label(e model.TimeEntry, names map[int64]string) string {
	if e.TaskID != nil {
		if name, ok := names[*e.TaskID]; ok {
			return name
		}
		return NoTaskLabel
	}
	if e.Description != "" {
		return e.Description
	}
	return model.UntitledDescription
}

// Rows resolves entries against tasks, keeping log order.
func Rows(entries []model.TimeEntry, tasks []model.Task) []Row {
	names := make(map[int64]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			EntryID:         e.ID,
			TaskID:          e.TaskID,
			Label:           Label(e, names),
			DurationSeconds: e.Duration,
			Duration:        timecalc.FormatDurationHHMMSS(e.Duration),
			Timestamp:       e.Timestamp,
		})
	}
	return rows
}

// FileName returns the download name for an export in the given format
// ("csv", "json", "pdf"). The date is the UTC calendar date of now.
func FileName(v Variant, format string, now time.Time) string {
	prefix := "time-entries-"
	if v == VariantDescription {
		prefix = "timelog-export-"
	}
	return prefix + now.UTC().Format("2006-01-02") + "." + format
}
