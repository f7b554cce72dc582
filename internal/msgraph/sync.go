package msgraph

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

// EntryImporter is the part of the tracker a sync writes through.
type EntryImporter interface {
	EnsureTask(ctx context.Context, name string) (model.Task, error)
	EntryByExternalID(externalID string) (model.TimeEntry, bool)
	UpsertImported(ctx context.Context, e model.TimeEntry) (bool, error)
}

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	DryRun   bool
	Project  string
	Timezone string
	// Out receives one progress line per event.
	Out io.Writer
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// describe builds the entry description from subject and location.
func describe(event CalendarEvent) string {
	subject := event.Subject
	if subject == "" {
		subject = model.UntitledDescription
	}
	if event.Location.DisplayName != "" {
		return subject + " @ " + event.Location.DisplayName
	}
	return subject
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	if event.IsCancelled {
		return true
	}
	if event.IsAllDay {
		return true
	}
	if event.Sensitivity == "private" {
		return true
	}
	if event.ShowAs == "free" {
		return true
	}
	if event.Start.DateTime == "" || event.End.DateTime == "" {
		return true
	}
	return false
}

// MapEventToEntry converts a Graph CalendarEvent into a completed time entry
// stamped with the event's end time. The caller assigns TaskID.
func MapEventToEntry(event CalendarEvent, timezone string) (model.TimeEntry, error) {
	startTime, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing start time: %w", err)
	}
	endTime, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing end time: %w", err)
	}
	if !endTime.After(startTime) {
		return model.TimeEntry{}, fmt.Errorf("event ends before it starts (%s - %s)", event.Start.DateTime, event.End.DateTime)
	}

	return model.TimeEntry{
		Description: describe(event),
		Duration:    int64(endTime.Sub(startTime).Seconds()),
		Timestamp:   endTime,
		ExternalID:  event.ID,
	}, nil
}

// unchanged reports whether a stored import already matches entry. The task
// is not compared in a dry run, where entry has none yet.
func unchanged(stored, entry model.TimeEntry, compareTask bool) bool {
	if stored.Description != entry.Description ||
		stored.Duration != entry.Duration ||
		!stored.Timestamp.Equal(entry.Timestamp) {
		return false
	}
	if !compareTask {
		return true
	}
	if stored.TaskID == nil || entry.TaskID == nil {
		return stored.TaskID == nil && entry.TaskID == nil
	}
	return *stored.TaskID == *entry.TaskID
}

// SyncEvents imports events through imp and prints one progress line per
// event. With DryRun nothing is written, not even the project task.
func SyncEvents(ctx context.Context, imp EntryImporter, events []CalendarEvent, opts SyncOptions) (SyncResult, error) {
	var result SyncResult
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	var taskID *int64
	if !opts.DryRun {
		task, err := imp.EnsureTask(ctx, opts.Project)
		if err != nil {
			return result, fmt.Errorf("resolving project task %q: %w", opts.Project, err)
		}
		id := task.ID
		taskID = &id
	}

	for _, event := range events {
		if shouldSkip(event) {
			continue
		}

		entry, err := MapEventToEntry(event, opts.Timezone)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}
		entry.TaskID = taskID
		dur := fmt.Sprintf(" (%s)", timecalc.FormatDuration(entry.Duration))

		found, exists := imp.EntryByExternalID(event.ID)
		if exists && unchanged(found, entry, !opts.DryRun) {
			fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", event.Subject)
			result.Skipped++
			continue
		}

		if !opts.DryRun {
			if _, err := imp.UpsertImported(ctx, entry); err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
		}
		if exists {
			fmt.Fprintf(out, "  ↑ Updated:  %s%s\n", event.Subject, dur)
			result.Updated++
			continue
		}
		fmt.Fprintf(out, "  ✓ Imported: %s%s\n", event.Subject, dur)
		result.Imported++
	}

	return result, nil
}
