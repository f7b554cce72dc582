package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Tiliavir/timelog/internal/model"
)

// snapshotJSON is the wire shape of the timerState key. lastUpdated is in
// epoch milliseconds.
type snapshotJSON struct {
	Time        int64  `json:"time"`
	TaskID      *int64 `json:"taskId,omitempty"`
	Description string `json:"description"`
	LastUpdated int64  `json:"lastUpdated"`
}

// EncodeTasks renders tasks as a JSON array. A nil slice encodes as [].
func EncodeTasks(tasks []model.Task) (string, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encoding tasks: %w", err)
	}
	return string(data), nil
}

// DecodeTasks parses a JSON array of tasks, re-hydrating createdAt.
func DecodeTasks(s string) ([]model.Task, error) {
	var tasks []model.Task
	if err := json.Unmarshal([]byte(s), &tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// EncodeEntries renders entries as a JSON array with ISO-8601 timestamps.
func EncodeEntries(entries []model.TimeEntry) (string, error) {
	if entries == nil {
		entries = []model.TimeEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encoding time entries: %w", err)
	}
	return string(data), nil
}

// DecodeEntries parses a JSON array of time entries, re-hydrating timestamps.
func DecodeEntries(s string) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	if err := json.Unmarshal([]byte(s), &entries); err != nil {
		return nil, fmt.Errorf("decoding time entries: %w", err)
	}
	if entries == nil {
		entries = []model.TimeEntry{}
	}
	return entries, nil
}

// EncodeSnapshot renders a timer snapshot.
func EncodeSnapshot(snap model.TimerSnapshot) (string, error) {
	data, err := json.Marshal(snapshotJSON{
		Time:        snap.ElapsedSeconds,
		TaskID:      snap.TaskID,
		Description: snap.Description,
		LastUpdated: snap.LastUpdated.UnixMilli(),
	})
	if err != nil {
		return "", fmt.Errorf("encoding timer state: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a timer snapshot. A negative elapsed time is
// rejected as malformed.
func DecodeSnapshot(s string) (model.TimerSnapshot, error) {
	var w snapshotJSON
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return model.TimerSnapshot{}, fmt.Errorf("decoding timer state: %w", err)
	}
	if w.Time < 0 {
		return model.TimerSnapshot{}, fmt.Errorf("decoding timer state: negative elapsed time %d", w.Time)
	}
	return model.TimerSnapshot{
		ElapsedSeconds: w.Time,
		TaskID:         w.TaskID,
		Description:    w.Description,
		LastUpdated:    time.UnixMilli(w.LastUpdated),
	}, nil
}
