// Package entries keeps the log of completed time entries, most recent
// first.
package entries

import "github.com/Tiliavir/timelog/internal/model"

// Log is the ordered list of time entries. Index 0 is the most recent.
type Log struct {
	entries []model.TimeEntry
}

// NewLog creates a log from entries already in log order.
func NewLog(existing []model.TimeEntry) *Log {
	l := &Log{entries: make([]model.TimeEntry, 0, len(existing))}
	l.entries = append(l.entries, existing...)
	return l
}

// Prepend adds e at the head of the log.
func (l *Log) Prepend(e model.TimeEntry) {
	l.entries = append([]model.TimeEntry{e}, l.entries...)
}

// Delete removes the entry with id and reports whether it existed.
func (l *Log) Delete(id int64) bool {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteByTask removes every entry referencing taskID and returns how many
// were removed. Relative order of the rest is kept.
func (l *Log) DeleteByTask(taskID int64) int {
	kept := l.entries[:0]
	removed := 0
	for _, e := range l.entries {
		if e.HasTask(taskID) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
	return removed
}

// Get returns the entry with id.
func (l *Log) Get(id int64) (model.TimeEntry, bool) {
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return model.TimeEntry{}, false
}

// ByExternalID returns the entry imported from the external record id.
func (l *Log) ByExternalID(externalID string) (model.TimeEntry, bool) {
	if externalID == "" {
		return model.TimeEntry{}, false
	}
	for _, e := range l.entries {
		if e.ExternalID == externalID {
			return e, true
		}
	}
	return model.TimeEntry{}, false
}

// Replace overwrites the entry with the same id in place.
func (l *Log) Replace(e model.TimeEntry) bool {
	for i := range l.entries {
		if l.entries[i].ID == e.ID {
			l.entries[i] = e
			return true
		}
	}
	return false
}

// List returns the entries in log order. The slice is a copy.
func (l *Log) List() []model.TimeEntry {
	out := make([]model.TimeEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }
