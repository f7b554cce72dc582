package tracker

import (
	"context"
	"log/slog"

	"github.com/Tiliavir/timelog/internal/model"
)

// EnsureTask returns the task named name, creating it if needed.
func (t *Tracker) EnsureTask(ctx context.Context, name string) (model.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if task, ok := t.tasks.FindByName(name); ok {
		return task, nil
	}
	next := t.stagedTasks()
	task, ok := next.Add(name, t.clock.Now())
	if !ok {
		return model.Task{}, ErrTaskNotFound
	}
	if err := t.repo.SaveTasks(ctx, next.List()); err != nil {
		return model.Task{}, err
	}
	t.tasks = next
	return task, nil
}

// EntryByExternalID returns the entry previously imported from externalID.
func (t *Tracker) EntryByExternalID(externalID string) (model.TimeEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries.ByExternalID(externalID)
}

// UpsertImported stores an imported entry. An entry with the same external
// id is replaced in place and keeps its id; otherwise the entry is added at
// the head of the log with a fresh id. It reports whether a new entry was
// created.
func (t *Tracker) UpsertImported(ctx context.Context, e model.TimeEntry) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.stagedEntries()
	created := false
	if existing, ok := next.ByExternalID(e.ExternalID); ok {
		e.ID = existing.ID
		next.Replace(e)
	} else {
		e.ID = t.ids.Next(t.clock.Now())
		next.Prepend(e)
		created = true
	}
	if err := t.repo.SaveEntries(ctx, next.List()); err != nil {
		return false, err
	}
	t.entries = next
	t.log.DebugContext(ctx, "imported entry stored",
		slog.Int64("entry_id", e.ID),
		slog.String("external_id", e.ExternalID),
		slog.Bool("created", created),
	)
	return created, nil
}
