// Package persist maps tasks, time entries and the timer snapshot onto a
// string key-value store.
//
// Malformed persisted data never surfaces as an error: it is logged and the
// affected collection falls back to its empty default.
package persist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Tiliavir/timelog/internal/model"
)

// Persisted keys.
const (
	KeyEntries = "timeEntries"
	KeyTasks   = "tasks"
	KeyTimer   = "timerState"
)

// Store is the key-value port the repository writes through.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// quarantiner is implemented by stores that can move unreadable data aside.
type quarantiner interface {
	Quarantine(ctx context.Context, key string) (string, error)
}

// Repository reads and writes the three persisted keys.
type Repository struct {
	store Store
	log   *slog.Logger
}

// NewRepository creates a Repository over store.
func NewRepository(log *slog.Logger, store Store) *Repository {
	return &Repository{
		store: store,
		log:   log.With("component", "persist"),
	}
}

// LoadTasks returns the persisted tasks, or an empty slice if none are stored
// or the stored value cannot be parsed.
func (r *Repository) LoadTasks(ctx context.Context) ([]model.Task, error) {
	raw, ok, err := r.store.Get(ctx, KeyTasks)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if !ok {
		return []model.Task{}, nil
	}
	tasks, err := DecodeTasks(raw)
	if err != nil {
		r.malformed(ctx, KeyTasks, err)
		return []model.Task{}, nil
	}
	return tasks, nil
}

// SaveTasks persists tasks.
func (r *Repository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	raw, err := EncodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, KeyTasks, raw); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// LoadEntries returns the persisted time entries, or an empty slice if none
// are stored or the stored value cannot be parsed.
func (r *Repository) LoadEntries(ctx context.Context) ([]model.TimeEntry, error) {
	raw, ok, err := r.store.Get(ctx, KeyEntries)
	if err != nil {
		return nil, fmt.Errorf("load time entries: %w", err)
	}
	if !ok {
		return []model.TimeEntry{}, nil
	}
	entries, err := DecodeEntries(raw)
	if err != nil {
		r.malformed(ctx, KeyEntries, err)
		return []model.TimeEntry{}, nil
	}
	return entries, nil
}

// SaveEntries persists entries in log order.
func (r *Repository) SaveEntries(ctx context.Context, entries []model.TimeEntry) error {
	raw, err := EncodeEntries(entries)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, KeyEntries, raw); err != nil {
		return fmt.Errorf("save time entries: %w", err)
	}
	return nil
}

// LoadSnapshot returns the persisted timer snapshot, or nil if there is none
// or it cannot be parsed.
func (r *Repository) LoadSnapshot(ctx context.Context) (*model.TimerSnapshot, error) {
	raw, ok, err := r.store.Get(ctx, KeyTimer)
	if err != nil {
		return nil, fmt.Errorf("load timer state: %w", err)
	}
	if !ok {
		return nil, nil
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		r.malformed(ctx, KeyTimer, err)
		return nil, nil
	}
	return &snap, nil
}

// SaveSnapshot persists snap.
func (r *Repository) SaveSnapshot(ctx context.Context, snap model.TimerSnapshot) error {
	raw, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, KeyTimer, raw); err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}

// ClearSnapshot removes the persisted timer snapshot.
func (r *Repository) ClearSnapshot(ctx context.Context) error {
	if err := r.store.Remove(ctx, KeyTimer); err != nil {
		return fmt.Errorf("clear timer state: %w", err)
	}
	return nil
}

// malformed logs a parse failure and, when the store supports it, moves the
// unreadable value aside so the next save does not silently destroy it.
func (r *Repository) malformed(ctx context.Context, key string, err error) {
	r.log.WarnContext(ctx, "malformed persisted data, using empty default",
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
	q, ok := r.store.(quarantiner)
	if !ok {
		return
	}
	backup, qErr := q.Quarantine(ctx, key)
	if qErr != nil {
		r.log.WarnContext(ctx, "backing up malformed data failed",
			slog.String("key", key),
			slog.String("error", qErr.Error()),
		)
		return
	}
	if backup != "" {
		r.log.InfoContext(ctx, "malformed data backed up",
			slog.String("key", key),
			slog.String("path", backup),
		)
	}
}
