// Package tracker ties the timer engine, the task registry and the entry log
// to persistent storage. It is the only component that mutates persisted
// state.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Tiliavir/timelog/internal/entries"
	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/tasks"
	"github.com/Tiliavir/timelog/internal/timecalc"
	"github.com/Tiliavir/timelog/internal/timer"
)

// Sentinel errors.
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrEntryNotFound = errors.New("time entry not found")
)

type repository interface {
	LoadTasks(ctx context.Context) ([]model.Task, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
	LoadEntries(ctx context.Context) ([]model.TimeEntry, error)
	SaveEntries(ctx context.Context, entries []model.TimeEntry) error
	LoadSnapshot(ctx context.Context) (*model.TimerSnapshot, error)
	SaveSnapshot(ctx context.Context, snap model.TimerSnapshot) error
	ClearSnapshot(ctx context.Context) error
}

// RestoreResult describes what Load did with the persisted timer snapshot.
type RestoreResult int

const (
	// RestoreNone means there was no snapshot to restore.
	RestoreNone RestoreResult = iota
	// RestoreApplied means the snapshot was fresh and is now loaded.
	RestoreApplied
	// RestoreExpired means the snapshot was too old and has been cleared.
	RestoreExpired
)

// Options configures a Tracker.
type Options struct {
	// RequireTask makes SaveEntry a no-op while no task is selected.
	RequireTask bool
	// MaxSnapshotAge bounds snapshot restore; 0 selects the engine default.
	MaxSnapshotAge time.Duration
}

// Status is a point-in-time view of the timer.
type Status struct {
	Elapsed     int64
	Running     bool
	TaskID      *int64
	TaskName    string
	Description string
	// LastUpdated is when the timer state was last persisted; zero when
	// nothing is stored.
	LastUpdated time.Time
}

// Tracker is safe for concurrent use: ticks arrive on the scheduler
// goroutine while commands arrive on the caller's.
type Tracker struct {
	mu      sync.Mutex
	repo    repository
	clock   clockwork.Clock
	log     *slog.Logger
	opts    Options
	ids     *timecalc.IDGenerator
	engine  *timer.Engine
	tasks   *tasks.Registry
	entries *entries.Log
	saved   time.Time
}

// New creates an empty Tracker. Call Load to read persisted state.
func New(log *slog.Logger, repo repository, clock clockwork.Clock, opts Options) *Tracker {
	ids := &timecalc.IDGenerator{}
	return &Tracker{
		repo:    repo,
		clock:   clock,
		log:     log.With("component", "tracker"),
		opts:    opts,
		ids:     ids,
		engine:  timer.NewEngine(opts.MaxSnapshotAge),
		tasks:   tasks.NewRegistry(ids, nil),
		entries: entries.NewLog(nil),
	}
}

// Load reads tasks, entries and the timer snapshot. A fresh snapshot is
// restored (paused); a stale one is removed from storage.
func (t *Tracker) Load(ctx context.Context) (RestoreResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	loadedTasks, err := t.repo.LoadTasks(ctx)
	if err != nil {
		return RestoreNone, err
	}
	loadedEntries, err := t.repo.LoadEntries(ctx)
	if err != nil {
		return RestoreNone, err
	}
	for _, task := range loadedTasks {
		t.ids.Observe(task.ID)
	}
	for _, e := range loadedEntries {
		t.ids.Observe(e.ID)
	}
	t.tasks = tasks.NewRegistry(t.ids, loadedTasks)
	t.entries = entries.NewLog(loadedEntries)

	snap, err := t.repo.LoadSnapshot(ctx)
	if err != nil {
		return RestoreNone, err
	}
	if snap == nil {
		return RestoreNone, nil
	}

	now := t.clock.Now()
	if !t.engine.Restore(*snap, now) {
		t.log.InfoContext(ctx, "discarding expired timer state",
			slog.Time("last_updated", snap.LastUpdated),
			slog.Duration("age", snap.Age(now)),
		)
		if err := t.repo.ClearSnapshot(ctx); err != nil {
			return RestoreExpired, err
		}
		return RestoreExpired, nil
	}
	t.saved = snap.LastUpdated
	if id := t.engine.TaskID(); id != nil {
		if _, ok := t.tasks.Get(*id); !ok {
			t.engine.ClearTask()
		}
	}
	t.log.DebugContext(ctx, "timer state restored", slog.Int64("elapsed", t.engine.Elapsed()))
	return RestoreApplied, nil
}

// stagedTasks and stagedEntries return copies to mutate; they replace the
// live collections only after the copy has been persisted.
func (t *Tracker) stagedTasks() *tasks.Registry { return tasks.NewRegistry(t.ids, t.tasks.List()) }

func (t *Tracker) stagedEntries() *entries.Log { return entries.NewLog(t.entries.List()) }

// persistTimer writes the snapshot while there is elapsed time and removes
// it otherwise. Callers hold t.mu.
func (t *Tracker) persistTimer(ctx context.Context) error {
	if t.engine.Elapsed() > 0 {
		snap := t.engine.Snapshot(t.clock.Now())
		if err := t.repo.SaveSnapshot(ctx, snap); err != nil {
			return err
		}
		t.saved = snap.LastUpdated
		return nil
	}
	if err := t.repo.ClearSnapshot(ctx); err != nil {
		return err
	}
	t.saved = time.Time{}
	return nil
}

// Start resumes counting.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.Start()
}

// Pause stops counting and persists the current state.
func (t *Tracker) Pause(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.Pause()
	return t.persistTimer(ctx)
}

// Toggle starts a paused timer or pauses a running one and returns whether
// it is now running.
func (t *Tracker) Toggle(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.engine.Running() {
		t.engine.Pause()
		return false, t.persistTimer(ctx)
	}
	t.engine.Start()
	return true, nil
}

// Reset stops the timer, zeroes it and removes the persisted snapshot.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.Reset()
	return t.persistTimer(ctx)
}

// Tick advances a running timer by one second and persists it.
func (t *Tracker) Tick(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.engine.Running() {
		return nil
	}
	t.engine.Tick()
	return t.persistTimer(ctx)
}

// SelectTask associates the timer with an existing task.
func (t *Tracker) SelectTask(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tasks.Get(id); !ok {
		return ErrTaskNotFound
	}
	t.engine.SetTask(id)
	return t.persistTimer(ctx)
}

// SetDescription sets the free-text label of the timer.
func (t *Tracker) SetDescription(ctx context.Context, s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.engine.SetDescription(s)
	return t.persistTimer(ctx)
}

// Status returns the current timer state.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Status{
		Elapsed:     t.engine.Elapsed(),
		Running:     t.engine.Running(),
		TaskID:      t.engine.TaskID(),
		Description: t.engine.Description(),
		LastUpdated: t.saved,
	}
	if s.TaskID != nil {
		if task, ok := t.tasks.Get(*s.TaskID); ok {
			s.TaskName = task.Name
		}
	}
	return s
}

// AddTask creates a task. It returns false without error when name is blank.
func (t *Tracker) AddTask(ctx context.Context, name string) (model.Task, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.stagedTasks()
	task, ok := next.Add(name, t.clock.Now())
	if !ok {
		return model.Task{}, false, nil
	}
	if err := t.repo.SaveTasks(ctx, next.List()); err != nil {
		return model.Task{}, false, err
	}
	t.tasks = next
	t.log.InfoContext(ctx, "task created", slog.Int64("task_id", task.ID), slog.String("name", task.Name))
	return task, true, nil
}

// DeleteTask removes a task together with every time entry referencing it
// and clears the timer's association with it. It returns the number of
// entries removed.
func (t *Tracker) DeleteTask(ctx context.Context, id int64) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	nextTasks := t.stagedTasks()
	if !nextTasks.Delete(id) {
		return 0, ErrTaskNotFound
	}

	// Entries are written first so no stored entry references a missing task.
	nextEntries := t.stagedEntries()
	removed := nextEntries.DeleteByTask(id)
	if removed > 0 {
		if err := t.repo.SaveEntries(ctx, nextEntries.List()); err != nil {
			return 0, err
		}
		t.entries = nextEntries
	}
	if err := t.repo.SaveTasks(ctx, nextTasks.List()); err != nil {
		return removed, err
	}
	t.tasks = nextTasks

	cleared := t.engine.ClearTaskIf(id)
	if cleared {
		if err := t.persistTimer(ctx); err != nil {
			return removed, err
		}
	}
	t.log.InfoContext(ctx, "task deleted",
		slog.Int64("task_id", id),
		slog.Int("entries_removed", removed),
		slog.Bool("timer_cleared", cleared),
	)
	return removed, nil
}

// Tasks returns all tasks in insertion order.
func (t *Tracker) Tasks() []model.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tasks.List()
}

// Task returns the task with id.
func (t *Tracker) Task(id int64) (model.Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tasks.Get(id)
}

// SaveEntry turns the elapsed time into a time entry at the head of the log
// and resets the timer. It is a no-op returning false when nothing has
// elapsed, or when a task is required and none is selected. When the entry
// cannot be written the tracker is left unchanged; when only clearing the
// snapshot fails the saved entry is returned together with the error.
func (t *Tracker) SaveEntry(ctx context.Context) (model.TimeEntry, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := t.engine.Elapsed()
	if elapsed == 0 {
		return model.TimeEntry{}, false, nil
	}
	taskID := t.engine.TaskID()
	if taskID != nil {
		if _, ok := t.tasks.Get(*taskID); !ok {
			t.engine.ClearTask()
			taskID = nil
		}
	}
	if taskID == nil && t.opts.RequireTask {
		return model.TimeEntry{}, false, nil
	}

	now := t.clock.Now()
	entry := model.TimeEntry{
		ID:          t.ids.Next(now),
		TaskID:      taskID,
		Description: t.engine.Description(),
		Duration:    elapsed,
		Timestamp:   now,
	}
	if taskID == nil && entry.Description == "" {
		entry.Description = model.UntitledDescription
	}

	next := t.stagedEntries()
	next.Prepend(entry)
	if err := t.repo.SaveEntries(ctx, next.List()); err != nil {
		return model.TimeEntry{}, false, err
	}
	t.entries = next

	t.engine.Reset()
	t.engine.ClearTask()
	t.engine.SetDescription("")
	if err := t.persistTimer(ctx); err != nil {
		return entry, true, err
	}
	t.log.InfoContext(ctx, "time entry saved",
		slog.Int64("entry_id", entry.ID),
		slog.Int64("duration", entry.Duration),
	)
	return entry, true, nil
}

// DeleteEntry removes a time entry. It returns false without error when the
// id is unknown.
func (t *Tracker) DeleteEntry(ctx context.Context, id int64) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.stagedEntries()
	if !next.Delete(id) {
		return false, nil
	}
	if err := t.repo.SaveEntries(ctx, next.List()); err != nil {
		return false, err
	}
	t.entries = next
	return true, nil
}

// Entries returns the time entries, most recent first.
func (t *Tracker) Entries() []model.TimeEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries.List()
}

// Entry returns the time entry with id.
func (t *Tracker) Entry(id int64) (model.TimeEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries.Get(id)
	if !ok {
		return model.TimeEntry{}, ErrEntryNotFound
	}
	return e, nil
}
