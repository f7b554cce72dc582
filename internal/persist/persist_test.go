package persist_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/persist"
	"github.com/Tiliavir/timelog/internal/storage"
)

// memStore is an in-memory persist.Store.
type memStore struct {
	data   map[string]string
	getErr error
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Remove(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestDecodeEntries_BrowserTimestamps(t *testing.T) {
	raw := `[{"id":1714557600000,"description":"Write","duration":65,"timestamp":"2024-05-01T10:00:00.000Z"},
	         {"id":1714557700000,"taskId":42,"duration":10,"timestamp":"2024-05-01T10:01:40.123Z"}]`

	entries, err := persist.DecodeEntries(raw)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Write", entries[0].Description)
	assert.Nil(t, entries[0].TaskID)
	assert.True(t, entries[0].Timestamp.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	require.NotNil(t, entries[1].TaskID)
	assert.Equal(t, int64(42), *entries[1].TaskID)
	assert.True(t, entries[1].Timestamp.Equal(time.Date(2024, 5, 1, 10, 1, 40, 123_000_000, time.UTC)))
}

func TestDecodeCollections_Null(t *testing.T) {
	tasks, err := persist.DecodeTasks("null")
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	entries, err := persist.DecodeEntries("null")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestSnapshotCodec(t *testing.T) {
	taskID := int64(7)
	at := time.UnixMilli(1714557600123)
	raw, err := persist.EncodeSnapshot(model.TimerSnapshot{
		ElapsedSeconds: 90,
		TaskID:         &taskID,
		Description:    "",
		LastUpdated:    at,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"time":90,"taskId":7,"description":"","lastUpdated":1714557600123}`, raw)

	snap, err := persist.DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(90), snap.ElapsedSeconds)
	require.NotNil(t, snap.TaskID)
	assert.Equal(t, taskID, *snap.TaskID)
	assert.True(t, snap.LastUpdated.Equal(at))
}

func TestDecodeSnapshot_Rejects(t *testing.T) {
	for _, raw := range []string{`{`, `{"time":-1,"lastUpdated":1}`, `[]`} {
		_, err := persist.DecodeSnapshot(raw)
		assert.Error(t, err, "raw=%s", raw)
	}
}

func TestRepository_EmptyDefaults(t *testing.T) {
	ctx := context.Background()
	repo := persist.NewRepository(slog.Default(), newMemStore())

	tasks, err := repo.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	entries, err := repo.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	snap, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestRepository_MalformedFallsBackAndLogs(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.data[persist.KeyTasks] = "{not json"
	store.data[persist.KeyEntries] = `[{"id":"oops"}]`
	store.data[persist.KeyTimer] = "garbage"

	var buf bytes.Buffer
	repo := persist.NewRepository(testLogger(&buf), store)

	tasks, err := repo.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	entries, err := repo.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	snap, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	logs := buf.String()
	assert.Contains(t, logs, "key=tasks")
	assert.Contains(t, logs, "key=timeEntries")
	assert.Contains(t, logs, "key=timerState")
}

func TestRepository_StoreErrorsSurface(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("disk on fire")
	repo := persist.NewRepository(slog.Default(), store)

	_, err := repo.LoadTasks(context.Background())
	assert.ErrorIs(t, err, store.getErr)
}

func TestRepository_RoundTripFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := persist.NewRepository(slog.Default(), storage.NewFileStore(dir))

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	taskID := int64(1)
	require.NoError(t, repo.SaveTasks(ctx, []model.Task{{ID: taskID, Name: "Review", CreatedAt: created}}))
	require.NoError(t, repo.SaveEntries(ctx, []model.TimeEntry{
		{ID: 2, TaskID: &taskID, Duration: 30, Timestamp: created.Add(time.Minute)},
	}))

	tasks, err := repo.LoadTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Review", tasks[0].Name)
	assert.True(t, tasks[0].CreatedAt.Equal(created))

	entries, err := repo.LoadEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].HasTask(taskID))

	require.NoError(t, repo.SaveSnapshot(ctx, model.TimerSnapshot{ElapsedSeconds: 3, LastUpdated: created}))
	require.NoError(t, repo.ClearSnapshot(ctx))
	_, err = os.Stat(filepath.Join(dir, "timerState.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRepository_QuarantinesMalformedFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fs := storage.NewFileStore(dir)
	require.NoError(t, fs.Set(ctx, persist.KeyEntries, "{bad"))

	repo := persist.NewRepository(slog.Default(), fs)
	entries, err := repo.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = os.Stat(filepath.Join(dir, "timeEntries.json.corrupt"))
	assert.NoError(t, err, "expected malformed file to be backed up")
}
