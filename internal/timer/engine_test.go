package timer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timer"
)

func TestEngine_TickOnlyWhileRunning(t *testing.T) {
	e := timer.NewEngine(0)

	e.Tick()
	assert.Equal(t, int64(0), e.Elapsed(), "tick while stopped must not count")

	e.Start()
	e.Tick()
	e.Tick()
	assert.Equal(t, int64(2), e.Elapsed())

	e.Pause()
	e.Tick()
	assert.Equal(t, int64(2), e.Elapsed(), "tick while paused must not count")
	assert.False(t, e.Running())

	e.Start()
	e.Tick()
	assert.Equal(t, int64(3), e.Elapsed())
}

func TestEngine_ResetKeepsLabel(t *testing.T) {
	e := timer.NewEngine(0)
	e.SetTask(9)
	e.SetDescription("notes")
	e.Start()
	e.Tick()

	e.Reset()
	assert.Equal(t, int64(0), e.Elapsed())
	assert.False(t, e.Running())
	require.NotNil(t, e.TaskID())
	assert.Equal(t, int64(9), *e.TaskID())
	assert.Equal(t, "notes", e.Description())
}

func TestEngine_ClearTaskIf(t *testing.T) {
	e := timer.NewEngine(0)
	assert.False(t, e.ClearTaskIf(1))

	e.SetTask(1)
	assert.False(t, e.ClearTaskIf(2))
	assert.NotNil(t, e.TaskID())
	assert.True(t, e.ClearTaskIf(1))
	assert.Nil(t, e.TaskID())
}

func TestEngine_TaskIDIsCopy(t *testing.T) {
	e := timer.NewEngine(0)
	e.SetTask(5)
	id := e.TaskID()
	*id = 6
	assert.Equal(t, int64(5), *e.TaskID())
}

func TestEngine_SnapshotRestore(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	src := timer.NewEngine(0)
	src.SetTask(3)
	src.SetDescription("x")
	src.Start()
	for range 42 {
		src.Tick()
	}
	snap := src.Snapshot(now)
	assert.Equal(t, int64(42), snap.ElapsedSeconds)
	assert.True(t, snap.LastUpdated.Equal(now))

	dst := timer.NewEngine(0)
	require.True(t, dst.Restore(snap, now.Add(time.Minute)))
	assert.Equal(t, int64(42), dst.Elapsed())
	assert.False(t, dst.Running(), "restored engine starts paused")
	require.NotNil(t, dst.TaskID())
	assert.Equal(t, int64(3), *dst.TaskID())
	assert.Equal(t, "x", dst.Description())
}

func TestEngine_RestoreAgeBoundary(t *testing.T) {
	now := time.UnixMilli(1_800_000_000_000)
	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"just written", 0, true},
		{"3599000ms old", 3_599_000 * time.Millisecond, true},
		{"3599999ms old", 3_599_999 * time.Millisecond, true},
		{"exactly one hour", time.Hour, false},
		{"3600001ms old", 3_600_001 * time.Millisecond, false},
		{"a day old", 24 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := timer.NewEngine(0)
			snap := model.TimerSnapshot{ElapsedSeconds: 10, LastUpdated: now.Add(-tt.age)}
			assert.Equal(t, tt.want, e.Restore(snap, now))
			if tt.want {
				assert.Equal(t, int64(10), e.Elapsed())
			} else {
				assert.Equal(t, int64(0), e.Elapsed(), "rejected restore leaves engine untouched")
			}
		})
	}
}

func TestEngine_CustomMaxAge(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	e := timer.NewEngine(5 * time.Minute)
	snap := model.TimerSnapshot{ElapsedSeconds: 1, LastUpdated: now.Add(-6 * time.Minute)}
	assert.False(t, e.Restore(snap, now))
}
