package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/timelog/internal/persist"
	"github.com/Tiliavir/timelog/internal/storage"
	"github.com/Tiliavir/timelog/internal/tracker"
)

// lockedBuffer serialises writes from the tick goroutine and the command loop.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type sessionHarness struct {
	clock *clockwork.FakeClock
	app   *tracker.Tracker
	repo  *persist.Repository
	in    *io.PipeWriter
	out   *lockedBuffer
	done  chan error
}

func startSession(t *testing.T, ctx context.Context, opts tracker.Options) *sessionHarness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &sessionHarness{
		clock: clockwork.NewFakeClockAt(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)),
		out:   &lockedBuffer{},
		done:  make(chan error, 1),
	}
	h.repo = persist.NewRepository(log, storage.NewFileStore(t.TempDir()))
	h.app = tracker.New(log, h.repo, h.clock, opts)
	_, err := h.app.Load(ctx)
	require.NoError(t, err)

	pr, pw := io.Pipe()
	h.in = pw
	t.Cleanup(func() { _ = pw.Close() })
	go func() { h.done <- runSession(ctx, log, h.app, h.clock, pr, h.out) }()

	h.waitTicker(t)
	return h
}

func (h *sessionHarness) waitTicker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1), "ticker never registered")
}

func (h *sessionHarness) advance(t *testing.T, seconds int64) {
	t.Helper()
	start := h.app.Status().Elapsed
	for i := int64(1); i <= seconds; i++ {
		h.clock.Advance(time.Second)
		want := start + i
		require.Eventually(t, func() bool { return h.app.Status().Elapsed == want },
			2*time.Second, time.Millisecond)
	}
}

func (h *sessionHarness) send(t *testing.T, line string) {
	t.Helper()
	_, err := io.WriteString(h.in, line+"\n")
	require.NoError(t, err)
}

func (h *sessionHarness) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
		return nil
	}
}

func TestSession_SaveThenQuit(t *testing.T) {
	ctx := context.Background()
	h := startSession(t, ctx, tracker.Options{})
	require.NoError(t, h.app.SetDescription(ctx, "Focus"))

	h.advance(t, 3)
	h.send(t, "s")
	require.Eventually(t, func() bool { return len(h.app.Entries()) == 1 }, 2*time.Second, time.Millisecond)

	h.send(t, "q")
	require.NoError(t, h.wait(t))

	e := h.app.Entries()[0]
	assert.Equal(t, int64(3), e.Duration)
	assert.Equal(t, "Focus", e.Description)
	assert.Contains(t, h.out.String(), "Saved 3s")
	assert.False(t, h.app.Status().Running)
}

func TestSession_PauseStopsCounting(t *testing.T) {
	ctx := context.Background()
	h := startSession(t, ctx, tracker.Options{})

	h.advance(t, 2)
	h.send(t, "p")
	require.Eventually(t, func() bool { return !h.app.Status().Running }, 2*time.Second, time.Millisecond)

	h.clock.Advance(5 * time.Second)
	assert.Equal(t, int64(2), h.app.Status().Elapsed)

	h.send(t, "p")
	h.waitTicker(t)
	h.advance(t, 1)

	h.send(t, "q")
	require.NoError(t, h.wait(t))
	assert.Equal(t, int64(3), h.app.Status().Elapsed)

	snap, err := h.repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap, "quit keeps the timer for the next start")
	assert.Equal(t, int64(3), snap.ElapsedSeconds)
}

func TestSession_CountsOncePerSecond(t *testing.T) {
	ctx := context.Background()
	h := startSession(t, ctx, tracker.Options{})

	for range 4 {
		h.clock.Advance(250 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return h.app.Status().Elapsed == 1 }, 2*time.Second, time.Millisecond)

	h.clock.Advance(999 * time.Millisecond)
	assert.Equal(t, int64(1), h.app.Status().Elapsed, "no tick before a full second")
	h.clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return h.app.Status().Elapsed == 2 }, 2*time.Second, time.Millisecond)

	h.send(t, "q")
	require.NoError(t, h.wait(t))
}

func TestSession_CancelPausesAndPersists(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := startSession(t, ctx, tracker.Options{})

	h.advance(t, 4)
	cancel()
	require.NoError(t, h.wait(t))

	assert.False(t, h.app.Status().Running)
	snap, err := h.repo.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(4), snap.ElapsedSeconds)
	assert.Contains(t, h.out.String(), "Paused at 00:00:04")
}

func TestSession_SaveWithoutTaskKeepsRunning(t *testing.T) {
	ctx := context.Background()
	h := startSession(t, ctx, tracker.Options{RequireTask: true})

	h.advance(t, 1)
	h.send(t, "s")
	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(h.out.String()), []byte("Select a task first"))
	}, 2*time.Second, time.Millisecond)
	assert.Empty(t, h.app.Entries())

	h.waitTicker(t)
	h.advance(t, 1)
	h.send(t, "q")
	require.NoError(t, h.wait(t))
	assert.Equal(t, int64(2), h.app.Status().Elapsed)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Write", statusLabel(tracker.Status{TaskName: "Write", Description: "ignored"}))
	assert.Equal(t, "notes", statusLabel(tracker.Status{Description: "notes"}))
	assert.Equal(t, "(no label)", statusLabel(tracker.Status{}))
}
