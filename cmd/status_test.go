package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/timelog/internal/tracker"
)

func TestPrintPaused(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	st := tracker.Status{
		Elapsed:     754,
		Description: "Reading",
		LastUpdated: now.Add(-12*time.Minute - 30*time.Second),
	}

	var buf bytes.Buffer
	printPaused(&buf, st, now, time.Hour)
	out := buf.String()
	for _, want := range []string{
		"Tracking: Reading",
		"Elapsed: 00:12:34",
		"Saved: 12m ago, discarded after 1h 0m",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}

	buf.Reset()
	st.LastUpdated = time.Time{}
	printPaused(&buf, st, now, time.Hour)
	if strings.Contains(buf.String(), "Saved:") {
		t.Errorf("unsaved timer should not print an age:\n%s", buf.String())
	}
}
