package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/timecalc"
	"github.com/Tiliavir/timelog/internal/tracker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current timer status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	now := time.Now()

	if st := app.Status(); st.Elapsed > 0 {
		printPaused(os.Stdout, st, now, cfg.Timer.MaxSnapshotAge)
		return nil
	}

	var totalSeconds int64
	for _, e := range app.Entries() {
		if timecalc.SameDay(e.Timestamp.Local(), now) {
			totalSeconds += e.Duration
		}
	}

	fmt.Println("No active timer.")
	fmt.Printf("Today: %s logged.\n", timecalc.FormatDuration(totalSeconds))
	return nil
}

// printPaused describes a restored timer and how long it stays resumable.
func printPaused(w io.Writer, st tracker.Status, now time.Time, maxAge time.Duration) {
	fmt.Fprintln(w, "Paused:")
	fmt.Fprintf(w, "  Tracking: %s\n", statusLabel(st))
	fmt.Fprintf(w, "  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(st.Elapsed))
	if st.LastUpdated.IsZero() {
		return
	}
	age := now.Sub(st.LastUpdated)
	fmt.Fprintf(w, "  Saved: %s ago, discarded after %s\n",
		timecalc.FormatDuration(int64(age/time.Second)), timecalc.FormatDuration(int64(maxAge/time.Second)))
}
