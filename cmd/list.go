package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/export"
	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

var (
	listToday bool
	listWeek  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's entries")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's entries")
}

func runList(cmd *cobra.Command, args []string) error {
	now := time.Now()
	entries := app.Entries()

	switch {
	case listToday:
		entries = inRange(entries, timecalc.StartOfDay(now), timecalc.EndOfDay(now))
	case listWeek:
		from, to := timecalc.WeekRange(now)
		entries = inRange(entries, from, to)
	}

	printList(os.Stdout, entries, app.Tasks(), time.Local)
	return nil
}

// inRange keeps entries whose timestamp lies in [from, to].
func inRange(entries []model.TimeEntry, from, to time.Time) []model.TimeEntry {
	var out []model.TimeEntry
	for _, e := range entries {
		ts := e.Timestamp.In(from.Location())
		if !ts.Before(from) && !ts.After(to) {
			out = append(out, e)
		}
	}
	return out
}

// printList groups entries by date in loc and prints them.
func printList(w io.Writer, entries []model.TimeEntry, tasks []model.Task, loc *time.Location) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}

	var currentDay string
	for _, r := range export.Rows(entries, tasks) {
		ts := r.Timestamp.In(loc)
		day := ts.Format("2006-01-02")
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}
		fmt.Fprintf(w, "%s  %s  %-30s #%d\n", ts.Format("15:04"), r.Duration, r.Label, r.EntryID)
	}
}
