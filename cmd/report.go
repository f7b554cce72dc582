package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/export"
	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/timecalc"
)

var (
	reportWeek   bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show time totals per task or description",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Only this week")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

type reportLine struct {
	Label           string `json:"label"`
	DurationMinutes int64  `json:"duration_minutes"`
	seconds         int64
}

type report struct {
	Period       string       `json:"period"`
	Lines        []reportLine `json:"totals"`
	TotalMinutes int64        `json:"total_minutes"`
	total        int64
}

// buildReport sums durations per label, sorted by label.
func buildReport(period string, entries []model.TimeEntry, tasks []model.Task) report {
	totals := map[string]int64{}
	for _, r := range export.Rows(entries, tasks) {
		totals[r.Label] += r.DurationSeconds
	}

	rep := report{Period: period, Lines: []reportLine{}}
	for label, sec := range totals {
		rep.Lines = append(rep.Lines, reportLine{Label: label, DurationMinutes: sec / 60, seconds: sec})
		rep.total += sec
	}
	sort.Slice(rep.Lines, func(i, j int) bool { return rep.Lines[i].Label < rep.Lines[j].Label })
	rep.TotalMinutes = rep.total / 60
	return rep
}

func runReport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	entries := app.Entries()
	period := "all"
	if reportWeek {
		from, to := timecalc.WeekRange(now)
		entries = inRange(entries, from, to)
		period = timecalc.ISOWeekLabel(now)
	}

	rep := buildReport(period, entries, app.Tasks())
	if err := writeReport(os.Stdout, rep, reportFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fail(2)
	}
	return nil
}

func writeReport(w io.Writer, rep report, format string) error {
	switch format {
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"label", "duration_minutes"})
		for _, l := range rep.Lines {
			_ = cw.Write([]string{l.Label, strconv.FormatInt(l.DurationMinutes, 10)})
		}
		cw.Flush()
		return cw.Error()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default: // md
		fmt.Fprintf(w, "Period %s\n", rep.Period)
		fmt.Fprintln(w, "--------------------------------")
		for _, l := range rep.Lines {
			fmt.Fprintf(w, "%-20s%s\n", l.Label, timecalc.FormatDuration(l.seconds))
		}
		fmt.Fprintln(w, "--------------------------------")
		fmt.Fprintf(w, "%-20s%s\n", "Total", timecalc.FormatDuration(rep.total))
		return nil
	}
}
