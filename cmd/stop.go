package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var stopDesc string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Save the paused timer as a time entry",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopDesc, "desc", "", "Replace the description before saving")
}

func runStop(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	st := app.Status()
	if st.Elapsed == 0 {
		fmt.Fprintln(os.Stderr, "No timer to stop.")
		fail(1)
	}
	if stopDesc != "" {
		if err := app.SetDescription(ctx, stopDesc); err != nil {
			storageFail(err)
		}
		st = app.Status()
	}

	entry, ok, err := app.SaveEntry(ctx)
	if err != nil {
		storageFail(err)
	}
	if !ok {
		usageFail("Select a task first: tlog start --task ID")
	}

	fmt.Printf("Saved entry %d for %q. Elapsed: %s\n", entry.ID, statusLabel(st), formatElapsed(entry.Duration))
	return nil
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
