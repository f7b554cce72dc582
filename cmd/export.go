package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/export"
)

var (
	exportFormat string
	exportDir    string
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all time entries to a file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, pdf")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Target directory (default from config)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write csv or json to stdout instead of a file")
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	entries := app.Entries()
	tasks := app.Tasks()

	if len(entries) == 0 {
		fmt.Println("No time entries to export.")
		return nil
	}

	dir := exportDir
	if dir == "" {
		dir = cfg.Export.Dir
	}
	opts := export.Options{
		Variant:    variant(),
		TimeLayout: cfg.Export.TimeLayout,
		Location:   time.Local,
	}
	path := filepath.Join(dir, export.FileName(opts.Variant, exportFormat, now))

	var data []byte
	switch exportFormat {
	case "csv":
		data, _ = export.CSV(entries, tasks, opts)
	case "json":
		var err error
		if data, _, err = export.JSON(entries, tasks); err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			fail(2)
		}
	case "pdf":
		if exportStdout {
			usageFail("--stdout is not supported for pdf")
		}
		if _, err := export.PDF(path, entries, tasks, opts, now); err != nil {
			storageFail(err)
		}
		fmt.Printf("Exported %d entries to %s\n", len(entries), path)
		return nil
	default:
		usageFail("unknown format %q (want csv, json or pdf)", exportFormat)
	}

	if exportStdout {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		storageFail(fmt.Errorf("writing %s: %w", path, err))
	}
	fmt.Printf("Exported %d entries to %s\n", len(entries), path)
	return nil
}
