package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/config"
	"github.com/Tiliavir/timelog/internal/export"
	"github.com/Tiliavir/timelog/internal/logging"
	"github.com/Tiliavir/timelog/internal/persist"
	"github.com/Tiliavir/timelog/internal/storage"
	"github.com/Tiliavir/timelog/internal/storage/sqlite"
	"github.com/Tiliavir/timelog/internal/tracker"
)

// Process-wide state set up by PersistentPreRunE.
var (
	cfg        *config.Config
	logger     *slog.Logger
	dataDir    string
	app        *tracker.Tracker
	restored   tracker.RestoreResult
	closeStore = func() error { return nil }
	exit       = os.Exit
)

var rootCmd = &cobra.Command{
	Use:   "tlog",
	Short: "timelog – a minimal stopwatch-style time tracker",
	Long: `tlog runs a stopwatch, saves the elapsed time as labelled entries and
exports them as CSV, JSON or PDF. Data lives in ~/.timelog/.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fail(1)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlookCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	logger = logging.New(cfg.Log, os.Stderr)

	dataDir = cfg.Storage.Dir
	if dataDir == "" {
		if dataDir, err = storage.BaseDir(); err != nil {
			storageFail(err)
		}
	}

	ctx := cmd.Context()
	store, err := openStore(ctx)
	if err != nil {
		storageFail(err)
	}

	app = tracker.New(logger, persist.NewRepository(logger, store), clockwork.NewRealClock(), tracker.Options{
		RequireTask:    cfg.Tracker.RequireTask,
		MaxSnapshotAge: cfg.Timer.MaxSnapshotAge,
	})
	restored, err = app.Load(ctx)
	if err != nil {
		storageFail(err)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	return closeStore()
}

// openStore opens the configured key-value backend.
func openStore(ctx context.Context) (persist.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, filepath.Join(dataDir, sqlite.FileName))
		if err != nil {
			return nil, err
		}
		closeStore = db.Close
		logger.DebugContext(ctx, "using sqlite storage", slog.String("dir", dataDir))
		return db, nil
	default:
		logger.DebugContext(ctx, "using file storage", slog.String("dir", dataDir))
		return storage.NewFileStore(dataDir), nil
	}
}

// variant maps the tracker mode onto the export labelling.
func variant() export.Variant {
	if cfg.Tracker.RequireTask {
		return export.VariantTask
	}
	return export.VariantDescription
}

// storageFail reports a storage error and exits with status 2.
func storageFail(err error) {
	fmt.Fprintln(os.Stderr, err)
	fail(2)
}

// usageFail reports a usage problem and exits with status 1.
func usageFail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	fail(1)
}

// fail closes the store and exits; PersistentPostRunE does not run after
// os.Exit.
func fail(code int) {
	if err := closeStore(); err != nil {
		fmt.Fprintln(os.Stderr, "closing storage:", err)
	}
	exit(code)
}
