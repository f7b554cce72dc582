package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/ticker"
	"github.com/Tiliavir/timelog/internal/timecalc"
	"github.com/Tiliavir/timelog/internal/tracker"
)

var (
	startTask int64
	startDesc string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the timer in the foreground",
	Long: `start resumes a recently saved timer (or starts from zero) and counts
seconds until you quit. Commands, followed by Enter:
  p  pause / resume
  r  reset to zero
  s  save the elapsed time as an entry
  q  pause, keep the state and quit
Ctrl-C behaves like q.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	startCmd.Flags().Int64Var(&startTask, "task", 0, "Task id to track (see: tlog task list)")
	startCmd.Flags().StringVar(&startDesc, "desc", "", "Description of the work")
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	switch restored {
	case tracker.RestoreExpired:
		fmt.Printf("Saved timer was older than %s and has been discarded.\n", cfg.Timer.MaxSnapshotAge)
	case tracker.RestoreApplied:
		fmt.Printf("Resuming timer at %s.\n", timecalc.FormatDurationHHMMSS(app.Status().Elapsed))
	}

	if cmd.Flags().Changed("task") {
		if err := app.SelectTask(ctx, startTask); err != nil {
			if errors.Is(err, tracker.ErrTaskNotFound) {
				usageFail("No task with id %d.", startTask)
			}
			storageFail(err)
		}
	}
	if startDesc != "" {
		if err := app.SetDescription(ctx, startDesc); err != nil {
			storageFail(err)
		}
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runSession(sigCtx, logger, app, clockwork.NewRealClock(), os.Stdin, os.Stdout); err != nil {
		storageFail(err)
	}
	return nil
}

// session drives the tracker from a tick scheduler and line commands.
type session struct {
	app   *tracker.Tracker
	sched *ticker.Scheduler
	out   io.Writer
	log   *slog.Logger
}

// runSession counts one second per tick until ctx is cancelled or a quit
// command is read from in. Either way the timer is paused and persisted
// before returning.
func runSession(ctx context.Context, log *slog.Logger, app *tracker.Tracker, clock clockwork.Clock, in io.Reader, out io.Writer) error {
	s := &session{app: app, out: out, log: log.With("component", "session")}
	s.sched = ticker.New(clock, ticker.DefaultPeriod, func() { s.tick(ctx) })
	defer s.sched.Stop()

	app.Start()
	s.sched.Start()
	s.render()

	lines := readLines(ctx, in)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return s.quit(context.WithoutCancel(ctx))
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			done, err := s.handle(ctx, strings.ToLower(strings.TrimSpace(line)))
			if err != nil || done {
				return err
			}
		}
	}
}

func (s *session) handle(ctx context.Context, command string) (bool, error) {
	switch command {
	case "p":
		s.sched.Stop()
		running, err := s.app.Toggle(ctx)
		if err != nil {
			return true, err
		}
		if running {
			s.sched.Start()
		}
	case "r":
		s.sched.Stop()
		if err := s.app.Reset(ctx); err != nil {
			return true, err
		}
	case "s":
		s.sched.Stop()
		before := s.app.Status()
		entry, ok, err := s.app.SaveEntry(ctx)
		if err != nil {
			return true, err
		}
		switch {
		case ok:
			fmt.Fprintf(s.out, "\nSaved %s (entry %d).\n", formatElapsed(entry.Duration), entry.ID)
		case before.Elapsed == 0:
			fmt.Fprintln(s.out, "\nNothing to save.")
		default:
			fmt.Fprintln(s.out, "\nSelect a task first: tlog start --task ID")
			if before.Running {
				s.sched.Start()
			}
		}
	case "q":
		fmt.Fprintln(s.out)
		return true, s.quit(ctx)
	case "":
	default:
		fmt.Fprintln(s.out, "\nCommands: p pause/resume, r reset, s save, q quit")
	}
	s.render()
	return false, nil
}

func (s *session) tick(ctx context.Context) {
	if err := s.app.Tick(ctx); err != nil {
		s.log.ErrorContext(ctx, "persisting timer failed", slog.Any("error", err))
	}
	s.render()
}

func (s *session) quit(ctx context.Context) error {
	s.sched.Stop()
	if err := s.app.Pause(ctx); err != nil {
		return err
	}
	if st := s.app.Status(); st.Elapsed > 0 {
		fmt.Fprintf(s.out, "Paused at %s. Run 'tlog start' to resume or 'tlog stop' to save.\n",
			timecalc.FormatDurationHHMMSS(st.Elapsed))
	}
	return nil
}

func (s *session) render() {
	st := s.app.Status()
	state := "paused"
	if st.Running {
		state = "running"
	}
	fmt.Fprintf(s.out, "\r%s  %s  [%s] ", timecalc.FormatDurationHHMMSS(st.Elapsed), statusLabel(st), state)
}

// statusLabel names what the timer is tracking.
func statusLabel(st tracker.Status) string {
	switch {
	case st.TaskName != "":
		return st.TaskName
	case st.Description != "":
		return st.Description
	default:
		return "(no label)"
	}
}

// readLines forwards lines from r until EOF or ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
