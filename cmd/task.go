package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/timelog/internal/model"
	"github.com/Tiliavir/timelog/internal/tracker"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task and all of its time entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

func init() {
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	task, ok, err := app.AddTask(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		storageFail(err)
	}
	if !ok {
		usageFail("Task name must not be empty.")
	}
	fmt.Printf("Created task %d: %s\n", task.ID, task.Name)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	printTasks(os.Stdout, app.Tasks(), app.Entries())
	return nil
}

// printTasks lists tasks with the total time booked on each.
func printTasks(w io.Writer, tasks []model.Task, entries []model.TimeEntry) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks. Create one with: tlog task add <name>")
		return
	}

	totals := map[int64]int64{}
	for _, e := range entries {
		if e.TaskID != nil {
			totals[*e.TaskID] += e.Duration
		}
	}
	for _, t := range tasks {
		fmt.Fprintf(w, "%-15d%-30s%s\n", t.ID, t.Name, formatElapsed(totals[t.ID]))
	}
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	id := parseID(args[0])
	removed, err := app.DeleteTask(cmd.Context(), id)
	if errors.Is(err, tracker.ErrTaskNotFound) {
		usageFail("No task with id %d.", id)
	}
	if err != nil {
		storageFail(err)
	}
	fmt.Printf("Deleted task %d and %d time entries.\n", id, removed)
	return nil
}

// parseID parses an entity id argument or exits with a usage error.
func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		usageFail("invalid id %q", s)
	}
	return id
}
