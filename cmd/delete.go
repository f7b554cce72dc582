package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := parseID(args[0])
	ok, err := app.DeleteEntry(cmd.Context(), id)
	if err != nil {
		storageFail(err)
	}
	if !ok {
		usageFail("No entry with id %d.", id)
	}
	fmt.Printf("Deleted entry %d.\n", id)
	return nil
}
