package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the elapsed time of the timer",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if err := app.Reset(cmd.Context()); err != nil {
		storageFail(err)
	}
	fmt.Println("Timer reset.")
	return nil
}
