package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlphaTech-Explore/Short-Gen-AI-V5/internal"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete [project id]",
	Aliases: []string{"rm"},
	Short:   "Delete a saved project",
	Example: `  # Delete a project from the library
  shortgen delete 1724580000123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := internal.NewApp(config)
		defer app.Close()

		id, err := internal.ParseProjectID(args[0])
		if err != nil {
			return err
		}

		if err := app.Library().Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted project %d\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
