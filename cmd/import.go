package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlphaTech-Explore/Short-Gen-AI-V5/internal"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a project from an exported JSON file",
	Long: `Import reads a previously exported project file and saves it to the
library under a fresh id. The id inside the file is ignored so imports can
never collide with existing projects.`,
	Example: `  # Import an exported project
  shortgen import shortgen-a_robot_learns_to_c.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := internal.NewApp(config)
		defer app.Close()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading project file: %w", err)
		}

		project, err := app.Library().Import(cmd.Context(), data)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %q as project %d\n", project.Topic, project.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
