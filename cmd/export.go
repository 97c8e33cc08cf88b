package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlphaTech-Explore/Short-Gen-AI-V5/internal"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [project id]",
	Short: "Export a saved project to a portable JSON file",
	Long: `Export writes the full project record, including the base64-encoded
audio track, as an indented JSON file that can be imported on any machine.`,
	Example: `  # Export into the current directory
  shortgen export 1724580000123

  # Export into a specific directory
  shortgen export 1724580000123 --dir ~/shorts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := internal.NewApp(config)
		defer app.Close()

		id, err := internal.ParseProjectID(args[0])
		if err != nil {
			return err
		}

		project := app.Library().Get(id)
		if project == nil {
			return fmt.Errorf("no project with id %d", id)
		}

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = config.ExportDir
		}

		path, err := app.Library().Export(project, dir)
		if err != nil {
			return err
		}
		fmt.Printf("Exported project %d to %s\n", id, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("dir", "", "Directory to write the export file to")
	rootCmd.AddCommand(exportCmd)
}
