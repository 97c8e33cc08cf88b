package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/AlphaTech-Explore/Short-Gen-AI-V5/internal"
)

// cpCmd copies a project's title and hashtags to the system clipboard,
// ready to paste into an upload form.
var cpCmd = &cobra.Command{
	Use:   "cp [project id]",
	Short: "Copy a project's title and hashtags to the clipboard",
	Example: `  # Copy title and hashtags for upload
  shortgen cp 1724580000123`,
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

		text := strings.TrimSpace(project.Title + "\n\n" + project.Hashtags)
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Title and hashtags copied to clipboard")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
