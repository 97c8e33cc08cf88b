package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AlphaTech-Explore/Short-Gen-AI-V5/internal"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [project id]",
	Short: "Show a saved project and optionally extract its audio",
	Example: `  # Show a saved project
  shortgen show 1724580000123

  # Also write the narration track to a WAV file
  shortgen show 1724580000123 --audio narration.wav`,
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

		result, err := app.Library().Load(project)
		if err != nil {
			return err
		}
		defer app.Assets().Revoke(result.AudioHandle)

		rendered, err := internal.RenderMarkdown(internal.ProjectMarkdown(result))
		if err != nil {
			return err
		}
		fmt.Println(rendered)

		audioPath, _ := cmd.Flags().GetString("audio")
		if audioPath != "" {
			if err := app.WriteProjectAudio(project, audioPath); err != nil {
				return err
			}
			fmt.Printf("Wrote narration to %s\n", audioPath)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().String("audio", "", "Write the narration track to this WAV file")
	rootCmd.AddCommand(showCmd)
}
