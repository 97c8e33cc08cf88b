package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlphaTech-Explore/Short-Gen-AI-V5/internal"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved short projects",
	Example: `  # List all projects in the library
  shortgen list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := internal.NewApp(config)
		defer app.Close()

		projects := app.Library().Projects()
		if len(projects) == 0 {
			fmt.Println("No saved projects. Generate one with: shortgen \"your topic\"")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tTOPIC\tTITLE\tSCENES")
		for _, p := range projects {
			// Project ids are derived from the save timestamp in millis.
			created := time.UnixMilli(p.ID).Format("2006-01-02 15:04")
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", p.ID, created, p.Topic, p.Title, len(p.Scenes))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
