package commands

import (
	"os"

	"terminplaner-backend/lib/scrapers/ratsinfo"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(committeesCmd)
}

var committeesCmd = &cobra.Command{
	Use:   "committees",
	Short: "Lists the configured relevant committees.",
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Gremium"})
		for _, committee := range ratsinfo.RelevantCommittees {
			t.AppendRow(table.Row{committee})
		}
		t.Render()
	},
}
