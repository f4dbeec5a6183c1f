package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ppiankov/betthink/internal/model"
	"github.com/spf13/cobra"
)

// sportsCmd represents the sports command
var sportsCmd = &cobra.Command{
	Use:   "sports",
	Short: "List supported sports and their prediction categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, sport := range model.AllSports() {
			fmt.Fprintf(tw, "%s\n", sport)
			for i, c := range model.Categories(sport) {
				fmt.Fprintf(tw, "  %d.\t%s\t%s\n", i+1, c.Label, c.Options)
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sportsCmd)
}
