package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"market-quick-price/internal/world"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List regions, data centers and worlds",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, r := range world.Default.Regions() {
			fmt.Fprintf(out, "%s (%s)\n", r.Name, r.ID)
			for _, dc := range r.DataCenters {
				fmt.Fprintf(out, "  %s: %s\n", dc.Name, strings.Join(dc.Worlds, ", "))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(regionsCmd)
}
