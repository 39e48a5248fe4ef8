package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"market-quick-price/internal/config"
	"market-quick-price/internal/db"
)

var lookupsCmd = &cobra.Command{
	Use:   "lookups",
	Short: "Show recently logged lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		clearDays, _ := cmd.Flags().GetInt("clear-older-than")

		cfg := config.FromViper(viper.GetViper())
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		out := cmd.OutOrStdout()
		if cmd.Flags().Changed("clear-older-than") {
			n, err := database.ClearLookups(clearDays)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d lookup(s)\n", n)
			return nil
		}

		records, err := database.GetLookups(limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No lookups recorded yet.")
			return nil
		}
		for _, r := range records {
			fmt.Fprintf(out, "%-14s %s @ %s: %s gil [%s]\n",
				humanize.Time(r.LookedUpAt), r.ItemName, r.World, humanize.Comma(r.Lowest), r.Scope)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupsCmd)
	lookupsCmd.Flags().IntP("limit", "n", 20, "Number of lookups to show")
	lookupsCmd.Flags().Int("clear-older-than", 0, "Delete lookups older than N days (0 deletes all) instead of listing")
}
