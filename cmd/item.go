package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"market-quick-price/internal/config"
	"market-quick-price/internal/items"
)

var itemCmd = &cobra.Command{
	Use:   "item <query>",
	Short: "Show which item a query resolves to, plus other matches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		cfg := config.FromViper(viper.GetViper())
		catalog, err := items.Load(cfg.ItemsFile)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		out := cmd.OutOrStdout()
		best, ok := catalog.Find(query)
		if !ok {
			return fmt.Errorf("Couldn't find an item named '%s'.", strings.TrimSpace(query))
		}
		fmt.Fprintf(out, "%s (id %d, icon %d)\n", best.Name, best.ID, best.IconID)

		others := catalog.Search(query, limit+1)
		if len(others) <= 1 {
			return nil
		}
		fmt.Fprintln(out, "Other matches:")
		shown := 0
		for _, it := range others {
			if it.ID == best.ID || shown == limit {
				continue
			}
			fmt.Fprintf(out, "  %s (id %d)\n", it.Name, it.ID)
			shown++
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(itemCmd)
	itemCmd.Flags().IntP("limit", "n", 10, "Maximum number of other matches to list")
}
