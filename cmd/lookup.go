package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"market-quick-price/internal/engine"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <item name>",
	Short: "Find the cheapest listing for an item",
	Example: `  mqp lookup potion
  mqp lookup "hi-potion" --scope dc --current-world Gilgamesh
  mqp lookup ether --scope regions --region Europe --region Japan
  mqp lookup --id 4551 --scope worlds --world Siren --world Cactuar`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scopeName, _ := cmd.Flags().GetString("scope")
		regions, _ := cmd.Flags().GetStringSlice("region")
		worlds, _ := cmd.Flags().GetStringSlice("world")
		id, _ := cmd.Flags().GetUint32("id")
		noDB, _ := cmd.Flags().GetBool("no-db")

		var outcome engine.Outcome
		a, err := openApp(!noDB, engine.NotifierFunc(func(o engine.Outcome) { outcome = o }))
		if err != nil {
			return err
		}
		defer a.Close()

		scope, err := engine.BuildScope(scopeName, regions, worlds, a.cfg.DefaultWorld, a.cfg.PreferredWorlds)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		if id != 0 && query == "" {
			err = a.engine.BeginLookupByID(id, scope)
		} else {
			err = a.engine.BeginLookup(query, scope)
		}
		if err != nil {
			return err
		}
		a.engine.Wait()

		out := cmd.OutOrStdout()
		var noData *engine.NoDataError
		switch {
		case errors.As(outcome.Err, &noData):
			fmt.Fprintln(out, outcome.Message)
			return nil
		case outcome.Err != nil:
			return errors.New(outcome.Message)
		case outcome.Result != nil:
			writeResult(out, *outcome.Result)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().StringP("scope", "s", "world", "Search scope: world, dc, region, regions, worlds, preferred")
	lookupCmd.Flags().StringSliceP("region", "r", nil, "Region for --scope regions (repeatable)")
	lookupCmd.Flags().StringSliceP("world", "w", nil, "World for --scope worlds (repeatable)")
	lookupCmd.Flags().Uint32("id", 0, "Look up by item id instead of name")
	lookupCmd.Flags().Bool("no-db", false, "Do not open the database (no lookup log, no persisted settings)")
}
