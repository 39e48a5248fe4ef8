package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"market-quick-price/internal/config"
	"market-quick-price/internal/db"
	"market-quick-price/internal/engine"
	"market-quick-price/internal/items"
	"market-quick-price/internal/universalis"
	"market-quick-price/internal/world"
)

// app bundles what the lookup-running commands share.
type app struct {
	cfg    *config.Config
	items  *items.Catalog
	db     *db.DB // nil when opened without a database
	engine *engine.Engine
}

// settingsStore is the persisted settings overlay.
type settingsStore interface {
	LoadSettings(cfg *config.Config) error
}

// loadConfig reads v, overlays persisted settings from store (when non-nil)
// and finally an explicit current world. Precedence, lowest first:
// defaults, file, env, persisted settings, --current-world.
func loadConfig(v *viper.Viper, store settingsStore, currentWorldFlag bool) (*config.Config, error) {
	cfg := config.FromViper(v)
	if store != nil {
		if err := store.LoadSettings(cfg); err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
	}
	if currentWorldFlag {
		cfg.CurrentWorld = v.GetString("current_world")
		cfg.Normalize()
	}
	return cfg, nil
}

func currentWorldFlagSet() bool {
	return rootCmd.PersistentFlags().Changed("current-world")
}

// openApp loads config, the item dump and (optionally) the database, then
// builds the engine.
func openApp(withDB bool, notifier engine.Notifier) (*app, error) {
	cfg := config.FromViper(viper.GetViper())

	a := &app{cfg: cfg}
	if withDB {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		cfg, err = loadConfig(viper.GetViper(), database, currentWorldFlagSet())
		if err != nil {
			database.Close()
			return nil, err
		}
		a.cfg = cfg
		a.db = database
	}

	catalog, err := items.Load(cfg.ItemsFile)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.items = catalog

	opts := engine.Options{
		Catalog:         world.Default,
		Items:           catalog,
		Source:          universalis.NewClient(cfg.Universalis),
		Cooldown:        cfg.Cooldown(),
		HistoryCapacity: cfg.HistoryCapacity,
		Ambient:         engine.AmbientFromConfig(cfg),
		Notifier:        notifier,
	}
	if a.db != nil {
		opts.Log = a.db
	}
	a.engine = engine.New(opts)
	return a, nil
}

// Close releases the database, if any.
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
