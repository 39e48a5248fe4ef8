package cmd

import (
	"fmt"
	"net/http"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"market-quick-price/internal/api"
	"market-quick-price/internal/config"
	"market-quick-price/internal/db"
	"market-quick-price/internal/engine"
	"market-quick-price/internal/logger"
	"market-quick-price/internal/world"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API used by UIs and overlays",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		host, _ := cmd.Flags().GetString("host")

		logger.Banner(Version)

		var srv *api.Server
		a, err := openApp(true, engine.NotifierFunc(func(o engine.Outcome) {
			if srv != nil {
				srv.Notify(o)
			}
		}))
		if err != nil {
			return err
		}
		defer a.Close()

		srv = api.NewServer(a.cfg, a.engine, a.items, world.Default, a.db)
		watchConfig(srv, a.db)

		logger.Section("Settings")
		logger.Stats("items", a.items.Len())
		logger.Stats("default world", a.cfg.DefaultWorld)
		logger.Stats("current world", a.cfg.CurrentWorld)
		logger.Stats("cooldown", a.cfg.Cooldown())
		logger.Stats("history", a.cfg.HistoryCapacity)

		addr := fmt.Sprintf("%s:%d", host, port)
		logger.Server(addr)
		if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	},
}

// configApplier receives reloaded settings.
type configApplier interface {
	ApplyConfig(next *config.Config)
}

// watchConfig hot-applies world, cooldown and history settings when the
// config file changes. Connection settings need a restart.
func watchConfig(srv configApplier, database *db.DB) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	var store settingsStore
	if database != nil {
		store = database
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		logger.Info("Config", fmt.Sprintf("%s changed, reloading", e.Name))
		if err := reloadConfig(srv, viper.GetViper(), store, currentWorldFlagSet()); err != nil {
			logger.Warn("Config", err.Error())
		}
	})
	viper.WatchConfig()
}

// reloadConfig rebuilds the config the same way startup does, so values saved
// through the API keep winning over the file.
func reloadConfig(srv configApplier, v *viper.Viper, store settingsStore, currentWorldFlag bool) error {
	cfg, err := loadConfig(v, store, currentWorldFlag)
	if err != nil {
		return err
	}
	srv.ApplyConfig(cfg)
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 13370, "HTTP server port")
	serveCmd.Flags().String("host", "127.0.0.1", "HTTP listen host")
}
