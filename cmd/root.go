package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"market-quick-price/internal/config"
	"market-quick-price/internal/logger"
)

var cfgFile string

// Version is set at build time.
var Version = "dev"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mqp",
	Short: "Quick market price lookups across worlds, data centers and regions.",
	Long: `mqp finds the cheapest current market listing for an item on your world,
your data center, your region, or any set of regions or worlds you pick.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mqp.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("items", "", "item dump (JSON lines); overrides items_file")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path; overrides db_path")
	rootCmd.PersistentFlags().String("current-world", "", "world your character is on; overrides current_world")
}

// flagOverrides maps persistent flags to the config keys they replace when set.
var flagOverrides = map[string]string{
	"items":         "items_file",
	"db":            "db_path",
	"current-world": "current_world",
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".mqp")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MQP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Error reading config file: %s\n", err)
		}
	}

	for name, key := range flagOverrides {
		if f := rootCmd.PersistentFlags().Lookup(name); f != nil && f.Changed {
			viper.Set(key, f.Value.String())
		}
	}

	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	if err := logger.SetLevel(levelString); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if f := viper.ConfigFileUsed(); f != "" {
		logger.Debug("Config", fmt.Sprintf("using %s", f))
	}
}
