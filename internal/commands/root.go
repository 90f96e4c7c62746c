// internal/commands/root.go
package prefdash

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/prefdash/internal/appconfig"
	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/mwiater/prefdash/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prefdash",
	Short: "prefdash: explore LLM foreign-policy preference benchmark results",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(cmd); err != nil {
			return err
		}

		for _, name := range []string{"debug", "stacked"} {
			if !cmd.Flags().Changed(name) {
				val := viper.GetBool(name)
				_ = cmd.Flags().Set(name, strconv.FormatBool(val))
			}
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetDebug(currentConfig.Debug)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("stacked", false, "draw stacked bars instead of grouped bars")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("domainData", "", "path to the domain-level CSV")
	rootCmd.PersistentFlags().String("countryData", "", "path to the country-level CSV")
	rootCmd.PersistentFlags().String("presets", "", "path to a presets JSON file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("stacked", rootCmd.PersistentFlags().Lookup("stacked"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("datasets.domainLevel", rootCmd.PersistentFlags().Lookup("domainData"))
	_ = viper.BindPFlag("datasets.countryLevel", rootCmd.PersistentFlags().Lookup("countryData"))
	_ = viper.BindPFlag("presetsFile", rootCmd.PersistentFlags().Lookup("presets"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and sets safe defaults. A missing file is
// only an error when --config was given explicitly.
func ensureConfigLoaded(cmd *cobra.Command) error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) && !cmd.Root().PersistentFlags().Changed("config") {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		return &appconfig.Config{}
	}
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// StackedEnabled returns true if stacked charts are the default.
func StackedEnabled() bool { return viper.GetBool("stacked") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// newDashboard wires the dataset cache and preset table described by cfg.
func newDashboard(cfg *appconfig.Config) (*dashboard.Dashboard, error) {
	presets := dashboard.DefaultPresets()
	if cfg.PresetsFile != "" {
		loaded, err := dashboard.LoadPresets(cfg.PresetsFile)
		if err != nil {
			return nil, err
		}
		presets = loaded
	}
	cache := dataset.NewCache(dataset.Loader{Paths: cfg.DatasetPaths()})
	return dashboard.New(cache, presets), nil
}
