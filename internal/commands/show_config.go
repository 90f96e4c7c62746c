// internal/commands/show_config.go
package prefdash

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/prefdash/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			pp.Fprintln(cmd.OutOrStdout(), *GetConfig())
			return
		}
		fallback := appconfig.Config{
			Debug:       viper.GetBool("debug"),
			Stacked:     viper.GetBool("stacked"),
			LogFile:     viper.GetString("logFile"),
			PresetsFile: viper.GetString("presetsFile"),
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), currentConfig, fallback)
	},
}

func init() {
	showConfigCmd.Flags().Bool("raw", false, "dump the decoded configuration struct")
	showCmd.AddCommand(showConfigCmd)
}
