// internal/commands/browse.go
package prefdash

import (
	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/logging"
	"github.com/mwiater/prefdash/internal/tui"
	"github.com/spf13/cobra"
)

// browseCmd implements the 'browse' command, the full-screen terminal dashboard.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Explore the dashboard in the terminal",
	Long:  `The 'browse' command opens an interactive terminal view. Move between filters with the arrow keys, toggle values with space and press ? for every key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		dash, err := newDashboard(cfg)
		if err != nil {
			return err
		}

		opts := tui.Options{Stacked: cfg.Stacked}
		opts.Pipeline, _ = cmd.Flags().GetString("pipeline")
		if id, _ := cmd.Flags().GetString("preset"); id != "" {
			state, err := dash.Presets().Apply(id)
			if err != nil {
				return err
			}
			opts.Pipeline = string(state.Pipeline)
			opts.State = state
		}
		if opts.Pipeline == "" {
			opts.Pipeline = string(dashboard.PipelineDomain)
		}

		logging.Quiet()
		return tui.Run(cmd.Context(), dash, opts)
	},
}

func init() {
	browseCmd.Flags().StringP("pipeline", "p", "", "pipeline to open: domain or actor")
	browseCmd.Flags().String("preset", "", "open a named preset")
	rootCmd.AddCommand(browseCmd)
}
