// internal/commands/presets.go
package prefdash

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/util"
	"github.com/spf13/cobra"
)

var (
	presetHeader = color.New(color.FgYellow, color.Bold).SprintFunc()
	presetID     = color.New(color.FgCyan).SprintFunc()
	presetFilter = color.New(color.FgGreen).SprintFunc()
)

// presetsCmd implements the 'presets' command, which lists the named views
// available to 'render --preset', 'browse --preset' and the web dashboard.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the named dashboard presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		dash, err := newDashboard(GetConfig())
		if err != nil {
			return err
		}
		only, _ := cmd.Flags().GetString("pipeline")
		return listPresets(cmd.OutOrStdout(), dash.Presets(), only)
	},
}

func init() {
	presetsCmd.Flags().StringP("pipeline", "p", "", "only list presets for this pipeline")
	rootCmd.AddCommand(presetsCmd)
}

func listPresets(out io.Writer, presets *dashboard.Presets, only string) error {
	pipelines := dashboard.Pipelines()
	if only != "" {
		p, err := dashboard.LookupPipeline(only)
		if err != nil {
			return err
		}
		pipelines = []dashboard.Pipeline{p}
	}

	width := 0
	for _, p := range presets.List() {
		width = max(width, len(p.ID))
	}

	for i, p := range pipelines {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, presetHeader(p.Label+" presets:"))
		items := presets.For(p.Name)
		if len(items) == 0 {
			fmt.Fprintln(out, "  (none)")
			continue
		}
		for _, item := range items {
			filters := item.Domain
			if item.Actor != "" {
				filters += " / " + item.Actor
			}
			fmt.Fprintf(out, "  %s  %s  %s\n", presetID(util.PadRunes(item.ID, width)), item.Title(), presetFilter("["+filters+"]"))
		}
	}
	return nil
}
