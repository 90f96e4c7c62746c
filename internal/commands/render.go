// internal/commands/render.go
package prefdash

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwiater/prefdash/internal/appconfig"
	"github.com/mwiater/prefdash/internal/chart"
	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/mwiater/prefdash/internal/logging"
	"github.com/mwiater/prefdash/internal/util"
	"github.com/spf13/cobra"
)

// filterFlags maps render flags to the columns they choose values for.
var filterFlags = []struct {
	name   string
	column dataset.Column
}{
	{"domain", dataset.ColumnDomain},
	{"answer", dataset.ColumnAnswer},
	{"actor", dataset.ColumnActor},
	{"model", dataset.ColumnModel},
}

// renderOptions is one render request. Filters holds only the columns the
// caller chose; an empty list selects nothing.
type renderOptions struct {
	Pipeline string
	Preset   string
	Filters  map[dataset.Column][]string
	Stacked  bool
	Format   string
	Output   string
}

// renderCmd implements the 'render' command, which runs one dashboard pass and
// writes the result without starting a server.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one dashboard view as text, JSON, SVG or PNG",
	Long: `The 'render' command runs a single pass of the filter cascade and writes the charts.
Unset filters default to every available value (the first three models on the country-level view).
Pass an empty value, for example --model "", to select nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := renderOptions{Filters: make(map[dataset.Column][]string)}
		opts.Pipeline, _ = cmd.Flags().GetString("pipeline")
		opts.Preset, _ = cmd.Flags().GetString("preset")
		opts.Format, _ = cmd.Flags().GetString("format")
		opts.Output, _ = cmd.Flags().GetString("output")
		opts.Stacked = StackedEnabled()
		for _, f := range filterFlags {
			if !cmd.Flags().Changed(f.name) {
				continue
			}
			values, _ := cmd.Flags().GetStringSlice(f.name)
			opts.Filters[f.column] = values
		}

		logging.Quiet()
		return runRender(cmd.OutOrStdout(), GetConfig(), opts)
	},
}

func init() {
	renderCmd.Flags().StringP("pipeline", "p", "", "pipeline to render: domain or actor (default domain)")
	renderCmd.Flags().String("preset", "", "start from a named preset (see 'prefdash presets')")
	renderCmd.Flags().StringSlice("domain", nil, "domain to show")
	renderCmd.Flags().StringSlice("answer", nil, "response types to include")
	renderCmd.Flags().StringSlice("actor", nil, "actors to include (actor pipeline)")
	renderCmd.Flags().StringSlice("model", nil, "models to include")
	renderCmd.Flags().StringP("format", "f", "text", "output format: text, json, svg or png")
	renderCmd.Flags().StringP("output", "o", "", "output file; images for several charts get a numeric suffix")

	rootCmd.AddCommand(renderCmd)
}

func runRender(out io.Writer, cfg *appconfig.Config, opts renderOptions) error {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "text"
	}
	var imageFormat chart.Format
	if format != "text" && format != "json" {
		f, err := chart.ParseFormat(format)
		if err != nil {
			return fmt.Errorf("unsupported format %q (expected text, json, svg or png)", opts.Format)
		}
		imageFormat = f
	}

	dash, err := newDashboard(cfg)
	if err != nil {
		return err
	}
	state, err := renderState(dash.Presets(), opts)
	if err != nil {
		return err
	}

	view, _, err := dash.View(string(state.Pipeline), state)
	if err != nil {
		return err
	}
	logging.LogRender(string(view.Pipeline), "cli", string(view.Outcome), map[string]any{
		"domain": view.Domain,
		"rows":   view.Rows,
		"charts": len(view.Charts()),
	})

	switch format {
	case "text":
		return writeOutput(out, opts.Output, []byte(textView(view)))
	case "json":
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(out, opts.Output, append(data, '\n'))
	default:
		width, height := cfg.ChartSize()
		return writeImages(out, opts.Output, view, imageFormat, width, height)
	}
}

// renderState builds the selection from a preset and explicit filters, which
// win over the preset's choices.
func renderState(presets *dashboard.Presets, opts renderOptions) (dashboard.SelectionState, error) {
	name := strings.TrimSpace(opts.Pipeline)
	if name == "" {
		name = string(dashboard.PipelineDomain)
	}
	p, err := dashboard.LookupPipeline(name)
	if err != nil {
		return dashboard.SelectionState{}, err
	}
	state := dashboard.NewState(p.Name)

	if opts.Preset != "" {
		preset, err := presets.Lookup(opts.Preset)
		if err != nil {
			return dashboard.SelectionState{}, err
		}
		if opts.Pipeline != "" && preset.Pipeline != p.Name {
			return dashboard.SelectionState{}, fmt.Errorf("preset %q belongs to the %s pipeline, not %s", preset.ID, preset.Pipeline, p.Name)
		}
		p, _ = dashboard.LookupPipeline(string(preset.Pipeline))
		state = preset.State()
	}

	for column, values := range opts.Filters {
		if _, ok := p.Stage(column); !ok {
			return dashboard.SelectionState{}, fmt.Errorf("the %s pipeline has no %s filter", p.Name, column)
		}
		state = state.With(column, nonBlank(values))
	}
	return state.WithStacked(opts.Stacked), nil
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func textView(view dashboard.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", view.Label)
	for _, s := range view.Stages {
		fmt.Fprintf(&b, "  %s %s\n", util.PadRunes(s.Label+":", 20), util.JoinOr(s.Selected, ", ", "(none)"))
	}
	if view.Heading != "" {
		fmt.Fprintf(&b, "\n%s\n", view.Heading)
	}
	if view.Explanation != "" {
		fmt.Fprintf(&b, "%s\n", util.WrapToWidth(view.Explanation, 80))
	}
	if view.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", view.Message)
	}
	for _, p := range view.Panels {
		b.WriteString("\n")
		if p.Chart == nil {
			fmt.Fprintf(&b, "%s\n", p.Message)
			continue
		}
		b.WriteString(chart.Text(*p.Chart, 40))
	}
	return b.String()
}

func writeOutput(out io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := out.Write(data)
		return err
	}
	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

func writeImages(out io.Writer, path string, view dashboard.View, format chart.Format, width, height int) error {
	charts := view.Charts()
	if len(charts) == 0 {
		msg := view.Message
		if msg == "" {
			msg = "nothing to draw"
		}
		return errors.New(msg)
	}
	if path == "" && len(charts) > 1 {
		return fmt.Errorf("the view has %d charts; use --output to name the files", len(charts))
	}
	for i, c := range charts {
		if path == "" {
			return chart.Render(c, format, width, height, out)
		}
		target := imagePath(path, i, len(charts))
		if dir := filepath.Dir(target); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		f, err := os.Create(target)
		if err != nil {
			return err
		}
		if err := chart.Render(c, format, width, height, f); err != nil {
			f.Close()
			return fmt.Errorf("render %s: %w", c.Title, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", target)
	}
	return nil
}

// imagePath returns path for a single chart and path with a -N suffix before
// the extension otherwise.
func imagePath(path string, index, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), index+1, ext)
}
