// internal/commands/validate.go
package prefdash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mwiater/prefdash/internal/appconfig"
	"github.com/mwiater/prefdash/internal/dashboard"
	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/mwiater/prefdash/internal/filter"
	"github.com/spf13/cobra"
)

var (
	okMark   = color.New(color.FgGreen).SprintFunc()
	warnMark = color.New(color.FgYellow).SprintFunc()
	failMark = color.New(color.FgRed).SprintFunc()
)

// errValidation is returned when any dataset or the presets file is unusable.
var errValidation = errors.New("validation failed")

// validateCmd implements the 'validate' command, which parses every configured
// dataset and the presets file and reports what it found.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the datasets and presets file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.Context(), cmd.OutOrStdout(), GetConfig())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(ctx context.Context, out io.Writer, cfg *appconfig.Config) error {
	failed := false

	presets := dashboard.DefaultPresets()
	if cfg.PresetsFile != "" {
		loaded, err := dashboard.LoadPresets(cfg.PresetsFile)
		if err != nil {
			fmt.Fprintf(out, "%s presets %s: %v\n", failMark("FAIL"), cfg.PresetsFile, err)
			failed = true
		} else {
			presets = loaded
			fmt.Fprintf(out, "%s presets %s: %d presets\n", okMark("OK"), cfg.PresetsFile, len(loaded.List()))
		}
	}

	cache := dataset.NewCache(dataset.Loader{Paths: cfg.DatasetPaths()})
	// failures are reported per dataset below
	_ = cache.Warm(ctx, dataset.DomainLevel, dataset.CountryLevel)

	domains := make(map[dataset.Name][]string)
	for _, name := range []dataset.Name{dataset.DomainLevel, dataset.CountryLevel} {
		path := cache.Loader().Path(name)
		table, err := cache.Get(name)
		if err != nil {
			fmt.Fprintf(out, "%s %s %s: %v\n", failMark("FAIL"), name.Label(), path, err)
			failed = true
			continue
		}
		columns := []dataset.Column{dataset.ColumnDomain, dataset.ColumnModel, dataset.ColumnAnswer}
		if name == dataset.CountryLevel {
			columns = append(columns, dataset.ColumnActor)
		}
		fmt.Fprintf(out, "%s %s %s: %s rows, fingerprint %016x\n", okMark("OK"), name.Label(), path, humanize.Comma(int64(table.Len())), table.Fingerprint)
		for _, c := range columns {
			values := filter.Options(table.Rows, c)
			fmt.Fprintf(out, "    %-8s %s distinct\n", c, humanize.Comma(int64(len(values))))
		}
		domains[name] = filter.Options(table.Rows, dataset.ColumnDomain)
	}

	for _, p := range presets.List() {
		pipeline, err := dashboard.LookupPipeline(string(p.Pipeline))
		if err != nil {
			continue
		}
		known, ok := domains[pipeline.Dataset]
		if ok && !slices.Contains(known, p.Domain) {
			fmt.Fprintf(out, "%s preset %s: domain %q is not in the %s data\n", warnMark("WARN"), p.ID, p.Domain, pipeline.Dataset.Label())
		}
	}

	if failed {
		return errValidation
	}
	return nil
}
