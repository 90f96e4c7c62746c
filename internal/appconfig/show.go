package appconfig

import (
	"fmt"
	"io"

	"github.com/mwiater/prefdash/internal/dataset"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}
	loader := dataset.Loader{Paths: cfg.DatasetPaths()}
	width, height := cfg.ChartSize()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Domain dataset:  %s\n", loader.Path(dataset.DomainLevel))
	fmt.Fprintf(out, "  Country dataset: %s\n", loader.Path(dataset.CountryLevel))
	fmt.Fprintf(out, "  Listen:          %s\n", cfg.Addr())
	fmt.Fprintf(out, "  Session Store:   %s\n", cfg.SessionStore())
	if path := cfg.SessionPath(); path != "" {
		fmt.Fprintf(out, "  Session Path:    %s\n", path)
	}
	if cfg.PresetsFile != "" {
		fmt.Fprintf(out, "  Presets File:    %s\n", cfg.PresetsFile)
	} else {
		fmt.Fprintln(out, "  Presets File:    (built-in presets)")
	}
	fmt.Fprintf(out, "  Stacked:         %v\n", cfg.Stacked)
	fmt.Fprintf(out, "  Chart Size:      %dx%d\n", width, height)
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
}
