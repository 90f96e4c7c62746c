// internal/commands/serve.go
package prefdash

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwiater/prefdash/internal/dataset"
	"github.com/mwiater/prefdash/internal/server"
	"github.com/mwiater/prefdash/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd implements the 'serve' command, which runs the HTTP dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long:  `The 'serve' command starts the web dashboard. Each browser session keeps its own filter selections; the session store decides whether they survive between requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		dash, err := newDashboard(cfg)
		if err != nil {
			return err
		}

		store, err := session.Open(cfg.SessionStore(), cfg.SessionPath())
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := dash.Cache().Warm(ctx, dataset.DomainLevel, dataset.CountryLevel); err != nil {
			return err
		}

		width, height := cfg.ChartSize()
		srv := server.New(dash, store, server.Options{
			Stacked:     cfg.Stacked,
			ChartWidth:  width,
			ChartHeight: height,
		})
		return srv.ListenAndServe(ctx, cfg.Addr())
	},
}

func init() {
	serveCmd.Flags().String("host", "", "address to listen on (default 127.0.0.1)")
	serveCmd.Flags().Int("port", 0, "port to listen on (default 8501)")
	serveCmd.Flags().String("sessionStore", "", "session store: none, memory, file or sqlite")
	serveCmd.Flags().String("sessionPath", "", "session directory (file) or database (sqlite)")

	_ = viper.BindPFlag("listen.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("listen.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("session.store", serveCmd.Flags().Lookup("sessionStore"))
	_ = viper.BindPFlag("session.path", serveCmd.Flags().Lookup("sessionPath"))

	rootCmd.AddCommand(serveCmd)
}
