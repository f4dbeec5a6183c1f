package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/betthink/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prediction API over HTTP",
	Long: `Serve starts the HTTP API used by the browser front-end.

Endpoints:
  POST /api/v1/predictions   analyze one match
  GET  /api/v1/sports        supported sports and their categories
  GET  /health               liveness
  GET  /ready                provider readiness
  GET  /metrics              Prometheus metrics

Example:
  betthink serve
  betthink serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	analyzer, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "BetThink API on %s (provider: %s)\n", cfg.Server.Addr, analyzer.Provider().Name())

	srv := server.New(analyzer, analyzer.Provider(), cfg.Server, cfg.RateLimiting)
	return srv.ListenAndServe(ctx)
}
