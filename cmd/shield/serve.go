package main

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/azan1ud/landlordshield/internal/certs"
	"github.com/azan1ud/landlordshield/internal/metrics"
	"github.com/azan1ud/landlordshield/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deadline feed over HTTP",
		Long: `Serve a subscribable calendar feed and a JSON API:

  /calendar.ics     every deadline as an iCalendar feed
  /api/deadlines    deadline feed (?limit=N, ?all=true)
  /api/compliance   readiness scores (?property=ID)
  /api/threshold    digital tax phase (?gross_a=&gross_b=&joint=&shielded=)
  /api/report       scores, deadlines and threshold in one document
  /metrics          Prometheus metrics
  /healthz          liveness check`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from server.addr)")
	cmd.Flags().Bool("tls", false, "serve HTTPS with a self-signed localhost certificate")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.tls", cmd.Flags().Lookup("tls"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, _, eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := server.Config{
		Income:        settings.Income,
		Addr:          settings.ServerAddr,
		OwnerID:       settings.OwnerID,
		CalendarName:  calendarName,
		UpcomingLimit: settings.UpcomingLimit,
	}

	if viper.GetBool("server.tls") {
		configDir, err := configDirectory()
		if err != nil {
			return err
		}
		manager := certs.NewFileManager(filepath.Join(configDir, "certs"))
		cfg.TLS = manager
		slog.Info("Serving HTTPS; trust this certificate in your calendar client", "cert", manager.CertFile())
	}

	srv := server.New(cfg, eng, metrics.New(), settings.Clock, slog.Default())

	return srv.Run(ctx)
}
