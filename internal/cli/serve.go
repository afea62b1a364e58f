package cli

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/waterworks-ph/waterworks/internal/api"
	"github.com/waterworks-ph/waterworks/internal/auth"
	"github.com/waterworks-ph/waterworks/internal/config"
	"github.com/waterworks-ph/waterworks/internal/report"
	"github.com/waterworks-ph/waterworks/internal/service"
	"github.com/waterworks-ph/waterworks/internal/storage/sqlite"
	"github.com/waterworks-ph/waterworks/pkg/logging"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the billing API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logging.Setup()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration())

	srv := api.NewServer(
		store,
		service.NewAuthService(authenticator, jwtManager),
		service.NewBillingService(store, cfg.RateTable(), service.BillingPolicy{
			AllowPartialPayment: cfg.Billing.AllowPartialPayment,
		}),
		service.NewCustomerService(store, cfg.Billing.ConnectionFee),
		service.NewReportService(store),
		report.New(cfg.Utility),
		jwtManager,
	)
	if cfg.Server.Metrics {
		srv.EnableMetrics()
	}

	// h2c lets the console's SSE feeds multiplex over HTTP/2 without TLS;
	// a reverse proxy terminates TLS in front.
	handler := h2c.NewHandler(srv.Handler(), &http2.Server{})

	addr := cfg.Server.Addr()
	slog.Info("Server starting", "address", addr, "utility", cfg.Utility.Name)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	return nil
}
