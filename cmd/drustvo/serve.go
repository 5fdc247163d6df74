package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/drustvo/internal/api"
	"github.com/erazemk/drustvo/internal/auth"
	"github.com/erazemk/drustvo/internal/graph"
	"github.com/erazemk/drustvo/internal/metrics"
	"github.com/erazemk/drustvo/internal/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides config)")
}

func serve(ctx context.Context) error {
	cfg, log, database, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	log.Info("database ready", zap.String("path", cfg.Database.Path))

	// Without a configured secret, use the one kept in the database
	// (generated on first run).
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if secret, err = store.SigningSecret(context.Background(), database); err != nil {
			return err
		}
	}
	if n, err := store.PruneRevokedTokens(context.Background(), database); err != nil {
		log.Warn("pruning revoked tokens", zap.Error(err))
	} else if n > 0 {
		log.Info("pruned revoked tokens", zap.Int64("count", n))
	}

	issuer, err := auth.NewIssuer(secret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	schema := graph.NewSchema(&graph.Resolver{
		DB:               database,
		Log:              log.Named("graph"),
		Metrics:          m,
		TrustClientTotal: cfg.Scoring.TrustClientTotal,
	})
	if cfg.Scoring.TrustClientTotal {
		log.Warn("storing client-submitted evaluation totals without checking them")
	}

	handler := api.NewRouter(api.Options{
		DB:           database,
		Issuer:       issuer,
		Schema:       schema,
		Log:          log.Named("http"),
		Metrics:      m,
		MetricsPath:  cfg.Metrics.Path,
		SecureCookie: cfg.Auth.SecureCookie,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped, closing database")
	return nil
}
