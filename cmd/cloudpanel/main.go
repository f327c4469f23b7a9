package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	firewalladapter "github.com/ericfisherdev/cloudpanel/internal/adapter/driven/firewall"
	githubadapter "github.com/ericfisherdev/cloudpanel/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/cloudpanel/internal/adapter/driven/sqlite"
	verceladapter "github.com/ericfisherdev/cloudpanel/internal/adapter/driven/vercel"
	httphandler "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web"
	"github.com/ericfisherdev/cloudpanel/internal/application"
	"github.com/ericfisherdev/cloudpanel/internal/config"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/cloudpanel/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on malformed env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"hosting_api", cfg.HostingAPIURL,
		"firewall", cfg.FirewallURL,
		"http_cache", cfg.HTTPCache,
		"github_repo", cfg.GitHubRepo,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", db.Path())

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Metrics registry.
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reg := metrics.New(promReg)

	// 6. Wire adapters.
	activityStore := sqliteadapter.NewActivityRepo(db)
	firewallClient := firewalladapter.NewClient(cfg.FirewallURL, reg)
	hostingFactory := verceladapter.NewFactory(vercelOptions(cfg, reg))

	var issues driven.IssueTracker
	if cfg.HasGitHubIssues() {
		issues = githubadapter.NewClient(cfg.GitHubToken, reg)
		slog.Info("github issues enabled", "repo", cfg.GitHubRepo)
	} else {
		slog.Info("github issues disabled, set CLOUDPANEL_GITHUB_TOKEN and CLOUDPANEL_GITHUB_REPO to enable")
	}

	// 7. Application services.
	sessions := application.NewSessionStore(hostingFactory, reg, cfg.SessionIdleTimeout)
	dispatcher := application.NewDispatcher(firewallClient, activityStore, reg, slog.Default())

	// 8. Register API and GUI routes on one mux.
	mux := http.NewServeMux()
	metricsHandler := promhttp.HandlerFor(promReg, promhttp.HandlerOpts{Registry: promReg})
	apiHandler := httphandler.NewHandler(dispatcher, activityStore, cfg.ActivityLimit, metricsHandler, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(sessions, dispatcher, activityStore, cfg.ActivityLimit, config.EnvTokens{}, issues, cfg.GitHubRepo, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("cloudpanel started", "listen_addr", cfg.ListenAddr, "routes", len(dispatcher.Routes()))

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func vercelOptions(cfg *config.Config, reg *metrics.Registry) verceladapter.Options {
	return verceladapter.Options{
		BaseURL: cfg.HostingAPIURL,
		Cache:   cfg.HTTPCache,
		Metrics: reg,
	}
}
