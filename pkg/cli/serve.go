package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/cli/config"
	controller "github.com/umbrella-sec/umbrella/pkg/controller/http"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
	"github.com/umbrella-sec/umbrella/pkg/metrics"
	"github.com/umbrella-sec/umbrella/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		authCfg      config.Auth
		databaseCfg  config.Database
		redisCfg     config.Redis
		slackCfg     config.Slack
		dashboardCfg config.Dashboard
	)

	flags := joinFlags(
		serverCfg.Flags(),
		authCfg.Flags(),
		databaseCfg.Flags(),
		redisCfg.Flags(),
		slackCfg.Flags(),
		dashboardCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting umbrella server",
				slog.String("addr", serverCfg.Addr),
				slog.Any("auth", authCfg),
				slog.Any("database", databaseCfg),
				slog.Any("redis", redisCfg),
				slog.Any("slack", slackCfg),
				slog.Any("dashboard", dashboardCfg),
			)

			// Create repository using config
			repo, err := databaseCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			tokenSvc, err := authCfg.Configure()
			if err != nil {
				return err
			}

			cards, err := dashboardCfg.Configure()
			if err != nil {
				return err
			}

			cache, err := redisCfg.ConfigureOptional(ctx)
			if err != nil {
				return err
			}
			if cache != nil {
				defer cache.Close()
			}

			// Create use cases
			authUC := usecase.NewAuth(repo, tokenSvc)

			alertsOpts := []usecase.AlertsOption{}
			if cache != nil {
				alertsOpts = append(alertsOpts, usecase.WithStatsCache(cache))
			}
			if notifier := slackCfg.ConfigureOptional(); notifier != nil {
				alertsOpts = append(alertsOpts, usecase.WithNotifier(notifier))
			} else {
				logger.Warn("Slack notifications disabled. Provide UMBRELLA_SLACK_OAUTH_TOKEN and UMBRELLA_SLACK_CHANNEL to enable them")
			}
			alertsUC := usecase.NewAlerts(repo, alertsOpts...)

			// Create the bootstrap account when configured
			if authCfg.HasBootstrapAccount() {
				if _, err := authUC.EnsureUser(ctx,
					authCfg.BootstrapUsername,
					authCfg.BootstrapEmail,
					authCfg.BootstrapPassword,
					[]string{types.RoleSupervisor},
				); err != nil {
					return goerr.Wrap(err, "failed to create bootstrap account")
				}
			}

			// Create HTTP server
			server, err := controller.NewServer(
				ctx,
				serverCfg.Addr,
				authUC,
				alertsUC,
				cards,
				metrics.New(),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
