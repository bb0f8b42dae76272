// Package main runs the in-memory development backend.
//
// Usage:
//
//	DEVSERVER_ADMIN_PASSWORD=secret123 go run ./cmd/devserver --seed-menu
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/vantagepoint/vantage-admin/internal/config"
	"github.com/vantagepoint/vantage-admin/internal/di"
	"github.com/vantagepoint/vantage-admin/internal/di/providers"
	"github.com/vantagepoint/vantage-admin/internal/logger"
)

func main() {
	var (
		flags    config.Flags
		seedMenu bool
	)

	rootCmd := &cobra.Command{
		Use:           "devserver",
		Short:         "In-memory stand-in for the blog REST backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), flags, seedMenu)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&flags.EnvFile, "env-file", "", "path to the .env file (default: .env)")
	f.StringVar(&flags.Env, "env", "", "environment: development, staging or production")
	f.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	f.StringVar(&flags.DataPath, "data", "", "data directory holding the token key (default: ~/.vantage)")
	f.StringVar(&flags.Port, "port", "", "listen port (default: 8090)")
	f.StringVar(&flags.AdminEmail, "admin-email", "", "accepted sign-in email")
	f.StringVar(&flags.AdminPassword, "admin-password", "", "accepted sign-in password")
	f.StringVar(&flags.AccessTokenDuration, "access-ttl", "", "access token lifetime (default: 15m)")
	f.StringVar(&flags.RefreshTokenDuration, "refresh-ttl", "", "refresh token lifetime (default: 720h)")
	f.BoolVar(&seedMenu, "seed-menu", false, "create a demo menu type with nested items")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "devserver: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, flags config.Flags, seedMenu bool) error {
	injector := di.NewContainer(flags)

	handle, err := do.Invoke[*providers.DevServerHandle](injector)
	if err != nil {
		return err
	}
	log := do.MustInvoke[*logger.Logger](injector)
	cfg := do.MustInvoke[*config.Config](injector)

	if seedMenu {
		if err := seed(ctx, handle); err != nil {
			return fmt.Errorf("seed menu: %w", err)
		}
		log.Info("Demo menu seeded", "type", demoMenuType.ID)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Dev server starting", "addr", handle.HTTP.Addr, "admin", cfg.DevServer.AdminEmail)
		if err := handle.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down dev server...")
	}

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
	return nil
}
