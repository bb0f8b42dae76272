package providers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/vantagepoint/vantage-admin/internal/auth"
	"github.com/vantagepoint/vantage-admin/internal/config"
	"github.com/vantagepoint/vantage-admin/internal/devserver"
	"github.com/vantagepoint/vantage-admin/internal/logger"
)

// DevServerHandle wraps the dev backend and its http.Server with Shutdownable.
type DevServerHandle struct {
	*devserver.Server
	HTTP *http.Server
}

// Shutdown implements do.Shutdownable.
func (h *DevServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(h.HTTP.Shutdown(ctx), h.Close())
}

// ProvideDevServer builds the dev backend. The token key is kept in the data
// directory so sessions survive a restart. The server is not started; call
// ListenAndServe on HTTP.
func ProvideDevServer(i do.Injector) (*DevServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := cfg.ValidateDevServer(); err != nil {
		return nil, err
	}

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}

	srv, err := devserver.New(devserver.Config{
		AdminEmail:    cfg.DevServer.AdminEmail,
		AdminPassword: cfg.DevServer.AdminPassword,
		AccessTTL:     cfg.DevServer.AccessTokenDuration,
		RefreshTTL:    cfg.DevServer.RefreshTokenDuration,
		Key:           key,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.DevServer.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	return &DevServerHandle{Server: srv, HTTP: httpServer}, nil
}
