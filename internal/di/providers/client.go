package providers

import (
	"github.com/samber/do/v2"

	"github.com/vantagepoint/vantage-admin/internal/client"
	"github.com/vantagepoint/vantage-admin/internal/config"
	"github.com/vantagepoint/vantage-admin/internal/logger"
	"github.com/vantagepoint/vantage-admin/internal/session"
)

// ClientHandle wraps the API client with shutdown capability.
type ClientHandle struct {
	*client.Client
}

// Shutdown implements do.Shutdownable.
func (h *ClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideClient provides the backend API client.
func ProvideClient(i do.Injector) (*ClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sessions := do.MustInvoke[session.Store](i)

	c, err := client.New(client.Config{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
		Session:           sessions,
		Logger:            log.Logger,
		OnSessionExpired: func(err error) {
			log.Warn("Session expired, sign in again with 'vantage login'", "error", err)
		},
	})
	if err != nil {
		return nil, err
	}
	return &ClientHandle{Client: c}, nil
}
