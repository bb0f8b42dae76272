package providers

import (
	"github.com/samber/do/v2"

	"github.com/vantagepoint/vantage-admin/internal/config"
	"github.com/vantagepoint/vantage-admin/internal/logger"
	"github.com/vantagepoint/vantage-admin/internal/session"
	"github.com/vantagepoint/vantage-admin/internal/store"
)

// StoreHandle wraps the local database with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the local database holding the session tokens and the
// flat menu items.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s, err := store.New(cfg.Storage.DBPath(), log.Logger)
	if err != nil {
		return nil, err
	}
	return &StoreHandle{Store: s}, nil
}

// ProvideSessionStore persists the token pair in the local database.
func ProvideSessionStore(i do.Injector) (session.Store, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	return session.NewBadgerStore(storeHandle.Store), nil
}
