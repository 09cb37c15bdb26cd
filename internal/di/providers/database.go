package providers

import (
	"github.com/samber/do/v2"

	"github.com/daydeskapp/daydesk-server/internal/config"
	"github.com/daydeskapp/daydesk-server/internal/logger"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

// StoreHandle wraps the store with lifecycle management.
type StoreHandle struct {
	*store.Store
}

// Shutdown closes the database when the injector shuts down.
func (h *StoreHandle) Shutdown() error {
	return h.Store.Close()
}

// ProvideStore provides the Badger-backed data store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	s, err := store.New(cfg.DatabasePath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database opened", "path", cfg.DatabasePath())

	return &StoreHandle{Store: s}, nil
}
