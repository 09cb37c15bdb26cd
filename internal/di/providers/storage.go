package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/daydeskapp/daydesk-server/internal/config"
	"github.com/daydeskapp/daydesk-server/internal/logger"
	"github.com/daydeskapp/daydesk-server/internal/media/images"
)

// ProvideImageStorage provides content-addressed storage for profile pictures.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)

	storage, err := images.NewStorage(cfg.UploadsPath())
	if err != nil {
		return nil, fmt.Errorf("creating image storage: %w", err)
	}

	return storage, nil
}

// ProvideImageProcessor provides the profile picture processor.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(storage, log.Logger), nil
}
