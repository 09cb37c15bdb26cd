package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/daydeskapp/daydesk-server/internal/auth"
	"github.com/daydeskapp/daydesk-server/internal/config"
	"github.com/daydeskapp/daydesk-server/internal/logger"
	"github.com/daydeskapp/daydesk-server/internal/media/images"
	"github.com/daydeskapp/daydesk-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sender := do.MustInvoke[*SenderHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sender.Sender, publicURL(cfg), log.Logger), nil
}

// publicURL resolves the externally reachable base URL, falling back
// to the local listen address when none is configured.
func publicURL(cfg *config.Config) string {
	if cfg.Server.PublicURL != "" {
		return cfg.Server.PublicURL
	}
	return fmt.Sprintf("http://localhost:%s", cfg.Server.Port)
}

// ProvideTaskService provides the task service.
func ProvideTaskService(i do.Injector) (*service.TaskService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTaskService(storeHandle.Store, log.Logger), nil
}

// ProvideDocumentService provides the document service.
func ProvideDocumentService(i do.Injector) (*service.DocumentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDocumentService(storeHandle.Store, log.Logger), nil
}

// ProvideCalendarService provides the calendar service.
func ProvideCalendarService(i do.Injector) (*service.CalendarService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCalendarService(storeHandle.Store, log.Logger), nil
}

// ProvideGroupingService provides the project and workspace service.
func ProvideGroupingService(i do.Injector) (*service.GroupingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGroupingService(storeHandle.Store, log.Logger), nil
}

// ProvideContactService provides the contact form service.
func ProvideContactService(i do.Injector) (*service.ContactService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sender := do.MustInvoke[*SenderHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewContactService(storeHandle.Store, sender.Sender, cfg.Email.ContactRecipient, log.Logger), nil
}

// ProvideUploadService provides the profile picture upload service.
func ProvideUploadService(i do.Injector) (*service.UploadService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	processor := do.MustInvoke[*images.Processor](i)
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUploadService(storeHandle.Store, processor, storage, publicURL(cfg), log.Logger), nil
}
