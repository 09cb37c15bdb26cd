// Package di provides dependency injection configuration for the DayDesk server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/daydeskapp/daydesk-server/internal/auth"
	"github.com/daydeskapp/daydesk-server/internal/config"
	"github.com/daydeskapp/daydesk-server/internal/di/providers"
	"github.com/daydeskapp/daydesk-server/internal/email"
	"github.com/daydeskapp/daydesk-server/internal/logger"
	"github.com/daydeskapp/daydesk-server/internal/media/images"
	"github.com/daydeskapp/daydesk-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideImageProcessor)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideAuthLimiter)

	// Email layer
	do.Provide(injector, providers.ProvideMailer)
	do.Provide(injector, providers.ProvideSender)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideTaskService)
	do.Provide(injector, providers.ProvideDocumentService)
	do.Provide(injector, providers.ProvideCalendarService)
	do.Provide(injector, providers.ProvideGroupingService)
	do.Provide(injector, providers.ProvideContactService)
	do.Provide(injector, providers.ProvideUploadService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*images.Processor](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.AuthLimiter](injector)
	_ = do.MustInvoke[email.Mailer](injector)
	_ = do.MustInvoke[*providers.SenderHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.TaskService](injector)
	_ = do.MustInvoke[*service.DocumentService](injector)
	_ = do.MustInvoke[*service.CalendarService](injector)
	_ = do.MustInvoke[*service.GroupingService](injector)
	_ = do.MustInvoke[*service.ContactService](injector)
	_ = do.MustInvoke[*service.UploadService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
