package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/daydeskapp/daydesk-server/internal/api"
	"github.com/daydeskapp/daydesk-server/internal/config"
	"github.com/daydeskapp/daydesk-server/internal/logger"
	"github.com/daydeskapp/daydesk-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	authLimiter := do.MustInvoke[*AuthLimiter](i)
	log := do.MustInvoke[*logger.Logger](i)

	handler := api.NewServer(api.ServerOptions{
		Store:           storeHandle.Store,
		AuthService:     do.MustInvoke[*service.AuthService](i),
		TaskService:     do.MustInvoke[*service.TaskService](i),
		DocumentService: do.MustInvoke[*service.DocumentService](i),
		CalendarService: do.MustInvoke[*service.CalendarService](i),
		GroupingService: do.MustInvoke[*service.GroupingService](i),
		ContactService:  do.MustInvoke[*service.ContactService](i),
		UploadService:   do.MustInvoke[*service.UploadService](i),
		AuthLimiter:     authLimiter.KeyedRateLimiter,
		UploadMaxBytes:  cfg.Upload.MaxBytes,
		Logger:          log.Logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
