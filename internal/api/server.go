// Package api provides the HTTP API server and handlers for the DayDesk application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/daydeskapp/daydesk-server/internal/ratelimit"
	"github.com/daydeskapp/daydesk-server/internal/service"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	authService     *service.AuthService
	taskService     *service.TaskService
	documentService *service.DocumentService
	calendarService *service.CalendarService
	groupingService *service.GroupingService
	contactService  *service.ContactService
	uploadService   *service.UploadService
	authLimiter     *ratelimit.KeyedRateLimiter
	uploadMaxBytes  int64
	router          *chi.Mux
	logger          *slog.Logger
}

// ServerOptions bundles the handler dependencies for NewServer.
type ServerOptions struct {
	Store           *store.Store
	AuthService     *service.AuthService
	TaskService     *service.TaskService
	DocumentService *service.DocumentService
	CalendarService *service.CalendarService
	GroupingService *service.GroupingService
	ContactService  *service.ContactService
	UploadService   *service.UploadService
	AuthLimiter     *ratelimit.KeyedRateLimiter
	UploadMaxBytes  int64
	Logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts ServerOptions) *Server {
	s := &Server{
		store:           opts.Store,
		authService:     opts.AuthService,
		taskService:     opts.TaskService,
		documentService: opts.DocumentService,
		calendarService: opts.CalendarService,
		groupingService: opts.GroupingService,
		contactService:  opts.ContactService,
		uploadService:   opts.UploadService,
		authLimiter:     opts.AuthLimiter,
		uploadMaxBytes:  opts.UploadMaxBytes,
		router:          chi.NewRouter(),
		logger:          opts.Logger,
	}
	if s.uploadMaxBytes <= 0 {
		s.uploadMaxBytes = 5 << 20
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealthCheck)

		// Auth endpoints. The public ones sit behind a per-IP limiter.
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(s.rateLimitByIP)
				r.Post("/signup", s.handleSignup)
				r.Post("/signin", s.handleSignin)
				r.Post("/verify", s.handleVerifyToken)
				r.Post("/password-reset", s.handlePasswordReset)
				r.Post("/password-reset/confirm", s.handleConfirmPasswordReset)
			})

			r.With(s.optionalAuth).Post("/logout", s.handleLogout)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/profile", s.handleGetProfile)
				r.Put("/profile", s.handleUpdateProfile)
				r.Post("/invite", s.handleInvite)
				r.Get("/invites", s.handleListInvites)
				r.Delete("/account", s.handleDeleteAccount)
				r.Get("/user/{email}", s.handleGetUserByEmail)
				r.Get("/users", s.handleListUsers)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)
			r.Get("/stats", s.handleTaskStats)
			r.Get("/{id}", s.handleGetTask)
			r.Put("/{id}", s.handleUpdateTask)
			r.Delete("/{id}", s.handleDeleteTask)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListDocuments)
			r.Post("/", s.handleCreateDocument)
			r.Get("/insights", s.handleStorageInsights)
			r.Post("/bulk-delete", s.handleBulkDeleteDocuments)
			r.Get("/{id}", s.handleGetDocument)
			r.Put("/{id}", s.handleUpdateDocument)
			r.Delete("/{id}", s.handleDeleteDocument)
			r.Put("/{id}/star", s.handleToggleStar)
			r.Post("/{id}/share", s.handleShareDocument)
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/events", s.handleListEvents)
			r.Post("/events", s.handleCreateEvent)
			r.Get("/events/{id}", s.handleGetEvent)
			r.Put("/events/{id}", s.handleUpdateEvent)
			r.Delete("/events/{id}", s.handleDeleteEvent)
			r.Get("/suggest-slots", s.handleSuggestSlotsQuery)
			r.Post("/suggest-slots", s.handleSuggestSlots)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Delete("/{id}", s.handleDeleteProject)
		})

		r.Route("/workspaces", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListWorkspaces)
			r.Post("/", s.handleCreateWorkspace)
			r.Delete("/{id}", s.handleDeleteWorkspace)
		})

		r.Route("/upload", func(r chi.Router) {
			r.With(s.requireAuth).Post("/profile-picture", s.handleUploadProfilePicture)
			// Serving is public so photo URLs work in plain <img> tags.
			r.Get("/profile-picture/{userID}", s.handleGetProfilePicture)
		})

		r.With(s.rateLimitByIP).Post("/contact", s.handleContact)
	})
}
