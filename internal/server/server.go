package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/folioworks/portfolio/config"
	"github.com/folioworks/portfolio/internal/db"
	"github.com/folioworks/portfolio/internal/handlers"
	"github.com/folioworks/portfolio/internal/metrics"
	"github.com/folioworks/portfolio/internal/mq"
	"github.com/folioworks/portfolio/internal/profile"
	"github.com/folioworks/portfolio/internal/services"
	"github.com/folioworks/portfolio/internal/session"
	"github.com/folioworks/portfolio/internal/storage"
	"github.com/folioworks/portfolio/internal/store"
	"github.com/folioworks/portfolio/internal/views"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	closers    []func() error
}

// New connects every backend named by cfg and builds the router.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.UsesDevSecret() {
		log.Warn().Msg("SECRET_KEY not set, using the development secret")
	}

	s := &Server{}
	if err := s.build(ctx, cfg); err != nil {
		_ = s.close()
		return nil, err
	}
	return s, nil
}

func (s *Server) build(ctx context.Context, cfg config.Config) error {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	database := store.NewDB(dbConn)
	s.closers = append(s.closers, database.Close)

	sessionStore, err := s.sessionStore(ctx, cfg.Session, database)
	if err != nil {
		return err
	}
	sessions := session.NewManager(
		sessionStore,
		cfg.Session.SecretKey,
		cfg.Session.SecureCookie,
		time.Duration(cfg.Session.TTLHours)*time.Hour,
	)

	var notifier services.Notifier
	events, err := mq.Open(ctx, cfg.Events)
	if err != nil {
		return fmt.Errorf("open events backend: %w", err)
	}
	if events != nil {
		s.closers = append(s.closers, events.Close)
		notifier = mq.NewNotifier(events)
		log.Info().Str("backend", cfg.Events.Backend).Msg("publishing submission events")
	}

	media, err := storage.Open(ctx, cfg.Media)
	if err != nil {
		return fmt.Errorf("open media backend: %w", err)
	}

	tmpl, err := views.New()
	if err != nil {
		return err
	}

	userRepo := store.NewUserRepository(database)
	projectRepo := store.NewProjectRepository(database)
	postRepo := store.NewPostRepository(database)
	videoRepo := store.NewVideoRepository(database)
	contactRepo := store.NewContactRepository(database)
	feedbackRepo := store.NewFeedbackRepository(database)

	authService := services.NewAuthService(userRepo, database)
	userService := services.NewUserService(userRepo, database)
	contentService := services.NewContentService(projectRepo, postRepo, videoRepo)
	submissionService := services.NewSubmissionService(contactRepo, feedbackRepo, database, notifier)
	adminService := services.NewAdminService(userRepo, projectRepo, postRepo, videoRepo, contactRepo, feedbackRepo, database)

	m := metrics.New()

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		handlers.RequestLogger,
		handlers.Recoverer,
		m.Middleware,
		handlers.SecurityHeaders(cfg.Session.SecureCookie),
		middleware.Timeout(requestTimeout),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Method(http.MethodGet, "/metrics", m.Handler())
	if media != nil {
		router.Route("/media", func(r chi.Router) {
			handlers.MediaRouter(r, handlers.NewMediaHandler(media))
		})
		log.Info().Str("backend", cfg.Media.Backend).Str("bucket", media.Bucket()).Msg("serving media")
	}

	router.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)
		handlers.PageRouter(r, handlers.NewPageHandler(
			tmpl, sessions, contentService, submissionService,
			profile.NewFetcher(cfg.Profile.APIBase), cfg.Social,
		))
		handlers.AuthRouter(r, handlers.NewAuthHandler(authService, sessions))
		handlers.ProfileRouter(r, handlers.NewProfileHandler(tmpl, sessions, authService, userService))
		handlers.SubmissionRouter(r, handlers.NewSubmissionHandler(submissionService))
		r.Route("/admin", func(r chi.Router) {
			handlers.AdminRouter(r, handlers.NewAdminHandler(tmpl, sessions, authService, adminService))
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return nil
}

// sessionStore picks the session backend. Expired Postgres sessions are
// pruned once at startup.
func (s *Server) sessionStore(ctx context.Context, cfg config.SessionConfig, database *store.DB) (session.Store, error) {
	switch cfg.Backend {
	case "redis":
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		s.closers = append(s.closers, client.Close)
		return session.NewRedisStore(client), nil
	default:
		repo := store.NewSessionRepository(database)
		if n, err := repo.DeleteExpired(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to prune expired sessions")
		} else if n > 0 {
			log.Info().Int64("count", n).Msg("pruned expired sessions")
		}
		return repo, nil
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases every backend.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if s.httpServer != nil {
		errs = append(errs, s.httpServer.Shutdown(ctx))
	}
	errs = append(errs, s.close())
	return errors.Join(errs...)
}

func (s *Server) close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
