package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/duedesk/apiserver/config"
	"github.com/duedesk/apiserver/internal/handlers"
	"github.com/duedesk/apiserver/internal/logger"
	"github.com/duedesk/apiserver/internal/mq"
	"github.com/duedesk/apiserver/internal/services"
	"github.com/duedesk/apiserver/internal/storage"
	"github.com/duedesk/apiserver/internal/store"
	"github.com/duedesk/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	writeTimeout = 15 * time.Second
	// requestTimeout must stay below writeTimeout or the 504 is never sent.
	requestTimeout = 10 * time.Second
)

// Dependencies are the collaborators the router is built from. Nil MQ and
// Storage disable events and exports.
type Dependencies struct {
	Log      *zap.Logger
	MQ       *mq.MQ
	Storage  *storage.Storage
	Registry *prometheus.Registry
	Clock    func() time.Time
}

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	mq         *mq.MQ
	log        *zap.Logger
}

// New constructs a Server with its backends opened from cfg.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	queue, err := mq.Open(ctx, cfg.MQ)
	if err != nil {
		return nil, err
	}
	objects, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		if queue != nil {
			_ = queue.Close()
		}
		return nil, err
	}

	router, err := NewRouter(cfg, Dependencies{Log: log, MQ: queue, Storage: objects})
	if err != nil {
		if queue != nil {
			_ = queue.Close()
		}
		return nil, err
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server configured",
		zap.Int("port", port),
		zap.String("mq_backend", cfg.MQ.Backend),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Bool("seed_examples", cfg.SeedExamples),
	)

	return &Server{
		httpServer: httpServer,
		router:     router,
		mq:         queue,
		log:        log,
	}, nil
}

// NewRouter wires stores, services and handlers into a chi router.
func NewRouter(cfg config.Config, deps Dependencies) (*chi.Mux, error) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	secret := strings.TrimSpace(cfg.SessionSecret)
	if secret == "" {
		generated, err := randomSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
		log.Warn("SESSION_SECRET not set; sessions will not survive a restart")
	}

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	metrics, err := NewHTTPMetrics(HTTPMetricsOptions{Registerer: registerer})
	if err != nil {
		return nil, err
	}

	var publisher services.Publisher
	if deps.MQ != nil {
		publisher = deps.MQ
	}
	var writer services.ObjectWriter
	if deps.Storage != nil {
		writer = deps.Storage
	}

	sessionStore := store.NewSessionStore()
	userDirectory := store.NewUserDirectory()
	subjectRegistry := store.NewSubjectRegistry(cfg.DefaultSubjects)
	policy := services.NewPermissionPolicy()
	events := services.NewEventPublisher(publisher, cfg.MQ.Channel, log.Named("events"))

	userService := services.NewUserService(sessionStore, userDirectory, policy, events, log, services.UserOptions{
		SeedExamples: cfg.SeedExamples,
		Clock:        clock,
	})
	userService.EnsureUser(types.AdminUsername)
	assignmentService := services.NewAssignmentService(userDirectory, policy, events)
	adminService := services.NewAdminService(userDirectory, policy, assignmentService)
	subjectService := services.NewSubjectService(subjectRegistry, policy, events)
	exportService := services.NewExportService(writer, userDirectory, subjectRegistry, policy, events, log.Named("exports"))

	authHandler := handlers.NewAuthHandler(userService, secret, log)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, log)
	adminHandler := handlers.NewAdminHandler(adminService, subjectService, exportService, log)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logger.Middleware(log.Named("http")),
		middleware.Recoverer,
		metrics.Middleware,
		middleware.Timeout(requestTimeout),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	router.Route("/api", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			handlers.SessionRouter(r, authHandler)
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, authHandler)
		})
		r.Route("/assignments", func(r chi.Router) {
			handlers.AssignmentRouter(r, assignmentHandler, authHandler.RequireSession)
		})
		r.Route("/stats", func(r chi.Router) {
			handlers.StatsRouter(r, assignmentHandler, authHandler.RequireSession)
		})
		r.Route("/subjects", func(r chi.Router) {
			handlers.SubjectRouter(r, subjectService)
		})
		r.Route("/admin", func(r chi.Router) {
			handlers.AdminRouter(r, adminHandler, authHandler.RequireSession)
		})
	})

	return router, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the message queue.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.mq != nil {
		if closeErr := s.mq.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

func randomSecret() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
