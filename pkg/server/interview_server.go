package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/traego/interview-mate/pkg/config"
	"github.com/traego/interview-mate/pkg/interview"
	"github.com/traego/interview-mate/pkg/mate"
	"github.com/traego/interview-mate/pkg/server/httphandlers"
	"github.com/traego/interview-mate/pkg/session"
	"github.com/traego/interview-mate/pkg/session/store"
)

// InterviewServer wires the session store, repository, actor cache and
// orchestrator behind an HTTP surface
type InterviewServer struct {
	config       *config.ServerConfig
	kv           store.KVStore
	repository   *session.Repository
	orchestrator *interview.Orchestrator
	handler      *httphandlers.InterviewHandler

	httpServer *http.Server

	// User-provided router (optional)
	userRouter chi.Router

	// User-provided actor factory (optional)
	actorFactory interview.ActorFactory

	// Store the handler for reuse
	internalHandler http.Handler
}

// InterviewServerOption represents an option for the interview server
type InterviewServerOption func(*InterviewServer)

// WithRouter allows the user to provide a chi router for handler
// registration. This is useful when mounting the interview routes in an
// existing application.
func WithRouter(router chi.Router) InterviewServerOption {
	return func(s *InterviewServer) {
		s.userRouter = router
	}
}

// WithActorFactory overrides how interview actors are constructed from
// credentials
func WithActorFactory(factory interview.ActorFactory) InterviewServerOption {
	return func(s *InterviewServer) {
		s.actorFactory = factory
	}
}

// WithStore overrides the session store, ignoring the Redis/in-memory
// configuration
func WithStore(kv store.KVStore) InterviewServerOption {
	return func(s *InterviewServer) {
		s.kv = kv
	}
}

// NewInterviewServer creates a new interview server
func NewInterviewServer(cfg *config.ServerConfig, options ...InterviewServerOption) (*InterviewServer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	server := &InterviewServer{config: cfg}

	// Apply options
	for _, opt := range options {
		opt(server)
	}

	if server.kv == nil {
		switch {
		case cfg.Session.UseInMemory:
			server.kv = store.NewMemoryKVStore()
		case cfg.Redis != nil:
			server.kv = store.NewRedisKVStore(store.RedisOptions{
				Addr:      cfg.Redis.Addr,
				Username:  cfg.Redis.Username,
				Password:  cfg.Redis.Password,
				DB:        cfg.Redis.DB,
				EnableTLS: cfg.Redis.EnableTLS,
				OpTimeout: cfg.Redis.OpTimeout,
			})
		default:
			return nil, fmt.Errorf("no session store configured: set Redis or Session.UseInMemory")
		}
	}

	if server.actorFactory == nil {
		server.actorFactory = mate.NewFactory(cfg.Interview)
	}

	server.repository = session.NewRepository(server.kv, cfg.Session.KeyPrefix, cfg.Session.TTL)
	server.orchestrator = interview.NewOrchestrator(server.repository, interview.NewActorCache(server.actorFactory))
	server.handler = httphandlers.NewInterviewHandler(server.orchestrator, cfg.Interview.DefaultQuestionsPerRound)
	server.internalHandler = server.createHTTPHandler()

	return server, nil
}

// Orchestrator exposes the underlying orchestrator, mainly for embedding the
// server into another application
func (s *InterviewServer) Orchestrator() *interview.Orchestrator {
	return s.orchestrator
}

// Start starts the HTTP server. It returns once the listener is running.
func (s *InterviewServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.HTTP.Host, s.config.HTTP.Port)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.internalHandler,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "HTTP server error", "error", err)
		}
	}()

	slog.InfoContext(ctx, "Interview server started",
		"address", addr,
		"server", s.config.ServerInfo.Name,
		"version", s.config.ServerInfo.Version)
	return nil
}

// Stop stops the HTTP server and closes the session store
func (s *InterviewServer) Stop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		slog.InfoContext(ctx, "Stopping HTTP server")
		if err := s.httpServer.Shutdown(ctx); err != nil {
			slog.Error("Failed to shutdown HTTP server", "err", err)
		}
	}

	if err := s.kv.Close(); err != nil {
		slog.Error("Failed to close session store", "err", err)
	}
}

// ServeHTTP implements http.Handler, allowing the interview server to be
// used directly as a handler
func (s *InterviewServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.internalHandler.ServeHTTP(w, r)
}

// createHTTPHandler creates the HTTP handler for the interview server
func (s *InterviewServer) createHTTPHandler() http.Handler {
	var r chi.Router

	if s.userRouter != nil {
		// Use the router provided by the user
		r = s.userRouter
		slog.Info("Using user-provided chi router")
	} else {
		// Create a new router with our default middleware
		r = chi.NewRouter()

		// Add default middleware
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(s.loggingMiddleware)
		r.Use(middleware.Recoverer) // Recover from panics

		// CORS middleware if needed
		if s.config.HTTP.CORS.Enable {
			corsOptions := cors.Options{
				AllowedOrigins:   s.config.HTTP.CORS.AllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   s.config.HTTP.CORS.AllowedHeaders,
				ExposedHeaders:   s.config.HTTP.CORS.ExposedHeaders,
				AllowCredentials: s.config.HTTP.CORS.AllowCredentials,
				MaxAge:           int(s.config.HTTP.CORS.MaxAge.Seconds()),
			}
			r.Use(cors.Handler(corsOptions))
		}
	}

	// Register interview routes on the router (whether provided or created)
	r.Post("/login", s.handler.HandleLogin)
	r.Post("/logout", s.handler.HandleLogout)

	r.Route("/interview", func(r chi.Router) {
		r.Post("/setup", s.handler.HandleSetup)
		r.Get("/question", s.handler.HandleQuestion)
		r.Post("/answer", s.handler.HandleAnswer)
		r.Post("/continue", s.handler.HandleContinue)
		r.Post("/end", s.handler.HandleEnd)
		r.Get("/summary", s.handler.HandleSummary)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// loggingMiddleware logs HTTP requests
func (s *InterviewServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		ctx := r.Context()
		latency := time.Since(start)
		slog.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"latency", latency.String(),
			"remote_addr", r.RemoteAddr,
		)
	})
}
