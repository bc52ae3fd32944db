// Package server assembles the HTTP surface: REST endpoints, the audio
// websocket, and the middleware chain around them.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/retrieve"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/store"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/suggest"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/transcribe"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/config"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/handlers"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/lifecycle"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/live/sessions"
	"github.com/Engineernoob/ai-interview-buddy/pkg/gateway/mw"
)

// Dependencies are the backends the server routes traffic to. Store and
// Transcriber are required; a nil Generator means canned suggestions.
type Dependencies struct {
	Store       store.DocumentStore
	Transcriber transcribe.Transcriber
	Generator   suggest.Generator
	Logger      *slog.Logger
	Lifecycle   *lifecycle.Lifecycle
	Sessions    *sessions.Registry
}

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	router chi.Router

	store       store.DocumentStore
	transcriber transcribe.Transcriber
	retriever   *retrieve.Retriever
	engine      *suggest.Engine
	lifecycle   *lifecycle.Lifecycle
	sessions    *sessions.Registry
}

func New(cfg config.Config, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Store == nil {
		deps.Store = store.NewMemory()
	}
	if deps.Transcriber == nil {
		deps.Transcriber = transcribe.Mock{}
	}
	if deps.Lifecycle == nil {
		deps.Lifecycle = &lifecycle.Lifecycle{}
	}
	if deps.Sessions == nil {
		deps.Sessions = sessions.NewRegistry(logger)
	}

	s := &Server{
		cfg:         cfg,
		logger:      logger,
		router:      chi.NewRouter(),
		store:       deps.Store,
		transcriber: deps.Transcriber,
		retriever:   retrieve.New(deps.Store, logger),
		engine:      suggest.NewEngine(deps.Generator, logger),
		lifecycle:   deps.Lifecycle,
		sessions:    deps.Sessions,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Method(http.MethodGet, "/", handlers.RootHandler{})
	s.router.Method(http.MethodGet, "/healthz", handlers.HealthHandler{})
	s.router.Method(http.MethodGet, "/readyz", handlers.ReadyHandler{
		Config:    s.cfg,
		Lifecycle: s.lifecycle,
	})
	s.router.Method(http.MethodGet, "/api/config", handlers.ConfigHandler{Config: s.cfg})
	s.router.Method(http.MethodPost, "/api/upload", handlers.UploadHandler{
		Config: s.cfg,
		Store:  s.store,
		Logger: s.logger,
	})
	s.router.Method(http.MethodGet, "/ws/audio", handlers.WSHandler{
		Config:      s.cfg,
		Transcriber: s.transcriber,
		Retriever:   s.retriever,
		Engine:      s.engine,
		Logger:      s.logger,
		Lifecycle:   s.lifecycle,
		Sessions:    s.sessions,
	})
	s.router.NotFound(handlers.NotFoundHandler{}.ServeHTTP)
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = mw.CORS(s.cfg, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}

// Lifecycle exposes the drain flag shared with the shutdown path.
func (s *Server) Lifecycle() *lifecycle.Lifecycle {
	return s.lifecycle
}

// Sessions exposes the live session registry for drain coordination.
func (s *Server) Sessions() *sessions.Registry {
	return s.sessions
}
