// Package server exposes the viewer pipeline over a local HTTP API:
// page loads, sidebar and palette queries, preferences, raw content,
// and a websocket channel for live reload.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/zhelev-dev/docview/internal/content"
	"github.com/zhelev-dev/docview/internal/store"
	"github.com/zhelev-dev/docview/internal/viewer"
)

// Config holds server configuration.
type Config struct {
	Port       int
	ContentDir string // markdown corpus root, served under /content/
	AllowAll   bool   // allow all CORS origins (dev mode)
}

// Server wires the viewer, preferences and live-reload hub behind a
// chi router.
type Server struct {
	cfg        Config
	viewer     *viewer.Viewer
	session    *viewer.Session
	prefs      *store.Prefs
	entries    []content.Entry
	hub        *Hub
	router     chi.Router
	httpServer *http.Server
}

// New creates a server around an assembled viewer.
func New(cfg Config, v *viewer.Viewer, prefs *store.Prefs) *Server {
	s := &Server{
		cfg:     cfg,
		viewer:  v,
		session: viewer.NewSession(),
		prefs:   prefs,
		entries: v.Index().Entries(),
		hub:     NewHub(),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.registerRoutes(r)

	r.Get("/ws", s.hub.Serve)

	if s.cfg.ContentDir != "" {
		fs := http.FileServer(http.Dir(s.cfg.ContentDir))
		r.Handle("/content/*", http.StripPrefix("/content/", fs))
	}

	r.Get("/", s.serveShell)

	return r
}

// Router returns the chi router for tests and embedding.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live-reload hub so the watcher can broadcast.
func (s *Server) Hub() *Hub { return s.hub }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: the /ws connection is long-lived.
		IdleTimeout: 120 * time.Second,
	}

	log.Printf("docview listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
