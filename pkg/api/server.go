package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/cbodonnell/snake/pkg/api/handlers"
	"github.com/cbodonnell/snake/pkg/api/middleware"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/repositories"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port       int
	TLS        *TLSConfig
	Sessions   handlers.SessionController
	Streamer   handlers.SessionStreamer
	Repository repositories.Repository
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewRouter registers the API routes
func NewRouter(opts NewAPIServerOptions) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger, middleware.CORS)

	r.HandleFunc("/sessions", handlers.HandleCreateSession(opts.Sessions)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/sessions", handlers.HandleListSessions(opts.Sessions)).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{sessionID}", handlers.HandleGetSession(opts.Sessions)).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{sessionID}", handlers.HandleDeleteSession(opts.Sessions)).Methods(http.MethodDelete, http.MethodOptions)
	r.HandleFunc("/sessions/{sessionID}/direction", handlers.HandleSetDirection(opts.Sessions)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/sessions/{sessionID}/pause", handlers.HandleSetPaused(opts.Sessions)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/sessions/{sessionID}/restart", handlers.HandleRestart(opts.Sessions)).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/sessions/{sessionID}/ws", handlers.HandleSessionStream(opts.Sessions, opts.Streamer)).Methods(http.MethodGet)

	r.HandleFunc("/scores", handlers.HandleListScores(opts.Repository)).Methods(http.MethodGet)
	r.HandleFunc("/scores/{sessionID}", handlers.HandleGetScore(opts.Repository)).Methods(http.MethodGet)

	return r
}

// Start starts the APIServer. Requests, including open websocket streams,
// are cancelled when ctx is done.
func (s *APIServer) Start(ctx context.Context) {
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }

	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
